package usecase_test

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"log/slog"
	"testing"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/internal/repository/memory"
	"care-recruitment-backend/internal/usecase"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/logger"
	"care-recruitment-backend/pkg/security/antivirus"
	"care-recruitment-backend/pkg/validation"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock collaborators
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, name, contentType, data)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockFileStore) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

// brokenApps wraps a working repository and fails the configured calls.
type brokenApps struct {
	domain.ApplicationRepository
	createErr error
	updateErr error
}

func (b *brokenApps) Create(ctx context.Context, app *domain.Application) error {
	if b.createErr != nil {
		return b.createErr
	}
	return b.ApplicationRepository.Create(ctx, app)
}

func (b *brokenApps) Update(ctx context.Context, id string, upd domain.ApplicationUpdate) (*domain.Application, error) {
	if b.updateErr != nil {
		return nil, b.updateErr
	}
	return b.ApplicationRepository.Update(ctx, id, upd)
}

// captureLogs redirects the process logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.Log = prev })
	return &buf
}

func (m *MockNotifier) ApplicationReceived(ctx context.Context, user *domain.User, app *domain.Application, testID *string) error {
	return m.Called(ctx, user, app, testID).Error(0)
}

type infectedScanner struct{}

func (infectedScanner) Scan(ctx context.Context, filename string, data []byte) antivirus.ScanResult {
	return antivirus.ScanResult{Infected: true, ThreatName: "Eicar-Test-Signature", ScannerName: "stub"}
}

func (infectedScanner) Name() string { return "stub" }

// fixture is a fresh store with every usecase wired to it.
type fixture struct {
	store    *memory.Store
	files    *MockFileStore
	notifier *MockNotifier
	intake   domain.IntakeUsecase
	tests    domain.TestUsecase
	admin    domain.AdminUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		files:    new(MockFileStore),
		notifier: new(MockNotifier),
	}
	f.files.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("uploads/doc", nil).Maybe()
	f.notifier.On("ApplicationReceived", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	f.intake = usecase.NewIntakeUsecase(usecase.IntakeDeps{
		Users:             f.store.Users(),
		Applications:      f.store.Applications(),
		Tests:             f.store.Tests(),
		Files:             f.files,
		Notifier:          f.notifier,
		Validate:          validation.New(),
		MaxUploadBytes:    1 << 20,
		ImageMaxDimension: 64,
	})
	f.tests = usecase.NewTestUsecase(f.store.Tests(), f.store.Applications())
	f.admin = usecase.NewAdminUsecase(f.store.Users(), f.store.Applications(), f.store.Tests(), nil)
	return f
}

func validInput(email, role string) domain.SubmitApplicationInput {
	return domain.SubmitApplicationInput{
		PersonalInfo: domain.PersonalInfo{
			FullName:    "Maria Santos",
			Email:       email,
			Phone:       "+63 912 345 6789",
			Country:     "Philippines",
			City:        "Manila",
			DateOfBirth: "1990-04-12",
			Experience:  "3-5",
		},
		Role: role,
	}
}

func (f *fixture) submit(t *testing.T, email, role string) *domain.SubmitApplicationResult {
	t.Helper()
	res, err := f.intake.Submit(context.Background(), validInput(email, role))
	require.NoError(t, err)
	return res
}

// seedTest stores a test with n questions whose correct answer is always 0.
func (f *fixture) seedTest(t *testing.T, applicationID string, n int) *domain.Test {
	t.Helper()
	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			ID:            "q" + string(rune('a'+i)),
			Question:      "?",
			Options:       []string{"right", "wrong"},
			CorrectAnswer: 0,
		}
	}
	test := &domain.Test{ApplicationID: applicationID, Role: domain.RoleCaregiver, Questions: questions}
	require.NoError(t, f.store.Tests().Create(context.Background(), test))
	return test
}

// answersWithCorrect answers the first k questions correctly and the rest wrong.
func answersWithCorrect(test *domain.Test, k int) map[string]int {
	answers := make(map[string]int, len(test.Questions))
	for i, q := range test.Questions {
		if i < k {
			answers[q.ID] = q.CorrectAnswer
		} else {
			answers[q.ID] = q.CorrectAnswer + 1
		}
	}
	return answers
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// hugePNG declares a 20000x20000 grayscale image in a few kilobytes.
func hugePNG(t *testing.T) []byte {
	t.Helper()
	const side = 20000
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(data)))
		buf.Write(n[:])
		buf.WriteString(typ)
		buf.Write(data)
		binary.BigEndian.PutUint32(n[:], crc32.ChecksumIEEE(append([]byte(typ), data...)))
		buf.Write(n[:])
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], side)
	binary.BigEndian.PutUint32(ihdr[4:8], side)
	ihdr[8] = 8
	chunk("IHDR", ihdr)
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, err := zw.Write(make([]byte, side+1))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	chunk("IDAT", z.Bytes())
	chunk("IEND", nil)
	return buf.Bytes()
}
