package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/imaging"
	"care-recruitment-backend/pkg/logger"
	"care-recruitment-backend/pkg/security"
	"care-recruitment-backend/pkg/security/antivirus"
	"care-recruitment-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// SuccessfulSubmissionMessage is returned with every accepted application.
const SuccessfulSubmissionMessage = "Application submitted successfully"

// IntakeDeps wires the intake usecase.
type IntakeDeps struct {
	Users        domain.UserRepository
	Applications domain.ApplicationRepository
	Tests        domain.TestRepository
	Files        domain.FileStore
	Scanner      antivirus.Scanner
	Notifier     domain.Notifier
	Audit        *security.AuditLogger
	Validate     *validator.Validate

	MaxUploadBytes    int64
	ImageMaxDimension int
}

type intakeUsecase struct {
	deps IntakeDeps
}

func NewIntakeUsecase(deps IntakeDeps) domain.IntakeUsecase {
	if deps.Scanner == nil {
		deps.Scanner = antivirus.NewNoOpScanner()
	}
	if deps.Audit == nil {
		deps.Audit = security.NopAuditLogger()
	}
	return &intakeUsecase{deps: deps}
}

// preparedUpload is a document that passed every check and is ready to store.
type preparedUpload struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func (u *intakeUsecase) Submit(ctx context.Context, input domain.SubmitApplicationInput) (*domain.SubmitApplicationResult, error) {
	input.PersonalInfo = input.PersonalInfo.Normalize()
	input.Role = strings.TrimSpace(input.Role)
	input.AdditionalInfo = strings.TrimSpace(input.AdditionalInfo)

	if err := u.deps.Validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	// Every document is checked before anything is written.
	var uploads []preparedUpload
	for _, doc := range []struct {
		field  string
		upload *domain.Upload
	}{
		{domain.UploadFieldPassport, input.Passport},
		{domain.UploadFieldCredentials, input.Credentials},
	} {
		if doc.upload == nil {
			continue
		}
		prepared, err := u.prepareUpload(ctx, input.Email, doc.field, doc.upload)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, prepared)
	}

	user, err := u.resolveUser(ctx, input.PersonalInfo)
	if err != nil {
		return nil, err
	}

	refs, err := u.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		UserID:         user.ID,
		Role:           input.Role,
		PassportURL:    refs[domain.UploadFieldPassport],
		CredentialsURL: refs[domain.UploadFieldCredentials],
	}
	if input.AdditionalInfo != "" {
		app.AdditionalInfo = &domain.ApplicationNote{Notes: input.AdditionalInfo}
	}
	if err := u.deps.Applications.Create(ctx, app); err != nil {
		u.discardUploads(ctx, refs)
		return nil, fmt.Errorf("create application: %w", err)
	}

	result := &domain.SubmitApplicationResult{
		Success:       true,
		ApplicationID: app.ID,
		Message:       SuccessfulSubmissionMessage,
	}

	if questions, ok := questionsForRole(app.Role); ok {
		test := &domain.Test{
			ApplicationID: app.ID,
			Role:          app.Role,
			Questions:     questions,
		}
		if err := u.deps.Tests.Create(ctx, test); err != nil {
			return nil, fmt.Errorf("create test: %w", err)
		}
		result.TestID = &test.ID
	}

	if u.deps.Notifier != nil {
		if err := u.deps.Notifier.ApplicationReceived(ctx, user, app, result.TestID); err != nil {
			logger.Log.Warn("Confirmation email failed", "application_id", app.ID, "error", err)
		}
	}

	logger.Log.Info("Application submitted", "application_id", app.ID, "role", app.Role, "has_test", result.TestID != nil)
	return result, nil
}

// storeUploads saves every prepared document. If one save fails the ones
// already written are removed again.
func (u *intakeUsecase) storeUploads(ctx context.Context, uploads []preparedUpload) (map[string]*string, error) {
	refs := make(map[string]*string, len(uploads))
	for _, up := range uploads {
		ref, err := u.deps.Files.Save(ctx, up.name, up.contentType, up.data)
		if err != nil {
			u.discardUploads(ctx, refs)
			return nil, fmt.Errorf("store %s: %w", up.field, err)
		}
		refs[up.field] = &ref
	}
	return refs, nil
}

// discardUploads deletes documents no application will reference.
func (u *intakeUsecase) discardUploads(ctx context.Context, refs map[string]*string) {
	ctx = context.WithoutCancel(ctx)
	for field, ref := range refs {
		if err := u.deps.Files.Delete(ctx, *ref); err != nil {
			logger.Log.Error("Orphaned upload not removed", "field", field, "ref", *ref, "error", err)
		}
	}
}

// resolveUser returns the existing user for the email or creates one.
// An existing profile is reused as stored, even if the new form differs.
func (u *intakeUsecase) resolveUser(ctx context.Context, info domain.PersonalInfo) (*domain.User, error) {
	user, err := u.deps.Users.GetByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user = info.NewUser()
	if err := u.deps.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Lost a race with a concurrent submission for the same email.
			return u.deps.Users.GetByEmail(ctx, info.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (u *intakeUsecase) prepareUpload(ctx context.Context, email, field string, up *domain.Upload) (preparedUpload, error) {
	check := security.ValidateFile(up.Filename, up.Data, u.deps.MaxUploadBytes)
	if !check.Valid {
		u.deps.Audit.LogUploadRejected(ctx, email, field, up.Filename, check.Error)
		return preparedUpload{}, apperror.BadRequest(check.Error)
	}

	scan := u.deps.Scanner.Scan(ctx, up.Filename, up.Data)
	if scan.Infected {
		reason := "malware detected: " + scan.ThreatName
		if scan.Error != nil {
			reason = "scan failed: " + scan.Error.Error()
		}
		u.deps.Audit.LogUploadRejected(ctx, email, field, up.Filename, reason)
		return preparedUpload{}, apperror.BadRequest("File rejected by security scan: " + up.Filename)
	}

	data := up.Data
	if security.IsImageExtension(check.Extension) {
		resized, changed, err := imaging.Downscale(data, u.deps.ImageMaxDimension)
		if errors.Is(err, imaging.ErrTooManyPixels) {
			u.deps.Audit.LogUploadRejected(ctx, email, field, up.Filename, err.Error())
			return preparedUpload{}, apperror.BadRequest("Image resolution too large: " + up.Filename)
		}
		if err != nil {
			logger.Log.Warn("Image downscale failed, storing original", "field", field, "error", err)
		} else if changed {
			logger.Log.Debug("Image downscaled", "field", field, "before", len(data), "after", len(resized))
			data = resized
		}
	}

	return preparedUpload{
		field:       field,
		name:        storage.ObjectName(field, up.Filename),
		contentType: http.DetectContentType(data),
		data:        data,
	}, nil
}
