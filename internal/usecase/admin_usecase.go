package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/security"

	"github.com/xuri/excelize/v2"
)

type adminUsecase struct {
	users domain.UserRepository
	apps  domain.ApplicationRepository
	tests domain.TestRepository
	audit *security.AuditLogger
	now   func() time.Time
}

func NewAdminUsecase(users domain.UserRepository, apps domain.ApplicationRepository, tests domain.TestRepository, audit *security.AuditLogger) domain.AdminUsecase {
	if audit == nil {
		audit = security.NopAuditLogger()
	}
	return &adminUsecase{
		users: users,
		apps:  apps,
		tests: tests,
		audit: audit,
		now:   time.Now,
	}
}

func (u *adminUsecase) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	apps, err := u.apps.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.AdminStats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case domain.ApplicationStatusPending:
			stats.Pending++
		case domain.ApplicationStatusTesting:
			stats.Testing++
		case domain.ApplicationStatusApproved:
			stats.Approved++
		case domain.ApplicationStatusRejected:
			stats.Rejected++
		}
		switch app.Role {
		case domain.RoleNurse:
			stats.ByRole.Nurse++
		case domain.RoleMidwife:
			stats.ByRole.Midwife++
		case domain.RoleCaregiver:
			stats.ByRole.Caregiver++
		}
	}
	return stats, nil
}

func (u *adminUsecase) ListApplications(ctx context.Context, status string) ([]domain.ApplicationWithUser, error) {
	if status != "" && status != "all" && !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status filter: " + status)
	}

	apps, err := u.apps.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]*domain.ApplicantProfile)
	result := make([]domain.ApplicationWithUser, 0, len(apps))
	for _, app := range apps {
		if status != "" && status != "all" && app.Status != status {
			continue
		}

		profile, seen := profiles[app.UserID]
		if !seen {
			profile, err = u.profile(ctx, app.UserID)
			if err != nil {
				return nil, err
			}
			profiles[app.UserID] = profile
		}

		summary, err := u.testSummary(ctx, app.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, domain.ApplicationWithUser{
			Application: app,
			User:        profile,
			Test:        summary,
		})
	}
	return result, nil
}

func (u *adminUsecase) GetApplication(ctx context.Context, id string) (*domain.ApplicationWithUser, error) {
	app, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, err
	}

	profile, err := u.profile(ctx, app.UserID)
	if err != nil {
		return nil, err
	}
	summary, err := u.testSummary(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	return &domain.ApplicationWithUser{
		Application: *app,
		User:        profile,
		Test:        summary,
	}, nil
}

func (u *adminUsecase) UpdateStatus(ctx context.Context, id string, status string) (*domain.Application, error) {
	if !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status: " + status)
	}

	current, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, err
	}

	updated, err := u.apps.Update(ctx, id, domain.ApplicationUpdate{Status: &status})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, err
	}

	admin, _ := ctx.Value(domain.KeyAdminUsername).(string)
	u.audit.LogStatusOverride(ctx, id, current.Status, status, admin)
	return updated, nil
}

func (u *adminUsecase) ExportApplications(ctx context.Context, format string) (*domain.ExportFile, error) {
	rows, err := u.ListApplications(ctx, "")
	if err != nil {
		return nil, err
	}

	stamp := u.now().Format("20060102_150405")
	switch format {
	case "csv":
		data, err := exportCSV(rows)
		if err != nil {
			return nil, err
		}
		return &domain.ExportFile{
			Filename:    fmt.Sprintf("applications_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "xlsx", "":
		data, err := exportExcel(rows)
		if err != nil {
			return nil, err
		}
		return &domain.ExportFile{
			Filename:    fmt.Sprintf("applications_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, apperror.BadRequest("Unsupported export format: " + format)
	}
}

func (u *adminUsecase) profile(ctx context.Context, userID string) (*domain.ApplicantProfile, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.ApplicantProfile{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		Phone:       user.Phone,
		Country:     user.Country,
		City:        user.City,
		DateOfBirth: user.DateOfBirth,
		Experience:  user.Experience,
	}, nil
}

func (u *adminUsecase) testSummary(ctx context.Context, applicationID string) (*domain.TestSummary, error) {
	test, err := u.tests.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.TestSummary{Score: test.Score, Completed: test.Completed}, nil
}

var exportHeaders = []string{
	"APPLICATION ID", "SUBMITTED AT", "ROLE", "STATUS", "FULL NAME", "EMAIL",
	"PHONE", "COUNTRY", "CITY", "DATE OF BIRTH", "EXPERIENCE", "TEST SCORE",
	"TEST COMPLETED", "PASSPORT", "CREDENTIALS", "NOTES",
}

func exportRow(row domain.ApplicationWithUser) []string {
	values := []string{
		row.ID,
		row.SubmittedAt.UTC().Format(time.RFC3339),
		row.Role,
		row.Status,
	}
	if p := row.User; p != nil {
		values = append(values, p.FullName, p.Email, p.Phone, p.Country, p.City, p.DateOfBirth, p.Experience)
	} else {
		values = append(values, "", "", "", "", "", "", "")
	}

	score := ""
	if row.TestScore != nil {
		score = strconv.Itoa(*row.TestScore)
	}
	notes := ""
	if row.AdditionalInfo != nil {
		notes = row.AdditionalInfo.Notes
	}
	return append(values,
		score,
		strconv.FormatBool(row.TestCompleted),
		deref(row.PassportURL),
		deref(row.CredentialsURL),
		notes,
	)
}

// exportExcel writes one styled sheet with a header row
func exportExcel(rows []domain.ApplicationWithUser) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range exportRow(row) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(rows []domain.ApplicationWithUser) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(exportRow(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
