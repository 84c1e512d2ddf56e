package domain

import (
	"context"
	"time"
)

// AdminStats contains dashboard statistics
type AdminStats struct {
	Total    int        `json:"total"`
	Pending  int        `json:"pending"`
	Testing  int        `json:"testing"`
	Approved int        `json:"approved"`
	Rejected int        `json:"rejected"`
	ByRole   RoleCounts `json:"byRole"`
}

type RoleCounts struct {
	Nurse     int `json:"nurse"`
	Midwife   int `json:"midwife"`
	Caregiver int `json:"caregiver"`
}

// ApplicantProfile is the user data joined onto admin application rows
type ApplicantProfile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	City        string `json:"city"`
	DateOfBirth string `json:"dateOfBirth"`
	Experience  string `json:"experience"`
}

type TestSummary struct {
	Score     *int `json:"score"`
	Completed bool `json:"completed"`
}

// ApplicationWithUser is an application joined with its applicant and test.
type ApplicationWithUser struct {
	Application
	User *ApplicantProfile `json:"user"`
	Test *TestSummary      `json:"test"`
}

// UpdateStatusRequest is the body of PATCH /api/admin/applications/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending testing approved rejected"`
}

// AdminLoginRequest is the body of POST /api/admin/login
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportFile is a generated download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type AdminUsecase interface {
	GetStats(ctx context.Context) (*AdminStats, error)
	// ListApplications returns all applications; status filters when not empty or "all".
	ListApplications(ctx context.Context, status string) ([]ApplicationWithUser, error)
	GetApplication(ctx context.Context, id string) (*ApplicationWithUser, error)
	// UpdateStatus overrides the status unconditionally.
	UpdateStatus(ctx context.Context, id string, status string) (*Application, error)
	ExportApplications(ctx context.Context, format string) (*ExportFile, error)
}

type AuthUsecase interface {
	Enabled() bool
	Login(ctx context.Context, req AdminLoginRequest) (*AdminToken, error)
	// VerifyToken returns the admin username carried by a valid token.
	VerifyToken(tokenString string) (string, error)
}
