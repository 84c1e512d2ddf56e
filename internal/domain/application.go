package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusTesting  = "testing"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Roles offered on the application form. Role is stored as an open string;
// only RoleCaregiver changes intake behavior.
const (
	RoleNurse     = "nurse"
	RoleMidwife   = "midwife"
	RoleCaregiver = "caregiver"
)

// ApplicationStatuses lists every valid status in dashboard order.
var ApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusTesting,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// IsValidApplicationStatus reports whether status is one of the four lifecycle values.
func IsValidApplicationStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ApplicationNote wraps the free-text "additional info" of a submission.
type ApplicationNote struct {
	Notes string `json:"notes"`
}

// Application represents one candidate submission for a role
type Application struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	Role           string           `json:"role"`
	Status         string           `json:"status"` // pending → testing / approved / rejected
	PassportURL    *string          `json:"passportUrl"`
	CredentialsURL *string          `json:"credentialsUrl"`
	AdditionalInfo *ApplicationNote `json:"additionalInfo"`
	TestScore      *int             `json:"testScore"`
	TestCompleted  bool             `json:"testCompleted"`
	SubmittedAt    time.Time        `json:"submittedAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ApplicationUpdate is a partial update. Nil fields are left untouched.
type ApplicationUpdate struct {
	Status        *string
	TestScore     *int
	TestCompleted *bool
}

// Multipart field names for application documents
const (
	UploadFieldPassport    = "passport"
	UploadFieldCredentials = "credentials"
)

// Upload is a file received with an application.
type Upload struct {
	Filename string
	Data     []byte
}

// SubmitApplicationInput is the parsed multipart application form
type SubmitApplicationInput struct {
	PersonalInfo
	Role           string `form:"role" binding:"required,max=40"`
	AdditionalInfo string `form:"additionalInfo" binding:"max=5000"`

	Passport    *Upload `form:"-"`
	Credentials *Upload `form:"-"`
}

// SubmitApplicationResult is returned after a successful intake.
type SubmitApplicationResult struct {
	Success       bool    `json:"success"`
	ApplicationID string  `json:"applicationId"`
	TestID        *string `json:"testId,omitempty"`
	Message       string  `json:"message"`
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	// Create assigns ID, default status and timestamps.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	// Update merges upd over the stored record and refreshes UpdatedAt.
	Update(ctx context.Context, id string, upd ApplicationUpdate) (*Application, error)
	// List returns every application, newest first.
	List(ctx context.Context) ([]Application, error)
}

// IntakeUsecase turns a submitted form into User, Application and Test records.
type IntakeUsecase interface {
	Submit(ctx context.Context, input SubmitApplicationInput) (*SubmitApplicationResult, error)
}

// FileStore persists uploaded documents and returns an opaque reference.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Delete removes a document by the reference Save returned.
	Delete(ctx context.Context, ref string) error
}

// Notifier delivers applicant-facing messages. Implementations may be no-ops.
type Notifier interface {
	ApplicationReceived(ctx context.Context, user *User, app *Application, testID *string) error
}
