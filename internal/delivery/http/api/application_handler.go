package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	intakeUC       domain.IntakeUsecase
	maxUploadBytes int64
}

func NewApplicationHandler(r *gin.RouterGroup, intakeUC domain.IntakeUsecase, maxUploadBytes int64, limit gin.HandlerFunc) {
	handler := &ApplicationHandler{
		intakeUC:       intakeUC,
		maxUploadBytes: maxUploadBytes,
	}

	r.POST("/applications", limit, handler.Submit)
}

// Submit godoc
// @Summary      Submit an application
// @Description  Multipart form with the applicant profile, role and optional passport and credentials documents (.pdf, .jpg, .jpeg, .png). Caregiver applications get a skills test.
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName        formData  string  true   "Full name"
// @Param        email           formData  string  true   "Email"
// @Param        phone           formData  string  true   "Phone"
// @Param        country         formData  string  true   "Country"
// @Param        city            formData  string  true   "City"
// @Param        dateOfBirth     formData  string  true   "Date of birth"
// @Param        experience      formData  string  true   "Years of experience"
// @Param        role            formData  string  true   "nurse, midwife or caregiver"
// @Param        additionalInfo  formData  string  false  "Notes"
// @Param        passport        formData  file    false  "Passport scan"
// @Param        credentials     formData  file    false  "Professional credentials"
// @Success      200  {object}  domain.SubmitApplicationResult
// @Failure      400  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	// Two documents plus form fields
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxUploadBytes+1<<20)

	var input domain.SubmitApplicationInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(bindError(err))
		return
	}

	var err error
	if input.Passport, err = h.readUpload(c, domain.UploadFieldPassport); err != nil {
		c.Error(err)
		return
	}
	if input.Credentials, err = h.readUpload(c, domain.UploadFieldCredentials); err != nil {
		c.Error(err)
		return
	}

	result, err := h.intakeUC.Submit(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// readUpload returns nil when the field is absent. At most maxUploadBytes+1
// bytes are read so oversize files are still reported as too large.
func (h *ApplicationHandler) readUpload(c *gin.Context, field string) (*domain.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, bindError(err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, apperror.BadRequest("Could not read uploaded file: " + header.Filename)
	}
	return &domain.Upload{Filename: header.Filename, Data: data}, nil
}
