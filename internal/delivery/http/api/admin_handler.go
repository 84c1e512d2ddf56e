package api

import (
	"net/http"

	"care-recruitment-backend/internal/delivery/http/response"
	"care-recruitment-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	protected.GET("/stats", handler.GetStats)
	protected.GET("/applications", handler.ListApplications)
	// Registered before :id so "export" is not taken as an id
	protected.GET("/applications/export", handler.ExportApplications)
	protected.GET("/applications/:id", handler.GetApplication)
	protected.PATCH("/applications/:id/status", handler.UpdateStatus)
}

// GetStats godoc
// @Summary      Get admin dashboard statistics
// @Description  Counts applications by status and by role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AdminStats
// @Failure      401  {object}  response.Response
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListApplications godoc
// @Summary      List applications
// @Description  Newest first, each joined with its applicant and test summary
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, testing, approved, rejected or all"
// @Success      200     {array}   domain.ApplicationWithUser
// @Failure      400     {object}  response.Response
// @Router       /admin/applications [get]
func (h *AdminHandler) ListApplications(c *gin.Context) {
	apps, err := h.adminUC.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication godoc
// @Summary      Get one application
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  domain.ApplicationWithUser
// @Failure      404  {object}  response.Response
// @Router       /admin/applications/{id} [get]
func (h *AdminHandler) GetApplication(c *gin.Context) {
	app, err := h.adminUC.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateStatus godoc
// @Summary      Override application status
// @Description  Any status may be set from any other status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Application ID"
// @Param        body  body      domain.UpdateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/applications/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.adminUC.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// ExportApplications godoc
// @Summary      Export applications
// @Description  Downloads every application as XLSX (default) or CSV
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Security     BearerAuth
// @Param        format  query     string  false  "xlsx or csv"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Router       /admin/applications/export [get]
func (h *AdminHandler) ExportApplications(c *gin.Context) {
	file, err := h.adminUC.ExportApplications(c.Request.Context(), c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, file)
}
