package api

import (
	"net/http"

	"care-recruitment-backend/internal/delivery/http/response"
	"care-recruitment-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(r *gin.RouterGroup, authUC domain.AuthUsecase, limit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	r.POST("/login", limit, handler.Login)
}

// Login godoc
// @Summary      Admin login
// @Description  Exchanges the admin credentials for a bearer token
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.AdminLoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.AdminToken}
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	token, err := h.authUC.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", token)
}
