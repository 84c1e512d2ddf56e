package api

import (
	"net/http"

	"care-recruitment-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(r *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	r.POST("/users", handler.CreateUser)
}

// CreateUser godoc
// @Summary      Create an applicant
// @Description  Creates a user profile. Emails are unique.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateUserRequest  true  "Applicant profile"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req domain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	user, err := h.userUC.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
