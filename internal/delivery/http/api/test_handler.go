package api

import (
	"net/http"

	"care-recruitment-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	testUC domain.TestUsecase
}

func NewTestHandler(r *gin.RouterGroup, testUC domain.TestUsecase) {
	handler := &TestHandler{testUC: testUC}

	tests := r.Group("/tests")
	{
		tests.GET("/:id", handler.GetTest)
		tests.POST("/:id/submit", handler.SubmitAnswers)
	}
}

// GetTest godoc
// @Summary      Get a skills test
// @Description  Correct answers are only included once the test is completed.
// @Tags         tests
// @Produce      json
// @Param        id   path      string  true  "Test ID"
// @Success      200  {object}  domain.TestView
// @Failure      404  {object}  response.Response
// @Router       /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	test, err := h.testUC.GetTest(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// SubmitAnswers godoc
// @Summary      Submit test answers
// @Description  Scores the test once. A score of 70 or more approves the application.
// @Tags         tests
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Test ID"
// @Param        body  body      domain.SubmitTestRequest  true  "Answers keyed by question id"
// @Success      200   {object}  domain.TestResult
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /tests/{id}/submit [post]
func (h *TestHandler) SubmitAnswers(c *gin.Context) {
	var req domain.SubmitTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	result, err := h.testUC.SubmitAnswers(c.Request.Context(), c.Param("id"), req.Answers)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
