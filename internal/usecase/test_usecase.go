package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/logger"
)

const (
	TestPassedMessage    = "Test passed! We'll be in touch soon."
	TestCompletedMessage = "Test completed. We'll review your results."
)

type testUsecase struct {
	tests domain.TestRepository
	apps  domain.ApplicationRepository
	now   func() time.Time
}

func NewTestUsecase(tests domain.TestRepository, apps domain.ApplicationRepository) domain.TestUsecase {
	return &testUsecase{
		tests: tests,
		apps:  apps,
		now:   time.Now,
	}
}

func (u *testUsecase) GetTest(ctx context.Context, id string) (*domain.TestView, error) {
	test, err := u.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Test not found")
		}
		return nil, err
	}
	return toTestView(test), nil
}

func (u *testUsecase) SubmitAnswers(ctx context.Context, id string, answers map[string]int) (*domain.TestResult, error) {
	test, err := u.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Test not found")
		}
		return nil, err
	}
	if test.Completed {
		return nil, apperror.BadRequest("Test already completed")
	}

	score := ScoreAnswers(test.Questions, answers)

	// Complete re-checks the state under the store lock so only one submit wins.
	if _, err := u.tests.Complete(ctx, id, answers, score, u.now().UTC()); err != nil {
		switch {
		case errors.Is(err, domain.ErrTestCompleted):
			return nil, apperror.BadRequest("Test already completed")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Test not found")
		}
		return nil, fmt.Errorf("complete test: %w", err)
	}

	passed := score >= domain.PassingScore
	status := domain.ApplicationStatusTesting
	if passed {
		status = domain.ApplicationStatusApproved
	}
	completed := true

	// Overwrites any status an admin set while the test was open.
	_, err = u.apps.Update(ctx, test.ApplicationID, domain.ApplicationUpdate{
		Status:        &status,
		TestScore:     &score,
		TestCompleted: &completed,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			// The test is already terminal, so a retry cannot repair the application.
			logger.Log.Error("Test result not applied to application",
				"test_id", id,
				"application_id", test.ApplicationID,
				"score", score,
				"status", status,
				"error", err,
			)
			return nil, fmt.Errorf("update application: %w", err)
		}
		logger.Log.Warn("Test completed for missing application", "test_id", id, "application_id", test.ApplicationID)
	}

	result := &domain.TestResult{
		Success: true,
		Score:   score,
		Passed:  passed,
		Message: TestCompletedMessage,
	}
	if passed {
		result.Message = TestPassedMessage
	}
	return result, nil
}

// ScoreAnswers returns the rounded percentage of questions answered with
// their correct option. Unknown question ids in answers are ignored.
func ScoreAnswers(questions []domain.Question, answers map[string]int) int {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range questions {
		if given, ok := answers[q.ID]; ok && given == q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}

func toTestView(t *domain.Test) *domain.TestView {
	questions := make([]domain.PublicQuestion, len(t.Questions))
	for i, q := range t.Questions {
		questions[i] = domain.PublicQuestion{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
		}
		if t.Completed {
			correct := q.CorrectAnswer
			questions[i].CorrectAnswer = &correct
		}
	}
	view := &domain.TestView{
		ID:            t.ID,
		ApplicationID: t.ApplicationID,
		Role:          t.Role,
		Questions:     questions,
		Completed:     t.Completed,
		StartedAt:     t.StartedAt,
	}
	if t.Completed {
		view.Answers = t.Answers
		view.Score = t.Score
		view.CompletedAt = t.CompletedAt
	}
	return view
}
