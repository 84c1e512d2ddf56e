package domain

import (
	"context"
	"time"
)

// PassingScore is the minimum score that approves an application.
const PassingScore = 70

// Question is one multiple-choice item of a skills test.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Test is a skills assessment bound to one application.
// A completed test is terminal.
type Test struct {
	ID            string         `json:"id"`
	ApplicationID string         `json:"applicationId"`
	Role          string         `json:"role"`
	Questions     []Question     `json:"questions"`
	Answers       map[string]int `json:"answers"`
	Score         *int           `json:"score"`
	Completed     bool           `json:"completed"`
	StartedAt     time.Time      `json:"startedAt"`
	CompletedAt   *time.Time     `json:"completedAt"`
}

// TestUpdate is a partial update. ID and StartedAt cannot be changed.
type TestUpdate struct {
	Answers     map[string]int
	Score       *int
	Completed   *bool
	CompletedAt *time.Time
}

// PublicQuestion is a question as shown to the candidate. CorrectAnswer is
// only set once the test is completed.
type PublicQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
}

// TestView is the candidate-facing test. The answer key and the result
// fields stay empty until completion.
type TestView struct {
	ID            string           `json:"id"`
	ApplicationID string           `json:"applicationId"`
	Role          string           `json:"role"`
	Questions     []PublicQuestion `json:"questions"`
	Answers       map[string]int   `json:"answers,omitempty"`
	Score         *int             `json:"score,omitempty"`
	Completed     bool             `json:"completed"`
	StartedAt     time.Time        `json:"startedAt"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty"`
}

// SubmitTestRequest is the body of POST /api/tests/:id/submit
type SubmitTestRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

// TestResult is returned after scoring.
type TestResult struct {
	Success bool   `json:"success"`
	Score   int    `json:"score"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

type TestRepository interface {
	// Create assigns ID and StartedAt and resets the result fields.
	Create(ctx context.Context, test *Test) error
	GetByID(ctx context.Context, id string) (*Test, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*Test, error)
	Update(ctx context.Context, id string, upd TestUpdate) (*Test, error)
	// Complete stores the result only if the test is still in progress.
	// Returns ErrTestCompleted otherwise.
	Complete(ctx context.Context, id string, answers map[string]int, score int, at time.Time) (*Test, error)
}

type TestUsecase interface {
	GetTest(ctx context.Context, id string) (*TestView, error)
	SubmitAnswers(ctx context.Context, id string, answers map[string]int) (*TestResult, error)
}
