package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"care-recruitment-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type testRepo struct {
	db *pgxpool.Pool
}

func NewTestRepository(db *pgxpool.Pool) domain.TestRepository {
	return &testRepo{db: db}
}

const testColumns = `id, application_id, role, questions, answers, score, completed, started_at, completed_at`

func (r *testRepo) Create(ctx context.Context, test *domain.Test) error {
	questions, err := json.Marshal(test.Questions)
	if err != nil {
		return err
	}

	test.ID = uuid.NewString()
	test.Completed = false
	test.StartedAt = time.Now().UTC()
	test.CompletedAt = nil
	test.Answers = nil
	test.Score = nil

	query := `
		INSERT INTO tests (id, application_id, role, questions, completed, started_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)`
	_, err = r.db.Exec(ctx, query,
		test.ID, test.ApplicationID, test.Role, string(questions), test.Completed, test.StartedAt,
	)
	return err
}

func (r *testRepo) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests WHERE id = $1`
	return scanTest(r.db.QueryRow(ctx, query, id))
}

func (r *testRepo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests WHERE application_id = $1 ORDER BY started_at LIMIT 1`
	return scanTest(r.db.QueryRow(ctx, query, applicationID))
}

func (r *testRepo) Update(ctx context.Context, id string, upd domain.TestUpdate) (*domain.Test, error) {
	answers, err := marshalAnswers(upd.Answers)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE tests SET
			answers = COALESCE($2::jsonb, answers),
			score = COALESCE($3::integer, score),
			completed = COALESCE($4::boolean, completed),
			completed_at = COALESCE($5::timestamptz, completed_at)
		WHERE id = $1
		RETURNING ` + testColumns

	return scanTest(r.db.QueryRow(ctx, query, id, answers, upd.Score, upd.Completed, upd.CompletedAt))
}

// Complete only matches rows still in progress, so a finished test is never rewritten.
func (r *testRepo) Complete(ctx context.Context, id string, answers map[string]int, score int, at time.Time) (*domain.Test, error) {
	raw, err := marshalAnswers(answers)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE tests SET answers = $2::jsonb, score = $3, completed = true, completed_at = $4
		WHERE id = $1 AND completed = false
		RETURNING ` + testColumns

	test, err := scanTest(r.db.QueryRow(ctx, query, id, raw, score, at))
	if errors.Is(err, domain.ErrNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrTestCompleted
	}
	return test, err
}

func marshalAnswers(answers map[string]int) (*string, error) {
	if answers == nil {
		return nil, nil
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}

func scanTest(row pgx.Row) (*domain.Test, error) {
	var (
		t         domain.Test
		questions []byte
		answers   []byte
	)
	err := row.Scan(
		&t.ID, &t.ApplicationID, &t.Role, &questions, &answers,
		&t.Score, &t.Completed, &t.StartedAt, &t.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &t.Questions); err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &t.Answers); err != nil {
			return nil, err
		}
	}
	return &t, nil
}
