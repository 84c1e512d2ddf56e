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

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, user_id, role, status, passport_url, credentials_url,
	additional_info, test_score, test_completed, submitted_at, updated_at`

// Create inserts a new application with status pending
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	var note *string
	if app.AdditionalInfo != nil {
		raw, err := json.Marshal(app.AdditionalInfo)
		if err != nil {
			return err
		}
		s := string(raw)
		note = &s
	}

	now := time.Now().UTC()
	app.ID = uuid.NewString()
	app.Status = domain.ApplicationStatusPending
	app.TestScore = nil
	app.TestCompleted = false
	app.SubmittedAt = now
	app.UpdatedAt = now

	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		app.ID,
		app.UserID,
		app.Role,
		app.Status,
		app.PassportURL,
		app.CredentialsURL,
		note,
		app.TestScore,
		app.TestCompleted,
		app.SubmittedAt,
		app.UpdatedAt,
	)
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.db.QueryRow(ctx, query, id))
}

// Update applies the non-nil fields and always bumps updated_at
func (r *applicationRepo) Update(ctx context.Context, id string, upd domain.ApplicationUpdate) (*domain.Application, error) {
	query := `
		UPDATE applications SET
			status = COALESCE($2::text, status),
			test_score = COALESCE($3::integer, test_score),
			test_completed = COALESCE($4::boolean, test_completed),
			updated_at = $5
		WHERE id = $1
		RETURNING ` + applicationColumns

	return scanApplication(r.db.QueryRow(ctx, query,
		id, upd.Status, upd.TestScore, upd.TestCompleted, time.Now().UTC(),
	))
}

func (r *applicationRepo) List(ctx context.Context) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app  domain.Application
		note []byte
	)
	err := row.Scan(
		&app.ID, &app.UserID, &app.Role, &app.Status, &app.PassportURL, &app.CredentialsURL,
		&note, &app.TestScore, &app.TestCompleted, &app.SubmittedAt, &app.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(note) > 0 {
		app.AdditionalInfo = &domain.ApplicationNote{}
		if err := json.Unmarshal(note, app.AdditionalInfo); err != nil {
			return nil, err
		}
	}
	return &app, nil
}
