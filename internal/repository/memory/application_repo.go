package memory

import (
	"context"
	"sort"

	"care-recruitment-backend/internal/domain"

	"github.com/google/uuid"
)

type applicationRepo struct {
	s *Store
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	r.s.appsMu.Lock()
	defer r.s.appsMu.Unlock()

	now := r.s.now()
	app.ID = uuid.NewString()
	app.Status = domain.ApplicationStatusPending
	app.TestCompleted = false
	app.TestScore = nil
	app.SubmittedAt = now
	app.UpdatedAt = now

	r.s.appsSeq++
	r.s.apps[app.ID] = appRecord{app: copyApplication(*app), seq: r.s.appsSeq}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	r.s.appsMu.RLock()
	defer r.s.appsMu.RUnlock()

	rec, ok := r.s.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	app := copyApplication(rec.app)
	return &app, nil
}

func (r *applicationRepo) Update(ctx context.Context, id string, upd domain.ApplicationUpdate) (*domain.Application, error) {
	r.s.appsMu.Lock()
	defer r.s.appsMu.Unlock()

	rec, ok := r.s.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if upd.Status != nil {
		rec.app.Status = *upd.Status
	}
	if upd.TestScore != nil {
		rec.app.TestScore = copyIntPtr(upd.TestScore)
	}
	if upd.TestCompleted != nil {
		rec.app.TestCompleted = *upd.TestCompleted
	}
	rec.app.UpdatedAt = r.s.now()
	r.s.apps[id] = rec

	app := copyApplication(rec.app)
	return &app, nil
}

func (r *applicationRepo) List(ctx context.Context) ([]domain.Application, error) {
	r.s.appsMu.RLock()
	records := make([]appRecord, 0, len(r.s.apps))
	for _, rec := range r.s.apps {
		records = append(records, rec)
	}
	r.s.appsMu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].seq > records[j].seq
	})

	apps := make([]domain.Application, len(records))
	for i, rec := range records {
		apps[i] = copyApplication(rec.app)
	}
	return apps, nil
}
