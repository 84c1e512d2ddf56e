package memory

import (
	"context"
	"time"

	"care-recruitment-backend/internal/domain"

	"github.com/google/uuid"
)

type testRepo struct {
	s *Store
}

func (r *testRepo) Create(ctx context.Context, test *domain.Test) error {
	r.s.testsMu.Lock()
	defer r.s.testsMu.Unlock()

	test.ID = uuid.NewString()
	test.Completed = false
	test.StartedAt = r.s.now()
	test.CompletedAt = nil
	test.Answers = nil
	test.Score = nil

	r.s.tests[test.ID] = copyTest(*test)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (*domain.Test, error) {
	r.s.testsMu.RLock()
	defer r.s.testsMu.RUnlock()

	t, ok := r.s.tests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t = copyTest(t)
	return &t, nil
}

func (r *testRepo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Test, error) {
	r.s.testsMu.RLock()
	defer r.s.testsMu.RUnlock()

	for _, t := range r.s.tests {
		if t.ApplicationID == applicationID {
			t = copyTest(t)
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *testRepo) Update(ctx context.Context, id string, upd domain.TestUpdate) (*domain.Test, error) {
	r.s.testsMu.Lock()
	defer r.s.testsMu.Unlock()

	t, ok := r.s.tests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t = applyTestUpdate(t, upd)
	r.s.tests[id] = t

	t = copyTest(t)
	return &t, nil
}

func (r *testRepo) Complete(ctx context.Context, id string, answers map[string]int, score int, at time.Time) (*domain.Test, error) {
	r.s.testsMu.Lock()
	defer r.s.testsMu.Unlock()

	t, ok := r.s.tests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if t.Completed {
		return nil, domain.ErrTestCompleted
	}

	completed := true
	t = applyTestUpdate(t, domain.TestUpdate{
		Answers:     answers,
		Score:       &score,
		Completed:   &completed,
		CompletedAt: &at,
	})
	r.s.tests[id] = t

	t = copyTest(t)
	return &t, nil
}

func applyTestUpdate(t domain.Test, upd domain.TestUpdate) domain.Test {
	if upd.Answers != nil {
		t.Answers = copyAnswers(upd.Answers)
	}
	if upd.Score != nil {
		t.Score = copyIntPtr(upd.Score)
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	if upd.CompletedAt != nil {
		at := *upd.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
