package memory

import (
	"context"

	"care-recruitment-backend/internal/domain"

	"github.com/google/uuid"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.usersMu.Lock()
	defer r.s.usersMu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.usersMu.RLock()
	defer r.s.usersMu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// GetByEmail matches the email exactly, case included.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.usersMu.RLock()
	defer r.s.usersMu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}
