// Package memory is the process-local data store. Records live in maps keyed
// by generated UUIDs and are lost on restart.
package memory

import (
	"sync"
	"time"

	"care-recruitment-backend/internal/domain"
)

// Store holds users, applications and tests. Each map has its own lock so
// every create and update is atomic. Records are copied on the way in and out.
type Store struct {
	usersMu sync.RWMutex
	users   map[string]domain.User

	appsMu  sync.RWMutex
	apps    map[string]appRecord
	appsSeq uint64

	testsMu sync.RWMutex
	tests   map[string]domain.Test

	now func() time.Time
}

type appRecord struct {
	app domain.Application
	seq uint64
}

type Option func(*Store)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		users: make(map[string]domain.User),
		apps:  make(map[string]appRecord),
		tests: make(map[string]domain.Test),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() domain.UserRepository {
	return &userRepo{s: s}
}

func (s *Store) Applications() domain.ApplicationRepository {
	return &applicationRepo{s: s}
}

func (s *Store) Tests() domain.TestRepository {
	return &testRepo{s: s}
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyApplication(a domain.Application) domain.Application {
	a.PassportURL = copyStringPtr(a.PassportURL)
	a.CredentialsURL = copyStringPtr(a.CredentialsURL)
	a.TestScore = copyIntPtr(a.TestScore)
	if a.AdditionalInfo != nil {
		note := *a.AdditionalInfo
		a.AdditionalInfo = &note
	}
	return a
}

func copyAnswers(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyTest(t domain.Test) domain.Test {
	questions := make([]domain.Question, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
	}
	t.Questions = questions
	t.Answers = copyAnswers(t.Answers)
	t.Score = copyIntPtr(t.Score)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
