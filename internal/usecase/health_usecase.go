package usecase

import (
	"context"
	"time"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthUsecase interface {
	// Check reports "ok" overall plus one entry per dependency; healthy is
	// false when any dependency failed.
	Check(ctx context.Context) (report map[string]string, healthy bool)
}

type healthUsecase struct {
	checks map[string]HealthCheck
}

func NewHealthUsecase(checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	report := map[string]string{"status": "ok"}
	healthy := true
	for name, check := range u.checks {
		if err := check(ctx); err != nil {
			report[name] = "unavailable"
			healthy = false
			continue
		}
		report[name] = "ok"
	}
	if !healthy {
		report["status"] = "degraded"
	}
	return report, healthy
}
