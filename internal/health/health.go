// Package health reports process self-diagnostics for external monitoring.
package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"pricewatch_api/pkg/logger"
)

type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// ErrDependencyUnavailable marks a failing health dependency. It only ever downgrades the health report.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

type Check struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

type Checker interface {
	Name() string
	Check(ctx context.Context) Status
}

type Reporter struct {
	checkers []Checker
	timeout  time.Duration
	log      logger.Logger
}

// NewReporter aggregates checkers in the given order. Each check gets at most timeout.
func NewReporter(log logger.Logger, timeout time.Duration, checkers ...Checker) *Reporter {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Reporter{checkers: checkers, timeout: timeout, log: log.WithPrefix("[Health]")}
}

// CheckHealth runs every check concurrently. The overall status is UP only when all checks are UP.
func (r *Reporter) CheckHealth(ctx context.Context) (Status, []Check) {
	checks := make([]Check, len(r.checkers))
	var wg sync.WaitGroup
	for i, c := range r.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			checks[i] = Check{Name: c.Name(), Status: c.Check(cctx)}
		}(i, c)
	}
	wg.Wait()

	overall := StatusUp
	for _, c := range checks {
		if c.Status != StatusUp {
			overall = StatusDown
			r.log.Warn("check_down", "check", c.Name)
		}
	}
	return overall, checks
}
