package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/bitte/pkg/types"
)

// Result represents the outcome of a reachability check
type Result struct {
	Target    string
	Healthy   bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Checker is the interface that all reachability checkers implement
type Checker interface {
	// Check performs the check once and returns the result
	Check(ctx context.Context) Result
}

// CheckAll runs every checker concurrently, once each, and returns the
// results in checker order.
func CheckAll(ctx context.Context, checkers []Checker) []Result {
	results := make([]Result, len(checkers))

	var g errgroup.Group
	for i, c := range checkers {
		i, c := i, c
		g.Go(func() error {
			results[i] = c.Check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Unhealthy returns an error naming every failed target, or nil
func Unhealthy(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Healthy {
			errs = append(errs, fmt.Errorf("%w: %s: %s", types.ErrNetwork, r.Target, r.Message))
		}
	}
	return errors.Join(errs...)
}
