package remote

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/bitte/pkg/types"
)

// Action is a remote operation on one node
type Action func(ctx context.Context, node *types.Node) error

// Sequential runs action on each node in order, waiting delay between
// nodes. The first failure stops the sequence and is returned.
func Sequential(ctx context.Context, nodes []*types.Node, delay time.Duration, action Action) error {
	for i, node := range nodes {
		i, node := i, node
		if err := action(ctx, node); err != nil {
			return err
		}

		if delay <= 0 || i == len(nodes)-1 {
			continue
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// Parallel runs action on every node at once. Each node's result is
// collected independently; a failure does not stop the others. The returned
// error joins every failure in node order.
func Parallel(ctx context.Context, nodes []*types.Node, action Action) error {
	errs := make([]error, len(nodes))

	var g errgroup.Group
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			errs[i] = action(ctx, node)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
