package cluster

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/bitte/pkg/client"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/metrics"
	"github.com/input-output-hk/bitte/pkg/provider"
	"github.com/input-output-hk/bitte/pkg/reconciler"
	"github.com/input-output-hk/bitte/pkg/scheduler"
	"github.com/input-output-hk/bitte/pkg/types"
)

// Options identifies the cluster to assemble a snapshot of
type Options struct {
	Name         string
	Domain       string
	Provider     types.Provider
	Region       string
	ExtraRegions []string
	Token        client.Token
	NomadAddr    string
}

// Regions returns the default region plus the extra regions, deduplicated
// and sorted. Empty entries are dropped.
func (o Options) Regions() []string {
	regions := make([]string, 0, len(o.ExtraRegions)+1)
	for _, r := range append([]string{o.Region}, o.ExtraRegions...) {
		if r != "" {
			regions = append(regions, r)
		}
	}
	slices.Sort(regions)
	return slices.Compact(regions)
}

// Validate checks the options needed to query the cluster
func (o Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("%w: cluster name is required", types.ErrConfigInvalid)
	}
	if o.Domain == "" {
		return fmt.Errorf("%w: cluster domain is required", types.ErrConfigInvalid)
	}
	if len(o.Regions()) == 0 {
		return fmt.Errorf("%w: at least one region is required", types.ErrConfigInvalid)
	}
	return nil
}

// State is the scheduler's half of a snapshot
type State interface {
	Clients(ctx context.Context) ([]types.SchedulerClient, error)
	Allocations(ctx context.Context) ([]types.Allocation, error)
}

// Assembler builds snapshots of one cluster
type Assembler struct {
	opts   Options
	source provider.Source
	state  State
	now    func() time.Time
}

// New creates an assembler. A nil state assembles an inventory-only
// snapshot in which no node carries a scheduler client.
func New(opts Options, source provider.Source, state State) *Assembler {
	return &Assembler{
		opts:   opts,
		source: source,
		state:  state,
		now:    time.Now,
	}
}

// Assemble fetches the inventory and the scheduler state concurrently,
// reconciles them and returns the snapshot. The first failing fetch aborts
// assembly; there is no partial snapshot and no retry.
func (a *Assembler) Assemble(ctx context.Context) (*types.Snapshot, error) {
	logger := log.WithCluster(a.opts.Name)
	timer := metrics.NewTimer()

	var (
		nodes   []*types.Node
		clients []types.SchedulerClient
		allocs  []types.Allocation
	)

	regions := a.opts.Regions()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(guard("inventory", func() (err error) {
		nodes, err = a.source.Fetch(gctx, a.opts.Name, regions)
		return err
	}))

	if a.state != nil {
		g.Go(guard("scheduler clients", func() (err error) {
			clients, err = a.state.Clients(gctx)
			return err
		}))
		g.Go(guard("scheduler allocations", func() (err error) {
			allocs, err = a.state.Allocations(gctx)
			return err
		}))
	} else {
		logger.Info().Msg("no scheduler token, assembling inventory-only snapshot")
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	reconciled := reconciler.Reconcile(nodes, clients, allocs)

	created := a.now()
	snap := &types.Snapshot{
		Name:      a.opts.Name,
		Nodes:     reconciled,
		Domain:    a.opts.Domain,
		Provider:  a.opts.Provider,
		CreatedAt: created,
		TTL:       created.Add(types.SnapshotTTL),
	}

	timer.ObserveDuration(metrics.AssemblyDuration)
	record(snap)

	logger.Debug().
		Strs("regions", regions).
		Int("nodes", len(snap.Nodes)).
		Dur("duration", timer.Duration()).
		Msg("assembled snapshot")

	return snap, nil
}

func record(snap *types.Snapshot) {
	roles := map[string]int{"core": 0, "client": 0}
	for _, n := range snap.Nodes {
		roles[n.Role()]++
	}
	for role, count := range roles {
		metrics.SnapshotNodes.WithLabelValues(role).Set(float64(count))
	}
	metrics.ClientsMatched.Set(float64(reconciler.Matched(snap.Nodes)))
}

// guard turns a panic in a fetch task into an ErrJoin error
func guard(task string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s task failed: %v", types.ErrJoin, task, r)
			}
		}()
		return fn()
	}
}

// Handle is a snapshot assembly running in the background
type Handle struct {
	done chan struct{}
	snap *types.Snapshot
	err  error
}

// Go starts Assemble in a new goroutine
func Go(ctx context.Context, a *Assembler) *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.snap, h.err = a.Assemble(ctx)
	}()
	return h
}

// Wait blocks until assembly finishes. Every call returns the same result.
func (h *Handle) Wait() (*types.Snapshot, error) {
	<-h.done
	return h.snap, h.err
}

// Failed returns a handle that is already finished with err
func Failed(err error) *Handle {
	h := &Handle{done: make(chan struct{}), err: err}
	close(h.done)
	return h
}

// Start builds the inventory source and, when a token is set, the scheduler
// client for opts and launches assembly in the background. Setup errors are
// reported by Wait.
func Start(ctx context.Context, opts Options) *Handle {
	return StartWith(ctx, opts, provider.Default())
}

// StartWith is Start with an explicit provider registry
func StartWith(ctx context.Context, opts Options, registry *provider.Registry) *Handle {
	if err := opts.Validate(); err != nil {
		return Failed(err)
	}

	source, err := registry.New(opts.Provider)
	if err != nil {
		return Failed(err)
	}

	var state State
	if !opts.Token.IsZero() {
		addr := opts.NomadAddr
		if addr == "" {
			addr = scheduler.DefaultAddr(opts.Domain)
		}
		state = scheduler.NewFetcher(client.NewClient(opts.Token), addr)
	}

	return Go(ctx, New(opts, source, state))
}
