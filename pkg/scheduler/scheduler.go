package scheduler

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/input-output-hk/bitte/pkg/client"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/metrics"
	"github.com/input-output-hk/bitte/pkg/types"
)

// Metric source labels
const (
	SourceNodes       = "nomad_nodes"
	SourceAllocations = "nomad_allocations"
)

// DefaultAddr returns the scheduler address for a cluster domain
func DefaultAddr(domain string) string {
	return "https://nomad." + domain
}

// Fetcher reads client registrations and allocations from the Nomad API
type Fetcher struct {
	client *client.Client
	addr   string
	logger zerolog.Logger
}

// NewFetcher creates a fetcher for the scheduler at addr. The client is
// shared between calls so connections are reused.
func NewFetcher(c *client.Client, addr string) *Fetcher {
	addr = strings.TrimRight(addr, "/")
	return &Fetcher{
		client: c,
		addr:   addr,
		logger: log.WithComponent("scheduler").With().Str("addr", addr).Logger(),
	}
}

// Clients lists every client the scheduler knows of
func (f *Fetcher) Clients(ctx context.Context) ([]types.SchedulerClient, error) {
	var clients []types.SchedulerClient
	if err := f.get(ctx, SourceNodes, "/v1/nodes", nil, &clients); err != nil {
		return nil, err
	}

	f.logger.Debug().
		Int("clients", len(clients)).
		Msg("listed scheduler clients")

	return clients, nil
}

// Allocations lists allocations across all namespaces, without task states
func (f *Fetcher) Allocations(ctx context.Context) ([]types.Allocation, error) {
	query := url.Values{
		"namespace":   {"*"},
		"task_states": {"false"},
	}

	var allocs []types.Allocation
	if err := f.get(ctx, SourceAllocations, "/v1/allocations", query, &allocs); err != nil {
		return nil, err
	}

	f.logger.Debug().
		Int("allocations", len(allocs)).
		Msg("listed allocations")

	return allocs, nil
}

func (f *Fetcher) get(ctx context.Context, source, path string, query url.Values, out any) error {
	timer := metrics.NewTimer()
	err := f.client.GetJSON(ctx, f.addr+path, query, out)
	timer.ObserveDurationVec(metrics.FetchDuration, source)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(source).Inc()
	}
	return err
}
