package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Fetch metrics
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bitte_fetch_duration_seconds",
			Help:    "Duration of individual inventory and scheduler calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitte_fetch_errors_total",
			Help: "Total number of failed inventory and scheduler calls by source",
		},
		[]string{"source"},
	)

	// Snapshot metrics
	AssemblyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bitte_snapshot_assembly_duration_seconds",
			Help:    "Time taken to assemble a cluster snapshot in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotNodes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bitte_snapshot_nodes",
			Help: "Number of nodes in the last snapshot by role (core or client)",
		},
		[]string{"role"},
	)

	ClientsMatched = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bitte_scheduler_clients_matched",
			Help: "Number of inventory nodes joined with a scheduler client in the last snapshot",
		},
	)

	// Remote action metrics
	RemoteActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitte_remote_actions_total",
			Help: "Total number of remote actions by action and result",
		},
		[]string{"action", "result"},
	)
)

func init() {
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(FetchErrors)
	prometheus.MustRegister(AssemblyDuration)
	prometheus.MustRegister(SnapshotNodes)
	prometheus.MustRegister(ClientsMatched)
	prometheus.MustRegister(RemoteActions)
}

// Result returns the result label value for an action outcome
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// WriteTextfile writes all registered metrics to path in the text exposition
// format read by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
