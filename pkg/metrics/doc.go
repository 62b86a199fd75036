/*
Package metrics provides Prometheus metrics for bitte.

All collectors are registered on the default registry at package init. bitte
is a short-lived command, so metrics are not served over HTTP; when a metrics
file is configured the registry is written once at exit with WriteTextfile,
in the format read by node_exporter's textfile collector.

# Metrics

	bitte_fetch_duration_seconds{source}          histogram
	bitte_fetch_errors_total{source}              counter
	bitte_snapshot_assembly_duration_seconds      histogram
	bitte_snapshot_nodes{role}                    gauge
	bitte_scheduler_clients_matched               gauge
	bitte_remote_actions_total{action,result}     counter

The source label is "inventory", "nomad_nodes" or "nomad_allocations".
The role label is "core" or "client".

# Timing

	timer := metrics.NewTimer()
	nodes, err := fetch(ctx)
	timer.ObserveDurationVec(metrics.FetchDuration, "inventory")
	if err != nil {
		metrics.FetchErrors.WithLabelValues("inventory").Inc()
	}
*/
package metrics
