/*
Package cluster assembles point-in-time snapshots of a bitte cluster.

A snapshot joins two independent views of the cluster: the cloud inventory
(every running instance tagged with the cluster name, across all regions) and
the Nomad scheduler (client registrations and allocations). The fetches run
concurrently under one errgroup and meet at a single barrier before the
reconciler joins them:

	inventory (per region) ─┐
	nomad /v1/nodes        ─┼─► barrier ─► reconciler.Reconcile ─► Snapshot
	nomad /v1/allocations  ─┘

Any failing fetch aborts assembly. A panicking fetch is reported as
types.ErrJoin. Without a Nomad token the scheduler calls are skipped and the
snapshot holds the inventory alone, which is enough for address and name
lookups.

# Usage

Start launches assembly in the background so the command can finish its own
setup meanwhile:

	h := cluster.Start(ctx, opts)
	// ... other setup ...
	snap, err := h.Wait()

A snapshot's TTL is five minutes after creation. It is advisory: nothing in
this package checks it and nothing is cached between runs.
*/
package cluster
