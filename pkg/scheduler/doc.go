/*
Package scheduler fetches workload scheduler state from the Nomad HTTP API.

Two read-only calls make up the scheduler's half of a cluster snapshot:

	GET <addr>/v1/nodes                                   client registrations
	GET <addr>/v1/allocations?namespace=*&task_states=false   allocations

The address defaults to https://nomad.<domain> (see DefaultAddr). Both calls
share one client.Client, which authenticates with the cluster's ACL token.

Allocation list entries carry their placement index only inside the
allocation name, e.g. "web.api[3]". The types package normalizes that to an
integer while decoding, so callers only ever see types.AllocIndex.

Each call is timed on metrics.FetchDuration and counted on metrics.FetchErrors
under the "nomad_nodes" and "nomad_allocations" source labels.

The Fetcher is only constructed when a token is available. Without one, the
cluster package assembles an inventory-only snapshot.
*/
package scheduler
