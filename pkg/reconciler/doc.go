/*
Package reconciler joins the cloud inventory with the scheduler's view of the
cluster.

Each inventory node is correlated with a scheduler client by private address.
A matched node gets a deep copy of the client with exactly the allocations
whose NodeID is that client's id:

	nodes := reconciler.Reconcile(inventory, clients, allocs)

Reconcile is pure. It returns new nodes, leaves its inputs untouched and gives
the same output for the same input.

# Duplicate Addresses

Two clients claiming one address is possible after a node is replaced and the
old registration has not been garbage collected. The first client in input
order wins. DuplicateAddresses reports such conflicts and Reconcile logs a
warning for each.
*/
package reconciler
