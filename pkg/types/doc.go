/*
Package types defines the core data structures of a bitte cluster view.

A Snapshot is the reconciled, point-in-time picture of one cluster. It holds
Nodes built from the cloud inventory, each optionally joined with the
SchedulerClient that the workload scheduler (Nomad) has registered for the
same private address, which in turn carries the Allocations placed on it.

# Identity and Ordering

A node's identity for correlation is its private address; for display it is
its name. CompareNodes and SortNodes order by name only, so two nodes with the
same name compare equal even when their ids or addresses differ.

# Client and Core Nodes

Node.IsClient reports autoscaling group membership. It is a property of the
inventory record, so a client node stays a client node while the scheduler
cannot see it.

# Allocation Index

The scheduler encodes an allocation's placement index either as a bare
integer or inside the allocation name ("api.web[3]"). AllocIndex decodes both
into a single integer at the JSON boundary:

	ParseAllocIndex("3")          // 3
	ParseAllocIndex("api.web[3]") // 3
	ParseAllocIndex("api.web")    // error wrapping ErrDecode

# Errors

The package exports the error kinds shared by the other packages: ErrNetwork,
ErrDecode, ErrConfigInvalid, ErrJoin, ErrNoMatch and ErrAmbiguous. They are
meant to be wrapped with %w and tested with errors.Is.
*/
package types
