/*
Package resolve answers "which nodes" queries over a reconciled snapshot.

All lookups are read-only and perform no I/O:

	r := resolve.New(snapshot.Nodes)

	node, err := r.Single("10.0.0.5")          // id, name, client id or address
	nodes := r.Many("core-1", "core-2")        // any needle on any field
	clients := r.Clients("c5")                 // by scheduler node class
	node, alloc, err := r.Placement("api", "web", "2", "default")

Address fields are only compared when the needle is an IP literal.
Clients with an empty class selects autoscaling group members, a structural
property that holds even for nodes the scheduler does not currently see.

# Multiple Matches

By default Single and Placement return the first candidate in iteration
order. WithPolicy(Strict) makes them fail with types.ErrAmbiguous instead,
naming every candidate.

A lookup with no result fails with types.ErrNoMatch. That error concerns only
the one query; the snapshot stays usable.
*/
package resolve
