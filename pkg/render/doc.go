/*
Package render writes cluster snapshots for people and for programs.

Tables are the default. Core nodes, the ones outside any autoscaling group,
get one table. Client nodes get one table per Nomad node class. Rows are
sorted by node name. Tables are drawn with lipgloss:

	┌───────────────────┬────────────┬───────────┬───────────────┐
	│ AWS Core Instance │ Private IP │ Public IP │ Zone          │
	├───────────────────┼────────────┼───────────┼───────────────┤
	│ core-1            │ 10.0.0.1   │ 3.1.1.1   │ eu-central-1a │
	└───────────────────┴────────────┴───────────┴───────────────┘

JSON and YAML carry the whole snapshot:

	{"name": ..., "nodes": [...], "domain": ..., "provider": ..., "ttl": ...}

Allocation lists can be large, so serialized output leaves them out unless
Options.IncludeAllocations is set.
*/
package render
