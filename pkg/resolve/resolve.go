package resolve

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/input-output-hk/bitte/pkg/types"
)

// Policy decides what a lookup that expects one result does with several
type Policy int

const (
	// FirstMatch returns the first candidate in iteration order
	FirstMatch Policy = iota
	// Strict fails with types.ErrAmbiguous when there is more than one candidate
	Strict
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	default:
		return "first-match"
	}
}

// Option configures a Resolver
type Option func(*Resolver)

// WithPolicy sets the multiple-match policy of Single and Placement
func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// Resolver answers node queries over a reconciled node collection. It never
// modifies the nodes it was given.
type Resolver struct {
	nodes  []*types.Node
	policy Policy
}

// New creates a resolver over nodes, which are searched in the given order
func New(nodes []*types.Node, opts ...Option) *Resolver {
	r := &Resolver{nodes: nodes}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Nodes returns the nodes the resolver searches
func (r *Resolver) Nodes() []*types.Node {
	return r.nodes
}

// Single returns the node whose id, name, client id or, when needle is an IP
// literal, private or public address equals needle.
func (r *Resolver) Single(needle string) (*types.Node, error) {
	m := newMatcher(needle)

	var candidates []*types.Node
	for _, n := range r.nodes {
		if !m.matches(n) {
			continue
		}
		if r.policy == FirstMatch {
			return n, nil
		}
		candidates = append(candidates, n)
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: %s does not match any nodes", types.ErrNoMatch, needle)
	case 1:
		return candidates[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d nodes: %s",
			types.ErrAmbiguous, needle, len(candidates), names(candidates))
	}
}

// Many returns every node matching any of needles on any field, in
// iteration order. Each node appears at most once.
func (r *Resolver) Many(needles ...string) []*types.Node {
	matchers := make([]matcher, len(needles))
	for i, needle := range needles {
		matchers[i] = newMatcher(needle)
	}

	var out []*types.Node
	for _, n := range r.nodes {
		for _, m := range matchers {
			if m.matches(n) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Clients returns nodes whose attached scheduler client has the given node
// class. An empty class selects every autoscaling group member instead,
// whether or not the scheduler currently sees it, so clients registered
// without a node class cannot be selected on their own.
func (r *Resolver) Clients(class string) []*types.Node {
	var out []*types.Node
	for _, n := range r.nodes {
		if class == "" {
			if n.IsClient() {
				out = append(out, n)
			}
			continue
		}
		if n.Client != nil && n.Client.NodeClass == class {
			out = append(out, n)
		}
	}
	return out
}

// Placement returns the node and running allocation for one placement of a
// job's task group. index is an integer or an allocation name ending in
// "[n]"; anything else cannot match.
func (r *Resolver) Placement(job, group, index, namespace string) (*types.Node, types.Allocation, error) {
	noMatch := fmt.Errorf("%w: %s, %s, %s does not match any running nomad allocations in namespace %s",
		types.ErrNoMatch, job, group, index, namespace)

	want, err := types.ParseAllocIndex(index)
	if err != nil {
		return nil, types.Allocation{}, noMatch
	}

	type hit struct {
		node  *types.Node
		alloc types.Allocation
	}
	var hits []hit

	for _, n := range r.nodes {
		if n.Client == nil {
			continue
		}
		for _, a := range n.Client.Allocations {
			if a.Namespace != namespace || a.JobID != job || a.TaskGroup != group ||
				a.Index != want || !a.Running() {
				continue
			}
			if r.policy == FirstMatch {
				return n, a, nil
			}
			hits = append(hits, hit{node: n, alloc: a})
		}
	}

	switch len(hits) {
	case 0:
		return nil, types.Allocation{}, noMatch
	case 1:
		return hits[0].node, hits[0].alloc, nil
	default:
		ids := make([]string, len(hits))
		for i, h := range hits {
			ids[i] = fmt.Sprintf("%s on %s", h.alloc.ID, h.node.Name)
		}
		return nil, types.Allocation{}, fmt.Errorf("%w: %s, %s, %s matches %d running allocations in namespace %s: %s",
			types.ErrAmbiguous, job, group, index, len(hits), namespace, strings.Join(ids, ", "))
	}
}

type matcher struct {
	needle string
	addr   netip.Addr
}

func newMatcher(needle string) matcher {
	m := matcher{needle: needle}
	if addr, err := netip.ParseAddr(needle); err == nil {
		m.addr = addr
	}
	return m
}

func (m matcher) matches(n *types.Node) bool {
	if n.ID == m.needle || n.Name == m.needle {
		return true
	}
	if n.Client != nil && n.ClientID() == m.needle {
		return true
	}
	if m.addr.IsValid() && (n.PrivateIP == m.addr || n.PublicIP == m.addr) {
		return true
	}
	return false
}

func names(nodes []*types.Node) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return strings.Join(out, ", ")
}
