package reconciler

import (
	"net/netip"
	"slices"

	"github.com/google/uuid"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/types"
)

// Reconcile joins inventory nodes with scheduler clients by private address
// and attaches to each matched client the allocations it owns.
//
// The result holds fresh copies; none of the inputs are modified. When more
// than one client claims a node's address, the first in input order wins.
func Reconcile(nodes []*types.Node, clients []types.SchedulerClient, allocs []types.Allocation) []*types.Node {
	logger := log.WithComponent("reconciler")

	for addr, ids := range DuplicateAddresses(clients) {
		logger.Warn().
			Str("address", addr.String()).
			Strs("clients", idStrings(ids)).
			Msg("address claimed by more than one scheduler client, using the first")
	}

	byAddr := make(map[netip.Addr]*types.SchedulerClient, len(clients))
	for i := range clients {
		c := &clients[i]
		if !c.Address.IsValid() {
			continue
		}
		if _, ok := byAddr[c.Address]; !ok {
			byAddr[c.Address] = c
		}
	}

	byOwner := make(map[uuid.UUID][]types.Allocation)
	for _, a := range allocs {
		byOwner[a.NodeID] = append(byOwner[a.NodeID], a)
	}

	out := make([]*types.Node, 0, len(nodes))
	matched := 0
	for _, n := range nodes {
		node := n.Clone()
		node.Client = nil

		if c, ok := byAddr[n.PrivateIP]; ok {
			client := c.Clone()
			client.Allocations = slices.Clone(byOwner[c.ID])
			if client.Allocations == nil {
				client.Allocations = []types.Allocation{}
			}
			node.Client = client
			matched++
		}

		out = append(out, node)
	}

	logger.Debug().
		Int("nodes", len(out)).
		Int("clients", len(clients)).
		Int("matched", matched).
		Msg("reconciled topology")

	return out
}

// Matched counts the nodes that carry a scheduler client
func Matched(nodes []*types.Node) int {
	n := 0
	for _, node := range nodes {
		if node.Client != nil {
			n++
		}
	}
	return n
}

// DuplicateAddresses returns every valid address claimed by more than one
// client, mapped to the claiming client ids in input order.
func DuplicateAddresses(clients []types.SchedulerClient) map[netip.Addr][]uuid.UUID {
	seen := make(map[netip.Addr][]uuid.UUID)
	for _, c := range clients {
		if !c.Address.IsValid() {
			continue
		}
		seen[c.Address] = append(seen[c.Address], c.ID)
	}

	dups := make(map[netip.Addr][]uuid.UUID)
	for addr, ids := range seen {
		if len(ids) > 1 {
			dups[addr] = ids
		}
	}
	return dups
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
