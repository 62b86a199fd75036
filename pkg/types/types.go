package types

import (
	"cmp"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SnapshotTTL is the advisory validity horizon of a Snapshot
const SnapshotTTL = 5 * time.Minute

// StatusRunning is the only allocation client status resolution matches on
const StatusRunning = "running"

// NoIP is used for any node address that is missing or unparsable
var NoIP = netip.IPv4Unspecified()

// Snapshot is the reconciled, point-in-time view of a cluster.
// It is never modified after assembly.
type Snapshot struct {
	Name      string    `json:"name" yaml:"name"`
	Nodes     []*Node   `json:"nodes" yaml:"nodes"`
	Domain    string    `json:"domain" yaml:"domain"`
	Provider  Provider  `json:"provider" yaml:"provider"`
	TTL       time.Time `json:"ttl" yaml:"ttl"`
	CreatedAt time.Time `json:"-" yaml:"-"`
}

// Stale reports whether now is past the snapshot's validity horizon
func (s *Snapshot) Stale(now time.Time) bool {
	return now.After(s.TTL)
}

// Node is one cluster member as seen by the cloud inventory, optionally
// joined with the scheduler's registration for it.
type Node struct {
	ID           string           `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	PrivateIP    netip.Addr       `json:"priv_ip" yaml:"priv_ip"`
	PublicIP     netip.Addr       `json:"pub_ip" yaml:"pub_ip"`
	NixOS        string           `json:"nixos" yaml:"nixos"`
	Client       *SchedulerClient `json:"nomad_client,omitempty" yaml:"nomad_client,omitempty"`
	InstanceType string           `json:"node_type,omitempty" yaml:"node_type,omitempty"`
	Zone         string           `json:"zone,omitempty" yaml:"zone,omitempty"`
	ASG          string           `json:"asg,omitempty" yaml:"asg,omitempty"`
}

// IsClient reports autoscaling group membership. This is structural and
// holds whether or not the scheduler currently sees the node.
func (n *Node) IsClient() bool {
	return n.ASG != ""
}

// Role returns "client" for autoscaling group members and "core" otherwise
func (n *Node) Role() string {
	if n.IsClient() {
		return "client"
	}
	return "core"
}

// ClientID returns the attached scheduler client id in its hyphenated form,
// or "" when no client is attached.
func (n *Node) ClientID() string {
	if n.Client == nil {
		return ""
	}
	return n.Client.ID.String()
}

// NodeClass returns the attached client's node class, or "".
func (n *Node) NodeClass() string {
	if n.Client == nil {
		return ""
	}
	return n.Client.NodeClass
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	out := *n
	if n.Client != nil {
		out.Client = n.Client.Clone()
	}
	return &out
}

// SchedulerClient is the scheduler's own registration for a node
type SchedulerClient struct {
	ID          uuid.UUID    `json:"ID" yaml:"id"`
	Address     netip.Addr   `json:"Address,omitzero" yaml:"address"`
	NodeClass   string       `json:"NodeClass,omitempty" yaml:"node_class,omitempty"`
	Allocations []Allocation `json:"allocs,omitempty" yaml:"allocs,omitempty"`
}

// Clone returns a deep copy of the client
func (c *SchedulerClient) Clone() *SchedulerClient {
	out := *c
	if c.Allocations != nil {
		out.Allocations = slices.Clone(c.Allocations)
	}
	return &out
}

// Provider identifies the cloud inventory backend of a cluster
type Provider string

const (
	ProviderAWS Provider = "AWS"
)

// ParseProvider normalizes a provider name. Whether a provider is actually
// supported is decided by the inventory registry, not here.
func ParseProvider(s string) (Provider, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return "", fmt.Errorf("%w: provider must not be empty", ErrConfigInvalid)
	}
	return Provider(name), nil
}

func (p Provider) String() string {
	return string(p)
}

// CompareNodes orders nodes by name. Nodes with equal names compare equal
// regardless of any other field.
func CompareNodes(a, b *Node) int {
	return cmp.Compare(a.Name, b.Name)
}

// SameName is the equality relation matching CompareNodes
func SameName(a, b *Node) bool {
	return a.Name == b.Name
}

// SortNodes sorts nodes by name in place. Equal names keep their input order.
func SortNodes(nodes []*Node) {
	slices.SortStableFunc(nodes, CompareNodes)
}
