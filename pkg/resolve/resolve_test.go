package resolve

import (
	"net/netip"
	"testing"

	"github.com/google/uuid"
	"github.com/input-output-hk/bitte/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	clientID    = uuid.MustParse("6a1e6c2b-3f4d-4e5f-8a9b-0c1d2e3f4a5b")
	otherClient = uuid.MustParse("7b2f7d3c-4a5e-4f60-9bac-1d2e3f4a5b6c")
)

func fixture() []*types.Node {
	return []*types.Node{
		{
			ID: "i-0core", Name: "core-1",
			PrivateIP: netip.MustParseAddr("10.0.0.5"),
			PublicIP:  netip.MustParseAddr("3.120.1.1"),
		},
		{
			ID: "i-0client", Name: "client-eu-central-1-a",
			PrivateIP: netip.MustParseAddr("10.0.1.7"),
			PublicIP:  types.NoIP,
			ASG:       "client-eu-central-1-c5",
			Client: &types.SchedulerClient{
				ID:        clientID,
				Address:   netip.MustParseAddr("10.0.1.7"),
				NodeClass: "c5",
				Allocations: []types.Allocation{
					{ID: uuid.New(), JobID: "api", TaskGroup: "web", Index: 2, Namespace: "default", ClientStatus: "running", NodeID: clientID},
					{ID: uuid.New(), JobID: "api", TaskGroup: "web", Index: 3, Namespace: "default", ClientStatus: "failed", NodeID: clientID},
				},
			},
		},
		{
			ID: "i-0unseen", Name: "client-eu-central-1-b",
			PrivateIP: netip.MustParseAddr("10.0.1.8"),
			PublicIP:  types.NoIP,
			ASG:       "client-eu-central-1-c5",
		},
		{
			ID: "i-0other", Name: "client-us-east-2-a",
			PrivateIP: netip.MustParseAddr("10.1.1.9"),
			PublicIP:  types.NoIP,
			ASG:       "client-us-east-2-m5",
			Client: &types.SchedulerClient{
				ID:          otherClient,
				Address:     netip.MustParseAddr("10.1.1.9"),
				NodeClass:   "m5",
				Allocations: []types.Allocation{},
			},
		},
	}
}

func TestSingle(t *testing.T) {
	r := New(fixture())

	tests := []struct {
		name   string
		needle string
		want   string
	}{
		{name: "private address", needle: "10.0.0.5", want: "core-1"},
		{name: "public address", needle: "3.120.1.1", want: "core-1"},
		{name: "instance id", needle: "i-0other", want: "client-us-east-2-a"},
		{name: "name", needle: "client-eu-central-1-b", want: "client-eu-central-1-b"},
		{name: "client id", needle: clientID.String(), want: "client-eu-central-1-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := r.Single(tt.needle)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Name)
		})
	}
}

func TestSingleNoMatch(t *testing.T) {
	nodes := fixture()[1:]
	_, err := New(nodes).Single("10.0.0.5")
	require.ErrorIs(t, err, types.ErrNoMatch)
	assert.Contains(t, err.Error(), "10.0.0.5")
}

func TestSingleAddressOnlyForIPNeedles(t *testing.T) {
	nodes := []*types.Node{{ID: "i-1", Name: "a", PrivateIP: netip.MustParseAddr("10.0.0.1")}}
	_, err := New(nodes).Single("10.0.0")
	assert.ErrorIs(t, err, types.ErrNoMatch)
}

func TestSinglePolicy(t *testing.T) {
	nodes := fixture()
	nodes[2].Name = nodes[1].Name

	node, err := New(nodes).Single("client-eu-central-1-a")
	require.NoError(t, err)
	assert.Equal(t, "i-0client", node.ID, "first match in iteration order")

	_, err = New(nodes, WithPolicy(Strict)).Single("client-eu-central-1-a")
	require.ErrorIs(t, err, types.ErrAmbiguous)
	assert.Contains(t, err.Error(), "matches 2 nodes")

	node, err = New(nodes, WithPolicy(Strict)).Single("10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "core-1", node.Name)
}

func TestMany(t *testing.T) {
	r := New(fixture())

	got := r.Many("10.1.1.9", "core-1", "3.120.1.1", "nothing")
	require.Len(t, got, 2)
	assert.Equal(t, "core-1", got[0].Name, "iteration order is kept and duplicates collapse")
	assert.Equal(t, "client-us-east-2-a", got[1].Name)

	assert.Empty(t, r.Many())
	assert.Empty(t, r.Many("nothing"))
}

func TestClients(t *testing.T) {
	r := New(fixture())

	tests := []struct {
		name  string
		class string
		want  []string
	}{
		{
			name:  "autoscaling members",
			class: "",
			want:  []string{"client-eu-central-1-a", "client-eu-central-1-b", "client-us-east-2-a"},
		},
		{name: "class c5", class: "c5", want: []string{"client-eu-central-1-a"}},
		{name: "class m5", class: "m5", want: []string{"client-us-east-2-a"}},
		{name: "unknown class", class: "gpu", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, n := range r.Clients(tt.class) {
				got = append(got, n.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientsEmptyClassSelectsAutoscalingMembers(t *testing.T) {
	classless := &types.Node{
		ID: "i-0static", Name: "static-client",
		PrivateIP: netip.MustParseAddr("10.0.2.2"),
		Client: &types.SchedulerClient{
			ID:          uuid.MustParse("8c3a8e4d-5b6f-4a71-8cbd-2e3f4a5b6c7d"),
			Address:     netip.MustParseAddr("10.0.2.2"),
			Allocations: []types.Allocation{},
		},
	}
	r := New(append(fixture(), classless))

	for _, n := range r.Clients("") {
		assert.NotEqual(t, "static-client", n.Name)
	}
	assert.Len(t, r.Clients(""), 3)
}

func TestPlacement(t *testing.T) {
	r := New(fixture())

	node, alloc, err := r.Placement("api", "web", "2", "default")
	require.NoError(t, err)
	assert.Equal(t, "client-eu-central-1-a", node.Name)
	assert.Equal(t, types.AllocIndex(2), alloc.Index)
	assert.True(t, alloc.Running())

	node, _, err = r.Placement("api", "web", "api.web[2]", "default")
	require.NoError(t, err)
	assert.Equal(t, "client-eu-central-1-a", node.Name)
}

func TestPlacementNoMatch(t *testing.T) {
	r := New(fixture())

	tests := []struct {
		name                         string
		job, group, index, namespace string
	}{
		{name: "not running", job: "api", group: "web", index: "3", namespace: "default"},
		{name: "wrong namespace", job: "api", group: "web", index: "2", namespace: "prod"},
		{name: "wrong group", job: "api", group: "worker", index: "2", namespace: "default"},
		{name: "wrong job", job: "db", group: "web", index: "2", namespace: "default"},
		{name: "non-integer index", job: "api", group: "web", index: "two", namespace: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Placement(tt.job, tt.group, tt.index, tt.namespace)
			require.ErrorIs(t, err, types.ErrNoMatch)
			for _, part := range []string{tt.job, tt.group, tt.index, tt.namespace} {
				assert.Contains(t, err.Error(), part)
			}
		})
	}
}

func TestPlacementPolicy(t *testing.T) {
	nodes := fixture()
	dup := nodes[1].Client.Allocations[0]
	dup.ID = uuid.New()
	dup.NodeID = otherClient
	nodes[3].Client.Allocations = append(nodes[3].Client.Allocations, dup)

	node, _, err := New(nodes).Placement("api", "web", "2", "default")
	require.NoError(t, err)
	assert.Equal(t, "client-eu-central-1-a", node.Name)

	_, _, err = New(nodes, WithPolicy(Strict)).Placement("api", "web", "2", "default")
	require.ErrorIs(t, err, types.ErrAmbiguous)
	assert.Contains(t, err.Error(), "client-us-east-2-a")
}

func TestResolverDoesNotModifyNodes(t *testing.T) {
	nodes := fixture()
	r := New(nodes, WithPolicy(Strict))

	_, _ = r.Single("core-1")
	_ = r.Many("10.0.1.7")
	_ = r.Clients("")
	_, _, _ = r.Placement("api", "web", "2", "default")

	assert.Equal(t, fixture()[1].Client.NodeClass, nodes[1].Client.NodeClass)
	assert.Len(t, nodes[1].Client.Allocations, 2)
	assert.Same(t, nodes[0], r.Nodes()[0])
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "first-match", FirstMatch.String())
	assert.Equal(t, "strict", Strict.String())
}
