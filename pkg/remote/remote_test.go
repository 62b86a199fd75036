package remote

import (
	"context"
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/bitte/pkg/types"
)

type recordingRunner struct {
	mu   sync.Mutex
	cmds []Command
	fail map[string]error
}

func (r *recordingRunner) Run(_ context.Context, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	return r.fail[cmd.Args[len(cmd.Args)-1]]
}

func (r *recordingRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	return nil, r.Run(ctx, cmd)
}

func nodes(names ...string) []*types.Node {
	out := make([]*types.Node, len(names))
	for i, name := range names {
		out[i] = &types.Node{
			Name:     name,
			PublicIP: netip.AddrFrom4([4]byte{18, 194, 0, byte(i + 1)}),
		}
	}
	return out
}

func TestSSHCommand(t *testing.T) {
	dir := t.TempDir()
	s := NewSSH("testnet", WithKeyDir(dir))

	cmd := s.Command(netip.MustParseAddr("18.194.0.1"), nil)
	assert.Equal(t, "ssh", cmd.Name)
	assert.Equal(t, []string{
		"-x", "-p", "22",
		"-o", "StrictHostKeyChecking=accept-new",
		"root@18.194.0.1",
	}, cmd.Args)

	key := filepath.Join(dir, "ssh-testnet")
	require.NoError(t, os.WriteFile(key, []byte("key"), 0o600))

	cmd = s.Command(netip.MustParseAddr("18.194.0.1"), []string{"uptime"})
	assert.Equal(t, []string{
		"-x", "-p", "22",
		"-i", key,
		"-o", "StrictHostKeyChecking=accept-new",
		"root@18.194.0.1",
		"uptime",
	}, cmd.Args)
	assert.Equal(t, "ssh -x -p 22 -i "+key+" -o StrictHostKeyChecking=accept-new root@18.194.0.1 uptime", cmd.String())
}

func TestSSHRun(t *testing.T) {
	runner := &recordingRunner{fail: map[string]error{"reboot": errors.New("exit status 255")}}
	s := NewSSH("testnet", WithKeyDir(t.TempDir()), WithRunner(runner))
	n := nodes("core-1")[0]

	require.NoError(t, s.Run(context.Background(), n, []string{"uptime"}))

	err := s.Run(context.Background(), n, []string{"reboot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "core-1")
	assert.Contains(t, err.Error(), "exit status 255")
	assert.Len(t, runner.cmds, 2)
}

func TestAllocShell(t *testing.T) {
	id := uuid.MustParse("5e0f6a1b-2c3d-4e5f-8a9b-0c1d2e3f4a5b")
	assert.Equal(t, []string{"-t", "cd /var/lib/nomad/alloc/5e0f6a1b-2c3d-4e5f-8a9b-0c1d2e3f4a5b && exec $SHELL"}, AllocShell(id))
}

func TestSequential(t *testing.T) {
	var visited []string
	action := func(_ context.Context, n *types.Node) error {
		visited = append(visited, n.Name)
		if n.Name == "b" {
			return errors.New("b failed")
		}
		return nil
	}

	err := Sequential(context.Background(), nodes("a", "b", "c"), 0, action)
	require.EqualError(t, err, "b failed")
	assert.Equal(t, []string{"a", "b"}, visited, "failure aborts the rest")
}

func TestSequentialDelay(t *testing.T) {
	var stamps []time.Time
	action := func(context.Context, *types.Node) error {
		stamps = append(stamps, time.Now())
		return nil
	}

	start := time.Now()
	require.NoError(t, Sequential(context.Background(), nodes("a", "b", "c"), 30*time.Millisecond, action))
	require.Len(t, stamps, 3)

	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 30*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 30*time.Millisecond)
	assert.Less(t, time.Since(start), 90*time.Millisecond+50*time.Millisecond, "no delay after the last node")
}

func TestSequentialCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	action := func(context.Context, *types.Node) error {
		calls++
		cancel()
		return nil
	}

	err := Sequential(ctx, nodes("a", "b"), time.Hour, action)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestParallel(t *testing.T) {
	var inflight, peak atomic.Int32
	release := make(chan struct{})

	action := func(_ context.Context, n *types.Node) error {
		cur := inflight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		if cur == 3 {
			close(release)
		}
		<-release
		inflight.Add(-1)

		if n.Name != "b" {
			return errors.New(n.Name + " failed")
		}
		return nil
	}

	err := Parallel(context.Background(), nodes("a", "b", "c"), action)
	require.Error(t, err)
	assert.Equal(t, int32(3), peak.Load(), "one task per node runs concurrently")
	assert.Equal(t, "a failed\nc failed", err.Error(), "every failure is collected in node order")
}

func TestParallelAllSucceed(t *testing.T) {
	runner := &recordingRunner{}
	s := NewSSH("testnet", WithKeyDir(t.TempDir()), WithRunner(runner))

	require.NoError(t, Parallel(context.Background(), nodes("a", "b", "c", "d"), s.Action([]string{"true"})))
	assert.Len(t, runner.cmds, 4)
}
