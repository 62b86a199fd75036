package remote

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/metrics"
	"github.com/input-output-hk/bitte/pkg/types"
)

// SSH opens ssh sessions to cluster nodes as root over their public address
type SSH struct {
	cluster string
	keyDir  string
	runner  Runner
	isFile  func(path string) bool
}

// SSHOption configures an SSH executor
type SSHOption func(*SSH)

// WithKeyDir sets where the cluster's private key is looked for.
// The default is "secrets" relative to the working directory.
func WithKeyDir(dir string) SSHOption {
	return func(s *SSH) {
		s.keyDir = dir
	}
}

// WithRunner replaces the command runner
func WithRunner(r Runner) SSHOption {
	return func(s *SSH) {
		s.runner = r
	}
}

// NewSSH creates an executor for the nodes of cluster
func NewSSH(cluster string, opts ...SSHOption) *SSH {
	s := &SSH{
		cluster: cluster,
		keyDir:  "secrets",
		runner:  NewExecRunner(),
		isFile: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && info.Mode().IsRegular()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyPath returns the path of the cluster's ssh key, secrets/ssh-<cluster>
func (s *SSH) KeyPath() string {
	return filepath.Join(s.keyDir, "ssh-"+s.cluster)
}

// Command builds the ssh invocation for ip. The cluster key is passed only
// when it exists.
func (s *SSH) Command(ip netip.Addr, args []string) Command {
	flags := []string{"-x", "-p", "22"}
	if key := s.KeyPath(); s.isFile(key) {
		flags = append(flags, "-i", key)
	}
	flags = append(flags, "-o", "StrictHostKeyChecking=accept-new", "root@"+ip.String())
	flags = append(flags, args...)

	return Command{Name: "ssh", Args: flags}
}

// Run runs ssh against node's public address with args as the remote command.
// No args opens an interactive shell.
func (s *SSH) Run(ctx context.Context, node *types.Node, args []string) error {
	cmd := s.Command(node.PublicIP, args)

	logger := log.WithCluster(s.cluster)
	logger.Info().
		Str("node", node.Name).
		Str("cmd", cmd.String()).
		Msg("ssh")

	err := s.runner.Run(ctx, cmd)
	metrics.RemoteActions.WithLabelValues("ssh", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("ssh to %s (%s): %w", node.Name, node.PublicIP, err)
	}
	return nil
}

// Action returns Run with fixed args, for use with Sequential and Parallel
func (s *SSH) Action(args []string) Action {
	return func(ctx context.Context, node *types.Node) error {
		return s.Run(ctx, node, args)
	}
}

// AllocShell returns the remote command that opens a shell in an
// allocation's directory.
func AllocShell(allocID uuid.UUID) []string {
	return []string{"-t", fmt.Sprintf("cd /var/lib/nomad/alloc/%s && exec $SHELL", allocID)}
}
