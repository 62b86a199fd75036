package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/input-output-hk/bitte/pkg/health"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/metrics"
	"github.com/input-output-hk/bitte/pkg/remote"
	"github.com/input-output-hk/bitte/pkg/types"
)

// Options controls a deployment
type Options struct {
	// Flags are passed through to the deploy tool unchanged
	Flags []string

	// CheckSSH probes port 22 on every target before anything is changed
	CheckSSH bool
}

// Deployer redeploys NixOS configurations onto cluster nodes
type Deployer struct {
	runner  remote.Runner
	opts    Options
	checker func(node *types.Node) health.Checker
}

// NewDeployer creates a new deployer
func NewDeployer(runner remote.Runner, opts Options) *Deployer {
	return &Deployer{
		runner: runner,
		opts:   opts,
		checker: func(node *types.Node) health.Checker {
			return health.NewSSHChecker(node)
		},
	}
}

// Target returns the deploy target of a node, .#<nixos>@<public ip>:22
func Target(node *types.Node) string {
	return fmt.Sprintf(".#%s@%s:%d", node.NixOS, node.PublicIP, health.SSHPort)
}

// SecretsCommand returns the command that regenerates a configuration's secrets
func SecretsCommand(nixos string) remote.Command {
	return remote.Command{
		Name: "nix",
		Args: []string{"run", fmt.Sprintf(".#nixosConfigurations.'%s'.config.secrets.generateScript", nixos)},
	}
}

// DeployCommand returns the deploy tool invocation for targets
func DeployCommand(targets []string, flags []string) remote.Command {
	args := append([]string{"--targets"}, targets...)
	args = append(args, flags...)
	return remote.Command{Name: "deploy", Args: args}
}

// Deploy regenerates secrets for every node and then deploys all of them in
// one run of the deploy tool.
func (d *Deployer) Deploy(ctx context.Context, nodes []*types.Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: no nodes selected for deployment", types.ErrNoMatch)
	}

	logger := log.WithComponent("deploy")

	if d.opts.CheckSSH {
		checkers := make([]health.Checker, len(nodes))
		for i, n := range nodes {
			checkers[i] = d.checker(n)
		}
		if err := health.Unhealthy(health.CheckAll(ctx, checkers)); err != nil {
			return fmt.Errorf("ssh check failed: %w", err)
		}
		logger.Info().Int("nodes", len(nodes)).Msg("all targets accept ssh")
	}

	d.GenerateSecrets(ctx, nodes)

	targets := make([]string, len(nodes))
	for i, n := range nodes {
		targets[i] = Target(n)
	}

	cmd := DeployCommand(targets, d.opts.Flags)
	logger.Info().Strs("targets", targets).Msg("redeploy")

	err := d.runner.Run(ctx, cmd)
	metrics.RemoteActions.WithLabelValues("deploy", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("deploy of %s failed: %w", strings.Join(targets, ", "), err)
	}
	return nil
}

// GenerateSecrets regenerates the secrets of each node's configuration.
// Failures are logged and do not stop the deployment.
func (d *Deployer) GenerateSecrets(ctx context.Context, nodes []*types.Node) {
	logger := log.WithComponent("deploy")

	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.NixOS] {
			continue
		}
		seen[n.NixOS] = true

		logger.Debug().Str("nixos", n.NixOS).Msg("regenerating secrets")
		out, err := d.runner.Output(ctx, SecretsCommand(n.NixOS))
		metrics.RemoteActions.WithLabelValues("secrets", metrics.Result(err)).Inc()
		if err != nil {
			logger.Error().
				Err(err).
				Str("nixos", n.NixOS).
				Str("output", strings.TrimSpace(string(out))).
				Msg("secret generation failed")
		}
	}
}
