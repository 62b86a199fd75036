package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/input-output-hk/bitte/pkg/cluster"
	"github.com/input-output-hk/bitte/pkg/config"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/metrics"
	"github.com/input-output-hk/bitte/pkg/resolve"
	"github.com/input-output-hk/bitte/pkg/types"

	// inventory providers
	_ "github.com/input-output-hk/bitte/pkg/provider/aws"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// needsCluster marks commands that work on a cluster snapshot
const needsCluster = "bitte/needs-cluster"

// state shared between the root command's hooks and the subcommands
var (
	verbose int
	strict  bool
	cfg     *config.Config
	handle  *cluster.Handle
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if cfg != nil && cfg.MetricsFile != "" {
		if merr := metrics.WriteTextfile(cfg.MetricsFile); merr != nil {
			log.Logger.Warn().Err(merr).Msg("failed to write metrics")
		}
	}

	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bitte",
	Short: "bitte - inspect and operate bitte clusters",
	Long: `bitte builds a point-in-time view of a cluster by joining the cloud
inventory with Nomad's client and allocation state, and uses it to find
nodes by name, address, instance id, Nomad client id, node class or job
placement.

Without a Nomad token only the cloud inventory is used.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"bitte version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyProvider, "AWS", "Cloud provider of the cluster (env BITTE_PROVIDER)")
	flags.String(config.KeyDomain, "", "Public domain of the cluster (env BITTE_DOMAIN)")
	flags.String(config.KeyCluster, "", "Name of the cluster (env BITTE_CLUSTER)")
	flags.String(config.KeyRegion, "", "Default AWS region (env AWS_DEFAULT_REGION)")
	flags.String(config.KeyASGRegions, "", "Extra ':' separated regions with client autoscaling groups (env AWS_ASG_REGIONS)")
	flags.String(config.KeyToken, "", "Nomad ACL token (env NOMAD_TOKEN, falls back to the keyring)")
	flags.String(config.KeyNomadAddr, "", "Nomad API address, default https://nomad.<domain> (env NOMAD_ADDR)")
	flags.Bool(config.KeyLogJSON, false, "Log as JSON instead of console text")
	flags.String(config.KeyMetricsFile, "", "Write Prometheus metrics to this file on exit")
	flags.String(config.KeyConfigFile, "", "Config file (default $XDG_CONFIG_HOME/bitte/config.yaml)")
	flags.BoolVar(&strict, "strict", false, "Fail lookups that match more than one node or allocation")
	flags.CountVarP(&verbose, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(completionsCmd)
}

// setup loads the configuration and initializes logging for every command.
// Commands that need a snapshot also start assembling it right away; logging
// is configured first so the assembly goroutines log through it.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log.Init(log.Config{
		Level:      log.LevelFromVerbosity(verbose),
		JSONOutput: cfg.LogJSON,
		Output:     os.Stderr,
	})

	if cfg.File != "" {
		log.Logger.Debug().Str("path", cfg.File).Msg("loaded config file")
	}

	if cmd.Annotations[needsCluster] == "" {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	handle = cluster.Start(cmd.Context(), cfg.ClusterOptions())
	return nil
}

// snapshot waits for the snapshot started in setup
func snapshot() (*types.Snapshot, error) {
	snap, err := handle.Wait()
	if err != nil {
		return nil, err
	}
	if snap.Stale(time.Now()) {
		logger := log.WithCluster(snap.Name)
		logger.Warn().Time("ttl", snap.TTL).Msg("snapshot is stale")
	}
	return snap, nil
}

// checkClassFilter rejects --class without --clients
func checkClassFilter(clients bool, class string) error {
	if class != "" && !clients {
		return fmt.Errorf("%w: --class %s requires --clients", types.ErrConfigInvalid, class)
	}
	return nil
}

// resolver returns a resolver over the snapshot's nodes
func resolver(snap *types.Snapshot) *resolve.Resolver {
	policy := resolve.FirstMatch
	if strict {
		policy = resolve.Strict
	}
	return resolve.New(snap.Nodes, resolve.WithPolicy(policy))
}
