package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/bitte/pkg/config"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/remote"
	"github.com/input-output-hk/bitte/pkg/types"
)

var sshCmd = &cobra.Command{
	Use:   "ssh [flags] [HOST | JOB GROUP INDEX] [-- COMMAND...]",
	Short: "SSH into cluster nodes",
	Long: `SSH into cluster nodes as root.

HOST is a node name, private or public IP, instance id or Nomad client id.
With --job the first three arguments name a job, task group and allocation
index instead, and without a command a shell is opened in the allocation's
directory.

--all runs on every node in turn, --parallel on every node at once. Both
can be narrowed to client nodes with --clients and --class.

Examples:
  # Interactive shell on a node
  bitte ssh core-1

  # Shell in the directory of allocation 2 of web.api
  bitte ssh --job web api 2

  # Run a command on all c5 clients, one every 10 seconds
  bitte ssh --all --clients --class c5 --delay 10 -- systemctl restart nomad`,
	Annotations: map[string]string{needsCluster: "true"},
	RunE:        runSSH,
}

func init() {
	sshCmd.Flags().Bool("job", false, "Treat the first three arguments as JOB GROUP INDEX")
	sshCmd.Flags().String(config.KeyNamespace, "default", "Nomad namespace of the job (env NOMAD_NAMESPACE)")
	sshCmd.Flags().Bool("all", false, "Run on every node, one after another")
	sshCmd.Flags().Bool("parallel", false, "Run on every node at the same time")
	sshCmd.Flags().Bool("clients", false, "With --all or --parallel, only client nodes")
	sshCmd.Flags().String("class", "", "With --clients, only nodes of this Nomad node class")
	sshCmd.Flags().Int("delay", 0, "With --all, seconds to wait between nodes")
	sshCmd.MarkFlagsMutuallyExclusive("all", "parallel", "job")
}

func runSSH(cmd *cobra.Command, args []string) error {
	job, _ := cmd.Flags().GetBool("job")
	all, _ := cmd.Flags().GetBool("all")
	parallel, _ := cmd.Flags().GetBool("parallel")
	clients, _ := cmd.Flags().GetBool("clients")
	class, _ := cmd.Flags().GetString("class")
	delay, _ := cmd.Flags().GetInt("delay")

	if err := checkClassFilter(clients, class); err != nil {
		return err
	}
	if delay < 0 {
		return fmt.Errorf("%w: --delay must not be negative", types.ErrConfigInvalid)
	}

	snap, err := snapshot()
	if err != nil {
		return err
	}

	r := resolver(snap)
	ssh := remote.NewSSH(snap.Name)
	ctx := cmd.Context()

	if all || parallel {
		nodes := r.Nodes()
		if clients {
			nodes = r.Clients(class)
		}
		if len(nodes) == 0 {
			return fmt.Errorf("%w: no nodes selected", types.ErrNoMatch)
		}

		logger := log.WithCluster(snap.Name)
		logger.Info().Int("nodes", len(nodes)).Bool("parallel", parallel).Msg("running on multiple nodes")

		if parallel {
			return remote.Parallel(ctx, nodes, ssh.Action(args))
		}
		return remote.Sequential(ctx, nodes, time.Duration(delay)*time.Second, ssh.Action(args))
	}

	if job {
		if len(args) < 3 {
			return errors.New("--job requires JOB GROUP INDEX")
		}
		node, alloc, err := r.Placement(args[0], args[1], args[2], cfg.Namespace)
		if err != nil {
			return err
		}

		rest := args[3:]
		if len(rest) == 0 {
			rest = remote.AllocShell(alloc.ID)
		}
		return ssh.Run(ctx, node, rest)
	}

	if len(args) == 0 {
		return errors.New("first arg must be a host")
	}

	node, err := r.Single(args[0])
	if err != nil {
		return err
	}
	return ssh.Run(ctx, node, args[1:])
}
