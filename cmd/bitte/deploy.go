package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/bitte/pkg/deploy"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/remote"
	"github.com/input-output-hk/bitte/pkg/types"
)

var deployCmd = &cobra.Command{
	Use:   "deploy [flags] [NODE...] [-- DEPLOY FLAGS...]",
	Short: "Redeploy NixOS configurations onto cluster nodes",
	Long: `Redeploy NixOS configurations onto cluster nodes.

Nodes are selected by name, IP, instance id or Nomad client id, or with
--clients (and --class) as all client nodes. Secrets are regenerated for
each node's configuration, then the deploy tool is run once for all of
them. Arguments after -- are passed to the deploy tool.

Examples:
  # Redeploy two core nodes after checking they accept ssh
  bitte deploy --check-ssh core-1 core-2

  # Redeploy every c5 client without activation checks
  bitte deploy --clients --class c5 -- --skip-checks`,
	Annotations: map[string]string{needsCluster: "true"},
	RunE:        runDeploy,
}

func init() {
	deployCmd.Flags().Bool("clients", false, "Deploy to all client nodes")
	deployCmd.Flags().String("class", "", "With --clients, only nodes of this Nomad node class")
	deployCmd.Flags().Bool("check-ssh", false, "Check that every target accepts ssh before deploying")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	clients, _ := cmd.Flags().GetBool("clients")
	class, _ := cmd.Flags().GetString("class")
	checkSSH, _ := cmd.Flags().GetBool("check-ssh")

	needles, passthrough := args, []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		needles, passthrough = args[:dash], args[dash:]
	}

	if err := checkClassFilter(clients, class); err != nil {
		return err
	}
	if !clients && len(needles) == 0 {
		return fmt.Errorf("%w: name the nodes to deploy or use --clients", types.ErrConfigInvalid)
	}

	snap, err := snapshot()
	if err != nil {
		return err
	}

	r := resolver(snap)
	var nodes []*types.Node
	if clients {
		nodes = r.Clients(class)
	} else {
		nodes = r.Many(needles...)
	}

	logger := log.WithCluster(snap.Name)
	logger.Info().Strs("needles", needles).Int("nodes", len(nodes)).Msg("selected deploy targets")

	d := deploy.NewDeployer(remote.NewExecRunner(), deploy.Options{
		Flags:    passthrough,
		CheckSSH: checkSSH,
	})
	return d.Deploy(cmd.Context(), nodes)
}
