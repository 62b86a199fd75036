package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/bitte/pkg/render"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the nodes of the cluster",
	Long: `Show the nodes of the cluster.

Core nodes are listed in one table and client nodes in one table per Nomad
node class. --json and --output json|yaml print the whole snapshot instead;
allocations are left out unless --allocs is given.

Examples:
  # Tables of core and client nodes
  bitte info

  # Snapshot with allocations as JSON
  bitte info --json --allocs`,
	Annotations: map[string]string{needsCluster: "true"},
	Args:        cobra.NoArgs,
	RunE:        runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "Print the snapshot as JSON (same as --output json)")
	infoCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	infoCmd.Flags().Bool("allocs", false, "Include Nomad allocations in JSON and YAML output")
}

func runInfo(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	output, _ := cmd.Flags().GetString("output")
	allocs, _ := cmd.Flags().GetBool("allocs")

	format, err := render.ParseFormat(output)
	if err != nil {
		return err
	}
	if asJSON {
		format = render.FormatJSON
	}

	snap, err := snapshot()
	if err != nil {
		return err
	}

	return render.Snapshot(os.Stdout, snap, render.Options{
		Format:             format,
		IncludeAllocations: allocs,
	})
}
