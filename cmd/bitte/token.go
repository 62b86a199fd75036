package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/input-output-hk/bitte/pkg/client"
	"github.com/input-output-hk/bitte/pkg/config"
	"github.com/input-output-hk/bitte/pkg/types"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the Nomad token stored in the OS keyring",
	Long: `Manage the Nomad token stored in the OS keyring.

The stored token is used for the cluster when neither --nomad nor
NOMAD_TOKEN is set.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [TOKEN]",
	Short: "Store a Nomad token for the cluster",
	Long: `Store a Nomad token for the cluster.

The token is read from stdin when not given as an argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := clusterName()
		if err != nil {
			return err
		}

		var secret string
		if len(args) == 1 {
			secret = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			secret = line
		}
		secret = strings.TrimSpace(secret)

		if _, err := uuid.Parse(secret); err != nil {
			return fmt.Errorf("%w: nomad token must be a UUID", types.ErrConfigInvalid)
		}

		if err := config.StoreToken(cluster, client.Token(secret)); err != nil {
			return err
		}
		fmt.Printf("✓ Token stored for cluster %s\n", cluster)
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored Nomad token for the cluster",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cluster, err := clusterName()
		if err != nil {
			return err
		}
		if err := config.DeleteToken(cluster); err != nil {
			return err
		}
		fmt.Printf("✓ Token removed for cluster %s\n", cluster)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenDeleteCmd)
}

func clusterName() (string, error) {
	if cfg == nil || cfg.Cluster == "" {
		return "", errors.New("cluster is required (--cluster or BITTE_CLUSTER)")
	}
	return cfg.Cluster, nil
}
