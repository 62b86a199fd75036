package main

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/input-output-hk/bitte/pkg/config"
	"github.com/input-output-hk/bitte/pkg/types"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestCompletions(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			require.NoError(t, execute(t, "completions", "--shell", shell))
		})
	}

	err := execute(t, "completions", "--shell", "tcsh")
	assert.ErrorIs(t, err, types.ErrConfigInvalid)
}

func TestTokenSetAndDelete(t *testing.T) {
	keyring.MockInit()
	const token = "1f2e3d4c-5b6a-4978-8a7b-6c5d4e3f2a1b"

	require.NoError(t, execute(t, "--cluster", "testnet", "token", "set", token))

	stored, err := config.LoadToken("testnet")
	require.NoError(t, err)
	assert.Equal(t, token, stored.Value())

	err = execute(t, "--cluster", "testnet", "token", "set", "not-a-token")
	assert.ErrorIs(t, err, types.ErrConfigInvalid)

	require.NoError(t, execute(t, "--cluster", "testnet", "token", "delete"))
	stored, err = config.LoadToken("testnet")
	require.NoError(t, err)
	assert.True(t, stored.IsZero())
}

func TestClusterCommandsValidateConfig(t *testing.T) {
	keyring.MockInit()
	for _, env := range []string{"BITTE_CLUSTER", "BITTE_DOMAIN", "AWS_DEFAULT_REGION", "NOMAD_TOKEN"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	cfgFile := filepath.Join(t.TempDir(), "bitte.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("cluster: \"\"\n"), 0o600))

	err := execute(t, "--config", cfgFile, "--cluster", "", "--domain", "", "info")
	assert.ErrorIs(t, err, types.ErrConfigInvalid)
}

func TestResolverPolicy(t *testing.T) {
	snap := &types.Snapshot{Nodes: []*types.Node{
		{ID: "i-1", Name: "dup", PrivateIP: netip.MustParseAddr("10.0.0.1")},
		{ID: "i-2", Name: "dup", PrivateIP: netip.MustParseAddr("10.0.0.2")},
	}}

	defer func() { strict = false }()

	strict = false
	node, err := resolver(snap).Single("dup")
	require.NoError(t, err)
	assert.Equal(t, "i-1", node.ID)

	strict = true
	_, err = resolver(snap).Single("dup")
	assert.ErrorIs(t, err, types.ErrAmbiguous)
}

func TestClassFilterNeedsClients(t *testing.T) {
	require.NoError(t, checkClassFilter(true, "c5"))
	require.NoError(t, checkClassFilter(true, ""))
	require.NoError(t, checkClassFilter(false, ""))

	err := checkClassFilter(false, "c5")
	assert.ErrorIs(t, err, types.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "--clients")
}
