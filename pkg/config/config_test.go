package config

import (
	"os"
	"path/filepath"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/input-output-hk/bitte/pkg/client"
	"github.com/input-output-hk/bitte/pkg/types"
)

const validToken = "0b6c1b9e-2f43-4d8a-9a4e-6d9f3b2c1a70"

// isolate clears every bound variable and points the default config file at
// an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("bitte", flag.ContinueOnError)
	fs.String(KeyProvider, "", "")
	fs.String(KeyDomain, "", "")
	fs.String(KeyCluster, "", "")
	fs.String(KeyRegion, "", "")
	fs.String(KeyASGRegions, "", "")
	fs.String(KeyToken, "", "")
	fs.String(KeyNomadAddr, "", "")
	fs.String(KeyNamespace, "default", "")
	fs.Bool(KeyLogJSON, false, "")
	fs.String(KeyMetricsFile, "", "")
	fs.String(KeyConfigFile, "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, types.ProviderAWS, cfg.Provider)
	assert.Equal(t, "default", cfg.Namespace)
	assert.Empty(t, cfg.ASGRegions)
	assert.True(t, cfg.Token.IsZero())
	assert.Empty(t, cfg.File)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BITTE_PROVIDER", "aws")
	t.Setenv("BITTE_DOMAIN", "testnet.example.io")
	t.Setenv("BITTE_CLUSTER", "testnet")
	t.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
	t.Setenv("AWS_ASG_REGIONS", "us-east-2:eu-west-1")
	t.Setenv("NOMAD_TOKEN", validToken)
	t.Setenv("NOMAD_NAMESPACE", "infra")

	cfg, err := Load(newFlagSet())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, types.ProviderAWS, cfg.Provider)
	assert.Equal(t, "testnet.example.io", cfg.Domain)
	assert.Equal(t, "testnet", cfg.Cluster)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, []string{"us-east-2", "eu-west-1"}, cfg.ASGRegions)
	assert.Equal(t, client.Token(validToken), cfg.Token)
	assert.Equal(t, "infra", cfg.Namespace)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "bitte.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cluster: from-file
domain: file.example.io
aws-region: us-west-1
aws-asg-regions:
  - eu-central-1
  - us-east-2
`), 0o600))

	t.Setenv("BITTE_DOMAIN", "env.example.io")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--config", path, "--aws-region", "ap-south-1"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "from-file", cfg.Cluster, "file beats default")
	assert.Equal(t, "env.example.io", cfg.Domain, "env beats file")
	assert.Equal(t, "ap-south-1", cfg.Region, "flag beats file")
	assert.Equal(t, []string{"eu-central-1", "us-east-2"}, cfg.ASGRegions)
}

func TestLoadDefaultFile(t *testing.T) {
	isolate(t)

	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "bitte")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("cluster: default-file\n"), 0o600))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "default-file", cfg.Cluster)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))

	_, err := Load(fs)
	assert.ErrorIs(t, err, types.ErrConfigInvalid)
}

func TestLoadTokenFromKeyring(t *testing.T) {
	isolate(t)
	t.Setenv("BITTE_CLUSTER", "testnet")
	require.NoError(t, StoreToken("testnet", validToken))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, client.Token(validToken), cfg.Token)

	t.Setenv("NOMAD_TOKEN", "3d9a2c1b-0000-4000-8000-000000000001")
	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, client.Token("3d9a2c1b-0000-4000-8000-000000000001"), cfg.Token, "environment beats keyring")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Provider: types.ProviderAWS,
		Domain:   "testnet.example.io",
		Cluster:  "testnet",
		Region:   "eu-central-1",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "valid token", mutate: func(c *Config) { c.Token = validToken }},
		{name: "missing cluster", mutate: func(c *Config) { c.Cluster = "" }, wantErr: true},
		{name: "missing domain", mutate: func(c *Config) { c.Domain = "" }, wantErr: true},
		{name: "missing region", mutate: func(c *Config) { c.Region = "" }, wantErr: true},
		{name: "malformed token", mutate: func(c *Config) { c.Token = "not-a-uuid" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrConfigInvalid)
				assert.NotContains(t, err.Error(), "not-a-uuid")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClusterOptions(t *testing.T) {
	cfg := Config{
		Provider:   types.ProviderAWS,
		Domain:     "testnet.example.io",
		Cluster:    "testnet",
		Region:     "eu-central-1",
		ASGRegions: []string{"us-east-2", "eu-central-1"},
		Token:      validToken,
	}

	opts := cfg.ClusterOptions()
	assert.Equal(t, "testnet", opts.Name)
	assert.Equal(t, []string{"eu-central-1", "us-east-2"}, opts.Regions())
	assert.Equal(t, client.Token(validToken), opts.Token)
}

func TestRegionList(t *testing.T) {
	assert.Nil(t, regionList(nil))
	assert.Equal(t, []string{"a", "b"}, regionList("a:b"))
	assert.Equal(t, []string{"a", "b"}, regionList(" a, b ,"))
	assert.Equal(t, []string{"a", "b"}, regionList([]any{"a", "b"}))
	assert.Empty(t, regionList(""))
}
