package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/input-output-hk/bitte/pkg/client"
	"github.com/input-output-hk/bitte/pkg/cluster"
	"github.com/input-output-hk/bitte/pkg/log"
	"github.com/input-output-hk/bitte/pkg/types"
)

// Configuration keys. Each is also the name of the flag bound to it.
const (
	KeyProvider    = "provider"
	KeyDomain      = "domain"
	KeyCluster     = "cluster"
	KeyRegion      = "aws-region"
	KeyASGRegions  = "aws-asg-regions"
	KeyToken       = "nomad"
	KeyNomadAddr   = "nomad-addr"
	KeyNamespace   = "namespace"
	KeyLogJSON     = "log-json"
	KeyMetricsFile = "metrics-file"
	KeyConfigFile  = "config"
)

// envBindings maps configuration keys to the environment variables read for them
var envBindings = map[string]string{
	KeyProvider:    "BITTE_PROVIDER",
	KeyDomain:      "BITTE_DOMAIN",
	KeyCluster:     "BITTE_CLUSTER",
	KeyRegion:      "AWS_DEFAULT_REGION",
	KeyASGRegions:  "AWS_ASG_REGIONS",
	KeyToken:       "NOMAD_TOKEN",
	KeyNomadAddr:   "NOMAD_ADDR",
	KeyNamespace:   "NOMAD_NAMESPACE",
	KeyLogJSON:     "BITTE_LOG_JSON",
	KeyMetricsFile: "BITTE_METRICS_FILE",
}

// Config is the resolved command configuration
type Config struct {
	Provider    types.Provider
	Domain      string
	Cluster     string
	Region      string
	ASGRegions  []string
	Token       client.Token
	NomadAddr   string
	Namespace   string
	LogJSON     bool
	MetricsFile string

	// File is the config file that was read, or "" when there was none
	File string
}

// DefaultPath returns $XDG_CONFIG_HOME/bitte/config.yaml, or "" when the
// user config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bitte", "config.yaml")
}

// Load resolves the configuration with precedence flags > env > config file >
// defaults. flagSet may be nil. The default config file is optional; one named
// explicitly must exist.
//
// When no token is configured, the token stored in the OS keyring for the
// cluster is used.
func Load(flagSet *flag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyProvider, string(types.ProviderAWS))
	v.SetDefault(KeyNamespace, "default")
	v.SetDefault(KeyLogJSON, false)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if flagSet != nil {
		flagSet.VisitAll(func(f *flag.Flag) {
			if _, ok := envBindings[f.Name]; ok || f.Name == KeyConfigFile {
				_ = v.BindPFlag(f.Name, f)
			}
		})
	}

	path, explicit := v.GetString(KeyConfigFile), true
	if path == "" {
		path, explicit = DefaultPath(), false
	}

	var file string
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		switch {
		case err == nil:
			file = path
		case !explicit && errors.Is(err, fs.ErrNotExist):
			logger := log.WithComponent("config")
			logger.Debug().Str("path", path).Msg("no config file")
		default:
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", types.ErrConfigInvalid, path, err)
		}
	}

	provider, err := types.ParseProvider(v.GetString(KeyProvider))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:    provider,
		Domain:      v.GetString(KeyDomain),
		Cluster:     v.GetString(KeyCluster),
		Region:      v.GetString(KeyRegion),
		ASGRegions:  regionList(v.Get(KeyASGRegions)),
		Token:       client.Token(strings.TrimSpace(v.GetString(KeyToken))),
		NomadAddr:   v.GetString(KeyNomadAddr),
		Namespace:   v.GetString(KeyNamespace),
		LogJSON:     v.GetBool(KeyLogJSON),
		MetricsFile: v.GetString(KeyMetricsFile),
		File:        file,
	}

	if cfg.Token.IsZero() && cfg.Cluster != "" {
		token, err := LoadToken(cfg.Cluster)
		if err != nil {
			return nil, err
		}
		cfg.Token = token
	}

	return cfg, nil
}

// Validate checks that the configuration can identify and reach a cluster
func (c *Config) Validate() error {
	var errs []error

	if c.Cluster == "" {
		errs = append(errs, fmt.Errorf("%w: cluster is required (--cluster or BITTE_CLUSTER)", types.ErrConfigInvalid))
	}
	if c.Domain == "" {
		errs = append(errs, fmt.Errorf("%w: domain is required (--domain or BITTE_DOMAIN)", types.ErrConfigInvalid))
	}
	if c.Provider == types.ProviderAWS && c.Region == "" {
		errs = append(errs, fmt.Errorf("%w: aws region is required (--aws-region or AWS_DEFAULT_REGION)", types.ErrConfigInvalid))
	}
	if !c.Token.IsZero() {
		if _, err := uuid.Parse(c.Token.Value()); err != nil {
			errs = append(errs, fmt.Errorf("%w: nomad token must be a UUID", types.ErrConfigInvalid))
		}
	}

	return errors.Join(errs...)
}

// ClusterOptions returns the snapshot options for the configured cluster
func (c *Config) ClusterOptions() cluster.Options {
	return cluster.Options{
		Name:         c.Cluster,
		Domain:       c.Domain,
		Provider:     c.Provider,
		Region:       c.Region,
		ExtraRegions: c.ASGRegions,
		Token:        c.Token,
		NomadAddr:    c.NomadAddr,
	}
}

// regionList accepts a ':' or ',' delimited string, as found in the
// environment and flags, or a YAML sequence.
func regionList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.FieldsFunc(val, func(r rune) bool { return r == ':' || r == ',' })
	case []string:
		parts = val
	case []any:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	default:
		parts = []string{fmt.Sprint(val)}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
