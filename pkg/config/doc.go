/*
Package config resolves bitte's command configuration with viper.

Values come from, in decreasing precedence, command line flags, environment
variables, a YAML config file and built-in defaults:

	key              env                  default
	provider         BITTE_PROVIDER       AWS
	domain           BITTE_DOMAIN
	cluster          BITTE_CLUSTER
	aws-region       AWS_DEFAULT_REGION
	aws-asg-regions  AWS_ASG_REGIONS      (':' delimited)
	nomad            NOMAD_TOKEN
	nomad-addr       NOMAD_ADDR           https://nomad.<domain>
	namespace        NOMAD_NAMESPACE      default
	log-json         BITTE_LOG_JSON       false
	metrics-file     BITTE_METRICS_FILE

The config file defaults to $XDG_CONFIG_HOME/bitte/config.yaml and is
optional; --config names another one, which must then exist. Keys in the file
are the keys above:

	cluster: testnet
	domain: testnet.example.io
	aws-region: eu-central-1
	aws-asg-regions: [eu-central-1, us-east-2]

# Tokens

When neither flag nor environment carries a Nomad token, Load falls back to
the OS keyring entry for the cluster (service "bitte", user
"nomad-token/<cluster>"). StoreToken and DeleteToken manage that entry.
*/
package config
