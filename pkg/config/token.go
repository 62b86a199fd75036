package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/input-output-hk/bitte/pkg/client"
	"github.com/input-output-hk/bitte/pkg/log"
)

const keyringService = "bitte"

func keyringUser(cluster string) string {
	return "nomad-token/" + cluster
}

// LoadToken reads the Nomad token stored for cluster in the OS keyring.
// A missing entry, or a platform without a keyring, yields an empty token.
func LoadToken(cluster string) (client.Token, error) {
	secret, err := keyring.Get(keyringService, keyringUser(cluster))
	switch {
	case err == nil:
		return client.Token(secret), nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", nil
	case errors.Is(err, keyring.ErrUnsupportedPlatform):
		logger := log.WithComponent("config")
		logger.Debug().Err(err).Msg("no keyring available")
		return "", nil
	default:
		return "", fmt.Errorf("failed to read nomad token for %s from keyring: %w", cluster, err)
	}
}

// StoreToken saves the Nomad token for cluster in the OS keyring
func StoreToken(cluster string, token client.Token) error {
	if cluster == "" {
		return errors.New("cluster is required to store a token")
	}
	if err := keyring.Set(keyringService, keyringUser(cluster), token.Value()); err != nil {
		return fmt.Errorf("failed to store nomad token for %s in keyring: %w", cluster, err)
	}
	return nil
}

// DeleteToken removes the Nomad token for cluster from the OS keyring.
// Deleting a token that is not stored is not an error.
func DeleteToken(cluster string) error {
	err := keyring.Delete(keyringService, keyringUser(cluster))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete nomad token for %s from keyring: %w", cluster, err)
	}
	return nil
}
