package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTokenKeyring(t *testing.T) {
	keyring.MockInit()

	token, err := LoadToken("testnet")
	require.NoError(t, err)
	assert.True(t, token.IsZero(), "missing entry is not an error")

	require.NoError(t, StoreToken("testnet", validToken))

	token, err = LoadToken("testnet")
	require.NoError(t, err)
	assert.Equal(t, validToken, token.Value())

	other, err := LoadToken("mainnet")
	require.NoError(t, err)
	assert.True(t, other.IsZero(), "tokens are stored per cluster")

	require.NoError(t, DeleteToken("testnet"))
	require.NoError(t, DeleteToken("testnet"))

	token, err = LoadToken("testnet")
	require.NoError(t, err)
	assert.True(t, token.IsZero())
}

func TestStoreTokenRequiresCluster(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, StoreToken("", validToken))
}

func TestLoadTokenKeyringError(t *testing.T) {
	keyring.MockInitWithError(assert.AnError)

	_, err := LoadToken("testnet")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "testnet")
}
