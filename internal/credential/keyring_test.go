package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryVault() *Vault {
	ring := keyring.NewArrayKeyring(nil)
	return NewVaultWith(func() (keyring.Keyring, error) { return ring, nil })
}

func TestTokenLifecycle(t *testing.T) {
	v := memoryVault()

	tok, err := v.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, v.SetToken("s3cret"))
	tok, err = v.Token()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", tok)

	require.NoError(t, v.ClearToken())
	tok, err = v.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)

	assert.NoError(t, v.ClearToken())
}

func TestOpenFailurePropagates(t *testing.T) {
	v := NewVaultWith(func() (keyring.Keyring, error) { return nil, errors.New("no backend") })

	_, err := v.Token()
	assert.EqualError(t, err, "no backend")
	assert.Error(t, v.SetToken("x"))
	assert.Error(t, v.ClearToken())
}
