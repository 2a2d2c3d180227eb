package credential

import (
	"github.com/99designs/keyring"
	"github.com/pkg/errors"
)

const (
	serviceName = "insyd"

	// TokenKey is the keyring entry holding the backend bearer token.
	TokenKey = "api-token"
)

// Opener opens the keyring. Replaced in tests.
type Opener func() (keyring.Keyring, error)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/insyd/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("insyd-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening keyring")
	}
	return ring, nil
}

// Vault reads and writes the API token.
type Vault struct {
	open Opener
}

// NewVault returns a Vault backed by the system keyring.
func NewVault() *Vault {
	return &Vault{open: openKeyring}
}

// NewVaultWith returns a Vault that uses open to reach the keyring.
func NewVaultWith(open Opener) *Vault {
	return &Vault{open: open}
}

// Token returns the stored API token. A missing entry is not an error; the
// empty string is returned instead.
func (v *Vault) Token() (string, error) {
	ring, err := v.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(TokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "getting credential %q", TokenKey)
	}

	return string(item.Data), nil
}

// SetToken stores the API token.
func (v *Vault) SetToken(token string) error {
	ring, err := v.open()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   TokenKey,
		Data:  []byte(token),
		Label: "insyd API token",
	})
	if err != nil {
		return errors.Wrapf(err, "setting credential %q", TokenKey)
	}

	return nil
}

// ClearToken removes the API token. Clearing an absent token succeeds.
func (v *Vault) ClearToken() error {
	ring, err := v.open()
	if err != nil {
		return err
	}

	err = ring.Remove(TokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return errors.Wrapf(err, "deleting credential %q", TokenKey)
	}

	return nil
}
