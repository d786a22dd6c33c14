package credential

import (
	"fmt"

	"github.com/felixgeelhaar/recall/internal/store"
)

// Vault stores preferences, encrypting the keys marked secret.
type Vault struct {
	store   store.Storage
	manager *Manager
	secret  map[string]bool
}

func NewVault(s store.Storage, m *Manager, secretKeys ...string) *Vault {
	secret := make(map[string]bool, len(secretKeys))
	for _, k := range secretKeys {
		secret[k] = true
	}
	return &Vault{store: s, manager: m, secret: secret}
}

// IsSecret reports whether key is encrypted at rest.
func (v *Vault) IsSecret(key string) bool {
	return v.secret[key]
}

func (v *Vault) Set(key, value string) error {
	if v.IsSecret(key) {
		sealed, err := v.manager.Encrypt(value)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", key, err)
		}
		value = sealed
	}
	return v.store.SetConfig(key, value)
}

func (v *Vault) Get(key string) (string, error) {
	stored, err := v.store.GetConfig(key)
	if err != nil {
		return "", err
	}
	if !v.IsSecret(key) {
		return stored, nil
	}
	plain, err := v.manager.Decrypt(stored)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	return plain, nil
}

func (v *Vault) Unset(key string) error {
	return v.store.DeleteConfig(key)
}

// Display returns the value of key suitable for printing; secrets are masked.
func (v *Vault) Display(key string) (string, error) {
	value, err := v.Get(key)
	if err != nil || value == "" || !v.IsSecret(key) {
		return value, err
	}
	return MaskSecret(value), nil
}
