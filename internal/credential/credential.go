// Package credential keeps the Memory Store token encrypted at rest.
// Values are sealed with AES-256-GCM under a key derived from the machine
// and user, so a copied preference database does not leak the token.
package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// EncryptedPrefix marks values as encrypted in storage.
const EncryptedPrefix = "enc:v1:"

const keySalt = "recall-preferences-v1"

var (
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidFormat    = errors.New("invalid encrypted format")
)

// Manager seals and opens secret preference values.
type Manager struct {
	aead cipher.AEAD
}

// NewManager creates a Manager keyed to this machine and user.
func NewManager() (*Manager, error) {
	return newManager(machineKey())
}

func newManager(key []byte) (*Manager, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Manager{aead: gcm}, nil
}

// Encrypt returns a storable form of plaintext. Empty input stays empty.
func (m *Manager) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, m.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := m.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Values without EncryptedPrefix are returned
// as-is so hand-edited preferences keep working.
func (m *Manager) Decrypt(stored string) (string, error) {
	if !IsEncrypted(stored) {
		return stored, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrInvalidFormat, err)
	}

	n := m.aead.NonceSize()
	if len(sealed) < n+m.aead.Overhead() {
		return "", ErrInvalidFormat
	}

	plaintext, err := m.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether value was produced by Encrypt.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// machineKey hashes host, home directory, platform and user into a 32-byte key.
func machineKey() []byte {
	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()

	parts := []string{hostname, home, runtime.GOOS, runtime.GOARCH, keySalt}
	if uid := os.Getuid(); uid != -1 {
		parts = append(parts, fmt.Sprintf("uid:%d", uid))
	}
	if username := os.Getenv("USER"); username != "" {
		parts = append(parts, username)
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return sum[:]
}

// MaskSecret hides all but the first and last four characters of secret.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
