package credential

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/recall/internal/store"
)

func newTestVault(t *testing.T) (*Vault, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "recall.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	m, err := NewManager()
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return NewVault(s, m, "mem0.api_key"), s
}

func TestVault_SecretsEncryptedAtRest(t *testing.T) {
	v, s := newTestVault(t)

	if err := v.Set("mem0.api_key", "m0-1234567890abcdef"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, _ := s.GetConfig("mem0.api_key")
	if !IsEncrypted(raw) || strings.Contains(raw, "m0-1234567890abcdef") {
		t.Errorf("secret stored in clear: %q", raw)
	}

	got, err := v.Get("mem0.api_key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "m0-1234567890abcdef" {
		t.Errorf("Get = %q", got)
	}

	shown, _ := v.Display("mem0.api_key")
	if shown != "m0-1...cdef" {
		t.Errorf("Display = %q, want masked", shown)
	}
}

func TestVault_PlainKeys(t *testing.T) {
	v, s := newTestVault(t)

	_ = v.Set("mem0.user_id", "recall")
	raw, _ := s.GetConfig("mem0.user_id")
	if raw != "recall" {
		t.Errorf("plain key should be stored as-is, got %q", raw)
	}
	shown, _ := v.Display("mem0.user_id")
	if shown != "recall" {
		t.Errorf("Display = %q", shown)
	}

	if err := v.Unset("mem0.user_id"); err != nil {
		t.Fatalf("Unset failed: %v", err)
	}
	if got, _ := v.Get("mem0.user_id"); got != "" {
		t.Errorf("expected empty after Unset, got %q", got)
	}
}

func TestVault_CorruptSecret(t *testing.T) {
	v, s := newTestVault(t)

	_ = s.SetConfig("mem0.api_key", EncryptedPrefix+"YWJj")
	if _, err := v.Get("mem0.api_key"); err == nil {
		t.Error("expected error for corrupt secret")
	}
}
