// Package preferences resolves the settings the flows need from the
// preference store.
package preferences

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/felixgeelhaar/recall/internal/provider"
)

// Preference keys.
const (
	KeyAPIKey  = "mem0.api_key"
	KeyBaseURL = "mem0.base_url"
	KeyUserID  = "mem0.user_id"
	KeyTimeout = "http.timeout"
)

// SecretKeys lists the keys encrypted at rest.
var SecretKeys = []string{KeyAPIKey}

// Known lists every preference with its description, for `config list`.
var Known = []struct {
	Key         string
	Description string
	Default     string
}{
	{KeyAPIKey, "Memory Store API token", ""},
	{KeyBaseURL, "Memory Store base URL", provider.DefaultBaseURL},
	{KeyUserID, "Caller identity sent with every request", DefaultUserID},
	{KeyTimeout, "HTTP timeout per request (Go duration, 0 disables)", DefaultTimeout.String()},
}

const DefaultUserID = "recall"

const DefaultTimeout = 30 * time.Second

// ErrMissingAPIKey is returned when no token has been configured.
var ErrMissingAPIKey = errors.New("no API key configured; run `recall config set mem0.api_key <token>`")

// Source reads a preference; missing keys read as "".
type Source interface {
	Get(key string) (string, error)
}

// Preferences are the resolved settings for one command invocation.
type Preferences struct {
	APIKey  string        `validate:"required"`
	BaseURL string        `validate:"required,url"`
	UserID  string        `validate:"required,max=256"`
	Timeout time.Duration `validate:"gte=0"`
}

var validate = validator.New()

// Load reads preferences from src, applies defaults and validates them.
func Load(src Source) (*Preferences, error) {
	p := &Preferences{
		BaseURL: provider.DefaultBaseURL,
		UserID:  DefaultUserID,
		Timeout: DefaultTimeout,
	}

	var err error
	if p.APIKey, err = src.Get(KeyAPIKey); err != nil {
		return nil, err
	}
	if p.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := override(src, KeyBaseURL, &p.BaseURL); err != nil {
		return nil, err
	}
	if err := override(src, KeyUserID, &p.UserID); err != nil {
		return nil, err
	}

	var timeout string
	if err := override(src, KeyTimeout, &timeout); err != nil {
		return nil, err
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyTimeout, timeout, err)
		}
		p.Timeout = d
	}

	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}
	return p, nil
}

// Mem0Config converts the preferences into provider settings.
func (p *Preferences) Mem0Config() provider.Mem0Config {
	return provider.Mem0Config{
		APIKey:  p.APIKey,
		BaseURL: p.BaseURL,
		UserID:  p.UserID,
		Timeout: p.Timeout,
	}
}

func override(src Source, key string, dst *string) error {
	v, err := src.Get(key)
	if err != nil {
		return err
	}
	if v != "" {
		*dst = v
	}
	return nil
}
