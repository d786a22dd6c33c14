package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/recall/internal/credential"
	"github.com/felixgeelhaar/recall/internal/flow"
	"github.com/felixgeelhaar/recall/internal/observe"
	"github.com/felixgeelhaar/recall/internal/preferences"
	"github.com/felixgeelhaar/recall/internal/provider"
	"github.com/felixgeelhaar/recall/internal/store"
	"github.com/felixgeelhaar/recall/internal/ui"
)

// newClipboard is replaced in tests.
var newClipboard = func() ui.Clipboard { return ui.SystemClipboard{} }

func recallDir() (string, error) {
	if homeDir != "" {
		return homeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".recall"), nil
}

func openVault() (*credential.Vault, store.Storage, error) {
	dir, err := recallDir()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.NewSQLiteStore(filepath.Join(dir, "recall.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init store: %w", err)
	}
	m, err := credential.NewManager()
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return credential.NewVault(s, m, preferences.SecretKeys...), s, nil
}

// session holds what one add or search invocation needs.
type session struct {
	obs     *observe.Observer
	store   store.Storage
	vault   *credential.Vault
	logFile *os.File
}

func openSession(cmd *cobra.Command) (*session, error) {
	vault, st, err := openVault()
	if err != nil {
		return nil, err
	}
	s := &session{store: st, vault: vault}

	// The TUI owns the terminal, so its logs go to a file.
	var logOut io.Writer = cmd.ErrOrStderr()
	if interactive || editFirst {
		dir, err := recallDir()
		if err != nil {
			st.Close()
			return nil, err
		}
		f, err := os.OpenFile(filepath.Join(dir, "recall.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.logFile = f
		logOut = f
	}

	if jsonLogs {
		s.obs = observe.NewJSON(logOut, verbose)
	} else {
		s.obs = observe.New(logOut, verbose)
	}
	return s, nil
}

func (s *session) runner(cmd *cobra.Command, format ui.Format) (*Runner, error) {
	prefs, err := preferences.Load(s.vault)
	if err != nil {
		return nil, err
	}
	p, err := provider.NewMem0Provider(prefs.Mem0Config(), s.obs)
	if err != nil {
		return nil, err
	}
	s.obs.Log().Debug().Str("base_url", prefs.BaseURL).Str("user_id", prefs.UserID).Msg("memory store configured")

	bus := flow.NewEventBus()
	bus.LogTo(s.obs)

	clip := newClipboard()
	if a, ok := clip.(interface{ Available() bool }); ok && !a.Available() {
		s.obs.Log().Warn().Msg("no clipboard utility found; install xclip, xsel or wl-clipboard to copy results")
	}

	r := NewRunner(s.obs, p, bus, clip)
	r.Out = cmd.OutOrStdout()
	r.ErrOut = cmd.ErrOrStderr()
	r.Format = format
	r.Interactive = interactive
	return r, nil
}

func (s *session) Close() {
	s.obs.Close()
	s.store.Close()
	if s.logFile != nil {
		s.logFile.Close()
	}
}
