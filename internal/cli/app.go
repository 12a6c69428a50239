package cli

import (
	"fmt"

	"github.com/somnium-cli/somnium/internal/crypto"
	"github.com/somnium-cli/somnium/internal/dialog"
	"github.com/somnium-cli/somnium/internal/journal"
	"github.com/somnium-cli/somnium/internal/notify"
	"github.com/somnium-cli/somnium/internal/settings"
	"github.com/somnium-cli/somnium/internal/store"
)

// app wires the store, crypto provider, settings manager and journal
// service together for the lifetime of one command invocation.
type app struct {
	store    *store.BoltStore
	settings *settings.Manager
	journal  *journal.Service
	notify   notify.Sink
}

// openApp opens the journal database and builds the collaborator graph.
func openApp() (*app, error) {
	st, err := store.Open(journalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	provider := crypto.NewProvider()
	sink := notify.NewTerminal()

	manager := settings.NewManager(st, provider, dialog.NewTerminal(), sink)
	manager.SetMinPasswordLength(cfg.MinPasswordLength)
	manager.SetVerifyAttempts(cfg.VerifyAttempts)

	svc := journal.NewService(st, provider, manager)
	manager.OnReload(svc.Invalidate)

	return &app{
		store:    st,
		settings: manager,
		journal:  svc,
		notify:   sink,
	}, nil
}

// Close locks the session and closes the database.
func (a *app) Close() error {
	a.settings.Lock()
	return a.store.Close()
}

// unlock establishes a verified session when encryption is enabled. The
// returned bool follows the settings manager: false means the user
// cancelled or verification was exhausted, already reported.
func (a *app) unlock() bool {
	return a.settings.Unlock()
}
