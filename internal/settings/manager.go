// Package settings implements the encryption lifecycle for the journal:
// enabling and disabling encryption, changing the password, and the bulk
// migration of stored records between plaintext and envelope form.
//
// All workflow errors are caught at the workflow boundary and converted to
// user notifications; nothing propagates to the caller. The persisted
// enabled flag only ever reflects a fully completed migration, and a
// failed or cancelled workflow leaves it in its pre-workflow state.
package settings

import (
	"errors"
	"fmt"
	"sync"

	"github.com/somnium-cli/somnium/internal/crypto"
	"github.com/somnium-cli/somnium/internal/dialog"
	"github.com/somnium-cli/somnium/internal/domain"
	"github.com/somnium-cli/somnium/internal/notify"
	"github.com/somnium-cli/somnium/internal/store"
)

const (
	// DefaultVerifyAttempts is the password verification retry limit.
	DefaultVerifyAttempts = 3
	// DefaultMinPasswordLength is the minimum accepted password length.
	DefaultMinPasswordLength = 8
)

// ErrLocked is returned by SessionPassword-dependent callers when
// encryption is enabled but no password has been verified this session.
var ErrLocked = errors.New("journal is locked: encryption password not verified")

// Manager is the encryption context. It owns the in-memory session
// password and coordinates the store, crypto, dialog and notification
// collaborators through the enable/disable/change-password workflows.
// A mutex serializes workflows so only one settings operation can be in
// flight at a time.
type Manager struct {
	mu      sync.Mutex
	store   store.RecordStore
	crypto  crypto.Provider
	dialogs dialog.Provider
	notify  notify.Sink

	onReload func()

	verifyAttempts    int
	minPasswordLength int

	// sessionPassword is held in memory only, never persisted. It is
	// non-empty only while encryption is enabled and verified.
	sessionPassword string
}

// NewManager builds a manager with default retry and strength settings.
func NewManager(st store.RecordStore, cp crypto.Provider, dp dialog.Provider, ns notify.Sink) *Manager {
	return &Manager{
		store:             st,
		crypto:            cp,
		dialogs:           dp,
		notify:            ns,
		verifyAttempts:    DefaultVerifyAttempts,
		minPasswordLength: DefaultMinPasswordLength,
	}
}

// OnReload registers a hook invoked after every successful migration, so
// decrypted-record caches can be invalidated and the UI reloaded.
func (m *Manager) OnReload(fn func()) {
	m.onReload = fn
}

// SetVerifyAttempts overrides the verification retry limit.
func (m *Manager) SetVerifyAttempts(n int) {
	if n > 0 {
		m.verifyAttempts = n
	}
}

// SetMinPasswordLength overrides the minimum password length.
func (m *Manager) SetMinPasswordLength(n int) {
	if n > 0 {
		m.minPasswordLength = n
	}
}

// Enabled reports the persisted encryption state.
func (m *Manager) Enabled() (bool, error) {
	settings, err := m.store.LoadSettings()
	if err != nil {
		return false, err
	}
	return settings.Enabled, nil
}

// SessionPassword returns the verified password for this session, or an
// empty string when locked or encryption is disabled.
func (m *Manager) SessionPassword() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionPassword
}

// Lock clears the session password from memory.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	crypto.ZeroizeString(&m.sessionPassword)
}

// Unlock makes sure a verified session password is available. When
// encryption is disabled it is a no-op. Returns false when the user
// cancelled or verification was exhausted; the user has already been
// notified in that case.
func (m *Manager) Unlock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	enabled, err := m.Enabled()
	if err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Failed to read encryption settings: %v", err))
		return false
	}
	if !enabled {
		return true
	}
	if m.sessionPassword != "" {
		return true
	}

	password, ok := m.verifyWithRetry("Unlock journal", "Enter your encryption password.")
	if !ok {
		return false
	}
	m.sessionPassword = password
	return true
}

// Toggle enables or disables encryption depending on the current persisted
// state. It is the single entry point behind the settings UI switch; any
// workflow error is reported here and the persisted flag stays consistent
// with what was actually migrated.
func (m *Manager) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings, err := m.store.LoadSettings()
	if err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Failed to read encryption settings: %v", err))
		return
	}

	if settings.Enabled {
		err = m.disable()
	} else {
		err = m.enable()
	}
	if err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Encryption settings update failed: %v", err))
	}
}

// Enable runs the enable workflow directly (same as Toggle from the
// disabled state).
func (m *Manager) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enable(); err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Failed to enable encryption: %v", err))
	}
}

// Disable runs the disable workflow directly (same as Toggle from the
// enabled state).
func (m *Manager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.disable(); err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Failed to disable encryption: %v", err))
	}
}

// ChangePassword re-keys every encrypted record from the current password
// to a new one. Plaintext records are left untouched.
func (m *Manager) ChangePassword() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.changePassword(); err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Failed to change encryption password: %v", err))
	}
}

// enable also serves as the resume path after an interrupted enable:
// running it again with the same password skips records that are already
// encrypted and finishes the rest, reporting "All data is now encrypted."
// when nothing was left to migrate. When any ciphertext already exists the
// entered password goes through the verification gate first, so a resume
// can never seal the remaining records under a second password.
func (m *Manager) enable() error {
	settings, err := m.store.LoadSettings()
	if err != nil {
		return err
	}
	wasEnabled := settings.Enabled

	sample, err := m.findEncryptedRecord()
	if err != nil {
		return err
	}

	if sample != nil {
		password, ok := m.verifyWithRetry("Enable encryption",
			"Enter the password your existing encrypted entries use.")
		if !ok {
			return nil
		}
		return m.enableWith(password, wasEnabled)
	}

	password, ok, err := m.dialogs.Password(dialog.PasswordConfig{
		Title:        "Enable encryption",
		Description:  "Choose a password. You will need it every time you open your journal; there is no recovery if you forget it.",
		Confirm:      true,
		Validate:     m.validatePassword,
		ConfirmLabel: "Enable",
		CancelLabel:  "Cancel",
	})
	if err != nil {
		return err
	}
	if !ok {
		// Cancelled before any state change.
		return nil
	}
	return m.enableWith(password, wasEnabled)
}

// enableWith persists the enabled flag and runs the encrypt pass with an
// already-accepted password.
func (m *Manager) enableWith(password string, wasEnabled bool) error {
	if err := m.store.SaveSettings(&domain.Settings{Enabled: true}); err != nil {
		return err
	}
	m.sessionPassword = password

	result, err := m.migrateAll(directionEncrypt, "", password)
	if err != nil {
		// Migration is resumable: records already encrypted are skipped on
		// a re-run with the same password. Restore the flag so the
		// persisted state never claims a mode the dataset has not reached.
		crypto.ZeroizeString(&m.sessionPassword)
		if rerr := m.store.SaveSettings(&domain.Settings{Enabled: wasEnabled}); rerr != nil {
			return fmt.Errorf("%w (and failed to restore settings: %v)", err, rerr)
		}
		return err
	}

	m.reload()
	if result.Total() == 0 {
		m.notify.Notify(notify.Success, "All data is now encrypted.")
	} else {
		m.notify.Notify(notify.Success, result.Summary("encrypted"))
	}
	return nil
}

func (m *Manager) disable() error {
	settings, err := m.store.LoadSettings()
	if err != nil {
		return err
	}
	if !settings.Enabled {
		m.notify.Notify(notify.Info, "Encryption is already disabled.")
		return nil
	}

	password, ok := m.verifyWithRetry("Disable encryption", "Enter your encryption password.")
	if !ok {
		// The gate already informed the user on exhaustion; cancellation
		// is silent.
		return nil
	}

	confirmed, err := m.dialogs.Confirm(dialog.ConfirmConfig{
		Title:        "Disable encryption?",
		Description:  "Your dreams, goals and suggestion lists will be stored unencrypted on this device. Anyone with access to the journal file will be able to read them.",
		ConfirmLabel: "Disable",
		CancelLabel:  "Keep encryption",
	})
	if err != nil {
		return err
	}
	if !confirmed {
		m.notify.Notify(notify.Info, "Encryption remains enabled.")
		return nil
	}

	result, err := m.migrateAll(directionDecrypt, password, "")
	if err != nil {
		// Flag stays enabled; decrypted records are skipped when the
		// workflow is re-run.
		return err
	}

	if err := m.store.SaveSettings(&domain.Settings{Enabled: false}); err != nil {
		return err
	}
	crypto.ZeroizeString(&m.sessionPassword)

	m.reload()
	if result.Total() == 0 {
		m.notify.Notify(notify.Success, "All data is now unencrypted.")
	} else {
		m.notify.Notify(notify.Success, result.Summary("decrypted"))
	}
	return nil
}

func (m *Manager) changePassword() error {
	settings, err := m.store.LoadSettings()
	if err != nil {
		return err
	}
	if !settings.Enabled {
		m.notify.Notify(notify.Info, "Encryption is not enabled.")
		return nil
	}

	current, ok := m.verifyWithRetry("Change encryption password", "Enter your current encryption password.")
	if !ok {
		return nil
	}

	newPassword, ok, err := m.dialogs.Password(dialog.PasswordConfig{
		Title:        "New encryption password",
		Description:  "Choose a new password for your journal.",
		Confirm:      true,
		Validate:     m.validatePassword,
		ConfirmLabel: "Change password",
		CancelLabel:  "Cancel",
	})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	result, err := m.migrateAll(directionRekey, current, newPassword)
	if err != nil {
		// Some records may already be under the new password. Clear the
		// session so the next operation re-verifies against whichever key
		// its sample record holds.
		crypto.ZeroizeString(&m.sessionPassword)
		return err
	}

	m.sessionPassword = newPassword
	m.reload()
	m.notify.Notify(notify.Success, fmt.Sprintf("%d items re-encrypted.", result.Total()))
	return nil
}

// verifyWithRetry prompts for the current password and tests it against one
// known encrypted record, allowing up to verifyAttempts tries. The number
// of remaining attempts is embedded in each re-prompt. Cancelling returns
// immediately; exhaustion reports a terminal failure. It never mutates
// encryption state.
func (m *Manager) verifyWithRetry(title, description string) (string, bool) {
	sample, err := m.findEncryptedRecord()
	if err != nil {
		m.notify.Notify(notify.Error, fmt.Sprintf("Failed to read journal records: %v", err))
		return "", false
	}

	remaining := m.verifyAttempts
	for remaining > 0 {
		password, ok, err := m.dialogs.Password(dialog.PasswordConfig{
			Title:        title,
			Description:  description,
			ConfirmLabel: "Continue",
			CancelLabel:  "Cancel",
		})
		if err != nil {
			m.notify.Notify(notify.Error, fmt.Sprintf("Password prompt failed: %v", err))
			return "", false
		}
		if !ok {
			return "", false
		}

		if sample == nil {
			// Encryption is enabled but nothing is encrypted yet, so there
			// is no ciphertext to test against.
			return password, true
		}

		plaintext, err := m.crypto.Decrypt(sample.Envelope, password)
		if err == nil {
			crypto.Zeroize(plaintext)
			return password, true
		}
		if !errors.Is(err, crypto.ErrAuthentication) {
			m.notify.Notify(notify.Error, fmt.Sprintf("Failed to verify password: %v", err))
			return "", false
		}

		remaining--
		description = fmt.Sprintf("Wrong password. %d attempts remaining.", remaining)
	}

	m.notify.Notify(notify.Error, fmt.Sprintf(
		"Failed to verify password after %d attempts. Encryption remains enabled.", m.verifyAttempts))
	return "", false
}

// findEncryptedRecord returns the first encrypted record across categories
// in migration order, or nil when nothing is encrypted.
func (m *Manager) findEncryptedRecord() (*domain.Record, error) {
	categories, err := m.store.Categories()
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		records, err := m.store.LoadRaw(category)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if rec.Encrypted && rec.Envelope != nil {
				return rec, nil
			}
		}
	}
	return nil, nil
}

func (m *Manager) validatePassword(password string) error {
	if len(password) < m.minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", m.minPasswordLength)
	}
	return nil
}

func (m *Manager) reload() {
	if m.onReload != nil {
		m.onReload()
	}
}
