// Package dialog defines the user-interaction contract the encryption
// workflows call out to: password entry (optionally with confirmation and
// inline validation) and yes/no confirmation.
package dialog

// PasswordConfig describes a password prompt.
type PasswordConfig struct {
	Title       string
	Description string
	// Confirm requires the password to be entered twice and match.
	Confirm bool
	// Validate, if set, is applied before the dialog resolves. A
	// validation error is shown inline and the prompt repeats; it never
	// resolves the dialog.
	Validate func(password string) error
	// Button labels, for UIs that render them. Optional.
	ConfirmLabel string
	CancelLabel  string
}

// ConfirmConfig describes a yes/no confirmation. Unlike a password prompt
// it has no input field, only warning text and two buttons.
type ConfirmConfig struct {
	Title        string
	Description  string
	ConfirmLabel string
	CancelLabel  string
}

// Provider is the dialog collaborator. Password returns ok=false when the
// user cancelled; a cancelled dialog is a normal outcome, not an error.
type Provider interface {
	Password(cfg PasswordConfig) (password string, ok bool, err error)
	Confirm(cfg ConfirmConfig) (bool, error)
}
