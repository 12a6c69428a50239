package dialog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Terminal implements Provider on an interactive terminal. Submitting an
// empty password or hitting EOF counts as cancelling the dialog, which is
// the closest terminal equivalent of a Cancel button.
type Terminal struct {
	out io.Writer
}

// NewTerminal returns a terminal dialog provider writing prompts to stdout.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stdout}
}

// Password prompts for a password without echoing input.
func (t *Terminal) Password(cfg PasswordConfig) (string, bool, error) {
	if cfg.Title != "" {
		fmt.Fprintln(t.out, cfg.Title)
	}
	if cfg.Description != "" {
		fmt.Fprintln(t.out, cfg.Description)
	}
	fmt.Fprintln(t.out, "(leave empty to cancel)")

	for {
		password, err := t.readPassword("Password: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", false, nil
			}
			return "", false, err
		}
		if password == "" {
			return "", false, nil
		}

		if cfg.Validate != nil {
			if err := cfg.Validate(password); err != nil {
				fmt.Fprintf(t.out, "%v\n", err)
				continue
			}
		}

		if cfg.Confirm {
			confirm, err := t.readPassword("Confirm password: ")
			if err != nil {
				if errors.Is(err, io.EOF) {
					return "", false, nil
				}
				return "", false, err
			}
			if confirm != password {
				fmt.Fprintln(t.out, "Passwords do not match.")
				continue
			}
		}

		return password, true, nil
	}
}

// Confirm prompts for a yes/no answer, defaulting to no.
func (t *Terminal) Confirm(cfg ConfirmConfig) (bool, error) {
	if cfg.Title != "" {
		fmt.Fprintln(t.out, cfg.Title)
	}
	if cfg.Description != "" {
		fmt.Fprintln(t.out, cfg.Description)
	}

	confirmLabel := cfg.ConfirmLabel
	if confirmLabel == "" {
		confirmLabel = "yes"
	}
	fmt.Fprintf(t.out, "Type '%s' to proceed, anything else to cancel: ", confirmLabel)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.ToLower(strings.TrimSpace(input))
	return input == strings.ToLower(confirmLabel) || input == "y" || input == "yes", nil
}

func (t *Terminal) readPassword(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
