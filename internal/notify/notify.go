// Package notify is the user-notification sink the workflows report
// outcomes through.
package notify

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// Kind classifies a notification.
type Kind int

const (
	Success Kind = iota
	Error
	Warning
	Info
)

// Sink receives fire-and-forget notifications.
type Sink interface {
	Notify(kind Kind, text string)
}

// Terminal writes colored notifications to a terminal.
type Terminal struct {
	out io.Writer
	err io.Writer
}

// NewTerminal returns a sink writing to stdout, with errors on stderr.
func NewTerminal() *Terminal {
	return &Terminal{out: os.Stdout, err: os.Stderr}
}

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// Notify prints the notification with a kind marker.
func (t *Terminal) Notify(kind Kind, text string) {
	switch kind {
	case Success:
		successColor.Fprintf(t.out, "✓ %s\n", text)
	case Error:
		errorColor.Fprintf(t.err, "✗ %s\n", text)
	case Warning:
		warningColor.Fprintf(t.out, "! %s\n", text)
	default:
		infoColor.Fprintf(t.out, "• %s\n", text)
	}
}
