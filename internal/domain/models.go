// Package domain defines the core data structures for the dream journal:
// stored records, the journal entities they carry, and the encryption
// settings state.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/somnium-cli/somnium/internal/crypto"
)

// Record categories. Autocomplete suggestion lists each get their own
// category under AutocompletePrefix, e.g. "autocomplete:tags".
const (
	CategoryDreams     = "dreams"
	CategoryGoals      = "goals"
	AutocompletePrefix = "autocomplete:"
)

// DefaultSuggestionLists are the autocomplete lists created with a fresh
// journal. Additional lists may be created at runtime.
var DefaultSuggestionLists = []string{"tags", "people", "places", "emotions"}

// AutocompleteCategory returns the record category for a suggestion list.
func AutocompleteCategory(list string) string {
	return AutocompletePrefix + list
}

// IsAutocompleteCategory reports whether category holds suggestion entries.
func IsAutocompleteCategory(category string) bool {
	return strings.HasPrefix(category, AutocompletePrefix)
}

// Record is the stored unit of the journal. A record is wholly plaintext
// (Payload set, Envelope nil) or wholly encrypted (Envelope set, Payload
// nil); it never holds both, and transitions between the two forms only
// through the settings migration engine.
type Record struct {
	ID        string           `json:"id"`
	Encrypted bool             `json:"encrypted"`
	Payload   []byte           `json:"payload,omitempty"`
	Envelope  *crypto.Envelope `json:"envelope,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Dream is the payload of a dreams-category record.
type Dream struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Lucid     bool      `json:"lucid"`
	Recurring bool      `json:"recurring"`
	Tags      []string  `json:"tags,omitempty"`
	Emotions  []string  `json:"emotions,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Goal is the payload of a goals-category record.
type Goal struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Done        bool       `json:"done"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Suggestion is the payload of an autocomplete-list record. Each suggestion
// value is its own record so lists migrate entry by entry.
type Suggestion struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Settings is the persisted encryption state. The session password is
// deliberately absent: it lives only in memory on the settings manager.
type Settings struct {
	Enabled bool `json:"enabled"`
}

// MigrationResult counts records migrated per category during one
// enable/disable/change-password pass. It is ephemeral and feeds only the
// user-facing summary.
type MigrationResult struct {
	Dreams       int
	Goals        int
	Autocomplete int
}

// Add records n migrated records for the given category.
func (r *MigrationResult) Add(category string, n int) {
	switch {
	case category == CategoryDreams:
		r.Dreams += n
	case category == CategoryGoals:
		r.Goals += n
	case IsAutocompleteCategory(category):
		r.Autocomplete += n
	}
}

// Total returns the number of records migrated across all categories.
func (r *MigrationResult) Total() int {
	return r.Dreams + r.Goals + r.Autocomplete
}

// Summary renders a human-readable per-category count, e.g.
// "3 dreams, 2 autocomplete entries encrypted." Zero categories are
// omitted. Callers handle the Total()==0 case with their own message.
func (r *MigrationResult) Summary(verb string) string {
	var parts []string
	if r.Dreams > 0 {
		parts = append(parts, countNoun(r.Dreams, "dream", "dreams"))
	}
	if r.Goals > 0 {
		parts = append(parts, countNoun(r.Goals, "goal", "goals"))
	}
	if r.Autocomplete > 0 {
		parts = append(parts, countNoun(r.Autocomplete, "autocomplete entry", "autocomplete entries"))
	}
	return strings.Join(parts, ", ") + " " + verb + "."
}

func countNoun(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
