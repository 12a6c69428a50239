// Package store provides the persistence layer for journal records and
// encryption settings.
package store

import (
	"errors"

	"github.com/somnium-cli/somnium/internal/domain"
)

var (
	// ErrRecordNotFound is returned when the specified record does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrCategoryNotFound is returned when the specified category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrJournalCorrupted is returned when stored data cannot be decoded.
	ErrJournalCorrupted = errors.New("journal data is corrupted")
)

// RecordStore defines the storage operations the journal and the encryption
// settings manager depend on. Categories returns dreams first, then goals,
// then every autocomplete list; bulk migration relies on that order.
type RecordStore interface {
	// Record operations
	LoadRaw(category string) ([]*domain.Record, error)
	Get(category, id string) (*domain.Record, error)
	Save(category string, rec *domain.Record) error
	Delete(category, id string) error

	// Category operations
	Categories() ([]string, error)
	EnsureCategory(category string) error

	// Settings operations
	LoadSettings() (*domain.Settings, error)
	SaveSettings(s *domain.Settings) error

	Close() error
}
