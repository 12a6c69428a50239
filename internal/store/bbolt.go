package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/somnium-cli/somnium/internal/domain"
)

// Bucket names. Record categories live under their own buckets with the
// recordBucketPrefix so settings and future metadata stay separate.
var (
	SettingsBucket     = []byte("settings")
	recordBucketPrefix = []byte("records:")
)

var settingsKey = []byte("encryption")

// BoltStore implements RecordStore on a single bbolt database file.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// Open opens (creating if needed) the journal database at path and makes
// sure the settings bucket plus the default categories exist.
func Open(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(SettingsBucket); err != nil {
			return fmt.Errorf("failed to create settings bucket: %w", err)
		}
		categories := []string{domain.CategoryDreams, domain.CategoryGoals}
		for _, list := range domain.DefaultSuggestionLists {
			categories = append(categories, domain.AutocompleteCategory(list))
		}
		for _, cat := range categories {
			if _, err := tx.CreateBucketIfNotExists(recordBucket(cat)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", cat, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (bs *BoltStore) Path() string {
	return bs.path
}

// Close closes the underlying database.
func (bs *BoltStore) Close() error {
	if bs.db == nil {
		return nil
	}
	err := bs.db.Close()
	bs.db = nil
	return err
}

func recordBucket(category string) []byte {
	return append(append([]byte{}, recordBucketPrefix...), category...)
}

// LoadRaw returns every record in a category, sorted by creation time, in
// whatever encryption state it was stored in.
func (bs *BoltStore) LoadRaw(category string) ([]*domain.Record, error) {
	var records []*domain.Record
	err := bs.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(recordBucket(category))
		if bucket == nil {
			return ErrCategoryNotFound
		}
		return bucket.ForEach(func(k, v []byte) error {
			rec := &domain.Record{}
			if err := json.Unmarshal(v, rec); err != nil {
				return fmt.Errorf("%w: record %s in %s", ErrJournalCorrupted, k, category)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// Get returns a single record by id.
func (bs *BoltStore) Get(category, id string) (*domain.Record, error) {
	rec := &domain.Record{}
	err := bs.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(recordBucket(category))
		if bucket == nil {
			return ErrCategoryNotFound
		}
		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrRecordNotFound
		}
		if err := json.Unmarshal(data, rec); err != nil {
			return fmt.Errorf("%w: record %s in %s", ErrJournalCorrupted, id, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Save writes a record by id, creating the category bucket if needed.
// Last writer wins; there is no optimistic-concurrency check.
func (bs *BoltStore) Save(category string, rec *domain.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record id cannot be empty")
	}
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return bs.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(recordBucket(category))
		if err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", category, err)
		}
		return bucket.Put([]byte(rec.ID), data)
	})
}

// Delete removes a record by id.
func (bs *BoltStore) Delete(category, id string) error {
	return bs.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(recordBucket(category))
		if bucket == nil {
			return ErrCategoryNotFound
		}
		if bucket.Get([]byte(id)) == nil {
			return ErrRecordNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

// EnsureCategory creates the bucket for a category if it does not exist.
func (bs *BoltStore) EnsureCategory(category string) error {
	return bs.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordBucket(category))
		return err
	})
}

// Categories lists record categories in migration order: dreams, goals,
// then autocomplete lists sorted by name.
func (bs *BoltStore) Categories() ([]string, error) {
	var autocomplete []string
	hasDreams, hasGoals := false, false
	err := bs.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			if !bytes.HasPrefix(name, recordBucketPrefix) {
				return nil
			}
			category := string(name[len(recordBucketPrefix):])
			switch {
			case category == domain.CategoryDreams:
				hasDreams = true
			case category == domain.CategoryGoals:
				hasGoals = true
			case domain.IsAutocompleteCategory(category):
				autocomplete = append(autocomplete, category)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(autocomplete)

	var categories []string
	if hasDreams {
		categories = append(categories, domain.CategoryDreams)
	}
	if hasGoals {
		categories = append(categories, domain.CategoryGoals)
	}
	return append(categories, autocomplete...), nil
}

// LoadSettings returns the persisted encryption settings, defaulting to
// disabled for a fresh journal.
func (bs *BoltStore) LoadSettings() (*domain.Settings, error) {
	settings := &domain.Settings{}
	err := bs.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(SettingsBucket)
		if bucket == nil {
			return nil
		}
		data := bucket.Get(settingsKey)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("%w: settings", ErrJournalCorrupted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveSettings persists the encryption settings.
func (bs *BoltStore) SaveSettings(s *domain.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return bs.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(SettingsBucket)
		if err != nil {
			return fmt.Errorf("failed to create settings bucket: %w", err)
		}
		return bucket.Put(settingsKey, data)
	})
}
