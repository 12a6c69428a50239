package settings

import (
	"fmt"

	"github.com/somnium-cli/somnium/internal/crypto"
	"github.com/somnium-cli/somnium/internal/domain"
)

// direction selects what a migration pass does to each record.
type direction int

const (
	// directionEncrypt wraps plaintext records; already-encrypted records
	// are skipped, so the pass is idempotent.
	directionEncrypt direction = iota
	// directionDecrypt unwraps encrypted records; plaintext records are
	// skipped.
	directionDecrypt
	// directionRekey decrypts with the old password and re-encrypts with
	// the new one; plaintext records are never touched.
	directionRekey
)

// migrateAll runs one migration pass over every category in store order:
// dreams, then goals, then each autocomplete list. Records within a
// category are processed sequentially; a failure stops the pass and
// reports how far it got. There is no rollback — see the package comment
// for the resumability policy.
func (m *Manager) migrateAll(dir direction, oldPassword, newPassword string) (*domain.MigrationResult, error) {
	result := &domain.MigrationResult{}

	categories, err := m.store.Categories()
	if err != nil {
		return result, err
	}

	for _, category := range categories {
		migrated, err := m.migrateCategory(category, dir, oldPassword, newPassword)
		result.Add(category, migrated)
		if err != nil {
			return result, fmt.Errorf("migrating %s: %w", category, err)
		}
	}
	return result, nil
}

// migrateCategory converts every record of one category that is not already
// in the target state, writing each record back as it goes. It returns the
// number of records actually migrated.
func (m *Manager) migrateCategory(category string, dir direction, oldPassword, newPassword string) (int, error) {
	records, err := m.store.LoadRaw(category)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, rec := range records {
		changed, err := m.migrateRecord(rec, dir, oldPassword, newPassword)
		if err != nil {
			return migrated, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if !changed {
			continue
		}
		if err := m.store.Save(category, rec); err != nil {
			return migrated, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		migrated++
	}
	return migrated, nil
}

func (m *Manager) migrateRecord(rec *domain.Record, dir direction, oldPassword, newPassword string) (bool, error) {
	switch dir {
	case directionEncrypt:
		if rec.Encrypted {
			return false, nil
		}
		env, err := m.crypto.Encrypt(rec.Payload, newPassword)
		if err != nil {
			return false, err
		}
		rec.Envelope = env
		rec.Payload = nil
		rec.Encrypted = true
		return true, nil

	case directionDecrypt:
		if !rec.Encrypted {
			return false, nil
		}
		payload, err := m.crypto.Decrypt(rec.Envelope, oldPassword)
		if err != nil {
			return false, err
		}
		rec.Payload = payload
		rec.Envelope = nil
		rec.Encrypted = false
		return true, nil

	case directionRekey:
		if !rec.Encrypted {
			return false, nil
		}
		payload, err := m.crypto.Decrypt(rec.Envelope, oldPassword)
		if err != nil {
			return false, err
		}
		env, err := m.crypto.Encrypt(payload, newPassword)
		crypto.Zeroize(payload)
		if err != nil {
			return false, err
		}
		rec.Envelope = env
		return true, nil

	default:
		return false, fmt.Errorf("unknown migration direction %d", dir)
	}
}
