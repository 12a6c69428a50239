package journal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/somnium-cli/somnium/internal/crypto"
	"github.com/somnium-cli/somnium/internal/dialog"
	"github.com/somnium-cli/somnium/internal/domain"
	"github.com/somnium-cli/somnium/internal/notify"
	"github.com/somnium-cli/somnium/internal/settings"
	"github.com/somnium-cli/somnium/internal/store"
)

// autoDialogs answers every password dialog with a fixed password and
// every confirmation with yes.
type autoDialogs struct {
	password string
}

func (d *autoDialogs) Password(cfg dialog.PasswordConfig) (string, bool, error) {
	return d.password, true, nil
}

func (d *autoDialogs) Confirm(cfg dialog.ConfirmConfig) (bool, error) {
	return true, nil
}

// silentSink drops notifications.
type silentSink struct{}

func (silentSink) Notify(kind notify.Kind, text string) {}

type env struct {
	store   *store.BoltStore
	crypto  *crypto.PBKDF2Provider
	manager *settings.Manager
	svc     *Service
}

func newEnv(t *testing.T, password string) *env {
	t.Helper()
	bs, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { bs.Close() })

	provider := crypto.NewProviderWithIterations(1000)
	manager := settings.NewManager(bs, provider, &autoDialogs{password: password}, silentSink{})
	svc := NewService(bs, provider, manager)
	manager.OnReload(svc.Invalidate)
	return &env{store: bs, crypto: provider, manager: manager, svc: svc}
}

func TestDreamCRUD(t *testing.T) {
	e := newEnv(t, "")

	d, err := e.svc.AddDream(&domain.Dream{
		Title:    "Flying over the city",
		Body:     "I was above the rooftops.",
		Date:     "2026-08-30",
		Lucid:    true,
		Tags:     []string{"flying"},
		Emotions: []string{"joy"},
	})
	if err != nil {
		t.Fatalf("Failed to add dream: %v", err)
	}
	if d.ID == "" {
		t.Fatal("AddDream should assign an id")
	}

	dreams, err := e.svc.Dreams()
	if err != nil {
		t.Fatalf("Failed to list dreams: %v", err)
	}
	if len(dreams) != 1 || dreams[0].Title != "Flying over the city" {
		t.Errorf("Unexpected dreams: %+v", dreams)
	}

	// Tags and emotions feed the suggestion lists.
	tags, err := e.svc.Suggestions("tags")
	if err != nil {
		t.Fatalf("Failed to load tag suggestions: %v", err)
	}
	if len(tags) != 1 || tags[0] != "flying" {
		t.Errorf("Expected tag suggestion [flying], got %v", tags)
	}
	emotions, err := e.svc.Suggestions("emotions")
	if err != nil {
		t.Fatalf("Failed to load emotion suggestions: %v", err)
	}
	if len(emotions) != 1 || emotions[0] != "joy" {
		t.Errorf("Expected emotion suggestion [joy], got %v", emotions)
	}

	// Lookup by id prefix.
	byPrefix, err := e.svc.Dream(d.ID[:8])
	if err != nil {
		t.Fatalf("Failed to find dream by prefix: %v", err)
	}
	if byPrefix.ID != d.ID {
		t.Errorf("Prefix lookup returned wrong dream: %s", byPrefix.ID)
	}

	if err := e.svc.DeleteDream(d.ID); err != nil {
		t.Fatalf("Failed to delete dream: %v", err)
	}
	dreams, err = e.svc.Dreams()
	if err != nil {
		t.Fatalf("Failed to list dreams after delete: %v", err)
	}
	if len(dreams) != 0 {
		t.Errorf("Expected empty journal, got %d dreams", len(dreams))
	}
}

func TestAddDreamValidation(t *testing.T) {
	e := newEnv(t, "")

	if _, err := e.svc.AddDream(&domain.Dream{Title: "  "}); err == nil {
		t.Error("Empty title should be rejected")
	}
	if _, err := e.svc.AddDream(&domain.Dream{Title: "x", Date: "30-08-2026"}); err == nil {
		t.Error("Malformed date should be rejected")
	}
}

func TestGoalLifecycle(t *testing.T) {
	e := newEnv(t, "")

	g, err := e.svc.AddGoal("Look at my hands")
	if err != nil {
		t.Fatalf("Failed to add goal: %v", err)
	}

	done, err := e.svc.CompleteGoal(g.ID)
	if err != nil {
		t.Fatalf("Failed to complete goal: %v", err)
	}
	if !done.Done || done.CompletedAt == nil {
		t.Errorf("Goal not marked done: %+v", done)
	}

	goals, err := e.svc.Goals()
	if err != nil {
		t.Fatalf("Failed to list goals: %v", err)
	}
	if len(goals) != 1 || !goals[0].Done {
		t.Errorf("Unexpected goals: %+v", goals)
	}

	if err := e.svc.DeleteGoal(g.ID); err != nil {
		t.Fatalf("Failed to delete goal: %v", err)
	}
}

func TestSuggestionDeduplication(t *testing.T) {
	e := newEnv(t, "")

	for _, v := range []string{"flying", "Flying", " flying "} {
		if err := e.svc.AddSuggestion("tags", v); err != nil {
			t.Fatalf("Failed to add suggestion %q: %v", v, err)
		}
	}
	tags, err := e.svc.Suggestions("tags")
	if err != nil {
		t.Fatalf("Failed to load suggestions: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("Expected deduplicated list, got %v", tags)
	}

	if err := e.svc.RemoveSuggestion("tags", "FLYING"); err != nil {
		t.Fatalf("Failed to remove suggestion: %v", err)
	}
	tags, err = e.svc.Suggestions("tags")
	if err != nil {
		t.Fatalf("Failed to reload suggestions: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("Expected empty list after removal, got %v", tags)
	}
}

func TestNewRecordsEncryptedWhenEnabled(t *testing.T) {
	const password = "dream-password-1"
	e := newEnv(t, password)

	e.manager.Enable()
	if !e.manager.Unlock() {
		t.Fatal("Unlock should succeed with the scripted password")
	}

	if _, err := e.svc.AddDream(&domain.Dream{Title: "secret", Date: "2026-08-30"}); err != nil {
		t.Fatalf("Failed to add dream: %v", err)
	}

	records, err := e.store.LoadRaw(domain.CategoryDreams)
	if err != nil {
		t.Fatalf("Failed to load raw records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected one record, got %d", len(records))
	}
	if !records[0].Encrypted || records[0].Envelope == nil || records[0].Payload != nil {
		t.Errorf("New record should be stored encrypted: %+v", records[0])
	}

	// The service still reads it back decrypted through the session.
	dreams, err := e.svc.Dreams()
	if err != nil {
		t.Fatalf("Failed to read dreams through session: %v", err)
	}
	if len(dreams) != 1 || dreams[0].Title != "secret" {
		t.Errorf("Unexpected decrypted read: %+v", dreams)
	}
}

func TestCacheInvalidatedByMigration(t *testing.T) {
	const password = "dream-password-1"
	e := newEnv(t, password)

	if _, err := e.svc.AddDream(&domain.Dream{Title: "before", Date: "2026-08-30"}); err != nil {
		t.Fatalf("Failed to add dream: %v", err)
	}
	// Warm the cache with the plaintext read.
	if _, err := e.svc.Dreams(); err != nil {
		t.Fatalf("Failed to warm cache: %v", err)
	}

	e.manager.Enable()

	records, err := e.store.LoadRaw(domain.CategoryDreams)
	if err != nil {
		t.Fatalf("Failed to load raw records: %v", err)
	}
	if !records[0].Encrypted {
		t.Fatal("Migration should have encrypted the record")
	}

	// The cached plaintext was dropped by the reload hook; the next read
	// decrypts through the session established by Enable.
	dreams, err := e.svc.Dreams()
	if err != nil {
		t.Fatalf("Failed to read after migration: %v", err)
	}
	if len(dreams) != 1 || dreams[0].Title != "before" {
		t.Errorf("Unexpected read after migration: %+v", dreams)
	}
}

func TestReadsFailWhenLocked(t *testing.T) {
	const password = "dream-password-1"
	e := newEnv(t, password)

	if _, err := e.svc.AddDream(&domain.Dream{Title: "secret", Date: "2026-08-30"}); err != nil {
		t.Fatalf("Failed to add dream: %v", err)
	}
	e.manager.Enable()
	e.manager.Lock()
	e.svc.Invalidate()

	if _, err := e.svc.Dreams(); !errors.Is(err, settings.ErrLocked) {
		t.Errorf("Expected ErrLocked, got %v", err)
	}
}
