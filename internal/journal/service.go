// Package journal provides decrypting CRUD access to dreams, goals and
// autocomplete suggestion lists on top of the record store. Reads go
// through an in-memory cache of decrypted payloads that the settings
// manager invalidates after every migration.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/somnium-cli/somnium/internal/crypto"
	"github.com/somnium-cli/somnium/internal/domain"
	"github.com/somnium-cli/somnium/internal/settings"
	"github.com/somnium-cli/somnium/internal/store"
)

// DateFormat is the canonical dream-date layout.
const DateFormat = "2006-01-02"

// Service reads and writes journal entities. New records are created
// encrypted or plaintext depending on the encryption mode at creation
// time; existing records change form only through the settings manager's
// migration.
type Service struct {
	mu       sync.Mutex
	store    store.RecordStore
	crypto   crypto.Provider
	settings *settings.Manager

	// cache holds decrypted payloads per category.
	cache map[string][][]byte
}

// NewService builds a journal service. Callers should register
// (*Service).Invalidate as the manager's reload hook.
func NewService(st store.RecordStore, cp crypto.Provider, mgr *settings.Manager) *Service {
	return &Service{
		store:    st,
		crypto:   cp,
		settings: mgr,
		cache:    make(map[string][][]byte),
	}
}

// Invalidate drops every cached decrypted payload. Wired as the settings
// manager's reload hook so reads after a migration re-decrypt under the
// new state.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string][][]byte)
}

// loadPayloads returns the decrypted payloads of a category, from cache
// when possible. The session password is read before taking the service
// lock: the manager's reload hook takes this lock too, so the two mutexes
// must never be held together.
func (s *Service) loadPayloads(category string) ([][]byte, error) {
	password := s.settings.SessionPassword()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[category]; ok {
		return cached, nil
	}

	records, err := s.store.LoadRaw(category)
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, 0, len(records))
	for _, rec := range records {
		payload, err := s.decodeRecord(rec, password)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		payloads = append(payloads, payload)
	}

	s.cache[category] = payloads
	return payloads, nil
}

func (s *Service) decodeRecord(rec *domain.Record, password string) ([]byte, error) {
	if !rec.Encrypted {
		return rec.Payload, nil
	}
	if password == "" {
		return nil, settings.ErrLocked
	}
	return s.crypto.Decrypt(rec.Envelope, password)
}

// wrap builds a stored record around a payload, encrypting it when
// encryption is currently enabled.
func (s *Service) wrap(id string, payload []byte) (*domain.Record, error) {
	rec := &domain.Record{
		ID:        id,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	enabled, err := s.settings.Enabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return rec, nil
	}

	password := s.settings.SessionPassword()
	if password == "" {
		return nil, settings.ErrLocked
	}
	env, err := s.crypto.Encrypt(payload, password)
	if err != nil {
		return nil, err
	}
	rec.Payload = nil
	rec.Envelope = env
	rec.Encrypted = true
	return rec, nil
}

func (s *Service) invalidateCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, category)
}

// AddDream stores a new dream and records its tags and emotions in the
// matching suggestion lists.
func (s *Service) AddDream(d *domain.Dream) (*domain.Dream, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, errors.New("dream title cannot be empty")
	}
	if d.Date == "" {
		d.Date = time.Now().Format(DateFormat)
	} else if _, err := time.Parse(DateFormat, d.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", d.Date)
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()

	if err := s.saveEntity(domain.CategoryDreams, d.ID, d); err != nil {
		return nil, err
	}

	for _, tag := range d.Tags {
		if err := s.AddSuggestion("tags", tag); err != nil {
			return nil, err
		}
	}
	for _, emotion := range d.Emotions {
		if err := s.AddSuggestion("emotions", emotion); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Dreams returns every dream, newest date first.
func (s *Service) Dreams() ([]*domain.Dream, error) {
	payloads, err := s.loadPayloads(domain.CategoryDreams)
	if err != nil {
		return nil, err
	}
	dreams := make([]*domain.Dream, 0, len(payloads))
	for _, p := range payloads {
		d := &domain.Dream{}
		if err := json.Unmarshal(p, d); err != nil {
			return nil, fmt.Errorf("failed to decode dream: %w", err)
		}
		dreams = append(dreams, d)
	}
	sort.Slice(dreams, func(i, j int) bool {
		if dreams[i].Date == dreams[j].Date {
			return dreams[i].CreatedAt.After(dreams[j].CreatedAt)
		}
		return dreams[i].Date > dreams[j].Date
	})
	return dreams, nil
}

// Dream returns one dream by id, accepting unambiguous id prefixes.
func (s *Service) Dream(id string) (*domain.Dream, error) {
	dreams, err := s.Dreams()
	if err != nil {
		return nil, err
	}
	var match *domain.Dream
	for _, d := range dreams {
		if d.ID == id {
			return d, nil
		}
		if strings.HasPrefix(d.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous dream id %q", id)
			}
			match = d
		}
	}
	if match == nil {
		return nil, store.ErrRecordNotFound
	}
	return match, nil
}

// DeleteDream removes a dream by id (or unambiguous prefix).
func (s *Service) DeleteDream(id string) error {
	d, err := s.Dream(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(domain.CategoryDreams, d.ID); err != nil {
		return err
	}
	s.invalidateCategory(domain.CategoryDreams)
	return nil
}

// AddGoal stores a new dream goal.
func (s *Service) AddGoal(text string) (*domain.Goal, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("goal text cannot be empty")
	}
	g := &domain.Goal{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.saveEntity(domain.CategoryGoals, g.ID, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Goals returns every goal, oldest first.
func (s *Service) Goals() ([]*domain.Goal, error) {
	payloads, err := s.loadPayloads(domain.CategoryGoals)
	if err != nil {
		return nil, err
	}
	goals := make([]*domain.Goal, 0, len(payloads))
	for _, p := range payloads {
		g := &domain.Goal{}
		if err := json.Unmarshal(p, g); err != nil {
			return nil, fmt.Errorf("failed to decode goal: %w", err)
		}
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

// CompleteGoal marks a goal done.
func (s *Service) CompleteGoal(id string) (*domain.Goal, error) {
	g, err := s.findGoal(id)
	if err != nil {
		return nil, err
	}
	if g.Done {
		return g, nil
	}
	now := time.Now().UTC()
	g.Done = true
	g.CompletedAt = &now
	if err := s.saveEntity(domain.CategoryGoals, g.ID, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGoal removes a goal by id (or unambiguous prefix).
func (s *Service) DeleteGoal(id string) error {
	g, err := s.findGoal(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(domain.CategoryGoals, g.ID); err != nil {
		return err
	}
	s.invalidateCategory(domain.CategoryGoals)
	return nil
}

func (s *Service) findGoal(id string) (*domain.Goal, error) {
	goals, err := s.Goals()
	if err != nil {
		return nil, err
	}
	var match *domain.Goal
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
		if strings.HasPrefix(g.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous goal id %q", id)
			}
			match = g
		}
	}
	if match == nil {
		return nil, store.ErrRecordNotFound
	}
	return match, nil
}

// Suggestions returns the values of an autocomplete list, sorted.
func (s *Service) Suggestions(list string) ([]string, error) {
	payloads, err := s.loadPayloads(domain.AutocompleteCategory(list))
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	values := make([]string, 0, len(payloads))
	for _, p := range payloads {
		sg := &domain.Suggestion{}
		if err := json.Unmarshal(p, sg); err != nil {
			return nil, fmt.Errorf("failed to decode suggestion: %w", err)
		}
		values = append(values, sg.Value)
	}
	sort.Strings(values)
	return values, nil
}

// AddSuggestion adds a value to an autocomplete list, ignoring duplicates
// (case-insensitive).
func (s *Service) AddSuggestion(list, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	existing, err := s.Suggestions(list)
	if err != nil {
		return err
	}
	for _, v := range existing {
		if strings.EqualFold(v, value) {
			return nil
		}
	}
	category := domain.AutocompleteCategory(list)
	if err := s.store.EnsureCategory(category); err != nil {
		return err
	}
	sg := &domain.Suggestion{ID: uuid.NewString(), Value: value}
	return s.saveEntity(category, sg.ID, sg)
}

// RemoveSuggestion deletes a value from an autocomplete list.
func (s *Service) RemoveSuggestion(list, value string) error {
	category := domain.AutocompleteCategory(list)
	records, err := s.store.LoadRaw(category)
	if err != nil {
		return err
	}
	password := s.settings.SessionPassword()
	for _, rec := range records {
		payload, err := s.decodeRecord(rec, password)
		if err != nil {
			return err
		}
		sg := &domain.Suggestion{}
		if err := json.Unmarshal(payload, sg); err != nil {
			return fmt.Errorf("failed to decode suggestion: %w", err)
		}
		if strings.EqualFold(sg.Value, value) {
			if err := s.store.Delete(category, rec.ID); err != nil {
				return err
			}
			s.invalidateCategory(category)
			return nil
		}
	}
	return store.ErrRecordNotFound
}

// SuggestionLists returns the names of every autocomplete list.
func (s *Service) SuggestionLists() ([]string, error) {
	categories, err := s.store.Categories()
	if err != nil {
		return nil, err
	}
	var lists []string
	for _, cat := range categories {
		if domain.IsAutocompleteCategory(cat) {
			lists = append(lists, strings.TrimPrefix(cat, domain.AutocompletePrefix))
		}
	}
	return lists, nil
}

func (s *Service) saveEntity(category, id string, entity interface{}) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s entity: %w", category, err)
	}
	rec, err := s.wrap(id, payload)
	if err != nil {
		return err
	}
	if err := s.store.Save(category, rec); err != nil {
		return err
	}
	s.invalidateCategory(category)
	return nil
}
