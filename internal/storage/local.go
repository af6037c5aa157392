package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/models"
	"github.com/your-org/catalog/internal/observability"
)

// Persisted key names, stable across sessions.
const (
	PeopleKey   = "albumPeople"
	SessionKey  = "mock_auth_session"
	DarkModeKey = "darkMode"
)

// LocalStore is the file-backed fallback store: one JSON file per key under
// a data directory, bounded by a total byte quota the way a browser bounds
// localStorage. It doubles as the mock backend when no remote database is
// configured and as the durable cache when one is.
type LocalStore struct {
	mu    sync.Mutex
	dir   string
	quota int64

	// Recompress re-encodes a photo data URI at reduced size during quota
	// recovery. Optional; the recompress tier is skipped when nil.
	Recompress func(dataURI string) (string, error)

	// OnReset is called when the last-resort recovery tier wipes all keys.
	OnReset func()
}

func NewLocalStore(cfg config.LocalConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}
	return &LocalStore{dir: cfg.Dir, quota: cfg.QuotaBytes}, nil
}

func (s *LocalStore) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// --- generic key access (session, preferences) ---

// GetKey returns the raw JSON value stored under key, or nil when absent.
func (s *LocalStore) GetKey(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", key, err)
	}
	return data, nil
}

// SetKey stores a raw JSON value under key, subject to the quota.
func (s *LocalStore) SetKey(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int64(len(value))+s.otherKeysSize(key) > s.quota {
		return ErrQuotaExceeded
	}
	if err := os.WriteFile(s.keyPath(key), value, 0o644); err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	return nil
}

// DeleteKey removes a key. Missing keys are not an error.
func (s *LocalStore) DeleteKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.keyPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete key %s: %w", key, err)
	}
	return nil
}

// otherKeysSize sums the on-disk size of every key except the named one.
// Callers must hold s.mu.
func (s *LocalStore) otherKeysSize(except string) int64 {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if e.Name() == except+".json" {
			continue
		}
		if info, err := e.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}

// --- people table ---

func (s *LocalStore) readPeople() ([]models.Person, error) {
	data, err := os.ReadFile(s.keyPath(PeopleKey))
	if errors.Is(err, os.ErrNotExist) {
		return []models.Person{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PeopleKey, err)
	}

	var people []models.Person
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PeopleKey, err)
	}
	return people, nil
}

// writePeople serializes the array, running the quota recovery ladder when
// the result does not fit: evict the oldest ~25% of records, then recompress
// stored photos, then clear unrelated keys, and as a last resort wipe the
// store entirely. Callers must hold s.mu.
func (s *LocalStore) writePeople(people []models.Person) error {
	data, err := json.Marshal(people)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", PeopleKey, err)
	}

	if s.fits(data) {
		return os.WriteFile(s.keyPath(PeopleKey), data, 0o644)
	}

	// Tier 1: evict the oldest quarter of the records. Fewer than four
	// records skip straight to recompression.
	evicted := len(people) / 4
	if evicted > 0 {
		observability.QuotaRecoveries.WithLabelValues("evict").Inc()
		people = people[evicted:]
		slog.Warn("local quota exceeded, evicted oldest records", "count", evicted)
		if data, err = json.Marshal(people); err != nil {
			return fmt.Errorf("marshal %s: %w", PeopleKey, err)
		}
		if s.fits(data) {
			return os.WriteFile(s.keyPath(PeopleKey), data, 0o644)
		}
	}

	// Tier 2: recompress stored photos harder.
	if s.Recompress != nil {
		observability.QuotaRecoveries.WithLabelValues("recompress").Inc()
		people = s.recompressAll(people)
		if data, err = json.Marshal(people); err != nil {
			return fmt.Errorf("marshal %s: %w", PeopleKey, err)
		}
		if s.fits(data) {
			return os.WriteFile(s.keyPath(PeopleKey), data, 0o644)
		}
	}

	// Tier 3: drop every key unrelated to the people table.
	observability.QuotaRecoveries.WithLabelValues("clear_keys").Inc()
	s.clearKeys(PeopleKey)
	if s.fits(data) {
		return os.WriteFile(s.keyPath(PeopleKey), data, 0o644)
	}

	// Tier 4: wipe everything and notify. If a single write is still over
	// quota there is nothing left to free.
	observability.QuotaRecoveries.WithLabelValues("reset").Inc()
	s.clearKeys("")
	slog.Error("local storage reset after exhausting quota recovery")
	if s.OnReset != nil {
		s.OnReset()
	}
	if s.fits(data) {
		return os.WriteFile(s.keyPath(PeopleKey), data, 0o644)
	}
	return ErrQuotaExceeded
}

func (s *LocalStore) fits(peopleData []byte) bool {
	return int64(len(peopleData))+s.otherKeysSize(PeopleKey) <= s.quota
}

func (s *LocalStore) recompressAll(people []models.Person) []models.Person {
	for i := range people {
		for j, photo := range people[i].Photos {
			if smaller, err := s.Recompress(photo.Data); err == nil && len(smaller) < len(photo.Data) {
				people[i].Photos[j].Data = smaller
			}
		}
		for j, photo := range people[i].LocalPhotos {
			if smaller, err := s.Recompress(photo.Data); err == nil && len(smaller) < len(photo.Data) {
				people[i].LocalPhotos[j].Data = smaller
			}
		}
		if people[i].Photo != "" {
			if smaller, err := s.Recompress(people[i].Photo); err == nil && len(smaller) < len(people[i].Photo) {
				people[i].Photo = smaller
			}
		}
	}
	return people
}

// clearKeys removes every key file except the named one. An empty except
// clears everything.
func (s *LocalStore) clearKeys(except string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if except != "" && e.Name() == except+".json" {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, e.Name()))
	}
}

// ReplaceAll overwrites the whole people table; used by the coordinator to
// snapshot the repository after every persistence operation.
func (s *LocalStore) ReplaceAll(people []models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writePeople(people)
}

// --- PeopleStore implementation ---

func (s *LocalStore) Select(ctx context.Context) ([]models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readPeople()
}

func (s *LocalStore) Insert(ctx context.Context, p models.Person) (models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = models.NewLocalID()
	}

	people, err := s.readPeople()
	if err != nil {
		return models.Person{}, err
	}
	people = append(people, p)
	if err := s.writePeople(people); err != nil {
		return models.Person{}, err
	}
	return p, nil
}

func (s *LocalStore) Update(ctx context.Context, p models.Person, id string) (models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	people, err := s.readPeople()
	if err != nil {
		return models.Person{}, err
	}

	for i := range people {
		if people[i].ID == id {
			p.ID = id
			people[i] = p
			if err := s.writePeople(people); err != nil {
				return models.Person{}, err
			}
			return p, nil
		}
	}
	return models.Person{}, fmt.Errorf("person %s not found", id)
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	return s.DeleteWhere(ctx, "id", id)
}

func (s *LocalStore) SelectWhere(ctx context.Context, field, value string) ([]models.Person, error) {
	accessor, err := fieldAccessor(field)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	people, err := s.readPeople()
	if err != nil {
		return nil, err
	}

	var out []models.Person
	for _, p := range people {
		if accessor(p) == value {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *LocalStore) DeleteWhere(ctx context.Context, field, value string) error {
	accessor, err := fieldAccessor(field)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	people, err := s.readPeople()
	if err != nil {
		return err
	}

	kept := people[:0]
	for _, p := range people {
		if accessor(p) != value {
			kept = append(kept, p)
		}
	}
	return s.writePeople(kept)
}

func (s *LocalStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func fieldAccessor(field string) (func(models.Person) string, error) {
	switch field {
	case "id":
		return func(p models.Person) string { return p.ID }, nil
	case "name":
		return func(p models.Person) string { return p.Name }, nil
	case "CPF":
		return func(p models.Person) string { return p.CPF }, nil
	case "RG":
		return func(p models.Person) string { return p.RG }, nil
	case "email":
		return func(p models.Person) string { return p.Email }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}
