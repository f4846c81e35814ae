package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/kv"
	"status-pulse-backend/internal/model"
)

// Keys under which the collections are persisted.
const (
	KeyCategories    = "categories"
	KeySystems       = "systems"
	KeyStatusEntries = "statusEntries"
)

var (
	// ErrCategoryInUse is returned when deleting a category that systems still reference.
	ErrCategoryInUse = errors.New("category is assigned to one or more systems")
	// ErrNotFound is returned when no record has the given id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownCategory is returned when a system names a category that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownSystem is returned when a status entry names a system that does not exist.
	ErrUnknownSystem = errors.New("unknown system")
)

// Store defines every read and write on the three record collections.
// Mutations return the resulting collection; added records are appended last.
// References are checked under the same lock as the write, so a system always
// names an existing category and an entry an existing system at the time it is saved.
type Store interface {
	Categories() []model.Category
	Systems() []model.System
	StatusEntries() []model.StatusEntry
	Snapshot() Snapshot

	AddCategory(ctx context.Context, c model.Category) ([]model.Category, error)
	UpdateCategory(ctx context.Context, c model.Category) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id string) ([]model.Category, error)

	AddSystem(ctx context.Context, s model.System) ([]model.System, error)
	UpdateSystem(ctx context.Context, s model.System) ([]model.System, error)
	DeleteSystem(ctx context.Context, id string) ([]model.System, []model.StatusEntry, error)

	AddStatusEntry(ctx context.Context, e model.StatusEntry) ([]model.StatusEntry, error)
	DeleteStatusEntry(ctx context.Context, id string) ([]model.StatusEntry, error)
}

// Snapshot is a consistent copy of all collections. Revision increases with every write.
type Snapshot struct {
	Categories    []model.Category
	Systems       []model.System
	StatusEntries []model.StatusEntry
	Revision      uint64
}

// Persister saves collections by key.
type Persister interface {
	Save(ctx context.Context, key string, value any) error
	SaveAll(ctx context.Context, values map[string]any) error
}

// Options configures a record store.
type Options struct {
	// SeedDefaults fills collections that were never saved with the sample data.
	SeedDefaults bool
	// NewID assigns ids to added records. Defaults to random UUIDs.
	NewID func() string
	// Today dates the sample entries. Defaults to the current UTC day.
	Today func() dates.Day
}

// recordStore keeps the collections in memory and writes through to a Persister.
type recordStore struct {
	mu       sync.RWMutex
	persist  Persister
	newID    func() string
	revision uint64

	categories []model.Category
	systems    []model.System
	entries    []model.StatusEntry
}

// Open loads the collections from kvStore and returns a store writing back to it.
func Open(ctx context.Context, kvStore *kv.Store, opts Options) Store {
	var (
		categories = []model.Category{}
		systems    = []model.System{}
		entries    = []model.StatusEntry{}
	)
	if opts.SeedDefaults {
		today := dates.Today
		if opts.Today != nil {
			today = opts.Today
		}
		categories = DefaultCategories()
		systems = DefaultSystems()
		entries = DefaultStatusEntries(today())
	}

	seed := Snapshot{
		Categories:    kv.Load(ctx, kvStore, KeyCategories, categories),
		Systems:       kv.Load(ctx, kvStore, KeySystems, systems),
		StatusEntries: kv.Load(ctx, kvStore, KeyStatusEntries, entries),
	}
	log.Printf("Loaded %d categories, %d systems, %d status entries",
		len(seed.Categories), len(seed.Systems), len(seed.StatusEntries))
	return New(kvStore, seed, opts)
}

// New creates a store holding seed and persisting through p.
func New(p Persister, seed Snapshot, opts Options) Store {
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &recordStore{
		persist:    p,
		newID:      newID,
		categories: clone(seed.Categories),
		systems:    clone(seed.Systems),
		entries:    clone(seed.StatusEntries),
	}
}

func clone[T any](items []T) []T {
	return append(make([]T, 0, len(items)), items...)
}

func (s *recordStore) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.categories)
}

func (s *recordStore) Systems() []model.System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.systems)
}

func (s *recordStore) StatusEntries() []model.StatusEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.entries)
}

func (s *recordStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Categories:    clone(s.categories),
		Systems:       clone(s.systems),
		StatusEntries: clone(s.entries),
		Revision:      s.revision,
	}
}

// uniqueID draws ids until one is not already taken.
func (s *recordStore) uniqueID(taken func(id string) bool) string {
	for {
		if id := s.newID(); id != "" && !taken(id) {
			return id
		}
	}
}

func (s *recordStore) save(ctx context.Context, key string, value any) error {
	if err := s.persist.Save(ctx, key, value); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	s.revision++
	return nil
}

// --- Categories ---

func (s *recordStore) AddCategory(ctx context.Context, c model.Category) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.uniqueID(func(id string) bool { return indexOf(s.categories, id, categoryID) >= 0 })
	next := append(clone(s.categories), c)
	if err := s.save(ctx, KeyCategories, next); err != nil {
		return nil, err
	}
	s.categories = next
	return clone(next), nil
}

func (s *recordStore) UpdateCategory(ctx context.Context, c model.Category) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.categories, c.ID, categoryID)
	if i < 0 {
		return nil, fmt.Errorf("category %q: %w", c.ID, ErrNotFound)
	}
	next := clone(s.categories)
	next[i] = c
	if err := s.save(ctx, KeyCategories, next); err != nil {
		return nil, err
	}
	s.categories = next
	return clone(next), nil
}

func (s *recordStore) DeleteCategory(ctx context.Context, id string) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.categories, id, categoryID) < 0 {
		return nil, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	for _, sys := range s.systems {
		if sys.CategoryID == id {
			return nil, fmt.Errorf("category %q: %w", id, ErrCategoryInUse)
		}
	}
	next := without(s.categories, func(c model.Category) bool { return c.ID == id })
	if err := s.save(ctx, KeyCategories, next); err != nil {
		return nil, err
	}
	s.categories = next
	return clone(next), nil
}

// --- Systems ---

func (s *recordStore) AddSystem(ctx context.Context, sys model.System) ([]model.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.categories, sys.CategoryID, categoryID) < 0 {
		return nil, fmt.Errorf("category %q: %w", sys.CategoryID, ErrUnknownCategory)
	}
	sys.ID = s.uniqueID(func(id string) bool { return indexOf(s.systems, id, systemID) >= 0 })
	next := append(clone(s.systems), sys)
	if err := s.save(ctx, KeySystems, next); err != nil {
		return nil, err
	}
	s.systems = next
	return clone(next), nil
}

func (s *recordStore) UpdateSystem(ctx context.Context, sys model.System) ([]model.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.systems, sys.ID, systemID)
	if i < 0 {
		return nil, fmt.Errorf("system %q: %w", sys.ID, ErrNotFound)
	}
	if indexOf(s.categories, sys.CategoryID, categoryID) < 0 {
		return nil, fmt.Errorf("category %q: %w", sys.CategoryID, ErrUnknownCategory)
	}
	next := clone(s.systems)
	next[i] = sys
	if err := s.save(ctx, KeySystems, next); err != nil {
		return nil, err
	}
	s.systems = next
	return clone(next), nil
}

// DeleteSystem removes the system and every status entry that references it,
// persisting both collections in one transaction.
func (s *recordStore) DeleteSystem(ctx context.Context, id string) ([]model.System, []model.StatusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.systems, id, systemID) < 0 {
		return nil, nil, fmt.Errorf("system %q: %w", id, ErrNotFound)
	}
	nextSystems := without(s.systems, func(sys model.System) bool { return sys.ID == id })
	nextEntries := without(s.entries, func(e model.StatusEntry) bool { return e.SystemID == id })

	if err := s.persist.SaveAll(ctx, map[string]any{
		KeySystems:       nextSystems,
		KeyStatusEntries: nextEntries,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to persist system deletion: %w", err)
	}
	s.revision++
	s.systems = nextSystems
	s.entries = nextEntries
	return clone(nextSystems), clone(nextEntries), nil
}

// --- Status entries ---

func (s *recordStore) AddStatusEntry(ctx context.Context, e model.StatusEntry) ([]model.StatusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.systems, e.SystemID, systemID) < 0 {
		return nil, fmt.Errorf("system %q: %w", e.SystemID, ErrUnknownSystem)
	}
	e.ID = s.uniqueID(func(id string) bool { return indexOf(s.entries, id, entryID) >= 0 })
	next := append(clone(s.entries), e)
	if err := s.save(ctx, KeyStatusEntries, next); err != nil {
		return nil, err
	}
	s.entries = next
	return clone(next), nil
}

func (s *recordStore) DeleteStatusEntry(ctx context.Context, id string) ([]model.StatusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.entries, id, entryID) < 0 {
		return nil, fmt.Errorf("status entry %q: %w", id, ErrNotFound)
	}
	next := without(s.entries, func(e model.StatusEntry) bool { return e.ID == id })
	if err := s.save(ctx, KeyStatusEntries, next); err != nil {
		return nil, err
	}
	s.entries = next
	return clone(next), nil
}

// --- Helpers ---

func categoryID(c model.Category) string { return c.ID }
func systemID(s model.System) string     { return s.ID }
func entryID(e model.StatusEntry) string { return e.ID }

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

func without[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}
