package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"status-pulse-backend/config"
	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/db"
	"status-pulse-backend/internal/kv"
	"status-pulse-backend/internal/model"
)

// fakePersister records saves and can be told to fail.
type fakePersister struct {
	saved map[string]any
	fail  error
}

func (f *fakePersister) Save(ctx context.Context, key string, value any) error {
	return f.SaveAll(ctx, map[string]any{key: value})
}

func (f *fakePersister) SaveAll(_ context.Context, values map[string]any) error {
	if f.fail != nil {
		return f.fail
	}
	if f.saved == nil {
		f.saved = make(map[string]any)
	}
	for k, v := range values {
		f.saved[k] = v
	}
	return nil
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func fixture() Snapshot {
	return Snapshot{
		Categories: []model.Category{{ID: "cat1", Name: "Core"}, {ID: "cat2", Name: "Spare"}},
		Systems:    []model.System{{ID: "sysA", Name: "Auth", CategoryID: "cat1"}, {ID: "sysB", Name: "Billing", CategoryID: "cat1"}},
		StatusEntries: []model.StatusEntry{
			{ID: "e1", SystemID: "sysA", Date: "2024-01-01", Status: model.StatusOperational},
			{ID: "e2", SystemID: "sysB", Date: "2024-01-02", Status: model.StatusDegraded},
			{ID: "e3", SystemID: "sysA", Date: "2024-01-03", Status: model.StatusFullOutage},
		},
	}
}

func newTestStore(p Persister) Store {
	return New(p, fixture(), Options{NewID: sequentialIDs("id")})
}

func TestDeleteCategory_InUseIsRefused(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(p)

	_, err := s.DeleteCategory(context.Background(), "cat1")

	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Len(t, s.Categories(), 2, "category must remain")
	assert.Equal(t, fixture().Systems, s.Systems(), "systems must be untouched")
	assert.Empty(t, p.saved, "nothing may be persisted")
	assert.Equal(t, uint64(0), s.Snapshot().Revision)
}

func TestDeleteCategory_Unused(t *testing.T) {
	s := newTestStore(&fakePersister{})

	categories, err := s.DeleteCategory(context.Background(), "cat2")
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: "cat1", Name: "Core"}}, categories)

	_, err = s.DeleteCategory(context.Background(), "cat2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSystem_Cascades(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(p)

	systems, entries, err := s.DeleteSystem(context.Background(), "sysA")
	require.NoError(t, err)

	assert.Equal(t, []model.System{{ID: "sysB", Name: "Billing", CategoryID: "cat1"}}, systems)
	for _, e := range entries {
		assert.NotEqual(t, "sysA", e.SystemID)
	}
	assert.Len(t, s.StatusEntries(), 1)
	assert.Contains(t, p.saved, KeySystems)
	assert.Contains(t, p.saved, KeyStatusEntries)
	assert.Equal(t, uint64(1), s.Snapshot().Revision)
}

func TestMutations_AreAllOrNothing(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{fail: errors.New("disk full")}
	s := newTestStore(p)
	before := s.Snapshot()

	_, err := s.AddCategory(ctx, model.Category{Name: "New"})
	assert.ErrorContains(t, err, "disk full")
	_, _, err = s.DeleteSystem(ctx, "sysA")
	assert.Error(t, err)
	_, err = s.AddStatusEntry(ctx, model.StatusEntry{SystemID: "sysA", Date: "2024-02-01", Status: model.StatusOperational})
	assert.Error(t, err)
	_, err = s.UpdateSystem(ctx, model.System{ID: "sysA", Name: "Renamed", CategoryID: "cat2"})
	assert.Error(t, err)

	assert.Equal(t, before, s.Snapshot())
}

func TestAdd_AssignsIDsAndAppends(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakePersister{})

	categories, err := s.AddCategory(ctx, model.Category{ID: "ignored", Name: "Edge"})
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, model.Category{ID: "id1", Name: "Edge"}, categories[2])

	systems, err := s.AddSystem(ctx, model.System{Name: "Cache", CategoryID: "cat2"})
	require.NoError(t, err)
	assert.Equal(t, "id2", systems[len(systems)-1].ID)

	entries, err := s.AddStatusEntry(ctx, model.StatusEntry{SystemID: "id2", Date: "2024-02-01", Status: model.StatusMaintenance})
	require.NoError(t, err)
	assert.Equal(t, "id3", entries[len(entries)-1].ID)
	assert.Equal(t, uint64(3), s.Snapshot().Revision)
}

func TestAdd_SkipsTakenIDs(t *testing.T) {
	draws := []string{"e1", "", "e3", "fresh"}
	next := func() string {
		id := draws[0]
		draws = draws[1:]
		return id
	}
	s := New(&fakePersister{}, fixture(), Options{NewID: next})

	entries, err := s.AddStatusEntry(context.Background(), model.StatusEntry{SystemID: "sysA", Date: "2024-02-01", Status: model.StatusOperational})
	require.NoError(t, err)
	assert.Equal(t, "fresh", entries[len(entries)-1].ID)
	assert.Empty(t, draws)
}

func TestAdd_RejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s := newTestStore(p)

	_, err := s.AddSystem(ctx, model.System{Name: "Cache", CategoryID: "gone"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	_, err = s.AddStatusEntry(ctx, model.StatusEntry{SystemID: "gone", Date: "2024-02-01", Status: model.StatusOperational})
	assert.ErrorIs(t, err, ErrUnknownSystem)

	assert.Equal(t, fixture(), s.Snapshot())
	assert.Empty(t, p.saved)
}

func TestDeleteSystem_RacingAddsLeaveNoOrphans(t *testing.T) {
	ctx := context.Background()
	s := New(&fakePersister{}, fixture(), Options{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddStatusEntry(ctx, model.StatusEntry{SystemID: "sysA", Date: "2024-02-01", Status: model.StatusOperational})
			if err != nil {
				assert.ErrorIs(t, err, ErrUnknownSystem)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, err := s.DeleteSystem(ctx, "sysA")
		assert.NoError(t, err)
	}()
	wg.Wait()

	for _, e := range s.StatusEntries() {
		assert.NotEqual(t, "sysA", e.SystemID)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakePersister{})

	categories, err := s.UpdateCategory(ctx, model.Category{ID: "cat2", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", categories[1].Name)

	systems, err := s.UpdateSystem(ctx, model.System{ID: "sysB", Name: "Billing v2", CategoryID: "cat2"})
	require.NoError(t, err)
	assert.Equal(t, model.System{ID: "sysB", Name: "Billing v2", CategoryID: "cat2"}, systems[1])

	_, err = s.UpdateSystem(ctx, model.System{ID: "sysB", Name: "Billing v3", CategoryID: "gone"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, "Billing v2", s.Systems()[1].Name)

	_, err = s.UpdateCategory(ctx, model.Category{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateSystem(ctx, model.System{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStatusEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakePersister{})

	entries, err := s.DeleteStatusEntry(ctx, "e2")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = s.DeleteStatusEntry(ctx, "e2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReads_ReturnCopies(t *testing.T) {
	s := newTestStore(&fakePersister{})

	cats := s.Categories()
	cats[0].Name = "mutated"
	snap := s.Snapshot()
	snap.StatusEntries[0].Status = model.StatusUnknown

	assert.Equal(t, "Core", s.Categories()[0].Name)
	assert.Equal(t, model.StatusOperational, s.StatusEntries()[0].Status)
}

func newKV(t *testing.T) *kv.Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := db.Init(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	return kv.New(gormDB)
}

func TestOpen_SeedsDefaults(t *testing.T) {
	today := dates.MustParse("2024-06-10")
	s := Open(context.Background(), newKV(t), Options{SeedDefaults: true, Today: func() dates.Day { return today }})

	assert.Equal(t, DefaultCategories(), s.Categories())
	assert.Equal(t, DefaultSystems(), s.Systems())
	entries := s.StatusEntries()
	require.Len(t, entries, 6)
	assert.Equal(t, "2024-06-08", entries[0].Date)
	assert.Equal(t, "2024-06-10", entries[1].Date)
}

func TestOpen_EmptyWithoutSeed(t *testing.T) {
	s := Open(context.Background(), newKV(t), Options{})
	assert.Empty(t, s.Categories())
	assert.Empty(t, s.Systems())
	assert.Empty(t, s.StatusEntries())
}

func TestOpen_ReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	kvStore := newKV(t)

	s := Open(ctx, kvStore, Options{SeedDefaults: true})
	_, err := s.AddCategory(ctx, model.Category{Name: "Edge"})
	require.NoError(t, err)
	_, _, err = s.DeleteSystem(ctx, "sys1")
	require.NoError(t, err)

	reopened := Open(ctx, kvStore, Options{SeedDefaults: true})
	assert.Len(t, reopened.Categories(), 4)
	assert.Len(t, reopened.Systems(), 4)
	for _, e := range reopened.StatusEntries() {
		assert.NotEqual(t, "sys1", e.SystemID)
	}
	assert.Len(t, reopened.StatusEntries(), 4)
}
