package people

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/models"
	"github.com/your-org/catalog/internal/storage"
)

// failingStore simulates an unreachable remote database.
type failingStore struct{}

func (failingStore) Select(context.Context) ([]models.Person, error) {
	return nil, fmt.Errorf("%w: select", storage.ErrRemoteUnavailable)
}
func (failingStore) Insert(context.Context, models.Person) (models.Person, error) {
	return models.Person{}, fmt.Errorf("%w: insert", storage.ErrRemoteUnavailable)
}
func (failingStore) Update(context.Context, models.Person, string) (models.Person, error) {
	return models.Person{}, fmt.Errorf("%w: update", storage.ErrRemoteUnavailable)
}
func (failingStore) Delete(context.Context, string) error {
	return fmt.Errorf("%w: delete", storage.ErrRemoteUnavailable)
}
func (failingStore) SelectWhere(context.Context, string, string) ([]models.Person, error) {
	return nil, fmt.Errorf("%w: select where", storage.ErrRemoteUnavailable)
}
func (failingStore) DeleteWhere(context.Context, string, string) error {
	return fmt.Errorf("%w: delete where", storage.ErrRemoteUnavailable)
}
func (failingStore) Ping(context.Context) error {
	return fmt.Errorf("%w: ping", storage.ErrRemoteUnavailable)
}

func newTestLocal(t *testing.T) *storage.LocalStore {
	t.Helper()
	local, err := storage.NewLocalStore(config.LocalConfig{
		Dir:        t.TempDir(),
		QuotaBytes: 10 * 1024 * 1024,
	})
	require.NoError(t, err)
	return local
}

func readSnapshot(t *testing.T, local *storage.LocalStore) []models.Person {
	t.Helper()
	people, err := local.Select(context.Background())
	require.NoError(t, err)
	return people
}

func TestInsertFallsBackToLocalID(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	coord := NewCoordinator(failingStore{}, local, NewRepository(), true)

	result, err := coord.Save(context.Background(), models.Person{Name: "Maria"}, "")
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.Person.ID)

	snapshot := readSnapshot(t, local)
	require.Len(t, snapshot, 1)
	assert.Equal(t, result.Person.ID, snapshot[0].ID)
	assert.Equal(t, "Maria", snapshot[0].Name)
}

func TestUpdateFallbackKeepsRecordInPlace(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	repo := NewRepository()
	repo.SetAll([]models.Person{
		{ID: "p1", Name: "Maria"},
		{ID: "p2", Name: "João"},
	})
	coord := NewCoordinator(failingStore{}, local, repo, true)

	result, err := coord.Save(context.Background(), models.Person{Name: "Maria Souza"}, "p1")
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Equal(t, "p1", result.Person.ID)
	assert.Equal(t, 2, repo.Len())

	all := repo.All()
	assert.Equal(t, "Maria Souza", all[0].Name)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	t.Parallel()

	coord := NewCoordinator(failingStore{}, newTestLocal(t), NewRepository(), true)

	_, err := coord.Save(context.Background(), models.Person{Name: "X"}, "missing")
	require.Error(t, err)
}

func TestDeleteRemovesLocallyDespiteRemoteFailure(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	repo := NewRepository()
	repo.SetAll([]models.Person{{ID: "p1", Name: "Maria"}})
	coord := NewCoordinator(failingStore{}, local, repo, true)

	fallback, err := coord.Delete(context.Background(), "p1")
	require.NoError(t, err)

	assert.True(t, fallback)
	assert.Equal(t, 0, repo.Len())
	assert.Empty(t, readSnapshot(t, local))
}

func TestLoadFallsBackToLocalCache(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	require.NoError(t, local.ReplaceAll([]models.Person{
		{ID: "p1", Name: "Cached", Filiation: "Ana e João"},
	}))

	coord := NewCoordinator(failingStore{}, local, NewRepository(), true)

	records, err := coord.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Cached", records[0].Name)
	// Loaded records come back migrated.
	assert.Equal(t, "Ana", records[0].Mother)
	assert.Equal(t, "João", records[0].Father)
	assert.Empty(t, records[0].Filiation)
}

func TestOfflineRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	newLocal := func() *storage.LocalStore {
		local, err := storage.NewLocalStore(config.LocalConfig{Dir: dir, QuotaBytes: 10 * 1024 * 1024})
		require.NoError(t, err)
		return local
	}

	local := newLocal()
	coord := NewCoordinator(local, local, NewRepository(), false)

	result, err := coord.Save(context.Background(), models.Person{Name: "Ana"}, "")
	require.NoError(t, err)
	assert.False(t, result.Fallback)

	// A fresh process over the same directory sees the record.
	local2 := newLocal()
	coord2 := NewCoordinator(local2, local2, NewRepository(), false)

	records, err := coord2.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0].Name)
	assert.Empty(t, records[0].CPF)
	assert.NotNil(t, records[0].Photos)
	assert.Empty(t, records[0].Photos)
}

func TestFindWhereScansRepositoryOnFailure(t *testing.T) {
	t.Parallel()

	repo := NewRepository()
	repo.SetAll([]models.Person{
		{ID: "p1", Name: "Maria", CPF: "12345678901"},
		{ID: "p2", Name: "João", CPF: "98765432100"},
	})
	coord := NewCoordinator(failingStore{}, newTestLocal(t), repo, true)

	records, err := coord.FindWhere(context.Background(), "CPF", "12345678901")
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].ID)
}

func TestSnapshotWritesAlbumPeopleKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local, err := storage.NewLocalStore(config.LocalConfig{Dir: dir, QuotaBytes: 10 * 1024 * 1024})
	require.NoError(t, err)

	coord := NewCoordinator(local, local, NewRepository(), false)
	_, err = coord.Save(context.Background(), models.Person{Name: "Maria"}, "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, storage.PeopleKey+".json"))
	require.NoError(t, err)

	var people []models.Person
	require.NoError(t, json.Unmarshal(data, &people))
	require.Len(t, people, 1)
	assert.Equal(t, "Maria", people[0].Name)
}
