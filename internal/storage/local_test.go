package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/models"
)

func newStore(t *testing.T, quota int64) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(config.LocalConfig{Dir: t.TempDir(), QuotaBytes: quota})
	require.NoError(t, err)
	return s
}

func TestLocalStoreCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t, 1024*1024)

	inserted, err := s.Insert(ctx, models.Person{Name: "Maria", CPF: "12345678901"})
	require.NoError(t, err)
	assert.NotEmpty(t, inserted.ID)

	people, err := s.Select(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)

	updated, err := s.Update(ctx, models.Person{Name: "Maria Souza"}, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, updated.ID)

	people, err = s.SelectWhere(ctx, "CPF", "12345678901")
	require.NoError(t, err)
	assert.Empty(t, people) // CPF was dropped by the update

	people, err = s.SelectWhere(ctx, "name", "Maria Souza")
	require.NoError(t, err)
	require.Len(t, people, 1)

	require.NoError(t, s.Delete(ctx, inserted.ID))
	people, err = s.Select(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestLocalStoreUnknownField(t *testing.T) {
	t.Parallel()

	s := newStore(t, 1024*1024)

	_, err := s.SelectWhere(context.Background(), "shoe_size", "42")
	assert.ErrorIs(t, err, ErrUnknownField)

	err = s.DeleteWhere(context.Background(), "shoe_size", "42")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestLocalStoreUpdateMissing(t *testing.T) {
	t.Parallel()

	s := newStore(t, 1024*1024)

	_, err := s.Update(context.Background(), models.Person{Name: "X"}, "missing")
	require.Error(t, err)
}

func TestQuotaEvictsOldestRecords(t *testing.T) {
	t.Parallel()

	// Four padded records exceed the quota; evicting the oldest one frees
	// enough space.
	s := newStore(t, 6000)
	padding := strings.Repeat("x", 1500)

	people := []models.Person{
		{ID: "p1", Name: "oldest", History: padding},
		{ID: "p2", Name: "second", History: padding},
		{ID: "p3", Name: "third", History: padding},
		{ID: "p4", Name: "newest", History: padding},
	}

	require.NoError(t, s.ReplaceAll(people))

	kept, err := s.Select(context.Background())
	require.NoError(t, err)

	require.Len(t, kept, 3)
	assert.Equal(t, "p2", kept[0].ID)
	assert.Equal(t, "p4", kept[2].ID)
}

func TestQuotaRecompressesPhotos(t *testing.T) {
	t.Parallel()

	s := newStore(t, 3000)
	s.Recompress = func(dataURI string) (string, error) {
		return dataURI[:len(dataURI)/4], nil
	}

	big := "data:image/jpeg;base64," + strings.Repeat("A", 4000)
	people := []models.Person{{
		ID:     "p1",
		Name:   "Maria",
		Photos: []models.Photo{{ID: "ph1", Data: big}},
	}}

	require.NoError(t, s.ReplaceAll(people))

	kept, err := s.Select(context.Background())
	require.NoError(t, err)

	require.Len(t, kept, 1)
	assert.Less(t, len(kept[0].Photos[0].Data), len(big))
}

func TestQuotaClearsUnrelatedKeys(t *testing.T) {
	t.Parallel()

	s := newStore(t, 3000)

	require.NoError(t, s.SetKey(DarkModeKey, []byte(`true`)))
	require.NoError(t, s.SetKey(SessionKey, []byte(`{"user":"maria"}`)))

	// Fill most of the quota with unrelated data, then write a people table
	// that only fits once those keys are gone.
	require.NoError(t, s.SetKey("bulk", []byte(strings.Repeat("z", 2000))))

	people := []models.Person{{ID: "p1", Name: "Maria", History: strings.Repeat("x", 2000)}}
	require.NoError(t, s.ReplaceAll(people))

	kept, err := s.Select(context.Background())
	require.NoError(t, err)
	require.Len(t, kept, 1)

	data, err := s.GetKey("bulk")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestQuotaResetNotifies(t *testing.T) {
	t.Parallel()

	s := newStore(t, 500)
	resetCalled := false
	s.OnReset = func() { resetCalled = true }

	people := []models.Person{{ID: "p1", Name: "Maria", History: strings.Repeat("x", 5000)}}

	err := s.ReplaceAll(people)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.True(t, resetCalled)

	// The store was wiped.
	kept, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.Empty(t, kept)
}

func TestSetKeyEnforcesQuota(t *testing.T) {
	t.Parallel()

	s := newStore(t, 100)

	require.NoError(t, s.SetKey(DarkModeKey, []byte(`true`)))

	err := s.SetKey("big", []byte(strings.Repeat("x", 200)))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestKeyRoundTrip(t *testing.T) {
	t.Parallel()

	s := newStore(t, 1024)

	data, err := s.GetKey(SessionKey)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.SetKey(SessionKey, []byte(`{"user":"maria"}`)))

	data, err = s.GetKey(SessionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"maria"}`, string(data))

	require.NoError(t, s.DeleteKey(SessionKey))
	require.NoError(t, s.DeleteKey(SessionKey)) // idempotent

	data, err = s.GetKey(SessionKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}
