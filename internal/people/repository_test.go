package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/catalog/internal/models"
)

func TestRepositorySearch(t *testing.T) {
	t.Parallel()

	repo := NewRepository()
	repo.SetAll([]models.Person{
		{ID: "a1b2c3-d4", Name: "Maria da Silva", Mother: "Ana"},
		{ID: "x9y8z7-w6", Name: "João Pereira", History: "conhecido como Johnny"},
		{ID: "q5r4s3-t2", Name: "Beatriz Costa", Email: "bia@example.com"},
	})

	assert.Len(t, repo.Search("maria"), 1)
	assert.Len(t, repo.Search("ana"), 1)
	assert.Len(t, repo.Search("johnny"), 1)
	assert.Len(t, repo.Search("bia@"), 1)
	assert.Len(t, repo.Search("REG-A1B2C3"), 1)
	assert.Len(t, repo.Search(""), 3)
	assert.Empty(t, repo.Search("nonexistent"))
}

func TestRepositoryReadsReturnCopies(t *testing.T) {
	t.Parallel()

	repo := NewRepository()
	repo.Append(models.Person{
		ID:     "p1",
		Name:   "Maria",
		Photos: []models.Photo{{ID: "ph1", Data: "data"}},
	})

	got, ok := repo.Get("p1")
	require.True(t, ok)
	got.Photos[0].Data = "mutated"

	again, _ := repo.Get("p1")
	assert.Equal(t, "data", again.Photos[0].Data)
}

func TestRepositoryReplaceKeepsPosition(t *testing.T) {
	t.Parallel()

	repo := NewRepository()
	repo.SetAll([]models.Person{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}})

	require.True(t, repo.Replace("a", models.Person{ID: "a", Name: "renamed"}))

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, "renamed", all[0].Name)
	assert.Equal(t, "second", all[1].Name)
}

func TestRegistrationID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "REG-A1B2C3", RegistrationID("a1b2c3-d4e5-f6"))
	assert.Equal(t, "REG-LOCALID123", RegistrationID("localid123"))
}
