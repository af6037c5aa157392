package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/catalog/internal/models"
)

func TestAddAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	g := New()
	photo := g.Add("data:image/jpeg;base64,abc")

	assert.NotEmpty(t, photo.ID)
	assert.Equal(t, "data:image/jpeg;base64,abc", photo.Data)

	_, err := time.Parse(time.RFC3339, photo.DateAdded)
	assert.NoError(t, err)

	assert.False(t, g.Empty())
	assert.Len(t, g.Current(), 1)
}

func TestRemoveLastPhotoRestoresEmptyState(t *testing.T) {
	t.Parallel()

	g := New()
	photo := g.Add("data:image/jpeg;base64,abc")

	require.True(t, g.Remove(photo.ID))
	assert.True(t, g.Empty())

	// Adding after emptying works again.
	g.Add("data:image/jpeg;base64,def")
	assert.Len(t, g.Current(), 1)
}

func TestRemoveUnknownID(t *testing.T) {
	t.Parallel()

	g := New()
	g.Add("data:image/jpeg;base64,abc")

	assert.False(t, g.Remove("nope"))
	assert.Len(t, g.Current(), 1)
}

func TestResetSeedsFromExistingPhotos(t *testing.T) {
	t.Parallel()

	g := New()
	g.Add("data:image/jpeg;base64,stale")

	g.Reset([]models.Photo{
		{ID: "a", Data: "data:image/jpeg;base64,one"},
		{ID: "b", Data: ""}, // skipped
		{ID: "c", Data: "data:image/jpeg;base64,two"},
	})

	photos := g.Current()
	require.Len(t, photos, 2)
	assert.Equal(t, "a", photos[0].ID)
	assert.Equal(t, "c", photos[1].ID)
}

func TestResetNilClearsGallery(t *testing.T) {
	t.Parallel()

	g := New()
	g.Add("data:image/jpeg;base64,abc")

	g.Reset(nil)
	assert.True(t, g.Empty())
}

func TestPhotoOrderIsInsertionOrder(t *testing.T) {
	t.Parallel()

	g := New()
	first := g.Add("data:image/jpeg;base64,1")
	second := g.Add("data:image/jpeg;base64,2")

	photos := g.Current()
	require.Len(t, photos, 2)
	assert.Equal(t, first.ID, photos[0].ID)
	assert.Equal(t, second.ID, photos[1].ID)
}
