package gallery

import (
	"sync"
	"time"

	"github.com/your-org/catalog/internal/models"
)

// Gallery holds the ordered working set of photos for the record currently
// open in the edit form. The most recently added photo is last; the first
// photo is the cover.
type Gallery struct {
	mu     sync.Mutex
	photos []models.Photo
}

func New() *Gallery {
	return &Gallery{photos: []models.Photo{}}
}

// Reset replaces the working set with a copy of existing. Passing nil (add
// form) or an empty slice yields the empty state; editing seeds from the
// record's photos.
func (g *Gallery) Reset(existing []models.Photo) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.photos = make([]models.Photo, 0, len(existing))
	for _, p := range existing {
		if p.Data == "" {
			continue
		}
		g.photos = append(g.photos, p)
	}
}

// Add appends a new photo with a fresh unique id and the current timestamp,
// returning the created entry.
func (g *Gallery) Add(imageDataURI string) models.Photo {
	photo := models.Photo{
		ID:        models.NewLocalID(),
		Data:      imageDataURI,
		DateAdded: time.Now().Format(time.RFC3339),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.photos = append(g.photos, photo)
	return photo
}

// Remove drops the photo with the given id, reporting whether it was found.
// Removing the last photo restores the empty state.
func (g *Gallery) Remove(photoID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.photos {
		if g.photos[i].ID == photoID {
			g.photos = append(g.photos[:i], g.photos[i+1:]...)
			return true
		}
	}
	return false
}

// Current returns a snapshot of the working set for persistence. The
// internal slice is never leaked.
func (g *Gallery) Current() []models.Photo {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Photo, len(g.photos))
	copy(out, g.photos)
	return out
}

// Empty reports whether no photos are attached.
func (g *Gallery) Empty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.photos) == 0
}
