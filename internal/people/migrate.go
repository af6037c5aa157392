package people

import (
	"regexp"
	"strings"
	"time"

	"github.com/your-org/catalog/internal/models"
)

// filiationSepRe splits a legacy combined filiation string into mother and
// father parts: "Maria e José", "Maria E José" or "Maria, José".
var filiationSepRe = regexp.MustCompile(`\s+e\s+|\s+E\s+|,\s*`)

// LegacyPhotoID tags a photos-array entry produced by wrapping a legacy
// single-photo record.
const LegacyPhotoID = "legacy"

// Migrate brings a loaded record to the canonical shape. It is idempotent:
// running it on an already-migrated record changes nothing.
//
// Steps, in order: wrap a legacy single photo into the photos array, derive
// mother/father from a legacy filiation string, guarantee non-nil photo
// slices, and clear the consumed filiation field so it is never treated as
// authoritative again.
func Migrate(p models.Person) models.Person {
	if len(p.Photos) == 0 && p.Photo != "" {
		added := p.CreatedAt
		if added.IsZero() {
			added = time.Now()
		}
		p.Photos = []models.Photo{{
			ID:        LegacyPhotoID,
			Data:      p.Photo,
			DateAdded: added.Format(time.RFC3339),
		}}
	}
	if p.Photos == nil {
		p.Photos = []models.Photo{}
	}
	if p.LocalPhotos == nil {
		p.LocalPhotos = models.ClonePhotos(p.Photos)
	}

	if p.Filiation != "" && p.Mother == "" && p.Father == "" {
		parts := filiationSepRe.Split(p.Filiation, 2)
		p.Mother = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			p.Father = strings.TrimSpace(parts[1])
		}
	}
	// Consumed above; never re-derived or re-submitted.
	p.Filiation = ""

	return p
}

// ForTransport shapes a record for the remote people table: local-only
// fields are stripped and the first photo is mirrored into the legacy photo
// column for older readers.
func ForTransport(p models.Person) models.Person {
	out := p.Clone()
	out.Filiation = ""
	out.LocalPhotos = nil
	if len(out.Photos) > 0 {
		out.Photo = out.Photos[0].Data
	} else {
		out.Photo = ""
	}
	return out
}
