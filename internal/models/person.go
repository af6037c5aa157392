package models

import (
	"math/rand"
	"strconv"
	"time"
)

// Photo is a single image attached to a person record.
// Data is a data URI; DateAdded is an RFC3339 timestamp.
type Photo struct {
	ID        string `json:"id" db:"id"`
	Data      string `json:"data" db:"data"`
	DateAdded string `json:"dateAdded" db:"date_added"`
}

// Person is the canonical record shape. Filiation and Photo are legacy
// fields kept for records written by older clients; migration in
// internal/people folds them into Mother/Father and Photos.
type Person struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Mother  string `json:"mother" db:"mother"`
	Father  string `json:"father" db:"father"`
	CPF     string `json:"CPF" db:"cpf"`
	RG      string `json:"RG" db:"rg"`
	Address string `json:"address,omitempty" db:"address"`
	History string `json:"history,omitempty" db:"history"`
	DOB     string `json:"dob,omitempty" db:"dob"`
	Phone   string `json:"phone,omitempty" db:"phone"`
	Email   string `json:"email,omitempty" db:"email"`

	// Legacy combined "mother e father" string. Never re-submitted after
	// migration.
	Filiation string `json:"filiation,omitempty" db:"filiation"`

	// Legacy single photo, mirrored from Photos[0] for transport.
	Photo string `json:"photo,omitempty" db:"photo"`

	// Canonical multi-photo representation. Insertion order is display
	// order; the first element is the cover photo. LocalPhotos is the
	// locally persisted copy and is never transmitted to the remote store.
	Photos      []Photo `json:"photos" db:"photos"`
	LocalPhotos []Photo `json:"localPhotos,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Clone returns a deep copy; photo slices are not shared with the receiver.
func (p Person) Clone() Person {
	out := p
	out.Photos = ClonePhotos(p.Photos)
	out.LocalPhotos = ClonePhotos(p.LocalPhotos)
	return out
}

// ClonePhotos copies a photo slice. A nil input stays nil.
func ClonePhotos(photos []Photo) []Photo {
	if photos == nil {
		return nil
	}
	out := make([]Photo, len(photos))
	copy(out, photos)
	return out
}

const base36digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewLocalID generates an offline record or photo id: millisecond timestamp
// plus a random base36 suffix. Not collision-checked, unlike the UUIDs the
// remote store assigns.
func NewLocalID() string {
	suffix := make([]byte, 10)
	for i := range suffix {
		suffix[i] = base36digits[rand.Intn(len(base36digits))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + string(suffix)
}
