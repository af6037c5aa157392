package storage

import (
	"context"
	"errors"

	"github.com/your-org/catalog/internal/models"
)

// ErrRemoteUnavailable wraps remote store failures so the coordinator can
// distinguish "fall back locally" from programming errors.
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// ErrQuotaExceeded is reported by the local store when a write still exceeds
// the configured quota after every recovery tier has run.
var ErrQuotaExceeded = errors.New("local storage quota exceeded")

// ErrUnknownField is returned for Where-style queries on fields the store
// does not index.
var ErrUnknownField = errors.New("unknown query field")

// IsUnknownField reports whether err is an unknown-field query error.
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}

// PeopleStore is the uniform table contract implemented by the remote
// (Postgres) store and the local fallback store.
type PeopleStore interface {
	Select(ctx context.Context) ([]models.Person, error)
	Insert(ctx context.Context, p models.Person) (models.Person, error)
	Update(ctx context.Context, p models.Person, id string) (models.Person, error)
	Delete(ctx context.Context, id string) error
	SelectWhere(ctx context.Context, field, value string) ([]models.Person, error)
	DeleteWhere(ctx context.Context, field, value string) error
	Ping(ctx context.Context) error
}
