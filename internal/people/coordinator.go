package people

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/your-org/catalog/internal/models"
	"github.com/your-org/catalog/internal/observability"
	"github.com/your-org/catalog/internal/storage"
)

// Coordinator orchestrates writes against the selected store with the local
// fallback as the durability safety net. Remote failures never abort a save
// or delete; they degrade into a local write plus a soft-failure flag the UI
// turns into a toast.
type Coordinator struct {
	store  storage.PeopleStore
	local  *storage.LocalStore
	repo   *Repository
	remote bool // store is a remote database (vs. local-only mode)
}

// NewCoordinator wires the selected store (decided once at startup), the
// local fallback and the repository. remote reports whether store talks to a
// remote database.
func NewCoordinator(store storage.PeopleStore, local *storage.LocalStore, repo *Repository, remote bool) *Coordinator {
	return &Coordinator{store: store, local: local, repo: repo, remote: remote}
}

// Repo exposes the in-memory repository for read paths.
func (c *Coordinator) Repo() *Repository {
	return c.repo
}

// SaveResult reports the persisted record and whether the remote path failed
// and the local safety net took over.
type SaveResult struct {
	Person   models.Person
	Fallback bool
}

// Load fetches all records, migrates each one to the canonical shape,
// populates the repository and refreshes the local cache.
func (c *Coordinator) Load(ctx context.Context) ([]models.Person, error) {
	records, err := c.store.Select(ctx)
	if err != nil {
		if !c.remote {
			return nil, fmt.Errorf("load people: %w", err)
		}
		slog.Error("load from remote store, using local cache", "error", err)
		observability.StoreFallbacks.Inc()
		if records, err = c.local.Select(ctx); err != nil {
			return nil, fmt.Errorf("load people from local cache: %w", err)
		}
	}

	for i := range records {
		records[i] = Migrate(records[i])
	}

	c.repo.SetAll(records)
	c.snapshot()
	return c.repo.All(), nil
}

// Save persists a record. A non-empty id selects the update path; an empty
// id inserts. The repository always reflects the outcome, and the whole
// repository is snapshotted to the local store afterwards.
func (c *Coordinator) Save(ctx context.Context, p models.Person, id string) (SaveResult, error) {
	p.LocalPhotos = models.ClonePhotos(p.Photos)

	if id != "" {
		return c.update(ctx, p, id)
	}
	return c.insert(ctx, p)
}

func (c *Coordinator) update(ctx context.Context, p models.Person, id string) (SaveResult, error) {
	if _, ok := c.repo.Get(id); !ok {
		return SaveResult{}, fmt.Errorf("person %s not found", id)
	}

	fallback := false
	if _, err := c.store.Update(ctx, ForTransport(p), id); err != nil {
		slog.Error("update person, falling back to local cache", "id", id, "error", err)
		observability.StoreFallbacks.Inc()
		fallback = true
	}

	p.ID = id
	c.repo.Replace(id, p)
	observability.RecordsSaved.WithLabelValues(c.outcome(fallback)).Inc()
	c.snapshot()
	return SaveResult{Person: p, Fallback: fallback}, nil
}

func (c *Coordinator) insert(ctx context.Context, p models.Person) (SaveResult, error) {
	fallback := false
	inserted, err := c.store.Insert(ctx, ForTransport(p))
	if err != nil {
		slog.Error("insert person, falling back to local id", "error", err)
		observability.StoreFallbacks.Inc()
		fallback = true
		p.ID = models.NewLocalID()
	} else {
		p.ID = inserted.ID
	}

	c.repo.Append(p)
	observability.RecordsSaved.WithLabelValues(c.outcome(fallback)).Inc()
	c.snapshot()
	return SaveResult{Person: p, Fallback: fallback}, nil
}

// Delete removes a record everywhere. A remote failure is reported as a
// fallback but local state still drops the record: local availability wins.
func (c *Coordinator) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := c.repo.Get(id); !ok {
		return false, fmt.Errorf("person %s not found", id)
	}

	fallback := false
	if err := c.store.DeleteWhere(ctx, "id", id); err != nil {
		slog.Error("delete person, removing locally anyway", "id", id, "error", err)
		observability.StoreFallbacks.Inc()
		fallback = true
	}

	c.repo.Remove(id)
	observability.RecordsDeleted.WithLabelValues(c.outcome(fallback)).Inc()
	c.snapshot()
	return fallback, nil
}

// FindWhere queries the selected store directly, falling back to an
// in-memory scan of the repository when the store call fails.
func (c *Coordinator) FindWhere(ctx context.Context, field, value string) ([]models.Person, error) {
	records, err := c.store.SelectWhere(ctx, field, value)
	if err == nil {
		for i := range records {
			records[i] = Migrate(records[i])
		}
		return records, nil
	}
	if storage.IsUnknownField(err) {
		return nil, err
	}

	slog.Warn("select where, scanning repository", "field", field, "error", err)
	var out []models.Person
	for _, p := range c.repo.All() {
		if matches(p, field, value) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p models.Person, field, value string) bool {
	switch field {
	case "id":
		return p.ID == value
	case "name":
		return p.Name == value
	case "CPF":
		return p.CPF == value
	case "RG":
		return p.RG == value
	case "email":
		return p.Email == value
	}
	return false
}

// snapshot writes the entire repository to the local store as a backup.
// Not transactional: a crash between a remote success and this write leaves
// the snapshot stale until the next load.
func (c *Coordinator) snapshot() {
	if err := c.local.ReplaceAll(c.repo.All()); err != nil {
		slog.Error("snapshot repository to local store", "error", err)
	}
}

func (c *Coordinator) outcome(fallback bool) string {
	switch {
	case fallback:
		return "local_fallback"
	case c.remote:
		return "remote"
	default:
		return "local_only"
	}
}
