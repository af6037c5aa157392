package people

import (
	"strings"
	"sync"

	"github.com/your-org/catalog/internal/models"
)

// Repository is the in-memory list of person records the UI renders
// against. All mutation goes through the coordinator; reads return copies.
type Repository struct {
	mu     sync.RWMutex
	people []models.Person
}

func NewRepository() *Repository {
	return &Repository{people: []models.Person{}}
}

// SetAll replaces the repository contents.
func (r *Repository) SetAll(people []models.Person) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.people = make([]models.Person, len(people))
	for i, p := range people {
		r.people[i] = p.Clone()
	}
}

// All returns a copy of every record in insertion order.
func (r *Repository) All() []models.Person {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Person, len(r.people))
	for i, p := range r.people {
		out[i] = p.Clone()
	}
	return out
}

// Get returns the record with the given id.
func (r *Repository) Get(id string) (models.Person, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.people {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Person{}, false
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.people)
}

// Replace swaps the record with the given id in place, keeping its position.
func (r *Repository) Replace(id string, p models.Person) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.people {
		if r.people[i].ID == id {
			r.people[i] = p.Clone()
			return true
		}
	}
	return false
}

// Append adds a record to the end of the list.
func (r *Repository) Append(p models.Person) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.people = append(r.people, p.Clone())
}

// Remove deletes the record with the given id.
func (r *Repository) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.people {
		if r.people[i].ID == id {
			r.people = append(r.people[:i], r.people[i+1:]...)
			return true
		}
	}
	return false
}

// Search filters records by a free-text query over name, parents, address,
// history, email and the displayed registration id.
func (r *Repository) Search(query string) []models.Person {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.All()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Person
	for _, p := range r.people {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Mother), q) ||
			strings.Contains(strings.ToLower(p.Father), q) ||
			strings.Contains(strings.ToLower(p.Address), q) ||
			strings.Contains(strings.ToLower(p.History), q) ||
			strings.Contains(strings.ToLower(p.Email), q) ||
			strings.Contains(strings.ToLower(RegistrationID(p.ID)), q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// RegistrationID formats a record id for display: REG- plus the first id
// segment, uppercased.
func RegistrationID(id string) string {
	first := id
	if idx := strings.Index(id, "-"); idx > 0 {
		first = id[:idx]
	}
	return "REG-" + strings.ToUpper(first)
}
