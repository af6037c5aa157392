package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/models"
)

// PostgresStore is the remote people table. Record shape excludes
// local-only fields (localPhotos never reaches the wire).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// queryColumns maps exposed record fields to table columns for Where-style
// queries. Anything outside this map is rejected.
var queryColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"CPF":   "cpf",
	"RG":    "rg",
	"email": "email",
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const personColumns = `id, name, mother, father, cpf, rg, address, history, dob, phone, email, filiation, photo, photos, created_at, updated_at`

func (s *PostgresStore) Select(ctx context.Context) ([]models.Person, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+personColumns+` FROM people ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%w: select people: %v", ErrRemoteUnavailable, err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

func (s *PostgresStore) Insert(ctx context.Context, p models.Person) (models.Person, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	photos, err := marshalPhotos(p.Photos)
	if err != nil {
		return models.Person{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO people (`+personColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Mother, p.Father, p.CPF, p.RG, p.Address, p.History,
		p.DOB, p.Phone, p.Email, p.Filiation, p.Photo, photos, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Person{}, fmt.Errorf("%w: insert person: %v", ErrRemoteUnavailable, err)
	}
	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, p models.Person, id string) (models.Person, error) {
	p.ID = id
	p.UpdatedAt = time.Now()

	photos, err := marshalPhotos(p.Photos)
	if err != nil {
		return models.Person{}, err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE people SET name = $2, mother = $3, father = $4, cpf = $5, rg = $6,
		 address = $7, history = $8, dob = $9, phone = $10, email = $11,
		 filiation = $12, photo = $13, photos = $14, updated_at = $15
		 WHERE id = $1`,
		id, p.Name, p.Mother, p.Father, p.CPF, p.RG, p.Address, p.History,
		p.DOB, p.Phone, p.Email, p.Filiation, p.Photo, photos, p.UpdatedAt)
	if err != nil {
		return models.Person{}, fmt.Errorf("%w: update person: %v", ErrRemoteUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return models.Person{}, fmt.Errorf("person %s not found", id)
	}
	return p, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	return s.DeleteWhere(ctx, "id", id)
}

func (s *PostgresStore) SelectWhere(ctx context.Context, field, value string) ([]models.Person, error) {
	col, ok := queryColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+personColumns+` FROM people WHERE `+col+` = $1 ORDER BY created_at`, value)
	if err != nil {
		return nil, fmt.Errorf("%w: select people by %s: %v", ErrRemoteUnavailable, field, err)
	}
	defer rows.Close()

	return scanPeople(rows)
}

func (s *PostgresStore) DeleteWhere(ctx context.Context, field, value string) error {
	col, ok := queryColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	_, err := s.pool.Exec(ctx, `DELETE FROM people WHERE `+col+` = $1`, value)
	if err != nil {
		return fmt.Errorf("%w: delete people by %s: %v", ErrRemoteUnavailable, field, err)
	}
	return nil
}

func scanPeople(rows pgx.Rows) ([]models.Person, error) {
	var people []models.Person
	for rows.Next() {
		var p models.Person
		var photos []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Mother, &p.Father, &p.CPF, &p.RG,
			&p.Address, &p.History, &p.DOB, &p.Phone, &p.Email, &p.Filiation,
			&p.Photo, &photos, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		if len(photos) > 0 {
			if err := json.Unmarshal(photos, &p.Photos); err != nil {
				return nil, fmt.Errorf("unmarshal photos for %s: %w", p.ID, err)
			}
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate people: %v", ErrRemoteUnavailable, err)
	}
	return people, nil
}

func marshalPhotos(photos []models.Photo) ([]byte, error) {
	if photos == nil {
		photos = []models.Photo{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return nil, fmt.Errorf("marshal photos: %w", err)
	}
	return data, nil
}
