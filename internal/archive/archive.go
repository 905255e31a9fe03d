// Package archive stores generated samples in a SQLite database so that a
// run can be inspected and replayed later.
package archive

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown sample id.
var ErrNotFound = errors.New("sample not found")

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id           TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	strategy     TEXT NOT NULL,
	instructions INTEGER NOT NULL,
	modules      INTEGER NOT NULL,
	ir           TEXT NOT NULL,
	js           TEXT NOT NULL,
	profile      TEXT NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_created ON samples (created_at);
`

// Sample is one generated program.
type Sample struct {
	ID           string
	Seed         int64
	Strategy     string // empty for weighted random generation
	Instructions int
	Modules      int // WebAssembly modules validated in the program
	IR           string
	JS           string
	Profile      string // YAML of the generation profile
	CreatedAt    time.Time
}

// Store is a sample archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path. ":memory:" gives a private
// in-memory archive.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "creating schema in %s", path)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a sample and returns its id, generated when empty.
func (s *Store) Put(ctx context.Context, sm *Sample) (string, error) {
	if sm.ID == "" {
		sm.ID = uuid.NewString()
	}
	if sm.CreatedAt.IsZero() {
		sm.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO samples (id, seed, strategy, instructions, modules, ir, js, profile, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sm.ID, sm.Seed, sm.Strategy, sm.Instructions, sm.Modules, sm.IR, sm.JS, sm.Profile, sm.CreatedAt.UnixNano())
	if err != nil {
		return "", errors.Wrapf(err, "storing sample %s", sm.ID)
	}
	return sm.ID, nil
}

// Get returns the sample with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Sample, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, strategy, instructions, modules, ir, js, profile, created_at
		 FROM samples WHERE id = ?`, id)
	sm, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading sample %s", id)
	}
	return sm, nil
}

// List returns up to limit samples, newest first. It returns the program
// text too; callers listing large archives should keep limit small.
func (s *Store) List(ctx context.Context, limit int) ([]*Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, strategy, instructions, modules, ir, js, profile, created_at
		 FROM samples ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing samples")
	}
	defer rows.Close()

	var out []*Sample
	for rows.Next() {
		sm, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "listing samples")
		}
		out = append(out, sm)
	}
	return out, errors.Wrap(rows.Err(), "listing samples")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(r scanner) (*Sample, error) {
	var sm Sample
	var created int64
	if err := r.Scan(&sm.ID, &sm.Seed, &sm.Strategy, &sm.Instructions, &sm.Modules, &sm.IR, &sm.JS, &sm.Profile, &created); err != nil {
		return nil, err
	}
	sm.CreatedAt = time.Unix(0, created)
	return &sm, nil
}
