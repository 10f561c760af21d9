// Package sqlite stores recordings in an SQLite database using the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/store"
)

// DefaultDSN is used when no data source is configured.
const DefaultDSN = "screencast.db"

const schema = `
CREATE TABLE IF NOT EXISTS recordings (
	id         TEXT PRIMARY KEY,
	extension  TEXT NOT NULL,
	size       INTEGER NOT NULL,
	data       BLOB
);`

func init() {
	store.Register("sqlite", func(ctx context.Context, o store.Options) (store.Store, error) {
		return Open(ctx, o.DSN)
	})
}

// Store is an SQLite backed store.Store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the database and its schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	screencast.Logger().Info("store: sqlite opened", "dsn", dsn)
	return &Store{db: db}, nil
}

func (s *Store) Create(ctx context.Context, extension string, data []byte) (store.Recording, error) {
	rec := store.Recording{
		ID:        store.NewID(),
		Extension: store.CleanExtension(extension),
		Size:      int64(len(data)),
		Data:      data,
	}
	rec.CreatedAt = store.CreatedAt(rec.ID)
	if rec.Data == nil {
		rec.Data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recordings (id, extension, size, data) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Extension, rec.Size, rec.Data)
	if err != nil {
		return store.Recording{}, fmt.Errorf("sqlite: insert recording: %w", err)
	}
	return rec, nil
}

func (s *Store) Get(ctx context.Context, id string) (store.Recording, error) {
	rec := store.Recording{ID: id, CreatedAt: store.CreatedAt(id)}
	err := s.db.QueryRowContext(ctx,
		`SELECT extension, size, data FROM recordings WHERE id = ?`, id).
		Scan(&rec.Extension, &rec.Size, &rec.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Recording{}, store.ErrNotFound
	}
	if err != nil {
		return store.Recording{}, fmt.Errorf("sqlite: get recording %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context) ([]store.Recording, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, extension, size FROM recordings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list recordings: %w", err)
	}
	defer rows.Close()

	list := []store.Recording{}
	for rows.Next() {
		var rec store.Recording
		if err := rows.Scan(&rec.ID, &rec.Extension, &rec.Size); err != nil {
			return nil, fmt.Errorf("sqlite: list recordings: %w", err)
		}
		rec.CreatedAt = store.CreatedAt(rec.ID)
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete recording %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
