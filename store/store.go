// Package store keeps uploaded recordings.
//
// Implementations live in sub-packages and register themselves by name,
// the way database/sql drivers do:
//
//	import _ "github.com/gogpu/screencast/store/sqlite"
//
//	st, err := store.Open(ctx, store.Options{Type: "sqlite", DSN: "screencast.db"})
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrNotFound is returned for unknown recording ids.
	ErrNotFound = errors.New("store: recording not found")

	// ErrInvalidID is returned for ids that are not ULIDs. Ids end up in
	// file names and object keys, so nothing else is accepted.
	ErrInvalidID = errors.New("store: invalid recording id")
)

// Recording is a stored video file.
type Recording struct {
	ID        string    `json:"id"`
	Extension string    `json:"extension"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Data      []byte    `json:"-"` // empty in List results
}

// Store keeps recordings. Implementations are safe for concurrent use.
type Store interface {
	// Create stores data under a new id.
	Create(ctx context.Context, extension string, data []byte) (Recording, error)
	Get(ctx context.Context, id string) (Recording, error)
	// List returns all recordings without data, oldest first.
	List(ctx context.Context) ([]Recording, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a new recording id.
func NewID() string {
	return ulid.Make().String()
}

// CheckID returns ErrInvalidID unless id is a ULID.
func CheckID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// CreatedAt returns the creation time encoded in a recording id.
func CreatedAt(id string) time.Time {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// CleanExtension lower-cases ext and strips a leading dot.
func CleanExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Options selects and configures a store implementation.
type Options struct {
	Type   string // registered name; "memory" when empty
	Path   string // filesystem: directory
	DSN    string // sqlite: data source name
	Bucket string // s3: bucket
	Prefix string // s3: key prefix
}

// Factory creates a store.
type Factory func(ctx context.Context, o Options) (Store, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a store implementation available by name.
// It panics if factory is nil or the name is registered twice.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	if factory == nil {
		panic("store: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("store: Register called twice for " + name)
	}
	factories[name] = factory
}

// Types returns the sorted names of the registered implementations.
func Types() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates the store selected by o.Type.
func Open(ctx context.Context, o Options) (Store, error) {
	if o.Type == "" {
		o.Type = "memory"
	}
	factoriesMu.RLock()
	factory, ok := factories[o.Type]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown type %q (forgotten import?)", o.Type)
	}
	return factory(ctx, o)
}
