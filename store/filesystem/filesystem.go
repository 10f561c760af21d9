// Package filesystem stores recordings as files named "<id>.<extension>".
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/store"
)

// DefaultPath is used when no directory is configured.
const DefaultPath = "./data"

func init() {
	store.Register("filesystem", func(_ context.Context, o store.Options) (store.Store, error) {
		return New(o.Path)
	})
}

// Store is a directory of recordings.
type Store struct {
	dir string
}

var _ store.Store = (*Store)(nil)

// New creates the directory if needed and returns a store on it.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultPath
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filesystem: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Create(_ context.Context, extension string, data []byte) (store.Recording, error) {
	id := store.NewID()
	ext := store.CleanExtension(extension)
	if strings.ContainsAny(ext, `/\.`) {
		return store.Recording{}, fmt.Errorf("filesystem: invalid extension %q", extension)
	}
	name := filepath.Join(s.dir, id+"."+ext)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return store.Recording{}, fmt.Errorf("filesystem: write recording: %w", err)
	}
	screencast.Logger().Debug("store: recording created", "id", id, "file", name)
	return store.Recording{
		ID:        id,
		Extension: ext,
		Size:      int64(len(data)),
		CreatedAt: store.CreatedAt(id),
		Data:      data,
	}, nil
}

// find returns the file name of the recording id.
func (s *Store) find(id string) (string, error) {
	if err := store.CheckID(id); err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, id+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", store.ErrNotFound
	}
	return matches[0], nil
}

func (s *Store) Get(_ context.Context, id string) (store.Recording, error) {
	name, err := s.find(id)
	if err != nil {
		return store.Recording{}, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Recording{}, store.ErrNotFound
	}
	if err != nil {
		return store.Recording{}, fmt.Errorf("filesystem: read recording: %w", err)
	}
	return store.Recording{
		ID:        id,
		Extension: strings.TrimPrefix(filepath.Ext(name), "."),
		Size:      int64(len(data)),
		CreatedAt: store.CreatedAt(id),
		Data:      data,
	}, nil
}

func (s *Store) List(context.Context) ([]store.Recording, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: list recordings: %w", err)
	}
	list := make([]store.Recording, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ext, ok := strings.Cut(e.Name(), ".")
		if !ok || store.CheckID(id) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			screencast.Logger().Warn("store: skipping file", "file", e.Name(), "err", err)
			continue
		}
		list = append(list, store.Recording{
			ID:        id,
			Extension: ext,
			Size:      info.Size(),
			CreatedAt: store.CreatedAt(id),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	name, err := s.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store.ErrNotFound
		}
		return fmt.Errorf("filesystem: delete recording: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
