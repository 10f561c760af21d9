// Package memory provides a Store that forgets everything on exit.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/store"
)

func init() {
	store.Register("memory", func(context.Context, store.Options) (store.Store, error) {
		return New(), nil
	})
}

// Store is an in-memory store.Store.
type Store struct {
	mu         sync.RWMutex
	recordings map[string]store.Recording
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{recordings: make(map[string]store.Recording)}
}

func (s *Store) Create(_ context.Context, extension string, data []byte) (store.Recording, error) {
	id := store.NewID()
	rec := store.Recording{
		ID:        id,
		Extension: store.CleanExtension(extension),
		Size:      int64(len(data)),
		CreatedAt: store.CreatedAt(id),
		Data:      slices.Clone(data),
	}

	s.mu.Lock()
	s.recordings[id] = rec
	s.mu.Unlock()

	screencast.Logger().Debug("store: recording created", "id", id, "size", rec.Size)
	return withData(rec), nil
}

func (s *Store) Get(_ context.Context, id string) (store.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recordings[id]
	if !ok {
		return store.Recording{}, store.ErrNotFound
	}
	return withData(rec), nil
}

func (s *Store) List(context.Context) ([]store.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]store.Recording, 0, len(s.recordings))
	for _, rec := range s.recordings {
		rec.Data = nil
		list = append(list, rec)
	}
	slices.SortFunc(list, func(a, b store.Recording) int {
		return strings.Compare(a.ID, b.ID)
	})
	return list, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recordings[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.recordings, id)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// withData returns rec with its own copy of the data.
func withData(rec store.Recording) store.Recording {
	rec.Data = slices.Clone(rec.Data)
	return rec
}
