package drawing

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrUnknownBackend is returned by NewBackend for names nobody registered.
var ErrUnknownBackend = errors.New("drawing: unknown backend")

// BackendFactory creates a backend with an output surface of width x height.
type BackendFactory func(width, height int) Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available under the given name. Backend packages
// call it from init:
//
//	func init() {
//	    drawing.Register("raster", func(w, h int) drawing.Backend { return New(w, h) })
//	}
//
// Register panics if factory is nil or the name is already taken.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("drawing: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("drawing: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes a backend. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend creates the named backend with a width x height output.
func NewBackend(name string, width, height int) (Backend, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("drawing: invalid output size %dx%d", width, height)
	}
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	return factory(width, height), nil
}

// Backends returns the registered names in alphabetical order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(backends))
}

// IsRegistered reports whether name can be passed to NewBackend.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
