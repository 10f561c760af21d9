package format

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	formats    = make(map[string]Format)
)

// Register makes a format available under the given name. It panics if f
// is nil or the name is already taken.
func Register(name string, f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if f == nil {
		panic("format: Register format is nil")
	}
	if _, dup := formats[name]; dup {
		panic("format: Register called twice for " + name)
	}
	formats[name] = f
}

// Unregister removes a format. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(formats, name)
}

// Lookup returns the format registered under name.
func Lookup(name string) (Format, error) {
	registryMu.RLock()
	f, ok := formats[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownFormat, name)
	}
	return f, nil
}

// ForExtension returns the format writing files with the given extension.
// A leading dot is ignored and the comparison is case-insensitive.
func ForExtension(ext string) (Format, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range sortedNames() {
		if f := formats[name]; f.Extension() == ext {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: no format for extension %q", ErrUnknownFormat, ext)
}

// Formats returns the registered names in alphabetical order.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames()
}

// sortedNames requires registryMu to be held.
func sortedNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
