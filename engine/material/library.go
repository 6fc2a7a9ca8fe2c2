package material

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
)

// catalog is one immutable generation of the library's contents.
type catalog struct {
	records map[string]GPUMaterial
	names   []string
}

func (c *catalog) with(name string, record GPUMaterial) *catalog {
	next := &catalog{records: make(map[string]GPUMaterial, len(c.records)+1)}
	for k, v := range c.records {
		next.records[k] = v
	}
	next.names = slices.Clone(c.names)
	if _, ok := next.records[name]; !ok {
		next.names = append(next.names, name)
		slices.Sort(next.names)
	}
	next.records[name] = record
	return next
}

// Library holds the selected GPU records of every named material. Readers always see
// a complete generation: loads build a new catalog and swap it in whole.
type Library struct {
	selector *Selector

	// mu serializes writers; readers go through current only.
	mu      sync.Mutex
	current atomic.Pointer[catalog]
}

// NewLibrary creates an empty library that resolves materials with selector.
//
// Parameters:
//   - selector: the schema and policy to apply to every material
//
// Returns:
//   - *Library: the empty library
func NewLibrary(selector *Selector) *Library {
	l := &Library{selector: selector}
	l.current.Store(&catalog{records: map[string]GPUMaterial{}})
	return l
}

// Selector returns the selector the library resolves materials with.
func (l *Library) Selector() *Selector {
	return l.selector
}

// Add selects a single authored material and publishes it under its name, replacing
// any previous record of that name. Under PolicyReject an invalid material is stored
// as the fallback and the validation error is returned.
//
// Parameters:
//   - a: the authored material
//
// Returns:
//   - error: validation errors, or an error if a has no name
func (l *Library) Add(a Authored) error {
	if a.Name == "" {
		return errors.New("material has no name")
	}
	record, err := l.selector.Select(a)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.current.Store(l.current.Load().with(a.Name, record))
	return err
}

// Load replaces the library's contents with the materials in the given files. If any
// file cannot be read or decoded, or two entries share a name, nothing is published.
// Validation failures do not block the swap: the failing materials are stored as
// fallbacks and their errors returned.
//
// Parameters:
//   - paths: material files; later files may not redefine earlier names
//
// Returns:
//   - error: the load failure, or the joined validation errors
func (l *Library) Load(paths ...string) error {
	next := &catalog{records: map[string]GPUMaterial{}}
	var invalid []error
	for _, path := range paths {
		materials, err := LoadFile(path)
		if err != nil {
			return err
		}
		for _, a := range materials {
			if _, dup := next.records[a.Name]; dup {
				return fmt.Errorf("%s: material %q defined twice", path, a.Name)
			}
			record, err := l.selector.Select(a)
			if err != nil {
				invalid = append(invalid, err)
			}
			next.records[a.Name] = record
			next.names = append(next.names, a.Name)
		}
	}
	slices.Sort(next.names)

	l.mu.Lock()
	l.current.Store(next)
	l.mu.Unlock()
	return errors.Join(invalid...)
}

// LoadDir loads every .toml, .yaml and .yml file directly inside dir, in name order.
//
// Parameters:
//   - dir: the material directory
//
// Returns:
//   - error: as for Load, or an error listing dir
func (l *Library) LoadDir(dir string) error {
	paths, err := materialFiles(dir)
	if err != nil {
		return err
	}
	return l.Load(paths...)
}

// Get returns the record for name.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - GPUMaterial: the record
//   - bool: false if no material has that name
func (l *Library) Get(name string) (GPUMaterial, bool) {
	record, ok := l.current.Load().records[name]
	return record, ok
}

// Resolve returns the record for name, or the schema's fallback if there is none.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - GPUMaterial: the record to bind
func (l *Library) Resolve(name string) GPUMaterial {
	if record, ok := l.Get(name); ok {
		return record
	}
	return Fallback(l.selector.Schema())
}

// Names returns the material names in sorted order.
func (l *Library) Names() []string {
	return slices.Clone(l.current.Load().names)
}

func materialFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatFor(e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
