// Package ledger keeps a caller-owned, ordered record of resources created
// through the facade. It is never reconciled with the provider and is not
// safe for concurrent use.
package ledger

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Ledger is an ordered mapping from resource name to handle
type Ledger[T any] struct {
	order []string
	items map[string]T
}

// New returns an empty ledger
func New[T any]() *Ledger[T] {
	return &Ledger[T]{items: make(map[string]T)}
}

// Put records handle under name. Replacing an existing entry keeps its position.
func (l *Ledger[T]) Put(name string, handle T) {
	if _, ok := l.items[name]; !ok {
		l.order = append(l.order, name)
	}
	l.items[name] = handle
}

// Get returns the handle recorded under name
func (l *Ledger[T]) Get(name string) (T, bool) {
	handle, ok := l.items[name]
	return handle, ok
}

// Delete removes name and reports whether it was present
func (l *Ledger[T]) Delete(name string) bool {
	if _, ok := l.items[name]; !ok {
		return false
	}
	delete(l.items, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the recorded names in insertion order
func (l *Ledger[T]) Names() []string {
	names := make([]string, len(l.order))
	copy(names, l.order)
	return names
}

// Values returns the recorded handles in insertion order
func (l *Ledger[T]) Values() []T {
	values := make([]T, 0, len(l.order))
	for _, name := range l.order {
		values = append(values, l.items[name])
	}
	return values
}

// Len returns the number of entries
func (l *Ledger[T]) Len() int {
	return len(l.order)
}

type entry[T any] struct {
	Name   string
	Handle T
}

type snapshot[T any] struct {
	Entries []entry[T]
}

// DefaultPath returns <home>/<stem>.gob
func DefaultPath(stem string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving home directory")
	}
	return filepath.Join(home, stem+".gob"), nil
}

// Save writes the ledger to path. The format is a local cache, not a stable contract.
func (l *Ledger[T]) Save(path string) error {
	snap := snapshot[T]{Entries: make([]entry[T], 0, len(l.order))}
	for _, name := range l.order {
		snap.Entries = append(snap.Entries, entry[T]{Name: name, Handle: l.items[name]})
	}

	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating ledger file %s", path)
	}
	defer fh.Close()

	if err := gob.NewEncoder(fh).Encode(snap); err != nil {
		return errors.Wrapf(err, "encoding ledger to %s", path)
	}
	return fh.Close()
}

// Load reads a ledger previously written by Save
func Load[T any](path string) (*Ledger[T], error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening ledger file %s", path)
	}
	defer fh.Close()

	var snap snapshot[T]
	if err := gob.NewDecoder(fh).Decode(&snap); err != nil {
		return nil, errors.Wrapf(err, "decoding ledger from %s", path)
	}

	l := New[T]()
	for _, e := range snap.Entries {
		l.Put(e.Name, e.Handle)
	}
	return l, nil
}
