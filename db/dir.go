package db

import (
	"fmt"
	"path/filepath"
	"sort"

	"ducweb/entity"
)

// Dir is an open indexed directory.
type Dir struct {
	db       *DB
	id       uint64
	parentID uint64
	path     string
	size     entity.Size
	entries  []entity.Entry
}

func (d *Dir) Path() string {
	return d.path
}

func (d *Dir) Name() string {
	return filepath.Base(d.path)
}

func (d *Dir) Size() entity.Size {
	return d.size
}

// Read returns the direct children sorted by the st facet, largest first.
// Ties are ordered by name so output is stable between runs.
func (d *Dir) Read(st entity.SizeType) []entity.Entry {
	entries := make([]entity.Entry, len(d.entries))
	copy(entries, d.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Size.Get(st) > entries[j].Size.Get(st)
	})
	return entries
}

// OpenEntry opens the child directory e read from d.
func (d *Dir) OpenEntry(e entity.Entry) (*Dir, error) {
	if !e.IsDir() {
		return nil, fmt.Errorf("%s: %w", e.Name, entity.ErrNotDirectory)
	}
	return d.db.load(e.ID)
}

// Parent opens the directory above d. The top of an index run resolves through
// any other run covering its parent path.
func (d *Dir) Parent() (*Dir, error) {
	if d.parentID != 0 {
		return d.db.load(d.parentID)
	}
	parent := filepath.Dir(d.path)
	if parent == d.path {
		return nil, fmt.Errorf("%s: %w", d.path, entity.ErrPathNotFound)
	}
	return d.db.OpenDir(parent)
}

// Close releases the entries held by d. The database stays open.
func (d *Dir) Close() {
	d.entries = nil
}

func (d *Dir) child(name string) (*Dir, error) {
	for _, e := range d.entries {
		if e.Name == name && e.IsDir() {
			return d.db.load(e.ID)
		}
	}
	return nil, entity.ErrPathNotFound
}
