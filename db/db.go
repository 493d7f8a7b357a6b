package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"ducweb/entity"
	"ducweb/scan"
)

type OpenMode int

const (
	ReadOnly OpenMode = iota
	ReadWrite
)

const defaultFileName = ".duc.db"

var (
	bucketReports = []byte("reports")
	bucketDirs    = []byte("dirs")
)

// DB is an index database holding one report per indexed root path.
type DB struct {
	bolt *bolt.DB
}

// DefaultPath returns the database used when none is configured.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultFileName
	}
	return filepath.Join(home, defaultFileName)
}

// Open opens the database at path. ReadOnly takes a shared lock and never
// creates the file.
func Open(path string, mode OpenMode) (*DB, error) {
	if path == "" {
		path = DefaultPath()
	}

	opts := &bolt.Options{Timeout: time.Second, ReadOnly: mode == ReadOnly}
	if mode == ReadOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error opening %s: %w", path, err)
		}
	}

	b, err := bolt.Open(path, 0o644, opts)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}

	if mode == ReadWrite {
		err = b.Update(func(tx *bolt.Tx) error {
			if _, err := tx.CreateBucketIfNotExists(bucketReports); err != nil {
				return err
			}
			_, err := tx.CreateBucketIfNotExists(bucketDirs)
			return err
		})
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("cannot initialize %s: %w", path, err)
		}
	}

	return &DB{bolt: b}, nil
}

func (d *DB) Close() error {
	return d.bolt.Close()
}

// Store writes one index run, replacing the previous run of the same root path.
func (d *DB) Store(root *scan.FileData, report entity.Report) error {
	report.Path = root.Path()
	report.Size = root.Size()
	report.FileCount, report.DirCount = root.Counts()

	return d.bolt.Update(func(tx *bolt.Tx) error {
		reports := tx.Bucket(bucketReports)
		dirs := tx.Bucket(bucketDirs)

		if data := reports.Get([]byte(report.Path)); data != nil {
			var old entity.Report
			if err := deserialize(data, &old); err != nil {
				return fmt.Errorf("cannot decode report %s: %w", report.Path, err)
			}
			if err := deleteDir(dirs, old.RootID); err != nil {
				return err
			}
		}

		rootID, err := storeDir(dirs, root, 0)
		if err != nil {
			return err
		}
		report.RootID = rootID

		data, err := serialize(report)
		if err != nil {
			return err
		}
		return reports.Put([]byte(report.Path), data)
	})
}

func storeDir(b *bolt.Bucket, d *scan.FileData, parentID uint64) (uint64, error) {
	id, err := b.NextSequence()
	if err != nil {
		return 0, err
	}

	rec := storedDir{
		ID:       id,
		ParentID: parentID,
		Path:     d.Path(),
		Size:     d.Size(),
		Entries:  make([]storedEntry, 0, len(d.Children)),
	}
	for _, c := range d.Children {
		e := storedEntry{Name: c.Name, IsDir: c.IsDir, Size: c.Size()}
		if c.IsDir {
			if e.ID, err = storeDir(b, c, id); err != nil {
				return 0, err
			}
		}
		rec.Entries = append(rec.Entries, e)
	}

	data, err := serialize(rec)
	if err != nil {
		return 0, err
	}
	return id, b.Put(itob(id), data)
}

func deleteDir(b *bolt.Bucket, id uint64) error {
	data := b.Get(itob(id))
	if data == nil {
		return nil
	}
	var rec storedDir
	if err := deserialize(data, &rec); err != nil {
		return fmt.Errorf("cannot decode directory %d: %w", id, err)
	}
	for _, e := range rec.Entries {
		if e.IsDir {
			if err := deleteDir(b, e.ID); err != nil {
				return err
			}
		}
	}
	return b.Delete(itob(id))
}

// Reports returns every index run ordered by path.
func (d *DB) Reports() ([]entity.Report, error) {
	var reports []entity.Report
	err := d.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketReports)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var r entity.Report
			if err := deserialize(v, &r); err != nil {
				return err
			}
			reports = append(reports, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read reports: %w", err)
	}
	return reports, nil
}

// Report returns the i-th report; ok is false once i is past the last one.
func (d *DB) Report(i int) (r entity.Report, ok bool, err error) {
	err = d.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketReports)
		if b == nil || i < 0 {
			return nil
		}
		c := b.Cursor()
		n := 0
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if n == i {
				ok = true
				return deserialize(v, &r)
			}
			n++
		}
		return nil
	})
	return r, ok, err
}

// OpenDir opens an indexed directory by absolute path.
func (d *DB) OpenDir(path string) (*Dir, error) {
	path = filepath.Clean(path)

	reports, err := d.Reports()
	if err != nil {
		return nil, err
	}

	var best *entity.Report
	for i := range reports {
		r := &reports[i]
		if !within(r.Path, path) {
			continue
		}
		if best == nil || len(r.Path) > len(best.Path) {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", path, entity.ErrNotIndexed)
	}

	dir, err := d.load(best.RootID)
	if err != nil {
		return nil, err
	}

	rel := strings.TrimPrefix(path, best.Path)
	for _, name := range strings.Split(rel, string(filepath.Separator)) {
		if name == "" {
			continue
		}
		next, err := dir.child(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		dir = next
	}
	return dir, nil
}

func within(root, path string) bool {
	if root == path {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}

func (d *DB) load(id uint64) (*Dir, error) {
	var rec storedDir
	err := d.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDirs)
		if b == nil {
			return entity.ErrPathNotFound
		}
		data := b.Get(itob(id))
		if data == nil {
			return entity.ErrPathNotFound
		}
		return deserialize(data, &rec)
	})
	if err != nil {
		if errors.Is(err, entity.ErrPathNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cannot load directory %d: %w", id, err)
	}

	entries := make([]entity.Entry, len(rec.Entries))
	for i, e := range rec.Entries {
		entries[i] = e.toEntry()
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return &Dir{
		db:       d,
		id:       rec.ID,
		parentID: rec.ParentID,
		path:     rec.Path,
		size:     rec.Size,
		entries:  entries,
	}, nil
}
