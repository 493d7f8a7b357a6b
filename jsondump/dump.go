// Package jsondump writes an indexed directory tree as a nested JSON document,
// pruned by size and optionally limited to directories.
package jsondump

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"ducweb/db"
	"ducweb/entity"
)

// Node is the shape of every object in the document. Files never carry Children.
type Node struct {
	Name         string `json:"name"`
	SizeApparent int64  `json:"size_apparent"`
	SizeActual   int64  `json:"size_actual"`
	Count        int64  `json:"count"`
	Children     []Node `json:"children,omitempty"`
}

// Filter decides which entries are written. MaxItems < 0 means no limit.
type Filter struct {
	MinSize      float64
	ExcludeFiles bool
	MaxItems     int
}

type Options struct {
	Database        string
	Path            string
	Apparent        bool
	MinSize         float64
	MinSizeRelative float64
	ExcludeFiles    bool
	MaxItems        int
}

// NewFilter derives the filter for a tree whose root has size root.
func NewFilter(opts Options, root entity.Size) Filter {
	return Filter{
		MinSize:      math.Max(opts.MinSize, opts.MinSizeRelative*float64(root.Actual)),
		ExcludeFiles: opts.ExcludeFiles,
		MaxItems:     opts.MaxItems,
	}
}

// Render opens the database read-only and writes the tree below opts.Path.
func Render(w io.Writer, opts Options) error {
	path := opts.Path
	if path == "" {
		path = "."
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	d, err := db.Open(opts.Database, db.ReadOnly)
	if err != nil {
		return err
	}
	defer d.Close()

	dir, err := d.OpenDir(path)
	if err != nil {
		return err
	}
	defer dir.Close()

	st := entity.SizeActual
	if opts.Apparent {
		st = entity.SizeApparent
	}

	dumper := NewDumper(w, NewFilter(opts, dir.Size()), st)
	if _, err := dumper.Dump(dir); err != nil {
		return err
	}
	return nil
}

// Dumper streams one document. It is not reusable.
type Dumper struct {
	w       *bufio.Writer
	filter  Filter
	st      entity.SizeType
	emitted int
	log     *slog.Logger
}

// NewDumper writes to w, comparing sizes at st against the filter.
func NewDumper(w io.Writer, filter Filter, st entity.SizeType) *Dumper {
	return &Dumper{
		w:      bufio.NewWriter(w),
		filter: filter,
		st:     st,
		log:    slog.Default().With(slog.String("item", "JSON")),
	}
}

// Dump writes root and its surviving descendants and returns how many
// descendants were written.
func (d *Dumper) Dump(root *db.Dir) (int, error) {
	d.openObject(root.Path(), root.Size())
	d.w.WriteString(`, "children": [`)
	n := d.dump(root, 1)
	if n > 0 {
		d.w.WriteString("\n")
	}
	d.w.WriteString("] }\n")
	return n, d.w.Flush()
}

func (d *Dumper) full() bool {
	return d.filter.MaxItems >= 0 && d.emitted >= d.filter.MaxItems
}

func (d *Dumper) dump(dir *db.Dir, depth int) int {
	count := 0
	for _, e := range dir.Read(entity.SizeActual) {
		if d.full() {
			break
		}
		if float64(e.Size.Get(d.st)) < d.filter.MinSize {
			continue
		}

		if !e.IsDir() {
			if d.filter.ExcludeFiles {
				continue
			}
			d.separate(count, depth)
			d.openObject(e.Name, e.Size)
			d.w.WriteString(" }")
			d.emitted++
			count++
			continue
		}

		child, err := dir.OpenEntry(e)
		if err != nil {
			d.log.Debug("Skipping directory", slog.String("name", e.Name), slog.Any("error", err))
			continue
		}
		d.separate(count, depth)
		d.openObject(e.Name, e.Size)
		d.w.WriteString(`, "children": [`)
		d.emitted++
		count++

		n := d.dump(child, depth+1)
		child.Close()
		if n > 0 {
			d.w.WriteString("\n")
			d.indent(depth)
		}
		d.w.WriteString("] }")
		count += n
	}
	return count
}

func (d *Dumper) separate(written, depth int) {
	if written == 0 {
		d.w.WriteString("\n")
	} else {
		d.w.WriteString(",\n")
	}
	d.indent(depth)
}

func (d *Dumper) indent(depth int) {
	d.w.WriteString(strings.Repeat("\t", depth))
}

func (d *Dumper) openObject(name string, s entity.Size) {
	fmt.Fprintf(d.w, `{ "name": "%s", "size_apparent": %d, "size_actual": %d, "count": %d`,
		EscapeName(name), s.Apparent, s.Actual, s.Count)
}

// EscapeName escapes backslash, tab, newline and double quote the JSON way.
// Other control bytes become #xHH, which JSON decoders pass through as text.
func EscapeName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '"':
			b.WriteString(`\"`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&b, "#x%02x", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
