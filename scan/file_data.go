package scan

import (
	"path/filepath"
	"strings"

	"ducweb/entity"
)

// FileData is one node of a scanned tree. Own holds the sizes of the node
// itself: zero for directories, the stat sizes for files.
type FileData struct {
	Parent   *FileData
	Dir      string // full path
	Name     string
	IsDir    bool
	IsLink   bool
	Own      entity.Size
	Children []*FileData

	cached *entity.Size
}

func newRootFileData(dir string) *FileData {
	return &FileData{Dir: dir, Name: dir, IsDir: true}
}

func newFileData(parent *FileData, name string, isDir bool, isLink bool) *FileData {
	return &FileData{
		Parent: parent,
		Dir:    filepath.Join(parent.Path(), name),
		Name:   name,
		IsDir:  isDir,
		IsLink: isLink,
	}
}

// NewDir and NewFile build trees by hand, for callers that do not scan a filesystem.
func NewDir(parent *FileData, name string) *FileData {
	if parent == nil {
		return newRootFileData(name)
	}
	d := newFileData(parent, name, true, false)
	parent.Children = append(parent.Children, d)
	return d
}

func NewFile(parent *FileData, name string, apparent, actual int64) *FileData {
	f := newFileData(parent, name, false, false)
	f.Own = entity.Size{Apparent: apparent, Actual: actual, Count: 1}
	parent.Children = append(parent.Children, f)
	return f
}

func (d FileData) Root() bool {
	return d.Parent == nil
}

func (d FileData) Path() string {
	return d.Dir
}

// Size returns the aggregate over the subtree. The result is cached, so the tree
// must not change after the first call.
func (d *FileData) Size() entity.Size {
	if d.cached != nil {
		return *d.cached
	}

	s := d.Own
	for _, f := range d.Children {
		s.Add(f.Size())
	}
	d.cached = &s
	return s
}

// Counts returns the number of files and directories below d, d excluded.
func (d *FileData) Counts() (files, dirs int64) {
	for _, c := range d.Children {
		if c.IsDir {
			dirs++
			f, sub := c.Counts()
			files += f
			dirs += sub
		} else {
			files++
		}
	}
	return files, dirs
}

// FindByPath searches for a node with the given path, descending only into
// children that are on the path to the target.
func (d *FileData) FindByPath(targetPath string) *FileData {
	if d.Path() == targetPath {
		return d
	}

	// The trailing "/" keeps "/tmp/test" from matching "/tmp/test123".
	for _, child := range d.Children {
		if strings.HasPrefix(targetPath+"/", child.Path()+"/") {
			return child.FindByPath(targetPath)
		}
	}
	return nil
}
