package entity

import "time"

type FileType uint8

const (
	FileTypeFile FileType = iota
	FileTypeDir
)

func (t FileType) String() string {
	if t == FileTypeDir {
		return "directory"
	}
	return "regular file"
}

// Entry is one direct child of an indexed directory.
type Entry struct {
	Name string
	Type FileType
	Size Size
	// ID references the stored directory record; zero for files.
	ID uint64
}

func (e Entry) IsDir() bool {
	return e.Type == FileTypeDir
}

// Report describes one index run stored in a database.
type Report struct {
	Path      string
	Size      Size
	FileCount int64
	DirCount  int64
	TimeStart time.Time
	TimeStop  time.Time
	// RootID references the stored record of Path.
	RootID uint64
}
