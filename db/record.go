package db

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"ducweb/entity"
)

// storedDir is the serializable form of one directory: its own aggregate and the
// direct children, with child directories referenced by id.
type storedDir struct {
	ID       uint64
	ParentID uint64
	Path     string
	Size     entity.Size
	Entries  []storedEntry
}

type storedEntry struct {
	Name  string
	IsDir bool
	Size  entity.Size
	ID    uint64
}

func (e storedEntry) toEntry() entity.Entry {
	t := entity.FileTypeFile
	if e.IsDir {
		t = entity.FileTypeDir
	}
	return entity.Entry{Name: e.Name, Type: t, Size: e.Size, ID: e.ID}
}

// Serialize encodes v using gob
func serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserialize decodes a gob value into v
func deserialize(data []byte, v any) error {
	dec := gob.NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
