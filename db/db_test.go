package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ducweb/db"
	"ducweb/db/dbtest"
	"ducweb/entity"
	"ducweb/scan"
)

func openRO(t *testing.T, path string) *db.DB {
	t.Helper()
	d, err := db.Open(path, db.ReadOnly)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestStoreAndReports(t *testing.T) {
	d := openRO(t, dbtest.New(t, dbtest.Example()))

	reports, err := d.Reports()
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "/data", r.Path)
	assert.Equal(t, int64(1000), r.Size.Actual)
	assert.Equal(t, int64(955), r.Size.Apparent)
	assert.Equal(t, int64(4), r.FileCount)
	assert.Equal(t, int64(1), r.DirCount)
	assert.True(t, dbtest.Start.Equal(r.TimeStart))

	r0, ok, err := d.Report(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, r.Path, r0.Path)

	_, ok, err = d.Report(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenDirAndRead(t *testing.T) {
	d := openRO(t, dbtest.New(t, dbtest.Example()))

	dir, err := d.OpenDir("/data")
	require.NoError(t, err)
	assert.Equal(t, "/data", dir.Path())
	assert.Equal(t, int64(1000), dir.Size().Actual)

	entries := dir.Read(entity.SizeActual)
	require.Len(t, entries, 3)
	assert.Equal(t, "A", entries[0].Name)
	assert.True(t, entries[0].IsDir())
	assert.Equal(t, "B", entries[1].Name)
	assert.Equal(t, "C", entries[2].Name)

	a, err := dir.OpenEntry(entries[0])
	require.NoError(t, err)
	assert.Equal(t, "/data/A", a.Path())
	assert.Equal(t, "A", a.Name())
	assert.Equal(t, int64(800), a.Size().Actual)

	_, err = dir.OpenEntry(entries[1])
	assert.ErrorIs(t, err, entity.ErrNotDirectory)

	parent, err := a.Parent()
	require.NoError(t, err)
	assert.Equal(t, "/data", parent.Path())

	sub, err := d.OpenDir("/data/A/")
	require.NoError(t, err)
	assert.Equal(t, "/data/A", sub.Path())
}

func TestDirCloseReleasesEntries(t *testing.T) {
	d := openRO(t, dbtest.New(t, dbtest.Example()))

	dir, err := d.OpenDir("/data")
	require.NoError(t, err)
	require.Len(t, dir.Read(entity.SizeActual), 3)

	dir.Close()
	assert.Empty(t, dir.Read(entity.SizeActual))
	assert.Equal(t, "/data", dir.Path())
}

func TestReadOrdersBySizeType(t *testing.T) {
	root := scan.NewDir(nil, "/r")
	scan.NewFile(root, "big-apparent", 900, 100)
	scan.NewFile(root, "big-actual", 100, 900)
	scan.NewFile(root, "tie-b", 5, 5)
	scan.NewFile(root, "tie-a", 5, 5)

	d := openRO(t, dbtest.New(t, root))
	dir, err := d.OpenDir("/r")
	require.NoError(t, err)

	names := func(es []entity.Entry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.Name)
		}
		return out
	}
	assert.Equal(t, []string{"big-actual", "big-apparent", "tie-a", "tie-b"}, names(dir.Read(entity.SizeActual)))
	assert.Equal(t, []string{"big-apparent", "big-actual", "tie-a", "tie-b"}, names(dir.Read(entity.SizeApparent)))
}

func TestOpenDirErrors(t *testing.T) {
	d := openRO(t, dbtest.New(t, dbtest.Example()))

	_, err := d.OpenDir("/elsewhere")
	assert.ErrorIs(t, err, entity.ErrNotIndexed)

	_, err = d.OpenDir("/datum")
	assert.ErrorIs(t, err, entity.ErrNotIndexed)

	_, err = d.OpenDir("/data/missing")
	assert.ErrorIs(t, err, entity.ErrPathNotFound)

	// files cannot be opened as directories
	_, err = d.OpenDir("/data/B")
	assert.ErrorIs(t, err, entity.ErrPathNotFound)

	dir, err := d.OpenDir("/data")
	require.NoError(t, err)
	_, err = dir.Parent()
	assert.Error(t, err)
}

func TestStoreReplacesRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replace.db")

	d, err := db.Open(path, db.ReadWrite)
	require.NoError(t, err)
	require.NoError(t, d.Store(dbtest.Example(), entity.Report{}))

	root := scan.NewDir(nil, "/data")
	scan.NewFile(root, "only", 1, 1)
	require.NoError(t, d.Store(root, entity.Report{}))

	other := scan.NewDir(nil, "/other")
	scan.NewFile(other, "x", 2, 2)
	require.NoError(t, d.Store(other, entity.Report{}))
	require.NoError(t, d.Close())

	ro := openRO(t, path)
	reports, err := ro.Reports()
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "/data", reports[0].Path)
	assert.Equal(t, int64(1), reports[0].Size.Actual)
	assert.Equal(t, "/other", reports[1].Path)

	dir, err := ro.OpenDir("/data")
	require.NoError(t, err)
	assert.Len(t, dir.Read(entity.SizeActual), 1)

	_, err = ro.OpenDir("/data/A")
	assert.ErrorIs(t, err, entity.ErrPathNotFound)
}

func TestOpenMissingReadOnly(t *testing.T) {
	_, err := db.Open(filepath.Join(t.TempDir(), "nope.db"), db.ReadOnly)
	assert.Error(t, err)
}
