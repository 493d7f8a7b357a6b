// Package dbtest builds index databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ducweb/db"
	"ducweb/entity"
	"ducweb/scan"
)

// Start is the TimeStart recorded for every run stored by New.
var Start = time.Date(2024, 3, 14, 15, 9, 26, 0, time.Local)

// New stores each root as an index run in a fresh database and returns its path.
func New(t *testing.T, roots ...*scan.FileData) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path, db.ReadWrite)
	require.NoError(t, err)
	defer d.Close()

	for _, root := range roots {
		require.NoError(t, d.Store(root, entity.Report{TimeStart: Start, TimeStop: Start.Add(time.Second)}))
	}
	return path
}

// Example is the tree
//
//	/data          (1000 actual)
//	  A/           (800)  holding a1 (500) and a2 (300)
//	  B            (150)
//	  C            (50)
func Example() *scan.FileData {
	root := scan.NewDir(nil, "/data")
	a := scan.NewDir(root, "A")
	scan.NewFile(a, "a1", 480, 500)
	scan.NewFile(a, "a2", 290, 300)
	scan.NewFile(root, "B", 140, 150)
	scan.NewFile(root, "C", 45, 50)
	return root
}
