package jsondump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ducweb/db"
	"ducweb/db/dbtest"
	"ducweb/entity"
	"ducweb/scan"
)

const exampleDump = "{ \"name\": \"/data\", \"size_apparent\": 955, \"size_actual\": 1000, \"count\": 4, \"children\": [\n" +
	"\t{ \"name\": \"A\", \"size_apparent\": 770, \"size_actual\": 800, \"count\": 2, \"children\": [\n" +
	"\t\t{ \"name\": \"a1\", \"size_apparent\": 480, \"size_actual\": 500, \"count\": 1 },\n" +
	"\t\t{ \"name\": \"a2\", \"size_apparent\": 290, \"size_actual\": 300, \"count\": 1 }\n" +
	"\t] },\n" +
	"\t{ \"name\": \"B\", \"size_apparent\": 140, \"size_actual\": 150, \"count\": 1 },\n" +
	"\t{ \"name\": \"C\", \"size_apparent\": 45, \"size_actual\": 50, \"count\": 1 }\n" +
	"] }\n"

// flatA is the example tree with A holding ten files of 80 bytes each.
func flatA() *scan.FileData {
	root := scan.NewDir(nil, "/data")
	a := scan.NewDir(root, "A")
	for i := 0; i < 10; i++ {
		scan.NewFile(a, fmt.Sprintf("a%d", i), 80, 80)
	}
	scan.NewFile(root, "B", 150, 150)
	scan.NewFile(root, "C", 50, 50)
	return root
}

func openDir(t *testing.T, root *scan.FileData) *db.Dir {
	t.Helper()
	d, err := db.Open(dbtest.New(t, root), db.ReadOnly)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	dir, err := d.OpenDir(root.Path())
	require.NoError(t, err)
	return dir
}

func dump(t *testing.T, dir *db.Dir, filter Filter) (string, int) {
	t.Helper()
	var buf bytes.Buffer
	n, err := NewDumper(&buf, filter, entity.SizeActual).Dump(dir)
	require.NoError(t, err)
	return buf.String(), n
}

func decode(t *testing.T, out string) Node {
	t.Helper()
	var n Node
	require.NoError(t, json.Unmarshal([]byte(out), &n), out)
	return n
}

func names(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestDumpFormat(t *testing.T) {
	out, n := dump(t, openDir(t, dbtest.Example()), Filter{MaxItems: -1})
	assert.Equal(t, exampleDump, out)
	assert.Equal(t, 5, n)
}

func TestDumpMinSize(t *testing.T) {
	dir := openDir(t, flatA())

	out, n := dump(t, dir, Filter{MinSize: 100, MaxItems: -1})
	assert.Equal(t, 2, n)
	root := decode(t, out)
	assert.Equal(t, []string{"A", "B"}, names(root.Children))
	assert.Empty(t, root.Children[0].Children)
	assert.Contains(t, out, `"count": 10, "children": [] }`)
}

func TestDumpMinSizeZeroEmitsEverything(t *testing.T) {
	_, n := dump(t, openDir(t, flatA()), Filter{MaxItems: -1})
	assert.Equal(t, 13, n)
}

func TestDumpMinSizeAboveRoot(t *testing.T) {
	out, n := dump(t, openDir(t, dbtest.Example()), Filter{MinSize: 1001, MaxItems: -1})
	assert.Equal(t, 0, n)
	assert.Equal(t, "{ \"name\": \"/data\", \"size_apparent\": 955, \"size_actual\": 1000, \"count\": 4, \"children\": [] }\n", out)
}

func TestDumpExcludeFiles(t *testing.T) {
	dir := openDir(t, flatA())

	out, n := dump(t, dir, Filter{ExcludeFiles: true, MaxItems: -1})
	assert.Equal(t, 1, n)
	root := decode(t, out)
	assert.Equal(t, []string{"A"}, names(root.Children))

	_, n = dump(t, dir, Filter{MinSize: 100, ExcludeFiles: true, MaxItems: -1})
	assert.Equal(t, 1, n)
}

func TestDumpMaxItems(t *testing.T) {
	dir := openDir(t, dbtest.Example())

	out, n := dump(t, dir, Filter{MaxItems: 2})
	assert.Equal(t, 2, n)
	root := decode(t, out)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "A", root.Children[0].Name)
	assert.Equal(t, []string{"a1"}, names(root.Children[0].Children))

	out, n = dump(t, dir, Filter{MaxItems: 0})
	assert.Equal(t, 0, n)
	assert.Empty(t, decode(t, out).Children)
}

func TestDumpApparentThreshold(t *testing.T) {
	dir := openDir(t, dbtest.Example())

	// B is 150 actual but 140 apparent.
	var buf bytes.Buffer
	n, err := NewDumper(&buf, Filter{MinSize: 145, MaxItems: -1}, entity.SizeApparent).Dump(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"A"}, names(decode(t, buf.String()).Children))
}

func TestDumpDeterministic(t *testing.T) {
	dir := openDir(t, flatA())
	first, _ := dump(t, dir, Filter{MinSize: 60, MaxItems: -1})
	second, _ := dump(t, dir, Filter{MinSize: 60, MaxItems: -1})
	assert.Equal(t, first, second)
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`back\slash`, `back\\slash`},
		{"tab\there", `tab\there`},
		{"new\nline", `new\nline`},
		{`say "hi"`, `say \"hi\"`},
		{"bell\x07", "bell#x07"},
		{"caf\xc3\xa9", "caf\xc3\xa9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeName(tt.in), tt.in)
	}
}

func TestNewFilter(t *testing.T) {
	root := entity.Size{Actual: 1000, Apparent: 10}

	f := NewFilter(Options{MinSize: 50, MinSizeRelative: 0.1, MaxItems: -1}, root)
	assert.Equal(t, 100.0, f.MinSize)

	f = NewFilter(Options{MinSize: 500, MinSizeRelative: 0.1}, root)
	assert.Equal(t, 500.0, f.MinSize)
}

func TestRender(t *testing.T) {
	path := dbtest.New(t, dbtest.Example())

	var buf bytes.Buffer
	err := Render(&buf, Options{Database: path, Path: "/data", MinSizeRelative: 0.1, MaxItems: -1})
	require.NoError(t, err)

	root := decode(t, buf.String())
	assert.Equal(t, "/data", root.Name)
	assert.Equal(t, int64(1000), root.SizeActual)
	assert.Equal(t, []string{"A", "B"}, names(root.Children))
	assert.Equal(t, []string{"a1", "a2"}, names(root.Children[0].Children))
}

func TestRenderErrors(t *testing.T) {
	path := dbtest.New(t, dbtest.Example())

	var buf bytes.Buffer
	err := Render(&buf, Options{Database: path, Path: "/data/missing", MaxItems: -1})
	assert.ErrorIs(t, err, entity.ErrPathNotFound)
	assert.Zero(t, buf.Len())

	err = Render(&buf, Options{Database: filepath.Join(t.TempDir(), "none.db"), Path: "/data"})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
