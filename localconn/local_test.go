package localconn

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tfs "gotest.tools/v3/fs"
)

func openConn(t *testing.T, dir string, opts ...Option) *Conn {
	t.Helper()

	opts = append([]Option{WithInitialDir(dir)}, opts...)

	conn := New(opts...).connect()
	require.NoError(t, conn.Open())
	t.Cleanup(func() {
		if conn.IsOpen() {
			_ = conn.Close()
		}
	})

	return conn
}

func TestLifecycle(t *testing.T) {
	conn := New().connect()
	assert.False(t, conn.IsOpen())

	require.NoError(t, conn.Open())
	assert.True(t, conn.IsOpen())

	assert.Panics(t, func() { _ = conn.Open() })

	require.NoError(t, conn.Close())
	assert.False(t, conn.IsOpen())

	require.NoError(t, conn.Open())
	require.NoError(t, conn.Close())
}

func TestDoubleCloseWarns(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()

	conn := New(WithLogger(logger)).connect()
	require.NoError(t, conn.Open())
	require.NoError(t, conn.Close())
	assert.Empty(t, hook.Entries)

	require.NoError(t, conn.Close())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestGetwdChdir(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn",
		tfs.WithDir("sub"),
		tfs.WithFile("file.txt", "content"),
	)
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	wd, err := conn.Getwd()
	require.NoError(t, err)
	assert.Equal(t, dir.Path(), wd.String())

	require.NoError(t, conn.Chdir(fsconn.NewPath(dir.Join("sub"), conn)))

	wd, err = conn.Getwd()
	require.NoError(t, err)
	assert.Equal(t, dir.Join("sub"), wd.String())

	// a file is not a valid working directory
	err = conn.Chdir(fsconn.NewPath(dir.Join("file.txt"), conn))
	assert.Error(t, err)
}

func TestPathOps(t *testing.T) {
	conn := &Conn{}

	assert.Equal(t, "c.txt", conn.Name(fsconn.NewPath("/a/b/c.txt", conn)))

	parent, ok := conn.Dir(fsconn.NewPath("/a/b/c.txt", conn))
	assert.True(t, ok)
	assert.Equal(t, "/a/b", parent.String())

	_, ok = conn.Dir(fsconn.NewPath("/", conn))
	assert.False(t, ok)

	joined := conn.Join("/a", "b", "c.txt")
	assert.Equal(t, filepath.Join("/a", "b", "c.txt"), joined.String())
}

func TestIsFileIsDir(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn",
		tfs.WithDir("sub"),
		tfs.WithFile("file.txt", "content"),
	)
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	ok, err := conn.IsFile(fsconn.NewPath(dir.Join("file.txt"), conn))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = conn.IsFile(fsconn.NewPath(dir.Join("sub"), conn))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = conn.IsFile(fsconn.NewPath(dir.Join("missing"), conn))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, conn.IsDir(fsconn.NewPath(dir.Join("sub"), conn)))
	assert.False(t, conn.IsDir(fsconn.NewPath(dir.Join("file.txt"), conn)))
	assert.False(t, conn.IsDir(fsconn.NewPath(dir.Join("missing"), conn)))
}

func TestRemove(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn", tfs.WithFile("file.txt", "content"))
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	require.NoError(t, conn.Remove(fsconn.NewPath(dir.Join("file.txt"), conn)))

	_, err := os.Stat(dir.Join("file.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestList(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn",
		tfs.WithFile("a.txt", "a"),
		tfs.WithFile("b.txt", "b"),
		tfs.WithFile("c.json", "c"),
	)
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	entries, err := conn.List(fsconn.NewPath(dir.Path(), conn), "")
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = conn.List(fsconn.NewPath(dir.Path(), conn), "*.txt")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, dir.Join("a.txt"), entries[0].String())
	assert.Equal(t, dir.Join("b.txt"), entries[1].String())
}

func TestSizeModifiedTime(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn", tfs.WithFile("file.txt", "content"))
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	size, err := conn.Size(fsconn.NewPath(dir.Join("file.txt"), conn))
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	mtime, err := conn.ModifiedTime(fsconn.NewPath(dir.Join("file.txt"), conn))
	require.NoError(t, err)
	assert.False(t, mtime.IsZero())

	_, err = conn.Size(fsconn.NewPath(dir.Join("missing"), conn))
	assert.Error(t, err)
}

func TestMakeDirRename(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn", tfs.WithFile("old.txt", "content"))
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	require.NoError(t, conn.MakeDir(fsconn.NewPath(dir.Join("new", "nested"), conn)))
	assert.True(t, conn.IsDir(fsconn.NewPath(dir.Join("new", "nested"), conn)))

	require.NoError(t, conn.Rename(fsconn.NewPath(dir.Join("old.txt"), conn), "new.txt"))

	ok, err := conn.IsFile(fsconn.NewPath(dir.Join("new.txt"), conn))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenFile(t *testing.T) {
	dir := tfs.NewDir(t, "fsconn", tfs.WithFile("file.txt", "content"))
	defer dir.Remove()

	conn := openConn(t, dir.Path())

	f, err := conn.OpenFile(fsconn.NewPath(dir.Join("file.txt"), conn), "rb")
	require.NoError(t, err)

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "content", string(b))
	assert.Equal(t, dir.Join("file.txt"), f.Path().String())
	require.NoError(t, f.Close())

	f, err = conn.OpenFile(fsconn.NewPath(dir.Join("written.txt"), conn), "w")
	require.NoError(t, err)

	_, err = f.Write([]byte("written"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b, err = os.ReadFile(dir.Join("written.txt"))
	require.NoError(t, err)
	assert.Equal(t, "written", string(b))

	_, err = conn.OpenFile(fsconn.NewPath(dir.Join("file.txt"), conn), "bogus")
	assert.Error(t, err)
}

func TestTempFilePath(t *testing.T) {
	conn := openConn(t, "")

	p, err := conn.TempFilePath("report.json")
	require.NoError(t, err)

	defer os.Remove(p)

	assert.Contains(t, filepath.Base(p), "fsconn-")
	assert.Contains(t, filepath.Base(p), "report.json")

	ok, err := conn.IsFile(fsconn.NewPath(p, conn))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPackageTempFilePath(t *testing.T) {
	p, err := TempFilePath("staged.txt")
	require.NoError(t, err)

	defer os.Remove(p)

	_, err = os.Stat(p)
	assert.NoError(t, err)
}

func TestLocalPath(t *testing.T) {
	conn := openConn(t, "")

	p, err := fsconn.LocalPath(fsconn.NewPath("/some/file", conn))
	require.NoError(t, err)
	assert.Equal(t, "/some/file", p)

	_, err = fsconn.LocalPath(fsconn.NewPath("/some/file", nil))
	assert.Error(t, err)
}

func TestProvider(t *testing.T) {
	mux := fsconn.NewMux()
	mux.Add(Provider)

	assert.Equal(t, []string{"file"}, mux.Schemes())

	p, err := mux.Lookup("file:///some/dir")
	require.NoError(t, err)
	assert.Equal(t, "/some/dir", p.String())

	_, ok := p.Connection().(*Conn)
	assert.True(t, ok)
}
