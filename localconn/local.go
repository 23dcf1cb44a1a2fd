// Package localconn provides a file system connection for the local
// filesystem, suitable for use with the 'file' URL scheme.
//
// Besides implementing the full connection surface (local filesystems have
// real directories), this package is the staging collaborator for remote
// connection types: it can mint temporary file paths for proxy copies
// (fsconn.TempFiler) and resolve its paths to plain local paths
// (fsconn.LocalResolver).
package localconn

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/sirupsen/logrus"
)

// Connector produces connections to the local filesystem.
type Connector struct {
	logger     *logrus.Logger
	initialDir string
}

var _ fsconn.Connector = (*Connector)(nil)

// New creates a local filesystem Connector.
func New(opts ...Option) *Connector {
	c := &Connector{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt.apply(c)
	}

	return c
}

// Connect creates a new connection and returns it. The connection is not
// opened; call Open on it before use.
func (c *Connector) Connect() fsconn.Connection {
	return c.connect()
}

func (c *Connector) connect() *Conn {
	return &Conn{connector: c, cwd: c.initialDir}
}

// Provider is used to register this connection type with a fsconn.Mux
//
//nolint:gochecknoglobals
var Provider = fsconn.ProviderFunc(func(u *url.URL) (fsconn.Path, error) {
	return fsconn.NewPath(u.Path, New().connect()), nil
}, "file")

// Option configures a Connector.
type Option interface {
	apply(*Connector)
}

type optionFunc func(*Connector)

func (o optionFunc) apply(c *Connector) { o(c) }

// WithInitialDir sets the current directory connections start out in. If
// none is set, connections start in the process working directory.
func WithInitialDir(dir string) Option {
	return optionFunc(func(c *Connector) {
		c.initialDir = dir
	})
}

// WithLogger specifies the logger used for connection lifecycle warnings.
// If none is specified, the logrus standard logger is used.
func WithLogger(logger *logrus.Logger) Option {
	return optionFunc(func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// TempFilePath returns the path of a fresh local temporary file using hint
// as part of the name, via a short-lived local connection. It is the
// convenience form used by remote connection types to stage proxy copies.
func TempFilePath(hint string) (string, error) {
	conn := New().connect()

	if err := conn.Open(); err != nil {
		return "", err
	}
	defer conn.Close()

	return conn.TempFilePath(hint)
}

// Conn is a connection to the local filesystem. The open/close lifecycle is
// client-side bookkeeping kept for interface consistency with remote
// connection types.
type Conn struct {
	connector *Connector
	cwd       string
	isOpen    bool
}

var (
	_ fsconn.Connection    = (*Conn)(nil)
	_ fsconn.LocalResolver = (*Conn)(nil)
	_ fsconn.TempFiler     = (*Conn)(nil)
)

// Open opens the connection. Opening an already-open connection is a
// programmer error and panics.
func (c *Conn) Open() error {
	if c.isOpen {
		panic("localconn: Open called on an already-open connection")
	}

	c.isOpen = true

	if c.cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			c.isOpen = false

			return err
		}

		c.cwd = cwd
	}

	return nil
}

// Close closes the connection. Closing an already-closed connection is not
// an error; it logs a warning and leaves the connection closed.
func (c *Conn) Close() error {
	if !c.isOpen {
		c.connector.logger.Warn("double-closing local filesystem connection")
	}

	c.isOpen = false

	return nil
}

// IsOpen reports whether the connection is open.
func (c *Conn) IsOpen() bool { return c.isOpen }

// Getwd returns the current working directory of this connection.
func (c *Conn) Getwd() (fsconn.Path, error) {
	return fsconn.NewPath(c.cwd, c), nil
}

// Chdir sets the current working directory of this connection. The target
// must be an existing directory.
func (c *Conn) Chdir(path fsconn.Path) error {
	c.mustBeOpen("Chdir")

	fi, err := os.Stat(path.String())
	if err != nil {
		return err
	}

	if !fi.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	c.cwd = path.String()

	return nil
}

func (c *Conn) Name(path fsconn.Path) string {
	return filepath.Base(path.String())
}

func (c *Conn) Dir(path fsconn.Path) (fsconn.Path, bool) {
	dir := filepath.Dir(path.String())
	if dir == path.String() {
		return fsconn.Path{}, false
	}

	return fsconn.NewPath(dir, c), true
}

func (c *Conn) Join(elems ...string) fsconn.Path {
	return fsconn.NewPath(filepath.Join(elems...), c)
}

func (c *Conn) IsFile(path fsconn.Path) (bool, error) {
	fi, err := os.Stat(path.String())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return !fi.IsDir(), nil
}

func (c *Conn) IsDir(path fsconn.Path) bool {
	fi, err := os.Stat(path.String())

	return err == nil && fi.IsDir()
}

func (c *Conn) Remove(path fsconn.Path) error {
	c.mustBeOpen("Remove")

	return os.Remove(path.String())
}

// List returns the entries of the directory at path whose names match the
// glob pattern. An empty pattern matches everything.
func (c *Conn) List(path fsconn.Path, pattern string) ([]fsconn.Path, error) {
	entries, err := os.ReadDir(path.String())
	if err != nil {
		return nil, err
	}

	if pattern == "" {
		pattern = "*"
	}

	paths := make([]fsconn.Path, 0, len(entries))

	for _, entry := range entries {
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, err
		}

		if ok {
			paths = append(paths, c.Join(path.String(), entry.Name()))
		}
	}

	return paths, nil
}

func (c *Conn) Size(path fsconn.Path) (int64, error) {
	fi, err := os.Stat(path.String())
	if err != nil {
		return 0, err
	}

	return fi.Size(), nil
}

func (c *Conn) ModifiedTime(path fsconn.Path) (time.Time, error) {
	fi, err := os.Stat(path.String())
	if err != nil {
		return time.Time{}, err
	}

	return fi.ModTime(), nil
}

func (c *Conn) MakeDir(path fsconn.Path) error {
	c.mustBeOpen("MakeDir")

	return os.MkdirAll(path.String(), 0o755)
}

func (c *Conn) Rename(path fsconn.Path, newName string) error {
	c.mustBeOpen("Rename")

	return os.Rename(path.String(), filepath.Join(filepath.Dir(path.String()), newName))
}

// OpenFile opens the file at path directly; local files need no proxy
// staging.
func (c *Conn) OpenFile(path fsconn.Path, mode string) (fsconn.File, error) {
	c.mustBeOpen("OpenFile")

	flag, err := fsconn.ModeFlag(mode)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path.String(), flag, 0o644)
	if err != nil {
		return nil, err
	}

	return &localFile{File: f, path: fsconn.NewPath(path.String(), c)}, nil
}

// TempFilePath returns the path of a fresh temporary file, using hint as
// part of the file name - implements fsconn.TempFiler.
func (c *Conn) TempFilePath(hint string) (string, error) {
	c.mustBeOpen("TempFilePath")

	pattern := "fsconn-*"
	if hint != "" {
		pattern += "-" + sanitizeHint(hint)
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	return f.Name(), nil
}

// LocalPath resolves path to a plain local filesystem path - implements
// fsconn.LocalResolver. The path must be bound to a local connection.
func (c *Conn) LocalPath(path fsconn.Path) (string, error) {
	if _, ok := path.Connection().(*Conn); !ok {
		return "", fmt.Errorf("path %q is not bound to a local filesystem connection", path)
	}

	return path.String(), nil
}

func (c *Conn) mustBeOpen(op string) {
	if !c.isOpen {
		panic("localconn: " + op + " called on a closed connection")
	}
}

// sanitizeHint strips characters that are meaningful to os.CreateTemp
// patterns or path construction from a temp file name hint.
func sanitizeHint(hint string) string {
	hint = filepath.Base(hint)

	return strings.Map(func(r rune) rune {
		switch r {
		case '*', '/', '\\':
			return '_'
		default:
			return r
		}
	}, hint)
}

type localFile struct {
	*os.File
	path fsconn.Path
}

var _ fsconn.File = (*localFile)(nil)

func (f *localFile) Path() fsconn.Path { return f.path }
