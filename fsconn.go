package fsconn

import (
	"io"
	"time"
)

// Connection is a stateful session with a file-system-like backend. A
// Connection starts out closed; Open transitions it into its usable state
// and Close retires it. A closed connection may be reopened.
//
// Calling an operation that requires an open connection while it is closed,
// or calling Open on an already-open connection, is a programmer error and
// panics. Close is the one lifecycle method that is safe to call in any
// state: double-closing only emits a warning.
//
// A single Connection is not safe for concurrent use; callers needing
// concurrent access to the same backend should create separate Connections
// from the same Connector.
type Connection interface {
	// Open transitions the connection into its usable state. Depending on
	// the backend this may or may not perform network I/O.
	Open() error

	// Close retires the connection. Closing an already-closed connection is
	// not an error.
	Close() error

	// IsOpen reports whether the connection is currently open.
	IsOpen() bool

	// Getwd returns the connection's current directory.
	Getwd() (Path, error)

	// Chdir sets the connection's current directory.
	Chdir(path Path) error

	// Name returns the final path segment of path.
	Name(path Path) string

	// Dir returns the parent of path. ok is false when path has no parent
	// (it is already at the root).
	Dir(path Path) (p Path, ok bool)

	// Join joins path segments into a single Path bound to this connection,
	// using the connection's path rules.
	Join(elems ...string) Path

	// IsFile reports whether path refers to an existing file.
	IsFile(path Path) (bool, error)

	// IsDir reports whether path refers to an existing directory.
	IsDir(path Path) bool

	// Remove deletes the file (or, where supported, empty directory) at
	// path.
	Remove(path Path) error

	// List returns the entries of the directory at path whose names match
	// the glob pattern. An empty pattern matches everything.
	List(path Path, pattern string) ([]Path, error)

	// Size returns the size of the file at path, in bytes.
	Size(path Path) (int64, error)

	// ModifiedTime returns the time the file at path was last modified.
	ModifiedTime(path Path) (time.Time, error)

	// MakeDir creates a directory at path, including missing parents.
	MakeDir(path Path) error

	// Rename gives the file at path the new name newName, within its parent
	// directory.
	Rename(path Path, newName string) error

	// OpenFile opens the file at path. Modes follow the usual "r", "rb",
	// "w", "wb", "a", "r+" (etc.) convention and are case-insensitive.
	OpenFile(path Path, mode string) (File, error)
}

// Connector produces Connections for a single logical target. Connectors
// are cheap, immutable and safe to share; connecting does not open the
// returned Connection.
type Connector interface {
	Connect() Connection
}

// File is an open file handle bound to a Path. Handles opened read-only
// return an error from Write.
type File interface {
	io.Reader
	io.Writer
	io.Closer

	// Path returns the path the file was opened from.
	Path() Path
}
