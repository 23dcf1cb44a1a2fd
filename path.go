package fsconn

// Path is a path string bound to the Connection that owns it. The zero Path
// is empty and unbound. The connection reference is a back-reference used
// for dispatch only; a Path does not keep its connection open.
type Path struct {
	path string
	conn Connection
}

// NewPath returns a Path for the given string, bound to conn.
func NewPath(path string, conn Connection) Path {
	return Path{path: path, conn: conn}
}

func (p Path) String() string { return p.path }

// Connection returns the connection this path is bound to, or nil for an
// unbound path.
func (p Path) Connection() Connection { return p.conn }

// Equal reports whether p and other have the same path string and are bound
// to the same connection.
func (p Path) Equal(other Path) bool {
	return p.path == other.path && p.conn == other.conn
}

// Name returns the final path segment, using the owning connection's rules.
func (p Path) Name() string {
	if p.conn == nil {
		return ""
	}

	return p.conn.Name(p)
}

// Dir returns the parent path. ok is false when p has no parent or is
// unbound.
func (p Path) Dir() (parent Path, ok bool) {
	if p.conn == nil {
		return Path{}, false
	}

	return p.conn.Dir(p)
}

// Join appends segments to p, using the owning connection's joining rules.
func (p Path) Join(elems ...string) Path {
	if p.conn == nil {
		return p
	}

	return p.conn.Join(append([]string{p.path}, elems...)...)
}
