package httpsconn

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/hairyhenderson/go-fsconn/localconn"
	"github.com/sirupsen/logrus"
)

// Conn manages the state for a connection to an HTTPS server, providing a
// standardized interface for interacting with remote files.
//
// The Closed/Open lifecycle and the current directory are client-side
// bookkeeping only: HTTPS has no session or working-directory concept, so
// Open and Close perform no network I/O. A closed connection may be
// reopened.
type Conn struct {
	connector *Connector
	cwd       string
	isOpen    bool
}

var _ fsconn.Connection = (*Conn)(nil)

// Connector returns the connector this connection was created by.
func (c *Conn) Connector() *Connector { return c.connector }

// URL returns the base URL of the endpoint this connection targets.
func (c *Conn) URL() string { return c.connector.endpoint.URL("") }

// Open opens the connection. Opening an already-open connection is a
// programmer error and panics.
func (c *Conn) Open() error {
	if c.isOpen {
		panic("httpsconn: Open called on an already-open connection")
	}

	cwd := c.cwd
	c.isOpen = true

	if cwd == "" {
		// Forces the working directory to be refreshed. There is no remote
		// working directory to query for HTTPS, but sibling connection types
		// resolve relative paths through this hook.
		_, _ = c.Getwd()
	} else {
		// Re-applies the directory recorded before the connection was
		// opened (or from the connector's initial directory).
		_ = c.Chdir(fsconn.NewPath(cwd, c))
	}

	return nil
}

// Close closes the connection. Closing an already-closed connection is not
// an error; it logs a warning and leaves the connection closed.
func (c *Conn) Close() error {
	if !c.isOpen {
		c.connector.logger.Warn("double-closing HTTPS connection")
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

// Chdir sets the current working directory of this connection. The
// directory is not validated remotely: this connection type has no real
// directories.
func (c *Conn) Chdir(path fsconn.Path) error {
	c.mustBeOpen("Chdir")

	c.cwd = path.String()

	return nil
}

// Name returns the final path segment, ignoring any query string.
func (c *Conn) Name(path fsconn.Path) string {
	raw := stripQuery(path.String())
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		return raw[i+1:]
	}

	return raw
}

// Dir returns the parent of path, ignoring any query string. ok is false
// when path has no parent (it is already at the root).
func (c *Conn) Dir(path fsconn.Path) (fsconn.Path, bool) {
	raw := stripQuery(path.String())

	dir := dirname(raw)
	if dir == raw {
		return fsconn.Path{}, false
	}

	return fsconn.NewPath(dir, c), true
}

// Join joins path segments with "/". Leading and trailing slashes are
// stripped from each segment individually; a leading slash on the first
// segment is preserved exactly once. Joining no segments returns an empty
// Path bound to this connection.
func (c *Conn) Join(elems ...string) fsconn.Path {
	if len(elems) == 0 {
		return fsconn.NewPath("", c)
	}

	parts := make([]string, 0, len(elems)+1)
	if strings.HasPrefix(elems[0], "/") {
		parts = append(parts, "")
	}

	for _, elem := range elems {
		parts = append(parts, strings.Trim(elem, `/\`))
	}

	return fsconn.NewPath(strings.Join(parts, "/"), c)
}

// IsFile reports whether path refers to an existing resource. The probe is
// a full GET, not a HEAD: the response body is transferred (and discarded),
// since some servers answer the two methods differently.
func (c *Conn) IsFile(path fsconn.Path) (bool, error) {
	resp, err := c.do(http.MethodGet, c.url(path), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode < 400, nil
}

// IsDir always reports false: this connection type has no directory
// concept.
func (c *Conn) IsDir(_ fsconn.Path) bool { return false }

// Remove deletes the resource at path with a DELETE request.
func (c *Conn) Remove(path fsconn.Path) error {
	c.mustBeOpen("Remove")

	if c.IsDir(path) {
		// Unreachable for HTTPS, but directory removal must route to the
		// unsupported-operation path rather than issue a DELETE.
		return &fsconn.UnsupportedError{Op: "remove directory"}
	}

	u := c.url(path)

	resp, err := c.do(http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &fsconn.RemoteOpError{Op: "delete", URL: u, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// List fails: listing is structurally meaningless for a flat HTTPS
// resource addressing model.
func (c *Conn) List(_ fsconn.Path, _ string) ([]fsconn.Path, error) {
	return nil, &fsconn.UnsupportedError{Op: "list"}
}

// Size fails: HTTPS resources are not stat-able through this connection
// type.
func (c *Conn) Size(_ fsconn.Path) (int64, error) {
	return 0, &fsconn.UnsupportedError{Op: "size"}
}

// ModifiedTime fails: HTTPS resources are not stat-able through this
// connection type.
func (c *Conn) ModifiedTime(_ fsconn.Path) (time.Time, error) {
	return time.Time{}, &fsconn.UnsupportedError{Op: "modified time"}
}

// MakeDir fails: this connection type has no directory concept.
func (c *Conn) MakeDir(_ fsconn.Path) error {
	return &fsconn.UnsupportedError{Op: "make dir"}
}

// Rename fails: HTTPS has no rename semantics.
func (c *Conn) Rename(_ fsconn.Path, _ string) error {
	return &fsconn.UnsupportedError{Op: "rename"}
}

// OpenFile opens the resource at path through a local staging copy. Unless
// the mode truncates ("w"/"wb"), the remote content is downloaded into the
// temp file first. Unless the mode is read-only ("r"/"rb"), a write-back is
// attached that uploads the temp file's content to path when the returned
// handle is closed.
func (c *Conn) OpenFile(path fsconn.Path, mode string) (fsconn.File, error) {
	c.mustBeOpen("OpenFile")

	mode = strings.ToLower(mode)

	// We can't work directly with an HTTPS file. Stage a local temp copy
	// and return a proxy bound to it.
	tmpPath, err := localconn.TempFilePath(c.Name(path))
	if err != nil {
		return nil, err
	}

	if mode != "w" && mode != "wb" {
		if err := c.Download(path, tmpPath); err != nil {
			return nil, err
		}
	}

	var writeback fsconn.WritebackFunc
	if mode != "r" && mode != "rb" {
		writeback = c.upload
	}

	return fsconn.NewProxyFile(fsconn.NewPath(path.String(), c), mode, tmpPath, writeback)
}

// Download copies the remote resource at remote into the local file at
// localPath, truncating it. The response status is checked before anything
// is written.
func (c *Conn) Download(remote fsconn.Path, localPath string) error {
	c.mustBeOpen("Download")

	u := c.url(remote)

	c.connector.logger.WithFields(logrus.Fields{"url": u, "local": localPath}).
		Debug("downloading remote resource")

	resp, err := c.do(http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &fsconn.RemoteOpError{Op: "get", URL: u, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// Upload copies the content of a local file to the remote path with a PUT
// request. src must be a Path on a local-filesystem connection: upload
// sources are required to be genuinely local.
func (c *Conn) Upload(src, remote fsconn.Path) error {
	localPath, err := fsconn.LocalPath(src)
	if err != nil {
		return err
	}

	return c.upload(localPath, remote)
}

// upload is the write-back implementation bound to proxy files opened for
// writing.
func (c *Conn) upload(localPath string, remote fsconn.Path) error {
	c.mustBeOpen("Upload")

	u := c.url(remote)

	c.connector.logger.WithFields(logrus.Fields{"url": u, "local": localPath}).
		Debug("uploading to remote resource")

	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	resp, err := c.do(http.MethodPut, u, f)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &fsconn.RemoteOpError{Op: "put", URL: u, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Conn) url(path fsconn.Path) string {
	return c.connector.endpoint.URL(path.String())
}

func (c *Conn) do(method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(c.connector.ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if c.connector.auth != nil {
		if err := c.connector.auth.Authenticate(req); err != nil {
			return nil, err
		}
	}

	return c.connector.client.Do(req)
}

func (c *Conn) mustBeOpen(op string) {
	if !c.isOpen {
		panic("httpsconn: " + op + " called on a closed connection")
	}
}

func stripQuery(s string) string {
	if i := strings.Index(s, "?"); i >= 0 {
		return s[:i]
	}

	return s
}

// dirname returns everything before the final slash, preserving a lone
// leading slash. It returns its input unchanged only for paths with no
// parent.
func dirname(s string) string {
	i := strings.LastIndex(s, "/")

	switch {
	case i < 0:
		return ""
	case i == 0:
		return "/"
	default:
		return s[:i]
	}
}
