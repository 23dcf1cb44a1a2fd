package fsconn

import (
	"fmt"
	"os"
	"strings"
)

// WritebackFunc uploads the staged local copy at localPath to the remote
// path. It is invoked exactly once, when the proxy file it is attached to
// is closed.
type WritebackFunc func(localPath string, remote Path) error

// ProxyFile is a local temporary file standing in for a remote resource
// during an open/read/write session. Connections whose backend cannot
// expose files directly (such as HTTPS) stage the remote content into a
// temp file and return a ProxyFile bound to it.
//
// If the file was opened with a mode that allows writing, a write-back is
// attached: the first Close uploads the temp file's content to the remote
// path. Read-only handles have no write-back. Closing twice is a no-op.
//
// The temp file is owned by the handle for its lifetime and should be
// treated as ephemeral staging; it is not durable across process restarts.
type ProxyFile struct {
	tmp       *os.File
	writeback WritebackFunc
	remote    Path
	mode      string
	closed    bool
}

var _ File = (*ProxyFile)(nil)

// NewProxyFile opens the staged temp file at tmpPath with the given mode
// and returns a handle that proxies remote through it. writeback may be nil
// for read-only handles.
func NewProxyFile(remote Path, mode, tmpPath string, writeback WritebackFunc) (*ProxyFile, error) {
	flag, err := ModeFlag(mode)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(tmpPath, flag, 0o600)
	if err != nil {
		return nil, err
	}

	return &ProxyFile{
		tmp:       f,
		writeback: writeback,
		remote:    remote,
		mode:      mode,
	}, nil
}

// ModeFlag converts a file mode string ("r", "rb", "w", "a", "r+", ...)
// into os.OpenFile flags. The mode is matched case-insensitively.
func ModeFlag(mode string) (int, error) {
	switch strings.ToLower(mode) {
	case "r", "rb":
		return os.O_RDONLY, nil
	case "w", "wb":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "a", "ab":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "r+", "rb+", "r+b":
		return os.O_RDWR, nil
	case "w+", "wb+", "w+b":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a+", "ab+", "a+b":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	default:
		return 0, fmt.Errorf("invalid file mode %q", mode)
	}
}

func (pf *ProxyFile) Read(p []byte) (int, error)  { return pf.tmp.Read(p) }
func (pf *ProxyFile) Write(p []byte) (int, error) { return pf.tmp.Write(p) }

func (pf *ProxyFile) Seek(offset int64, whence int) (int64, error) {
	return pf.tmp.Seek(offset, whence)
}

// Close closes the temp file and, if a write-back is attached, uploads its
// content to the remote path. The write-back fires at most once; closing an
// already-closed handle returns nil.
func (pf *ProxyFile) Close() error {
	if pf.closed {
		return nil
	}

	pf.closed = true

	if err := pf.tmp.Close(); err != nil {
		return err
	}

	if pf.writeback != nil {
		return pf.writeback(pf.tmp.Name(), pf.remote)
	}

	return nil
}

// Path returns the remote path this handle proxies.
func (pf *ProxyFile) Path() Path { return pf.remote }

// Mode returns the mode the handle was opened with.
func (pf *ProxyFile) Mode() string { return pf.mode }

// TempPath returns the path of the local staging copy.
func (pf *ProxyFile) TempPath() string { return pf.tmp.Name() }
