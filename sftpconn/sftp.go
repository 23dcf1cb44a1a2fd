// Package sftpconn provides a file system connection over SFTP, suitable
// for use with the 'sftp' URL scheme.
//
// Unlike HTTPS, SFTP is a genuinely stateful protocol: Open dials the SSH
// and SFTP clients and Close tears them down. Directories are real, so the
// full connection surface is supported.
package sftpconn

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// DefaultPort is the port assumed when a URL or server address does not
// specify one.
const DefaultPort = 22

// DefaultConnectTimeout bounds the SSH dial.
const DefaultConnectTimeout = 10 * time.Second

// Connector stores the SFTP connection information for a single remote
// target and may produce many Connections.
type Connector struct {
	logger     *logrus.Logger
	host       string
	username   string
	password   string
	initialDir string
	timeout    time.Duration
	port       int
}

var _ fsconn.Connector = (*Connector)(nil)

// New creates a Connector for server, which takes the form "host[:port]".
// The port defaults to 22 when absent.
func New(server, username, password string, opts ...Option) (*Connector, error) {
	host, port, err := splitHostPort(server, DefaultPort)
	if err != nil {
		return nil, &fsconn.MalformedURLError{URL: server, Reason: err.Error()}
	}

	if host == "" {
		return nil, &fsconn.MalformedURLError{URL: server, Reason: "host must not be empty"}
	}

	c := &Connector{
		logger:   logrus.StandardLogger(),
		host:     host,
		port:     port,
		username: username,
		password: password,
		timeout:  DefaultConnectTimeout,
	}

	for _, opt := range opts {
		opt.apply(c)
	}

	return c, nil
}

// FromURL loads a Path from an SFTP URL of the form
// "sftp://user@host[:port]/path", bound to a fresh (unopened) connection.
// A user in the URL is allowed; a password is not - passwords must be
// supplied with WithPassword.
func FromURL(raw string, opts ...Option) (fsconn.Path, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return fsconn.Path{}, &fsconn.MalformedURLError{URL: raw, Reason: err.Error()}
	}

	if u.Scheme != "sftp" {
		return fsconn.Path{}, &fsconn.MalformedURLError{URL: raw, Reason: "scheme must be sftp"}
	}

	if _, set := u.User.Password(); set {
		return fsconn.Path{}, &fsconn.MalformedURLError{URL: raw, Reason: "passwords in URLs not supported"}
	}

	c, err := New(u.Host, u.User.Username(), "", opts...)
	if err != nil {
		return fsconn.Path{}, err
	}

	return fsconn.NewPath(u.Path, c.connect()), nil
}

// Provider is used to register this connection type with a fsconn.Mux
//
//nolint:gochecknoglobals
var Provider = fsconn.ProviderFunc(func(u *url.URL) (fsconn.Path, error) {
	return FromURL(u.String())
}, "sftp")

// Host returns the DNS name or IP address of the remote server.
func (c *Connector) Host() string { return c.host }

// Port returns the remote server's port.
func (c *Connector) Port() int { return c.port }

// String returns the canonical "user@host:port" identity of the target.
func (c *Connector) String() string {
	return fmt.Sprintf("%s@%s:%d", c.username, c.host, c.port)
}

// Connect creates a new connection and returns it. The connection is not
// opened (no dial happens); call Open on it before use.
func (c *Connector) Connect() fsconn.Connection {
	return c.connect()
}

func (c *Connector) connect() *Conn {
	return &Conn{connector: c, cwd: c.initialDir}
}

// Option configures a Connector.
type Option interface {
	apply(*Connector)
}

type optionFunc func(*Connector)

func (o optionFunc) apply(c *Connector) { o(c) }

// WithInitialDir sets the current directory connections start out in. If
// none is set, connections start in the server-reported working directory.
func WithInitialDir(dir string) Option {
	return optionFunc(func(c *Connector) {
		c.initialDir = dir
	})
}

// WithPassword sets the password used for SSH password authentication.
func WithPassword(password string) Option {
	return optionFunc(func(c *Connector) {
		c.password = password
	})
}

// WithConnectTimeout bounds the SSH dial.
func WithConnectTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *Connector) {
		if timeout > 0 {
			c.timeout = timeout
		}
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

// Conn is a stateful SFTP connection. Open dials, Close hangs up; a closed
// connection may be reopened.
type Conn struct {
	connector *Connector
	sshClient *ssh.Client
	client    *sftp.Client
	cwd       string
}

var _ fsconn.Connection = (*Conn)(nil)

// Connector returns the connector this connection was created by.
func (c *Conn) Connector() *Connector { return c.connector }

// URL returns the base URL of the endpoint this connection targets.
func (c *Conn) URL() string {
	return fmt.Sprintf("sftp://%s:%d", c.connector.host, c.connector.port)
}

// Open dials the SSH and SFTP clients. Opening an already-open connection
// is a programmer error and panics.
func (c *Conn) Open() error {
	if c.IsOpen() {
		panic("sftpconn: Open called on an already-open connection")
	}

	cfg := &ssh.ClientConfig{
		User: c.connector.username,
		Auth: []ssh.AuthMethod{
			ssh.Password(c.connector.password),
		},
		// TODO: host key verification via a known_hosts option
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.connector.timeout,
	}

	addr := fmt.Sprintf("%s:%d", c.connector.host, c.connector.port)

	sshClient, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()

		return fmt.Errorf("starting sftp subsystem: %w", err)
	}

	c.sshClient = sshClient
	c.client = client

	if c.cwd == "" {
		cwd, err := client.Getwd()
		if err != nil {
			_ = c.Close()

			return err
		}

		c.cwd = cwd
	}

	return nil
}

// Close hangs up the SFTP and SSH clients. Closing an already-closed
// connection is not an error; it logs a warning and leaves the connection
// closed.
func (c *Conn) Close() error {
	if !c.IsOpen() {
		c.connector.logger.Warn("double-closing SFTP connection")

		return nil
	}

	err := c.client.Close()
	if serr := c.sshClient.Close(); err == nil {
		err = serr
	}

	c.client = nil
	c.sshClient = nil

	return err
}

// IsOpen reports whether the connection is open.
func (c *Conn) IsOpen() bool { return c.client != nil }

// Getwd returns the current working directory of this connection.
func (c *Conn) Getwd() (fsconn.Path, error) {
	return fsconn.NewPath(c.cwd, c), nil
}

// Chdir sets the current working directory of this connection. The target
// must be an existing remote directory.
func (c *Conn) Chdir(path fsconn.Path) error {
	c.mustBeOpen("Chdir")

	if !c.IsDir(path) {
		return fmt.Errorf("not a directory: %s", path)
	}

	c.cwd = path.String()

	return nil
}

func (c *Conn) Name(p fsconn.Path) string {
	return path.Base(p.String())
}

func (c *Conn) Dir(p fsconn.Path) (fsconn.Path, bool) {
	dir := path.Dir(p.String())
	if dir == p.String() {
		return fsconn.Path{}, false
	}

	return fsconn.NewPath(dir, c), true
}

func (c *Conn) Join(elems ...string) fsconn.Path {
	return fsconn.NewPath(path.Join(elems...), c)
}

func (c *Conn) IsFile(p fsconn.Path) (bool, error) {
	c.mustBeOpen("IsFile")

	fi, err := c.client.Stat(p.String())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return !fi.IsDir(), nil
}

func (c *Conn) IsDir(p fsconn.Path) bool {
	c.mustBeOpen("IsDir")

	fi, err := c.client.Stat(p.String())

	return err == nil && fi.IsDir()
}

// Remove deletes the file or empty directory at p.
func (c *Conn) Remove(p fsconn.Path) error {
	c.mustBeOpen("Remove")

	if c.IsDir(p) {
		return c.client.RemoveDirectory(p.String())
	}

	return c.client.Remove(p.String())
}

// List returns the entries of the directory at p whose names match the
// glob pattern. An empty pattern matches everything.
func (c *Conn) List(p fsconn.Path, pattern string) ([]fsconn.Path, error) {
	c.mustBeOpen("List")

	entries, err := c.client.ReadDir(p.String())
	if err != nil {
		return nil, err
	}

	if pattern == "" {
		pattern = "*"
	}

	paths := make([]fsconn.Path, 0, len(entries))

	for _, entry := range entries {
		ok, err := path.Match(pattern, entry.Name())
		if err != nil {
			return nil, err
		}

		if ok {
			paths = append(paths, c.Join(p.String(), entry.Name()))
		}
	}

	return paths, nil
}

func (c *Conn) Size(p fsconn.Path) (int64, error) {
	c.mustBeOpen("Size")

	fi, err := c.client.Stat(p.String())
	if err != nil {
		return 0, err
	}

	return fi.Size(), nil
}

func (c *Conn) ModifiedTime(p fsconn.Path) (time.Time, error) {
	c.mustBeOpen("ModifiedTime")

	fi, err := c.client.Stat(p.String())
	if err != nil {
		return time.Time{}, err
	}

	return fi.ModTime(), nil
}

func (c *Conn) MakeDir(p fsconn.Path) error {
	c.mustBeOpen("MakeDir")

	return c.client.MkdirAll(p.String())
}

func (c *Conn) Rename(p fsconn.Path, newName string) error {
	c.mustBeOpen("Rename")

	return c.client.Rename(p.String(), path.Join(path.Dir(p.String()), newName))
}

// OpenFile opens the remote file at p directly; SFTP supports remote file
// handles, so no proxy staging is needed.
func (c *Conn) OpenFile(p fsconn.Path, mode string) (fsconn.File, error) {
	c.mustBeOpen("OpenFile")

	flag, err := fsconn.ModeFlag(mode)
	if err != nil {
		return nil, err
	}

	f, err := c.client.OpenFile(p.String(), flag)
	if err != nil {
		return nil, err
	}

	return &sftpFile{File: f, path: fsconn.NewPath(p.String(), c)}, nil
}

func (c *Conn) mustBeOpen(op string) {
	if !c.IsOpen() {
		panic("sftpconn: " + op + " called on a closed connection")
	}
}

// splitHostPort splits "host[:port]", applying def when no port is present.
func splitHostPort(s string, def int) (string, int, error) {
	host, portStr, found := strings.Cut(s, ":")
	if !found {
		return host, def, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}

	return host, port, nil
}

type sftpFile struct {
	*sftp.File
	path fsconn.Path
}

var _ fsconn.File = (*sftpFile)(nil)

func (f *sftpFile) Path() fsconn.Path { return f.path }
