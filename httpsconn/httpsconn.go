package httpsconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Connector stores the HTTPS connection information as a single object
// which can then be passed around instead of using multiple parameters.
// One Connector identifies one remote target and may produce many
// Connections.
type Connector struct {
	ctx        context.Context
	client     *http.Client
	auth       Authenticator
	logger     *logrus.Logger
	endpoint   Endpoint
	initialDir string
}

var _ fsconn.Connector = (*Connector)(nil)

// New creates a Connector for server, which takes the form "host[:port]".
// The port defaults to 443 when absent; this constructor is the single
// source of truth for port splitting and defaulting.
func New(server string, opts ...Option) (*Connector, error) {
	host, port, err := splitHostPort(server, DefaultPort)
	if err != nil {
		return nil, &fsconn.MalformedURLError{URL: server, Reason: err.Error()}
	}

	endpoint, err := NewEndpoint(host, port)
	if err != nil {
		return nil, err
	}

	c := &Connector{
		ctx:      context.Background(),
		client:   http.DefaultClient,
		logger:   logrus.StandardLogger(),
		endpoint: endpoint,
	}

	for _, opt := range opts {
		opt.apply(c)
	}

	return c, nil
}

// FromURL loads a Path from an HTTPS URL, bound to a fresh (unopened)
// connection. The path and query are recombined as "path?query" - the "?"
// is kept even when the query is empty, for compatibility with callers that
// round-trip the path string.
func FromURL(raw string, opts ...Option) (fsconn.Path, error) {
	host, port, path, query, err := ParseURL(raw)
	if err != nil {
		return fsconn.Path{}, err
	}

	c, err := New(fmt.Sprintf("%s:%d", host, port), opts...)
	if err != nil {
		return fsconn.Path{}, err
	}

	return fsconn.NewPath(path+"?"+query, c.connect()), nil
}

// Provider is used to register this connection type with a fsconn.Mux
//
//nolint:gochecknoglobals
var Provider = fsconn.ProviderFunc(func(u *url.URL) (fsconn.Path, error) {
	return FromURL(u.String())
}, "https")

// Config is the configuration section for an HTTPS connector.
type Config struct {
	Server string `yaml:"Server"`
	Port   int    `yaml:"Port,omitempty"`
}

// LoadConfig decodes a yaml configuration section.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// FromConfig builds a Connector from a configuration section. Server is
// required; Port, when given, is recombined into "host:port" so that New's
// own splitting logic stays the single source of truth for defaulting.
func FromConfig(cfg Config, opts ...Option) (*Connector, error) {
	if cfg.Server == "" {
		return nil, errors.New("httpsconn: config option Server is required")
	}

	server := cfg.Server
	if cfg.Port != 0 {
		server = fmt.Sprintf("%s:%d", server, cfg.Port)
	}

	return New(server, opts...)
}

// Endpoint returns the endpoint this connector targets.
func (c *Connector) Endpoint() Endpoint { return c.endpoint }

// Server returns the DNS name or IP address of the remote server.
func (c *Connector) Server() string { return c.endpoint.Host() }

// Port returns the remote server's port.
func (c *Connector) Port() int { return c.endpoint.Port() }

func (c *Connector) String() string {
	if c.endpoint.Port() == DefaultPort {
		return "httpsconn://" + c.endpoint.Host()
	}

	return "httpsconn://" + c.endpoint.String()
}

// Connect creates a new connection and returns it. The connection is not
// opened; call Open on it before use.
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

// WithInitialDir sets the current directory connections start out in.
func WithInitialDir(dir string) Option {
	return optionFunc(func(c *Connector) {
		c.initialDir = dir
	})
}

// WithHTTPClient specifies a custom http.Client to issue requests with. If
// none is specified, http.DefaultClient is used.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(c *Connector) {
		if client != nil {
			c.client = client
		}
	})
}

// WithContext specifies the context used for all requests issued by
// connections of this connector.
func WithContext(ctx context.Context) Option {
	return optionFunc(func(c *Connector) {
		if ctx != nil {
			c.ctx = ctx
		}
	})
}

// WithAuthenticator attaches an authenticator applied to every outgoing
// request.
func WithAuthenticator(auth Authenticator) Option {
	return optionFunc(func(c *Connector) {
		c.auth = auth
	})
}

// WithLogger specifies the logger used for connection lifecycle warnings
// and debug logging. If none is specified, the logrus standard logger is
// used.
func WithLogger(logger *logrus.Logger) Option {
	return optionFunc(func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	})
}
