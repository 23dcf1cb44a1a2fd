package httpsconn

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hairyhenderson/go-fsconn"
)

// DefaultPort is the port assumed when a URL or server address does not
// specify one.
const DefaultPort = 443

// Endpoint identifies a remote HTTPS target as an immutable (host, port)
// pair.
type Endpoint struct {
	host string
	port int
}

// NewEndpoint validates host and port and returns an Endpoint. The host
// must be non-empty and the port positive.
func NewEndpoint(host string, port int) (Endpoint, error) {
	if host == "" {
		return Endpoint{}, errors.New("httpsconn: host must not be empty")
	}

	if port <= 0 {
		return Endpoint{}, fmt.Errorf("httpsconn: invalid port %d", port)
	}

	return Endpoint{host: host, port: port}, nil
}

func (e Endpoint) Host() string { return e.host }
func (e Endpoint) Port() int    { return e.port }

// String returns the canonical "host:port" identity of the endpoint.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.host, e.port)
}

// URL builds the request URL for the given remote path. The default port is
// elided, so servers sensitive to an explicit ":443" in the Host header see
// the bare host form.
func (e Endpoint) URL(path string) string {
	if e.port == DefaultPort {
		return fmt.Sprintf("https://%s%s", e.host, path)
	}

	return fmt.Sprintf("https://%s:%d%s", e.host, e.port, path)
}

// ParseURL splits an HTTPS URL into host, port, path and query. A URL
// without a scheme separator is assumed to be https. The URL must not carry
// a non-https scheme, embedded user-info (credentials in URLs are not
// supported), a fragment, or semicolon path parameters; violations return a
// *fsconn.MalformedURLError. The port defaults to 443 when absent.
func ParseURL(raw string) (host string, port int, path, query string, err error) {
	s := raw
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", 0, "", "", &fsconn.MalformedURLError{URL: raw, Reason: err.Error()}
	}

	if !strings.EqualFold(u.Scheme, "https") {
		return "", 0, "", "", &fsconn.MalformedURLError{URL: raw, Reason: "scheme must be https"}
	}

	if u.User != nil {
		return "", 0, "", "", &fsconn.MalformedURLError{URL: raw, Reason: "embedded credentials not supported"}
	}

	if u.Fragment != "" {
		return "", 0, "", "", &fsconn.MalformedURLError{URL: raw, Reason: "fragments not supported"}
	}

	if strings.Contains(u.Path, ";") {
		return "", 0, "", "", &fsconn.MalformedURLError{URL: raw, Reason: "path parameters not supported"}
	}

	host, port, err = splitHostPort(u.Host, DefaultPort)
	if err != nil {
		return "", 0, "", "", &fsconn.MalformedURLError{URL: raw, Reason: err.Error()}
	}

	return host, port, u.Path, u.RawQuery, nil
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
