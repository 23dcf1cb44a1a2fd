package httpsconn

import (
	"strings"
	"testing"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("Server: example.com\nPort: 8443\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{Server: "example.com", Port: 8443}, cfg)

	cfg, err = LoadConfig(strings.NewReader("Server: example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{Server: "example.com"}, cfg)

	_, err = LoadConfig(strings.NewReader("{invalid yaml"))
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	_, err := FromConfig(Config{})
	require.Error(t, err)

	c, err := FromConfig(Config{Server: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "example.com", c.Server())
	assert.Equal(t, DefaultPort, c.Port())

	c, err = FromConfig(Config{Server: "example.com", Port: 8443})
	require.NoError(t, err)
	assert.Equal(t, "example.com", c.Server())
	assert.Equal(t, 8443, c.Port())
}

func TestNew(t *testing.T) {
	c, err := New("example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", c.Server())
	assert.Equal(t, DefaultPort, c.Port())
	assert.Equal(t, "httpsconn://example.com", c.String())

	c, err = New("example.com:8443")
	require.NoError(t, err)
	assert.Equal(t, 8443, c.Port())
	assert.Equal(t, "httpsconn://example.com:8443", c.String())

	_, err = New("example.com:bogus")
	assert.Error(t, err)

	_, err = New("")
	assert.Error(t, err)
}

func TestFromURL(t *testing.T) {
	p, err := FromURL("https://example.com/a/b.txt?version=2")
	require.NoError(t, err)
	assert.Equal(t, "/a/b.txt?version=2", p.String())

	conn, ok := p.Connection().(*Conn)
	require.True(t, ok)
	assert.False(t, conn.IsOpen())
	assert.Equal(t, "example.com", conn.Connector().Server())
	assert.Equal(t, DefaultPort, conn.Connector().Port())

	// the "?" separator is kept even for an empty query, so the path
	// round-trips through the URL builder unchanged
	p, err = FromURL("https://example.com:8443/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "/a/b.txt?", p.String())

	conn = p.Connection().(*Conn)
	assert.Equal(t, 8443, conn.Connector().Port())

	_, err = FromURL("http://example.com/insecure")
	assert.Error(t, err)
}

func TestProvider(t *testing.T) {
	mux := fsconn.NewMux()
	mux.Add(Provider)

	assert.Equal(t, []string{"https"}, mux.Schemes())

	p, err := mux.Lookup("https://example.com/some/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "/some/file.txt?", p.String())

	_, ok := p.Connection().(*Conn)
	assert.True(t, ok)
}
