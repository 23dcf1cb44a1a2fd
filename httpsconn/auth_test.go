package httpsconn

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAuth(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	require.NoError(t, err)

	require.NoError(t, BasicAuth("user", "pass").Authenticate(req))

	user, pass, ok := req.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}

func TestTokenAuth(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	require.NoError(t, err)

	require.NoError(t, TokenAuth("s3cr3t").Authenticate(req))
	assert.Equal(t, "Bearer s3cr3t", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("X-Api-Key", "abc123")
	headers.Add("X-Extra", "one")
	headers.Add("X-Extra", "two")

	require.NoError(t, HeaderAuth(headers).Authenticate(req))
	assert.Equal(t, "abc123", req.Header.Get("X-Api-Key"))
	assert.Equal(t, []string{"one", "two"}, req.Header.Values("X-Extra"))
}
