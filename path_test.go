package fsconn

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathString(t *testing.T) {
	p := NewPath("/some/path", nil)
	assert.Equal(t, "/some/path", p.String())
	assert.Nil(t, p.Connection())
}

func TestPathEqual(t *testing.T) {
	assert.True(t, NewPath("/a", nil).Equal(NewPath("/a", nil)))
	assert.False(t, NewPath("/a", nil).Equal(NewPath("/b", nil)))
}

func TestPathDelegation(t *testing.T) {
	// a nil connection means no path algebra is available
	p := NewPath("/a/b", nil)

	assert.Empty(t, p.Name())

	_, ok := p.Dir()
	assert.False(t, ok)

	joined := p.Join("c")
	assert.True(t, joined.Equal(p))
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()

	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}

	return u
}
