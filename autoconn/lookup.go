// Package autoconn provides the ability to look up all connection types
// supported by this module. Using this package will compile a number of
// dependencies into the resulting binary, so unless you need to support all
// supported connection types, use fsconn.NewMux instead.
package autoconn

import (
	"net/url"
	"sync"

	"github.com/hairyhenderson/go-fsconn"
	"github.com/hairyhenderson/go-fsconn/httpsconn"
	"github.com/hairyhenderson/go-fsconn/localconn"
	"github.com/hairyhenderson/go-fsconn/sftpconn"
)

// Lookup returns a Path bound to an appropriate (unopened) connection for
// the given URL. If a connection type can't be found for the provided URL's
// scheme, an error will be returned.
func Lookup(u string) (fsconn.Path, error) {
	return initMux().Lookup(u)
}

// Conn is used to register all connection types with a fsconn.Mux
//
//nolint:gochecknoglobals
var Conn = &autoConn{}

type autoConn struct{}

var _ fsconn.Provider = (*autoConn)(nil)

func (c *autoConn) Schemes() []string {
	return initMux().Schemes()
}

func (c *autoConn) New(u *url.URL) (fsconn.Path, error) {
	return initMux().New(u)
}

func initMux() fsconn.Mux {
	return sync.OnceValue(func() fsconn.Mux {
		mux := fsconn.NewMux()
		mux.Add(httpsconn.Provider)
		mux.Add(localconn.Provider)
		mux.Add(sftpconn.Provider)

		return mux
	})()
}
