package fsconn

import (
	"fmt"
	"net/url"
	"sort"
)

// Mux allows you to dynamically look up a registered connection type for a
// given URL. All connection types provided in this module can be
// registered, and additional ones can be registered given an implementation
// of Provider.
// Mux is itself a Provider, which provides the superset of all registered
// connection types.
type Mux map[string]func(*url.URL) (Path, error)

var _ Provider = (Mux)(nil)

// NewMux returns a Mux ready for use.
func NewMux() Mux {
	return Mux(map[string]func(*url.URL) (Path, error){})
}

// Add registers the given connection provider for its supported URL
// schemes. If any of its schemes are already registered, they will be
// overridden.
func (m Mux) Add(p Provider) {
	for _, scheme := range p.Schemes() {
		m[scheme] = p.New
	}
}

// Lookup returns a Path for the given URL, bound to a fresh (unopened)
// connection of the appropriate type. Use Add to register providers.
func (m Mux) Lookup(u string) (Path, error) {
	base, err := url.Parse(u)
	if err != nil {
		return Path{}, err
	}

	return m.New(base)
}

// Schemes - implements Provider
func (m Mux) Schemes() []string {
	schemes := make([]string, 0, len(m))
	for scheme := range m {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// New - implements Provider
func (m Mux) New(u *url.URL) (Path, error) {
	f, ok := m[u.Scheme]
	if !ok {
		return Path{}, fmt.Errorf("no connection type registered for scheme %q", u.Scheme)
	}

	return f(u)
}

// Provider provides connections for a set of defined schemes
type Provider interface {
	// Schemes returns the valid URL schemes for this connection type
	Schemes() []string

	// New returns a Path bound to a fresh connection for the given URL
	New(u *url.URL) (Path, error)
}

// ProviderFunc -
func ProviderFunc(f func(*url.URL) (Path, error), schemes ...string) Provider {
	return provider{f, schemes}
}

type provider struct {
	newFunc func(*url.URL) (Path, error)
	schemes []string
}

func (p provider) Schemes() []string {
	return p.schemes
}

func (p provider) New(u *url.URL) (Path, error) {
	return p.newFunc(u)
}
