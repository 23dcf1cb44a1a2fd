package httpsconn

import "net/http"

// Authenticator applies credentials to an outgoing request. Connectors have
// no authenticator by default; since URL-embedded credentials are rejected
// at parse time, this hook is the only way to attach credentials to a
// connection.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// BasicAuth returns an Authenticator that sets HTTP basic auth on every
// request.
func BasicAuth(username, password string) Authenticator {
	return authFunc(func(req *http.Request) error {
		req.SetBasicAuth(username, password)

		return nil
	})
}

// TokenAuth returns an Authenticator that sends token as a bearer token.
func TokenAuth(token string) Authenticator {
	return authFunc(func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)

		return nil
	})
}

// HeaderAuth returns an Authenticator that adds the given headers to every
// request.
func HeaderAuth(headers http.Header) Authenticator {
	return authFunc(func(req *http.Request) error {
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		return nil
	})
}

type authFunc func(*http.Request) error

func (f authFunc) Authenticate(req *http.Request) error { return f(req) }
