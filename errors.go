package fsconn

import (
	"errors"
	"fmt"
)

// MalformedURLError indicates a URL that cannot be used to address a
// connection: a disallowed scheme, embedded credentials, or URL components
// the backend does not support. It is returned at parse time and never
// retried.
type MalformedURLError struct {
	URL    string
	Reason string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed URL %q: %s", e.URL, e.Reason)
}

// UnsupportedError indicates an operation that is structurally meaningless
// for the connection type it was invoked on, such as listing a directory
// over HTTPS. It unwraps to errors.ErrUnsupported.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operation %q not supported by this connection type", e.Op)
}

func (e *UnsupportedError) Unwrap() error { return errors.ErrUnsupported }

// RemoteOpError indicates a remote call that completed with a failure
// status. The status code is carried so callers can distinguish "not found"
// from "permission denied" from "server error"; this package does not
// branch on it beyond success/failure.
type RemoteOpError struct {
	Op         string
	URL        string
	Status     string
	StatusCode int
}

func (e *RemoteOpError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d", e.Op, e.URL, e.StatusCode)
}
