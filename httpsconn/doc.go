// Package httpsconn provides a file system connection for HTTPS endpoints.
// This connection type is suitable for use with the 'https' URL scheme.
//
// HTTPS is stateless and has no directory concept, so the connection's
// open/close lifecycle and current directory are pure client-side
// bookkeeping: Open and Close perform no network I/O themselves. Reads are
// made with the GET method, uploads with PUT, and removal with DELETE.
// Directory-oriented operations (List, MakeDir, Rename, Size,
// ModifiedTime) are structurally meaningless here and always fail with
// fsconn.UnsupportedError rather than being approximated.
//
// Files are opened through a local staging copy: OpenFile downloads the
// resource into a temp file (unless the mode truncates) and returns a
// fsconn.ProxyFile that uploads the content back on close when the mode
// allows writing.
//
// Credentials embedded in URLs are rejected. To authenticate, attach an
// Authenticator to the connector with WithAuthenticator.
package httpsconn
