// Package fsconn provides a uniform, connection-oriented abstraction over
// file-system-like backends addressed by URL. Unlike an fs.FS, a Connection
// is stateful (it has an open/close lifecycle and a current directory) and
// writable: files may be created, uploaded and removed where the backend
// supports it.
//
// Backends that cannot expose files directly - such as HTTPS, where a
// "file" is just a resource behind a URL - stage a local temporary copy and
// hand back a ProxyFile whose content is written back to the remote side
// when the handle is closed.
//
// Connection implementations are provided in sub-packages (httpsconn,
// localconn, sftpconn) and can be registered with a Mux for lookup by URL
// scheme, or looked up through the autoconn package which registers them
// all.
package fsconn
