package traceconn

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const (
	typeKey    = attribute.Key("conn.type")
	pathKey    = attribute.Key("conn.path")
	baseURLKey = attribute.Key("conn.base_url")
	patternKey = attribute.Key("conn.pattern")

	direntKey  = attribute.Key("dir.entries")
	sizeKey    = attribute.Key("file.size")
	modeKey    = attribute.Key("file.mode")
	modTimeKey = attribute.Key("file.modtime")

	bytesReadKey    = attribute.Key("file.bytes_read")
	bytesWrittenKey = attribute.Key("file.bytes_written")
)

// The type of connection being operated on.
//
// Type: string
// Required: No
// Examples: "httpsconn", "sftpconn", "localconn"
func Type(name string) attribute.KeyValue {
	return typeKey.String(name)
}

// The path being operated on.
//
// Type: string
// Required: Yes
// Examples: "/README.md", "/example/directory/foo.txt"
func Path(name string) attribute.KeyValue {
	return pathKey.String(name)
}

// The base URL of the connection's endpoint.
//
// Type: string
// Required: No
// Examples: "https://example.com", "sftp://example.com:22"
func BaseURL(url string) attribute.KeyValue {
	return baseURLKey.String(url)
}

// The pattern used (by List) to match files.
//
// Type: string
// Required: No
// Examples: "*.txt", "foo*"
func Pattern(pattern string) attribute.KeyValue {
	return patternKey.String(pattern)
}

// The number of entries in a directory.
//
// Type: int
// Required: No
// Examples: 3, 0
func DirEntries(n int) attribute.KeyValue {
	return direntKey.Int(n)
}

// The size of a file.
//
// Type: int64
// Required: No
// Examples: 1024, 0
func FileSize(n int64) attribute.KeyValue {
	return sizeKey.Int64(n)
}

// The mode a file was opened with.
//
// Type: string
// Required: No
// Examples: "rb", "w"
func FileMode(mode string) attribute.KeyValue {
	return modeKey.String(mode)
}

// The modification time of a file.
//
// Type: time.Time
// Required: No
// Examples: "2021-08-21T11:10:00Z", "2021-08-21T11:10:00-07:00"
func FileModTime(t time.Time) attribute.KeyValue {
	return modTimeKey.String(t.Format(time.RFC3339))
}

// The number of bytes read from a file during a Read operation.
//
// Type: int
// Required: No
// Examples: 1024, 0
func FileBytesRead(n int) attribute.KeyValue {
	return bytesReadKey.Int(n)
}

// The number of bytes written to a file during a Write operation.
//
// Type: int
// Required: No
// Examples: 1024, 0
func FileBytesWritten(n int) attribute.KeyValue {
	return bytesWrittenKey.Int(n)
}
