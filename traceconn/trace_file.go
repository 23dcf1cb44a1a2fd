package traceconn

import (
	"context"

	"github.com/hairyhenderson/go-fsconn"
	"go.opentelemetry.io/otel/trace"
)

// wrapFile wraps a fsconn.File so its reads, writes and close are traced.
// Close is the interesting one: for proxy-staged files it fires the deferred
// write-back, which is network I/O.
func wrapFile(ctx context.Context, f fsconn.File, conn fsconn.Connection, name string, tracer trace.Tracer) fsconn.File {
	return &traceFile{
		f: f,
		d: tracedelegate{ctx: ctx, conn: conn, tracer: tracer, name: name},
	}
}

type traceFile struct {
	f fsconn.File
	d tracedelegate
}

var _ fsconn.File = (*traceFile)(nil)

type tracedelegate struct {
	ctx    context.Context
	conn   fsconn.Connection
	tracer trace.Tracer
	name   string
}

func (d tracedelegate) close(f fsconn.File) error {
	_, span := d.tracer.Start(d.ctx, "file.Close", connattribs(d.conn, d.name))
	defer span.End()

	return recordError(span, f.Close())
}

func (d tracedelegate) read(f fsconn.File, p []byte) (int, error) {
	_, span := d.tracer.Start(d.ctx, "file.Read", connattribs(d.conn, d.name))
	defer span.End()

	n, err := f.Read(p)

	span.SetAttributes(FileBytesRead(n))

	return n, recordError(span, err)
}

func (d tracedelegate) write(f fsconn.File, p []byte) (int, error) {
	_, span := d.tracer.Start(d.ctx, "file.Write", connattribs(d.conn, d.name))
	defer span.End()

	n, err := f.Write(p)

	span.SetAttributes(FileBytesWritten(n))

	return n, recordError(span, err)
}

func (f *traceFile) Close() error                { return f.d.close(f.f) }
func (f *traceFile) Read(p []byte) (int, error)  { return f.d.read(f.f, p) }
func (f *traceFile) Write(p []byte) (int, error) { return f.d.write(f.f, p) }
func (f *traceFile) Path() fsconn.Path           { return f.f.Path() }
