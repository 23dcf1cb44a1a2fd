// Package traceconn instruments a file system connection for distributed
// tracing. The OpenTelemetry API is supported.
//
// This is not a connection type of its own, but rather a wrapper around an
// existing connection. As such, it does not register with a [fsconn.Mux].
//
// # Usage
//
// To use this package, call [New] with a base connection. All operations on
// the returned connection will be instrumented.
//
// In order to report traces, an OTel [trace.TracerProvider] must first be
// set up. The details of this are outside the scope of this module, but see
// the conncli example in this repository's examples directory for one
// approach.
//
// A [trace.TracerProvider] can optionally be passed to [New] using
// [WithTracerProvider].
package traceconn

import (
	"context"
	"fmt"
	"time"

	"github.com/hairyhenderson/go-fsconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type traceConn struct {
	ctx         context.Context
	conn        fsconn.Connection
	tracer      trace.Tracer
	propagators propagation.TextMapPropagator
}

const tracerName = "github.com/hairyhenderson/go-fsconn/traceconn"

// New returns a connection that instruments the given connection, adding
// trace spans for each operation that may touch the network. The given
// context is used as the parent of every span. Options can be provided to
// configure the behaviour of the instrumented connection.
func New(ctx context.Context, conn fsconn.Connection, opts ...Option) (fsconn.Connection, error) {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	if cfg.propagators == nil {
		cfg.propagators = otel.GetTextMapPropagator()
	}

	tconn := traceConn{
		ctx:         ctx,
		conn:        conn,
		tracer:      cfg.tp.Tracer(tracerName),
		propagators: cfg.propagators,
	}

	return &tconn, nil
}

type urlConn interface {
	URL() string
}

var _ fsconn.Connection = (*traceConn)(nil)

func connattribs(conn fsconn.Connection, path string) trace.SpanStartEventOption {
	if uc, ok := conn.(urlConn); ok {
		return trace.WithAttributes(
			Path(path),
			BaseURL(uc.URL()),
			Type(fmt.Sprintf("%T", conn)),
		)
	}

	return trace.WithAttributes(Path(path), Type(fmt.Sprintf("%T", conn)))
}

// base returns a rebound copy of p so the wrapped connection's path
// operations run against the underlying connection, not the wrapper.
func (c *traceConn) base(p fsconn.Path) fsconn.Path {
	return fsconn.NewPath(p.String(), c.conn)
}

// rewrap rebinds a path returned by the wrapped connection to the wrapper,
// so further operations on it stay instrumented.
func (c *traceConn) rewrap(p fsconn.Path) fsconn.Path {
	return fsconn.NewPath(p.String(), c)
}

func (c *traceConn) Open() error {
	_, span := c.tracer.Start(c.ctx, "conn.Open", connattribs(c.conn, ""))
	defer span.End()

	return recordError(span, c.conn.Open())
}

func (c *traceConn) Close() error {
	_, span := c.tracer.Start(c.ctx, "conn.Close", connattribs(c.conn, ""))
	defer span.End()

	return recordError(span, c.conn.Close())
}

func (c *traceConn) IsOpen() bool { return c.conn.IsOpen() }

func (c *traceConn) Getwd() (fsconn.Path, error) {
	p, err := c.conn.Getwd()

	return c.rewrap(p), err
}

func (c *traceConn) Chdir(path fsconn.Path) error {
	_, span := c.tracer.Start(c.ctx, "conn.Chdir", connattribs(c.conn, path.String()))
	defer span.End()

	return recordError(span, c.conn.Chdir(c.base(path)))
}

func (c *traceConn) Name(path fsconn.Path) string {
	return c.conn.Name(c.base(path))
}

func (c *traceConn) Dir(path fsconn.Path) (fsconn.Path, bool) {
	dir, ok := c.conn.Dir(c.base(path))
	if !ok {
		return fsconn.Path{}, false
	}

	return c.rewrap(dir), true
}

func (c *traceConn) Join(elems ...string) fsconn.Path {
	return c.rewrap(c.conn.Join(elems...))
}

func (c *traceConn) IsFile(path fsconn.Path) (bool, error) {
	_, span := c.tracer.Start(c.ctx, "conn.IsFile", connattribs(c.conn, path.String()))
	defer span.End()

	ok, err := c.conn.IsFile(c.base(path))

	return ok, recordError(span, err)
}

func (c *traceConn) IsDir(path fsconn.Path) bool {
	_, span := c.tracer.Start(c.ctx, "conn.IsDir", connattribs(c.conn, path.String()))
	defer span.End()

	return c.conn.IsDir(c.base(path))
}

func (c *traceConn) Remove(path fsconn.Path) error {
	_, span := c.tracer.Start(c.ctx, "conn.Remove", connattribs(c.conn, path.String()))
	defer span.End()

	return recordError(span, c.conn.Remove(c.base(path)))
}

func (c *traceConn) List(path fsconn.Path, pattern string) ([]fsconn.Path, error) {
	_, span := c.tracer.Start(c.ctx, "conn.List",
		connattribs(c.conn, path.String()), trace.WithAttributes(Pattern(pattern)))
	defer span.End()

	paths, err := c.conn.List(c.base(path), pattern)

	span.SetAttributes(DirEntries(len(paths)))

	for i, p := range paths {
		paths[i] = c.rewrap(p)
	}

	return paths, recordError(span, err)
}

func (c *traceConn) Size(path fsconn.Path) (int64, error) {
	_, span := c.tracer.Start(c.ctx, "conn.Size", connattribs(c.conn, path.String()))
	defer span.End()

	n, err := c.conn.Size(c.base(path))

	span.SetAttributes(FileSize(n))

	return n, recordError(span, err)
}

func (c *traceConn) ModifiedTime(path fsconn.Path) (time.Time, error) {
	_, span := c.tracer.Start(c.ctx, "conn.ModifiedTime", connattribs(c.conn, path.String()))
	defer span.End()

	t, err := c.conn.ModifiedTime(c.base(path))

	span.SetAttributes(FileModTime(t))

	return t, recordError(span, err)
}

func (c *traceConn) MakeDir(path fsconn.Path) error {
	_, span := c.tracer.Start(c.ctx, "conn.MakeDir", connattribs(c.conn, path.String()))
	defer span.End()

	return recordError(span, c.conn.MakeDir(c.base(path)))
}

func (c *traceConn) Rename(path fsconn.Path, newName string) error {
	_, span := c.tracer.Start(c.ctx, "conn.Rename", connattribs(c.conn, path.String()))
	defer span.End()

	return recordError(span, c.conn.Rename(c.base(path), newName))
}

func (c *traceConn) OpenFile(path fsconn.Path, mode string) (fsconn.File, error) {
	_, span := c.tracer.Start(c.ctx, "conn.OpenFile",
		connattribs(c.conn, path.String()), trace.WithAttributes(FileMode(mode)))
	defer span.End()

	f, err := c.conn.OpenFile(c.base(path), mode)
	if err != nil {
		return f, recordError(span, err)
	}

	return wrapFile(c.ctx, f, c.conn, path.String(), c.tracer), nil
}

// recordError records the given error on the span, and returns it. It does
// not set the span's status to error.
func recordError(span trace.Span, err error) error {
	span.RecordError(err)

	return err
}
