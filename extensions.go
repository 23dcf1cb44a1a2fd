package fsconn

import "fmt"

// LocalResolver is implemented by connections whose paths refer to files on
// the local machine.
type LocalResolver interface {
	// LocalPath resolves p to a plain local filesystem path.
	LocalPath(p Path) (string, error)
}

// LocalPath resolves p to a local filesystem path, if p's connection
// supports it (i.e. implements LocalResolver). Remote paths fail: callers
// use this to enforce that staging sources and upload inputs are genuinely
// local files.
func LocalPath(p Path) (string, error) {
	if lr, ok := p.Connection().(LocalResolver); ok {
		return lr.LocalPath(p)
	}

	return "", fmt.Errorf("path %q is not on a local filesystem connection", p)
}

// TempFiler is implemented by connections that can stage local temporary
// files, for use as proxy copies of remote resources.
type TempFiler interface {
	// TempFilePath returns the path of a fresh temporary file, using hint as
	// part of the file name.
	TempFilePath(hint string) (string, error)
}
