package fconv

import (
	"bufio"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/renameio"
	"go.uber.org/multierr"
)

const filePerm = 0o644

// writeFileAtomic renders into a temporary file beside path and renames it
// over path only when render and flush both succeed. On failure the
// temporary file is removed and path is left untouched.
func writeFileAtomic(path string, render func(io.Writer) error) (err error) {
	pf, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		err = multierr.Append(err, pf.Cleanup())
	}()

	bw := bufio.NewWriter(pf)
	if err := render(bw); err != nil {
		return asWriteError(path, err)
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := pf.Chmod(filePerm); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return &IOError{Op: "replace", Path: path, Err: err}
	}
	return nil
}

// asWriteError keeps typed errors from a writer and classifies anything else
// as an I/O failure on path.
func asWriteError(path string, err error) error {
	if errors.Is(err, ErrStructure) || errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrIO) {
		return err
	}
	return &IOError{Op: "write", Path: path, Err: err}
}
