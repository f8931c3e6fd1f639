package fconv_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/fconv"
)

type errWriter struct{}

func (e *errWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

// failAfterN fails on the (n+1)th call to Write.
type failAfterN struct {
	n     int
	calls int
}

func (f *failAfterN) Write(p []byte) (int, error) {
	if f.calls >= f.n {
		return 0, errWriteFailed
	}
	f.calls++
	return len(p), nil
}

var errWriteFailed = errors.New("write failed")

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func mustTable(t *testing.T, v fconv.Value) *fconv.Table {
	t.Helper()
	tbl, ok := v.(*fconv.Table)
	require.Truef(t, ok, "want *Table, got %T", v)
	return tbl
}

func mustMapping(t *testing.T, v fconv.Value) *fconv.Mapping {
	t.Helper()
	m, ok := v.(*fconv.Mapping)
	require.Truef(t, ok, "want *Mapping, got %T", v)
	return m
}

func unmarshal(t *testing.T, data string, f fconv.Format) fconv.Value {
	t.Helper()
	v, err := fconv.Unmarshal([]byte(data), f)
	require.NoError(t, err)
	return v
}

func marshal(t *testing.T, v fconv.Value, f fconv.Format) string {
	t.Helper()
	b, err := fconv.Marshal(v, f)
	require.NoError(t, err)
	return string(b)
}

func table(cols []string, rows ...[]any) *fconv.Table {
	t := fconv.NewTable(cols...)
	t.Rows = rows
	return t
}
