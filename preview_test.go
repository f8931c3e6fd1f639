package fconv_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/fconv"
)

func preview(t *testing.T, c *fconv.Converter, v fconv.Value, n int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Preview(&buf, v, n))
	return buf.String()
}

var people = table([]string{"name", "age"},
	[]any{"ann", int64(30)},
	[]any{"bob", int64(4)},
)

func TestPreviewTableRounded(t *testing.T) {
	t.Parallel()
	want := "" +
		"╭──────┬─────╮\n" +
		"│ name │ age │\n" +
		"├──────┼─────┤\n" +
		"│ ann  │  30 │\n" +
		"│ bob  │   4 │\n" +
		"╰──────┴─────╯\n"
	assert.Equal(t, want, preview(t, fconv.New(), people, 0))
}

func TestPreviewTableBorders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		border fconv.BorderStyle
		top    string
	}{
		{fconv.BorderASCII, "+------+-----+\n"},
		{fconv.BorderHeavy, "┏━━━━━━┳━━━━━┓\n"},
		{fconv.BorderDouble, "╔══════╦═════╗\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.top, func(t *testing.T) {
			t.Parallel()
			out := preview(t, fconv.New(fconv.WithBorder(tt.border)), people, 0)
			assert.True(t, strings.HasPrefix(out, tt.top), out)
		})
	}
}

func TestPreviewTablePlain(t *testing.T) {
	t.Parallel()
	want := "" +
		"name  age\n" +
		"----  ---\n" +
		"ann    30\n" +
		"bob     4\n"
	assert.Equal(t, want, preview(t, fconv.New(fconv.WithBorder(fconv.BorderNone)), people, 0))
}

func TestPreviewTableLabels(t *testing.T) {
	t.Parallel()
	v := unmarshal(t, "[db]\nhost = local\n", fconv.INI)
	want := "" +
		"+----+-------+\n" +
		"|    | host  |\n" +
		"+----+-------+\n" +
		"| db | local |\n" +
		"+----+-------+\n"
	assert.Equal(t, want, preview(t, fconv.New(fconv.WithBorder(fconv.BorderASCII)), v, 0))
}

func TestPreviewTableHead(t *testing.T) {
	t.Parallel()
	v := fconv.NewTable("n")
	for i := 0; i < 25; i++ {
		v.Rows = append(v.Rows, []any{int64(i)})
	}

	out := preview(t, fconv.New(), v, 0)
	assert.Contains(t, out, "│ 19 │")
	assert.NotContains(t, out, "│ 20 │")
	assert.True(t, strings.HasSuffix(out, "showing 20 of 25 rows\n"))

	out = preview(t, fconv.New(), v, 3)
	assert.Contains(t, out, "showing 3 of 25 rows")
}

func TestPreviewTruncatesCells(t *testing.T) {
	t.Parallel()
	v := table([]string{"v"}, []any{"abcdefghij"}, []any{"multi\nline"})
	out := preview(t, fconv.New(fconv.WithMaxCellWidth(5), fconv.WithBorder(fconv.BorderNone)), v, 0)
	assert.Equal(t, "v\n-----\nab...\nmu...\n", out)

	out = preview(t, fconv.New(fconv.WithMaxCellWidth(0), fconv.WithBorder(fconv.BorderNone)), v, 0)
	assert.Contains(t, out, "abcdefghij")
	assert.Contains(t, out, "multi↵line")
}

func TestPreviewHeaderStyle(t *testing.T) {
	t.Parallel()
	c := fconv.New(fconv.WithHeaderStyle(strings.ToUpper), fconv.WithBorder(fconv.BorderNone))
	out := preview(t, c, people, 0)
	assert.True(t, strings.HasPrefix(out, "NAME  AGE\n"), out)
	assert.Contains(t, out, "ann")
}

func TestPreviewMapping(t *testing.T) {
	t.Parallel()
	v := unmarshal(t, `{"a": 1, "b": [1, 2]}`, fconv.JSON)
	want := "{\n   \"a\": 1,\n   \"b\": [\n      1,\n      2\n   ]\n}\n"
	assert.Equal(t, want, preview(t, fconv.New(), v, 0))
}

func TestPreviewLines(t *testing.T) {
	t.Parallel()
	v := fconv.Lines{"a\n", "b\n", "c\n"}
	assert.Equal(t, "a\nb\n", preview(t, fconv.New(), v, 2))
	assert.Equal(t, "a\nb\nc\n", preview(t, fconv.New(), v, 10))
}

func TestPreviewScalar(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "42\n", preview(t, fconv.New(), fconv.Scalar{V: int64(42)}, 0))

	long := strings.Repeat("x", 3100)
	out := preview(t, fconv.New(), fconv.Scalar{V: long}, 0)
	assert.Equal(t, strings.Repeat("x", 3000)+"...\n", out)
}

func TestPreviewEmptyTable(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "(empty table)\n", preview(t, fconv.New(), &fconv.Table{}, 0))
}

func TestPreviewDocument(t *testing.T) {
	t.Parallel()
	c := fconv.New(fconv.WithBorder(fconv.BorderASCII))

	t.Run("table title", func(t *testing.T) {
		t.Parallel()
		doc, err := c.Load(writeFile(t, "p.csv", "name,city\nann,Oslo\n"))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, c.PreviewDocument(&buf, doc, 0))
		lines := strings.Split(buf.String(), "\n")
		assert.Equal(t, "+-------------+", lines[0])
		assert.Equal(t, "| p.csv (csv) |", lines[1])
		assert.Equal(t, "+------+------+", lines[2])
	})

	t.Run("code title", func(t *testing.T) {
		t.Parallel()
		doc, err := c.Load(writeFile(t, "main.go", "package main\n"))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, c.PreviewDocument(&buf, doc, 0))
		assert.Equal(t, "main.go (Go)\npackage main\n", buf.String())
	})
}

func TestPreviewWriteError(t *testing.T) {
	t.Parallel()
	values := []fconv.Value{people, fconv.Lines{"a\n"}, fconv.Scalar{V: 1}, unmarshal(t, `{"a":1}`, fconv.JSON)}
	for i, v := range values {
		v := v
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			t.Parallel()
			require.Error(t, fconv.New().Preview(&errWriter{}, v, 0))
		})
	}
}

func TestPreviewBorderedWriteErrors(t *testing.T) {
	t.Parallel()
	v := table([]string{"a"}, []any{"x"})
	for _, border := range []fconv.BorderStyle{fconv.BorderRounded, fconv.BorderNone} {
		c := fconv.New(fconv.WithBorder(border))
		for n := 0; n < 3; n++ {
			err := c.Preview(&failAfterN{n: n}, v, 0)
			require.ErrorIs(t, err, errWriteFailed, "border %d, fail after %d", border, n)
		}
	}
}

func TestParseBorder(t *testing.T) {
	t.Parallel()
	b, err := fconv.ParseBorder("Heavy")
	require.NoError(t, err)
	assert.Equal(t, fconv.BorderHeavy, b)

	_, err = fconv.ParseBorder("dotted")
	require.Error(t, err)
}
