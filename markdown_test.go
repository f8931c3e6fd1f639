package fconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bjaus/fconv"
)

// gfmTableCells parses src as GitHub-flavored Markdown and returns the
// number of header cells and body rows of its first table.
func gfmTableCells(t *testing.T, src string) (headers, rows int) {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader([]byte(src)))

	var tbl *extast.Table
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if tt, ok := n.(*extast.Table); ok && entering {
			tbl = tt
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	require.NotNil(t, tbl, "no table in:\n%s", src)

	for c := tbl.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *extast.TableHeader:
			headers = c.ChildCount()
		case *extast.TableRow:
			rows++
		}
	}
	return headers, rows
}

func TestWriteMarkdown(t *testing.T) {
	t.Parallel()
	v := table([]string{"name", "age"},
		[]any{"ann", int64(30)},
		[]any{"bob|x", int64(7)},
	)
	want := "" +
		"| name   | age |\n" +
		"| ------ | --: |\n" +
		"| ann    |  30 |\n" +
		"| bob\\|x |   7 |\n"
	out := marshal(t, v, fconv.Markdown)
	assert.Equal(t, want, out)

	headers, rows := gfmTableCells(t, out)
	assert.Equal(t, 2, headers)
	assert.Equal(t, 2, rows)
}

func TestWriteMarkdownWideAndMultiline(t *testing.T) {
	t.Parallel()
	v := table([]string{"城市", "note"},
		[]any{"東京", "line one\nline two"},
		[]any{"Oslo", nil},
	)
	out := marshal(t, v, fconv.Markdown)
	assert.Contains(t, out, "| 東京 | line one line two |")
	assert.Contains(t, out, "| Oslo |                   |")

	headers, rows := gfmTableCells(t, out)
	assert.Equal(t, 2, headers)
	assert.Equal(t, 2, rows)
}

func TestWriteMarkdownLinesVerbatim(t *testing.T) {
	t.Parallel()
	src := "# Title\n\n| not | a table |\n"
	assert.Equal(t, src, marshal(t, unmarshal(t, src, fconv.Markdown), fconv.Markdown))
}

func TestWriteMarkdownEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, marshal(t, &fconv.Table{}, fconv.Markdown))
}

func TestWriteMarkdownErrorAfterHeader(t *testing.T) {
	t.Parallel()
	v := table([]string{"a"}, []any{"x"})
	for n := 0; n < 3; n++ {
		err := fconv.New().Encode(&failAfterN{n: n}, v, fconv.Markdown)
		require.ErrorIs(t, err, errWriteFailed, "fail after %d writes", n)
	}
}
