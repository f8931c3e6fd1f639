package fconv_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/fconv"
)

func TestJSONToYAML(t *testing.T) {
	t.Parallel()
	v := unmarshal(t, `[{"name":"ann","age":30},{"name":"zoë","age":null}]`, fconv.JSON)
	want := "- name: ann\n  age: 30\n- name: zoë\n  age: null\n"
	assert.Equal(t, want, marshal(t, v, fconv.YAML))
}

func TestReadYAML(t *testing.T) {
	t.Parallel()
	tbl := mustTable(t, unmarshal(t, "- a: 1\n  b: x\n- a: 2\n  c: true\n", fconv.YAML))

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Columns)
	assert.Equal(t, [][]any{
		{1, "x", nil},
		{2, nil, true},
	}, tbl.Rows)
}

func TestReadYAMLMapping(t *testing.T) {
	t.Parallel()
	m := mustMapping(t, unmarshal(t, "zeta: 1\nalpha: [1, 2]\n", fconv.YAML))
	assert.Equal(t, []string{"zeta", "alpha"}, m.Keys)
	assert.Equal(t, []any{1, 2}, m.Values["alpha"])
}

func TestReadYAMLMergeKeys(t *testing.T) {
	t.Parallel()
	in := "base: &b\n  x: 1\n  y: 1\nitem:\n  <<: *b\n  y: 2\n"
	m := mustMapping(t, unmarshal(t, in, fconv.YAML))

	item, ok := m.Values["item"].(*fconv.Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, item.Keys)
	assert.Equal(t, 2, item.Values["y"])
}

func TestReadYAMLEmptyDocument(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "# only a comment\n", "~\n"} {
		tbl := mustTable(t, unmarshal(t, in, fconv.YAML))
		assert.Zero(t, tbl.Len(), in)
	}
}

func TestReadYAMLScalar(t *testing.T) {
	t.Parallel()
	assert.Equal(t, fconv.Scalar{V: "hello"}, unmarshal(t, "hello\n", fconv.YAML))
}

func TestReadYAMLErrors(t *testing.T) {
	t.Parallel()

	t.Run("syntax", func(t *testing.T) {
		t.Parallel()
		_, err := fconv.Unmarshal([]byte("a: 1\nb: [1, 2\n"), fconv.YAML)
		require.ErrorIs(t, err, fconv.ErrParse)
		var pe *fconv.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Positive(t, pe.Line)
	})

	t.Run("multiple documents", func(t *testing.T) {
		t.Parallel()
		_, err := fconv.Unmarshal([]byte("a: 1\n---\nb: 2\n"), fconv.YAML)
		require.ErrorIs(t, err, fconv.ErrParse)
		var pe *fconv.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Positive(t, pe.Line)
	})
}

func TestWriteYAMLIndent(t *testing.T) {
	t.Parallel()
	v := table([]string{"a"}, []any{unmarshal(t, `{"k": "v"}`, fconv.JSON)})
	out, err := fconv.New(fconv.WithIndent(4)).Marshal(v, fconv.YAML)
	require.NoError(t, err)
	assert.NotEqual(t, marshal(t, v, fconv.YAML), string(out))

	back := mustTable(t, unmarshal(t, string(out), fconv.YAML))
	nested, ok := back.Cell(0, "a").(*fconv.Mapping)
	require.True(t, ok)
	assert.Equal(t, "v", nested.Values["k"])
}

func TestWriteYAMLEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[]\n", marshal(t, &fconv.Table{}, fconv.YAML))
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()
	in := "- id: 1\n  name: ann\n  tags:\n    - a\n    - b\n- id: 2\n  name: bob\n  tags: []\n"
	assert.Equal(t, in, marshal(t, unmarshal(t, in, fconv.YAML), fconv.YAML))
}

func TestReadYAMLAliasReuse(t *testing.T) {
	t.Parallel()
	m := mustMapping(t, unmarshal(t, "base: &b {x: 1}\nuse: [*b, *b]\n", fconv.YAML))
	use, ok := m.Get("use")
	require.True(t, ok)
	require.Len(t, use, 2)
}

func TestReadYAMLAliasCycle(t *testing.T) {
	t.Parallel()
	_, err := fconv.Unmarshal([]byte("a: &x [1, *x]\n"), fconv.YAML)
	require.ErrorIs(t, err, fconv.ErrParse)

	var pe *fconv.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, fconv.YAML, pe.Format)
	assert.Contains(t, pe.Error(), "alias refers to itself")
}

func TestReadYAMLAliasExpansionBounded(t *testing.T) {
	t.Parallel()
	var sb strings.Builder
	sb.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 7; i++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", i-1), 10), ", ")
		fmt.Fprintf(&sb, "l%d: &l%d [%s]\n", i, i, refs)
	}

	_, err := fconv.Unmarshal([]byte(sb.String()), fconv.YAML)
	require.ErrorIs(t, err, fconv.ErrParse)
	assert.Contains(t, err.Error(), "too large after expanding aliases")
}
