package fconv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Shape names the kind of a [Value].
type Shape int

const (
	ShapeNone Shape = iota
	ShapeTable
	ShapeMapping
	ShapeLines
	ShapeScalar
)

var shapeNames = [...]string{
	ShapeNone:    "nothing",
	ShapeTable:   "table",
	ShapeMapping: "mapping",
	ShapeLines:   "lines",
	ShapeScalar:  "scalar",
}

// String returns the shape name.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "shape(" + strconv.Itoa(int(s)) + ")"
	}
	return shapeNames[s]
}

// Value is the canonical in-memory result of reading any format. It is
// exactly one of *[Table], *[Mapping], [Lines], or [Scalar].
type Value interface {
	Shape() Shape
	value()
}

// Table is an ordered sequence of rows over a shared column list. Rows[i][j]
// holds the cell for Columns[j]; nil is null. Labels, when set, names each
// row (INI section names). Reading a Table concurrently is safe; building one
// is not.
type Table struct {
	Columns []string
	Rows    [][]any
	Labels  []string

	index map[string]int
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	t := &Table{}
	for _, c := range columns {
		t.column(c)
	}
	return t
}

// Shape returns [ShapeTable].
func (*Table) Shape() Shape { return ShapeTable }
func (*Table) value()       {}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the position of the first column with the given name, or
// -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i for the named column. Missing columns and
// short rows yield nil.
func (t *Table) Cell(i int, name string) any {
	j := t.Column(name)
	if j < 0 || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return nil
	}
	return t.Rows[i][j]
}

// AppendMapping adds m as a row, extending the column list with keys not yet
// seen.
func (t *Table) AppendMapping(m *Mapping) {
	row := make([]any, len(t.Columns))
	for _, k := range m.Keys {
		j := t.column(k)
		if j >= len(row) {
			row = append(row, make([]any, j-len(row)+1)...)
		}
		row[j] = m.Values[k]
	}
	t.Rows = append(t.Rows, row)
}

// Head returns a table holding at most the first n rows of t.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	h := &Table{Columns: t.Columns, Rows: t.Rows[:n]}
	if len(t.Labels) > 0 {
		h.Labels = t.Labels[:min(n, len(t.Labels))]
	}
	return h
}

// Label returns the label of row i, or "" when the table is unlabelled.
func (t *Table) Label(i int) string {
	if i < len(t.Labels) {
		return t.Labels[i]
	}
	return ""
}

func (t *Table) column(name string) int {
	t.reindex()
	if i, ok := t.index[name]; ok {
		return i
	}
	t.Columns = append(t.Columns, name)
	t.index[name] = len(t.Columns) - 1
	return len(t.Columns) - 1
}

func (t *Table) reindex() {
	if t.index != nil && len(t.index) == len(t.Columns) {
		return
	}
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// pad extends every row to the full column count.
func (t *Table) pad() {
	for i, row := range t.Rows {
		if len(row) < len(t.Columns) {
			t.Rows[i] = append(row, make([]any, len(t.Columns)-len(row))...)
		}
	}
}

// Mapping is a single ordered key to value mapping.
type Mapping struct {
	Keys   []string
	Values map[string]any
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{Values: map[string]any{}}
}

// Shape returns [ShapeMapping].
func (*Mapping) Shape() Shape { return ShapeMapping }
func (*Mapping) value()       {}

// Set assigns v to k. A new key is appended; an existing key keeps its
// position.
func (m *Mapping) Set(k string, v any) {
	if m.Values == nil {
		m.Values = map[string]any{}
	}
	if _, ok := m.Values[k]; !ok {
		m.Keys = append(m.Keys, k)
	}
	m.Values[k] = v
}

// Get returns the value for k.
func (m *Mapping) Get(k string) (any, bool) {
	v, ok := m.Values[k]
	return v, ok
}

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.Keys) }

// MarshalJSON encodes the mapping as an object in key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalCompact(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalCompact(m.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the mapping as a block mapping in key order.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.Keys {
		var val yaml.Node
		if err := val.Encode(m.Values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

// Lines is an ordered sequence of raw text lines, each keeping its line
// terminator.
type Lines []string

// Shape returns [ShapeLines].
func (Lines) Shape() Shape { return ShapeLines }
func (Lines) value()       {}

// String joins the lines back into the original text.
func (l Lines) String() string { return strings.Join(l, "") }

// Scalar is a top-level value with no row structure, such as a bare JSON
// number. No writer accepts it.
type Scalar struct {
	V any
}

// Shape returns [ShapeScalar].
func (Scalar) Shape() Shape { return ShapeScalar }
func (Scalar) value()       {}

// tableFrom folds a decoded sequence into a table. Mapping elements
// contribute their keys, sequence elements positional columns, and scalars
// the column "0".
func tableFrom(items []any) *Table {
	t := &Table{}
	for _, item := range items {
		switch it := item.(type) {
		case *Mapping:
			t.AppendMapping(it)
		case []any:
			m := NewMapping()
			for i, e := range it {
				m.Set(strconv.Itoa(i), e)
			}
			t.AppendMapping(m)
		default:
			m := NewMapping()
			m.Set("0", it)
			t.AppendMapping(m)
		}
	}
	t.pad()
	return t
}

// normalize maps a decoded document onto a canonical shape.
func normalize(doc any) Value {
	switch d := doc.(type) {
	case []any:
		return tableFrom(d)
	case *Mapping:
		return d
	default:
		return Scalar{V: d}
	}
}

// tableFor promotes v to the table a structured writer consumes.
func tableFor(v Value, target Format) (*Table, error) {
	switch val := v.(type) {
	case *Table:
		return val, nil
	case *Mapping:
		t := &Table{}
		t.AppendMapping(val)
		return t, nil
	case Lines:
		t := NewTable("line")
		for _, line := range val {
			t.Rows = append(t.Rows, []any{strings.TrimRight(line, "\r\n")})
		}
		return t, nil
	case Scalar:
		return nil, &StructuralError{Shape: ShapeScalar, Target: target, Reason: "a bare scalar has no rows"}
	default:
		return nil, &StructuralError{Target: target, Reason: fmt.Sprintf("unknown value %T", v)}
	}
}

// stringify renders a cell for text targets. Nested values become compact
// JSON.
func stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return formatFloat(x), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	b, err := marshalCompact(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// isNumber reports whether v is a numeric scalar.
func isNumber(v any) bool {
	switch v.(type) {
	case int, int64, uint64, float64:
		return true
	}
	return false
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// rowStrings stringifies row i of t for a text target.
func rowStrings(t *Table, i int, target Format) ([]string, error) {
	out := make([]string, len(t.Columns))
	row := t.Rows[i]
	for j := range t.Columns {
		if j >= len(row) {
			continue
		}
		s, err := stringify(row[j])
		if err != nil {
			return nil, &StructuralError{
				Shape:  ShapeTable,
				Target: target,
				Reason: fmt.Sprintf("row %d column %q", i, t.Columns[j]),
				Err:    err,
			}
		}
		out[j] = s
	}
	return out, nil
}
