package fconv

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	// DefaultPreviewRows is used when a preview asks for fewer than one row.
	DefaultPreviewRows = 20

	maxScalarPreview = 3000
	mappingIndent    = 3
)

// Preview renders the first n rows or lines of v using the default Converter.
func Preview(w io.Writer, v Value, n int) error { return std.Preview(w, v, n) }

// Preview renders a human-readable sample of v to w. Tables show their first
// n rows in a bordered table, mappings are indented JSON, lines are written
// verbatim and scalars as text. n < 1 selects [DefaultPreviewRows].
func (c *Converter) Preview(w io.Writer, v Value, n int) error {
	if n < 1 {
		n = DefaultPreviewRows
	}
	switch val := v.(type) {
	case *Table:
		return c.previewTable(w, val, n, "")
	case *Mapping:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", strings.Repeat(" ", mappingIndent))
		return enc.Encode(val)
	case Lines:
		return writeLines(w, val[:min(n, len(val))])
	case Scalar:
		s, err := stringify(val.V)
		if err != nil {
			return &StructuralError{Shape: ShapeScalar, Target: "preview", Err: err}
		}
		if len(s) > maxScalarPreview {
			s = string(trimPartialRune([]byte(s[:maxScalarPreview]))) + "..."
		}
		_, err = fmt.Fprintln(w, s)
		return err
	case nil:
		return nil
	default:
		return fmt.Errorf("%w: cannot preview %T", ErrStructure, v)
	}
}

// PreviewDocument is [Converter.Preview] with a title naming the document's
// file and format. Tables carry the title in their top border.
func (c *Converter) PreviewDocument(w io.Writer, d *Document, n int) error {
	title := filepath.Base(d.Path) + " (" + d.Format.String() + ")"
	if lang := d.Language(); lang != "" {
		title = filepath.Base(d.Path) + " (" + lang + ")"
	}
	if t, ok := d.Value.(*Table); ok {
		if n < 1 {
			n = DefaultPreviewRows
		}
		return c.previewTable(w, t, n, title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	return c.Preview(w, d.Value, n)
}

func (c *Converter) previewTable(w io.Writer, t *Table, n int, title string) error {
	if len(t.Columns) == 0 {
		_, err := fmt.Fprintln(w, "(empty table)")
		return err
	}
	g, err := newGrid(t.Head(n), c.opts.maxCellWidth)
	if err != nil {
		return err
	}
	g.title = title
	g.headerStyle = c.opts.headerStyle
	if t.Len() > n {
		g.caption = fmt.Sprintf("showing %d of %d rows", n, t.Len())
	}
	return g.render(w, c.opts.border)
}
