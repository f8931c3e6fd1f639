package fconv

import (
	"fmt"
	"io"
	"strings"
)

// PlainSeparator joins cells when a table is written as plain text.
const PlainSeparator = " | "

// writePlain writes one line per row with cells joined by [PlainSeparator].
// There is no header line. Lines are written verbatim.
func (c *Converter) writePlain(w io.Writer, v Value) error {
	if lines, ok := v.(Lines); ok {
		return writeLines(w, lines)
	}
	t, err := tableFor(v, Text)
	if err != nil {
		return err
	}
	for i := range t.Rows {
		cells, err := rowStrings(t, i, Text)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, PlainSeparator)); err != nil {
			return err
		}
	}
	return nil
}
