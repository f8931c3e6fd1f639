package fconv

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

var markdownCell = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// writeMarkdown renders a GitHub-flavored pipe table. Lines are written
// verbatim.
func (c *Converter) writeMarkdown(w io.Writer, v Value) error {
	if lines, ok := v.(Lines); ok {
		return writeLines(w, lines)
	}
	t, err := tableFor(v, Markdown)
	if err != nil {
		return err
	}
	numCols := len(t.Columns)
	if numCols == 0 {
		return nil
	}

	header := make([]string, numCols)
	for i, col := range t.Columns {
		header[i] = markdownCell.Replace(col)
	}
	rows := make([][]string, t.Len())
	for i := range t.Rows {
		cells, err := rowStrings(t, i, Markdown)
		if err != nil {
			return err
		}
		for j := range cells {
			cells[j] = markdownCell.Replace(cells[j])
		}
		rows[i] = cells
	}

	// Calculate column widths (minimum 3 for alignment markers).
	widths := make([]int, numCols)
	for i, col := range header {
		widths[i] = max(3, runewidth.StringWidth(col))
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	aligns := columnAligns(t)

	if err := writeMarkdownRow(w, header, widths, aligns); err != nil {
		return err
	}

	sep := make([]string, numCols)
	for i, width := range widths {
		switch aligns[i] {
		case AlignRight:
			sep[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			sep[i] = strings.Repeat("-", width)
		}
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths, aligns); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = alignCell(cell, width, aligns[i])
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}

// columnAligns right-aligns columns whose non-null cells are all numbers.
func columnAligns(t *Table) []Alignment {
	aligns := make([]Alignment, len(t.Columns))
	for j := range t.Columns {
		numeric, seen := true, false
		for _, row := range t.Rows {
			if j >= len(row) || row[j] == nil {
				continue
			}
			seen = true
			if !isNumber(row[j]) {
				numeric = false
				break
			}
		}
		if numeric && seen {
			aligns[j] = AlignRight
		}
	}
	return aligns
}
