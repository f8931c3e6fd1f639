package fconv

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls preview table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

var borderNames = map[string]BorderStyle{
	"rounded": BorderRounded,
	"none":    BorderNone,
	"ascii":   BorderASCII,
	"heavy":   BorderHeavy,
	"double":  BorderDouble,
}

// ParseBorder parses a border style name: rounded, none, ascii, heavy, or
// double.
func ParseBorder(s string) (BorderStyle, error) {
	if b, ok := borderNames[strings.ToLower(s)]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("unknown border style %q", s)
}

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
		cross: "┼",
	},
	BorderASCII: {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topTee: "+", bottomTee: "+", leftTee: "+", rightTee: "+",
		cross: "+",
	},
	BorderHeavy: {
		topLeft: "┏", topRight: "┓", bottomLeft: "┗", bottomRight: "┛",
		horizontal: "━", vertical: "┃",
		topTee: "┳", bottomTee: "┻", leftTee: "┣", rightTee: "┫",
		cross: "╋",
	},
	BorderDouble: {
		topLeft: "╔", topRight: "╗", bottomLeft: "╚", bottomRight: "╝",
		horizontal: "═", vertical: "║",
		topTee: "╦", bottomTee: "╩", leftTee: "╠", rightTee: "╣",
		cross: "╬",
	},
}

// grid is a stringified table ready to draw.
type grid struct {
	title       string
	header      []string
	rows        [][]string
	aligns      []Alignment
	widths      []int
	headerStyle func(string) string
	caption     string
}

// newGrid stringifies t for display. Row labels, when present, become a
// leading unnamed column. Cells wider than maxWidth are truncated.
func newGrid(t *Table, maxWidth int) (*grid, error) {
	g := &grid{header: append([]string(nil), t.Columns...), aligns: columnAligns(t)}
	for i := range t.Rows {
		cells, err := rowStrings(t, i, "preview")
		if err != nil {
			return nil, err
		}
		for j := range cells {
			cells[j] = strings.ReplaceAll(cells[j], "\n", "↵")
		}
		g.rows = append(g.rows, cells)
	}
	if len(t.Labels) > 0 {
		g.header = append([]string{""}, g.header...)
		g.aligns = append([]Alignment{AlignLeft}, g.aligns...)
		for i := range g.rows {
			g.rows[i] = append([]string{t.Label(i)}, g.rows[i]...)
		}
	}
	g.widths = computeWidths(len(g.header), g.header, g.rows)
	if maxWidth > 0 {
		for i := range g.widths {
			g.widths[i] = min(g.widths[i], maxWidth)
		}
	}
	return g, nil
}

func computeWidths(numCols int, header []string, rows [][]string) []int {
	widths := make([]int, numCols)
	for i, h := range header {
		if w := runewidth.StringWidth(h); w > widths[i] {
			widths[i] = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (g *grid) render(w io.Writer, style BorderStyle) error {
	var err error
	if style == BorderNone {
		err = g.renderPlain(w)
	} else {
		err = g.renderBordered(w, borderSets[style])
	}
	if err != nil {
		return err
	}
	if g.caption != "" {
		if _, err := fmt.Fprintln(w, g.caption); err != nil {
			return err
		}
	}
	return nil
}

// --- Plain table (BorderNone) ---

func (g *grid) renderPlain(w io.Writer) error {
	if g.title != "" {
		if _, err := fmt.Fprintln(w, g.title); err != nil {
			return err
		}
	}
	if err := g.writePlainRow(w, g.header, g.headerStyle); err != nil {
		return err
	}
	if err := g.writePlainSep(w); err != nil {
		return err
	}
	for _, row := range g.rows {
		if err := g.writePlainRow(w, row, nil); err != nil {
			return err
		}
	}
	return nil
}

func (g *grid) writePlainSep(w io.Writer) error {
	sep := make([]string, len(g.widths))
	for i, width := range g.widths {
		sep[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(sep, "  "))
	return err
}

func (g *grid) writePlainRow(w io.Writer, cells []string, style func(string) string) error {
	parts := make([]string, len(g.widths))
	for i, width := range g.widths {
		parts[i] = g.cell(cells, i, width, style)
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	_, err := fmt.Fprintln(w, line)
	return err
}

// --- Bordered table ---

func (g *grid) renderBordered(w io.Writer, bc borderChars) error {
	if g.title != "" {
		// Full-width top border (no column separators).
		if err := drawHLine(w, g.widths, bc.topLeft, bc.horizontal, bc.horizontal, bc.topRight); err != nil {
			return err
		}
		inner := tableInnerWidth(g.widths) - 2 // subtract 1-space padding on each side
		title := formatTableCell(g.title, inner, AlignCenter)
		if _, err := fmt.Fprintf(w, "%s %s %s\n", bc.vertical, title, bc.vertical); err != nil {
			return err
		}
		if err := drawHLine(w, g.widths, bc.leftTee, bc.horizontal, bc.topTee, bc.rightTee); err != nil {
			return err
		}
	} else {
		if err := drawHLine(w, g.widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
			return err
		}
	}

	if err := g.drawRow(w, g.header, bc.vertical, g.headerStyle); err != nil {
		return err
	}
	if err := drawHLine(w, g.widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
		return err
	}
	for _, row := range g.rows {
		if err := g.drawRow(w, row, bc.vertical, nil); err != nil {
			return err
		}
	}
	return drawHLine(w, g.widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

// tableInnerWidth returns the total character width between the outer vertical
// borders of a bordered table. Each cell contributes its width plus 2 (one
// space of padding on each side), and cells are separated by a single vertical
// border character.
func tableInnerWidth(widths []int) int {
	n := 0
	for _, w := range widths {
		n += w + 2
	}
	if len(widths) > 1 {
		n += len(widths) - 1
	}
	return n
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func (g *grid) drawRow(w io.Writer, cells []string, vert string, style func(string) string) error {
	var sb strings.Builder
	sb.WriteString(vert)
	for i, width := range g.widths {
		sb.WriteString(" ")
		sb.WriteString(g.cell(cells, i, width, style))
		sb.WriteString(" ")
		if i < len(g.widths)-1 {
			sb.WriteString(vert)
		}
	}
	sb.WriteString(vert)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

// cell pads and truncates column i; style wraps the finished text so escape
// codes never affect widths.
func (g *grid) cell(cells []string, i, width int, style func(string) string) string {
	s := ""
	if i < len(cells) {
		s = cells[i]
	}
	formatted := formatTableCell(s, width, g.aligns[i])
	if style != nil {
		formatted = style(formatted)
	}
	return formatted
}

func formatTableCell(s string, width int, align Alignment) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		if width <= 3 {
			s = runewidth.Truncate(s, width, "")
		} else {
			s = runewidth.Truncate(s, width, "...")
		}
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
