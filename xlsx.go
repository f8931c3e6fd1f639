package fconv

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

const xlsxSheet = "Sheet1"

// readXLSX reads the first worksheet. The first row is the header; numeric
// and boolean cells keep their native types.
func (c *Converter) readXLSX(data []byte) (v Value, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: XLSX, Err: err}
	}
	defer func() {
		v, err = closedRead(v, err, f.Close())
	}()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	sheet := sheets[0]
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Format: XLSX, Err: err}
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Format: XLSX, Err: err}
	}
	if len(raw) == 0 {
		return &Table{}, nil
	}
	width := 0
	for _, row := range raw {
		width = max(width, len(row))
	}
	header := make([]string, width)
	if len(shown) > 0 {
		copy(header, shown[0])
	}
	t := NewTable(uniqueHeader(header)...)
	for r := 1; r < len(raw); r++ {
		row := make([]any, width)
		for j, rawVal := range raw[r] {
			if rawVal == "" {
				continue
			}
			shownVal := rawVal
			if r < len(shown) && j < len(shown[r]) {
				shownVal = shown[r][j]
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, r+1)
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, &ParseError{Format: XLSX, Line: r + 1, Column: j + 1, Err: err}
			}
			row[j] = xlsxValue(typ, rawVal, shownVal)
		}
		t.Rows = append(t.Rows, row)
	}
	c.opts.logger.Debug().Str("sheet", sheet).Int("rows", t.Len()).Int("columns", len(t.Columns)).Msg("xlsx parsed")
	return t, nil
}

// closedRead folds a workbook close failure into a read result. A failed
// close discards the value.
func closedRead(v Value, err, cerr error) (Value, error) {
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, &IOError{Op: "close workbook", Err: cerr}
	}
	return v, nil
}

// xlsxValue types a cell. Numbers whose display differs from their raw
// value and is not itself numeric, such as dates, keep the displayed text.
func xlsxValue(typ excelize.CellType, raw, shown string) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return shown
		}
		if shown != raw {
			if _, err := strconv.ParseFloat(shown, 64); err != nil {
				return shown
			}
		}
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		return f
	default:
		return shown
	}
}

func (c *Converter) writeXLSX(w io.Writer, v Value) (err error) {
	t, err := tableFor(v, XLSX)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	for j, col := range t.Columns {
		if err := setXLSXCell(f, j+1, 1, col); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		for j := range t.Columns {
			if j >= len(row) || row[j] == nil {
				continue
			}
			val, err := xlsxCell(row[j])
			if err != nil {
				return &StructuralError{Shape: ShapeTable, Target: XLSX, Reason: fmt.Sprintf("row %d column %q", i, t.Columns[j]), Err: err}
			}
			if err := setXLSXCell(f, j+1, i+2, val); err != nil {
				return err
			}
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func setXLSXCell(f *excelize.File, col, row int, val any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return &StructuralError{Shape: ShapeTable, Target: XLSX, Err: err}
	}
	if err := f.SetCellValue(xlsxSheet, cell, val); err != nil {
		return &StructuralError{Shape: ShapeTable, Target: XLSX, Reason: "cell " + cell, Err: err}
	}
	return nil
}

// xlsxCell keeps native scalars and stringifies everything else.
func xlsxCell(v any) (any, error) {
	switch v.(type) {
	case string, bool, int, int64, uint64, float64:
		return v, nil
	}
	return stringify(v)
}
