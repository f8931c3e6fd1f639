package fconv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

func (c *Converter) readCSV(data []byte) (Value, error) {
	text, err := decodeText(data, CSV)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = c.opts.comma
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, csvParseError(err)
	}
	t := NewTable(uniqueHeader(header)...)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvParseError(err)
		}
		row := make([]any, len(rec))
		for i, field := range rec {
			if field != "" {
				row[i] = field
			}
		}
		t.Rows = append(t.Rows, row)
	}
	c.opts.logger.Debug().Int("rows", t.Len()).Int("columns", len(t.Columns)).Msg("csv parsed")
	return t, nil
}

func csvParseError(err error) error {
	pe := &ParseError{Format: CSV, Err: err}
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		pe.Line, pe.Column, pe.Err = ce.Line, ce.Column, ce.Err
	}
	return pe
}

// uniqueHeader names blank columns by position and suffixes repeated names
// with ".1", ".2", ... so every column is addressable.
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	count := make(map[string]int)
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		unique := name
		for used[unique] {
			count[name]++
			unique = fmt.Sprintf("%s.%d", name, count[name])
		}
		used[unique] = true
		out[i] = unique
	}
	return out
}

func (c *Converter) writeCSV(w io.Writer, v Value) error {
	t, err := tableFor(v, CSV)
	if err != nil {
		return err
	}
	if len(t.Columns) == 0 && t.Len() == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	cw.Comma = c.opts.comma
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for i := range t.Rows {
		row, err := rowStrings(t, i, CSV)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
