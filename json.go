package fconv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"
)

var (
	errTrailingData = errors.New("unexpected data after top-level value")
	errTooDeep      = errors.New("exceeded max nesting depth")
)

// maxJSONDepth matches the nesting limit of encoding/json.
const maxJSONDepth = 10000

func (c *Converter) readJSON(data []byte) (Value, error) {
	text, err := decodeText(data, JSON)
	if err != nil {
		return nil, err
	}
	if c.opts.jsonComments {
		text = jsonc.ToJSON(text)
	}
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	doc, err := decodeOrdered(dec, 0)
	if errors.Is(err, errTooDeep) {
		pe := &ParseError{Format: JSON, Err: err}
		pe.Line, pe.Column = lineCol(text, dec.InputOffset())
		return nil, pe
	}
	if err != nil {
		return nil, jsonParseError(text, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		pe := &ParseError{Format: JSON, Err: errTrailingData}
		pe.Line, pe.Column = lineCol(text, dec.InputOffset())
		return nil, pe
	}
	v := normalize(doc)
	c.opts.logger.Debug().Str("shape", v.Shape().String()).Msg("json parsed")
	return v, nil
}

// decodeOrdered decodes the next JSON value keeping object key order.
// Objects become *Mapping, arrays []any, numbers int64 or float64.
func decodeOrdered(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if depth >= maxJSONDepth {
			return nil, errTooDeep
		}
		switch t {
		case '{':
			m := NewMapping()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %v, not a string", kt)
				}
				val, err := decodeOrdered(dec, depth+1)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			items := []any{}
			for dec.More() {
				val, err := decodeOrdered(dec, depth+1)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case json.Number:
		return jsonNumber(t), nil
	default:
		return t, nil
	}
}

func jsonNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func jsonParseError(text []byte, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	pe := &ParseError{Format: JSON, Err: err}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		pe.Line, pe.Column = lineCol(text, se.Offset)
	}
	return pe
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(text []byte, offset int64) (line, col int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	if offset < 0 {
		offset = 0
	}
	before := text[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

func (c *Converter) writeJSON(w io.Writer, v Value) error {
	t, err := tableFor(v, JSON)
	if err != nil {
		return err
	}
	records := make([]*Mapping, t.Len())
	for i := range t.Rows {
		records[i] = rowMapping(t, i)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", c.opts.indent))
	if err := enc.Encode(records); err != nil {
		return encodeError(err, JSON)
	}
	return nil
}

// rowMapping returns row i of t as a mapping in column order.
func rowMapping(t *Table, i int) *Mapping {
	m := &Mapping{Keys: t.Columns, Values: make(map[string]any, len(t.Columns))}
	row := t.Rows[i]
	for j, col := range t.Columns {
		if j < len(row) {
			m.Values[col] = row[j]
		} else {
			m.Values[col] = nil
		}
	}
	return m
}

// encodeError classifies an encoder failure: unsupported values are
// structural, anything else came from the writer.
func encodeError(err error, target Format) error {
	var ute *json.UnsupportedTypeError
	var uve *json.UnsupportedValueError
	var me *json.MarshalerError
	if errors.As(err, &ute) || errors.As(err, &uve) || errors.As(err, &me) {
		return &StructuralError{Shape: ShapeTable, Target: target, Reason: "value cannot be encoded", Err: err}
	}
	return err
}
