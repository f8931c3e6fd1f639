package fconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrIllegalTarget     = errors.New("illegal conversion target")
	ErrIO                = errors.New("i/o failure")
	ErrParse             = errors.New("parse failure")
	ErrStructure         = errors.New("structural mismatch")
)

// Format identifies a file's structural kind.
type Format string

const (
	CSV      Format = "csv"
	XLSX     Format = "xlsx"
	JSON     Format = "json"
	XML      Format = "xml"
	YAML     Format = "yaml"
	INI      Format = "ini"
	Text     Format = "txt"
	Markdown Format = "md"
	Code     Format = "code"
)

var formats = []Format{CSV, XLSX, JSON, XML, YAML, INI, Text, Markdown, Code}

// writable lists the formats with a writer, in menu order.
var writable = []Format{CSV, XLSX, JSON, XML, YAML, INI, Text, Markdown}

var aliases = map[string]Format{
	"tabular-csv":  CSV,
	"tabular-xlsx": XLSX,
	"yml":          YAML,
	"plain-text":   Text,
	"text":         Text,
	"markdown":     Markdown,
	"source-code":  Code,
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Writable reports whether f has a writer.
func (f Format) Writable() bool {
	for _, w := range writable {
		if w == f {
			return true
		}
	}
	return false
}

// Formats returns every format, including the read-only [Code].
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name. Recognizes the short names ("csv",
// "txt", "md", ...) and the long aliases ("tabular-csv", "plain-text",
// "markdown", "source-code", ...). Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// LegalTargets returns the formats a file of format f may be converted to.
// Source code may only become plain text or Markdown.
func LegalTargets(f Format) []Format {
	if f == Code {
		return []Format{Text, Markdown}
	}
	out := make([]Format, len(writable))
	copy(out, writable)
	return out
}

// IsLegalTarget reports whether a file of format from may be written as to.
func IsLegalTarget(from, to Format) bool {
	for _, t := range LegalTargets(from) {
		if t == to {
			return true
		}
	}
	return false
}

// Converter detects, reads, and writes files. The zero value is not usable;
// create one with [New]. A Converter is immutable and safe for concurrent use.
type Converter struct {
	opts options
}

// New returns a Converter configured by opts.
func New(opts ...Option) *Converter {
	c := &Converter{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

var std = New()

// Detect returns the format of the file at path using the default Converter.
func Detect(path string) Format { return std.Detect(path) }

// Read loads the file at path as format f using the default Converter.
func Read(path string, f Format) (Value, error) { return std.Read(path, f) }

// Write stores v at path as format f using the default Converter.
func Write(v Value, path string, f Format) error { return std.Write(v, path, f) }

// Unmarshal parses data as format f using the default Converter.
func Unmarshal(data []byte, f Format) (Value, error) { return std.Unmarshal(data, f) }

// Marshal renders v as format f using the default Converter.
func Marshal(v Value, f Format) ([]byte, error) { return std.Marshal(v, f) }

// Read loads the file at path and parses it as format f.
func (c *Converter) Read(path string, f Format) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	v, err := c.Unmarshal(data, f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	c.opts.logger.Debug().
		Str("path", path).
		Str("format", f.String()).
		Str("shape", v.Shape().String()).
		Msg("read")
	return v, nil
}

// Decode reads r to the end and parses it as format f.
func (c *Converter) Decode(r io.Reader, f Format) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	return c.Unmarshal(data, f)
}

// Unmarshal parses data as format f.
func (c *Converter) Unmarshal(data []byte, f Format) (Value, error) {
	switch f {
	case CSV:
		return c.readCSV(data)
	case XLSX:
		return c.readXLSX(data)
	case JSON:
		return c.readJSON(data)
	case XML:
		return c.readXML(data)
	case YAML:
		return c.readYAML(data)
	case INI:
		return c.readINI(data)
	case Text, Markdown, Code:
		return readLines(data, f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Encode renders v as format f and writes it to w.
func (c *Converter) Encode(w io.Writer, v Value, f Format) error {
	if v == nil {
		return &StructuralError{Target: f, Reason: "no value"}
	}
	switch f {
	case CSV:
		return c.writeCSV(w, v)
	case XLSX:
		return c.writeXLSX(w, v)
	case JSON:
		return c.writeJSON(w, v)
	case XML:
		return c.writeXML(w, v)
	case YAML:
		return c.writeYAML(w, v)
	case INI:
		return c.writeINI(w, v)
	case Text:
		return c.writePlain(w, v)
	case Markdown:
		return c.writeMarkdown(w, v)
	default:
		return fmt.Errorf("%w: %q has no writer", ErrUnsupportedFormat, f)
	}
}

// Marshal renders v as format f and returns the bytes.
func (c *Converter) Marshal(v Value, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, v, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders v as format f and atomically replaces the file at path.
// Nothing is created at path when rendering fails.
func (c *Converter) Write(v Value, path string, f Format) error {
	if !f.Writable() {
		return fmt.Errorf("%w: %q has no writer", ErrUnsupportedFormat, f)
	}
	if err := writeFileAtomic(path, func(w io.Writer) error {
		return c.Encode(w, v, f)
	}); err != nil {
		return err
	}
	c.opts.logger.Debug().
		Str("path", path).
		Str("format", f.String()).
		Msg("wrote")
	return nil
}
