package fconv

import (
	"fmt"
	"io"
)

// Document is a loaded file: where it came from, its detected format and
// its canonical value.
type Document struct {
	Path   string
	Format Format
	Value  Value
}

// Language returns the source language name when the document is code.
func (d *Document) Language() string {
	if d.Format != Code {
		return ""
	}
	return Language(d.Path)
}

// Load detects and reads the file at path using the default Converter.
func Load(path string) (*Document, error) { return std.Load(path) }

// Convert converts src to dst as format to using the default Converter.
func Convert(src, dst string, to Format) error { return std.Convert(src, dst, to) }

// Load detects the format of the file at path and reads it.
func (c *Converter) Load(path string) (*Document, error) {
	f := c.Detect(path)
	v, err := c.Read(path, f)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Format: f, Value: v}, nil
}

// Convert loads src and writes it to dst as format to. Illegal targets are
// rejected before dst is touched. Source code is copied line for line, or
// fenced when the target is Markdown and fencing is enabled.
func (c *Converter) Convert(src, dst string, to Format) error {
	doc, err := c.Load(src)
	if err != nil {
		return err
	}
	return c.Save(doc, dst, to)
}

// Save writes a loaded document to dst as format to.
func (c *Converter) Save(doc *Document, dst string, to Format) error {
	if !to.Writable() {
		return fmt.Errorf("%w: %q has no writer", ErrUnsupportedFormat, to)
	}
	if !IsLegalTarget(doc.Format, to) {
		return &StructuralError{
			Shape:  doc.Value.Shape(),
			Target: to,
			Reason: fmt.Sprintf("%s input may only become %v", doc.Format, LegalTargets(doc.Format)),
			Err:    ErrIllegalTarget,
		}
	}
	if doc.Format == Code {
		lines, ok := doc.Value.(Lines)
		if !ok {
			return &StructuralError{Shape: doc.Value.Shape(), Target: to, Reason: "source code must be lines"}
		}
		if to == Markdown && c.opts.fenceSource {
			lines = fenceLines(lines, languageAlias(doc.Path))
		}
		if err := writeFileAtomic(dst, func(w io.Writer) error {
			return writeLines(w, lines)
		}); err != nil {
			return err
		}
	} else if err := c.Write(doc.Value, dst, to); err != nil {
		return err
	}
	c.opts.logger.Info().
		Str("src", doc.Path).
		Str("dst", dst).
		Str("from", doc.Format.String()).
		Str("to", to.String()).
		Msg("converted")
	return nil
}
