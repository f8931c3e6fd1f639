package fconv

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

const xmlHeader = "<?xml version='1.0' encoding='utf-8'?>\n"

var (
	errNoRoot        = errors.New("no root element")
	errAfterRoot     = errors.New("junk after document element")
	errXMLChar       = errors.New("character not allowed in XML")
	tagUnsafe        = regexp.MustCompile(`[^a-zA-Z0-9_.]`)
	tagSafeStart     = regexp.MustCompile(`^[a-zA-Z_]`)
	tagInvalidPrefix = "f_"
)

// SanitizeTag turns an arbitrary column name into a well-formed XML element
// name: surrounding space is trimmed, every character outside [A-Za-z0-9_.]
// becomes "_", and a name not starting with a letter or underscore gets the
// "f_" prefix.
func SanitizeTag(name string) string {
	tag := tagUnsafe.ReplaceAllString(strings.TrimSpace(name), "_")
	if !tagSafeStart.MatchString(tag) {
		return tagInvalidPrefix + tag
	}
	return tag
}

// EscapeText entity-escapes s for use as XML element text, quotes included.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// checkXMLText returns an error naming the first rune of s that XML 1.0
// does not allow in character data.
func checkXMLText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return fmt.Errorf("%w: invalid UTF-8 at byte %d", errXMLChar, i)
			}
		}
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U", errXMLChar, r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}

// xmlNode is the subset of an element the record heuristic needs: its local
// name, the text before its first child, and its child elements.
type xmlNode struct {
	name     string
	text     string
	hasText  bool
	children []*xmlNode
}

func (n *xmlNode) value() any {
	if !n.hasText {
		return nil
	}
	return n.text
}

// parseXMLTree builds the element tree of a single-rooted document.
func parseXMLTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			case root != nil:
				line, _ := dec.InputPos()
				return nil, &xml.SyntaxError{Msg: errAfterRoot.Error(), Line: line}
			default:
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					line, _ := dec.InputPos()
					return nil, &xml.SyntaxError{Msg: errAfterRoot.Error(), Line: line}
				}
				continue
			}
			top := stack[len(stack)-1]
			if len(top.children) == 0 {
				top.text += string(t)
				top.hasText = true
			}
		}
	}
	if root == nil {
		return nil, errNoRoot
	}
	return root, nil
}

// wellFormedXML reports whether data is a complete single-rooted document.
func wellFormedXML(data []byte) error {
	_, err := parseXMLTree(data)
	return err
}

// readXML treats each child of the root as a record and each grandchild as
// a column. When no record has columns, the root's children form a single
// mapping instead.
func (c *Converter) readXML(data []byte) (Value, error) {
	text, err := decodeText(data, XML)
	if err != nil {
		return nil, err
	}
	root, err := parseXMLTree(text)
	if err != nil {
		pe := &ParseError{Format: XML, Err: err}
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			pe.Line = se.Line
			pe.Err = errors.New(se.Msg)
		}
		return nil, pe
	}
	t := &Table{}
	for _, rec := range root.children {
		m := NewMapping()
		for _, field := range rec.children {
			m.Set(field.name, field.value())
		}
		if m.Len() > 0 {
			t.AppendMapping(m)
		}
	}
	if t.Len() > 0 {
		t.pad()
		c.opts.logger.Debug().Str("root", root.name).Int("rows", t.Len()).Msg("xml records parsed")
		return t, nil
	}
	m := NewMapping()
	for _, child := range root.children {
		m.Set(child.name, child.value())
	}
	c.opts.logger.Debug().Str("root", root.name).Int("keys", m.Len()).Msg("xml has no records, read as mapping")
	return m, nil
}

func (c *Converter) writeXML(w io.Writer, v Value) error {
	t, err := tableFor(v, XML)
	if err != nil {
		return err
	}
	root := SanitizeTag(c.opts.rootName)
	record := SanitizeTag(c.opts.recordName)
	tags := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		tags[j] = SanitizeTag(col)
	}
	if _, err := io.WriteString(w, xmlHeader); err != nil {
		return err
	}
	if t.Len() == 0 {
		_, err := fmt.Fprintf(w, "<%s/>\n", root)
		return err
	}
	if _, err := fmt.Fprintf(w, "<%s>\n", root); err != nil {
		return err
	}
	for i := range t.Rows {
		cells, err := rowStrings(t, i, XML)
		if err != nil {
			return err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "  <%s>\n", record)
		for j, tag := range tags {
			if j >= len(t.Rows[i]) || t.Rows[i][j] == nil {
				fmt.Fprintf(&sb, "    <%s/>\n", tag)
				continue
			}
			if err := checkXMLText(cells[j]); err != nil {
				return &StructuralError{
					Shape:  ShapeTable,
					Target: XML,
					Reason: fmt.Sprintf("row %d column %q", i, t.Columns[j]),
					Err:    err,
				}
			}
			fmt.Fprintf(&sb, "    <%s>%s</%s>\n", tag, EscapeText(cells[j]), tag)
		}
		fmt.Fprintf(&sb, "  </%s>\n", record)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "</%s>\n", root)
	return err
}
