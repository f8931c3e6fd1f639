package fconv

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errNotUTF8 = errors.New("input is not valid UTF-8")

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(b []byte) []byte {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), b)
	if err != nil {
		return b
	}
	return out
}

// decodeText validates data as UTF-8 and strips a byte order mark.
func decodeText(data []byte, f Format) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, &ParseError{Format: f, Err: errNotUTF8}
	}
	return stripBOM(data), nil
}

// readLines splits text into lines, keeping each terminator.
func readLines(data []byte, f Format) (Value, error) {
	text, err := decodeText(data, f)
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return Lines{}, nil
	}
	return Lines(strings.SplitAfter(string(text), "\n")).trimEmptyTail(), nil
}

func (l Lines) trimEmptyTail() Lines {
	if n := len(l); n > 0 && l[n-1] == "" {
		return l[:n-1]
	}
	return l
}

// writeLines emits lines verbatim.
func writeLines(w io.Writer, lines Lines) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// fenceLines wraps source lines in a Markdown code fence tagged lang. The
// fence grows past any backtick run inside the source.
func fenceLines(lines Lines, lang string) Lines {
	fence := "```"
	for _, line := range lines {
		for strings.Contains(line, fence) {
			fence += "`"
		}
	}
	out := make(Lines, 0, len(lines)+2)
	out = append(out, fence+lang+"\n")
	out = append(out, lines...)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		out[len(out)-1] += "\n"
	}
	out = append(out, fence+"\n")
	return out
}
