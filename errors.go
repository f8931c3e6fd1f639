package fconv

import (
	"fmt"
	"strings"
)

// IOError reports a file that could not be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrIO].
func (e *IOError) Is(target error) bool { return target == ErrIO }

// ParseError reports malformed content for the format being read.
// Line and Column are 1-based and zero when unknown.
type ParseError struct {
	Format Format
	Path   string
	Line   int
	Column int
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse ")
	sb.WriteString(e.Format.String())
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, " (line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&sb, ", column %d", e.Column)
		}
		sb.WriteString(")")
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	return sb.String()
}

// Unwrap returns the underlying syntax error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// StructuralError reports a value whose shape the target format cannot hold.
type StructuralError struct {
	Shape  Shape
	Target Format
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("cannot write %s as %s", e.Shape, e.Target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *StructuralError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrStructure].
func (e *StructuralError) Is(target error) bool { return target == ErrStructure }
