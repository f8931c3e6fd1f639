// Package fconv converts files between structured and semi-structured
// formats.
//
// Supported formats are CSV, XLSX, JSON, XML, YAML, INI, plain text,
// Markdown, and source code (read-only). Every reader produces one canonical
// [Value] and every writer consumes one, so any readable format converts to
// any writable one. The central entry points are [Detect], [Read], [Write],
// and [Convert].
//
// # Values
//
// A [Value] is exactly one of:
//
//   - [*Table] — ordered rows over a shared column list (CSV, XLSX, lists of
//     records, XML records, INI sections)
//   - [*Mapping] — a single ordered object (a JSON or YAML object)
//   - [Lines] — raw text lines (plain text, Markdown, source code)
//   - [Scalar] — a bare top-level value, which no writer accepts
//
// Writers for structured targets promote a Mapping to a one-row table and
// Lines to a one-column table named "line".
//
// # Detection
//
// [Detect] maps known extensions directly, so a broken file.json still
// detects as JSON and fails at read time. Files with other extensions are
// sniffed from their first 2048 bytes, trying JSON, XML, YAML, and INI in
// that order, and fall back to plain text:
//
//	f := fconv.Detect("export.dat")
//	v, err := fconv.Read("export.dat", f)
//
// # Conversion
//
// [Convert] loads a file, checks the target against [LegalTargets], and
// writes it atomically. Source code may only become plain text or Markdown:
//
//	err := fconv.Convert("people.csv", "people.xml", fconv.XML)
//	if errors.Is(err, fconv.ErrIllegalTarget) { ... }
//
// # Errors
//
// Reads fail with [*IOError] or [*ParseError]; writes fail with
// [*StructuralError] or [*IOError]. Each matches its sentinel through
// [errors.Is]: [ErrIO], [ErrParse], [ErrStructure].
//
// # Options
//
// Use [New] with options such as [WithDelimiter], [WithIndent],
// [WithRecordNames], and [WithLogger] to configure a [Converter]. The
// package-level functions use a default Converter.
package fconv
