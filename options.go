package fconv

import "github.com/rs/zerolog"

// Option configures a [Converter].
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	comma        rune
	indent       int
	rootName     string
	recordName   string
	indexColumn  string
	jsonComments bool
	fenceSource  bool
	border       BorderStyle
	maxCellWidth int
	headerStyle  func(string) string
}

func defaultOptions() options {
	return options{
		logger:       zerolog.Nop(),
		comma:        ',',
		indent:       2,
		rootName:     "records",
		recordName:   "record",
		border:       BorderRounded,
		maxCellWidth: 40,
	}
}

// WithLogger sets the logger used for debug events. Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDelimiter sets the CSV field delimiter for both reading and writing.
// Default: comma.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if r != 0 {
			o.comma = r
		}
	}
}

// WithIndent sets the JSON and YAML indentation width in spaces.
// Default: 2.
func WithIndent(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.indent = n
		}
	}
}

// WithRecordNames sets the XML root and per-row element names.
// Default: "records" and "record". Names are sanitized with [SanitizeTag].
func WithRecordNames(root, record string) Option {
	return func(o *options) {
		if root != "" {
			o.rootName = root
		}
		if record != "" {
			o.recordName = record
		}
	}
}

// WithIndexColumn names the column that supplies INI section names when a
// table carries no row labels. The column is not repeated as a key.
func WithIndexColumn(name string) Option {
	return func(o *options) { o.indexColumn = name }
}

// WithJSONComments makes the JSON reader accept // and /* */ comments and
// trailing commas.
func WithJSONComments(on bool) Option {
	return func(o *options) { o.jsonComments = on }
}

// WithFenceSource wraps source code written as Markdown in a fenced code
// block tagged with the detected language.
func WithFenceSource(on bool) Option {
	return func(o *options) { o.fenceSource = on }
}

// WithBorder sets the border style used by [Converter.Preview].
// Default: BorderRounded.
func WithBorder(b BorderStyle) Option {
	return func(o *options) { o.border = b }
}

// WithMaxCellWidth truncates preview cells wider than n columns with "...".
// Zero disables truncation. Default: 40.
func WithMaxCellWidth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxCellWidth = n
		}
	}
}

// WithHeaderStyle wraps each rendered preview header cell, typically to add
// terminal colors. The function receives padded text and must not change its
// visible width.
func WithHeaderStyle(style func(string) string) Option {
	return func(o *options) { o.headerStyle = style }
}
