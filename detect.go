package fconv

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/tidwall/jsonc"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// sniffSize is how much of a file the content probes see.
const sniffSize = 2048

var sourceExts = map[string]bool{
	".py": true, ".cpp": true, ".c": true, ".h": true, ".java": true,
	".cs": true, ".js": true, ".ts": true, ".go": true, ".rb": true,
	".swift": true, ".sh": true, ".bat": true, ".pl": true, ".php": true,
	".rs": true, ".scala": true, ".kt": true, ".dart": true,
}

var extFormats = map[string]Format{
	".csv":      CSV,
	".xlsx":     XLSX,
	".json":     JSON,
	".xml":      XML,
	".yaml":     YAML,
	".yml":      YAML,
	".ini":      INI,
	".txt":      Text,
	".md":       Markdown,
	".markdown": Markdown,
}

// SourceExtensions returns the file extensions detected as [Code], sorted.
func SourceExtensions() []string {
	out := make([]string, 0, len(sourceExts))
	for ext := range sourceExts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// FormatForExt returns the format mapped to a file extension (with or
// without the leading dot), or false when the extension is unknown.
func FormatForExt(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if sourceExts[ext] {
		return Code, true
	}
	f, ok := extFormats[ext]
	return f, ok
}

// A probe inspects the head of a file and reports whether it looks like its
// format. Probes must not have side effects.
type probe struct {
	format Format
	match  func(c *Converter, head []byte) bool
}

// Ordered: JSON and XML are also valid YAML, and INI brackets are the
// weakest signal.
var probes = []probe{
	{JSON, probeJSON},
	{XML, probeXML},
	{YAML, probeYAML},
	{INI, probeINI},
}

// Detect returns the format of the file at path. It never fails: the
// extension decides when it is known, content probes decide otherwise, and
// [Text] is the fallback.
func (c *Converter) Detect(path string) Format {
	if f, ok := FormatForExt(filepath.Ext(path)); ok {
		c.opts.logger.Debug().Str("path", path).Str("format", f.String()).Msg("detected by extension")
		return f
	}
	head, err := readHead(path)
	if err != nil {
		c.opts.logger.Debug().Err(err).Str("path", path).Msg("sniff failed")
		return Text
	}
	f := c.Sniff(head)
	c.opts.logger.Debug().Str("path", path).Str("format", f.String()).Msg("detected by content")
	return f
}

// Sniff infers a format from the leading bytes of a file. Input that is not
// UTF-8 text, or that no probe recognizes, is [Text].
func (c *Converter) Sniff(head []byte) Format {
	if len(head) > sniffSize {
		head = head[:sniffSize]
	}
	head = trimPartialRune(head)
	if !utf8.Valid(head) {
		return Text
	}
	head = stripBOM(head)
	for _, p := range probes {
		if runProbe(c, p, head) {
			return p.format
		}
	}
	return Text
}

// Language returns the name of the programming language of a source file,
// or "" when no lexer claims the file name.
func Language(path string) string {
	if l := lexers.Match(filepath.Base(path)); l != nil {
		return l.Config().Name
	}
	return ""
}

// languageAlias returns the short fence tag for a source file, such as
// "go" or "python".
func languageAlias(path string) string {
	l := lexers.Match(filepath.Base(path))
	if l == nil {
		return ""
	}
	cfg := l.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

func runProbe(c *Converter, p probe, head []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return p.match(c, head)
}

func probeJSON(c *Converter, head []byte) bool {
	trimmed := bytes.TrimSpace(head)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		return false
	}
	if c.opts.jsonComments {
		trimmed = jsonc.ToJSON(trimmed)
	}
	return json.Valid(trimmed)
}

func probeXML(_ *Converter, head []byte) bool {
	trimmed := bytes.TrimSpace(head)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return false
	}
	return wellFormedXML(trimmed) == nil
}

// probeYAML accepts only documents whose root is a mapping or sequence;
// nearly any text is a valid YAML scalar.
func probeYAML(_ *Converter, head []byte) bool {
	var doc yaml.Node
	if err := yaml.Unmarshal(head, &doc); err != nil {
		return false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return false
	}
	switch doc.Content[0].Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return true
	default:
		return false
	}
}

// probeINI requires the first significant line to be a section header.
func probeINI(_ *Converter, head []byte) bool {
	if !bytes.ContainsRune(head, '[') || !bytes.ContainsRune(head, ']') {
		return false
	}
	for _, line := range strings.Split(string(head), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if !isSectionHeader(line) {
			return false
		}
		break
	}
	_, err := ini.LoadSources(iniLoadOptions, head)
	return err == nil
}

func isSectionHeader(line string) bool {
	return len(line) > 2 && line[0] == '[' && line[len(line)-1] == ']' &&
		!strings.ContainsAny(line[1:len(line)-1], "[]")
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of
// a fixed-size read.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}
		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}
		break
	}
	return b
}
