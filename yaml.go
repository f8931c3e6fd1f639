package fconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	errMultipleDocuments = errors.New("expected a single document")
	errAliasCycle        = errors.New("alias refers to itself")
	errAliasExpansion    = errors.New("document is too large after expanding aliases")
	yamlLine             = regexp.MustCompile(`line (\d+)`)
)

// yamlExpansionRatio bounds how many nodes a document may build per input
// byte once aliases are expanded.
const (
	yamlExpansionRatio = 64
	yamlExpansionFloor = 4096
)

func (c *Converter) readYAML(data []byte) (Value, error) {
	text, err := decodeText(data, YAML)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(text))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, yamlParseError(err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, &ParseError{Format: YAML, Line: extra.Line, Column: extra.Column, Err: errMultipleDocuments}
		}
		return nil, yamlParseError(err)
	}
	root, err := newNodeWalker(len(text)).walk(&doc)
	if err != nil {
		return nil, yamlParseError(err)
	}
	if root == nil && (len(doc.Content) == 0 || doc.Content[0].Tag == "!!null") {
		return &Table{}, nil
	}
	v := normalize(root)
	c.opts.logger.Debug().Str("shape", v.Shape().String()).Msg("yaml parsed")
	return v, nil
}

// nodeWalker converts a YAML node tree into ordered values: mappings become
// *Mapping, sequences []any, and scalars their natural Go type. Aliases are
// expanded in place; a self-referencing alias or an expansion past budget
// nodes fails.
type nodeWalker struct {
	expanding map[*yaml.Node]bool
	budget    int
}

func newNodeWalker(size int) *nodeWalker {
	return &nodeWalker{
		expanding: map[*yaml.Node]bool{},
		budget:    max(yamlExpansionFloor, size*yamlExpansionRatio),
	}
}

func (w *nodeWalker) walk(n *yaml.Node) (any, error) {
	if w.budget--; w.budget < 0 {
		return nil, fmt.Errorf("line %d: %w", n.Line, errAliasExpansion)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.walk(n.Content[0])
	case yaml.AliasNode:
		if w.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: %w", n.Line, errAliasCycle)
		}
		w.expanding[n.Alias] = true
		defer delete(w.expanding, n.Alias)
		return w.walk(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := w.walk(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			val, err := w.walk(v)
			if err != nil {
				return nil, err
			}
			if k.Tag == "!!merge" {
				mergeInto(m, val)
				continue
			}
			key, err := w.key(k)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.ScalarNode:
		var out any
		if err := n.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// mergeInto applies a "<<" merge key: keys already present win.
func mergeInto(m *Mapping, src any) {
	switch s := src.(type) {
	case *Mapping:
		for _, k := range s.Keys {
			if _, ok := m.Get(k); !ok {
				m.Set(k, s.Values[k])
			}
		}
	case []any:
		for _, item := range s {
			mergeInto(m, item)
		}
	}
}

func (w *nodeWalker) key(k *yaml.Node) (string, error) {
	if k.Kind == yaml.ScalarNode {
		return k.Value, nil
	}
	v, err := w.walk(k)
	if err != nil {
		return "", err
	}
	return stringify(v)
}

func yamlParseError(err error) error {
	pe := &ParseError{Format: YAML, Err: err}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

func (c *Converter) writeYAML(w io.Writer, v Value) error {
	t, err := tableFor(v, YAML)
	if err != nil {
		return err
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if t.Len() == 0 {
		seq.Style = yaml.FlowStyle
	}
	for i := range t.Rows {
		rec, err := rowMapping(t, i).MarshalYAML()
		if err != nil {
			return &StructuralError{Shape: ShapeTable, Target: YAML, Reason: fmt.Sprintf("row %d", i), Err: err}
		}
		seq.Content = append(seq.Content, rec.(*yaml.Node))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(c.opts.indent)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}
