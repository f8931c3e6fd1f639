package fconv

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/ini.v1"
)

var iniLoadOptions = ini.LoadOptions{
	SpaceBeforeInlineComment:   true,
	AllowPythonMultilineValues: true,
}

var errEmptySection = errors.New("empty section name")

// SectionMap is INI content: section names in file order, each with its
// keys.
type SectionMap struct {
	Names    []string
	Sections map[string]*Mapping
}

// Table flattens the sections into one row per section, labelled with the
// section name. Columns are the union of keys in first-seen order.
func (s *SectionMap) Table() *Table {
	t := &Table{}
	for _, name := range s.Names {
		t.AppendMapping(s.Sections[name])
		t.Labels = append(t.Labels, name)
	}
	t.pad()
	return t
}

func (c *Converter) readINI(data []byte) (Value, error) {
	text, err := decodeText(data, INI)
	if err != nil {
		return nil, err
	}
	sm, err := parseSections(text)
	if err != nil {
		return nil, err
	}
	t := sm.Table()
	c.opts.logger.Debug().Int("sections", t.Len()).Int("keys", len(t.Columns)).Msg("ini parsed")
	return t, nil
}

// parseSections loads INI text. Keys of the default section are inherited
// by every named section; when there are no named sections the default
// section stands alone.
func parseSections(text []byte) (*SectionMap, error) {
	cfg, err := ini.LoadSources(iniLoadOptions, text)
	if err != nil {
		return nil, &ParseError{Format: INI, Err: err}
	}
	sm := &SectionMap{Sections: map[string]*Mapping{}}
	defaults := cfg.Section(ini.DefaultSection)
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		m := NewMapping()
		for _, key := range sec.Keys() {
			m.Set(key.Name(), key.Value())
		}
		for _, key := range defaults.Keys() {
			if _, ok := m.Get(key.Name()); !ok {
				m.Set(key.Name(), key.Value())
			}
		}
		sm.Names = append(sm.Names, sec.Name())
		sm.Sections[sec.Name()] = m
	}
	if len(sm.Names) == 0 && len(defaults.Keys()) > 0 {
		m := NewMapping()
		for _, key := range defaults.Keys() {
			m.Set(key.Name(), key.Value())
		}
		sm.Names = append(sm.Names, ini.DefaultSection)
		sm.Sections[ini.DefaultSection] = m
	}
	return sm, nil
}

// sectionsFor inverts the flattening: each row becomes a section named by
// its label, the index column, or its position.
func (c *Converter) sectionsFor(t *Table) (*SectionMap, error) {
	index := -1
	if len(t.Labels) == 0 && c.opts.indexColumn != "" {
		index = t.Column(c.opts.indexColumn)
	}
	sm := &SectionMap{Sections: map[string]*Mapping{}}
	for i := range t.Rows {
		cells, err := rowStrings(t, i, INI)
		if err != nil {
			return nil, err
		}
		var name string
		switch {
		case i < len(t.Labels):
			name = t.Labels[i]
		case index >= 0:
			name = cells[index]
		default:
			name = strconv.Itoa(i)
		}
		if name == "" {
			return nil, &StructuralError{Shape: ShapeTable, Target: INI, Reason: fmt.Sprintf("row %d", i), Err: errEmptySection}
		}
		m, ok := sm.Sections[name]
		if !ok {
			m = NewMapping()
			sm.Names = append(sm.Names, name)
			sm.Sections[name] = m
		}
		for j, col := range t.Columns {
			if j == index || j >= len(t.Rows[i]) || t.Rows[i][j] == nil {
				continue
			}
			m.Set(col, cells[j])
		}
	}
	return sm, nil
}

// nestedSections reports whether m is already shaped like INI content: every
// value is itself a mapping. Nested values are stringified.
func nestedSections(m *Mapping) (*SectionMap, bool, error) {
	if m.Len() == 0 {
		return nil, false, nil
	}
	sm := &SectionMap{Sections: map[string]*Mapping{}}
	for _, name := range m.Keys {
		sec, ok := m.Values[name].(*Mapping)
		if !ok {
			return nil, false, nil
		}
		flat := NewMapping()
		for _, k := range sec.Keys {
			if sec.Values[k] == nil {
				continue
			}
			s, err := stringify(sec.Values[k])
			if err != nil {
				return nil, false, &StructuralError{Shape: ShapeMapping, Target: INI, Reason: fmt.Sprintf("section %q key %q", name, k), Err: err}
			}
			flat.Set(k, s)
		}
		sm.Names = append(sm.Names, name)
		sm.Sections[name] = flat
	}
	return sm, true, nil
}

func (c *Converter) writeINI(w io.Writer, v Value) error {
	var sm *SectionMap
	if m, ok := v.(*Mapping); ok {
		nested, ok, err := nestedSections(m)
		if err != nil {
			return err
		}
		if ok {
			sm = nested
		}
	}
	if sm == nil {
		t, err := tableFor(v, INI)
		if err != nil {
			return err
		}
		if sm, err = c.sectionsFor(t); err != nil {
			return err
		}
	}
	cfg := ini.Empty()
	for _, name := range sm.Names {
		sec, err := cfg.NewSection(name)
		if err != nil {
			return &StructuralError{Shape: ShapeTable, Target: INI, Reason: fmt.Sprintf("section %q", name), Err: err}
		}
		m := sm.Sections[name]
		for _, k := range m.Keys {
			val, _ := m.Get(k)
			if _, err := sec.NewKey(k, val.(string)); err != nil {
				return &StructuralError{Shape: ShapeTable, Target: INI, Reason: fmt.Sprintf("key %q", k), Err: err}
			}
		}
	}
	_, err := cfg.WriteTo(w)
	return err
}
