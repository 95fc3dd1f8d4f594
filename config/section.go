// Package config reads an architecture description, fills in defaults,
// expands convenience fields and decodes every domain into a typed spec.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Names of the fixed domains. Cache and TLB levels use their level name as
// the domain.
const (
	DomainSystem = "SYSTEM"
	DomainCore   = "CORE"
	DomainDRAM   = "DRAM"
	DomainOS     = "OS"
)

// A Section holds the raw fields of one domain. Field names are lower case.
// Validation mutates sections in place.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

// NewSection creates an empty section.
func NewSection(name string) *Section {
	return &Section{
		name:   name,
		values: make(map[string]string),
	}
}

// Name returns the section name as written in the file.
func (s *Section) Name() string {
	return s.name
}

// Get returns the value of a field.
func (s *Section) Get(field string) (string, bool) {
	v, ok := s.values[strings.ToLower(field)]
	return v, ok
}

// Has reports whether the field is present.
func (s *Section) Has(field string) bool {
	_, ok := s.Get(field)
	return ok
}

// Set adds or overwrites a field.
func (s *Section) Set(field, value string) {
	field = strings.ToLower(field)
	if _, ok := s.values[field]; !ok {
		s.keys = append(s.keys, field)
	}

	s.values[field] = value
}

// Keys lists field names in insertion order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Document is an ordered set of sections.
type Document struct {
	sections []*Section
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Section finds a section by name, ignoring letter case.
func (d *Document) Section(name string) (*Section, bool) {
	for _, s := range d.sections {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}

	return nil, false
}

// SectionOrEmpty returns the named section, adding an empty one if it does
// not exist yet. Domains whose fields are all optional use it.
func (d *Document) SectionOrEmpty(name string) *Section {
	if s, ok := d.Section(name); ok {
		return s
	}

	return d.AddSection(name)
}

// AddSection appends a new empty section.
func (d *Document) AddSection(name string) *Section {
	s := NewSection(name)
	d.sections = append(d.sections, s)

	return s
}

// Sections lists all sections in file order.
func (d *Document) Sections() []*Section {
	return append([]*Section(nil), d.sections...)
}

// Load reads a sectioned key=value file.
func Load(path string) (*Document, error) {
	doc, err := parse(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return doc, nil
}

// Parse reads a sectioned key=value document from memory.
func Parse(data []byte) (*Document, error) {
	return parse(data)
}

func parse(source any) (*Document, error) {
	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, source)
	if err != nil {
		return nil, err
	}

	var defaults *ini.Section

	doc := NewDocument()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			defaults = sec
			continue
		}

		s := doc.AddSection(sec.Name())
		for _, k := range sec.Keys() {
			s.Set(k.Name(), strings.TrimSpace(k.String()))
		}
	}

	// Fields of [DEFAULT] (or written before the first header) apply to every
	// section that does not set them itself.
	if defaults != nil {
		for _, s := range doc.sections {
			for _, k := range defaults.Keys() {
				if !s.Has(k.Name()) {
					s.Set(k.Name(), strings.TrimSpace(k.String()))
				}
			}
		}
	}

	return doc, nil
}
