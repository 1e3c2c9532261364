package sourcemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Version is the only source map revision this package understands.
const Version = 3

// ErrVersion is returned by Parse for maps that are not version 3.
var ErrVersion = errors.New("unsupported source map version")

// Map is the structured JSON document.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// Parse decodes a version-3 map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse source map: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, m.Version)
	}
	if m.Sources == nil {
		m.Sources = []string{}
	}
	if m.Names == nil {
		m.Names = []string{}
	}
	return &m, nil
}

// ParseString is Parse for text artifacts.
func ParseString(s string) (*Map, error) {
	return Parse([]byte(s))
}

// Marshal encodes the map as compact JSON.
func (m *Map) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// String returns the JSON form, or "" if the map cannot be encoded.
func (m *Map) String() string {
	data, err := m.Marshal()
	if err != nil {
		return ""
	}
	return string(data)
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := *m
	out.Sources = append([]string(nil), m.Sources...)
	out.Names = append([]string(nil), m.Names...)
	if m.SourcesContent != nil {
		out.SourcesContent = append([]*string(nil), m.SourcesContent...)
	}
	return &out
}

// NormalizeSeparators rewrites Windows separators in file and sources to '/'.
func (m *Map) NormalizeSeparators() {
	m.File = strings.ReplaceAll(m.File, `\`, "/")
	for i, src := range m.Sources {
		m.Sources[i] = strings.ReplaceAll(src, `\`, "/")
	}
}

// SourceContent returns the embedded content for source index i, if any.
func (m *Map) SourceContent(i int) (string, bool) {
	if i < 0 || i >= len(m.SourcesContent) || m.SourcesContent[i] == nil {
		return "", false
	}
	return *m.SourcesContent[i], true
}

// SourcePath returns source i with sourceRoot applied, or "" when out of range.
func (m *Map) SourcePath(i int) string {
	if i < 0 || i >= len(m.Sources) {
		return ""
	}
	return joinRoot(m.SourceRoot, m.Sources[i])
}
