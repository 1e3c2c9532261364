package sourcemap

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Mapping links one generated position to an original one. Source == "" means
// the segment only marks a generated column without an origin.
type Mapping struct {
	GenLine    int
	GenColumn  int
	Source     string
	OrigLine   int
	OrigColumn int
	Name       string
}

// HasSource reports whether the mapping points into an original file.
func (m Mapping) HasSource() bool {
	return m.Source != ""
}

func compareGenerated(a, b Mapping) int {
	if c := cmp.Compare(a.GenLine, b.GenLine); c != 0 {
		return c
	}
	return cmp.Compare(a.GenColumn, b.GenColumn)
}

// Decode expands the mappings string. Source names are taken verbatim from
// Sources (sourceRoot is not applied).
func (m *Map) Decode() ([]Mapping, error) {
	var out []Mapping
	genLine, genCol := 0, 0
	srcIdx, origLine, origCol, nameI := 0, 0, 0, 0
	s := m.Mappings
	pos := 0
	for pos < len(s) {
		switch s[pos] {
		case ';':
			genLine++
			genCol = 0
			pos++
			continue
		case ',':
			pos++
			continue
		}

		var fields [5]int
		n := 0
		for pos < len(s) && s[pos] != ',' && s[pos] != ';' {
			if n == len(fields) {
				return nil, fmt.Errorf("mappings: segment with more than 5 fields at line %d", genLine)
			}
			v, next, err := decodeVLQ(s, pos)
			if err != nil {
				return nil, fmt.Errorf("mappings: line %d: %w", genLine, err)
			}
			fields[n] = v
			n++
			pos = next
		}
		if n != 1 && n != 4 && n != 5 {
			return nil, fmt.Errorf("mappings: segment with %d fields at line %d", n, genLine)
		}

		genCol += fields[0]
		mp := Mapping{GenLine: genLine, GenColumn: genCol}
		if n >= 4 {
			srcIdx += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			if srcIdx < 0 || srcIdx >= len(m.Sources) {
				return nil, fmt.Errorf("mappings: source index %d out of range at line %d", srcIdx, genLine)
			}
			mp.Source = m.Sources[srcIdx]
			mp.OrigLine = origLine
			mp.OrigColumn = origCol
		}
		if n == 5 {
			nameI += fields[4]
			if nameI < 0 || nameI >= len(m.Names) {
				return nil, fmt.Errorf("mappings: name index %d out of range at line %d", nameI, genLine)
			}
			mp.Name = m.Names[nameI]
		}
		out = append(out, mp)
	}
	return out, nil
}

// encodeMappings writes mappings (sorted by generated position) using the given
// source and name tables. Exact consecutive duplicates are dropped.
func encodeMappings(mappings []Mapping, sourceIdx, nameIdx map[string]int) string {
	sorted := slices.Clone(mappings)
	slices.SortStableFunc(sorted, compareGenerated)

	var sb strings.Builder
	line, prevCol := 0, 0
	prevSrc, prevOrigLine, prevOrigCol, prevName := 0, 0, 0, 0
	first := true
	var prev Mapping
	for i, mp := range sorted {
		if i > 0 && mp == prev {
			continue
		}
		for line < mp.GenLine {
			sb.WriteByte(';')
			line++
			prevCol = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false

		encodeVLQ(&sb, mp.GenColumn-prevCol)
		prevCol = mp.GenColumn
		if mp.HasSource() {
			src := sourceIdx[mp.Source]
			encodeVLQ(&sb, src-prevSrc)
			prevSrc = src
			encodeVLQ(&sb, mp.OrigLine-prevOrigLine)
			prevOrigLine = mp.OrigLine
			encodeVLQ(&sb, mp.OrigColumn-prevOrigCol)
			prevOrigCol = mp.OrigColumn
			if mp.Name != "" {
				name := nameIdx[mp.Name]
				encodeVLQ(&sb, name-prevName)
				prevName = name
			}
		}
		prev = mp
	}
	return sb.String()
}
