package sourcemap

import (
	"slices"
	"strings"
)

// Consumer indexes a map for generated -> original lookups.
type Consumer struct {
	m     *Map
	lines [][]Mapping // lines[genLine], sorted by GenColumn
}

// NewConsumer decodes m. Sources in returned mappings have sourceRoot applied.
func NewConsumer(m *Map) (*Consumer, error) {
	mappings, err := m.Decode()
	if err != nil {
		return nil, err
	}
	c := &Consumer{m: m}
	for _, mp := range mappings {
		if mp.HasSource() {
			mp.Source = joinRoot(m.SourceRoot, mp.Source)
		}
		for len(c.lines) <= mp.GenLine {
			c.lines = append(c.lines, nil)
		}
		c.lines[mp.GenLine] = append(c.lines[mp.GenLine], mp)
	}
	for _, line := range c.lines {
		slices.SortStableFunc(line, compareGenerated)
	}
	return c, nil
}

// Map returns the underlying document.
func (c *Consumer) Map() *Map {
	return c.m
}

// OriginalPosition finds the mapping covering (line, column): the one with the
// greatest generated column not after column on the same generated line.
// Segments without a source do not count as a hit.
func (c *Consumer) OriginalPosition(line, column int) (Mapping, bool) {
	if line < 0 || line >= len(c.lines) {
		return Mapping{}, false
	}
	segs := c.lines[line]
	i, found := slices.BinarySearchFunc(segs, column, func(mp Mapping, col int) int {
		switch {
		case mp.GenColumn < col:
			return -1
		case mp.GenColumn > col:
			return 1
		}
		return 0
	})
	if found {
		// при дублях берём последний сегмент с той же колонкой
		for i+1 < len(segs) && segs[i+1].GenColumn == column {
			i++
		}
	} else {
		i--
	}
	if i < 0 {
		return Mapping{}, false
	}
	mp := segs[i]
	if !mp.HasSource() {
		return Mapping{}, false
	}
	return mp, true
}

// SourceContent returns embedded content for a source as reported by lookups.
func (c *Consumer) SourceContent(source string) (string, bool) {
	for i, src := range c.m.Sources {
		if joinRoot(c.m.SourceRoot, src) == source {
			return c.m.SourceContent(i)
		}
	}
	return "", false
}

// Sources lists the map's sources with sourceRoot applied.
func (c *Consumer) Sources() []string {
	out := make([]string, len(c.m.Sources))
	for i, src := range c.m.Sources {
		out[i] = joinRoot(c.m.SourceRoot, src)
	}
	return out
}

func joinRoot(root, src string) string {
	if root == "" || strings.HasPrefix(src, "/") || strings.Contains(src, "://") {
		return src
	}
	if strings.HasSuffix(root, "/") {
		return root + src
	}
	return root + "/" + src
}
