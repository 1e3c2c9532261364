package sourcemap

import (
	"slices"
)

// Generator accumulates mappings and renders a Map.
type Generator struct {
	file     string
	sources  []string
	contents map[string]string
	mappings []Mapping
}

// NewGenerator starts an empty map for the generated file.
func NewGenerator(file string) *Generator {
	return &Generator{
		file:     file,
		contents: make(map[string]string),
	}
}

// FromMap seeds a generator with every mapping, source and embedded content of m.
// The source list keeps m's order, including sources no mapping refers to.
// sourceRoot is folded into the source names.
func FromMap(m *Map) (*Generator, error) {
	mappings, err := m.Decode()
	if err != nil {
		return nil, err
	}
	g := NewGenerator(m.File)
	for i, src := range m.Sources {
		src = joinRoot(m.SourceRoot, src)
		g.addSource(src)
		if content, ok := m.SourceContent(i); ok {
			g.contents[src] = content
		}
	}
	for i := range mappings {
		if mappings[i].HasSource() {
			mappings[i].Source = joinRoot(m.SourceRoot, mappings[i].Source)
		}
	}
	g.mappings = mappings
	return g, nil
}

func (g *Generator) addSource(src string) {
	if src == "" || slices.Contains(g.sources, src) {
		return
	}
	g.sources = append(g.sources, src)
}

// AddMapping appends a mapping; its source is registered on first use.
func (g *Generator) AddMapping(mp Mapping) {
	if mp.HasSource() {
		g.addSource(mp.Source)
	}
	g.mappings = append(g.mappings, mp)
}

// SetSourceContent embeds content for src.
func (g *Generator) SetSourceContent(src, content string) {
	g.contents[src] = content
}

// Mappings returns a sorted copy of the current mappings.
func (g *Generator) Mappings() []Mapping {
	out := slices.Clone(g.mappings)
	slices.SortStableFunc(out, compareGenerated)
	return out
}

// ApplyMap folds an upstream map into the generator. Every mapping whose source
// satisfies matches is looked up in upstream by its original position (which is a
// generated position of upstream) and re-pointed at upstream's original position.
// Mappings without an upstream hit keep their current origin.
func (g *Generator) ApplyMap(upstream *Consumer, matches func(source string) bool) {
	if upstream == nil || matches == nil {
		return
	}
	sources := make([]string, 0, len(g.sources))
	add := func(src string) {
		if !slices.Contains(sources, src) {
			sources = append(sources, src)
		}
	}
	kept := make(map[string]bool)
	for i, mp := range g.mappings {
		if !mp.HasSource() {
			continue
		}
		if !matches(mp.Source) {
			add(mp.Source)
			continue
		}
		orig, ok := upstream.OriginalPosition(mp.OrigLine, mp.OrigColumn)
		if !ok {
			kept[mp.Source] = true
			add(mp.Source)
			continue
		}
		mp.Source = orig.Source
		mp.OrigLine = orig.OrigLine
		mp.OrigColumn = orig.OrigColumn
		if orig.Name != "" {
			mp.Name = orig.Name
		}
		g.mappings[i] = mp
		add(mp.Source)
		if content, has := upstream.SourceContent(orig.Source); has {
			g.contents[orig.Source] = content
		}
	}
	// источники без маппингов сохраняем, если их не свернули
	for _, src := range g.sources {
		if matches(src) && !kept[src] {
			if !slices.Contains(sources, src) {
				delete(g.contents, src)
			}
			continue
		}
		add(src)
	}
	g.sources = sources
}

// Map renders the current state.
func (g *Generator) Map() *Map {
	sorted := g.Mappings()
	names := make([]string, 0)
	nameIdx := make(map[string]int)
	for _, mp := range sorted {
		if mp.Name == "" || !mp.HasSource() {
			continue
		}
		if _, ok := nameIdx[mp.Name]; !ok {
			nameIdx[mp.Name] = len(names)
			names = append(names, mp.Name)
		}
	}
	sourceIdx := make(map[string]int, len(g.sources))
	for i, src := range g.sources {
		sourceIdx[src] = i
	}

	m := &Map{
		Version:  Version,
		File:     g.file,
		Sources:  slices.Clone(g.sources),
		Names:    names,
		Mappings: encodeMappings(sorted, sourceIdx, nameIdx),
	}
	if m.Sources == nil {
		m.Sources = []string{}
	}
	hasContent := false
	contents := make([]*string, len(g.sources))
	for i, src := range g.sources {
		if content, ok := g.contents[src]; ok {
			contents[i] = &content
			hasContent = true
		}
	}
	if hasContent {
		m.SourcesContent = contents
	}
	return m
}

// String renders the map as JSON.
func (g *Generator) String() string {
	return g.Map().String()
}
