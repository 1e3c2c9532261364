package sourcemap

import (
	"slices"
	"testing"
)

func mustParse(t *testing.T, s string) *Map {
	t.Helper()
	m, err := ParseString(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return m
}

func mustConsumer(t *testing.T, s string) *Consumer {
	t.Helper()
	c, err := NewConsumer(mustParse(t, s))
	if err != nil {
		t.Fatalf("consumer: %v", err)
	}
	return c
}

func TestFromMapIsIdentity(t *testing.T) {
	for _, mappings := range []string{"AAAA", "AAAA,EAAE;ACCA", "AAAA;;ECCC,CAAC", "AACA;AAAA"} {
		m := &Map{Version: 3, File: "out.js", Sources: []string{"a.ts", "b.ts"}, Names: []string{}, Mappings: mappings}
		g, err := FromMap(m)
		if err != nil {
			t.Fatalf("FromMap: %v", err)
		}
		out := g.Map()
		if out.Mappings != mappings {
			t.Errorf("mappings = %q, want %q", out.Mappings, mappings)
		}
		if !slices.Equal(out.Sources, m.Sources) {
			t.Errorf("sources = %v, want %v", out.Sources, m.Sources)
		}
		if out.File != "out.js" {
			t.Errorf("file = %q", out.File)
		}
	}
}

func TestFromMapFoldsSourceRoot(t *testing.T) {
	m := mustParse(t, `{"version":3,"sourceRoot":"src","sources":["a.ts"],"sourcesContent":["let a"],"mappings":"AAAA"}`)
	g, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	out := g.Map()
	if out.SourceRoot != "" || !slices.Equal(out.Sources, []string{"src/a.ts"}) {
		t.Fatalf("got root=%q sources=%v", out.SourceRoot, out.Sources)
	}
	if content, ok := out.SourceContent(0); !ok || content != "let a" {
		t.Fatalf("content = %q, %v", content, ok)
	}
}

func TestConsumerGreatestLowerBound(t *testing.T) {
	// line 0: col 0 -> a.ts 0:0, col 4 -> a.ts 0:10 ; line 1: col 2 -> a.ts 3:0
	c := mustConsumer(t, `{"version":3,"sources":["a.ts"],"mappings":"AAAA,IAAU;EAGV"}`)

	tests := []struct {
		line, col int
		ok        bool
		origLine  int
		origCol   int
	}{
		{0, 0, true, 0, 0},
		{0, 3, true, 0, 0},
		{0, 4, true, 0, 10},
		{0, 99, true, 0, 10},
		{1, 0, false, 0, 0},
		{1, 2, true, 3, 0},
		{5, 0, false, 0, 0},
	}
	for _, tt := range tests {
		mp, ok := c.OriginalPosition(tt.line, tt.col)
		if ok != tt.ok {
			t.Errorf("(%d,%d): ok = %v, want %v", tt.line, tt.col, ok, tt.ok)
			continue
		}
		if ok && (mp.OrigLine != tt.origLine || mp.OrigColumn != tt.origCol) {
			t.Errorf("(%d,%d): got %d:%d, want %d:%d", tt.line, tt.col, mp.OrigLine, mp.OrigColumn, tt.origLine, tt.origCol)
		}
	}
}

func TestApplyMapRemapsLines(t *testing.T) {
	// компилятор видел a.ts, где строка 1 пришла из строки 5 исходника
	g, err := FromMap(mustParse(t, `{"version":3,"file":"a.js","sources":["a.ts"],"mappings":"AAAA;AACA"}`))
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	upstream := mustConsumer(t, `{"version":3,"file":"a.ts","sources":["a.orig"],"mappings":"AAAA;AAKA"}`)

	g.ApplyMap(upstream, func(src string) bool { return src == "a.ts" })
	out := g.Map()

	if !slices.Equal(out.Sources, []string{"a.orig"}) {
		t.Fatalf("sources = %v", out.Sources)
	}
	if out.Mappings != "AAAA;AAKA" {
		t.Fatalf("mappings = %q", out.Mappings)
	}
	final, err := NewConsumer(out)
	if err != nil {
		t.Fatalf("consumer: %v", err)
	}
	mp, ok := final.OriginalPosition(1, 0)
	if !ok || mp.Source != "a.orig" || mp.OrigLine != 5 {
		t.Fatalf("line 1 resolves to %+v (ok=%v), want a.orig:5", mp, ok)
	}
}

func TestApplyMapKeepsMappingsWithoutUpstreamHit(t *testing.T) {
	g, err := FromMap(mustParse(t, `{"version":3,"sources":["a.ts"],"mappings":"AAAA;AACA"}`))
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	upstream := mustConsumer(t, `{"version":3,"sources":["a.orig"],"sourcesContent":["orig text"],"mappings":"AAAA"}`)

	g.ApplyMap(upstream, func(src string) bool { return src == "a.ts" })
	out := g.Map()

	if !slices.Equal(out.Sources, []string{"a.orig", "a.ts"}) {
		t.Fatalf("sources = %v", out.Sources)
	}
	if out.Mappings != "AAAA;ACCA" {
		t.Fatalf("mappings = %q", out.Mappings)
	}
	if content, ok := out.SourceContent(0); !ok || content != "orig text" {
		t.Fatalf("upstream content not carried: %q %v", content, ok)
	}
}

func TestApplyMapIgnoresOtherSources(t *testing.T) {
	g, err := FromMap(mustParse(t, `{"version":3,"sources":["a.ts","b.ts"],"mappings":"AAAA;ACAA"}`))
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	upstream := mustConsumer(t, `{"version":3,"sources":["b.orig"],"mappings":"AAAA"}`)

	g.ApplyMap(upstream, func(src string) bool { return src == "b.ts" })
	mappings := g.Mappings()
	if mappings[0].Source != "a.ts" || mappings[1].Source != "b.orig" {
		t.Fatalf("mappings = %+v", mappings)
	}
}
