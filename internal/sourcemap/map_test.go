package sourcemap

import (
	"errors"
	"slices"
	"testing"
)

func TestParseRejectsOtherVersions(t *testing.T) {
	_, err := ParseString(`{"version":2,"sources":[],"mappings":""}`)
	if !errors.Is(err, ErrVersion) {
		t.Fatalf("err = %v, want ErrVersion", err)
	}
	if _, err := ParseString(`{not json`); err == nil {
		t.Fatal("expected a JSON error")
	}
}

func TestParseFillsEmptyTables(t *testing.T) {
	m, err := ParseString(`{"version":3,"mappings":""}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Sources == nil || m.Names == nil {
		t.Fatalf("sources/names must be non-nil: %+v", m)
	}
}

func TestNormalizeSeparators(t *testing.T) {
	m := &Map{Version: 3, File: `out\a.js`, Sources: []string{`src\a.ts`, "b.ts"}}
	m.NormalizeSeparators()
	if m.File != "out/a.js" || !slices.Equal(m.Sources, []string{"src/a.ts", "b.ts"}) {
		t.Fatalf("got file=%q sources=%v", m.File, m.Sources)
	}
}

func TestDecodeMappings(t *testing.T) {
	m := &Map{Version: 3, Sources: []string{"a.ts", "b.ts"}, Names: []string{"x"}, Mappings: "AAAA,EAAEA;;ECCC"}
	got, err := m.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Mapping{
		{GenLine: 0, GenColumn: 0, Source: "a.ts"},
		{GenLine: 0, GenColumn: 2, Source: "a.ts", OrigColumn: 2, Name: "x"},
		{GenLine: 2, GenColumn: 2, Source: "b.ts", OrigLine: 1, OrigColumn: 3},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("decode = %+v\nwant %+v", got, want)
	}
}

func TestDecodeRejectsBadSegments(t *testing.T) {
	cases := map[string]*Map{
		"two fields":   {Sources: []string{"a"}, Mappings: "AA"},
		"source range": {Sources: []string{"a"}, Mappings: "ACAA"},
		"name range":   {Sources: []string{"a"}, Mappings: "AAAAC"},
	}
	for name, m := range cases {
		if _, err := m.Decode(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
