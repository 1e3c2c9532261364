package fuzztests

import (
	"testing"

	"mapfold/internal/sourcemap"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzSourceMapParse(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		m, err := sourcemap.Parse(clampInput(input))
		if err != nil {
			return
		}
		g, err := sourcemap.FromMap(m)
		if err != nil {
			return
		}
		again, err := sourcemap.ParseString(g.String())
		if err != nil {
			t.Fatalf("re-encoded map does not parse: %v", err)
		}
		if _, err := again.Decode(); err != nil {
			t.Fatalf("re-encoded mappings do not decode: %v", err)
		}
	})
}

func FuzzMappings(f *testing.F) {
	for _, s := range []string{"", "AAAA", "AAAA,CAAC;AACA", "AAAAA,EAAEC", ";;;", "gggggg", "AAAA,DAAD"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, mappings string) {
		if len(mappings) > maxFuzzInput {
			mappings = mappings[:maxFuzzInput]
		}
		m := &sourcemap.Map{
			Version:  sourcemap.Version,
			Sources:  []string{"a.src", "b.src"},
			Names:    []string{"x", "y"},
			Mappings: mappings,
		}
		decoded, err := m.Decode()
		if err != nil {
			return
		}
		g, err := sourcemap.FromMap(m)
		if err != nil {
			t.Fatalf("decoded map rejected by generator: %v", err)
		}
		out, err := g.Map().Decode()
		if err != nil {
			t.Fatalf("generator output does not decode: %v", err)
		}
		if len(out) > len(decoded) {
			t.Fatalf("re-encoding grew mappings: %d > %d", len(out), len(decoded))
		}
	})
}
