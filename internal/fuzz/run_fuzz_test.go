package fuzztests

import (
	"testing"

	"mapfold/internal/output"
	"mapfold/internal/source"
	"mapfold/internal/sourcemap"
)

func FuzzRunSubmitMap(f *testing.F) {
	addCorpusSeeds(f)
	stage, err := sourcemap.ParseString(`{"version":3,"file":"a.src","sources":["a.orig"],"names":[],"mappings":"AAAA;AACA"}`)
	if err != nil {
		f.Fatalf("stage map: %v", err)
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		fs.AddTracked("a.src", []byte("a\nb\n"), &source.Host{StageMap: stage}, nil)

		code, decl := output.NewMemoryChannel(), output.NewMemoryChannel()
		run := output.NewRun(output.Config{SortOutput: len(input)%2 == 1}, fs, code, decl, output.Options{})
		if err := run.Submit("a", output.KindCode, "var a;\n//# sourceMappingURL=a.js.map"); err != nil {
			t.Fatalf("submit code: %v", err)
		}
		_ = run.Submit("a", output.KindSourceMap, string(clampInput(input)))
		if err := run.Finish(); err != nil {
			t.Fatalf("finish: %v", err)
		}
		if code.Closed() != 1 || decl.Closed() != 1 {
			t.Fatalf("channels closed %d/%d times, want once", code.Closed(), decl.Closed())
		}
		if n := len(code.Files()); n > 1 {
			t.Fatalf("pushed %d files for one key", n)
		}
	})
}
