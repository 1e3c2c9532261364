package host

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mapfold/internal/diag"
	"mapfold/internal/output"
	"mapfold/internal/sourcemap"
	"mapfold/internal/testkit"
)

const identityMap = `{"version":3,"sources":["a.ts"],"mappings":"AAAA"}`

func sampleTranscript() *Transcript {
	sort := true
	return &Transcript{
		Config: Config{SortOutput: &sort},
		Cwd:    "/work",
		Inputs: []Input{
			{Path: "/work/a.ts", Content: "let a = 1;\nlet b = x;\n", StageMap: identityMap},
			{Path: "/work/lib.d.ts", Content: "declare var x: any;", Untracked: true},
		},
		Steps: []Step{
			{Write: &WriteStep{Name: "/work/a.js.map", Content: `{"version":3,"file":"a.js","sources":["a.ts"],"mappings":"AAAA"}`}},
			{Diagnostic: &DiagnosticStep{Code: "TS2304", Message: diag.Message("Cannot find name 'x'."), File: "/work/a.ts", Start: 19, Length: 1}},
			{Write: &WriteStep{Name: "/work/a.js", Content: "var a = 1;\n//# sourceMappingURL=a.js.map\n"}},
		},
	}
}

func replaySample(t *testing.T, tr *Transcript) (*output.Run, *output.MemoryChannel) {
	t.Helper()
	fs, err := tr.FileSet()
	if err != nil {
		t.Fatalf("FileSet: %v", err)
	}
	var cfg output.Config
	tr.Config.Apply(&cfg)
	code := output.NewMemoryChannel()
	run := output.NewRun(cfg, fs, code, nil, output.Options{})
	if err := Replay(context.Background(), run, tr); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	return run, code
}

func TestReplayAcrossFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := sampleTranscript().Encode(&buf, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			tr, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if tr.Config.SortOutput == nil || !*tr.Config.SortOutput {
				t.Fatalf("config lost: %+v", tr.Config)
			}

			run, code := replaySample(t, tr)
			files := code.Files()
			if len(files) != 1 {
				t.Fatalf("pushed %d files", len(files))
			}
			if files[0].Path != "/work/a.js" || string(files[0].Content) != "var a = 1;\n" {
				t.Fatalf("pushed %q %q", files[0].Path, files[0].Content)
			}
			if err := testkit.CheckEmitted(code, []string{"/work/a"}); err != nil {
				t.Fatalf("emitted: %v", err)
			}
			errs := run.Errors()
			if len(errs) != 1 {
				t.Fatalf("errors = %v", errs)
			}
			if errs[0].RelativeFilename != "a.ts" || errs[0].StartPosition.Line != 1 || errs[0].StartPosition.Character != 8 {
				t.Fatalf("translated = %+v %+v", errs[0], errs[0].StartPosition)
			}
		})
	}
}

func TestReplayContinuesAfterStepErrors(t *testing.T) {
	tr := &Transcript{Steps: []Step{
		{Submit: &SubmitStep{Key: "a", Kind: "css"}},
		{Write: &WriteStep{Name: "a.txt"}},
		{Diagnostic: &DiagnosticStep{Code: "TS1", Severity: "fatal"}},
		{Diagnostic: &DiagnosticStep{Code: "TS1", Message: diag.Message("bad")}},
	}}
	fs, _ := tr.FileSet()
	code := output.NewMemoryChannel()
	run := output.NewRun(output.Config{}, fs, code, nil, output.Options{})
	err := Replay(context.Background(), run, tr)
	if !errors.Is(err, output.ErrUnknownKind) || !errors.Is(err, output.ErrUnknownSuffix) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "step 3") {
		t.Fatalf("severity error missing: %v", err)
	}
	if !run.Finished() || code.Closed() != 1 {
		t.Fatalf("run not finished")
	}
	if len(code.Errors()) != 1 || code.Errors()[0].Error() != "TS1 bad" {
		t.Fatalf("error events = %v", code.Errors())
	}
}

func TestReplayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := sampleTranscript()
	fs, _ := tr.FileSet()
	run := output.NewRun(output.Config{}, fs, nil, nil, output.Options{})
	if err := Replay(ctx, run, tr); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if run.Finished() {
		t.Fatalf("canceled replay must not finish the run")
	}
}

func TestDecodeValidates(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"two ops", `{"steps":[{"write":{"name":"a.js"},"submit":{"key":"a","kind":"js"}}]}`, "step 1"},
		{"no op", `{"steps":[{}]}`, "step 1"},
		{"no path", `{"inputs":[{"content":"x"}]}`, "input 1: missing path"},
		{"unknown field", `{"inputz":[]}`, "unknown field"},
	}
	for _, tt := range tests {
		_, err := Decode(strings.NewReader(tt.data), FormatJSON)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestLoadResolvesFileReferences(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("a.ts", "let a = 1;\n")
	mustWrite("a.ts.map", identityMap)
	mustWrite("a.js", "var a = 1;\n")
	mustWrite("build.yaml", `
inputs:
  - path: a.ts
    file: a.ts
    stage_map_file: a.ts.map
steps:
  - write:
      name: a.js
      file: a.js
  - submit:
      key: a
      kind: map
      content: '{"version":3,"sources":["a.ts"],"mappings":"AAAA"}'
`)

	tr, err := Load(filepath.Join(dir, "build.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := tr.Resolve(context.Background(), 2); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tr.Inputs[0].Content != "let a = 1;\n" || tr.Inputs[0].StageMap != identityMap {
		t.Fatalf("input = %+v", tr.Inputs[0])
	}
	if tr.Steps[0].Write.Content != "var a = 1;\n" {
		t.Fatalf("write content = %q", tr.Steps[0].Write.Content)
	}
	fs, err := tr.FileSet()
	if err != nil {
		t.Fatalf("FileSet: %v", err)
	}
	in, ok := fs.GetByPath("a.ts")
	if !ok || !in.HasStageMap() {
		t.Fatalf("a.ts not tracked with stage map")
	}
	if got := tr.Keys(output.DefaultSuffixes); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("keys = %v", got)
	}
}

func TestKeysNormalizeNames(t *testing.T) {
	tr := &Transcript{Steps: []Step{
		{Write: &WriteStep{Name: `src\b.js`}},
		{Submit: &SubmitStep{Key: "src/b", Kind: "map"}},
		{Write: &WriteStep{Name: "c.txt"}},
		{Write: &WriteStep{Name: "a.js.map"}},
	}}
	if got := tr.Keys(output.Suffixes{}); !slices.Equal(got, []string{"src/b", "a"}) {
		t.Fatalf("keys = %v", got)
	}
}

func TestResolveMissingFile(t *testing.T) {
	tr := &Transcript{Inputs: []Input{{Path: "a.ts", File: "missing.ts"}}}
	tr.SetDir(t.TempDir())
	if err := tr.Resolve(context.Background(), 0); err == nil || !strings.Contains(err.Error(), "missing.ts") {
		t.Fatalf("err = %v", err)
	}
}

func TestFileSetRejectsBadStageMap(t *testing.T) {
	tr := &Transcript{Inputs: []Input{{Path: "a.ts", StageMap: `{"version":2}`}}}
	if _, err := tr.FileSet(); !errors.Is(err, sourcemap.ErrVersion) {
		t.Fatalf("err = %v", err)
	}
}

func TestDirChannelWritesSidecar(t *testing.T) {
	dir := t.TempDir()
	ch := NewDirChannel(dir)
	m, err := sourcemap.ParseString(`{"version":3,"file":"x","sources":["a.ts"],"mappings":"AAAA"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ch.Push(output.OutputFile{Path: "out/a.js", Content: []byte("var a;"), SourceMap: m})
	ch.Push(output.OutputFile{Path: "/w/src/b.d.ts", Base: "/w/src", Content: []byte("declare var b;")})
	ch.Push(output.OutputFile{Path: "../escape.js", Content: []byte("x")})
	ch.Error(errors.New("TS1 bad"))
	ch.Close()

	if got := ch.Written(); !slices.Equal(got, []string{"out/a.js.map", "out/a.js", "b.d.ts"}) {
		t.Fatalf("written = %v", got)
	}
	js, err := os.ReadFile(filepath.Join(dir, "out", "a.js"))
	if err != nil {
		t.Fatalf("read js: %v", err)
	}
	if string(js) != "var a;\n//# sourceMappingURL=a.js.map\n" {
		t.Fatalf("js = %q", js)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "a.js.map"))
	if err != nil {
		t.Fatalf("read map: %v", err)
	}
	side, err := sourcemap.Parse(data)
	if err != nil || side.File != "a.js" {
		t.Fatalf("sidecar = %+v %v", side, err)
	}
	if m.File != "x" {
		t.Fatalf("pushed map mutated")
	}
	if err := ch.Err(); err == nil || !strings.Contains(err.Error(), "outside output directory") {
		t.Fatalf("Err = %v", err)
	}
	if len(ch.Events()) != 1 || !ch.Closed() {
		t.Fatalf("events=%v closed=%v", ch.Events(), ch.Closed())
	}
}
