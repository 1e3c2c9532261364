package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mapfold/internal/diag"
	"mapfold/internal/source"
)

func sampleErrors(t *testing.T) []*diag.TranslatedError {
	t.Helper()
	fs := source.NewFileSet()
	fs.AddTracked("/home/user/project/src/a.ts", []byte("let a = 1;\nlet b = x;\n"), &source.Host{Cwd: "/home/user/project"}, nil)
	tr := diag.NewTranslator(fs)
	tr.SetColor(false)
	return []*diag.TranslatedError{
		tr.Translate(diag.Diagnostic{Code: "TS2304", Message: diag.Message("Cannot find name 'x'."), File: "/home/user/project/src/a.ts", Start: 19, Length: 1}),
		tr.Translate(diag.Diagnostic{Code: "TS5023", Severity: diag.SevWarning, Message: diag.Message("Unknown option.")}),
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	errs := sampleErrors(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Auto", PathModeAuto, "src/a.ts:2:9:"},
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/a.ts:2:9:"},
		{"Relative path", PathModeRelative, "src/a.ts:2:9:"},
		{"Basename only", PathModeBasename, "\na.ts:2:9:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, errs, PrettyOpts{PathMode: tt.mode})
			output := "\n" + buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Fatalf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR TS2304: Cannot find name 'x'.") {
				t.Fatalf("missing header, got:\n%s", output)
			}
			if !strings.Contains(output, "\nWARNING TS5023: Unknown option.\n") {
				t.Fatalf("program diagnostic must have no location, got:\n%s", output)
			}
		})
	}
}

func TestPrettyPreview(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleErrors(t)[:1], PrettyOpts{Context: 1, ShowPreview: true})
	want := "src/a.ts:2:9: ERROR TS2304: Cannot find name 'x'.\n" +
		"1 | let a = 1;\n" +
		"2 | let b = x;\n" +
		"  | " + strings.Repeat(" ", 8) + "^\n"
	if buf.String() != want {
		t.Fatalf("preview mismatch:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		text     string
		from, to int
		caret    bool
		want     string
	}{
		{"let b = x;", 8, 9, true, "        ^"},
		{"let b = xyz;", 8, 11, true, "        ^~~"},
		{"abc", 0, 3, false, "~~~"},
		{"ab", 2, 2, true, "  ^"},
		{"日本 x", 7, 8, true, "     ^"},
	}
	for _, tt := range tests {
		if got := marker(tt.text, tt.from, tt.to, tt.caret); got != tt.want {
			t.Fatalf("marker(%q, %d, %d) = %q, want %q", tt.text, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdef", 0); got != "abcdef" {
		t.Fatalf("unlimited clip = %q", got)
	}
	if got := clip("abcdef", 5); got != "ab..." {
		t.Fatalf("clip = %q", got)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleErrors(t), JSONOpts{IncludePositions: true, PathMode: PathModeRelative}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "TS2304" || first.Severity != "error" || first.Location == nil {
		t.Fatalf("first = %+v", first)
	}
	loc := *first.Location
	if loc.File != "src/a.ts" || loc.StartByte != 19 || loc.StartLine != 2 || loc.StartCol != 9 || loc.EndCol != 9 {
		t.Fatalf("location = %+v", loc)
	}
	if out.Diagnostics[1].Location != nil {
		t.Fatalf("program diagnostic got a location")
	}

	buf.Reset()
	if err := JSON(&buf, sampleErrors(t), JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var limited DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &limited); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if limited.Count != 1 || limited.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("max/positions not honoured: %+v", limited)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "mapfold", ToolVersion: "test", InvocationArgs: []string{"replay", "t.json"}}
	if err := Sarif(&buf, sampleErrors(t), meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 || len(run.Results) != 2 {
		t.Fatalf("rules=%d results=%d", len(run.Tool.Driver.Rules), len(run.Results))
	}
	res := run.Results[0]
	if res.Level != "error" || len(res.Locations) != 1 {
		t.Fatalf("result = %+v", res)
	}
	region := res.Locations[0].PhysicalLocation.Region
	if region == nil || region.StartLine != 2 || region.StartColumn != 9 || region.EndColumn != 10 {
		t.Fatalf("region = %+v", region)
	}
	if run.Results[1].Level != "warning" || run.Results[1].Locations != nil {
		t.Fatalf("program result = %+v", run.Results[1])
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("invocations = %+v", run.Invocations)
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"short", "pretty", "json", "sarif"} {
		f, err := ParseFormat(name)
		if err != nil || f.String() != name {
			t.Fatalf("ParseFormat(%q) = %v, %v", name, f, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParsePathMode("weird"); err == nil {
		t.Fatalf("expected error")
	}
}
