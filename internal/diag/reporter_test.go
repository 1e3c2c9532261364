package diag

import (
	"bytes"
	"testing"
)

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	log := NewErrorLog()
	r := NewDedupReporter(LogReporter{Log: log})
	tr := NewTranslator(nil)
	tr.SetColor(false)

	d := Diagnostic{Code: "TS1", Message: Message("m"), File: "a.ts", Start: 1, Length: 2}
	r.Report(tr.Translate(d), d)
	r.Report(tr.Translate(d), d)
	other := d
	other.Start = 4
	r.Report(tr.Translate(other), other)

	if log.Len() != 2 {
		t.Fatalf("log len = %d, want 2", log.Len())
	}
}

func TestMultiReporterKeepsRawDiagnostic(t *testing.T) {
	var gotRaw []Diagnostic
	var gotErr []*TranslatedError
	r := MultiReporter{
		nil,
		ReporterFunc(func(err *TranslatedError, raw Diagnostic) {
			gotErr = append(gotErr, err)
			gotRaw = append(gotRaw, raw)
		}),
		NopReporter{},
	}
	d := Diagnostic{Code: "TS9", Message: Message("raw")}
	te := NewTranslator(nil).Translate(d)
	r.Report(te, d)

	if len(gotRaw) != 1 || gotRaw[0].Code != "TS9" || gotErr[0] != te {
		t.Fatalf("reporter got %v / %v", gotRaw, gotErr)
	}
}

func TestErrorLogEncode(t *testing.T) {
	tr := NewTranslator(nil)
	tr.SetColor(true)
	log := NewErrorLog()
	log.Add(tr.Translate(Diagnostic{Code: "TS2", Message: Message("second"), File: "b.ts", Start: 3}))
	log.Add(tr.Translate(Diagnostic{Code: "TS1", Message: Message("first"), Severity: SevWarning}))

	var buf bytes.Buffer
	if err := log.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	records, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0].Message != "TS2 second" || records[0].File != "b.ts" || records[0].Start == nil || records[0].Start.Position != 3 {
		t.Fatalf("record[0] = %+v", records[0])
	}
	if records[1].Severity != "warning" || records[1].Start != nil {
		t.Fatalf("record[1] = %+v", records[1])
	}
	if !log.HasErrors() {
		t.Fatal("TS2 is an error")
	}

	sorted := log.Sorted()
	if sorted[0].Code != "TS1" {
		t.Fatalf("program diagnostics sort first, got %q", sorted[0].Code)
	}
}
