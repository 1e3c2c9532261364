package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAccumulatesByName(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("compose")
	b := tm.Begin("emit")
	tm.End(a, "")
	c := tm.Begin("compose")
	tm.End(c, "2 keys")
	tm.End(b, "")

	phases := tm.Phases()
	if len(phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(phases))
	}
	if phases[0].Name != "compose" || phases[0].Count != 2 || phases[0].Note != "2 keys" {
		t.Fatalf("compose phase = %+v", phases[0])
	}
	if phases[1].Name != "emit" || phases[1].Count != 1 {
		t.Fatalf("emit phase = %+v", phases[1])
	}
}

func TestTimerEndUnknownToken(t *testing.T) {
	tm := NewTimer()
	tok := tm.Begin("merge")
	tm.End(tok, "")
	tm.End(tok, "twice")
	tm.End(-1, "")
	if p := tm.Phases()[0]; p.Count != 1 || p.Note != "" {
		t.Fatalf("phase = %+v", p)
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.Add("finish", 3*time.Millisecond)
	tm.Add("finish", 2*time.Millisecond)
	tm.Add("emit", time.Millisecond)

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("report phases = %d", len(r.Phases))
	}
	if r.Phases[0].DurationMS != 5 || r.Phases[0].Count != 2 {
		t.Fatalf("finish = %+v", r.Phases[0])
	}
	if r.TotalMS != 6 {
		t.Fatalf("total = %v", r.TotalMS)
	}
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "finish") || !strings.Contains(s, "total") {
		t.Fatalf("summary = %q", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	tm.Add("x", time.Second)
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer report = %+v", r)
	}
}
