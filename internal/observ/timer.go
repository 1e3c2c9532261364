package observ

import (
	"fmt"
	"time"
)

// Phase records the accumulated duration of one engine phase.
// A phase may be entered many times during a run (once per submitted key);
// the timer sums all entries.
type Phase struct {
	Name  string
	Dur   time.Duration
	Count int
	Note  string
}

// Timer tracks accumulated execution time of engine phases.
type Timer struct {
	phases []Phase
	index  map[string]int
	open   map[int]time.Time
	nextID int
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{
		phases: make([]Phase, 0, 4),
		index:  make(map[string]int, 4),
		open:   make(map[int]time.Time, 4),
	}
}

// Begin enters a phase and returns a token for End.
// Phases appear in the report in first-entry order.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	idx, ok := t.index[name]
	if !ok {
		idx = len(t.phases)
		t.phases = append(t.phases, Phase{Name: name})
		t.index[name] = idx
	}
	t.nextID++
	token := t.nextID<<8 | idx&0xff
	t.open[token] = time.Now()
	return token
}

// End leaves the phase entered with token. An empty note keeps the previous one.
func (t *Timer) End(token int, note string) {
	if t == nil || token < 0 {
		return
	}
	start, ok := t.open[token]
	if !ok {
		return
	}
	delete(t.open, token)
	idx := token & 0xff
	if idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur += time.Since(start)
	p.Count++
	if note != "" {
		p.Note = note
	}
}

// Add records a pre-measured duration for name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	token := t.Begin(name)
	delete(t.open, token)
	p := &t.phases[token&0xff]
	p.Dur += d
	p.Count++
}

// Phases returns a copy of the tracked phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	out := "timings:\n"
	for _, p := range report.Phases {
		out += fmt.Sprintf("  %-20s %7.2f ms  x%d", p.Name, p.DurationMS, p.Count)
		if p.Note != "" {
			out += "  // " + p.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-20s %7.2f ms\n", "total", report.TotalMS)
	return out
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Count:      phase.Count,
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
