package ui

import (
	"strings"
	"testing"

	"mapfold/internal/pipeline"
)

func TestApplyEventTracksKeys(t *testing.T) {
	m := NewProgressModel("replay", []string{"a"}, nil).(*progressModel)

	m.applyEvent(pipeline.Event{Key: "b", Stage: pipeline.StageMerge, Status: pipeline.StatusQueued})
	m.applyEvent(pipeline.Event{Key: "a", Stage: pipeline.StageCompose, Status: pipeline.StatusWorking})
	if len(m.items) != 2 || m.items[1].key != "b" {
		t.Fatalf("items = %+v", m.items)
	}
	if m.items[0].status != "composing" {
		t.Fatalf("a status = %q", m.items[0].status)
	}

	m.applyEvent(pipeline.Event{Key: "a", Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Key: "b", Stage: pipeline.StageFinish, Status: pipeline.StatusSkipped})
	if m.items[0].status != "emitted" || m.items[1].status != "dropped" {
		t.Fatalf("items = %+v", m.items)
	}
	if p := m.percent(); p != 1.0 {
		t.Fatalf("percent = %v", p)
	}

	m.applyEvent(pipeline.Event{Stage: pipeline.StageFinish, Status: pipeline.StatusDone})
	if m.stageLabel != "finished" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
}

func TestViewListsKeys(t *testing.T) {
	m := NewProgressModel("replay", []string{"src/a", "src/b"}, nil)
	m, _ = m.Update(eventMsg(pipeline.Event{Key: "src/a", Stage: pipeline.StageEmit, Status: pipeline.StatusDone}))
	view := m.View()
	if !strings.Contains(view, "src/a") || !strings.Contains(view, "src/b") {
		t.Fatalf("view lacks keys:\n%s", view)
	}
	if !strings.Contains(view, "emitted") || !strings.Contains(view, "queued") {
		t.Fatalf("view lacks statuses:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 10); got != "abcdef" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate long = %q", got)
	}
}
