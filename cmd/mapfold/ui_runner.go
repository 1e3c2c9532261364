package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mapfold/internal/host"
	"mapfold/internal/output"
	"mapfold/internal/pipeline"
	"mapfold/internal/ui"
)

// replayWithUI runs the replay in a goroutine and renders its progress events.
// newRun receives the progress sink the run must report to.
func replayWithUI(ctx context.Context, title string, keys []string, tr *host.Transcript, newRun func(pipeline.ProgressSink) *output.Run) (*output.Run, error) {
	events := make(chan pipeline.Event, 256)
	type outcome struct {
		run *output.Run
		err error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		run := newRun(pipeline.ChannelSink{Ch: events})
		err := host.Replay(ctx, run, tr)
		outcomeCh <- outcome{run: run, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, keys, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог завершиться раньше; дочитываем события, чтобы replay не блокировался
	go func() {
		for range events {
		}
	}()
	res := <-outcomeCh
	if uiErr != nil {
		return res.run, uiErr
	}
	return res.run, res.err
}
