package pipeline

import "time"

// Stage describes the phase a logical output file is in.
type Stage string

const (
	// StageMerge is artifact collection.
	StageMerge Stage = "merge"
	// StageCompose is source map composition.
	StageCompose Stage = "compose"
	// StageEmit is release to the output channels.
	StageEmit Stage = "emit"
	// StageFinish is the end-of-run drain.
	StageFinish Stage = "finish"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is known but incomplete.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running for the file.
	StatusWorking Status = "working"
	// StatusDone indicates the stage is done.
	StatusDone Status = "done"
	// StatusSkipped indicates the file will never be emitted.
	StatusSkipped Status = "skipped"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusSkipped || s == StatusError
}

// Event reports progress for a key (or for the whole run when Key is empty).
type Event struct {
	Key     string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
