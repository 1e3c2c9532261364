package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mapfold/internal/diag"
	"mapfold/internal/observ"
	"mapfold/internal/pipeline"
	"mapfold/internal/source"
	"mapfold/internal/trace"
)

// Config fixes the behavior of a run.
type Config struct {
	Declarations bool // a declaration artifact is required and emitted
	SingleOutput bool // bundled mode: every input compiles into one output
	SortOutput   bool // defer emission to Finish, references first
	Suffixes     Suffixes
}

// Required returns the kinds a file needs to be complete.
func (c Config) Required() KindSet {
	req := NewKindSet(KindCode, KindSourceMap)
	if c.Declarations {
		req = req.With(KindDeclaration)
	}
	return req
}

// Options carries optional collaborators of a run. Zero values are valid.
type Options struct {
	Tracer   trace.Tracer
	Timer    *observ.Timer
	Progress pipeline.ProgressSink
	Reporter diag.Reporter
	Color    bool
}

// Run is the per-run context: every logical output file, recorded errors and the
// downstream channels. A Run is not safe for concurrent use.
type Run struct {
	id    string
	cfg   Config
	req   KindSet
	files *source.FileSet

	code Channel
	decl Channel

	byKey map[string]*LogicalFile
	order []string // first-insertion order

	translator *diag.Translator
	reporter   diag.Reporter
	errs       *diag.ErrorLog

	tracer   trace.Tracer
	timer    *observ.Timer
	progress pipeline.ProgressSink
	span     *trace.Span

	finished bool
}

// NewRun starts a run over the tracked inputs in files. code and decl may be nil.
func NewRun(cfg Config, files *source.FileSet, code, decl Channel, opts Options) *Run {
	if files == nil {
		files = source.NewFileSet()
	}
	if code == nil {
		code = nopChannel{}
	}
	if decl == nil {
		decl = nopChannel{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	cfg.Suffixes = cfg.Suffixes.WithDefaults()

	r := &Run{
		id:         uuid.NewString(),
		cfg:        cfg,
		req:        cfg.Required(),
		files:      files,
		code:       code,
		decl:       decl,
		byKey:      make(map[string]*LogicalFile),
		translator: diag.NewTranslator(files),
		reporter:   reporter,
		errs:       diag.NewErrorLog(),
		tracer:     tracer,
		timer:      opts.Timer,
		progress:   opts.Progress,
	}
	r.translator.SetColor(opts.Color)
	r.span = trace.Begin(tracer, trace.ScopeRun, "run", 0).
		WithExtra("run_id", r.id).
		WithExtra("sort", strconv.FormatBool(cfg.SortOutput)).
		WithExtra("single", strconv.FormatBool(cfg.SingleOutput))
	return r
}

// ID returns the run's unique identifier.
func (r *Run) ID() string { return r.id }

// Config returns the run configuration with defaults applied.
func (r *Run) Config() Config { return r.cfg }

// File returns the logical output file for key.
func (r *Run) File(key string) (*LogicalFile, bool) {
	f, ok := r.byKey[NormalizeKey(key)]
	return f, ok
}

// NormalizeKey maps a key written with either separator to its canonical form.
func NormalizeKey(key string) string {
	return source.NormalizePath(strings.ReplaceAll(key, `\`, "/"))
}

// Keys returns every known key in first-insertion order.
func (r *Run) Keys() []string {
	return append([]string(nil), r.order...)
}

// Finished reports whether Finish has run.
func (r *Run) Finished() bool { return r.finished }

// Write stores a compiler output file, splitting its name into key and kind.
func (r *Run) Write(fileName, content string) error {
	if r.finished {
		return ErrFinished
	}
	key, kind, ok := r.cfg.Suffixes.Split(NormalizeKey(fileName))
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSuffix, fileName)
	}
	return r.Submit(key, kind, content)
}

// Submit stores content into slot kind of key. The submission that completes the
// file composes it and, unless output is sorted, emits it. Later submissions
// only replace stored content.
func (r *Run) Submit(key string, kind Kind, content string) error {
	if r.finished {
		return ErrFinished
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	tok := r.timer.Begin("merge")
	defer r.timer.End(tok, "")

	key = NormalizeKey(key)
	f, ok := r.byKey[key]
	if !ok {
		f = &LogicalFile{key: key}
		r.byKey[key] = f
		r.order = append(r.order, key)
		pipeline.Emit(r.progress, pipeline.Event{Key: key, Stage: pipeline.StageMerge, Status: pipeline.StatusQueued})
	}
	trace.Point(r.tracer, trace.ScopeFile, "submit", key, r.span.ID(), "kind", kind.String())

	if !f.store(kind, content, r.req) {
		return nil
	}
	trace.Point(r.tracer, trace.ScopeFile, "complete", key, r.span.ID(), "kinds", f.present.String())

	if err := r.compose(f); err != nil {
		pipeline.Emit(r.progress, pipeline.Event{Key: key, Stage: pipeline.StageCompose, Status: pipeline.StatusError, Err: err})
		return fmt.Errorf("compose %s: %w", key, err)
	}
	if !r.cfg.SortOutput {
		r.emit(f)
	}
	return nil
}

// Finish emits deferred files in reference order when output is sorted, then
// closes both channels. Files that never completed are dropped.
func (r *Run) Finish() error {
	if r.finished {
		return ErrFinished
	}
	tok := r.timer.Begin("finish")
	span := trace.Begin(r.tracer, trace.ScopePhase, "finish", r.span.ID())

	if r.cfg.SortOutput {
		r.sortedEmit()
	}
	incomplete := 0
	for _, key := range r.order {
		f := r.byKey[key]
		if f.state == StateComplete {
			continue
		}
		incomplete++
		trace.Point(r.tracer, trace.ScopeFile, "incomplete", key, span.ID(), "kinds", f.present.String())
		pipeline.Emit(r.progress, pipeline.Event{Key: key, Stage: pipeline.StageFinish, Status: pipeline.StatusSkipped})
	}

	r.finished = true
	r.code.Close()
	r.decl.Close()

	span.WithExtra("incomplete", strconv.Itoa(incomplete)).End(fmt.Sprintf("%d files", len(r.order)))
	r.timer.End(tok, "")
	r.span.WithExtra("errors", strconv.Itoa(r.errs.Len())).End("")
	pipeline.Emit(r.progress, pipeline.Event{Stage: pipeline.StageFinish, Status: pipeline.StatusDone})
	return nil
}

// Error translates d, records it, hands both forms to the reporter and raises a
// non-fatal error event on the code channel. After Finish the event is not sent.
func (r *Run) Error(d diag.Diagnostic) *diag.TranslatedError {
	te := r.translator.Translate(d)
	r.errs.Add(te)
	r.reporter.Report(te, d)
	trace.Point(r.tracer, trace.ScopeFile, "diagnostic", te.DisplayFilename(), r.span.ID(), "code", d.Code)
	if !r.finished {
		r.code.Error(te)
	}
	return te
}

// Errors returns the translated errors in the order they were reported.
func (r *Run) Errors() []*diag.TranslatedError {
	return append([]*diag.TranslatedError(nil), r.errs.Items()...)
}

// ErrorLog exposes the run's error log for export.
func (r *Run) ErrorLog() *diag.ErrorLog { return r.errs }
