package diag

// Reporter is the external receiver of a run's errors.
// Реализации: LogReporter (кладёт в ErrorLog), ReporterFunc, MultiReporter, DedupReporter.
type Reporter interface {
	Report(err *TranslatedError, raw Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err *TranslatedError, raw Diagnostic)

func (f ReporterFunc) Report(err *TranslatedError, raw Diagnostic) {
	if f != nil {
		f(err, raw)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(*TranslatedError, Diagnostic) {}

// LogReporter пишет каждую ошибку в *ErrorLog.
type LogReporter struct{ Log *ErrorLog }

func (r LogReporter) Report(err *TranslatedError, raw Diagnostic) {
	if r.Log == nil {
		return
	}
	r.Log.Add(err)
}

// MultiReporter fans out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(err *TranslatedError, raw Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(err, raw)
		}
	}
}

type dedupKey struct {
	code  string
	file  string
	start int
	end   int
	msg   string
}

// DedupReporter wraps another Reporter and suppresses diagnostics repeated with
// the same code, file, span and message. Compilers re-report unchanged files on
// incremental runs.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that forwards unique diagnostics to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(err *TranslatedError, raw Diagnostic) {
	if r == nil || err == nil {
		return
	}
	key := dedupKey{
		code:  err.Code,
		file:  err.FullFilename,
		start: raw.Start,
		end:   raw.Start + raw.Length,
		msg:   err.Text,
	}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(err, raw)
	}
}
