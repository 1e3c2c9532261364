package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeRun covers a whole run (construction to Finish).
	ScopeRun Scope = iota + 1
	// ScopePhase covers engine phases: finish, sorted emission.
	ScopePhase
	// ScopeFile covers per-key events.
	ScopeFile
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopePhase:
		return "phase"
	case ScopeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier (0 for points outside spans)
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "run", "finish", "emit"
	Detail   string            // optional detail message, usually the key
	Extra    map[string]string // extensible key-value pairs
}
