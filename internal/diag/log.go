package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrorLog keeps translated errors in the order they were reported.
type ErrorLog struct {
	items []*TranslatedError
}

// NewErrorLog creates an empty log.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{items: make([]*TranslatedError, 0)}
}

// Add appends err.
func (l *ErrorLog) Add(err *TranslatedError) {
	if l == nil || err == nil {
		return
	}
	l.items = append(l.items, err)
}

// Len returns the number of recorded errors.
func (l *ErrorLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Items возвращает read-only slice ошибок в порядке прогона.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (l *ErrorLog) Items() []*TranslatedError {
	if l == nil {
		return nil
	}
	return l.items
}

// HasErrors reports whether at least one entry has error severity.
func (l *ErrorLog) HasErrors() bool {
	for _, it := range l.Items() {
		if it.Severity == SevError {
			return true
		}
	}
	return false
}

// Sorted returns a copy ordered by file, start offset, then code.
func (l *ErrorLog) Sorted() []*TranslatedError {
	out := append([]*TranslatedError(nil), l.Items()...)
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i], out[j]
		if ei.FullFilename != ej.FullFilename {
			return ei.FullFilename < ej.FullFilename
		}
		si, sj := startOf(ei), startOf(ej)
		if si != sj {
			return si < sj
		}
		return ei.Code < ej.Code
	})
	return out
}

func startOf(e *TranslatedError) int {
	if e.StartPosition == nil {
		return -1
	}
	return e.StartPosition.Position
}

// Record is the serialisable projection of a TranslatedError.
type Record struct {
	Code     string    `msgpack:"code"`
	Severity string    `msgpack:"severity"`
	Message  string    `msgpack:"message"`
	File     string    `msgpack:"file,omitempty"`
	Relative string    `msgpack:"relative,omitempty"`
	Start    *Position `msgpack:"start,omitempty"`
	End      *Position `msgpack:"end,omitempty"`
}

// Records projects the log for export. Messages carry no color codes.
func (l *ErrorLog) Records() []Record {
	items := l.Items()
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, Record{
			Code:     it.Code,
			Severity: it.Severity.String(),
			Message:  it.Code + " " + it.Text,
			File:     it.FullFilename,
			Relative: it.RelativeFilename,
			Start:    it.StartPosition,
			End:      it.EndPosition,
		})
	}
	return out
}

// Encode writes the log records as msgpack.
func (l *ErrorLog) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(l.Records()); err != nil {
		return fmt.Errorf("encode error log: %w", err)
	}
	return nil
}

// DecodeRecords reads records written by Encode.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var out []Record
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode error log: %w", err)
	}
	return out, nil
}
