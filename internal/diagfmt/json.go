package diagfmt

import (
	"encoding/json"
	"io"

	"mapfold/internal/diag"
)

// LocationJSON представляет местоположение в файле для JSON.
// Строки и колонки 1-based, как в сообщениях.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	StartLine int    `json:"start_line,omitempty"`
	StartCol  int    `json:"start_col,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndCol    int    `json:"end_col,omitempty"`
}

// DiagnosticJSON представляет ошибку в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(e *diag.TranslatedError, mode PathMode, includePositions bool) *LocationJSON {
	if e.StartPosition == nil {
		return nil
	}
	loc := &LocationJSON{
		File:      displayPath(e, mode),
		StartByte: e.StartPosition.Position,
		EndByte:   e.StartPosition.Position,
	}
	if e.EndPosition != nil {
		loc.EndByte = e.EndPosition.Position
	}
	if includePositions {
		loc.StartLine = e.StartPosition.Line + 1
		loc.StartCol = e.StartPosition.Character + 1
		if e.EndPosition != nil {
			loc.EndLine = e.EndPosition.Line + 1
			loc.EndCol = e.EndPosition.Character + 1
		}
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(errs []*diag.TranslatedError, opts JSONOpts) DiagnosticsOutput {
	n := len(errs)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, e := range errs[:n] {
		if e == nil {
			continue
		}
		out = append(out, DiagnosticJSON{
			Severity: e.Severity.String(),
			Code:     e.Code,
			Message:  e.Text,
			Location: makeLocation(e, opts.PathMode, opts.IncludePositions),
		})
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON форматирует ошибки в JSON формат.
func JSON(w io.Writer, errs []*diag.TranslatedError, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(errs, opts))
}
