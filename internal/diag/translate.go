package diag

import (
	"fmt"
	"math"

	"fortio.org/safecast"
	"github.com/fatih/color"

	"mapfold/internal/source"
)

// Translator resolves diagnostics against the tracked-input index of a run.
type Translator struct {
	files    *source.FileSet
	location *color.Color
}

// NewTranslator returns a translator over files. Colors follow color.NoColor
// until SetColor is called.
func NewTranslator(files *source.FileSet) *Translator {
	return &Translator{
		files:    files,
		location: color.New(color.FgRed),
	}
}

// SetColor forces colorized location prefixes on or off.
func (t *Translator) SetColor(enabled bool) {
	if enabled {
		t.location.EnableColor()
	} else {
		t.location.DisableColor()
	}
}

// Translate converts d into its user-facing form.
func (t *Translator) Translate(d Diagnostic) *TranslatedError {
	text := d.Message.Flatten()
	out := &TranslatedError{
		Code:     d.Code,
		Severity: d.Severity,
		Text:     text,
	}
	if !d.HasFile() {
		out.Message = d.Code + " " + text
		return out
	}

	var lineIdx []uint32
	limit := maxOffset
	file, ok := t.files.Resolve(d.File)
	if ok {
		out.File = file
		out.FullFilename = file.Path
		lineIdx = file.LineIdx
		limit = len(file.Content)
		if file.Host != nil && file.Host.Cwd != "" {
			if rel, err := source.RelativePath(file.Path, file.Host.Cwd); err == nil {
				out.RelativeFilename = rel
			}
		}
	} else {
		// вне индекса: имя как есть, раскладка строк из текста компилятора
		out.FullFilename = d.File
		if d.Text != "" {
			lineIdx = source.LineIndex([]byte(d.Text))
			limit = len(d.Text)
		}
	}

	start, end := span(d.Start, d.Length, limit)
	out.StartPosition = position(lineIdx, start)
	out.EndPosition = position(lineIdx, end)

	loc := fmt.Sprintf("%s(%d,%d): ", out.DisplayFilename(), out.StartPosition.Line+1, out.StartPosition.Character+1)
	out.Message = t.location.Sprint(loc) + d.Code + " " + text
	return out
}

// maxOffset caps offsets of diagnostics that have no layout to check against.
const maxOffset = math.MaxInt32

// span clamps start and start+length-1 to [0, limit]. Length 0 ends at start.
func span(start, length, limit int) (int, int) {
	start = min(max(start, 0), limit)
	end := start
	if length > 1 {
		end += min(length-1, limit-start)
	}
	return start, end
}

// position expects off in [0, maxOffset].
func position(lineIdx []uint32, off int) *Position {
	u, err := safecast.Conv[uint32](off)
	if err != nil {
		u = math.MaxInt32
	}
	lc := source.PositionIn(lineIdx, u)
	return &Position{
		Position:  off,
		Line:      int(lc.Line),
		Character: int(lc.Character),
	}
}
