package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"mapfold/internal/diag"
	"mapfold/internal/source"
)

type previewLine struct {
	number int // 1-based
	text   string
	marker string // "" для строк контекста
}

// buildPreview returns the lines around the error start with a ^~~~ marker
// under the reported range. Errors without a resolved file have no preview.
func buildPreview(e *diag.TranslatedError, context int) []previewLine {
	if e.File == nil || e.StartPosition == nil {
		return nil
	}
	lines := fileLines(e.File)
	start := e.StartPosition.Line
	if start < 0 || start >= len(lines) {
		return nil
	}
	end := start
	if e.EndPosition != nil && e.EndPosition.Line >= start {
		end = min(e.EndPosition.Line, len(lines)-1)
	}

	first := max(start-context, 0)
	last := min(end+context, len(lines)-1)
	out := make([]previewLine, 0, last-first+1)
	for i := first; i <= last; i++ {
		pl := previewLine{number: i + 1, text: lines[i]}
		if i >= start && i <= end {
			from, to := 0, len(lines[i])
			if i == start {
				from = min(e.StartPosition.Character, len(lines[i]))
			}
			if i == end && e.EndPosition != nil {
				to = min(e.EndPosition.Character+1, len(lines[i]))
			}
			pl.marker = marker(lines[i], from, to, i == start)
		}
		out = append(out, pl)
	}
	return out
}

// marker builds the underline for text[from:to]; widths follow the rendered
// cell width so wide characters stay aligned.
func marker(text string, from, to int, caret bool) string {
	if to < from {
		to = from
	}
	pad := runewidth.StringWidth(strings.ReplaceAll(text[:from], "\t", "    "))
	span := max(runewidth.StringWidth(text[from:to]), 1)
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", pad))
	if caret {
		sb.WriteByte('^')
		span--
	}
	sb.WriteString(strings.Repeat("~", span))
	return sb.String()
}

func fileLines(f *source.File) []string {
	text := strings.TrimSuffix(string(f.Content), "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
