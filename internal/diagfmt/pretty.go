package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mapfold/internal/diag"
)

// Pretty форматирует ошибки в человекочитаемый вид.
// Для каждой ошибки печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по диапазону.
// Ошибки без файла печатаются одной строкой без позиции.
func Pretty(w io.Writer, errs []*diag.TranslatedError, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, e := range errs {
		if e == nil {
			continue
		}
		if i > 0 && opts.ShowPreview {
			fmt.Fprintln(w)
		}
		header := pal.severity(e.Severity) + " " + pal.code.Sprint(e.Code) + ": " + e.Text
		if p := displayPath(e, opts.PathMode); p != "" && e.StartPosition != nil {
			loc := fmt.Sprintf("%s:%d:%d:", p, e.StartPosition.Line+1, e.StartPosition.Character+1)
			header = pal.location.Sprint(loc) + " " + header
		}
		fmt.Fprintln(w, clip(header, opts.Width))
		if !opts.ShowPreview {
			continue
		}
		preview := buildPreview(e, int(max(opts.Context, 0)))
		if len(preview) == 0 {
			continue
		}
		gutter := len(strconv.Itoa(preview[len(preview)-1].number))
		for _, pl := range preview {
			num := fmt.Sprintf("%*d", gutter, pl.number)
			fmt.Fprintln(w, clip(pal.gutter.Sprint(num+" | ")+strings.ReplaceAll(pl.text, "\t", "    "), opts.Width))
			if pl.marker != "" {
				fmt.Fprintln(w, clip(pal.gutter.Sprint(strings.Repeat(" ", gutter)+" | ")+pal.marker.Sprint(pl.marker), opts.Width))
			}
		}
	}
}

type palette struct {
	location *color.Color
	code     *color.Color
	gutter   *color.Color
	marker   *color.Color
	error    *color.Color
	warning  *color.Color
	note     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		location: color.New(color.Bold),
		code:     color.New(color.FgHiBlack),
		gutter:   color.New(color.FgBlue),
		marker:   color.New(color.FgRed, color.Bold),
		error:    color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow, color.Bold),
		note:     color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.location, p.code, p.gutter, p.marker, p.error, p.warning, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) string {
	label := strings.ToUpper(s.String())
	switch s {
	case diag.SevError:
		return p.error.Sprint(label)
	case diag.SevWarning:
		return p.warning.Sprint(label)
	default:
		return p.note.Sprint(label)
	}
}

// clip ограничивает ширину строки; 0 - без ограничения.
func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
