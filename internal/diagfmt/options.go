package diagfmt

import (
	"fmt"
	"strings"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses the host-relative name when known, else the full path.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses the full original path.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto|absolute|relative|basename.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // строки контекста до и после
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
