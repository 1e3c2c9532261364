package diagfmt

import (
	"path"

	"mapfold/internal/diag"
)

func displayPath(e *diag.TranslatedError, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return e.FullFilename
	case PathModeRelative:
		if e.RelativeFilename != "" {
			return e.RelativeFilename
		}
		return e.FullFilename
	case PathModeBasename:
		if e.FullFilename == "" {
			return ""
		}
		return path.Base(e.FullFilename)
	default:
		return e.DisplayFilename()
	}
}
