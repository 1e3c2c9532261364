package source

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// LineIndex builds the '\n' offset table for arbitrary text.
func LineIndex(content []byte) []uint32 {
	return buildLineIndex(content)
}

// PositionIn converts off into a 0-based line/character pair using lineIdx.
func PositionIn(lineIdx []uint32, off uint32) LineChar {
	return toLineChar(lineIdx, off)
}

func toLineChar(lineIdx []uint32, off uint32) LineChar {
	// бинпоиск: количество '\n' строго до off = номер строки
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := lo
	if line == 0 {
		return LineChar{Line: 0, Character: off}
	}
	startOff := lineIdx[line-1] + 1
	return LineChar{Line: uint32(line), Character: off - startOff}
}

// NormalizePath returns the canonical index key for a path: cleaned, forward
// slashes, NFC so that decomposed names from some file systems match.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	return norm.NFC.String(filepath.ToSlash(filepath.Clean(p)))
}

// KeyOf strips the last extension from path, giving the logical output key a
// referenced input maps to.
func KeyOf(path string) string {
	p := NormalizePath(path)
	slash := strings.LastIndexByte(p, '/')
	dot := strings.LastIndexByte(p, '.')
	if dot <= slash+1 {
		return p
	}
	return p[:dot]
}

// RelativePath returns target relative to baseDir in normalized form; targets
// outside baseDir keep their ".." segments.
func RelativePath(target, baseDir string) (string, error) {
	rel, err := filepath.Rel(baseDir, target)
	if err != nil {
		return "", err
	}
	return NormalizePath(rel), nil
}
