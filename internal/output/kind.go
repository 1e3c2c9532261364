package output

import (
	"fmt"
	"strings"
)

// Kind tags an artifact slot of a logical output file.
type Kind uint8

const (
	KindCode Kind = iota
	KindSourceMap
	KindDeclaration
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindSourceMap:
		return "sourcemap"
	case KindDeclaration:
		return "declaration"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k names a slot.
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind accepts the names printed by String plus the short forms used in
// transcripts ("js", "map", "dts").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "code", "js":
		return KindCode, nil
	case "sourcemap", "map", "js.map":
		return KindSourceMap, nil
	case "declaration", "dts", "d.ts":
		return KindDeclaration, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindSet is a bit set of kinds.
type KindSet uint8

// NewKindSet builds a set from kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// With returns s plus k.
func (s KindSet) With(k Kind) KindSet {
	return s | 1<<k
}

// Has reports whether k is in s.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// Covers reports whether every kind of req is in s.
func (s KindSet) Covers(req KindSet) bool {
	return s&req == req
}

func (s KindSet) String() string {
	var parts []string
	for k := KindCode; k < kindCount; k++ {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// State is the completeness state of a logical output file.
type State uint8

const (
	StateEmpty State = iota
	StatePartial
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Suffixes maps kinds to the file name suffixes the compiler writes.
type Suffixes struct {
	Code        string
	SourceMap   string
	Declaration string
}

// DefaultSuffixes is the naming used when Config leaves suffixes empty.
var DefaultSuffixes = Suffixes{
	Code:        ".js",
	SourceMap:   ".js.map",
	Declaration: ".d.ts",
}

// For returns the suffix for k.
func (s Suffixes) For(k Kind) string {
	switch k {
	case KindCode:
		return s.Code
	case KindSourceMap:
		return s.SourceMap
	case KindDeclaration:
		return s.Declaration
	}
	return ""
}

// WithDefaults fills empty suffixes from DefaultSuffixes.
func (s Suffixes) WithDefaults() Suffixes {
	if s.Code == "" {
		s.Code = DefaultSuffixes.Code
	}
	if s.SourceMap == "" {
		s.SourceMap = DefaultSuffixes.SourceMap
	}
	if s.Declaration == "" {
		s.Declaration = DefaultSuffixes.Declaration
	}
	return s
}

// Split separates fileName into key and kind. The longest matching suffix wins,
// so "a.js.map" is a source map and not code named "a.js".
func (s Suffixes) Split(fileName string) (string, Kind, bool) {
	best, bestLen := Kind(0), 0
	for k := KindCode; k < kindCount; k++ {
		suf := s.For(k)
		if suf == "" || len(suf) <= bestLen || !strings.HasSuffix(fileName, suf) {
			continue
		}
		best, bestLen = k, len(suf)
	}
	if bestLen == 0 || bestLen == len(fileName) {
		return "", 0, false
	}
	return fileName[:len(fileName)-bestLen], best, true
}
