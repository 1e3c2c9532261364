package source

import "mapfold/internal/sourcemap"

type (
	// FileID uniquely identifies a tracked input within a FileSet.
	FileID uint32 // порядковый номер входа
	// FileFlags encodes metadata about a tracked input.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, transcript, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
)

// Host carries the metadata a build host attaches to a user input: the working
// directory used for relative display paths, the base directory of the input glob
// and the map produced by the pipeline stages that ran before the compiler.
type Host struct {
	Cwd      string
	Base     string
	StageMap *sourcemap.Map // nil: the input does not take part in map tracking
}

// File captures metadata and the original (pre-transform) content of a tracked input.
type File struct {
	ID         FileID
	Path       string
	Content    []byte
	LineIdx    []uint32
	Hash       [32]byte
	Flags      FileFlags
	Host       *Host    // nil for inputs outside the host's own input set (libs, ambient decls)
	References []string // static references reported by the compiler, as paths
}

// LineChar is a 0-based line/character position.
type LineChar struct {
	Line      uint32
	Character uint32
}
