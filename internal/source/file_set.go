package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet is the tracked-input index of a run: path -> original content, line layout
// and host metadata. Insertion order is preserved.
type FileSet struct {
	files []File
	index map[string]FileID // normalized path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file, computes LineIdx and Hash, and returns a new FileID.
// A second Add for the same path shadows the previous entry in path lookups.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := NormalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// AddTracked adds an in-memory user input together with its host metadata and
// reference list.
func (fileSet *FileSet) AddTracked(path string, content []byte, host *Host, refs []string) FileID {
	id := fileSet.Add(path, content, FileVirtual)
	f := &fileSet.files[id]
	f.Host = host
	if len(refs) > 0 {
		f.References = append([]string(nil), refs...)
	}
	return id
}

// Load reads a file from disk, strips a UTF-8 BOM and calls Add.
// Line endings are left alone: diagnostic offsets refer to the bytes the compiler saw.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetByPath returns the latest file registered under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if fileSet == nil {
		return nil, false
	}
	if id, ok := fileSet.index[NormalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve looks path up as given and, failing that, by its absolute form.
func (fileSet *FileSet) Resolve(path string) (*File, bool) {
	if f, ok := fileSet.GetByPath(path); ok {
		return f, true
	}
	if filepath.IsAbs(path) {
		return nil, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	return fileSet.GetByPath(abs)
}

// Len returns the number of registered files, shadowed versions included.
func (fileSet *FileSet) Len() int {
	if fileSet == nil {
		return 0
	}
	return len(fileSet.files)
}

// Tracked returns the host-owned inputs in insertion order, latest version per path.
func (fileSet *FileSet) Tracked() []*File {
	if fileSet == nil {
		return nil
	}
	out := make([]*File, 0, len(fileSet.files))
	for i := range fileSet.files {
		f := &fileSet.files[i]
		if f.Host == nil {
			continue
		}
		if latest := fileSet.index[f.Path]; latest != f.ID {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FirstTracked returns the first host-owned input, the primary origin of a bundled output.
func (fileSet *FileSet) FirstTracked() (*File, bool) {
	tracked := fileSet.Tracked()
	if len(tracked) == 0 {
		return nil, false
	}
	return tracked[0], true
}

// Position converts a byte offset into a 0-based line/character pair.
// Offsets past the end clamp to the end of the content.
func (f *File) Position(off int) LineChar {
	if off < 0 {
		off = 0
	}
	if off > len(f.Content) {
		off = len(f.Content)
	}
	u, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return toLineChar(f.LineIdx, u)
}

// HasStageMap reports whether the input carries a map from earlier pipeline stages.
func (f *File) HasStageMap() bool {
	return f != nil && f.Host != nil && f.Host.StageMap != nil
}
