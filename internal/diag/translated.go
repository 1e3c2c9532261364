package diag

import "mapfold/internal/source"

// Position is a resolved point: byte offset plus 0-based line/character.
type Position struct {
	Position  int `json:"position" msgpack:"position"`
	Line      int `json:"line" msgpack:"line"`
	Character int `json:"character" msgpack:"character"`
}

// TranslatedError is the user-facing form of a Diagnostic.
type TranslatedError struct {
	Code     string
	Severity Severity

	// Message is the display text, possibly colorized: "file(line,char): CODE text"
	// with 1-based line and character. StartPosition/EndPosition stay 0-based.
	Message string
	Text    string // flattened message without location

	FullFilename     string       // original file name ("" for program diagnostics)
	RelativeFilename string       // relative to the host cwd, when the host is known
	File             *source.File // original-file identity; nil when unresolved

	StartPosition *Position
	EndPosition   *Position
}

// Error implements error.
func (e *TranslatedError) Error() string {
	return e.Message
}

// HasPosition reports whether start/end positions were computed.
func (e *TranslatedError) HasPosition() bool {
	return e.StartPosition != nil
}

// DisplayFilename returns the name used in the message prefix.
func (e *TranslatedError) DisplayFilename() string {
	if e.RelativeFilename != "" {
		return e.RelativeFilename
	}
	return e.FullFilename
}
