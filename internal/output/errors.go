package output

import "errors"

var (
	// ErrFinished is returned for calls made after Finish.
	ErrFinished = errors.New("output: run already finished")
	// ErrUnknownKind is returned for artifact kinds outside Code/SourceMap/Declaration.
	ErrUnknownKind = errors.New("output: unknown artifact kind")
	// ErrUnknownSuffix is returned by Write for file names no configured suffix matches.
	ErrUnknownSuffix = errors.New("output: unknown output file suffix")
)
