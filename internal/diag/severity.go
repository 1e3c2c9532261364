package diag

import (
	"fmt"
	"strings"
)

// Severity mirrors the compiler's diagnostic category.
type Severity uint8

const (
	// SevError is the zero value: compilers report errors unless told otherwise.
	SevError Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevSuggestion
	SevMessage
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevSuggestion:
		return "suggestion"
	case SevMessage:
		return "message"
	}
	return "unknown"
}

// ParseSeverity accepts the textual forms produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return SevError, nil
	case "warning":
		return SevWarning, nil
	case "suggestion":
		return SevSuggestion, nil
	case "message":
		return SevMessage, nil
	}
	return SevError, fmt.Errorf("invalid severity %q (expected error|warning|suggestion|message)", s)
}
