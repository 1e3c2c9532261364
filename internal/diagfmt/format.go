package diagfmt

import (
	"fmt"
	"strings"
)

// Format selects how a finished run's errors are rendered.
type Format uint8

const (
	// FormatShort prints each message as it is reported.
	FormatShort Format = iota
	FormatPretty
	FormatJSON
	FormatSarif
)

func (f Format) String() string {
	switch f {
	case FormatShort:
		return "short"
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	case FormatSarif:
		return "sarif"
	}
	return "unknown"
}

// ParseFormat accepts short|pretty|json|sarif.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "short":
		return FormatShort, nil
	case "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSarif, nil
	}
	return FormatShort, fmt.Errorf("invalid diagnostics format %q (expected short|pretty|json|sarif)", s)
}
