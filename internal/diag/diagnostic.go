package diag

import "strings"

// MessageChain is a message with nested detail lines, as compilers report
// elaborated type errors.
type MessageChain struct {
	Text string         `json:"text" yaml:"text" msgpack:"text"`
	Next []MessageChain `json:"next,omitempty" yaml:"next,omitempty" msgpack:"next,omitempty"`
}

// Message builds a single-line chain.
func Message(text string) MessageChain {
	return MessageChain{Text: text}
}

// Flatten renders the chain one entry per line, indenting two spaces per level.
func (c MessageChain) Flatten() string {
	var sb strings.Builder
	c.flatten(&sb, 0)
	return sb.String()
}

func (c MessageChain) flatten(sb *strings.Builder, depth int) {
	if depth > 0 {
		sb.WriteByte('\n')
		for range depth {
			sb.WriteString("  ")
		}
	}
	sb.WriteString(c.Text)
	for _, next := range c.Next {
		next.flatten(sb, depth+1)
	}
}

// Diagnostic is the raw record from the compiler.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  MessageChain
	File     string // "" for program diagnostics
	Start    int    // byte offset into the file
	Length   int
	Text     string // text the compiler saw; layout fallback for untracked files
}

// HasFile reports whether the diagnostic is attached to a file.
func (d Diagnostic) HasFile() bool {
	return d.File != ""
}
