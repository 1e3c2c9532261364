package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"mapfold/internal/diag"
	"mapfold/internal/output"
)

// Format is a transcript encoding.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatYAML
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	}
	return "unknown"
}

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("unknown transcript format for %q (expected .json, .yaml, .yml, .mp or .msgpack)", path)
}

// Transcript is a recorded compiler session.
type Transcript struct {
	Config Config  `json:"config" yaml:"config" msgpack:"config"`
	Cwd    string  `json:"cwd,omitempty" yaml:"cwd,omitempty" msgpack:"cwd,omitempty"`
	Inputs []Input `json:"inputs" yaml:"inputs" msgpack:"inputs"`
	Steps  []Step  `json:"steps" yaml:"steps" msgpack:"steps"`

	dir string // directory relative file references resolve against
}

// Config holds the run switches a transcript pins; unset fields leave the
// caller's configuration alone.
type Config struct {
	Declarations *bool `json:"declarations,omitempty" yaml:"declarations,omitempty" msgpack:"declarations,omitempty"`
	SingleOutput *bool `json:"single_output,omitempty" yaml:"single_output,omitempty" msgpack:"single_output,omitempty"`
	SortOutput   *bool `json:"sort_output,omitempty" yaml:"sort_output,omitempty" msgpack:"sort_output,omitempty"`
}

// Apply overrides cfg with the fields set in c.
func (c Config) Apply(cfg *output.Config) {
	if c.Declarations != nil {
		cfg.Declarations = *c.Declarations
	}
	if c.SingleOutput != nil {
		cfg.SingleOutput = *c.SingleOutput
	}
	if c.SortOutput != nil {
		cfg.SortOutput = *c.SortOutput
	}
}

// Input is one file the build host handed to the compiler.
type Input struct {
	Path         string   `json:"path" yaml:"path" msgpack:"path"`
	Content      string   `json:"content,omitempty" yaml:"content,omitempty" msgpack:"content,omitempty"`
	File         string   `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"` // read Content from here
	Cwd          string   `json:"cwd,omitempty" yaml:"cwd,omitempty" msgpack:"cwd,omitempty"`
	Base         string   `json:"base,omitempty" yaml:"base,omitempty" msgpack:"base,omitempty"`
	StageMap     string   `json:"stage_map,omitempty" yaml:"stage_map,omitempty" msgpack:"stage_map,omitempty"` // JSON text
	StageMapFile string   `json:"stage_map_file,omitempty" yaml:"stage_map_file,omitempty" msgpack:"stage_map_file,omitempty"`
	Untracked    bool     `json:"untracked,omitempty" yaml:"untracked,omitempty" msgpack:"untracked,omitempty"`
	References   []string `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references,omitempty"`
}

// Step is one compiler callback. Exactly one field is set.
type Step struct {
	Write      *WriteStep      `json:"write,omitempty" yaml:"write,omitempty" msgpack:"write,omitempty"`
	Submit     *SubmitStep     `json:"submit,omitempty" yaml:"submit,omitempty" msgpack:"submit,omitempty"`
	Diagnostic *DiagnosticStep `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty" msgpack:"diagnostic,omitempty"`
}

// WriteStep is a compiler output file write.
type WriteStep struct {
	Name    string `json:"name" yaml:"name" msgpack:"name"`
	Content string `json:"content,omitempty" yaml:"content,omitempty" msgpack:"content,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
}

// SubmitStep is an artifact submitted by key and kind.
type SubmitStep struct {
	Key     string `json:"key" yaml:"key" msgpack:"key"`
	Kind    string `json:"kind" yaml:"kind" msgpack:"kind"`
	Content string `json:"content,omitempty" yaml:"content,omitempty" msgpack:"content,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
}

// DiagnosticStep is a raw compiler diagnostic.
type DiagnosticStep struct {
	Code     string            `json:"code" yaml:"code" msgpack:"code"`
	Severity string            `json:"severity,omitempty" yaml:"severity,omitempty" msgpack:"severity,omitempty"`
	Message  diag.MessageChain `json:"message" yaml:"message" msgpack:"message"`
	File     string            `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Start    int               `json:"start,omitempty" yaml:"start,omitempty" msgpack:"start,omitempty"`
	Length   int               `json:"length,omitempty" yaml:"length,omitempty" msgpack:"length,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
}

// Diagnostic converts the step into the engine's raw diagnostic.
func (s *DiagnosticStep) Diagnostic() (diag.Diagnostic, error) {
	sev, err := diag.ParseSeverity(s.Severity)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	return diag.Diagnostic{
		Code:     s.Code,
		Severity: sev,
		Message:  s.Message,
		File:     s.File,
		Start:    s.Start,
		Length:   s.Length,
		Text:     s.Text,
	}, nil
}

// Load reads a transcript, choosing the decoder by extension. Relative file
// references inside it resolve against its directory.
func Load(path string) (*Transcript, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.dir = filepath.Dir(path)
	return t, nil
}

// Decode reads a transcript in the given format.
func Decode(r io.Reader, format Format) (*Transcript, error) {
	var t Transcript
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&t)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&t)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&t)
	default:
		return nil, fmt.Errorf("unknown transcript format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s transcript: %w", format, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Encode writes t in the given format.
func (t *Transcript) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(t)
	}
	return fmt.Errorf("unknown transcript format %d", format)
}

// SetDir sets the directory relative file references resolve against.
func (t *Transcript) SetDir(dir string) { t.dir = dir }

func (t *Transcript) validate() error {
	for i, in := range t.Inputs {
		if in.Path == "" {
			return fmt.Errorf("input %d: missing path", i+1)
		}
	}
	for i, s := range t.Steps {
		n := 0
		if s.Write != nil {
			n++
		}
		if s.Submit != nil {
			n++
		}
		if s.Diagnostic != nil {
			n++
		}
		if n != 1 {
			return fmt.Errorf("step %d: expected exactly one of write, submit, diagnostic", i+1)
		}
	}
	return nil
}
