package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mapfold/internal/output"
)

// Manifest is a located and decoded mapfold.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the file layout.
type Config struct {
	Run    RunConfig    `toml:"run"`
	Output OutputConfig `toml:"output"`
}

// RunConfig is the [run] table.
type RunConfig struct {
	Declarations bool `toml:"declarations"`
	SingleOutput bool `toml:"single_output"`
	SortOutput   bool `toml:"sort_output"`
}

// OutputConfig is the [output] table. Empty suffixes fall back to the defaults.
type OutputConfig struct {
	Dir               string `toml:"dir"`
	CodeSuffix        string `toml:"code_suffix"`
	MapSuffix         string `toml:"map_suffix"`
	DeclarationSuffix string `toml:"declaration_suffix"`
}

// Load finds mapfold.toml above startDir and decodes it.
// ok is false when there is no manifest.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode is LoadConfig for in-memory TOML.
func Decode(data string) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %s", undecoded[0])
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	seen := make(map[string]string, 3)
	for _, s := range []struct{ key, val string }{
		{"code_suffix", c.Output.CodeSuffix},
		{"map_suffix", c.Output.MapSuffix},
		{"declaration_suffix", c.Output.DeclarationSuffix},
	} {
		if s.val == "" {
			continue
		}
		if !strings.HasPrefix(s.val, ".") {
			return fmt.Errorf("[output].%s must start with '.': %q", s.key, s.val)
		}
		if other, dup := seen[s.val]; dup {
			return fmt.Errorf("[output].%s repeats [output].%s (%q)", s.key, other, s.val)
		}
		seen[s.val] = s.key
	}
	return nil
}

// RunConfig returns the engine configuration the manifest describes.
func (c Config) RunConfig() output.Config {
	return output.Config{
		Declarations: c.Run.Declarations,
		SingleOutput: c.Run.SingleOutput,
		SortOutput:   c.Run.SortOutput,
		Suffixes: output.Suffixes{
			Code:        c.Output.CodeSuffix,
			SourceMap:   c.Output.MapSuffix,
			Declaration: c.Output.DeclarationSuffix,
		},
	}
}

// OutDir resolves [output].dir against the manifest directory.
// An empty dir means the manifest directory itself.
func (m *Manifest) OutDir() string {
	if m == nil {
		return ""
	}
	dir := m.Config.Output.Dir
	if dir == "" {
		return m.Root
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
