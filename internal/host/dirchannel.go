package host

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"mapfold/internal/output"
)

// DirChannel writes pushed files under a directory. Code files that carry a
// composed map get a ".map" sidecar and a sourceMappingURL comment.
type DirChannel struct {
	dir string

	mu      sync.Mutex
	written []string
	events  []error
	failed  []error
	closed  bool
}

// NewDirChannel writes under dir.
func NewDirChannel(dir string) *DirChannel {
	return &DirChannel{dir: dir}
}

func (c *DirChannel) Push(f output.OutputFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.write(f); err != nil {
		c.failed = append(c.failed, err)
	}
}

func (c *DirChannel) write(f output.OutputFile) error {
	rel, err := relativeTarget(f)
	if err != nil {
		return err
	}
	target := filepath.Join(c.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}

	content := f.Content
	if f.SourceMap != nil {
		m := f.SourceMap.Clone()
		m.File = path.Base(rel)
		data, err := m.Marshal()
		if err != nil {
			return fmt.Errorf("write %s.map: %w", rel, err)
		}
		if err := os.WriteFile(target+".map", data, 0o600); err != nil {
			return fmt.Errorf("write %s.map: %w", rel, err)
		}
		c.written = append(c.written, rel+".map")

		content = append([]byte(nil), f.Content...)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		content = append(content, "//# sourceMappingURL="+path.Base(rel)+".map\n"...)
	}
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	c.written = append(c.written, rel)
	return nil
}

// relativeTarget places f below the channel directory: relative paths stay as
// they are, absolute ones are taken relative to the file's base.
func relativeTarget(f output.OutputFile) (string, error) {
	p := filepath.ToSlash(f.Path)
	if path.IsAbs(p) || filepath.IsAbs(f.Path) {
		if f.Base == "" {
			return path.Base(p), nil
		}
		rel, err := filepath.Rel(f.Base, f.Path)
		if err != nil {
			return "", fmt.Errorf("place %s: %w", f.Path, err)
		}
		p = filepath.ToSlash(rel)
	}
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("place %s: outside output directory", f.Path)
	}
	return p, nil
}

func (c *DirChannel) Error(err error) {
	c.mu.Lock()
	c.events = append(c.events, err)
	c.mu.Unlock()
}

func (c *DirChannel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Written lists the written files relative to the directory, in write order.
func (c *DirChannel) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

// Events returns the error events received from the run.
func (c *DirChannel) Events() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.events...)
}

// Err returns the write failures, joined.
func (c *DirChannel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.failed...)
}

// Closed reports whether the run signaled end of stream.
func (c *DirChannel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
