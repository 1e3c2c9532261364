package output

import (
	"sync"

	"mapfold/internal/sourcemap"
)

// OutputFile is what a channel receives.
type OutputFile struct {
	Key       string
	Kind      Kind
	Path      string
	Content   []byte
	Cwd       string
	Base      string
	SourceMap *sourcemap.Map // code files only; nil when nothing was composed
}

// Channel is a push-only downstream sink.
type Channel interface {
	// Push hands over one finished file.
	Push(OutputFile)
	// Error delivers a non-fatal error event.
	Error(error)
	// Close signals end of stream. Called exactly once per run.
	Close()
}

// MemoryChannel records everything it receives.
type MemoryChannel struct {
	mu     sync.Mutex
	files  []OutputFile
	errs   []error
	closed int
}

// NewMemoryChannel creates an empty recorder.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{}
}

func (c *MemoryChannel) Push(f OutputFile) {
	c.mu.Lock()
	c.files = append(c.files, f)
	c.mu.Unlock()
}

func (c *MemoryChannel) Error(err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

func (c *MemoryChannel) Close() {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
}

// Files returns a copy of the pushed files.
func (c *MemoryChannel) Files() []OutputFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]OutputFile(nil), c.files...)
}

// Keys returns the keys of the pushed files in push order.
func (c *MemoryChannel) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, len(c.files))
	for i, f := range c.files {
		keys[i] = f.Key
	}
	return keys
}

// Errors returns a copy of the received error events.
func (c *MemoryChannel) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errs...)
}

// Closed returns how many times Close was called.
func (c *MemoryChannel) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type nopChannel struct{}

func (nopChannel) Push(OutputFile) {}
func (nopChannel) Error(error)     {}
func (nopChannel) Close()          {}
