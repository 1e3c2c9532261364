package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	if !cfg.Enabled() {
		t.Fatalf("expected config to be enabled")
	}
	s, err := Start(cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	for _, p := range []string{cfg.CPU, cfg.Mem, cfg.Trace} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", filepath.Base(p), err)
		}
	}
}

func TestStartBadPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "cpu.pprof")
	if _, err := Start(Config{CPU: missing}); err == nil {
		t.Fatalf("expected error for unwritable cpu profile path")
	}
	// профилировщик должен быть освобождён после ошибки
	s, err := Start(Config{CPU: filepath.Join(t.TempDir(), "cpu.pprof")})
	if err != nil {
		t.Fatalf("restart after failure: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestNilSessionStop(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatalf("nil stop: %v", err)
	}
	if (Config{}).Enabled() {
		t.Fatalf("empty config must be disabled")
	}
}
