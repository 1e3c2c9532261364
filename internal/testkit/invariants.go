package testkit

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"mapfold/internal/output"
	"mapfold/internal/sourcemap"
)

// CheckMapInvariants runs a minimal set of invariants on a rendered map:
// 1) version is 3 and sources are unique and non-empty
// 2) sourcesContent is no longer than sources
// 3) mappings decode and generated positions are non-decreasing
// 4) every position fits the uint32 range used by line indexes
func CheckMapInvariants(m *sourcemap.Map) error {
	if m == nil {
		return fmt.Errorf("nil map")
	}
	if m.Version != sourcemap.Version {
		return fmt.Errorf("version %d", m.Version)
	}
	seen := make(map[string]struct{}, len(m.Sources))
	for i, src := range m.Sources {
		if src == "" {
			return fmt.Errorf("empty source at index %d", i)
		}
		if _, dup := seen[src]; dup {
			return fmt.Errorf("duplicate source %q", src)
		}
		seen[src] = struct{}{}
	}
	if len(m.SourcesContent) > len(m.Sources) {
		return fmt.Errorf("sourcesContent has %d entries for %d sources", len(m.SourcesContent), len(m.Sources))
	}

	mappings, err := m.Decode()
	if err != nil {
		return err
	}
	for i, mp := range mappings {
		if i > 0 {
			prev := mappings[i-1]
			if mp.GenLine < prev.GenLine || (mp.GenLine == prev.GenLine && mp.GenColumn < prev.GenColumn) {
				return fmt.Errorf("mapping %d out of order: %d:%d after %d:%d", i, mp.GenLine, mp.GenColumn, prev.GenLine, prev.GenColumn)
			}
		}
		for _, v := range []int{mp.GenLine, mp.GenColumn, mp.OrigLine, mp.OrigColumn} {
			if _, err := safecast.Conv[uint32](v); err != nil {
				return fmt.Errorf("mapping %d: %w", i, err)
			}
		}
	}
	return nil
}

// CheckEmitted verifies what a finished run pushed to a channel:
// keys are unique, each file carries a composed map that passes
// CheckMapInvariants, and no key outside allowed was emitted.
func CheckEmitted(ch *output.MemoryChannel, allowed []string) error {
	if ch == nil {
		return fmt.Errorf("nil channel")
	}
	if n := ch.Closed(); n != 1 {
		return fmt.Errorf("channel closed %d times", n)
	}
	seen := make(map[string]struct{})
	for _, f := range ch.Files() {
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("key %q pushed twice", f.Key)
		}
		seen[f.Key] = struct{}{}
		if allowed != nil && !slices.Contains(allowed, f.Key) {
			return fmt.Errorf("unexpected key %q", f.Key)
		}
		if f.Kind != output.KindCode {
			continue
		}
		if err := CheckMapInvariants(f.SourceMap); err != nil {
			return fmt.Errorf("key %q: %w", f.Key, err)
		}
	}
	return nil
}
