package output

import (
	"mapfold/internal/source"
	"mapfold/internal/sourcemap"
)

// Artifact is one raw compiler output tagged with its kind.
type Artifact struct {
	Kind    Kind
	Content string
}

// Origin identifies the inputs that produced a logical output file.
// Primary is the first tracked input in bundled mode, the input named by the
// map's first source otherwise. Inputs are the inputs whose stage maps get folded.
type Origin struct {
	Primary *source.File
	Inputs  []*source.File
}

// References returns the keys the primary input references.
func (o *Origin) References() []string {
	if o == nil || o.Primary == nil {
		return nil
	}
	keys := make([]string, 0, len(o.Primary.References))
	for _, ref := range o.Primary.References {
		keys = append(keys, source.KeyOf(ref))
	}
	return keys
}

// LogicalFile groups the artifacts of one key.
type LogicalFile struct {
	key      string
	slots    [kindCount]*Artifact
	present  KindSet
	state    State
	origin   *Origin
	composed *sourcemap.Map
	mapText  string // serialized composed map

	isComposed bool
	pushed     bool
	skip       bool
	skipReason string
}

// Key returns the extensionless path.
func (f *LogicalFile) Key() string { return f.key }

// State returns the completeness state.
func (f *LogicalFile) State() State { return f.state }

// Present returns the kinds stored so far.
func (f *LogicalFile) Present() KindSet { return f.present }

// Artifact returns the stored artifact of kind k.
func (f *LogicalFile) Artifact(k Kind) (Artifact, bool) {
	if !k.Valid() || f.slots[k] == nil {
		return Artifact{}, false
	}
	return *f.slots[k], true
}

// Origin returns the resolved origin, nil before completion or when unresolvable.
func (f *LogicalFile) Origin() *Origin { return f.origin }

// ComposedMap returns the folded map, nil until composed.
func (f *LogicalFile) ComposedMap() *sourcemap.Map { return f.composed }

// ComposedMapString returns the serialized folded map.
func (f *LogicalFile) ComposedMapString() string { return f.mapText }

// Composed reports whether composition ran to completion.
func (f *LogicalFile) Composed() bool { return f.isComposed }

// Pushed reports whether the file reached the channels.
func (f *LogicalFile) Pushed() bool { return f.pushed }

// Skipped reports whether the file is permanently excluded from emission, and why.
func (f *LogicalFile) Skipped() (bool, string) { return f.skip, f.skipReason }

// store fills slot k and advances the state machine against req.
// It reports true exactly once: on the transition to StateComplete.
func (f *LogicalFile) store(k Kind, content string, req KindSet) bool {
	f.slots[k] = &Artifact{Kind: k, Content: content}
	f.present = f.present.With(k)
	if f.state == StateComplete {
		return false
	}
	if f.present.Covers(req) {
		f.state = StateComplete
		return true
	}
	f.state = StatePartial
	return false
}

func (f *LogicalFile) markSkip(reason string) {
	if f.skip {
		return
	}
	f.skip = true
	f.skipReason = reason
}

func (f *LogicalFile) content(k Kind) string {
	if a := f.slots[k]; a != nil {
		return a.Content
	}
	return ""
}
