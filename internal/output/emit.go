package output

import (
	"path"
	"strings"

	"mapfold/internal/pipeline"
	"mapfold/internal/trace"
)

// emit pushes a complete file to the channels once. Skipped files are ignored.
func (r *Run) emit(f *LogicalFile) {
	if f.skip || f.pushed || f.state != StateComplete {
		return
	}
	tok := r.timer.Begin("emit")
	defer r.timer.End(tok, "")

	var cwd, base string
	if h := f.origin.Primary.Host; h != nil {
		cwd, base = h.Cwd, h.Base
	}
	target := f.key
	if r.cfg.SingleOutput && base != "" {
		target = path.Join(base, f.key)
	}

	code := OutputFile{
		Key:       f.key,
		Kind:      KindCode,
		Path:      target + r.cfg.Suffixes.Code,
		Content:   []byte(removeSourceMapComment(f.content(KindCode))),
		Cwd:       cwd,
		Base:      base,
		SourceMap: f.composed.Clone(),
	}
	r.code.Push(code)
	if r.cfg.Declarations {
		r.decl.Push(OutputFile{
			Key:     f.key,
			Kind:    KindDeclaration,
			Path:    target + r.cfg.Suffixes.Declaration,
			Content: []byte(f.content(KindDeclaration)),
			Cwd:     cwd,
			Base:    base,
		})
	}
	f.pushed = true
	trace.Point(r.tracer, trace.ScopeFile, "emit", f.key, r.span.ID(), "path", code.Path)
	pipeline.Emit(r.progress, pipeline.Event{Key: f.key, Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
}

// sortedEmit walks keys in first-insertion order and emits each file after the
// files its primary input references. The walk is an explicit depth-first
// worklist; a key is entered at most once, so cycles emit in discovery order.
func (r *Run) sortedEmit() {
	span := trace.Begin(r.tracer, trace.ScopePhase, "sorted-emit", r.span.ID())
	defer span.End("")

	type frame struct {
		file *LogicalFile
		refs []string
		next int
	}
	visited := make(map[string]bool, len(r.order))
	var stack []frame
	enter := func(key string) {
		if visited[key] {
			return
		}
		visited[key] = true
		f, ok := r.byKey[key]
		if !ok || f.skip || f.pushed || f.state != StateComplete {
			return
		}
		stack = append(stack, frame{file: f, refs: f.origin.References()})
	}

	for _, key := range r.order {
		enter(key)
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.refs) {
				ref := top.refs[top.next]
				top.next++
				enter(ref)
				continue
			}
			done := top.file
			stack = stack[:len(stack)-1]
			r.emit(done)
		}
	}
}

// removeSourceMapComment drops a trailing sourceMappingURL comment line; the
// composed map travels with the file instead.
func removeSourceMapComment(content string) string {
	body := strings.TrimRight(content, "\r\n")
	start := strings.LastIndexByte(body, '\n') + 1
	last := strings.TrimSpace(body[start:])
	if !strings.HasPrefix(last, "//# sourceMappingURL=") && !strings.HasPrefix(last, "//@ sourceMappingURL=") {
		return content
	}
	return body[:start]
}
