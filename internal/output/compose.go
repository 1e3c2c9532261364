package output

import (
	"fmt"
	"path"

	"mapfold/internal/pipeline"
	"mapfold/internal/source"
	"mapfold/internal/sourcemap"
	"mapfold/internal/trace"
)

const (
	skipUnresolvable = "origin outside tracked inputs"
	skipNoStageMap   = "origin carries no stage map"
	skipBadMap       = "malformed source map"
)

// compose parses the file's map, resolves its origin and folds every origin's
// stage map into it. Files whose origin is unknown or map-less are marked skip.
func (r *Run) compose(f *LogicalFile) error {
	tok := r.timer.Begin("compose")
	defer r.timer.End(tok, "")
	pipeline.Emit(r.progress, pipeline.Event{Key: f.key, Stage: pipeline.StageCompose, Status: pipeline.StatusWorking})

	m, err := sourcemap.ParseString(f.content(KindSourceMap))
	if err != nil {
		f.markSkip(skipBadMap)
		return err
	}
	m.NormalizeSeparators()

	f.origin = r.resolveOrigin(f.key, m)
	if f.origin == nil {
		r.skip(f, skipUnresolvable)
		return nil
	}
	if !f.origin.Primary.HasStageMap() {
		r.skip(f, skipNoStageMap)
		return nil
	}

	gen, err := sourcemap.FromMap(m)
	if err != nil {
		f.markSkip(skipBadMap)
		return err
	}
	folded := 0
	for _, in := range f.origin.Inputs {
		if !in.HasStageMap() {
			continue
		}
		upstream, err := sourcemap.NewConsumer(in.Host.StageMap)
		if err != nil {
			f.markSkip(skipBadMap)
			return fmt.Errorf("stage map of %s: %w", in.Path, err)
		}
		gen.ApplyMap(upstream, r.sourceMatcher(f.key, in))
		folded++
	}

	f.composed = gen.Map()
	f.mapText = f.composed.String()
	f.isComposed = true
	trace.Point(r.tracer, trace.ScopeFile, "compose", f.key, r.span.ID(),
		"origin", f.origin.Primary.Path, "folded", fmt.Sprint(folded))
	pipeline.Emit(r.progress, pipeline.Event{Key: f.key, Stage: pipeline.StageCompose, Status: pipeline.StatusDone})
	return nil
}

func (r *Run) skip(f *LogicalFile, reason string) {
	f.markSkip(reason)
	trace.Point(r.tracer, trace.ScopeFile, "skip", f.key, r.span.ID(), "reason", reason)
	pipeline.Emit(r.progress, pipeline.Event{Key: f.key, Stage: pipeline.StageCompose, Status: pipeline.StatusSkipped})
}

// resolveOrigin finds the inputs behind key. Bundled output belongs to every
// tracked input; a per-file output to the input named by its map's first source.
func (r *Run) resolveOrigin(key string, m *sourcemap.Map) *Origin {
	if r.cfg.SingleOutput {
		tracked := r.files.Tracked()
		if len(tracked) == 0 {
			return nil
		}
		return &Origin{Primary: tracked[0], Inputs: tracked}
	}
	if len(m.Sources) == 0 {
		return nil
	}
	in, ok := r.files.Resolve(resolveSource(key, m.SourcePath(0)))
	if !ok || in.Host == nil {
		return nil
	}
	return &Origin{Primary: in, Inputs: []*source.File{in}}
}

// sourceMatcher reports map sources of key that name input in.
func (r *Run) sourceMatcher(key string, in *source.File) func(string) bool {
	return func(src string) bool {
		f, ok := r.files.Resolve(resolveSource(key, src))
		return ok && f.Path == in.Path
	}
}

// resolveSource interprets a map source relative to the directory of key.
func resolveSource(key, src string) string {
	if path.IsAbs(src) {
		return path.Clean(src)
	}
	return path.Join(path.Dir(key), src)
}
