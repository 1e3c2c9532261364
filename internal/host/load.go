package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mapfold/internal/source"
	"mapfold/internal/sourcemap"
)

// Resolve reads every file a transcript refers to instead of embedding
// (input contents, stage maps, written artifacts) with up to jobs parallel reads.
func (t *Transcript) Resolve(ctx context.Context, jobs int) error {
	type read struct {
		path string
		dst  *string
	}
	var reads []read
	for i := range t.Inputs {
		in := &t.Inputs[i]
		if in.File != "" {
			reads = append(reads, read{in.File, &in.Content})
		}
		if in.StageMapFile != "" {
			reads = append(reads, read{in.StageMapFile, &in.StageMap})
		}
	}
	for i := range t.Steps {
		switch s := &t.Steps[i]; {
		case s.Write != nil && s.Write.File != "":
			reads = append(reads, read{s.Write.File, &s.Write.Content})
		case s.Submit != nil && s.Submit.File != "":
			reads = append(reads, read{s.Submit.File, &s.Submit.Content})
		}
	}
	if len(reads) == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// каждый dst уникален, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reads)))
	for _, rd := range reads {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// #nosec G304 -- paths come from the transcript the user selected
			data, err := os.ReadFile(t.path(rd.path))
			if err != nil {
				return fmt.Errorf("read %s: %w", rd.path, err)
			}
			*rd.dst = string(data)
			return nil
		})
	}
	return g.Wait()
}

func (t *Transcript) path(p string) string {
	if filepath.IsAbs(p) || t.dir == "" {
		return p
	}
	return filepath.Join(t.dir, p)
}

// FileSet builds the tracked-input index of the transcript. Call Resolve first
// when inputs refer to files.
func (t *Transcript) FileSet() (*source.FileSet, error) {
	fs := source.NewFileSet()
	for _, in := range t.Inputs {
		if in.Untracked {
			fs.Add(in.Path, []byte(in.Content), source.FileVirtual)
			continue
		}
		host := &source.Host{Cwd: in.Cwd, Base: in.Base}
		if host.Cwd == "" {
			host.Cwd = t.Cwd
		}
		if in.StageMap != "" {
			m, err := sourcemap.ParseString(in.StageMap)
			if err != nil {
				return nil, fmt.Errorf("input %s: stage map: %w", in.Path, err)
			}
			host.StageMap = m
		}
		fs.AddTracked(in.Path, []byte(in.Content), host, in.References)
	}
	return fs, nil
}
