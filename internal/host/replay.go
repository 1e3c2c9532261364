package host

import (
	"context"
	"errors"
	"fmt"

	"mapfold/internal/output"
)

var errEmptyStep = errors.New("empty step")

// Replay feeds the steps into run in order and finishes it. A failing step does
// not stop the replay; all step errors are returned joined. Cancellation stops
// feeding and leaves the run unfinished.
func Replay(ctx context.Context, run *output.Run, t *Transcript) error {
	var errs []error
	for i, step := range t.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(run, step); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	if err := run.Finish(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func apply(run *output.Run, step Step) error {
	switch {
	case step.Write != nil:
		return run.Write(step.Write.Name, step.Write.Content)
	case step.Submit != nil:
		kind, err := output.ParseKind(step.Submit.Kind)
		if err != nil {
			return err
		}
		return run.Submit(step.Submit.Key, kind, step.Submit.Content)
	case step.Diagnostic != nil:
		d, err := step.Diagnostic.Diagnostic()
		if err != nil {
			return err
		}
		run.Error(d)
		return nil
	}
	return errEmptyStep
}

// Keys lists the logical output keys the transcript will produce, in first-step
// order. Names that do not split are left out.
func (t *Transcript) Keys(suffixes output.Suffixes) []string {
	suffixes = suffixes.WithDefaults()
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k == "" {
			return
		}
		k = output.NormalizeKey(k)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, step := range t.Steps {
		switch {
		case step.Write != nil:
			if key, _, ok := suffixes.Split(output.NormalizeKey(step.Write.Name)); ok {
				add(key)
			}
		case step.Submit != nil:
			add(step.Submit.Key)
		}
	}
	return keys
}
