package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mapfold/internal/diag"
	"mapfold/internal/diagfmt"
	"mapfold/internal/host"
	"mapfold/internal/observ"
	"mapfold/internal/output"
	"mapfold/internal/pipeline"
	"mapfold/internal/project"
	"mapfold/internal/trace"
	"mapfold/internal/version"
)

var replayCmd = &cobra.Command{
	Use:   "replay [flags] <transcript>",
	Short: "Replay a recorded compiler session through the output engine",
	Long: `Replay loads a transcript (.json, .yaml, .yml, .mp, .msgpack) of compiler
callbacks, feeds it to a fresh run and writes the emitted files.

Settings come from mapfold.toml (searched upwards from the working directory),
then from the transcript's config block, then from flags.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringP("out", "o", "", "output directory (default: [output].dir, or no writes)")
	replayCmd.Flags().Bool("declarations", false, "require and emit declaration artifacts")
	replayCmd.Flags().Bool("single-output", false, "bundled mode: all inputs produce one output")
	replayCmd.Flags().Bool("sort-output", false, "emit in reference order at the end of the run")
	replayCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	replayCmd.Flags().Int("jobs", 0, "parallel file reads (0 = GOMAXPROCS)")
	replayCmd.Flags().String("errors-out", "", "write recorded errors to this file (msgpack)")
	replayCmd.Flags().String("diag-format", "short", "diagnostics format (short|pretty|json|sarif)")
	replayCmd.Flags().String("diag-paths", "auto", "diagnostic path display (auto|absolute|relative|basename)")
}

type replayOptions struct {
	cfg       output.Config
	outDir    string
	ui        switchMode
	jobs      int
	errorsOut string
	diagFmt   diagfmt.Format
	diagPaths diagfmt.PathMode
	quiet     bool
	timings   bool
	color     bool
}

func readReplayOptions(cmd *cobra.Command, tr *host.Transcript) (replayOptions, error) {
	var opts replayOptions

	manifest, ok, err := project.Load(".")
	if err != nil {
		return opts, err
	}
	if ok {
		opts.cfg = manifest.Config.RunConfig()
		opts.outDir = manifest.OutDir()
	}
	tr.Config.Apply(&opts.cfg)

	flags := cmd.Flags()
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"declarations", &opts.cfg.Declarations},
		{"single-output", &opts.cfg.SingleOutput},
		{"sort-output", &opts.cfg.SortOutput},
	} {
		if !flags.Changed(b.name) {
			continue
		}
		if *b.dst, err = flags.GetBool(b.name); err != nil {
			return opts, err
		}
	}
	if flags.Changed("out") {
		if opts.outDir, err = flags.GetString("out"); err != nil {
			return opts, err
		}
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, err
	}
	if opts.ui, err = parseSwitch("ui", uiValue); err != nil {
		return opts, err
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.errorsOut, err = flags.GetString("errors-out"); err != nil {
		return opts, err
	}
	diagValue, err := flags.GetString("diag-format")
	if err != nil {
		return opts, err
	}
	if opts.diagFmt, err = diagfmt.ParseFormat(diagValue); err != nil {
		return opts, err
	}
	pathsValue, err := flags.GetString("diag-paths")
	if err != nil {
		return opts, err
	}
	if opts.diagPaths, err = diagfmt.ParsePathMode(pathsValue); err != nil {
		return opts, err
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.color, err = colorEnabled(cmd, os.Stderr); err != nil {
		return opts, err
	}
	return opts, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	tracer := trace.FromContext(cmd.Context())

	tr, err := host.Load(args[0])
	if err != nil {
		return err
	}
	opts, err := readReplayOptions(cmd, tr)
	if err != nil {
		return err
	}
	if err := tr.Resolve(cmd.Context(), opts.jobs); err != nil {
		return err
	}
	files, err := tr.FileSet()
	if err != nil {
		return err
	}

	var code, decl output.Channel
	var dir *host.DirChannel
	memory := output.NewMemoryChannel()
	if opts.outDir != "" {
		dir = host.NewDirChannel(opts.outDir)
		code, decl = dir, dir
	} else {
		code, decl = memory, memory
	}

	timer := observ.NewTimer()
	stderr := cmd.ErrOrStderr()
	reporter := diag.ReporterFunc(func(te *diag.TranslatedError, _ diag.Diagnostic) {
		if !opts.quiet && opts.diagFmt == diagfmt.FormatShort {
			fmt.Fprintln(stderr, te.Message)
		}
	})
	newRun := func(progress pipeline.ProgressSink) *output.Run {
		return output.NewRun(opts.cfg, files, code, decl, output.Options{
			Tracer:   tracer,
			Timer:    timer,
			Progress: progress,
			Reporter: diag.NewDedupReporter(reporter),
			Color:    opts.color,
		})
	}

	var run *output.Run
	if opts.ui.enabled(os.Stdout) {
		run, err = replayWithUI(cmd.Context(), "replay "+args[0], tr.Keys(opts.cfg.Suffixes), tr, newRun)
	} else {
		run = newRun(nil)
		err = host.Replay(cmd.Context(), run, tr)
	}
	if err != nil {
		dumpRing(cmd, tracer)
		return err
	}

	out := cmd.OutOrStdout()
	listFiles := !opts.quiet && opts.diagFmt != diagfmt.FormatJSON && opts.diagFmt != diagfmt.FormatSarif
	if dir != nil {
		if err := dir.Err(); err != nil {
			return err
		}
		if listFiles {
			for _, name := range dir.Written() {
				fmt.Fprintln(out, name)
			}
		}
	} else if listFiles {
		for _, f := range memory.Files() {
			fmt.Fprintln(out, f.Path)
		}
	}

	if err := renderDiagnostics(cmd, opts, run.ErrorLog()); err != nil {
		return err
	}
	if opts.errorsOut != "" {
		if err := writeErrorLog(opts.errorsOut, run.ErrorLog()); err != nil {
			return err
		}
	}
	if opts.timings {
		printTimings(stderr, timer)
	}
	if run.ErrorLog().HasErrors() {
		return fmt.Errorf("%d error(s) reported", run.ErrorLog().Len())
	}
	return nil
}

// renderDiagnostics prints the sorted error log in the non-streaming formats.
func renderDiagnostics(cmd *cobra.Command, opts replayOptions, log *diag.ErrorLog) error {
	errs := log.Sorted()
	switch opts.diagFmt {
	case diagfmt.FormatPretty:
		if opts.quiet {
			return nil
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), errs, diagfmt.PrettyOpts{
			Color:       opts.color,
			Context:     1,
			PathMode:    opts.diagPaths,
			ShowPreview: true,
		})
	case diagfmt.FormatJSON:
		return diagfmt.JSON(cmd.OutOrStdout(), errs, diagfmt.JSONOpts{IncludePositions: true, PathMode: opts.diagPaths})
	case diagfmt.FormatSarif:
		return diagfmt.Sarif(cmd.OutOrStdout(), errs, diagfmt.SarifRunMeta{
			ToolName:       "mapfold",
			ToolVersion:    version.Plain(),
			InvocationArgs: os.Args[1:],
		})
	}
	return nil
}

func writeErrorLog(path string, log *diag.ErrorLog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("errors-out: %w", err)
	}
	if err := log.Encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("errors-out: %w", err)
	}
	return f.Close()
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
