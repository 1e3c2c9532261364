package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mapfold/internal/source"
	"mapfold/internal/sourcemap"
)

var composeCmd = &cobra.Command{
	Use:   "compose [flags] <generated.map> <upstream.map>...",
	Short: "Fold upstream source maps into a generated map",
	Long: `Compose re-points every mapping of the generated map whose source is the
file an upstream map describes (its "file" field, or --source for a single
upstream map) at that upstream map's original position.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().StringP("out", "o", "", "write the result here instead of stdout")
	composeCmd.Flags().String("source", "", "source name the single upstream map replaces")
}

func readMap(path string) (*sourcemap.Map, error) {
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := sourcemap.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.NormalizeSeparators()
	return m, nil
}

func runCompose(cmd *cobra.Command, args []string) error {
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

	sourceName, err := cmd.Flags().GetString("source")
	if err != nil {
		return err
	}
	if sourceName != "" && len(args) != 2 {
		return fmt.Errorf("--source needs exactly one upstream map")
	}

	generated, err := readMap(args[0])
	if err != nil {
		return err
	}
	gen, err := sourcemap.FromMap(generated)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	for _, path := range args[1:] {
		upstream, err := readMap(path)
		if err != nil {
			return err
		}
		target := sourceName
		if target == "" {
			target = upstream.File
		}
		if strings.TrimSpace(target) == "" {
			return fmt.Errorf("%s: no \"file\" field; pass --source", path)
		}
		consumer, err := sourcemap.NewConsumer(upstream)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		target = source.NormalizePath(target)
		gen.ApplyMap(consumer, func(src string) bool {
			return source.NormalizePath(src) == target
		})
	}

	data, err := gen.Map().Marshal()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o600)
}
