package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"mapfold/internal/sourcemap"
	"mapfold/internal/version"
)

// buildInfo describes the binary. Empty build metadata is omitted.
type buildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	MapFormat int    `json:"source_map_version"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mapfold build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit and build date")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return err
	}

	info := buildInfo{
		Tool:      "mapfold",
		Version:   version.Plain(),
		MapFormat: sourcemap.Version,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if full {
		info.GitCommit = orUnknown(version.GitCommit)
		info.BuildDate = orUnknown(version.BuildDate)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "pretty", "":
		printBuildInfo(out, info, version.Version)
		return nil
	}
	return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
}

// printBuildInfo prints the human form; colored is the version with escapes.
func printBuildInfo(out io.Writer, info buildInfo, colored string) {
	fmt.Fprintf(out, "mapfold %s (source maps v%d, %s %s)\n", colored, info.MapFormat, info.Go, info.Platform)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
