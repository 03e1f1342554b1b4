package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/codec"
)

// Version and Commit are set at build time via -ldflags.
//
//	go build -ldflags "-X github.com/scbrown/hiitfit/internal/cli.Version=v0.2.0
//	  -X github.com/scbrown/hiitfit/internal/cli.Commit=48cae1d" ./cmd/hf
var (
	Version = ""
	Commit  = ""
)

// buildInfo is what hf version reports.
type buildInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit,omitempty"`
	HistoryFormat int    `json:"history_format"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hf version and history file format",
	Long: `Print the hf release, the commit it was built from, and the history
file format version this build writes.

A build reads history files up to its own format version. An older hf treats
a history written in a newer format as unreadable and starts empty, so the next
recorded exercise replaces that file.`,
	Example: `  hf version
  hf version --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		if info.Commit != "" {
			fmt.Printf("hf %s (%s), history format v%d\n", info.Version, info.Commit, info.HistoryFormat)
		} else {
			fmt.Printf("hf %s, history format v%d\n", info.Version, info.HistoryFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func currentBuild() buildInfo {
	info := buildInfo{Version: Version, Commit: Commit, HistoryFormat: codec.Version}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = commitFromBuildInfo()
	}
	info.Commit = shortCommit(info.Commit)
	return info
}

// commitFromBuildInfo extracts vcs.revision from Go's embedded build info.
func commitFromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// shortCommit returns the first 7 characters of a commit hash.
func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
