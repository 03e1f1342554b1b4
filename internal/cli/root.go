// Package cli defines the cobra command tree for the hf CLI.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/calendar"
	"github.com/scbrown/hiitfit/internal/config"
	"github.com/scbrown/hiitfit/internal/history"
	"github.com/scbrown/hiitfit/internal/logging"
	"github.com/scbrown/hiitfit/internal/model"
)

var (
	historyPath string
	jsonOutput  bool
	logLevel    string

	// cfg is the loaded configuration; never nil after PersistentPreRun.
	cfg = &config.Config{}
	log = logging.New(logging.Params{})

	// now is the clock used by every command, replaceable in tests.
	now = time.Now
)

// rootCmd is the top-level hf command.
var rootCmd = &cobra.Command{
	Use:   "hf",
	Short: "HIITFit - keep a history of completed exercises",
	Long: `hf records the exercises you complete and reports on them by day
and by week.

The history is stored in a single file at ~/.hf/history.bin (configurable via
--history or hf config history_path). At most one entry exists per calendar
day, kept newest first. All read commands support --json for machine-readable
output.`,
	Example: `  # Record a squat done just now
  hf record squat

  # Back-fill a burpee done on a past day
  hf add 2024-06-01 burpee

  # Review recent activity
  hf history --limit 10
  hf week
  hf stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			loaded = &config.Config{}
		}
		cfg = loaded
		if !cmd.Flags().Changed("history") {
			historyPath = cfg.History()
		}
		if cfg.DefaultFormat == "json" && !cmd.Flags().Changed("json") {
			jsonOutput = true
		}
		level := logLevel
		if level == "" {
			level = cfg.LogLevel
		}
		log = logging.New(logging.Params{Level: level, File: cfg.LogFile})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", config.DefaultHistoryPath(), "path to the history file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level (trace, debug, info, warn, error)")
}

// openStore loads the history file. A file that exists but cannot be read
// is reported on stderr; the store then starts empty and the next change
// replaces the unreadable file.
func openStore(opts ...history.Option) *history.Store {
	opts = append([]history.Option{history.WithClock(now), history.WithLogger(log)}, opts...)
	s := history.Open(historyPath, opts...)
	if s.Broken() {
		fmt.Fprintf(os.Stderr, "warning: starting with an empty history; the next change will overwrite %s\n", historyPath)
	}
	return s
}

// dayOn returns the history day on the same calendar day as date.
func dayOn(s *history.Store, date time.Time) (model.ExerciseDay, bool) {
	for _, d := range s.AllDays() {
		if calendar.SameDay(d.Date, date) {
			return d, true
		}
	}
	return model.ExerciseDay{}, false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
