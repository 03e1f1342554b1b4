package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/archive"
)

var importCmd = &cobra.Command{
	Use:   "import <archive.db>",
	Short: "Merge a SQLite archive into the history",
	Long: `Import reads a SQLite archive written by hf export --format sqlite and
merges every exercise into the history: exercises on a day already in the
history join that day, other days are inserted at their place by date.

The history is saved once, after all exercises are merged.`,
	Example: `  hf import ~/hiitfit.db`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("archive %s does not exist", path)
		}
		a, err := archive.New(path)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer a.Close()

		days, err := a.ReadDays(cmd.Context())
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		n, err := openStore().Import(days)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Imported %d exercises from %d days\n", n, len(days))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
