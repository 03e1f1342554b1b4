package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the exercises hf knows about",
	Example: `  hf catalog
  hf catalog --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises := catalog.Exercises()
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(exercises)
		}
		tbl := NewTable(os.Stdout, "NAME", "VIDEO")
		for _, e := range exercises {
			tbl.Row(e.Name, e.Video)
		}
		return tbl.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
