package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scbrown/hiitfit/internal/devdata"
)

var (
	seedValue int64
	seedDays  int
	seedForce bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the history with generated sample data",
	Long: `Seed generates a sample history for trying out hf: roughly two years of
days ending today, with some rest days left empty. The same --seed always
produces the same exercises.

Seed refuses to touch a history that already has days unless --force is
given, in which case the sample exercises are merged in.`,
	Example: `  hf seed --history /tmp/demo.bin
  hf seed --days 30 --seed 7 --history /tmp/demo.bin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore()
		if s.Len() > 0 && !seedForce {
			return fmt.Errorf("history %s already has %d days; use --force to merge sample data into it", s.Path(), s.Len())
		}
		days := devdata.Generate(seedValue, seedDays, now())
		n, err := s.Import(days)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Seeded %d exercises over %d days\n", n, len(days))
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64Var(&seedValue, "seed", 1, "random seed")
	seedCmd.Flags().IntVar(&seedDays, "days", devdata.DefaultDays, "number of calendar days to cover")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "merge into a non-empty history")
	rootCmd.AddCommand(seedCmd)
}
