package curve

import (
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
)

var write bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print a curve file in canonical form",
	Long: `Prints the points of a curve file sorted by temperature, without duplicates.
With --write the curve file is replaced instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		curveTable, err := loadCurve()
		if err != nil {
			return err
		}

		if !write {
			ui.Printf("%s", curves.Format(curveTable))
			return nil
		}

		if err := curves.WriteFile(curveFile, curveTable); err != nil {
			return err
		}
		ui.Success("Formatted %s", curveFile)
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result to the curve file")

	Command.AddCommand(fmtCmd)
}
