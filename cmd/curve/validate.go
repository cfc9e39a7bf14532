package curve

import (
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates a curve file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		curveTable, err := loadCurve()
		if err != nil {
			return err
		}

		if curveTable.Len() == 0 {
			ui.Warning("Curve has no points, fans will always run at full speed")
		} else if !curveTable.IsMonotonic() {
			ui.Warning("Curve is not monotonic, fans will slow down while the temperature rises")
		}

		ui.Success("Curve has %d points", curveTable.Len())
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
