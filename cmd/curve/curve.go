package curve

import (
	"github.com/fanctl/amdfan/internal/curves"
	"github.com/spf13/cobra"
)

var curveFile string

var Command = &cobra.Command{
	Use:              "curve",
	Short:            "Curve file related commands",
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&curveFile,
		"curve", "c",
		"",
		"curve file with one '<temperature> => <percent>' point per line",
	)
	_ = Command.MarkPersistentFlagRequired("curve")
}

func loadCurve() (*curves.Table, error) {
	return curves.LoadFile(curveFile)
}
