package cmd

import (
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of amdfan",
	Long:  `All software has versions. This is amdfan's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
