package cmd

import (
	"fmt"
	"os"

	"github.com/fanctl/amdfan/cmd/config"
	"github.com/fanctl/amdfan/cmd/curve"
	"github.com/fanctl/amdfan/cmd/device"
	"github.com/fanctl/amdfan/cmd/global"
	"github.com/fanctl/amdfan/internal/configuration"
	"github.com/fanctl/amdfan/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "amdfan",
	Short: "A fan controller for amdgpu devices.",
	Long: `amdfan controls the fan of an amdgpu device based on
one of its temperature sensors and a user defined curve.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "", "", "settings file (default is ./amdfan.yaml, $HOME/amdfan.yaml or /etc/amdfan/amdfan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(curve.Command)
	rootCmd.AddCommand(device.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("amd", pterm.NewStyle(pterm.FgLightRed)),
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("amdfan")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		setupUi()
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
