// Package cmd provides the command-line interface for UseTrack.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "usetrack",
	Short: "UseTrack CLI tool can perform common tasks related to recording " +
		"and inspecting usability signals.",
	Long: `UseTrack CLI tool can perform common tasks related to recording ` +
		`and inspecting usability signals. Currently, it supports replaying ` +
		`session scripts into the configured recorders.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file in the working directory can provide recorder
	// credentials, such as the MySQL connection settings.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
