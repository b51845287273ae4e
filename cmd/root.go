package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carms-etl",
	Short: "ETL pipeline for CaRMS residency program data",
	Long: `carms-etl ingests the CaRMS raw exports (discipline and program master
spreadsheets plus the program description export), normalizes them through an
asset graph, and atomically loads the relational store behind the query API.

Examples:

  carms-etl validate
  carms-etl run
  carms-etl status
`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(initCmd)
}
