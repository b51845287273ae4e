package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/carmsdata/carms-etl/config"
	"github.com/carmsdata/carms-etl/validate"
)

var (
	validateConfigPath string
	validateDataDir    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the raw source files without running the pipeline",
	Long: `Check that the configured raw exports exist, are readable, and carry the
columns the transformers need. Runs entirely offline.

Examples:
  carms-etl validate
  carms-etl validate --data-dir ./raw
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(validateConfigPath)
		if err != nil {
			fmt.Println("❌ Config error:", err)
			os.Exit(1)
		}
		if validateDataDir != "" {
			cfg.DataDir = validateDataDir
		}

		result := validate.Sources(cfg)

		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		for _, w := range result.Warnings {
			fmt.Printf("%s %s\n", yellow("⚠️ "), issueLine(w))
		}
		for _, e := range result.Errors {
			fmt.Printf("%s %s\n", red("❌"), issueLine(e))
		}

		if !result.Valid {
			fmt.Printf("\n❌ Validation failed with %d error(s)\n", len(result.Errors))
			os.Exit(1)
		}
		fmt.Printf("\n✅ Sources in %s look good\n", cfg.DataDir)
	},
}

func issueLine(i validate.Issue) string {
	if i.Column != "" {
		return fmt.Sprintf("%s [%s]: %s", i.File, i.Column, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.File, i.Message)
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "Path to etl.yaml (default ./etl.yaml)")
	validateCmd.Flags().StringVarP(&validateDataDir, "data-dir", "d", "", "Raw data directory (overrides config and RAW_DATA_DIR)")
}
