package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/carmsdata/carms-etl/database"
	"github.com/carmsdata/carms-etl/runner"
)

var (
	runDryRun     bool
	runConfigPath string
	runDataDir    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the ETL pipeline",
	Long: `Execute the full pipeline: extract the raw exports, transform them into
the relational shape, and atomically replace the store contents.

Examples:
  carms-etl run                     # Run against the configured data directory
  carms-etl run --dry-run           # Print the execution plan only
  carms-etl run --data-dir ./raw    # Override the data directory
`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := runner.Options{ConfigPath: runConfigPath, DataDir: runDataDir}

		if runDryRun {
			order, err := runner.Plan(opts)
			if err != nil {
				fmt.Println("❌ Plan failed:", err)
				os.Exit(1)
			}
			fmt.Println("🗺  Execution plan:")
			for i, name := range order {
				fmt.Printf("   %d. %s\n", i+1, name)
			}
			fmt.Println("(Dry run only. Nothing was read or loaded.)")
			return
		}

		// A cancelled run before the load transaction opens leaves the store
		// untouched; after it opens, the loader resolves to commit or rollback.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		defer database.ClosePool()

		fmt.Println("🚀 Running pipeline...")
		result, err := runner.Run(ctx, opts)
		if err != nil {
			fmt.Println("❌ Pipeline run failed:", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Run %s completed in %s\n", green("✅"), result.RunID, result.Elapsed.Round(time.Millisecond))
		fmt.Printf("   disciplines_count: %d\n", result.Counts.Disciplines)
		fmt.Printf("   schools_count:     %d\n", result.Counts.Schools)
		fmt.Printf("   programs_count:    %d\n", result.Counts.Programs)
		fmt.Printf("   sections_count:    %d\n", result.Counts.Sections)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the execution plan without running the pipeline")
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to etl.yaml (default ./etl.yaml)")
	runCmd.Flags().StringVarP(&runDataDir, "data-dir", "d", "", "Raw data directory (overrides config and RAW_DATA_DIR)")
}
