package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/carmsdata/carms-etl/database"
	"github.com/carmsdata/carms-etl/runner"
	"github.com/carmsdata/carms-etl/schema"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past pipeline runs",
	Long: `Show past pipeline runs with status, timestamps, and loaded row counts.

Examples:
  carms-etl history                  # Show all recorded runs
  carms-etl history --limit 10       # Show last 10 runs
`,
	Run: func(cmd *cobra.Command, args []string) {
		pool, err := database.GetPool()
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer database.ClosePool()

		runs, err := runner.RunHistory(context.Background(), pool, historyLimit)
		if err != nil {
			fmt.Printf("❌ Error getting run history: %v\n", err)
			os.Exit(1)
		}

		if len(runs) == 0 {
			fmt.Println("📋 No pipeline runs recorded")
			return
		}

		showRunHistory(runs)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Limit number of runs shown (0 = all)")
}

func showRunHistory(runs []schema.Run) {
	fmt.Println("📋 Pipeline Run History")
	fmt.Println(strings.Repeat("=", 60))

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, r := range runs {
		status := green(r.Status)
		if r.Status != "success" {
			status = red(r.Status)
		}
		fmt.Printf("%s  %s  %s\n", r.StartedAt.Format("2006-01-02 15:04:05"), status, r.RunID)
		if r.Status == "success" {
			fmt.Printf("    disciplines=%s schools=%s programs=%s sections=%s\n",
				countOrDash(r.Disciplines), countOrDash(r.Schools),
				countOrDash(r.Programs), countOrDash(r.Sections))
		}
	}
}

func countOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}
