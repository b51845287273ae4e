package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmsdata/carms-etl/database"
	"github.com/carmsdata/carms-etl/runner"
	"github.com/carmsdata/carms-etl/schema"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show table row counts and the most recent run",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		pool, err := database.GetPool()
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}
		defer database.ClosePool()

		fmt.Println("📊 Table row counts:")
		for _, table := range []string{
			schema.TableDiscipline,
			schema.TableSchool,
			schema.TableProgram,
			schema.TableProgramSection,
		} {
			var count int
			if err := pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
				fmt.Printf("   - %-16s (missing: %v)\n", table, err)
				continue
			}
			fmt.Printf("   - %-16s %d\n", table, count)
		}

		runs, err := runner.RunHistory(ctx, pool, 1)
		if err != nil {
			fmt.Println("\n🕒 No run history available:", err)
			return
		}
		if len(runs) == 0 {
			fmt.Println("\n🕒 No recorded runs yet.")
			return
		}
		last := runs[0]
		fmt.Printf("\n🕒 Last run: %s (%s) at %s\n", last.RunID, last.Status, last.StartedAt.Format("2006-01-02 15:04:05"))
	},
}
