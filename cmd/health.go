package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carmsdata/carms-etl/database"
	"github.com/carmsdata/carms-etl/schema"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check if the database is accessible and whether the target tables exist.

Examples:
  carms-etl health                  # Check default database connection
  carms-etl health --timeout 10s    # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkDatabaseHealth(); err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Database is healthy and accessible")
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	pool, err := database.GetPool()
	if err != nil {
		return fmt.Errorf("failed to get database pool: %w", err)
	}
	defer database.ClosePool()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Check whether the pipeline has ever loaded this database.
	var missing []string
	for _, table := range []string{
		schema.TableDiscipline,
		schema.TableSchool,
		schema.TableProgram,
		schema.TableProgramSection,
		schema.TableETLRun,
	} {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := pool.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		fmt.Println("⚠️  Database is accessible but some target tables are missing:")
		for _, t := range missing {
			fmt.Println("   -", t)
		}
		fmt.Println("   Run 'carms-etl run' to create and load them")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM etlrun").Scan(&count); err != nil {
		return fmt.Errorf("failed to count runs: %w", err)
	}
	fmt.Printf("📊 Found %d recorded pipeline runs\n", count)

	return nil
}
