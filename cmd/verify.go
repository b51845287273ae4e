package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carmsdata/carms-etl/database"
)

// Referential-integrity audits over the loaded tables. Every count should be
// zero after a successful run; the load transaction and the sink's foreign
// keys guarantee it, this command proves it to an operator.
var integrityChecks = []struct {
	name  string
	query string
}{
	{
		"programs referencing a missing school",
		`SELECT COUNT(*) FROM program p
		 LEFT JOIN school s ON p.school_id = s.id
		 WHERE p.school_id IS NOT NULL AND s.id IS NULL`,
	},
	{
		"programs referencing a missing discipline",
		`SELECT COUNT(*) FROM program p
		 LEFT JOIN discipline d ON p.discipline_id = d.id
		 WHERE p.discipline_id IS NOT NULL AND d.id IS NULL`,
	},
	{
		"sections referencing a missing program",
		`SELECT COUNT(*) FROM programsection ps
		 LEFT JOIN program p ON ps.program_id = p.id
		 WHERE p.id IS NULL`,
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit referential integrity of the loaded tables",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		pool, err := database.GetPool()
		if err != nil {
			fmt.Println("❌ Verify error:", err)
			os.Exit(1)
		}
		defer database.ClosePool()

		broken := 0
		for _, check := range integrityChecks {
			var count int
			if err := pool.QueryRow(ctx, check.query).Scan(&count); err != nil {
				fmt.Printf("❌ Check %q failed: %v\n", check.name, err)
				os.Exit(1)
			}
			if count > 0 {
				fmt.Printf("❌ %d %s\n", count, check.name)
				broken += count
			} else {
				fmt.Printf("✅ No %s\n", check.name)
			}
		}

		if broken > 0 {
			fmt.Printf("\n❌ Found %d orphaned row(s)\n", broken)
			os.Exit(1)
		}
		fmt.Println("\n✅ All foreign keys resolve")
	},
}
