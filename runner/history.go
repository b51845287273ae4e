package runner

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carmsdata/carms-etl/schema"
)

// RunHistory returns past pipeline runs, most recent first.
func RunHistory(ctx context.Context, pool *pgxpool.Pool, limit int) ([]schema.Run, error) {
	query := `
		SELECT id, run_id::text, status, started_at,
		       disciplines_count, schools_count, programs_count, sections_count
		FROM etlrun
		ORDER BY started_at DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var runs []schema.Run
	for rows.Next() {
		var r schema.Run
		if err := rows.Scan(&r.ID, &r.RunID, &r.Status, &r.StartedAt,
			&r.Disciplines, &r.Schools, &r.Programs, &r.Sections); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
