package load

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carmsdata/carms-etl/frame"
	"github.com/carmsdata/carms-etl/schema"
)

// Counts is the run metadata reported once per successful load.
type Counts struct {
	Disciplines int
	Schools     int
	Programs    int
	Sections    int
}

// Patch is one pending update of program.extra_data. Metadata arrives
// attached to description sections rather than to programs, so the loader
// derives these patches after inserting the sections.
type Patch struct {
	ProgramID int64
	ExtraData string
}

// DerivePatches extracts the program metadata updates from section records.
// Sections without extra_data produce no patch; when a program has several
// sections with metadata, the last one wins, matching one-update-per-queued-
// statement semantics.
func DerivePatches(sections []schema.Section) []Patch {
	var patches []Patch
	for _, s := range sections {
		if s.ExtraData == nil {
			continue
		}
		patches = append(patches, Patch{ProgramID: s.ProgramID, ExtraData: *s.ExtraData})
	}
	return patches
}

// SectionRows converts section records to bulk-insert rows in
// schema.SectionColumns order.
func SectionRows(sections []schema.Section) [][]any {
	rows := make([][]any, len(sections))
	for i, s := range sections {
		rows[i] = []any{s.ProgramID, s.Title, s.Content}
	}
	return rows
}

// EnsureSchema creates the sink tables when absent. Idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema.DDL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Load replaces the entire contents of the four sink tables with the
// transformed frames, inside one transaction. Truncation cascades through the
// FK chain and resets identity sequences, inserts follow FK-dependency order
// (disciplines and schools before programs, programs before sections), and
// program.extra_data is patched from the sections afterwards. Any failure
// after the truncate rolls the whole transaction back, leaving the tables as
// they were before the run.
func Load(ctx context.Context, db Beginner, disciplines, schools, programs *frame.Frame, sections []schema.Section) (Counts, error) {
	counts := Counts{
		Disciplines: disciplines.Len(),
		Schools:     schools.Len(),
		Programs:    programs.Len(),
		Sections:    len(sections),
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("begin load transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schema.TruncateStmt); err != nil {
		return Counts{}, fmt.Errorf("truncate tables: %w", err)
	}

	// The discipline frame keeps the source's discipline_id column name; it
	// maps onto the sink's id column here.
	disciplineRows, err := disciplines.Rows("discipline_id", "name")
	if err != nil {
		return Counts{}, err
	}
	if err := copyRows(ctx, tx, schema.TableDiscipline, schema.DisciplineColumns, disciplineRows); err != nil {
		return Counts{}, err
	}

	schoolRows, err := schools.Rows(schema.SchoolColumns...)
	if err != nil {
		return Counts{}, err
	}
	if err := copyRows(ctx, tx, schema.TableSchool, schema.SchoolColumns, schoolRows); err != nil {
		return Counts{}, err
	}

	programRows, err := programs.Rows(schema.ProgramColumns...)
	if err != nil {
		return Counts{}, err
	}
	if err := copyRows(ctx, tx, schema.TableProgram, schema.ProgramColumns, programRows); err != nil {
		return Counts{}, err
	}

	if len(sections) > 0 {
		if err := copyRows(ctx, tx, schema.TableProgramSection, schema.SectionColumns, SectionRows(sections)); err != nil {
			return Counts{}, err
		}
		if err := applyPatches(ctx, tx, DerivePatches(sections)); err != nil {
			return Counts{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Counts{}, fmt.Errorf("commit load transaction: %w", err)
	}
	return counts, nil
}

func copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]any) error {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("insert into %s: wrote %d of %d rows", table, n, len(rows))
	}
	return nil
}

func applyPatches(ctx context.Context, tx pgx.Tx, patches []Patch) error {
	if len(patches) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range patches {
		batch.Queue(`UPDATE program SET extra_data = $1 WHERE id = $2`, p.ExtraData, p.ProgramID)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range patches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("patch program extra_data: %w", err)
		}
	}
	return nil
}

// RecordRun appends one row to the run-tracking table. Runs outside the load
// transaction: a failed load still gets a failed run on record.
func RecordRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, status string, counts *Counts) error {
	var d, s, p, sec *int
	if counts != nil {
		d, s, p, sec = &counts.Disciplines, &counts.Schools, &counts.Programs, &counts.Sections
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO etlrun (run_id, status, disciplines_count, schools_count, programs_count, sections_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, runID, status, d, s, p, sec)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
