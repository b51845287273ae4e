package load

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/carmsdata/carms-etl/frame"
	"github.com/carmsdata/carms-etl/schema"
)

// fakeTx records the loader's calls in place of a real transaction. It
// implements just enough of pgx.Tx to drive Load; the query-side methods
// are never reached.
type fakeTx struct {
	failCopyTable string

	execed     []string
	copied     []string
	copiedRows map[string]int
	queued     int
	committed  bool
	rolledBack bool
}

func newFakeTx() *fakeTx {
	return &fakeTx{copiedRows: map[string]int{}}
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execed = append(t.execed, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	name := table[len(table)-1]
	if name == t.failCopyTable {
		return 0, errors.New("violates foreign key constraint")
	}
	var n int64
	for src.Next() {
		if _, err := src.Values(); err != nil {
			return n, err
		}
		n++
	}
	t.copied = append(t.copied, name)
	t.copiedRows[name] = int(n)
	return n, nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	t.queued += b.Len()
	return &fakeBatchResults{}
}

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeBatchResults struct{}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (r *fakeBatchResults) Query() (pgx.Rows, error)         { return nil, errors.New("not implemented") }
func (r *fakeBatchResults) QueryRow() pgx.Row                { return nil }
func (r *fakeBatchResults) Close() error                     { return nil }

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

func loadFrames(t *testing.T) (disciplines, schools, programs *frame.Frame) {
	t.Helper()

	disciplines = frame.New("discipline_id", "name")
	require.NoError(t, disciplines.AppendRow(int64(1), "Family Medicine"))
	require.NoError(t, disciplines.AppendRow(int64(2), "Psychiatry"))

	schools = frame.New("id", "name")
	require.NoError(t, schools.AppendRow(int64(10), "University of Toronto"))

	programs = frame.New("id", "school_id", "discipline_id", "name", "url")
	require.NoError(t, programs.AppendRow(int64(100), int64(10), int64(1), "Family Medicine - Toronto", "https://example.org/program/100"))
	require.NoError(t, programs.AppendRow(int64(101), int64(10), int64(2), "Psychiatry - Toronto", nil))
	return disciplines, schools, programs
}

func TestLoadTransactionProtocol(t *testing.T) {
	disciplines, schools, programs := loadFrames(t)
	extra := `{"program_stream_id": 100}`
	sections := []schema.Section{
		{ProgramID: 100, Title: "Overview", Content: "body", ExtraData: &extra},
		{ProgramID: 100, Title: "Selection", Content: "criteria"},
	}

	tx := newFakeTx()
	counts, err := Load(context.Background(), &fakeDB{tx: tx}, disciplines, schools, programs, sections)
	require.NoError(t, err)
	require.Equal(t, Counts{Disciplines: 2, Schools: 1, Programs: 2, Sections: 2}, counts)

	require.Equal(t, []string{schema.TruncateStmt}, tx.execed, "truncate runs before any insert")
	require.Equal(t, []string{
		schema.TableDiscipline,
		schema.TableSchool,
		schema.TableProgram,
		schema.TableProgramSection,
	}, tx.copied, "inserts follow FK-dependency order")
	require.Equal(t, 2, tx.copiedRows[schema.TableProgram])
	require.Equal(t, 1, tx.queued, "one extra_data patch queued")
	require.True(t, tx.committed)
	require.False(t, tx.rolledBack)
}

func TestLoadRollsBackWhenInsertFails(t *testing.T) {
	disciplines, schools, programs := loadFrames(t)

	tx := newFakeTx()
	tx.failCopyTable = schema.TableProgram
	_, err := Load(context.Background(), &fakeDB{tx: tx}, disciplines, schools, programs, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), schema.TableProgram)

	require.True(t, tx.rolledBack, "failed load rolls the transaction back")
	require.False(t, tx.committed)
	require.NotContains(t, tx.copied, schema.TableProgramSection)
}

func TestLoadSkipsSectionInsertWhenEmpty(t *testing.T) {
	disciplines, schools, programs := loadFrames(t)

	tx := newFakeTx()
	counts, err := Load(context.Background(), &fakeDB{tx: tx}, disciplines, schools, programs, nil)
	require.NoError(t, err)
	require.Equal(t, 0, counts.Sections)
	require.NotContains(t, tx.copied, schema.TableProgramSection)
	require.Zero(t, tx.queued)
	require.True(t, tx.committed)
}

func TestLoadReportsBeginFailure(t *testing.T) {
	disciplines, schools, programs := loadFrames(t)

	_, err := Load(context.Background(), &fakeDB{beginErr: errors.New("pool exhausted")}, disciplines, schools, programs, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "begin load transaction")
}
