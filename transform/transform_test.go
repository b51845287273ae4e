package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carmsdata/carms-etl/frame"
)

func TestDisciplines(t *testing.T) {
	raw := frame.New("discipline_id", "discipline", "unused")
	require.NoError(t, raw.AppendRow(int64(2), "Internal Medicine", "x"))
	require.NoError(t, raw.AppendRow(int64(1), "Family Medicine", "y"))
	require.NoError(t, raw.AppendRow(int64(2), "Internal Medicine", "z"))

	out, err := Disciplines(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"discipline_id", "name"}, out.Columns())
	require.Equal(t, 3, out.Len(), "no filtering or dedup, order preserved")

	names, _ := out.Column("name")
	require.Equal(t, []frame.Value{"Internal Medicine", "Family Medicine", "Internal Medicine"}, names)
}

func TestDisciplinesMissingColumn(t *testing.T) {
	raw := frame.New("discipline_id")
	_, err := Disciplines(raw)
	require.Error(t, err)
}

func TestSchoolsDedup(t *testing.T) {
	raw := frame.New("school_id", "school_name", "program_stream_id")
	require.NoError(t, raw.AppendRow(int64(5), "McGill", int64(1)))
	require.NoError(t, raw.AppendRow(int64(3), "Toronto", int64(2)))
	require.NoError(t, raw.AppendRow(int64(5), "McGill", int64(3)))
	require.NoError(t, raw.AppendRow(int64(3), "Toronto", int64(4)))
	require.NoError(t, raw.AppendRow(int64(5), "McGill Campus Outaouais", int64(5)))

	out, err := Schools(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name"}, out.Columns())
	require.Equal(t, 3, out.Len(), "one row per distinct (id, name) pair")
	require.LessOrEqual(t, out.Len(), raw.Len())

	ids, _ := out.Column("id")
	names, _ := out.Column("name")
	require.Equal(t, []frame.Value{int64(5), int64(3), int64(5)}, ids, "first-occurrence order, no sort")
	require.Equal(t, []frame.Value{"McGill", "Toronto", "McGill Campus Outaouais"}, names)
}

func TestPrograms(t *testing.T) {
	raw := frame.New("program_stream_id", "school_id", "discipline_id", "program_name", "program_url")
	require.NoError(t, raw.AppendRow(int64(88821), int64(5), int64(1), "Family Medicine - McGill", "https://carms.ca/program/2024/88821"))

	out, err := Programs(raw)
	require.NoError(t, err)
	require.Equal(t, ProgramColumnOrder, out.Columns())

	rows, err := out.Rows(ProgramColumnOrder...)
	require.NoError(t, err)
	require.Equal(t, []any{int64(88821), int64(5), int64(1), "Family Medicine - McGill", "https://carms.ca/program/2024/88821"}, rows[0])
}

func TestProgramsSynthesizesMissingColumns(t *testing.T) {
	raw := frame.New("program_stream_id", "program_name")
	require.NoError(t, raw.AppendRow(int64(1), "Pediatrics"))
	require.NoError(t, raw.AppendRow(int64(2), "Surgery"))

	out, err := Programs(raw)
	require.NoError(t, err)
	require.Equal(t, ProgramColumnOrder, out.Columns())

	for _, col := range []string{"school_id", "discipline_id", "url"} {
		vals, ok := out.Column(col)
		require.True(t, ok)
		require.Equal(t, []frame.Value{nil, nil}, vals, "absent column %s synthesized as null", col)
	}
}

func TestProgramsDoesNotRenameSourceFrame(t *testing.T) {
	raw := frame.New("program_stream_id", "program_name")
	require.NoError(t, raw.AppendRow(int64(1), "Pediatrics"))

	_, err := Programs(raw)
	require.NoError(t, err)
	require.True(t, raw.HasColumn("program_stream_id"), "input frame left untouched")
}
