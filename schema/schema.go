package schema

import "time"

// Target table layout for the CaRMS relational sink. The pipeline owns these
// definitions only to ensure they exist before a load; the query API reads
// the same tables.

// Table names, in foreign-key dependency order (parents first).
const (
	TableDiscipline     = "discipline"
	TableSchool         = "school"
	TableProgram        = "program"
	TableProgramSection = "programsection"
	TableETLRun         = "etlrun"
)

// DisciplineColumns / SchoolColumns / ProgramColumns / SectionColumns are the
// insert column lists, in the order the loader feeds rows.
var (
	DisciplineColumns = []string{"id", "name"}
	SchoolColumns     = []string{"id", "name"}
	ProgramColumns    = []string{"id", "school_id", "discipline_id", "name", "url"}
	SectionColumns    = []string{"program_id", "title", "content"}
)

// Section is one program detail section parsed from the description export.
// ExtraData carries the raw metadata JSON and is patched onto the owning
// program row during load.
type Section struct {
	ProgramID int64
	Title     string
	Content   string
	ExtraData *string
}

// Run is one recorded pipeline run.
type Run struct {
	ID          int
	RunID       string
	Status      string
	StartedAt   time.Time
	Disciplines *int
	Schools     *int
	Programs    *int
	Sections    *int
}

// DDL creates the sink tables when absent. Optional columns the pipeline
// never fills (name_fr, province, description) are part of the sink layout
// and stay null after a load.
var DDL = []string{
	`CREATE TABLE IF NOT EXISTS discipline (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		name_fr TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS school (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		province TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS program (
		id SERIAL PRIMARY KEY,
		school_id INTEGER REFERENCES school(id),
		discipline_id INTEGER REFERENCES discipline(id),
		name TEXT NOT NULL,
		description TEXT,
		url TEXT,
		extra_data TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS programsection (
		id SERIAL PRIMARY KEY,
		program_id INTEGER NOT NULL REFERENCES program(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS etlrun (
		id SERIAL PRIMARY KEY,
		run_id UUID NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		disciplines_count INTEGER,
		schools_count INTEGER,
		programs_count INTEGER,
		sections_count INTEGER
	);`,
}

// TruncateStmt empties the four data tables in one statement. CASCADE covers
// the FK chain (sections -> programs -> schools/disciplines) and RESTART
// IDENTITY resets the serial sequences so re-runs produce identical rows.
const TruncateStmt = `TRUNCATE TABLE programsection, program, school, discipline RESTART IDENTITY CASCADE`
