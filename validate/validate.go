package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carmsdata/carms-etl/config"
	"github.com/carmsdata/carms-etl/extract"
	"github.com/carmsdata/carms-etl/frame"
)

// Issue is one validation finding on the raw source files.
type Issue struct {
	File     string `json:"file"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error" or "warning"
}

// Result collects all findings for one source directory.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *Result) addError(file, column, msg string) {
	r.Errors = append(r.Errors, Issue{File: file, Column: column, Message: msg, Severity: "error"})
}

func (r *Result) addWarning(file, column, msg string) {
	r.Warnings = append(r.Warnings, Issue{File: file, Column: column, Message: msg, Severity: "warning"})
}

// Columns the transformers cannot work without.
var (
	requiredDisciplineColumns = []string{"discipline_id", "discipline"}
	requiredProgramColumns    = []string{"school_id", "school_name"}
	// Absent program columns are synthesized as null at transform time, so
	// their absence is only worth a warning.
	expectedProgramColumns = []string{"program_stream_id", "program_name", "program_url", "discipline_id"}
)

// Sources checks the configured raw files offline, without touching the
// database: the xlsx files must exist, be readable, and carry the columns the
// transformers need; a missing description export is a warning because the
// pipeline runs without sections.
func Sources(cfg *config.Config) *Result {
	result := &Result{}

	checkWorkbook(result, cfg.DataDir, cfg.Files.Disciplines, requiredDisciplineColumns, nil)
	checkWorkbook(result, cfg.DataDir, cfg.Files.Programs, requiredProgramColumns, expectedProgramColumns)

	if _, ok := extract.DetectSource(cfg.DataDir, cfg.Files.Descriptions); !ok {
		result.addWarning(cfg.Files.Descriptions, "",
			"description export not found; the run will load zero sections")
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func checkWorkbook(result *Result, dir, name string, required, expected []string) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		result.addError(name, "", fmt.Sprintf("missing source file: %v", err))
		return
	}

	f, err := extract.ReadWorkbook(path)
	if err != nil {
		result.addError(name, "", fmt.Sprintf("unreadable workbook: %v", err))
		return
	}

	checkColumns(result, name, f, required, expected)
}

func checkColumns(result *Result, name string, f *frame.Frame, required, expected []string) {
	for _, col := range required {
		if !f.HasColumn(col) {
			result.addError(name, col, "required column missing")
		}
	}
	for _, col := range expected {
		if !f.HasColumn(col) {
			result.addWarning(name, col, "column missing; will be loaded as null")
		}
	}
	if f.Len() == 0 {
		result.addWarning(name, "", "workbook has a header but no data rows")
	}
}
