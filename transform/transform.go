package transform

import (
	"github.com/carmsdata/carms-etl/frame"
)

// ProgramColumnOrder is the fixed output column order of Programs.
var ProgramColumnOrder = []string{"id", "school_id", "discipline_id", "name", "url"}

// Disciplines maps the raw discipline frame onto the target shape: the
// source's `discipline` column becomes `name`. One output row per input row,
// order preserved.
func Disciplines(raw *frame.Frame) (*frame.Frame, error) {
	out, err := raw.Select("discipline_id", "discipline")
	if err != nil {
		return nil, err
	}
	out.Rename(map[string]string{"discipline": "name"})
	return out, nil
}

// Schools extracts the distinct school entities embedded in the raw program
// frame. Schools are not a separate source file — every program row repeats
// its school, so the pairs are de-duplicated keeping first-occurrence order.
func Schools(raw *frame.Frame) (*frame.Frame, error) {
	out, err := raw.DistinctRows("school_id", "school_name")
	if err != nil {
		return nil, err
	}
	out.Rename(map[string]string{"school_id": "id", "school_name": "name"})
	return out, nil
}

// Programs maps the raw program frame onto the target schema. Source columns
// are renamed, any target column absent from the source is synthesized as
// all-null, and the output column order is fixed.
func Programs(raw *frame.Frame) (*frame.Frame, error) {
	out, err := raw.Select(raw.Columns()...)
	if err != nil {
		return nil, err
	}
	out.Rename(map[string]string{
		"program_stream_id": "id",
		"program_name":      "name",
		"program_url":       "url",
	})
	out.EnsureColumns(ProgramColumnOrder...)
	return out.Select(ProgramColumnOrder...)
}
