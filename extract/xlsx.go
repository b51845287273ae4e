package extract

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/carmsdata/carms-etl/frame"
)

// ReadWorkbook reads the first sheet of an xlsx file into a frame. The first
// row is the header; every following row becomes one frame row. Cells are
// typed: integral numerics become int64, empty cells become null, everything
// else stays a string. A missing or unreadable file is a fatal error — the
// caller must not run dependent steps on a partial frame.
func ReadWorkbook(path string) (*frame.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s: sheet %q is empty", path, sheets[0])
	}

	header := rows[0]
	f := frame.New(header...)
	for _, row := range rows[1:] {
		cells := make([]frame.Value, len(header))
		for i := range header {
			// excelize trims trailing empty cells from each row.
			if i < len(row) {
				cells[i] = typedCell(row[i])
			}
		}
		if err := f.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func typedCell(raw string) frame.Value {
	if raw == "" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
