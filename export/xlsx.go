package export

import (
	"io"

	"github.com/etnz/cashbook"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Informe"

func writeXLSX(w io.Writer, t cashbook.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	// title, blank line, headers, rows
	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return err
	}
	if err := setRow(f, 3, t.Headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(len(t.Headers), 1), 3)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A3", last, bold); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, 4+i, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheetName, cell, &values)
}
