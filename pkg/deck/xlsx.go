package deck

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

const (
	SheetAllData = "Semua Data"
	SheetSummary = "Ringkasan"
	SheetFailed  = "Pertanyaan Gagal"
)

// WriteXLSX writes a workbook holding the all, summary and failed exports
// as separate sheets.
func WriteXLSX(w io.Writer, d *Dashboard, current []chatlog.ChatLog) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetAllData); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, SheetAllData, LogRows(current, true), 22); err != nil {
		return err
	}

	for _, sheet := range []struct {
		name  string
		rows  [][]string
		width float64
	}{
		{SheetSummary, SummaryRows(d), 30},
		{SheetFailed, FailedRows(current), 22},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeSheet(f, sheet.name, sheet.rows, sheet.width); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string, width float64) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(r, value)); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

// cellValue stores integer cells as numbers so spreadsheets can sum them.
// Header rows stay text.
func cellValue(row int, value string) any {
	if row == 0 || strings.HasPrefix(value, "+") {
		return value
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return value
}
