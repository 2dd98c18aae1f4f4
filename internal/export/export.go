// Package export writes ledger and net worth data as CSV and XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"finance_tracker/internal/calendar"
	"finance_tracker/internal/models"
)

// Content types for the formats this package writes.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	entriesSheet  = "Entries"
	netWorthSheet = "Net Worth"

	// Built-in excelize number format "#,##0.00"
	moneyNumFmt = 4
)

var entryHeader = []string{"Date", "Category", "Kind", "Amount", "Loan ID", "Commitment ID"}

// Filename builds a download name such as "entries_2024-01-15.csv".
func Filename(name, ext string, today time.Time) string {
	return fmt.Sprintf("%s_%s.%s", name, calendar.Format(today), ext)
}

// EntriesCSV writes ledger entries as CSV with a header row.
func EntriesCSV(w io.Writer, entries []*models.LedgerEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(entryHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			calendar.Format(e.Date),
			e.Category,
			string(e.Kind),
			e.Amount.StringFixed(2),
			optionalID(e.LoanID),
			optionalID(e.CommitmentID),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing entry %d: %w", e.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// EntriesXLSX writes ledger entries as a single-sheet workbook.
func EntriesXLSX(w io.Writer, entries []*models.LedgerEntry) error {
	f, err := newWorkbook(entriesSheet, entryHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, e := range entries {
		row := []any{
			calendar.Format(e.Date),
			e.Category,
			string(e.Kind),
			e.Amount.InexactFloat64(),
			optionalID(e.LoanID),
			optionalID(e.CommitmentID),
		}
		if err := setRow(f, entriesSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := formatMoneyColumn(f, entriesSheet, "D", len(entries)); err != nil {
		return err
	}

	return f.Write(w)
}

// NetWorthXLSX writes the net worth history as a single-sheet workbook.
func NetWorthXLSX(w io.Writer, samples []models.NetWorthSample) error {
	f, err := newWorkbook(netWorthSheet, []string{"Date", "Net Worth"})
	if err != nil {
		return err
	}
	defer f.Close()

	for i, s := range samples {
		if err := setRow(f, netWorthSheet, i+2, []any{calendar.Format(s.Date), s.NetWorth.InexactFloat64()}); err != nil {
			return err
		}
	}
	if err := formatMoneyColumn(f, netWorthSheet, "B", len(samples)); err != nil {
		return err
	}

	return f.Write(w)
}

func newWorkbook(sheet string, header []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := setRow(f, sheet, 1, cells); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		f.Close()
		return nil, fmt.Errorf("styling header: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func formatMoneyColumn(f *excelize.File, sheet, col string, rows int) error {
	if rows == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}
	return f.SetCellStyle(sheet, col+"2", col+strconv.Itoa(rows+1), style)
}

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
