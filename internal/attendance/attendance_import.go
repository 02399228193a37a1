package attendance

import (
	"fmt"
	"io"
	"strings"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/xuri/excelize/v2"
)

// ImportRow is one parsed data row from a biometric timesheet.
type ImportRow struct {
	RowNumber      int
	EmployeeNumber string
	Date           time.Time
	TimeIn         string
	TimeOut        string
}

// Date layouts seen across biometric exports. Excelize hands back the
// formatted cell value, so both ISO and spreadsheet-style layouts show up.
var importDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"2-Jan-06",
	"02-Jan-2006",
	"January 2, 2006",
}

var importClockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"15.04",
}

// ParseSheet reads the first sheet of an xlsx workbook. Expected
// columns: employee number, date, time in, time out; the first row is a
// header. Rows that cannot be dated are returned as skips, not errors.
func ParseSheet(r io.Reader) ([]ImportRow, []ImportSkip, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperror.Wrap(err,
			apperror.CodeInvalidInput,
			attendanceerrors.ErrUnreadableImport.Message,
			attendanceerrors.ErrUnreadableImport.HTTPStatus,
		)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, attendanceerrors.ErrEmptyImport
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperror.Wrap(err,
			apperror.CodeInvalidInput,
			attendanceerrors.ErrUnreadableImport.Message,
			attendanceerrors.ErrUnreadableImport.HTTPStatus,
		)
	}
	if len(cells) <= 1 {
		return nil, nil, attendanceerrors.ErrEmptyImport
	}

	var (
		rows  []ImportRow
		skips []ImportSkip
	)
	for i, row := range cells[1:] {
		rowNumber := i + 2 // 1-based, after the header

		number := cellAt(row, 0)
		if number == "" {
			skips = append(skips, ImportSkip{
				Row:    rowNumber,
				Reason: "missing employee number",
			})
			continue
		}

		date, ok := parseImportDate(cellAt(row, 1))
		if !ok {
			skips = append(skips, ImportSkip{
				Row:            rowNumber,
				EmployeeNumber: number,
				Reason:         fmt.Sprintf("unparseable date %q", cellAt(row, 1)),
			})
			continue
		}

		rows = append(rows, ImportRow{
			RowNumber:      rowNumber,
			EmployeeNumber: number,
			Date:           date,
			TimeIn:         normalizeClock(cellAt(row, 2)),
			TimeOut:        normalizeClock(cellAt(row, 3)),
		})
	}

	if len(rows) == 0 && len(skips) == 0 {
		return nil, nil, attendanceerrors.ErrEmptyImport
	}
	return rows, skips, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseImportDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// normalizeClock renders parseable clock values as "HH:MM". Anything
// else passes through trimmed; the calculator downgrades malformed
// values to absence rather than the import rejecting the row.
func normalizeClock(raw string) string {
	if raw == "" || strings.EqualFold(raw, PresentSentinel) {
		return strings.ToLower(raw)
	}
	for _, layout := range importClockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(raw)); err == nil {
			return t.Format("15:04")
		}
	}
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}
