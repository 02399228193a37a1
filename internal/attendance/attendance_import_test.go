package attendance_test

import (
	"bytes"
	"strings"
	"testing"

	"go-payroll/internal/attendance"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Employee No", "Date", "Time In", "Time Out"}
	assert.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	assert.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseSheet(t *testing.T) {
	t.Run("parses well formed rows", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"EMP-000001", "2026-03-02", "08:00", "17:00"},
			{"EMP-000002", "03/03/2026", "8:30 AM", "5:45 PM"},
		})

		rows, skips, err := attendance.ParseSheet(buf)

		assert.NoError(t, err)
		assert.Empty(t, skips)
		assert.Len(t, rows, 2)

		assert.Equal(t, "EMP-000001", rows[0].EmployeeNumber)
		assert.Equal(t, "2026-03-02", rows[0].Date.Format("2006-01-02"))
		assert.Equal(t, "08:00", rows[0].TimeIn)
		assert.Equal(t, "17:00", rows[0].TimeOut)

		assert.Equal(t, "2026-03-03", rows[1].Date.Format("2006-01-02"))
		assert.Equal(t, "08:30", rows[1].TimeIn)
		assert.Equal(t, "17:45", rows[1].TimeOut)
	})

	t.Run("skips undateable and unnumbered rows", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"EMP-000001", "not-a-date", "08:00", "17:00"},
			{"", "2026-03-02", "08:00", "17:00"},
			{"EMP-000003", "2026-03-02", "08:00", "17:00"},
		})

		rows, skips, err := attendance.ParseSheet(buf)

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Len(t, skips, 2)
		assert.Equal(t, 2, skips[0].Row)
		assert.Contains(t, skips[0].Reason, "unparseable date")
		assert.Equal(t, 3, skips[1].Row)
		assert.Contains(t, skips[1].Reason, "missing employee number")
	})

	t.Run("keeps malformed clock values verbatim", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"EMP-000001", "2026-03-02", "8h00", ""},
		})

		rows, _, err := attendance.ParseSheet(buf)

		assert.NoError(t, err)
		assert.Equal(t, "8h00", rows[0].TimeIn)
		assert.Equal(t, "", rows[0].TimeOut)
	})

	t.Run("keeps the present sentinel", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"EMP-000001", "2026-03-02", "Present", "PRESENT"},
		})

		rows, _, err := attendance.ParseSheet(buf)

		assert.NoError(t, err)
		assert.Equal(t, attendance.PresentSentinel, rows[0].TimeIn)
		assert.Equal(t, attendance.PresentSentinel, rows[0].TimeOut)
	})

	t.Run("header only file is empty", func(t *testing.T) {
		buf := buildSheet(t, nil)

		_, _, err := attendance.ParseSheet(buf)

		assert.Error(t, err)
	})

	t.Run("garbage is not a spreadsheet", func(t *testing.T) {
		_, _, err := attendance.ParseSheet(strings.NewReader("definitely,a,csv\n1,2,3\n"))

		assert.Error(t, err)
	})
}
