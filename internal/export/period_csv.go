package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"go-payroll/internal/employee"
	"go-payroll/internal/payroll"

	"github.com/google/uuid"
)

var periodCSVHeader = []string{
	"employee_number", "full_name", "period_start", "period_end",
	"payslip_number", "daily_rate", "days_worked", "absences",
	"basic_pay", "overtime_pay", "holiday_bonus", "night_differential_pay",
	"late_deduction", "undertime_deduction",
	"sss", "phil_health", "pag_ibig",
	"cash_advance_deductions", "short_deductions", "loan_deductions", "other_deductions",
	"gross_pay", "total_deduction", "net_pay",
}

// buildPeriodCSV renders one row per summary with amounts fixed to two
// decimal places. total_deduction is the name downstream sheets expect
// for the summed deductions column.
func buildPeriodCSV(summaries []payroll.PayrollSummary, employeesByID map[uuid.UUID]employee.Employee) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(periodCSVHeader); err != nil {
		return nil, err
	}

	for _, s := range summaries {
		var number, name string
		if emp, ok := employeesByID[s.EmployeeID]; ok {
			number = emp.EmployeeNumber
			name = emp.FullName
		}
		record := []string{
			number,
			name,
			s.PeriodStart.Format("2006-01-02"),
			s.PeriodEnd.Format("2006-01-02"),
			strconv.FormatInt(s.PayslipNumber, 10),
			s.DailyRate.StringFixed(2),
			strconv.Itoa(s.DaysWorked),
			strconv.Itoa(s.Absences),
			s.BasicPay.StringFixed(2),
			s.OvertimePay.StringFixed(2),
			s.HolidayBonus.StringFixed(2),
			s.NightDifferentialPay.StringFixed(2),
			s.LateDeduction.StringFixed(2),
			s.UndertimeDeduction.StringFixed(2),
			s.SSS.StringFixed(2),
			s.PhilHealth.StringFixed(2),
			s.PagIbig.StringFixed(2),
			s.CashAdvanceDeductions.StringFixed(2),
			s.ShortDeductions.StringFixed(2),
			s.LoanDeductions.StringFixed(2),
			s.OtherDeductions.StringFixed(2),
			s.GrossPay.StringFixed(2),
			s.TotalDeductions.StringFixed(2),
			s.NetPay.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
