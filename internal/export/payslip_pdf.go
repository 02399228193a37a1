package export

import (
	"fmt"

	"go-payroll/internal/employee"
	"go-payroll/internal/payroll"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type amountRow struct {
	label  string
	amount decimal.Decimal
}

// buildPayslipPDF lays out one A4 payslip: company header, employee
// block, earnings and deductions tables, then the net pay line.
func buildPayslipPDF(company string, emp *employee.Employee, summary *payroll.PayrollSummary) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, company)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip No. %d", summary.PayslipNumber))
	pdf.Ln(12)

	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", emp.FullName, emp.EmployeeNumber))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s",
		summary.PeriodStart.Format("2006-01-02"),
		summary.PeriodEnd.Format("2006-01-02"),
	))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Daily Rate: %s    Days Worked: %d    Absences: %d",
		summary.DailyRate.StringFixed(2), summary.DaysWorked, summary.Absences))
	pdf.Ln(10)

	writeAmountTable(pdf, "Earnings", []amountRow{
		{"Basic Pay", summary.BasicPay},
		{"Overtime Pay", summary.OvertimePay},
		{"Holiday Bonus", summary.HolidayBonus},
		{"Night Differential", summary.NightDifferentialPay},
	}, amountRow{"Gross Pay", summary.GrossPay})

	writeAmountTable(pdf, "Deductions", []amountRow{
		{"Late", summary.LateDeduction},
		{"Undertime", summary.UndertimeDeduction},
		{"SSS", summary.SSS},
		{"PhilHealth", summary.PhilHealth},
		{"Pag-IBIG", summary.PagIbig},
		{"Cash Advance", summary.CashAdvanceDeductions},
		{"Shorts", summary.ShortDeductions},
		{"Loans", summary.LoanDeductions},
		{"Others", summary.OtherDeductions},
	}, amountRow{"Total Deductions", summary.TotalDeductions})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(120, 10, "NET PAY")
	pdf.CellFormat(50, 10, summary.NetPay.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	return pdf
}

func writeAmountTable(pdf *gofpdf.Fpdf, title string, rows []amountRow, total amountRow) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.Cell(120, 7, row.label)
		pdf.CellFormat(50, 7, row.amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(120, 8, total.label)
	pdf.CellFormat(50, 8, total.amount.StringFixed(2), "T", 0, "R", false, 0, "")
	pdf.Ln(12)
}
