package deduction

import "github.com/shopspring/decimal"

type CreateDeductionRequest struct {
	EmployeeID        string `json:"employee_id" binding:"required,uuid"`
	Kind              string `json:"kind" binding:"required,oneof=CASH_ADVANCE SHORT LOAN"`
	Date              string `json:"date" binding:"required"`
	Amount            string `json:"amount" binding:"required"`
	InstallmentAmount string `json:"installment_amount"`
	Reason            string `json:"reason"`
}

type UpdateDeductionRequest struct {
	Date              *string `json:"date"`
	Amount            *string `json:"amount"`
	InstallmentAmount *string `json:"installment_amount"`
	Reason            *string `json:"reason"`
}

type DeductionResponse struct {
	ID                string `json:"id"`
	EmployeeID        string `json:"employee_id"`
	Kind              string `json:"kind"`
	Date              string `json:"date"`
	Amount            string `json:"amount"`
	RemainingUnpaid   string `json:"remaining_unpaid"`
	InstallmentAmount string `json:"installment_amount"`
	Status            string `json:"status"`
	Reason            string `json:"reason,omitempty"`
}

type InstallmentApplicationResponse struct {
	ID                string `json:"id"`
	DeductionRecordID string `json:"deduction_record_id"`
	EmployeeID        string `json:"employee_id"`
	Kind              string `json:"kind"`
	PeriodStart       string `json:"period_start"`
	PeriodEnd         string `json:"period_end"`
	AppliedAmount     string `json:"applied_amount"`
}

type CreditBackRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

type CreditBackResult struct {
	RestoredApplications int    `json:"restored_applications"`
	AmountReturned       string `json:"amount_returned"`
}

// AppliedInstallments is one period's take, summed per kind. The payroll
// aggregator folds these into the summary's deduction breakdown.
type AppliedInstallments struct {
	CashAdvance decimal.Decimal
	Shorts      decimal.Decimal
	Loans       decimal.Decimal
}

func (a *AppliedInstallments) add(kind string, amount decimal.Decimal) {
	switch kind {
	case KindCashAdvance:
		a.CashAdvance = a.CashAdvance.Add(amount)
	case KindShort:
		a.Shorts = a.Shorts.Add(amount)
	case KindLoan:
		a.Loans = a.Loans.Add(amount)
	}
}

func (a AppliedInstallments) Total() decimal.Decimal {
	return a.CashAdvance.Add(a.Shorts).Add(a.Loans)
}
