package deductionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"deduction record not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be one of CASH_ADVANCE, SHORT, LOAN",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidInstallment = apperror.New(
		apperror.CodeInvalidInput,
		"installment_amount must be zero or a positive number not exceeding the amount",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending deduction records can be modified, approved, or deleted",
		http.StatusUnprocessableEntity,
	)
	ErrBalanceConflict = apperror.New(
		apperror.CodeConflict,
		"deduction balance changed concurrently, retry the operation",
		http.StatusConflict,
	)
	ErrDuplicateApplication = apperror.New(
		apperror.CodeConflict,
		"an installment was already applied for this record and period",
		http.StatusConflict,
	)
)
