package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrSummaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll summary not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be on or before end_date",
		http.StatusBadRequest,
	)
	ErrInvalidDeduction = apperror.New(
		apperror.CodeInvalidInput,
		"period deduction values must be zero or a positive number",
		http.StatusBadRequest,
	)
)
