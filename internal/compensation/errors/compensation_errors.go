package compensationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrCompensationNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensation record not found",
		http.StatusNotFound,
	)
	ErrNotOverridden = apperror.New(
		apperror.CodeInvalidState,
		"compensation record has no manual override to clear",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a valid non-negative decimal",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"year and month must identify a valid calendar month",
		http.StatusBadRequest,
	)
)
