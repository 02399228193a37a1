package settingserrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidMultiplier = apperror.New(
		apperror.CodeInvalidInput,
		"Holiday multiplier overrides must be empty or a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidFormula = apperror.New(
		apperror.CodeInvalidInput,
		"Formula failed the syntax check",
		http.StatusBadRequest,
	)
)
