package holidayerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrHolidayNotFound = apperror.New(
		apperror.CodeNotFound,
		"Holiday not found",
		http.StatusNotFound,
	)
	ErrInvalidHolidayType = apperror.New(
		apperror.CodeInvalidInput,
		"Holiday type must be REGULAR or SPECIAL",
		http.StatusBadRequest,
	)
	ErrInvalidHolidayMultiplier = apperror.New(
		apperror.CodeInvalidInput,
		"Holiday multiplier must be a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidHolidayRange = apperror.New(
		apperror.CodeInvalidInput,
		"Holiday start date must not be after end date",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
