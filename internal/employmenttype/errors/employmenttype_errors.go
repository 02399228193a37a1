package employmenttypeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrEmploymentTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employment type not found",
		http.StatusNotFound,
	)
	ErrEmploymentTypeNameTaken = apperror.New(
		apperror.CodeConflict,
		"Employment type with the same name already exists",
		http.StatusConflict,
	)
	ErrScheduleNotConfigured = apperror.New(
		apperror.CodeInvalidState,
		"No schedule configured for this weekday",
		http.StatusUnprocessableEntity,
	)
	ErrIncompleteWeekSchedule = apperror.New(
		apperror.CodeInvalidInput,
		"Schedule must contain exactly one entry per weekday",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleTime = apperror.New(
		apperror.CodeInvalidInput,
		"Schedule times must be HH:MM on non-rest days",
		http.StatusBadRequest,
	)
	ErrInvalidMultiplier = apperror.New(
		apperror.CodeInvalidInput,
		"Multipliers must be positive numbers",
		http.StatusBadRequest,
	)
	ErrInvalidNightWindow = apperror.New(
		apperror.CodeInvalidInput,
		"Night window times must be HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
