package attendanceerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrAttendanceExists = apperror.New(
		apperror.CodeConflict,
		"Attendance for this employee and date already exists",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrToggleRequiresNonTracked = apperror.New(
		apperror.CodeInvalidState,
		"Presence toggle applies only to employment types without time tracking",
		http.StatusUnprocessableEntity,
	)
	ErrNoHistory = apperror.New(
		apperror.CodeInvalidState,
		"Attendance record has no history to revert to",
		http.StatusUnprocessableEntity,
	)
	ErrEmptyImport = apperror.New(
		apperror.CodeInvalidInput,
		"Import file contains no data rows",
		http.StatusBadRequest,
	)
	ErrUnreadableImport = apperror.New(
		apperror.CodeInvalidInput,
		"Import file could not be read as a spreadsheet",
		http.StatusBadRequest,
	)
)
