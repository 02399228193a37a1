package compensation

import (
	"net/http"
	"strconv"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("compensation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("compensation request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetMonth(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		h.writeServiceError(c, apperror.RequiredField("employee_id"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		h.writeServiceError(c, apperror.InvalidField("year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		h.writeServiceError(c, compensationerrors.ErrInvalidMonth)
		return
	}

	resp, err := h.service.GetMonth(c.Request.Context(), employeeID, year, time.Month(month))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Override(c *gin.Context) {
	var req OverrideCompensationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http override compensation validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Override(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ClearOverride(c *gin.Context) {
	resp, err := h.service.ClearOverride(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Recompute(c *gin.Context) {
	var req RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http recompute compensation validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	if req.Month < 1 || req.Month > 12 {
		h.writeServiceError(c, compensationerrors.ErrInvalidMonth)
		return
	}

	err := h.service.RecomputeMonth(c.Request.Context(), req.EmployeeID, req.Year, time.Month(req.Month), req.Force)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"recomputed": true}, nil)
}

func (h *Handler) RecomputeAll(c *gin.Context) {
	var req RecomputeAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http recompute all compensation validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	if req.Month < 1 || req.Month > 12 {
		h.writeServiceError(c, compensationerrors.ErrInvalidMonth)
		return
	}

	report, err := h.service.RecomputeAllEmployees(c.Request.Context(), req.Year, time.Month(req.Month), req.Force)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report, nil)
}
