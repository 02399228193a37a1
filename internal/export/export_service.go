package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=export_service.go -destination=mock/export_service_mock.go -package=mock
type Service interface {
	// RequestPayslip queues an async payslip render through the outbox.
	RequestPayslip(ctx context.Context, req RequestPayslipRequest) error
	// WritePayslipPDF renders one summary into the export directory and
	// returns the file path.
	WritePayslipPDF(ctx context.Context, summaryID string) (string, error)
	// WritePeriodCSV renders every summary stored for the exact period,
	// in payslip number order, and reports the row count.
	WritePeriodCSV(ctx context.Context, periodStart, periodEnd time.Time) ([]byte, int, error)
}

type service struct {
	db        *sql.DB
	summaries payroll.Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	summaries payroll.Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("export.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("export.service")
	}
	return &service{
		db:        db,
		summaries: summaries,
		employees: employees,
		outbox:    outbox,
		logger:    l,
	}
}

func storageDir() string {
	if dir := os.Getenv("EXPORT_STORAGE_DIR"); dir != "" {
		return dir
	}
	return "storage/exports"
}

func companyName() string {
	if name := os.Getenv("COMPANY_NAME"); name != "" {
		return name
	}
	return "Payroll"
}

func (s *service) loadSummary(ctx context.Context, summaryID string) (*payroll.PayrollSummary, error) {
	summary, err := s.summaries.FindByID(ctx, summaryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollerrors.ErrSummaryNotFound
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *service) RequestPayslip(ctx context.Context, req RequestPayslipRequest) error {
	summary, err := s.loadSummary(ctx, req.SummaryID)
	if err != nil {
		return err
	}

	event := events.PayrollPayslipRequestedEvent{
		EventType:     "payroll_payslip_requested",
		SummaryID:     summary.ID.String(),
		EmployeeID:    summary.EmployeeID.String(),
		PeriodStart:   summary.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     summary.PeriodEnd.Format("2006-01-02"),
		PayslipNumber: int(summary.PayslipNumber),
		RequestedBy:   req.RequestedBy,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.Error(err))
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("request payslip tx begin failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_summary",
		AggregateID:   summary.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollPayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("request payslip outbox persist failed",
			zap.String("summary_id", summary.ID.String()),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("request payslip commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("payslip render queued",
		zap.String("summary_id", summary.ID.String()),
		zap.String("employee_id", summary.EmployeeID.String()),
		zap.Int64("payslip_number", summary.PayslipNumber),
	)
	return nil
}

func (s *service) WritePayslipPDF(ctx context.Context, summaryID string) (string, error) {
	summary, err := s.loadSummary(ctx, summaryID)
	if err != nil {
		return "", err
	}

	emp, err := s.employees.FindByID(ctx, summary.EmployeeID.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", employeeerrors.ErrEmployeeNotFound
	}
	if err != nil {
		return "", err
	}

	dir := storageDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("create export directory failed",
			zap.String("dir", dir),
			zap.Error(err),
		)
		return "", err
	}

	filename := fmt.Sprintf("payslip_%s_%s_%s.pdf",
		emp.EmployeeNumber,
		summary.PeriodStart.Format("2006-01-02"),
		summary.PeriodEnd.Format("2006-01-02"),
	)
	path := filepath.Join(dir, filename)

	pdf := buildPayslipPDF(companyName(), emp, summary)
	if err := pdf.OutputFileAndClose(path); err != nil {
		s.logger.Error("write payslip pdf failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Info("payslip pdf written",
		zap.String("summary_id", summary.ID.String()),
		zap.String("employee_number", emp.EmployeeNumber),
		zap.String("path", path),
	)
	return path, nil
}

func (s *service) WritePeriodCSV(ctx context.Context, periodStart, periodEnd time.Time) ([]byte, int, error) {
	if periodStart.After(periodEnd) {
		return nil, 0, payrollerrors.ErrInvalidDateRange
	}

	summaries, err := s.summaries.FindByPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		s.logger.Error("list summaries for csv failed", zap.Error(err))
		return nil, 0, err
	}

	empls, err := s.employees.FindAll(ctx, "")
	if err != nil {
		s.logger.Error("list employees for csv failed", zap.Error(err))
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]employee.Employee, len(empls))
	for _, empl := range empls {
		byID[empl.ID] = empl
	}

	data, err := buildPeriodCSV(summaries, byID)
	if err != nil {
		s.logger.Error("build period csv failed", zap.Error(err))
		return nil, 0, err
	}

	s.logger.Info("period csv built",
		zap.String("period_start", periodStart.Format("2006-01-02")),
		zap.String("period_end", periodEnd.Format("2006-01-02")),
		zap.Int("rows", len(summaries)),
	)
	return data, len(summaries), nil
}
