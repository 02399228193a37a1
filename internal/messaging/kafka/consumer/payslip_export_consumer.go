package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payroll/internal/events"
	"go-payroll/internal/export"
	payrollerrors "go-payroll/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumePayslipRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	exportService export.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_export")
	log.Info("payslip export consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip export consumer stopped")
				return
			}
			log.Error("fetch payslip export message failed", zap.Error(err))
			continue
		}

		var event events.PayrollPayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll_payslip_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		path, err := exportService.WritePayslipPDF(ctx, event.SummaryID)
		if errors.Is(err, payrollerrors.ErrSummaryNotFound) {
			// Summary deleted after the request was queued. Redelivery
			// can never succeed, so drop the message.
			log.Warn("payslip request for deleted summary dropped",
				zap.String("summary_id", event.SummaryID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err != nil {
			log.Error("render payslip pdf failed",
				zap.String("summary_id", event.SummaryID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip export message failed", zap.Error(err))
			continue
		}

		log.Info("payslip pdf rendered",
			zap.String("summary_id", event.SummaryID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("path", path),
		)
	}
}
