package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/statistics"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollSummaryLifecycle keeps month statistics in sync with the
// payroll summaries table. The reader subscribes to both the generated
// and the deleted topic; either event refolds the affected month.
func ConsumePayrollSummaryLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	statisticsService statistics.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_summary")
	log.Info("payroll summary consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll summary consumer stopped")
				return
			}
			log.Error("fetch payroll summary message failed", zap.Error(err))
			continue
		}

		periodStart, ok := summaryPeriodStart(msg, log)
		if !ok {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = statisticsService.RecomputeMonth(ctx, periodStart.Year(), periodStart.Month())
		if err != nil {
			log.Error("recompute month statistics failed",
				zap.String("topic", msg.Topic),
				zap.Int("year", periodStart.Year()),
				zap.Int("month", int(periodStart.Month())),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll summary message failed", zap.Error(err))
			continue
		}

		log.Info("month statistics refolded",
			zap.String("topic", msg.Topic),
			zap.Int("year", periodStart.Year()),
			zap.Int("month", int(periodStart.Month())),
		)
	}
}

func summaryPeriodStart(msg kafkago.Message, log *zap.Logger) (time.Time, bool) {
	var raw string
	switch msg.Topic {
	case events.PayrollSummaryGeneratedTopic:
		var event events.PayrollSummaryGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll_summary_generated event failed", zap.Error(err))
			return time.Time{}, false
		}
		raw = event.PeriodStart
	case events.PayrollSummaryDeletedTopic:
		var event events.PayrollSummaryDeletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll_summary_deleted event failed", zap.Error(err))
			return time.Time{}, false
		}
		raw = event.PeriodStart
	default:
		log.Warn("unexpected topic on payroll summary reader", zap.String("topic", msg.Topic))
		return time.Time{}, false
	}

	periodStart, err := time.Parse("2006-01-02", raw)
	if err != nil {
		log.Error("parse summary period start failed",
			zap.String("topic", msg.Topic),
			zap.String("period_start", raw),
			zap.Error(err),
		)
		return time.Time{}, false
	}
	return periodStart, true
}
