package statistics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-payroll/internal/payroll"
	statisticserrors "go-payroll/internal/statistics/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=statistics_service.go -destination=mock/statistics_service_mock.go -package=mock
type Service interface {
	GetYear(ctx context.Context, year int) ([]MonthStatisticsResponse, error)
	// RecomputeMonth refolds one month from the persisted payroll
	// summaries. An empty month removes its row entirely.
	RecomputeMonth(ctx context.Context, year int, month time.Month) (MonthStatisticsResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	summaries payroll.Repository
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	summaries payroll.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("statistics.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("statistics.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		summaries: summaries,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) GetYear(ctx context.Context, year int) ([]MonthStatisticsResponse, error) {
	if year < 1 {
		return nil, statisticserrors.ErrInvalidYear
	}

	rows, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		s.logger.Error("list month statistics failed",
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, err
	}

	resp := make([]MonthStatisticsResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, mapToResponse(row))
	}
	return resp, nil
}

// RecomputeMonth rebuilds the month row from scratch instead of
// applying event deltas, so regenerated summaries never double-count.
// Concurrent refolds of the same month collapse into one execution.
func (s *service) RecomputeMonth(ctx context.Context, year int, month time.Month) (MonthStatisticsResponse, error) {
	if year < 1 || month < time.January || month > time.December {
		return MonthStatisticsResponse{}, statisticserrors.ErrInvalidMonth
	}

	key := fmt.Sprintf("%d-%02d", year, month)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.recompute(ctx, year, month)
	})
	if err != nil {
		return MonthStatisticsResponse{}, err
	}
	return v.(MonthStatisticsResponse), nil
}

func (s *service) recompute(ctx context.Context, year int, month time.Month) (MonthStatisticsResponse, error) {
	summaries, err := s.summaries.FindAll(ctx, "", year, month)
	if err != nil {
		s.logger.Error("load summaries for statistics failed",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err),
		)
		return MonthStatisticsResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recompute statistics begin tx failed", zap.Error(err))
		return MonthStatisticsResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if len(summaries) == 0 {
		if err := qtx.DeleteByYearMonth(ctx, year, int(month)); err != nil {
			s.logger.Error("remove empty month statistics failed",
				zap.Int("year", year),
				zap.Int("month", int(month)),
				zap.Error(err),
			)
			return MonthStatisticsResponse{}, err
		}
		if err := tx.Commit(); err != nil {
			return MonthStatisticsResponse{}, err
		}
		s.logger.Info("month statistics cleared",
			zap.Int("year", year),
			zap.Int("month", int(month)),
		)
		return mapToResponse(MonthStatistics{Year: year, Month: int(month)}), nil
	}

	ms := MonthStatistics{
		ID:    uuid.New(),
		Year:  year,
		Month: int(month),
	}
	seen := make(map[uuid.UUID]struct{})
	for _, summary := range summaries {
		ms.TotalAmount = ms.TotalAmount.Add(summary.NetPay)
		ms.TotalDaysWorked += summary.DaysWorked
		ms.TotalAbsences += summary.Absences
		if _, ok := seen[summary.EmployeeID]; !ok {
			seen[summary.EmployeeID] = struct{}{}
			ms.EmployeeCount++
		}
	}

	if err := qtx.Upsert(ctx, &ms); err != nil {
		s.logger.Error("save month statistics failed",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err),
		)
		return MonthStatisticsResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return MonthStatisticsResponse{}, err
	}

	s.logger.Info("month statistics recomputed",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.String("total_amount", ms.TotalAmount.String()),
		zap.Int("employee_count", ms.EmployeeCount),
	)
	return mapToResponse(ms), nil
}

func mapToResponse(ms MonthStatistics) MonthStatisticsResponse {
	return MonthStatisticsResponse{
		Year:            ms.Year,
		Month:           ms.Month,
		MonthName:       time.Month(ms.Month).String(),
		TotalAmount:     ms.TotalAmount.String(),
		TotalDaysWorked: ms.TotalDaysWorked,
		TotalAbsences:   ms.TotalAbsences,
		EmployeeCount:   ms.EmployeeCount,
	}
}
