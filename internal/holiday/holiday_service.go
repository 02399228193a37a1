package holiday

import (
	"context"
	"database/sql"
	"time"

	holidayerrors "go-payroll/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context, year int) ([]HolidayResponse, error)
	GetByID(ctx context.Context, id string) (HolidayResponse, error)
	GetCalendar(ctx context.Context, year int, month time.Month) ([]HolidayDayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

type parsedHoliday struct {
	holidayType string
	start       time.Time
	end         time.Time
	multiplier  decimal.Decimal
}

func parseRequest(req CreateHolidayRequest) (parsedHoliday, error) {
	var p parsedHoliday

	switch req.Type {
	case TypeRegular, TypeSpecial:
		p.holidayType = req.Type
	default:
		return p, holidayerrors.ErrInvalidHolidayType
	}

	var err error
	p.start, err = time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return p, holidayerrors.ErrInvalidDateFormat
	}
	p.end, err = time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return p, holidayerrors.ErrInvalidDateFormat
	}
	if p.start.After(p.end) {
		return p, holidayerrors.ErrInvalidHolidayRange
	}

	raw := req.Multiplier
	if raw == "" {
		// Statutory defaults: double pay on regular holidays, +30% on
		// special non-working days.
		raw = "2.0"
		if p.holidayType == TypeSpecial {
			raw = "1.3"
		}
	}
	p.multiplier, err = decimal.NewFromString(raw)
	if err != nil || p.multiplier.Sign() <= 0 {
		return p, holidayerrors.ErrInvalidHolidayMultiplier
	}

	return p, nil
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	p, err := parseRequest(req)
	if err != nil {
		s.logger.Warn("create holiday invalid", zap.Error(err))
		return HolidayResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HolidayResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	h := &Holiday{
		ID:         uuid.New(),
		Name:       req.Name,
		Type:       p.holidayType,
		StartDate:  p.start,
		EndDate:    p.end,
		Multiplier: p.multiplier,
	}
	if err := qtx.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, err
	}

	s.logger.Info("create holiday success",
		zap.String("holiday_id", h.ID.String()),
		zap.String("name", h.Name),
		zap.String("type", h.Type),
	)
	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context, year int) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx, year)
	if err != nil {
		s.logger.Error("get all holidays failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		res[i] = mapToResponse(h)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (HolidayResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*h), nil
}

// GetCalendar expands every holiday overlapping the month into one row
// per covered day, clipped to the month boundaries.
func (s *service) GetCalendar(ctx context.Context, year int, month time.Month) ([]HolidayDayResponse, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	holidays, err := s.repo.FindOverlapping(ctx, monthStart, monthEnd)
	if err != nil {
		s.logger.Error("get holiday calendar failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	var days []HolidayDayResponse
	for _, h := range holidays {
		from := h.StartDate
		if from.Before(monthStart) {
			from = monthStart
		}
		to := h.EndDate
		if to.After(monthEnd) {
			to = monthEnd
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			days = append(days, HolidayDayResponse{
				Date:       d.Format("2006-01-02"),
				HolidayID:  h.ID.String(),
				Name:       h.Name,
				Type:       h.Type,
				Multiplier: h.Multiplier.String(),
			})
		}
	}
	return days, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	p, err := parseRequest(req)
	if err != nil {
		s.logger.Warn("update holiday invalid", zap.Error(err))
		return HolidayResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return HolidayResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}

	existing.Name = req.Name
	existing.Type = p.holidayType
	existing.StartDate = p.start
	existing.EndDate = p.end
	existing.Multiplier = p.multiplier

	if err := qtx.Update(ctx, existing); err != nil {
		s.logger.Error("update holiday persist failed", zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, err
	}

	s.logger.Info("update holiday success", zap.String("holiday_id", id))
	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete holiday failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete holiday success", zap.String("holiday_id", id))
	return nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:         h.ID.String(),
		Name:       h.Name,
		Type:       h.Type,
		StartDate:  h.StartDate.Format("2006-01-02"),
		EndDate:    h.EndDate.Format("2006-01-02"),
		Multiplier: h.Multiplier.String(),
	}
}
