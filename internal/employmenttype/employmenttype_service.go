package employmenttype

import (
	"context"
	"database/sql"
	"time"

	employmenttypeerrors "go-payroll/internal/employmenttype/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employmenttype_service.go -destination=mock/employmenttype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmploymentTypeRequest) (EmploymentTypeResponse, error)
	GetAll(ctx context.Context) ([]EmploymentTypeResponse, error)
	GetByID(ctx context.Context, id string) (EmploymentTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmploymentTypeRequest) (EmploymentTypeResponse, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, id string, date string) (ScheduleWindowResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employmenttype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employmenttype.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func parseMultiplier(v, fallback string) (decimal.Decimal, error) {
	if v == "" {
		v = fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.Sign() <= 0 {
		return decimal.Zero, employmenttypeerrors.ErrInvalidMultiplier
	}
	return d, nil
}

func validateClock(v string) error {
	if _, err := time.Parse("15:04", v); err != nil {
		return employmenttypeerrors.ErrInvalidNightWindow
	}
	return nil
}

// validateSchedule enforces exactly one entry per weekday and parseable
// windows on working days.
func validateSchedule(entries []ScheduleEntryRequest) error {
	if len(entries) != 7 {
		return employmenttypeerrors.ErrIncompleteWeekSchedule
	}
	var seen [7]bool
	for _, e := range entries {
		if e.Weekday < 0 || e.Weekday > 6 || seen[e.Weekday] {
			return employmenttypeerrors.ErrIncompleteWeekSchedule
		}
		seen[e.Weekday] = true

		if e.IsRestDay {
			continue
		}
		if _, err := time.Parse("15:04", e.TimeIn); err != nil {
			return employmenttypeerrors.ErrInvalidScheduleTime
		}
		if _, err := time.Parse("15:04", e.TimeOut); err != nil {
			return employmenttypeerrors.ErrInvalidScheduleTime
		}
	}
	return nil
}

func (s *service) buildEntity(req CreateEmploymentTypeRequest) (*EmploymentType, error) {
	if err := validateSchedule(req.Schedule); err != nil {
		return nil, err
	}

	otMult, err := parseMultiplier(req.OvertimeMultiplier, "1.25")
	if err != nil {
		return nil, err
	}
	ndMult, err := parseMultiplier(req.NightDiffMultiplier, "0.10")
	if err != nil {
		return nil, err
	}

	nightStart := req.NightWindowStart
	if nightStart == "" {
		nightStart = "22:00"
	}
	nightEnd := req.NightWindowEnd
	if nightEnd == "" {
		nightEnd = "06:00"
	}
	if err := validateClock(nightStart); err != nil {
		return nil, err
	}
	if err := validateClock(nightEnd); err != nil {
		return nil, err
	}

	requiresTracking := true
	if req.RequiresTimeTracking != nil {
		requiresTracking = *req.RequiresTimeTracking
	}

	et := &EmploymentType{
		ID:                       uuid.New(),
		Name:                     req.Name,
		RequiresTimeTracking:     requiresTracking,
		HoursProportional:        req.HoursProportional,
		GracePeriodMinutes:       req.GracePeriodMinutes,
		UnpaidBreakMinutes:       req.UnpaidBreakMinutes,
		OvertimeThresholdMinutes: req.OvertimeThresholdMinutes,
		OvertimeCapMinutes:       req.OvertimeCapMinutes,
		OvertimeMultiplier:       otMult,
		NightWindowStart:         nightStart,
		NightWindowEnd:           nightEnd,
		NightDiffMultiplier:      ndMult,
	}

	for _, e := range req.Schedule {
		entry := EmploymentTypeSchedule{
			ID:               uuid.New(),
			EmploymentTypeID: et.ID,
			Weekday:          e.Weekday,
			IsRestDay:        e.IsRestDay,
		}
		if !e.IsRestDay {
			entry.TimeIn = e.TimeIn
			entry.TimeOut = e.TimeOut
		}
		et.Schedule = append(et.Schedule, entry)
	}

	return et, nil
}

func (s *service) Create(ctx context.Context, req CreateEmploymentTypeRequest) (EmploymentTypeResponse, error) {
	s.logger.Debug("create employment type requested", zap.String("name", req.Name))

	et, err := s.buildEntity(req)
	if err != nil {
		s.logger.Warn("create employment type invalid", zap.Error(err))
		return EmploymentTypeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employment type begin tx failed", zap.Error(err))
		return EmploymentTypeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, et); err != nil {
		s.logger.Error("create employment type persist failed", zap.Error(err))
		return EmploymentTypeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EmploymentTypeResponse{}, err
	}

	s.logger.Info("create employment type success",
		zap.String("employment_type_id", et.ID.String()),
		zap.String("name", et.Name),
	)
	return mapToResponse(*et), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmploymentTypeResponse, error) {
	types, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employment types failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]EmploymentTypeResponse, len(types))
	for i, et := range types {
		res[i] = mapToResponse(et)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmploymentTypeResponse, error) {
	et, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmploymentTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*et), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmploymentTypeRequest) (EmploymentTypeResponse, error) {
	s.logger.Debug("update employment type requested", zap.String("employment_type_id", id))

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmploymentTypeResponse{}, mapRepositoryError(err)
	}

	built, err := s.buildEntity(req)
	if err != nil {
		s.logger.Warn("update employment type invalid", zap.Error(err))
		return EmploymentTypeResponse{}, err
	}

	existing.Name = built.Name
	existing.RequiresTimeTracking = built.RequiresTimeTracking
	existing.HoursProportional = built.HoursProportional
	existing.GracePeriodMinutes = built.GracePeriodMinutes
	existing.UnpaidBreakMinutes = built.UnpaidBreakMinutes
	existing.OvertimeThresholdMinutes = built.OvertimeThresholdMinutes
	existing.OvertimeCapMinutes = built.OvertimeCapMinutes
	existing.OvertimeMultiplier = built.OvertimeMultiplier
	existing.NightWindowStart = built.NightWindowStart
	existing.NightWindowEnd = built.NightWindowEnd
	existing.NightDiffMultiplier = built.NightDiffMultiplier

	entries := make([]EmploymentTypeSchedule, len(built.Schedule))
	copy(entries, built.Schedule)
	for i := range entries {
		entries[i].EmploymentTypeID = existing.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employment type begin tx failed", zap.Error(err))
		return EmploymentTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, existing); err != nil {
		s.logger.Error("update employment type persist failed", zap.Error(err))
		return EmploymentTypeResponse{}, mapRepositoryError(err)
	}
	if err := qtx.ReplaceSchedule(ctx, id, entries); err != nil {
		s.logger.Error("update employment type schedule failed", zap.Error(err))
		return EmploymentTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employment type commit failed", zap.Error(err))
		return EmploymentTypeResponse{}, err
	}

	existing.Schedule = entries
	s.logger.Info("update employment type success", zap.String("employment_type_id", id))
	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employment type begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employment type failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete employment type success", zap.String("employment_type_id", id))
	return nil
}

// Resolve exposes the schedule resolver over HTTP for clients that
// preview an employee's expected window.
func (s *service) Resolve(ctx context.Context, id string, date string) (ScheduleWindowResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ScheduleWindowResponse{}, employmenttypeerrors.ErrInvalidDateFormat
	}

	et, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ScheduleWindowResponse{}, mapRepositoryError(err)
	}

	window, err := ResolveSchedule(*et, day)
	if err != nil {
		return ScheduleWindowResponse{}, err
	}

	return ScheduleWindowResponse{
		Date:                 day.Format("2006-01-02"),
		TimeIn:               window.TimeIn,
		TimeOut:              window.TimeOut,
		IsRestDay:            window.IsRestDay,
		RequiresTimeTracking: window.RequiresTimeTracking,
	}, nil
}

func mapToResponse(et EmploymentType) EmploymentTypeResponse {
	resp := EmploymentTypeResponse{
		ID:                       et.ID.String(),
		Name:                     et.Name,
		RequiresTimeTracking:     et.RequiresTimeTracking,
		HoursProportional:        et.HoursProportional,
		GracePeriodMinutes:       et.GracePeriodMinutes,
		UnpaidBreakMinutes:       et.UnpaidBreakMinutes,
		OvertimeThresholdMinutes: et.OvertimeThresholdMinutes,
		OvertimeCapMinutes:       et.OvertimeCapMinutes,
		OvertimeMultiplier:       et.OvertimeMultiplier.String(),
		NightWindowStart:         et.NightWindowStart,
		NightWindowEnd:           et.NightWindowEnd,
		NightDiffMultiplier:      et.NightDiffMultiplier.String(),
	}
	for _, e := range et.Schedule {
		resp.Schedule = append(resp.Schedule, ScheduleEntryResponse{
			Weekday:   e.Weekday,
			TimeIn:    e.TimeIn,
			TimeOut:   e.TimeOut,
			IsRestDay: e.IsRestDay,
		})
	}
	return resp
}
