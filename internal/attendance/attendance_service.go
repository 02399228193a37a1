package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/employmenttype"
	employmenttypeerrors "go-payroll/internal/employmenttype/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recomputer regenerates compensation for one employee-month after
// attendance mutations. Implemented by the compensation service.
type Recomputer interface {
	RecomputeMonth(ctx context.Context, employeeID string, year int, month time.Month, force bool) error
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, req UpsertAttendanceRequest) (AttendanceResponse, error)
	GetMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]AttendanceResponse, error)
	Edit(ctx context.Context, id string, req EditAttendanceRequest) (AttendanceResponse, error)
	Toggle(ctx context.Context, id string, req ToggleAttendanceRequest) (AttendanceResponse, error)
	SwapTimes(ctx context.Context, id string) (AttendanceResponse, error)
	Revert(ctx context.Context, id string, req RevertAttendanceRequest) (AttendanceResponse, error)
	GetLogs(ctx context.Context, id string) ([]AttendanceLogResponse, error)
	Import(ctx context.Context, file io.Reader) (ImportResult, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	types      employmenttype.Repository
	recomputer Recomputer
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	types employmenttype.Repository,
	recomputer Recomputer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		types:      types,
		recomputer: recomputer,
		logger:     l,
	}
}

func (s *service) Upsert(ctx context.Context, req UpsertAttendanceRequest) (AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	var row *Attendance
	if existing != nil && err == nil {
		if err := s.logState(ctx, qtx, existing, ActionEdit); err != nil {
			return AttendanceResponse{}, err
		}
		existing.TimeIn = req.TimeIn
		existing.TimeOut = req.TimeOut
		existing.Source = SourceManual
		if err := qtx.Update(ctx, existing); err != nil {
			return AttendanceResponse{}, err
		}
		row = existing
	} else {
		row = &Attendance{
			ID:         uuid.New(),
			EmployeeID: uuid.MustParse(req.EmployeeID),
			Date:       date,
			TimeIn:     req.TimeIn,
			TimeOut:    req.TimeOut,
			Source:     SourceManual,
		}
		if err := qtx.Create(ctx, row); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance upserted",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
	)

	s.recomputeAfter(ctx, row, "upsert")
	return mapToResponse(*row), nil
}

func (s *service) GetMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]AttendanceResponse, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	rows, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		s.logger.Error("get attendance month failed", zap.Error(err))
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) Edit(ctx context.Context, id string, req EditAttendanceRequest) (AttendanceResponse, error) {
	row, err := s.mutate(ctx, id, ActionEdit, func(a *Attendance) error {
		a.TimeIn = req.TimeIn
		a.TimeOut = req.TimeOut
		a.Source = SourceManual
		return nil
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.recomputeAfter(ctx, row, "edit")
	return mapToResponse(*row), nil
}

// Toggle flips binary presence for non-tracked employment types.
func (s *service) Toggle(ctx context.Context, id string, req ToggleAttendanceRequest) (AttendanceResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	empl, err := s.employees.FindByID(ctx, existing.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}
	et, err := s.types.FindByID(ctx, empl.EmploymentTypeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, employmenttypeerrors.ErrEmploymentTypeNotFound
		}
		return AttendanceResponse{}, err
	}
	if et.RequiresTimeTracking {
		return AttendanceResponse{}, attendanceerrors.ErrToggleRequiresNonTracked
	}

	row, err := s.mutate(ctx, id, ActionToggle, func(a *Attendance) error {
		if req.Present {
			a.TimeIn = PresentSentinel
			a.TimeOut = PresentSentinel
		} else {
			a.TimeIn = ""
			a.TimeOut = ""
		}
		a.Source = SourceManual
		return nil
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.recomputeAfter(ctx, row, "toggle")
	return mapToResponse(*row), nil
}

// SwapTimes exchanges time-in and time-out for rows captured in the
// wrong order by data entry.
func (s *service) SwapTimes(ctx context.Context, id string) (AttendanceResponse, error) {
	row, err := s.mutate(ctx, id, ActionSwap, func(a *Attendance) error {
		a.TimeIn, a.TimeOut = a.TimeOut, a.TimeIn
		a.Source = SourceManual
		return nil
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.recomputeAfter(ctx, row, "time swap")
	return mapToResponse(*row), nil
}

// Revert restores the row from a history entry; the latest one when no
// log id is given.
func (s *service) Revert(ctx context.Context, id string, req RevertAttendanceRequest) (AttendanceResponse, error) {
	var restore *AttendanceLog
	if req.LogID != "" {
		log, err := s.repo.FindLogByID(ctx, req.LogID)
		if err != nil {
			return AttendanceResponse{}, mapRepositoryError(err)
		}
		if log.AttendanceID.String() != id {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		restore = log
	} else {
		logs, err := s.repo.FindLogs(ctx, id)
		if err != nil {
			return AttendanceResponse{}, err
		}
		if len(logs) == 0 {
			return AttendanceResponse{}, attendanceerrors.ErrNoHistory
		}
		restore = &logs[0]
	}

	row, err := s.mutate(ctx, id, ActionRevert, func(a *Attendance) error {
		a.TimeIn = restore.TimeIn
		a.TimeOut = restore.TimeOut
		a.Source = restore.Source
		return nil
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.recomputeAfter(ctx, row, "revert")
	return mapToResponse(*row), nil
}

func (s *service) GetLogs(ctx context.Context, id string) ([]AttendanceLogResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	logs, err := s.repo.FindLogs(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceLogResponse, len(logs))
	for i, l := range logs {
		res[i] = AttendanceLogResponse{
			ID:        l.ID.String(),
			TimeIn:    l.TimeIn,
			TimeOut:   l.TimeOut,
			Source:    l.Source,
			Action:    l.Action,
			ChangedBy: l.ChangedBy,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		}
	}
	return res, nil
}

// Import maps biometric sheet rows onto attendance, then recomputes
// every touched employee-month. Unknown employee numbers are reported
// and skipped, never fatal.
func (s *service) Import(ctx context.Context, file io.Reader) (ImportResult, error) {
	rows, skips, err := ParseSheet(file)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Skipped: skips}

	type monthKey struct {
		employeeID string
		year       int
		month      time.Month
	}
	touched := make(map[monthKey]struct{})

	numberCache := make(map[string]*employee.Employee)
	for _, row := range rows {
		empl, ok := numberCache[row.EmployeeNumber]
		if !ok {
			var err error
			empl, err = s.employees.FindByEmployeeNumber(ctx, row.EmployeeNumber)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				numberCache[row.EmployeeNumber] = nil
				result.Skipped = append(result.Skipped, ImportSkip{
					Row:            row.RowNumber,
					EmployeeNumber: row.EmployeeNumber,
					Reason:         "unknown employee number",
				})
				continue
			}
			if err != nil {
				return ImportResult{}, err
			}
			numberCache[row.EmployeeNumber] = empl
		}
		if empl == nil {
			result.Skipped = append(result.Skipped, ImportSkip{
				Row:            row.RowNumber,
				EmployeeNumber: row.EmployeeNumber,
				Reason:         "unknown employee number",
			})
			continue
		}

		if err := s.importRow(ctx, empl.ID, row); err != nil {
			result.Skipped = append(result.Skipped, ImportSkip{
				Row:            row.RowNumber,
				EmployeeNumber: row.EmployeeNumber,
				Reason:         err.Error(),
			})
			continue
		}
		result.Imported++
		touched[monthKey{empl.ID.String(), row.Date.Year(), row.Date.Month()}] = struct{}{}
	}

	for key := range touched {
		if s.recomputer == nil {
			break
		}
		if err := s.recomputer.RecomputeMonth(ctx, key.employeeID, key.year, key.month, false); err != nil {
			s.logger.Warn("post-import recompute failed",
				zap.String("employee_id", key.employeeID),
				zap.Int("year", key.year),
				zap.Int("month", int(key.month)),
				zap.Error(err),
			)
			continue
		}
		result.RecomputedMonths++
	}

	s.logger.Info("attendance import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("recomputed_months", result.RecomputedMonths),
	)
	return result, nil
}

func (s *service) importRow(ctx context.Context, employeeID uuid.UUID, row ImportRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID.String(), row.Date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil && err == nil {
		if err := s.logState(ctx, qtx, existing, ActionImport); err != nil {
			return err
		}
		existing.TimeIn = row.TimeIn
		existing.TimeOut = row.TimeOut
		existing.Source = SourceImport
		if err := qtx.Update(ctx, existing); err != nil {
			return err
		}
	} else {
		if err := qtx.Create(ctx, &Attendance{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Date:       row.Date,
			TimeIn:     row.TimeIn,
			TimeOut:    row.TimeOut,
			Source:     SourceImport,
		}); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// mutate loads the row, logs its prior state, applies fn, and persists,
// all in one transaction.
func (s *service) mutate(ctx context.Context, id string, action string, fn func(*Attendance) error) (*Attendance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := s.logState(ctx, qtx, row, action); err != nil {
		return nil, err
	}
	if err := fn(row); err != nil {
		return nil, err
	}
	if err := qtx.Update(ctx, row); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("attendance mutated",
		zap.String("attendance_id", id),
		zap.String("action", action),
	)
	return row, nil
}

func (s *service) logState(ctx context.Context, repo Repository, row *Attendance, action string) error {
	return repo.CreateLog(ctx, &AttendanceLog{
		ID:           uuid.New(),
		AttendanceID: row.ID,
		TimeIn:       row.TimeIn,
		TimeOut:      row.TimeOut,
		Source:       row.Source,
		Action:       action,
		ChangedBy:    contextutil.GetActorID(ctx),
	})
}

func (s *service) recomputeAfter(ctx context.Context, row *Attendance, cause string) {
	if s.recomputer == nil {
		return
	}
	err := s.recomputer.RecomputeMonth(ctx, row.EmployeeID.String(), row.Date.Year(), row.Date.Month(), false)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("post-%s recompute failed", cause),
			zap.String("employee_id", row.EmployeeID.String()),
			zap.Error(err),
		)
	}
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		Date:       a.Date.Format("2006-01-02"),
		TimeIn:     a.TimeIn,
		TimeOut:    a.TimeOut,
		Source:     a.Source,
		Present:    a.IsPresent(),
	}
}
