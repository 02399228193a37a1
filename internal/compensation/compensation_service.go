package compensation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/attendance"
	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/employmenttype"
	employmenttypeerrors "go-payroll/internal/employmenttype/errors"
	"go-payroll/internal/holiday"
	"go-payroll/internal/leave"
	"go-payroll/internal/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	GetMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]CompensationResponse, error)
	Override(ctx context.Context, id string, req OverrideCompensationRequest) (CompensationResponse, error)
	ClearOverride(ctx context.Context, id string) (CompensationResponse, error)
	// RecomputeMonth rebuilds the month's rows from its attendance
	// entries. force=false leaves manually overridden rows untouched.
	RecomputeMonth(ctx context.Context, employeeID string, year int, month time.Month, force bool) error
	RecomputeAllEmployees(ctx context.Context, year int, month time.Month, force bool) (RecomputeReport, error)
	// EnsureRange returns one row per calendar day in the range,
	// computing and persisting any day that has none yet. Days before
	// the employee's hire date are skipped.
	EnsureRange(ctx context.Context, employeeID string, start, end time.Time) ([]Compensation, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	types     employmenttype.Repository
	attends   attendance.Repository
	holidays  holiday.Repository
	leaves    leave.Repository
	settings  settings.Service
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	types employmenttype.Repository,
	attends attendance.Repository,
	holidays holiday.Repository,
	leaves leave.Repository,
	settingsService settings.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("compensation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		types:     types,
		attends:   attends,
		holidays:  holidays,
		leaves:    leaves,
		settings:  settingsService,
		logger:    l,
	}
}

// rangeContext holds everything the calculator needs for one employee
// over one date range, loaded in a handful of queries instead of per day.
type rangeContext struct {
	employee *employee.Employee
	rules    *employmenttype.EmploymentType
	settings settings.CalculationSettings
	holidays []holiday.Holiday
	leaves   []leave.Leave
	attRows  []attendance.Attendance
	attByDay map[string]*attendance.Attendance
	existing map[string]*Compensation
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (s *service) loadRangeContext(ctx context.Context, employeeID string, start, end time.Time) (*rangeContext, error) {
	empl, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	rules, err := s.types.FindByID(ctx, empl.EmploymentTypeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employmenttypeerrors.ErrEmploymentTypeNotFound
		}
		return nil, err
	}

	attRows, err := s.attends.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	existingRows, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	hols, err := s.holidays.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	leaves, err := s.leaves.FindApprovedInRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	cs, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	rc := &rangeContext{
		employee: empl,
		rules:    rules,
		settings: cs,
		holidays: hols,
		leaves:   leaves,
		attRows:  attRows,
		attByDay: make(map[string]*attendance.Attendance, len(attRows)),
		existing: make(map[string]*Compensation, len(existingRows)),
	}
	for i := range attRows {
		rc.attByDay[dayKey(attRows[i].Date)] = &attRows[i]
	}
	for i := range existingRows {
		rc.existing[dayKey(existingRows[i].Date)] = &existingRows[i]
	}
	return rc, nil
}

func (rc *rangeContext) inputFor(date time.Time) ComputeInput {
	in := ComputeInput{
		EmployeeID: rc.employee.ID,
		Date:       date,
		DailyRate:  rc.employee.DailyRate,
		Rules:      *rc.rules,
		Attendance: rc.attByDay[dayKey(date)],
		Settings:   rc.settings,
	}
	for i := range rc.holidays {
		if rc.holidays[i].Covers(date) {
			in.Holiday = &rc.holidays[i]
			break
		}
	}
	for i := range rc.leaves {
		if rc.leaves[i].Paid() && rc.leaves[i].Covers(date) {
			in.OnPaidLeave = true
			break
		}
	}
	return in
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func (s *service) GetMonth(ctx context.Context, employeeID string, year int, month time.Month) ([]CompensationResponse, error) {
	start, end := monthRange(year, month)
	rows, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		s.logger.Error("get compensation month failed", zap.Error(err))
		return nil, err
	}

	res := make([]CompensationResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) RecomputeMonth(ctx context.Context, employeeID string, year int, month time.Month, force bool) error {
	start, end := monthRange(year, month)
	rc, err := s.loadRangeContext(ctx, employeeID, start, end)
	if err != nil {
		return err
	}

	rows := make([]Compensation, 0, len(rc.attRows))
	for i := range rc.attRows {
		date := rc.attRows[i].Date
		if existing := rc.existing[dayKey(date)]; existing != nil && existing.ManualOverride && !force {
			continue
		}
		comp, err := ComputeDaily(rc.inputFor(date))
		if err != nil {
			return err
		}
		comp.ID = uuid.New()
		rows = append(rows, comp)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if force {
		err = qtx.DeleteAllInRange(ctx, employeeID, start, end)
	} else {
		err = qtx.DeleteUnfrozenInRange(ctx, employeeID, start, end)
	}
	if err != nil {
		return err
	}
	if err := qtx.CreateBatch(ctx, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("compensation month recomputed",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Bool("force", force),
		zap.Int("rows", len(rows)),
	)
	return nil
}

func (s *service) RecomputeAllEmployees(ctx context.Context, year int, month time.Month, force bool) (RecomputeReport, error) {
	employees, err := s.employees.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("recompute all employee listing failed", zap.Error(err))
		return RecomputeReport{}, err
	}

	var report RecomputeReport
	for _, empl := range employees {
		if err := s.RecomputeMonth(ctx, empl.ID.String(), year, month, force); err != nil {
			s.logger.Warn("recompute failed for employee",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, RecomputeFailure{
				EmployeeID: empl.ID.String(),
				Reason:     err.Error(),
			})
			continue
		}
		report.Succeeded++
	}
	return report, nil
}

func (s *service) EnsureRange(ctx context.Context, employeeID string, start, end time.Time) ([]Compensation, error) {
	rc, err := s.loadRangeContext(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	hired := time.Date(
		rc.employee.HireDate.Year(), rc.employee.HireDate.Month(), rc.employee.HireDate.Day(),
		0, 0, 0, 0, time.UTC,
	)

	var out []Compensation
	var missing []Compensation
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Before(hired) {
			continue
		}
		if existing := rc.existing[dayKey(d)]; existing != nil {
			out = append(out, *existing)
			continue
		}
		comp, err := ComputeDaily(rc.inputFor(d))
		if err != nil {
			return nil, err
		}
		comp.ID = uuid.New()
		missing = append(missing, comp)
		out = append(out, comp)
	}

	if len(missing) > 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()
		qtx := s.repo.WithTx(tx)
		if err := qtx.CreateBatch(ctx, missing); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *service) Override(ctx context.Context, id string, req OverrideCompensationRequest) (CompensationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompensationResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}

	if err := applyOverride(row, req); err != nil {
		return CompensationResponse{}, err
	}
	row.ManualOverride = true
	row.ComputeMode = ComputeModeOverridden

	if err := qtx.Update(ctx, row); err != nil {
		return CompensationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return CompensationResponse{}, err
	}

	s.logger.Info("compensation overridden",
		zap.String("compensation_id", id),
		zap.String("employee_id", row.EmployeeID.String()),
		zap.String("date", dayKey(row.Date)),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClearOverride(ctx context.Context, id string) (CompensationResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompensationResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		return CompensationResponse{}, mapRepositoryError(err)
	}
	if !row.ManualOverride {
		return CompensationResponse{}, compensationerrors.ErrNotOverridden
	}

	rc, err := s.loadRangeContext(ctx, row.EmployeeID.String(), row.Date, row.Date)
	if err != nil {
		return CompensationResponse{}, err
	}
	comp, err := ComputeDaily(rc.inputFor(row.Date))
	if err != nil {
		return CompensationResponse{}, err
	}

	comp.ID = row.ID
	comp.CreatedAt = row.CreatedAt
	if err := qtx.Update(ctx, &comp); err != nil {
		return CompensationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return CompensationResponse{}, err
	}

	s.logger.Info("compensation override cleared",
		zap.String("compensation_id", id),
		zap.String("employee_id", row.EmployeeID.String()),
	)
	return mapToResponse(comp), nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Sign() < 0 {
		return decimal.Zero, compensationerrors.ErrInvalidAmount
	}
	return d, nil
}

// applyOverride copies the provided fields onto the row and re-derives
// gross and net unless they were given explicitly.
func applyOverride(row *Compensation, req OverrideCompensationRequest) error {
	fields := []struct {
		raw  *string
		dest *decimal.Decimal
	}{
		{req.HoursWorked, &row.HoursWorked},
		{req.BasicPay, &row.BasicPay},
		{req.OvertimePay, &row.OvertimePay},
		{req.HolidayBonus, &row.HolidayBonus},
		{req.NightDiffPay, &row.NightDiffPay},
		{req.LateDeduction, &row.LateDeduction},
		{req.UndertimeDeduction, &row.UndertimeDeduction},
		{req.Deductions, &row.Deductions},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		d, err := parseAmount(*f.raw)
		if err != nil {
			return err
		}
		*f.dest = d
	}
	if req.Absence != nil {
		row.Absence = *req.Absence
	}

	if req.GrossPay != nil {
		d, err := parseAmount(*req.GrossPay)
		if err != nil {
			return err
		}
		row.GrossPay = d
	} else {
		row.GrossPay = row.BasicPay.
			Add(row.OvertimePay).
			Add(row.HolidayBonus).
			Add(row.NightDiffPay).
			Sub(row.LateDeduction).
			Sub(row.UndertimeDeduction)
	}
	if req.NetPay != nil {
		d, err := parseAmount(*req.NetPay)
		if err != nil {
			return err
		}
		row.NetPay = d
	} else {
		row.NetPay = row.GrossPay.Sub(row.Deductions)
	}
	return nil
}

func mapToResponse(c Compensation) CompensationResponse {
	return CompensationResponse{
		ID:         c.ID.String(),
		EmployeeID: c.EmployeeID.String(),
		Date:       dayKey(c.Date),
		DayType:    c.DayType,
		Absence:    c.Absence,

		HoursWorked: c.HoursWorked.String(),

		LateMinutes:      c.LateMinutes,
		UndertimeMinutes: c.UndertimeMinutes,
		OvertimeMinutes:  c.OvertimeMinutes,

		LateDeduction:      c.LateDeduction.String(),
		UndertimeDeduction: c.UndertimeDeduction.String(),
		OvertimePay:        c.OvertimePay.String(),

		NightDiffHours: c.NightDiffHours.String(),
		NightDiffPay:   c.NightDiffPay.String(),

		HolidayBonus:            c.HolidayBonus.String(),
		HolidayMultiplierSource: c.HolidayMultiplierSource,

		BasicPay:   c.BasicPay.String(),
		GrossPay:   c.GrossPay.String(),
		Deductions: c.Deductions.String(),
		NetPay:     c.NetPay.String(),

		ManualOverride: c.ManualOverride,
		ComputeMode:    c.ComputeMode,
	}
}
