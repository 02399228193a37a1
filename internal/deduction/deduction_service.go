package deduction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	deductionerrors "go-payroll/internal/deduction/errors"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_service.go -destination=mock/deduction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	GetAll(ctx context.Context, employeeID, kind, status string) ([]DeductionResponse, error)
	GetByID(ctx context.Context, id string) (DeductionResponse, error)
	Update(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error)
	Approve(ctx context.Context, id string) (DeductionResponse, error)
	Delete(ctx context.Context, id string) error
	GetApplications(ctx context.Context, id string) ([]InstallmentApplicationResponse, error)
	// ApplyDueInstallments takes one period's worth from every approved
	// record with balance, one ledger row each. Records already ledgered
	// for the period contribute their recorded amount without touching
	// the balance again, which makes payroll regeneration idempotent.
	ApplyDueInstallments(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (AppliedInstallments, error)
	// CreditBack reverses every ledgered application for the period,
	// restoring balances and reopening settled records.
	CreditBack(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (CreditBackResult, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("deduction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deduction.service")
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, deductionerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func parseAmounts(amount, installment string) (decimal.Decimal, decimal.Decimal, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil || a.Sign() <= 0 {
		return decimal.Zero, decimal.Zero, deductionerrors.ErrInvalidAmount
	}

	inst := decimal.Zero
	if installment != "" {
		inst, err = decimal.NewFromString(installment)
		if err != nil || inst.Sign() < 0 || inst.GreaterThan(a) {
			return decimal.Zero, decimal.Zero, deductionerrors.ErrInvalidInstallment
		}
	}
	return a, inst, nil
}

func (s *service) Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error) {
	if !ValidKind(req.Kind) {
		return DeductionResponse{}, deductionerrors.ErrInvalidKind
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return DeductionResponse{}, err
	}
	amount, installment, err := parseAmounts(req.Amount, req.InstallmentAmount)
	if err != nil {
		s.logger.Warn("create deduction validation failed", zap.Error(err))
		return DeductionResponse{}, err
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return DeductionResponse{}, deductionerrors.ErrInvalidEmployeeID
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DeductionResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return DeductionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create deduction begin tx failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	d := &DeductionRecord{
		ID:                uuid.New(),
		EmployeeID:        employeeUUID,
		Kind:              req.Kind,
		Date:              date,
		Amount:            amount,
		RemainingUnpaid:   amount,
		InstallmentAmount: installment,
		Status:            StatusPending,
		Reason:            req.Reason,
	}
	if err := qtx.Create(ctx, d); err != nil {
		s.logger.Error("create deduction persist failed", zap.Error(err))
		return DeductionResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create deduction commit failed", zap.Error(err))
		return DeductionResponse{}, err
	}

	s.logger.Info("create deduction success",
		zap.String("deduction_id", d.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("kind", req.Kind),
		zap.String("amount", amount.String()),
	)
	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context, employeeID, kind, status string) ([]DeductionResponse, error) {
	rows, err := s.repo.FindAll(ctx, employeeID, kind, status)
	if err != nil {
		s.logger.Error("get deductions failed", zap.Error(err))
		return nil, err
	}

	res := make([]DeductionResponse, len(rows))
	for i, d := range rows {
		res[i] = mapToResponse(d)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DeductionResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDeductionRequest) (DeductionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeductionResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}
	if d.Status != StatusPending {
		return DeductionResponse{}, deductionerrors.ErrNotPending
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return DeductionResponse{}, err
		}
		d.Date = date
	}
	if req.Reason != nil {
		d.Reason = *req.Reason
	}

	amount := d.Amount.String()
	if req.Amount != nil {
		amount = *req.Amount
	}
	installment := d.InstallmentAmount.String()
	if req.InstallmentAmount != nil {
		installment = *req.InstallmentAmount
	}
	newAmount, newInstallment, err := parseAmounts(amount, installment)
	if err != nil {
		s.logger.Warn("update deduction validation failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	d.Amount = newAmount
	// Pending records have no applications yet, so the balance tracks
	// the amount.
	d.RemainingUnpaid = newAmount
	d.InstallmentAmount = newInstallment

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("update deduction persist failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	s.logger.Info("update deduction success", zap.String("deduction_id", id))
	return mapToResponse(*d), nil
}

func (s *service) Approve(ctx context.Context, id string) (DeductionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeductionResponse{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}
	if d.Status != StatusPending {
		return DeductionResponse{}, deductionerrors.ErrNotPending
	}

	d.Status = StatusApproved
	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("approve deduction persist failed", zap.Error(err))
		return DeductionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return DeductionResponse{}, err
	}

	s.logger.Info("approve deduction success",
		zap.String("deduction_id", id),
		zap.String("approved_by", contextutil.GetActorID(ctx)),
	)
	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if d.Status != StatusPending {
		return deductionerrors.ErrNotPending
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete deduction persist failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete deduction success", zap.String("deduction_id", id))
	return nil
}

func (s *service) GetApplications(ctx context.Context, id string) ([]InstallmentApplicationResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	apps, err := s.repo.FindApplicationsByRecord(ctx, id)
	if err != nil {
		s.logger.Error("get installment applications failed", zap.Error(err))
		return nil, err
	}

	res := make([]InstallmentApplicationResponse, len(apps))
	for i, app := range apps {
		res[i] = mapApplicationToResponse(app)
	}
	return res, nil
}

func (s *service) ApplyDueInstallments(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (AppliedInstallments, error) {
	var out AppliedInstallments

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AppliedInstallments{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindApplicationsByEmployeeAndPeriod(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return AppliedInstallments{}, err
	}
	ledgered := make(map[uuid.UUID]bool, len(existing))
	for _, app := range existing {
		ledgered[app.DeductionRecordID] = true
		out.add(app.Kind, app.AppliedAmount)
	}

	due, err := qtx.FindDue(ctx, employeeID)
	if err != nil {
		return AppliedInstallments{}, err
	}
	applied := 0
	for i := range due {
		record := &due[i]
		if ledgered[record.ID] {
			continue
		}
		amount := record.DueAmount()
		if amount.Sign() <= 0 {
			continue
		}

		affected, err := qtx.DecrementBalance(ctx, record.ID.String(), amount)
		if err != nil {
			return AppliedInstallments{}, err
		}
		if affected == 0 {
			s.logger.Warn("installment decrement guard rejected",
				zap.String("deduction_id", record.ID.String()),
				zap.String("amount", amount.String()),
			)
			return AppliedInstallments{}, deductionerrors.ErrBalanceConflict
		}

		app := &InstallmentApplication{
			ID:                uuid.New(),
			DeductionRecordID: record.ID,
			EmployeeID:        record.EmployeeID,
			Kind:              record.Kind,
			PeriodStart:       periodStart,
			PeriodEnd:         periodEnd,
			AppliedAmount:     amount,
		}
		if err := qtx.CreateApplication(ctx, app); err != nil {
			return AppliedInstallments{}, mapRepositoryError(err)
		}
		if err := qtx.MarkPaidIfSettled(ctx, record.ID.String()); err != nil {
			return AppliedInstallments{}, err
		}

		out.add(record.Kind, amount)
		applied++
	}

	if err := tx.Commit(); err != nil {
		return AppliedInstallments{}, err
	}

	if applied > 0 || len(existing) > 0 {
		s.logger.Info("installments applied",
			zap.String("employee_id", employeeID),
			zap.Int("new", applied),
			zap.Int("reused", len(existing)),
			zap.String("total", out.Total().String()),
		)
	}
	return out, nil
}

func (s *service) CreditBack(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (CreditBackResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CreditBackResult{}, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	apps, err := qtx.FindApplicationsByEmployeeAndPeriod(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return CreditBackResult{}, err
	}

	total := decimal.Zero
	for _, app := range apps {
		affected, err := qtx.IncrementBalance(ctx, app.DeductionRecordID.String(), app.AppliedAmount)
		if err != nil {
			return CreditBackResult{}, err
		}
		if affected == 0 {
			s.logger.Warn("credit back guard rejected",
				zap.String("deduction_id", app.DeductionRecordID.String()),
				zap.String("amount", app.AppliedAmount.String()),
			)
			return CreditBackResult{}, deductionerrors.ErrBalanceConflict
		}
		if err := qtx.ReopenIfOutstanding(ctx, app.DeductionRecordID.String()); err != nil {
			return CreditBackResult{}, err
		}
		if err := qtx.DeleteApplication(ctx, app.ID.String()); err != nil {
			return CreditBackResult{}, err
		}
		total = total.Add(app.AppliedAmount)
	}

	if err := tx.Commit(); err != nil {
		return CreditBackResult{}, err
	}

	s.logger.Info("installments credited back",
		zap.String("employee_id", employeeID),
		zap.Int("applications", len(apps)),
		zap.String("amount", total.String()),
	)
	return CreditBackResult{
		RestoredApplications: len(apps),
		AmountReturned:       total.String(),
	}, nil
}

func mapToResponse(d DeductionRecord) DeductionResponse {
	return DeductionResponse{
		ID:                d.ID.String(),
		EmployeeID:        d.EmployeeID.String(),
		Kind:              d.Kind,
		Date:              d.Date.Format("2006-01-02"),
		Amount:            d.Amount.String(),
		RemainingUnpaid:   d.RemainingUnpaid.String(),
		InstallmentAmount: d.InstallmentAmount.String(),
		Status:            d.Status,
		Reason:            d.Reason,
	}
}

func mapApplicationToResponse(app InstallmentApplication) InstallmentApplicationResponse {
	return InstallmentApplicationResponse{
		ID:                app.ID.String(),
		DeductionRecordID: app.DeductionRecordID.String(),
		EmployeeID:        app.EmployeeID.String(),
		Kind:              app.Kind,
		PeriodStart:       app.PeriodStart.Format("2006-01-02"),
		PeriodEnd:         app.PeriodEnd.Format("2006-01-02"),
		AppliedAmount:     app.AppliedAmount.String(),
	}
}
