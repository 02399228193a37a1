package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/compensation"
	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/formula"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/settings"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const SummaryCachePrefix = "payroll:summary:"

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// Generate builds (or rebuilds) the summary for one employee and
	// period. Concurrent identical calls share a single execution.
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollSummaryResponse, error)
	GenerateForAll(ctx context.Context, req GenerateAllRequest) (GenerateReport, error)
	GetAll(ctx context.Context, employeeID string, year int, month time.Month) ([]PayrollSummaryResponse, error)
	GetByID(ctx context.Context, id string) (PayrollSummaryResponse, error)
	// Delete removes the summary only. Installments already taken for
	// the period stay on the ledger; CreditBackInstallments reverses
	// them when the caller wants the balances restored too.
	Delete(ctx context.Context, id string) error
	CreditBackInstallments(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (deduction.CreditBackResult, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	employees     employee.Repository
	compensations compensation.Service
	deductions    deduction.Service
	settings      settings.Service
	counter       counter.Repository
	outbox        kafka.OutboxRepository
	rdb           *redis.Client
	sf            *singleflight.Group
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	compensations compensation.Service,
	deductions deduction.Service,
	settingsService settings.Service,
	counterRepo counter.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employees, compensations, deductions, settingsService, counterRepo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	compensations compensation.Service,
	deductions deduction.Service,
	settingsService settings.Service,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		employees:     employees,
		compensations: compensations,
		deductions:    deductions,
		settings:      settingsService,
		counter:       counterRepo,
		outbox:        outboxRepo,
		rdb:           rdb,
		sf:            &singleflight.Group{},
		logger:        l,
	}
}

func parsePeriod(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidDateRange
	}
	return start, end, nil
}

func parsePeriodAmount(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, payrollerrors.ErrInvalidDeduction
	}
	return d, nil
}

// periodTotals carries the per-day sums and the resolved period
// deductions into the formula evaluation.
type periodTotals struct {
	basicPay             decimal.Decimal
	overtimePay          decimal.Decimal
	holidayBonus         decimal.Decimal
	nightDifferentialPay decimal.Decimal
	lateDeduction        decimal.Decimal
	undertimeDeduction   decimal.Decimal
	daysWorked           int
	absences             int

	sss         decimal.Decimal
	philHealth  decimal.Decimal
	pagIbig     decimal.Decimal
	cashAdvance decimal.Decimal
	shorts      decimal.Decimal
	loans       decimal.Decimal
	others      decimal.Decimal
}

func sumCompensation(rows []compensation.Compensation) periodTotals {
	var t periodTotals
	for _, c := range rows {
		t.basicPay = t.basicPay.Add(c.BasicPay)
		t.overtimePay = t.overtimePay.Add(c.OvertimePay)
		t.holidayBonus = t.holidayBonus.Add(c.HolidayBonus)
		t.nightDifferentialPay = t.nightDifferentialPay.Add(c.NightDiffPay)
		t.lateDeduction = t.lateDeduction.Add(c.LateDeduction)
		t.undertimeDeduction = t.undertimeDeduction.Add(c.UndertimeDeduction)
		if c.Absence {
			t.absences++
		} else {
			t.daysWorked++
		}
	}
	return t
}

func (s *service) Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollSummaryResponse, error) {
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("generate payroll invalid period",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
			zap.Error(err),
		)
		return PayrollSummaryResponse{}, err
	}

	summary, err := s.generateLocked(ctx, req.EmployeeID, start, end, req.Deductions)
	if err != nil {
		return PayrollSummaryResponse{}, err
	}
	return mapToResponse(*summary), nil
}

// generateLocked serializes generation per employee and period so two
// concurrent requests for the same key share one run and one ledger
// application.
func (s *service) generateLocked(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
	explicit *PeriodDeductionsRequest,
) (*PayrollSummary, error) {
	key := fmt.Sprintf("%s|%s|%s", employeeID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.generate(ctx, employeeID, start, end, explicit)
	})
	if err != nil {
		return nil, err
	}
	return v.(*PayrollSummary), nil
}

func (s *service) generate(
	ctx context.Context,
	employeeID string,
	start, end time.Time,
	explicit *PeriodDeductionsRequest,
) (*PayrollSummary, error) {
	empl, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	rows, err := s.compensations.EnsureRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	totals := sumCompensation(rows)

	if explicit != nil {
		if err := applyExplicitDeductions(&totals, explicit); err != nil {
			s.logger.Warn("generate payroll invalid explicit deductions",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return nil, err
		}
	} else {
		totals.sss = empl.SSSContribution
		totals.philHealth = empl.PhilHealth
		totals.pagIbig = empl.PagIbig

		applied, err := s.deductions.ApplyDueInstallments(ctx, employeeID, start, end)
		if err != nil {
			return nil, err
		}
		totals.cashAdvance = applied.CashAdvance
		totals.shorts = applied.Shorts
		totals.loans = applied.Loans
	}

	cfg, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	grossVars := formula.Variables{
		formula.VarBasicPay:             totals.basicPay,
		formula.VarOvertime:             totals.overtimePay,
		formula.VarHolidayBonus:         totals.holidayBonus,
		formula.VarNightDifferentialPay: totals.nightDifferentialPay,
		formula.VarLateDeduction:        totals.lateDeduction,
		formula.VarUndertimeDeduction:   totals.undertimeDeduction,
	}
	grossPay := formula.Evaluate(formula.KindGrossPay, grossVars, cfg.GrossPayFormula)

	deductionVars := formula.Variables{
		formula.VarSSS:                   totals.sss,
		formula.VarPhilHealth:            totals.philHealth,
		formula.VarPagIbig:               totals.pagIbig,
		formula.VarCashAdvanceDeductions: totals.cashAdvance,
		formula.VarShorts:                totals.shorts,
		formula.VarLoanDeductions:        totals.loans,
		formula.VarOthers:                totals.others,
		formula.VarLateDeduction:         totals.lateDeduction,
		formula.VarUndertimeDeduction:    totals.undertimeDeduction,
	}
	totalDeductions := formula.Evaluate(formula.KindTotalDeductions, deductionVars, cfg.TotalDeductionsFormula)

	netVars := formula.Variables{}
	for name, value := range grossVars {
		netVars[name] = value
	}
	for name, value := range deductionVars {
		netVars[name] = value
	}
	netVars[formula.VarGrossPay] = grossPay
	netVars[formula.VarTotalDeductions] = totalDeductions
	netPay := formula.Evaluate(formula.KindNetPay, netVars, cfg.NetPayFormula)

	summary := &PayrollSummary{
		EmployeeID:  empl.ID,
		PeriodStart: start,
		PeriodEnd:   end,

		DailyRate:  empl.DailyRate,
		DaysWorked: totals.daysWorked,
		Absences:   totals.absences,

		BasicPay:             totals.basicPay,
		OvertimePay:          totals.overtimePay,
		HolidayBonus:         totals.holidayBonus,
		NightDifferentialPay: totals.nightDifferentialPay,
		LateDeduction:        totals.lateDeduction,
		UndertimeDeduction:   totals.undertimeDeduction,

		SSS:                   totals.sss,
		PhilHealth:            totals.philHealth,
		PagIbig:               totals.pagIbig,
		CashAdvanceDeductions: totals.cashAdvance,
		ShortDeductions:       totals.shorts,
		LoanDeductions:        totals.loans,
		OtherDeductions:       totals.others,

		GrossPay:        grossPay,
		TotalDeductions: totalDeductions,
		NetPay:          netPay,
	}

	existing, err := s.repo.FindByKey(ctx, employeeID, start, end)
	switch {
	case err == nil:
		// Regeneration keeps the identity of the payslip.
		summary.ID = existing.ID
		summary.PayslipNumber = existing.PayslipNumber
		summary.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		summary.ID = uuid.New()
		next, err := s.counter.GetNextValue(ctx, fmt.Sprintf("payslip-%d", start.Year()))
		if err != nil {
			s.logger.Error("generate payroll payslip number failed", zap.Error(err))
			return nil, err
		}
		summary.PayslipNumber = next
	default:
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate payroll begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if err := qtx.Upsert(ctx, summary); err != nil {
		s.logger.Error("generate payroll persist failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.enqueueGeneratedEvent(ctx, tx, summary); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate payroll commit failed", zap.Error(err))
		return nil, err
	}

	// Regeneration keeps the summary id, so a cached copy is now stale.
	s.invalidateSummaryCache(ctx, summary.ID.String())
	s.logger.Info("generate payroll success",
		zap.String("employee_id", employeeID),
		zap.String("period_start", start.Format("2006-01-02")),
		zap.String("period_end", end.Format("2006-01-02")),
		zap.Int64("payslip_number", summary.PayslipNumber),
		zap.String("net_pay", summary.NetPay.String()),
	)
	return summary, nil
}

func applyExplicitDeductions(t *periodTotals, req *PeriodDeductionsRequest) error {
	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{req.SSS, &t.sss},
		{req.PhilHealth, &t.philHealth},
		{req.PagIbig, &t.pagIbig},
		{req.CashAdvance, &t.cashAdvance},
		{req.Shorts, &t.shorts},
		{req.Loans, &t.loans},
		{req.Others, &t.others},
	}
	for _, f := range fields {
		d, err := parsePeriodAmount(f.raw)
		if err != nil {
			return err
		}
		*f.dest = d
	}
	return nil
}

func (s *service) enqueueGeneratedEvent(ctx context.Context, tx *sql.Tx, summary *PayrollSummary) error {
	if s.outbox == nil {
		return nil
	}

	event := events.PayrollSummaryGeneratedEvent{
		EventType:            "payroll_summary_generated",
		SummaryID:            summary.ID.String(),
		EmployeeID:           summary.EmployeeID.String(),
		PeriodStart:          summary.PeriodStart.Format("2006-01-02"),
		PeriodEnd:            summary.PeriodEnd.Format("2006-01-02"),
		PayslipNumber:        summary.PayslipNumber,
		BasicPay:             summary.BasicPay.String(),
		OvertimePay:          summary.OvertimePay.String(),
		HolidayBonus:         summary.HolidayBonus.String(),
		NightDifferentialPay: summary.NightDifferentialPay.String(),
		GrossPay:             summary.GrossPay.String(),
		TotalDeductions:      summary.TotalDeductions.String(),
		NetPay:               summary.NetPay.String(),
		DaysWorked:           summary.DaysWorked,
		Absences:             summary.Absences,
		OccurredAt:           time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_summary",
		AggregateID:   summary.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollSummaryGeneratedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("generate payroll outbox persist failed",
			zap.String("summary_id", summary.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GenerateForAll(ctx context.Context, req GenerateAllRequest) (GenerateReport, error) {
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return GenerateReport{}, err
	}

	empls, err := s.employees.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("generate payroll batch listing failed", zap.Error(err))
		return GenerateReport{}, err
	}

	report := GenerateReport{Failed: []GenerateFailure{}}
	for _, empl := range empls {
		if _, err := s.generateLocked(ctx, empl.ID.String(), start, end, nil); err != nil {
			s.logger.Warn("generate payroll batch employee failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, GenerateFailure{
				EmployeeID: empl.ID.String(),
				Reason:     err.Error(),
			})
			continue
		}
		report.Succeeded++
	}

	s.logger.Info("generate payroll batch finished",
		zap.String("period_start", req.StartDate),
		zap.String("period_end", req.EndDate),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func (s *service) GetAll(ctx context.Context, employeeID string, year int, month time.Month) ([]PayrollSummaryResponse, error) {
	summaries, err := s.repo.FindAll(ctx, employeeID, year, month)
	if err != nil {
		s.logger.Error("get payroll summaries failed", zap.Error(err))
		return nil, err
	}

	res := make([]PayrollSummaryResponse, len(summaries))
	for i, summary := range summaries {
		res[i] = mapToResponse(summary)
	}
	return res, nil
}

// GetByID reads through a short-lived redis cache; payslip views hit
// the same summary repeatedly once it is generated.
func (s *service) GetByID(ctx context.Context, id string) (PayrollSummaryResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, SummaryCachePrefix+id).Result(); err == nil {
			var resp PayrollSummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	summary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayrollSummaryResponse{}, mapRepositoryError(err)
	}

	resp := mapToResponse(*summary)
	if s.rdb != nil {
		if jsonData, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, SummaryCachePrefix+id, jsonData, 10*time.Minute)
		}
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	summary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete payroll summary persist failed", zap.Error(err))
		return err
	}

	if s.outbox != nil {
		event := events.PayrollSummaryDeletedEvent{
			EventType:   "payroll_summary_deleted",
			EmployeeID:  summary.EmployeeID.String(),
			PeriodStart: summary.PeriodStart.Format("2006-01-02"),
			PeriodEnd:   summary.PeriodEnd.Format("2006-01-02"),
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "payroll_summary",
			AggregateID:   id,
			EventType:     event.EventType,
			Topic:         events.PayrollSummaryDeletedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("delete payroll summary outbox persist failed", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateSummaryCache(ctx, id)
	s.logger.Info("delete payroll summary success",
		zap.String("summary_id", id),
		zap.String("employee_id", summary.EmployeeID.String()),
	)
	return nil
}

func (s *service) invalidateSummaryCache(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, SummaryCachePrefix+id).Err(); err != nil {
		s.logger.Warn("payroll summary cache invalidation failed",
			zap.String("summary_id", id),
			zap.Error(err),
		)
	}
}

func (s *service) CreditBackInstallments(
	ctx context.Context,
	employeeID string,
	periodStart, periodEnd time.Time,
) (deduction.CreditBackResult, error) {
	res, err := s.deductions.CreditBack(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		s.logger.Error("credit back installments failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return deduction.CreditBackResult{}, err
	}

	s.logger.Info("credit back installments success",
		zap.String("employee_id", employeeID),
		zap.Int("restored", res.RestoredApplications),
		zap.String("amount_returned", res.AmountReturned),
	)
	return res, nil
}

func mapToResponse(summary PayrollSummary) PayrollSummaryResponse {
	return PayrollSummaryResponse{
		ID:            summary.ID.String(),
		EmployeeID:    summary.EmployeeID.String(),
		PeriodStart:   summary.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     summary.PeriodEnd.Format("2006-01-02"),
		PayslipNumber: summary.PayslipNumber,

		DailyRate:  summary.DailyRate.String(),
		DaysWorked: summary.DaysWorked,
		Absences:   summary.Absences,

		BasicPay:             summary.BasicPay.String(),
		OvertimePay:          summary.OvertimePay.String(),
		HolidayBonus:         summary.HolidayBonus.String(),
		NightDifferentialPay: summary.NightDifferentialPay.String(),
		LateDeduction:        summary.LateDeduction.String(),
		UndertimeDeduction:   summary.UndertimeDeduction.String(),

		SSS:                   summary.SSS.String(),
		PhilHealth:            summary.PhilHealth.String(),
		PagIbig:               summary.PagIbig.String(),
		CashAdvanceDeductions: summary.CashAdvanceDeductions.String(),
		ShortDeductions:       summary.ShortDeductions.String(),
		LoanDeductions:        summary.LoanDeductions.String(),
		OtherDeductions:       summary.OtherDeductions.String(),

		GrossPay:        summary.GrossPay.String(),
		TotalDeductions: summary.TotalDeductions.String(),
		NetPay:          summary.NetPay.String(),
	}
}
