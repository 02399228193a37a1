package export_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/export"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSummaryRepository struct {
	findByIDFn     func(ctx context.Context, id string) (*payroll.PayrollSummary, error)
	findByPeriodFn func(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.PayrollSummary, error)
}

func (f *fakeSummaryRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakeSummaryRepository) Upsert(ctx context.Context, summary *payroll.PayrollSummary) error {
	return nil
}

func (f *fakeSummaryRepository) FindByID(ctx context.Context, id string) (*payroll.PayrollSummary, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSummaryRepository) FindByKey(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (*payroll.PayrollSummary, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSummaryRepository) FindAll(ctx context.Context, employeeID string, year int, month time.Month) ([]payroll.PayrollSummary, error) {
	return nil, nil
}

func (f *fakeSummaryRepository) FindByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.PayrollSummary, error) {
	if f.findByPeriodFn != nil {
		return f.findByPeriodFn(ctx, periodStart, periodEnd)
	}
	return nil, nil
}

func (f *fakeSummaryRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
	findAllFn  func(ctx context.Context, status string) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context, status string) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, status)
	}
	return nil, nil
}
func (f *fakeEmployeeRepository) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindByEmployeeNumber(ctx context.Context, number string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func testSummary(employeeID uuid.UUID, payslipNumber int64) *payroll.PayrollSummary {
	return &payroll.PayrollSummary{
		ID:                    uuid.New(),
		EmployeeID:            employeeID,
		PeriodStart:           time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:             time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
		PayslipNumber:         payslipNumber,
		DailyRate:             decimal.NewFromInt(1000),
		DaysWorked:            5,
		Absences:              1,
		BasicPay:              decimal.NewFromInt(5000),
		OvertimePay:           decimal.RequireFromString("187.5"),
		HolidayBonus:          decimal.NewFromInt(1000),
		NightDifferentialPay:  decimal.NewFromInt(100),
		LateDeduction:         decimal.NewFromInt(100),
		SSS:                   decimal.NewFromInt(200),
		PhilHealth:            decimal.NewFromInt(150),
		PagIbig:               decimal.NewFromInt(100),
		CashAdvanceDeductions: decimal.NewFromInt(100),
		LoanDeductions:        decimal.NewFromInt(150),
		GrossPay:              decimal.RequireFromString("6187.5"),
		TotalDeductions:       decimal.NewFromInt(700),
		NetPay:                decimal.RequireFromString("5487.5"),
	}
}

func testEmployee(id uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:             id,
		EmployeeNumber: "EMP-000101",
		FullName:       "Maria Santos",
		DailyRate:      decimal.NewFromInt(1000),
		Status:         employee.StatusActive,
	}
}

func TestExportService_WritePayslipPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the payslip file into the export directory", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		tmpDir := t.TempDir()
		_ = os.Setenv("EXPORT_STORAGE_DIR", tmpDir)
		t.Cleanup(func() { _ = os.Unsetenv("EXPORT_STORAGE_DIR") })

		employeeID := uuid.New()
		summary := testSummary(employeeID, 7)
		summaries := &fakeSummaryRepository{
			findByIDFn: func(ctx context.Context, id string) (*payroll.PayrollSummary, error) {
				assert.Equal(t, summary.ID.String(), id)
				return summary, nil
			},
		}
		employees := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return testEmployee(employeeID), nil
			},
		}

		svc := export.NewService(db, summaries, employees, &fakeOutboxRepository{})
		path, err := svc.WritePayslipPDF(ctx, summary.ID.String())
		require.NoError(t, err)

		expected := filepath.Join(tmpDir, "payslip_EMP-000101_2026-03-02_2026-03-07.pdf")
		assert.Equal(t, expected, path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	})

	t.Run("unknown summaries fail with not found", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := export.NewService(db, &fakeSummaryRepository{}, &fakeEmployeeRepository{}, &fakeOutboxRepository{})
		_, err := svc.WritePayslipPDF(ctx, uuid.NewString())
		assert.ErrorIs(t, err, payrollerrors.ErrSummaryNotFound)
	})
}

func TestExportService_WritePeriodCSV(t *testing.T) {
	ctx := context.Background()
	periodStart := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	t.Run("renders one row per summary with two decimal places", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		alice := uuid.New()
		ghost := uuid.New()
		first := testSummary(alice, 7)
		second := testSummary(ghost, 8)

		summaries := &fakeSummaryRepository{
			findByPeriodFn: func(ctx context.Context, start, end time.Time) ([]payroll.PayrollSummary, error) {
				assert.True(t, start.Equal(periodStart))
				assert.True(t, end.Equal(periodEnd))
				return []payroll.PayrollSummary{*first, *second}, nil
			},
		}
		employees := &fakeEmployeeRepository{
			findAllFn: func(ctx context.Context, status string) ([]employee.Employee, error) {
				assert.Equal(t, "", status)
				return []employee.Employee{*testEmployee(alice)}, nil
			},
		}

		svc := export.NewService(db, summaries, employees, &fakeOutboxRepository{})
		data, rows, err := svc.WritePeriodCSV(ctx, periodStart, periodEnd)
		require.NoError(t, err)
		assert.Equal(t, 2, rows)

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)

		header := records[0]
		assert.Equal(t, "employee_number", header[0])
		assert.Equal(t, "payslip_number", header[4])
		assert.Equal(t, "total_deduction", header[22])
		assert.Equal(t, "net_pay", header[23])

		assert.Equal(t, "EMP-000101", records[1][0])
		assert.Equal(t, "Maria Santos", records[1][1])
		assert.Equal(t, "2026-03-02", records[1][2])
		assert.Equal(t, "7", records[1][4])
		assert.Equal(t, "1000.00", records[1][5])
		assert.Equal(t, "187.50", records[1][9])
		assert.Equal(t, "700.00", records[1][22])
		assert.Equal(t, "5487.50", records[1][23])

		// A summary whose employee is gone still exports its numbers.
		assert.Equal(t, "", records[2][0])
		assert.Equal(t, "", records[2][1])
		assert.Equal(t, "8", records[2][4])
	})

	t.Run("rejects reversed ranges", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		summaries := &fakeSummaryRepository{
			findByPeriodFn: func(ctx context.Context, start, end time.Time) ([]payroll.PayrollSummary, error) {
				t.Fatal("summaries must not be listed for a reversed range")
				return nil, nil
			},
		}

		svc := export.NewService(db, summaries, &fakeEmployeeRepository{}, &fakeOutboxRepository{})
		_, _, err := svc.WritePeriodCSV(ctx, periodEnd, periodStart)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidDateRange)
	})
}

func TestExportService_RequestPayslip(t *testing.T) {
	ctx := context.Background()

	t.Run("queues the render through the outbox", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		employeeID := uuid.New()
		summary := testSummary(employeeID, 7)
		summaries := &fakeSummaryRepository{
			findByIDFn: func(ctx context.Context, id string) (*payroll.PayrollSummary, error) {
				return summary, nil
			},
		}

		var queued *kafka.OutboxEvent
		outbox := &fakeOutboxRepository{
			createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
				queued = &event
				return nil
			},
		}

		expectTx(t, mock, true)
		svc := export.NewService(db, summaries, &fakeEmployeeRepository{}, outbox)
		err = svc.RequestPayslip(ctx, export.RequestPayslipRequest{
			SummaryID:   summary.ID.String(),
			RequestedBy: "hr-portal",
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())

		require.NotNil(t, queued)
		assert.Equal(t, events.PayrollPayslipRequestedTopic, queued.Topic)
		assert.Equal(t, "payroll_summary", queued.AggregateType)
		assert.Equal(t, summary.ID.String(), queued.AggregateID)
		assert.Equal(t, kafka.OutboxStatusPending, queued.Status)

		var payload events.PayrollPayslipRequestedEvent
		require.NoError(t, json.Unmarshal(queued.Payload, &payload))
		assert.Equal(t, "payroll_payslip_requested", payload.EventType)
		assert.Equal(t, summary.ID.String(), payload.SummaryID)
		assert.Equal(t, employeeID.String(), payload.EmployeeID)
		assert.Equal(t, "2026-03-02", payload.PeriodStart)
		assert.Equal(t, "2026-03-07", payload.PeriodEnd)
		assert.Equal(t, 7, payload.PayslipNumber)
		assert.Equal(t, "hr-portal", payload.RequestedBy)
	})

	t.Run("unknown summaries fail before the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		svc := export.NewService(db, &fakeSummaryRepository{}, &fakeEmployeeRepository{}, &fakeOutboxRepository{})
		err = svc.RequestPayslip(ctx, export.RequestPayslipRequest{SummaryID: uuid.NewString()})
		assert.ErrorIs(t, err, payrollerrors.ErrSummaryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
