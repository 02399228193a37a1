package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	withTxFn               func(tx *sql.Tx) employee.Repository
	createFn               func(ctx context.Context, empl *employee.Employee) error
	findAllFn              func(ctx context.Context, status string) ([]employee.Employee, error)
	findAllActiveFn        func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn             func(ctx context.Context, id string) (*employee.Employee, error)
	findByEmployeeNumberFn func(ctx context.Context, number string) (*employee.Employee, error)
	updateFn               func(ctx context.Context, empl *employee.Employee) error
	updateStatusFn         func(ctx context.Context, id string, status string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context, status string) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmployeeNumber(ctx context.Context, number string) (*employee.Employee, error) {
	if f.findByEmployeeNumberFn != nil {
		return f.findByEmployeeNumberFn(ctx, number)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

type fakeCounterRepository struct {
	getNextValueFn func(ctx context.Context, series string) (int64, error)
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, series string) (int64, error) {
	if f.getNextValueFn != nil {
		return f.getNextValueFn(ctx, series)
	}
	return 1, nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

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

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FullName:         "Maria Santos",
		EmploymentTypeID: uuid.New().String(),
		DailyRate:        "800",
		SSSContribution:  "500",
		PhilHealth:       "300",
		PagIbig:          "100",
		HireDate:         "2025-01-15",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - auto generate employee number", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()
		rdb, redisMock := redismock.NewClientMock()

		createdID := uuid.New()
		var outboxEvent kafka.OutboxEvent

		repo := &fakeEmployeeRepository{
			createFn: func(ctx context.Context, empl *employee.Employee) error {
				assert.Equal(t, "Maria Santos", empl.FullName)
				assert.Equal(t, "EMP-000123", empl.EmployeeNumber)
				assert.Equal(t, employee.StatusActive, empl.Status)
				assert.True(t, empl.DailyRate.Equal(decimal.RequireFromString("800")))
				empl.ID = createdID
				return nil
			},
		}
		counterRepo := &fakeCounterRepository{
			getNextValueFn: func(ctx context.Context, series string) (int64, error) {
				assert.Equal(t, "employee-number", series)
				return 123, nil
			},
		}
		outbox := &fakeOutboxRepository{
			createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
				outboxEvent = event
				return nil
			},
		}

		expectTx(t, sqlMock, true)
		redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		svc := employee.NewServiceWithOutbox(db, repo, counterRepo, outbox, rdb)
		resp, err := svc.Create(ctx, validCreateRequest())

		assert.NoError(t, err)
		assert.Equal(t, createdID.String(), resp.ID)
		assert.Equal(t, "EMP-000123", resp.EmployeeNumber)
		assert.Equal(t, "800.00", resp.DailyRate)

		assert.Equal(t, events.EmployeeCreatedTopic, outboxEvent.Topic)
		assert.Equal(t, kafka.OutboxStatusPending, outboxEvent.Status)
		var evt events.EmployeeCreatedEvent
		assert.NoError(t, json.Unmarshal(outboxEvent.Payload, &evt))
		assert.Equal(t, createdID.String(), evt.EmployeeID)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid daily rate fails fast", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)

		req := validCreateRequest()
		req.DailyRate = "-100"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDailyRate)

		req = validCreateRequest()
		req.DailyRate = "abc"
		_, err = svc.Create(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDailyRate)
	})

	t.Run("invalid hire date fails fast", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := employee.NewService(db, &fakeEmployeeRepository{}, &fakeCounterRepository{}, nil)

		req := validCreateRequest()
		req.HireDate = "15-01-2025"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
	})

	t.Run("duplicate employee number maps to conflict", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeEmployeeRepository{
			createFn: func(ctx context.Context, empl *employee.Employee) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_number"}
			},
		}

		expectTx(t, sqlMock, false)

		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)
		req := validCreateRequest()
		req.EmployeeNumber = "EMP-000001"
		_, err := svc.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNumberAlreadyExists)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()
		rdb, redisMock := redismock.NewClientMock()

		cached := []employee.EmployeeResponse{{ID: uuid.New().String(), FullName: "Cached"}}
		payload, _ := json.Marshal(cached)
		redisMock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(payload))

		repoCalled := false
		repo := &fakeEmployeeRepository{
			findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
				repoCalled = true
				return nil, nil
			},
		}

		svc := employee.NewService(db, repo, &fakeCounterRepository{}, rdb)
		resp, err := svc.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.False(t, repoCalled)
	})

	t.Run("cache miss loads active employees", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeEmployeeRepository{
			findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
				return []employee.Employee{
					{ID: uuid.New(), FullName: "Active One", Status: employee.StatusActive},
				}, nil
			},
		}

		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)
		resp, err := svc.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Active One", resp[0].FullName)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found maps to app error", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)
		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("already inactive is rejected", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		id := uuid.New()
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, empID string) (*employee.Employee, error) {
				return &employee.Employee{ID: id, Status: employee.StatusInactive}, nil
			},
		}

		expectTx(t, sqlMock, false)

		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)
		err := svc.Deactivate(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	})

	t.Run("active employee is deactivated, never deleted", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		id := uuid.New()
		var gotStatus string
		repo := &fakeEmployeeRepository{
			findByIDFn: func(ctx context.Context, empID string) (*employee.Employee, error) {
				return &employee.Employee{ID: id, Status: employee.StatusActive}, nil
			},
			updateStatusFn: func(ctx context.Context, empID string, status string) error {
				gotStatus = status
				return nil
			},
		}

		expectTx(t, sqlMock, true)

		svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)
		err := svc.Deactivate(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, employee.StatusInactive, gotStatus)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Update_ErrRolledBack(t *testing.T) {
	ctx := context.Background()

	db, sqlMock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return &employee.Employee{ID: uuid.New(), Status: employee.StatusActive}, nil
		},
		updateFn: func(ctx context.Context, empl *employee.Employee) error {
			return errors.New("db down")
		},
	}

	expectTx(t, sqlMock, false)

	svc := employee.NewService(db, repo, &fakeCounterRepository{}, nil)
	req := employee.UpdateEmployeeRequest{
		FullName:         "Renamed",
		EmploymentTypeID: uuid.New().String(),
		DailyRate:        "900",
		HireDate:         "2025-01-15",
	}
	_, err := svc.Update(ctx, uuid.New().String(), req)

	assert.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
