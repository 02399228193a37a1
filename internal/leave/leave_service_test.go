package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/leave"
	leaveerrors "go-payroll/internal/leave/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn              func(ctx context.Context, l *leave.Leave) error
	findAllFn             func(ctx context.Context, status string) ([]leave.Leave, error)
	findByEmployeeFn      func(ctx context.Context, employeeID string) ([]leave.Leave, error)
	findByIDFn            func(ctx context.Context, id string) (*leave.Leave, error)
	updateFn              func(ctx context.Context, l *leave.Leave) error
	deleteFn              func(ctx context.Context, id string) error
	hasOverlappingFn      func(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error)
	findApprovedInRangeFn func(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, status string) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.Leave, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingFn != nil {
		return f.hasOverlappingFn(ctx, employeeID, start, end, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) FindApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	if f.findApprovedInRangeFn != nil {
		return f.findApprovedInRangeFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context, status string) ([]employee.Employee, error) {
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

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func knownEmployee(id uuid.UUID) *fakeEmployeeRepository {
	return &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, _ string) (*employee.Employee, error) {
			return &employee.Employee{ID: id}, nil
		},
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var created *leave.Leave
		repo := &fakeLeaveRepository{
			createFn: func(ctx context.Context, l *leave.Leave) error {
				created = l
				return nil
			},
		}

		expectTx(t, sqlMock, true)

		svc := leave.NewService(db, repo, knownEmployee(employeeID))
		resp, err := svc.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  leave.TypeVacation,
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-08",
			Reason:     "family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, created.Status)
		assert.Equal(t, 3, created.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "2026-04-06", resp.StartDate)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("overlap rejected", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeLeaveRepository{
			hasOverlappingFn: func(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) (bool, error) {
				return true, nil
			},
		}

		expectTx(t, sqlMock, false)

		svc := leave.NewService(db, repo, knownEmployee(employeeID))
		_, err := svc.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  leave.TypeSick,
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-08",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("unknown leave type rejected", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := leave.NewService(db, &fakeLeaveRepository{}, knownEmployee(employeeID))
		_, err := svc.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  "SABBATICAL",
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-08",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("range flipped rejected", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := leave.NewService(db, &fakeLeaveRepository{}, knownEmployee(employeeID))
		_, err := svc.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: employeeID.String(),
			LeaveType:  leave.TypeSick,
			StartDate:  "2026-04-08",
			EndDate:    "2026-04-06",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("unknown employee rejected", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := leave.NewService(db, &fakeLeaveRepository{}, &fakeEmployeeRepository{})
		_, err := svc.Create(ctx, leave.CreateLeaveRequest{
			EmployeeID: uuid.New().String(),
			LeaveType:  leave.TypeSick,
			StartDate:  "2026-04-06",
			EndDate:    "2026-04-08",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestLeaveService_Transitions(t *testing.T) {
	leaveID := uuid.New()
	employeeID := uuid.New()

	pendingLeave := func() *leave.Leave {
		return &leave.Leave{
			ID:         leaveID,
			EmployeeID: employeeID,
			LeaveType:  leave.TypeSick,
			StartDate:  time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC),
			TotalDays:  2,
			Status:     leave.StatusPending,
		}
	}

	t.Run("approve records actor", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var updated *leave.Leave
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return pendingLeave(), nil
			},
			updateFn: func(ctx context.Context, l *leave.Leave) error {
				updated = l
				return nil
			},
		}

		expectTx(t, sqlMock, true)

		ctx := contextutil.WithActorID(context.Background(), "hr-admin")
		svc := leave.NewService(db, repo, &fakeEmployeeRepository{})
		resp, err := svc.Approve(ctx, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, updated.Status)
		assert.Equal(t, "hr-admin", updated.ApprovedBy)
		assert.NotNil(t, updated.ApprovedAt)
		assert.Equal(t, leave.StatusApproved, resp.Status)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := leave.NewService(db, &fakeLeaveRepository{}, &fakeEmployeeRepository{})
		_, err := svc.Reject(context.Background(), leaveID.String(), "")

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("reject stores reason", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var updated *leave.Leave
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				return pendingLeave(), nil
			},
			updateFn: func(ctx context.Context, l *leave.Leave) error {
				updated = l
				return nil
			},
		}

		expectTx(t, sqlMock, true)

		svc := leave.NewService(db, repo, &fakeEmployeeRepository{})
		resp, err := svc.Reject(context.Background(), leaveID.String(), "no remaining credits")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, updated.Status)
		assert.Equal(t, "no remaining credits", *updated.RejectionReason)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})

	t.Run("approved leave cannot transition again", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.Leave, error) {
				l := pendingLeave()
				l.Status = leave.StatusApproved
				return l, nil
			},
		}

		expectTx(t, sqlMock, false)

		svc := leave.NewService(db, repo, &fakeEmployeeRepository{})
		_, err := svc.Approve(context.Background(), leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveEntity_Helpers(t *testing.T) {
	l := leave.Leave{
		LeaveType: leave.TypeVacation,
		StartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, l.Covers(time.Date(2026, 4, 7, 15, 30, 0, 0, time.UTC)))
	assert.False(t, l.Covers(time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)))
	assert.True(t, l.Paid())

	l.LeaveType = leave.TypeUnpaid
	assert.False(t, l.Paid())
}
