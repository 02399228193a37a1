package holiday_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/holiday"
	holidayerrors "go-payroll/internal/holiday/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeHolidayRepository struct {
	withTxFn           func(tx *sql.Tx) holiday.Repository
	createFn           func(ctx context.Context, h *holiday.Holiday) error
	findAllFn          func(ctx context.Context, year int) ([]holiday.Holiday, error)
	findByIDFn         func(ctx context.Context, id string) (*holiday.Holiday, error)
	findOverlappingFn  func(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error)
	findCoveringDateFn func(ctx context.Context, date time.Time) (*holiday.Holiday, error)
	updateFn           func(ctx context.Context, h *holiday.Holiday) error
	deleteFn           func(ctx context.Context, id string) error
}

func (f *fakeHolidayRepository) WithTx(tx *sql.Tx) holiday.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeHolidayRepository) Create(ctx context.Context, h *holiday.Holiday) error {
	if f.createFn != nil {
		return f.createFn(ctx, h)
	}
	return nil
}

func (f *fakeHolidayRepository) FindAll(ctx context.Context, year int) ([]holiday.Holiday, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, year)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) FindByID(ctx context.Context, id string) (*holiday.Holiday, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeHolidayRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	if f.findOverlappingFn != nil {
		return f.findOverlappingFn(ctx, start, end)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) FindCoveringDate(ctx context.Context, date time.Time) (*holiday.Holiday, error) {
	if f.findCoveringDateFn != nil {
		return f.findCoveringDateFn(ctx, date)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) Update(ctx context.Context, h *holiday.Holiday) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, h)
	}
	return nil
}

func (f *fakeHolidayRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
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

func TestHolidayService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("regular holiday defaults to double pay", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var created *holiday.Holiday
		repo := &fakeHolidayRepository{
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				created = h
				return nil
			},
		}

		expectTx(t, sqlMock, true)

		svc := holiday.NewService(db, repo)
		resp, err := svc.Create(ctx, holiday.CreateHolidayRequest{
			Name:      "New Year's Day",
			Type:      holiday.TypeRegular,
			StartDate: "2026-01-01",
			EndDate:   "2026-01-01",
		})

		assert.NoError(t, err)
		assert.True(t, created.Multiplier.Equal(decimal.RequireFromString("2.0")))
		assert.Equal(t, "2026-01-01", resp.StartDate)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("special holiday defaults to 1.3", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		var created *holiday.Holiday
		repo := &fakeHolidayRepository{
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				created = h
				return nil
			},
		}

		expectTx(t, sqlMock, true)

		svc := holiday.NewService(db, repo)
		_, err := svc.Create(ctx, holiday.CreateHolidayRequest{
			Name:      "Ninoy Aquino Day",
			Type:      holiday.TypeSpecial,
			StartDate: "2026-08-21",
			EndDate:   "2026-08-21",
		})

		assert.NoError(t, err)
		assert.True(t, created.Multiplier.Equal(decimal.RequireFromString("1.3")))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := holiday.NewService(db, &fakeHolidayRepository{})
		_, err := svc.Create(ctx, holiday.CreateHolidayRequest{
			Name:      "Oops",
			Type:      "BANK",
			StartDate: "2026-01-01",
			EndDate:   "2026-01-01",
		})

		assert.ErrorIs(t, err, holidayerrors.ErrInvalidHolidayType)
	})

	t.Run("rejects zero or negative multiplier", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := holiday.NewService(db, &fakeHolidayRepository{})
		_, err := svc.Create(ctx, holiday.CreateHolidayRequest{
			Name:       "Oops",
			Type:       holiday.TypeRegular,
			StartDate:  "2026-01-01",
			EndDate:    "2026-01-01",
			Multiplier: "0",
		})

		assert.ErrorIs(t, err, holidayerrors.ErrInvalidHolidayMultiplier)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		svc := holiday.NewService(db, &fakeHolidayRepository{})
		_, err := svc.Create(ctx, holiday.CreateHolidayRequest{
			Name:      "Oops",
			Type:      holiday.TypeRegular,
			StartDate: "2026-01-02",
			EndDate:   "2026-01-01",
		})

		assert.ErrorIs(t, err, holidayerrors.ErrInvalidHolidayRange)
	})
}

func TestHolidayService_GetCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("expands ranges clipped to month", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		holyWeek := holiday.Holiday{
			ID:         uuid.New(),
			Name:       "Holy Week",
			Type:       holiday.TypeRegular,
			StartDate:  time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
			Multiplier: decimal.RequireFromString("2.0"),
		}
		repo := &fakeHolidayRepository{
			findOverlappingFn: func(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
				return []holiday.Holiday{holyWeek}, nil
			},
		}

		svc := holiday.NewService(db, repo)
		days, err := svc.GetCalendar(ctx, 2026, time.April)

		assert.NoError(t, err)
		assert.Len(t, days, 3)
		assert.Equal(t, "2026-04-01", days[0].Date)
		assert.Equal(t, "2026-04-03", days[2].Date)
		assert.Equal(t, holyWeek.ID.String(), days[0].HolidayID)
	})
}

func TestHoliday_Covers(t *testing.T) {
	h := holiday.Holiday{
		StartDate: time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 26, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, h.Covers(time.Date(2026, 12, 24, 8, 30, 0, 0, time.UTC)))
	assert.True(t, h.Covers(time.Date(2026, 12, 26, 23, 0, 0, 0, time.UTC)))
	assert.False(t, h.Covers(time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC)))
	assert.False(t, h.Covers(time.Date(2026, 12, 23, 0, 0, 0, 0, time.UTC)))
}

func TestHolidayService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id maps to not found", func(t *testing.T) {
		db, sqlMock, _ := sqlmock.New()
		defer db.Close()

		expectTx(t, sqlMock, false)

		svc := holiday.NewService(db, &fakeHolidayRepository{})
		err := svc.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, holidayerrors.ErrHolidayNotFound)
	})
}
