package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, id string) (*Attendance, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	CreateLog(ctx context.Context, log *AttendanceLog) error
	FindLogs(ctx context.Context, attendanceID string) ([]AttendanceLog, error)
	FindLogByID(ctx context.Context, id string) (*AttendanceLog, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"time_in":  a.TimeIn,
			"time_out": a.TimeOut,
			"source":   a.Source,
		}).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		First(&a, "employee_id = ? AND date = ?", employeeID, date).Error
	return &a, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, start, end).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateLog(ctx context.Context, log *AttendanceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) FindLogs(ctx context.Context, attendanceID string) ([]AttendanceLog, error) {
	var logs []AttendanceLog
	err := r.db.WithContext(ctx).
		Where("attendance_id = ?", attendanceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) FindLogByID(ctx context.Context, id string) (*AttendanceLog, error) {
	var log AttendanceLog
	err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error
	return &log, err
}
