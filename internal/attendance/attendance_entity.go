package attendance

import (
	"time"

	"github.com/google/uuid"
)

// PresentSentinel is the time-in/time-out pair stored for present days
// of employment types that do not track timestamps.
const PresentSentinel = "present"

const (
	SourceImport = "IMPORT"
	SourceManual = "MANUAL"
)

const (
	ActionEdit   = "EDIT"
	ActionToggle = "TOGGLE"
	ActionSwap   = "SWAP"
	ActionImport = "IMPORT"
	ActionRevert = "REVERT"
)

// Attendance is the raw record for one employee-day. TimeIn/TimeOut
// stay strings on purpose: imports deliver whatever the biometric sheet
// held and the calculator decides downstream what a malformed value
// means. Rows are never deleted.
type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_employee_date,unique"`
	Date       time.Time `gorm:"type:date;not null;index:idx_attendance_employee_date,unique"`
	TimeIn     string    `gorm:"type:varchar(10)"`
	TimeOut    string    `gorm:"type:varchar(10)"`
	Source     string    `gorm:"type:varchar(20);not null;default:'MANUAL'"`

	Logs []AttendanceLog `gorm:"foreignKey:AttendanceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}

// IsPresent reports presence for the binary (non-tracked) model.
func (a Attendance) IsPresent() bool {
	return a.TimeIn == PresentSentinel && a.TimeOut == PresentSentinel
}

// AttendanceLog captures the row state before a mutation. Appended on
// every edit, toggle, swap, and import overwrite; revert restores from
// here.
type AttendanceLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AttendanceID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_logs_attendance"`
	TimeIn       string    `gorm:"type:varchar(10)"`
	TimeOut      string    `gorm:"type:varchar(10)"`
	Source       string    `gorm:"type:varchar(20);not null"`
	Action       string    `gorm:"type:varchar(20);not null"`
	ChangedBy    string    `gorm:"type:varchar(64)"`
	CreatedAt    time.Time
}

func (AttendanceLog) TableName() string {
	return "attendance_logs"
}
