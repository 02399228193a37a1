package app

import (
	"log"
	"os"

	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/employmenttype"
	"go-payroll/internal/holiday"
	"go-payroll/internal/leave"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/settings"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/statistics"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	log.Println("✅ Database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	log.Println("✅ Redis connection established")

	// Register Modules & Routes
	router.Use(middleware.RequestID())
	registerModules(router, db, gormDB, redisClient)

	return nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employee.Employee{},
		&employmenttype.EmploymentType{},
		&employmenttype.EmploymentTypeSchedule{},
		&attendance.Attendance{},
		&attendance.AttendanceLog{},
		&holiday.Holiday{},
		&leave.Leave{},
		&settings.CalculationSettings{},
		&compensation.Compensation{},
		&deduction.DeductionRecord{},
		&deduction.InstallmentApplication{},
		&payroll.PayrollSummary{},
		&statistics.MonthStatistics{},
		&counter.CounterSeries{},
		&kafka.OutboxRecord{},
	)
}
