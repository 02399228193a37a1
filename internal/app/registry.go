package app

import (
	"database/sql"
	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/employmenttype"
	"go-payroll/internal/export"
	"go-payroll/internal/holiday"
	"go-payroll/internal/leave"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/settings"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/statistics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	logger := zap.L()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	deductionRepo := deduction.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	employmentTypeRepo := employmenttype.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	statisticsRepo := statistics.NewRepository(gormDB)

	// --- Services ---
	// Settings feeds compensation, which in turn recomputes months for
	// attendance, so the three are built in that order.
	settingsService := settings.NewService(db, settingsRepo, rdb)
	employmentTypeService := employmenttype.NewService(db, employmentTypeRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	holidayService := holiday.NewService(db, holidayRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo)
	compensationService := compensation.NewService(
		db,
		compensationRepo,
		employeeRepo,
		employmentTypeRepo,
		attendanceRepo,
		holidayRepo,
		leaveRepo,
		settingsService,
	)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo, employmentTypeRepo, compensationService)
	deductionService := deduction.NewService(db, deductionRepo, employeeRepo)
	payrollService := payroll.NewServiceWithOutbox(
		db,
		payrollRepo,
		employeeRepo,
		compensationService,
		deductionService,
		settingsService,
		counterRepo,
		outboxRepo,
		rdb,
	)
	statisticsService := statistics.NewService(db, statisticsRepo, payrollRepo)
	exportService := export.NewService(db, payrollRepo, employeeRepo, outboxRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	compensationHandler := compensation.NewHandler(compensationService)
	deductionHandler := deduction.NewHandler(deductionService)
	employeeHandler := employee.NewHandler(employeeService)
	employmentTypeHandler := employmenttype.NewHandler(employmentTypeService)
	exportHandler := export.NewHandler(exportService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	settingsHandler := settings.NewHandler(settingsService)
	statisticsHandler := statistics.NewHandler(statisticsService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rdb, logger)
		compensation.RegisterRoutes(api, compensationHandler, rdb, logger)
		deduction.RegisterRoutes(api, deductionHandler, rdb, logger)
		employee.RegisterRoutes(api, employeeHandler, logger)
		employmenttype.RegisterRoutes(api, employmentTypeHandler, logger)
		export.RegisterRoutes(api, exportHandler, rdb, logger)
		holiday.RegisterRoutes(api, holidayHandler, logger)
		leave.RegisterRoutes(api, leaveHandler, logger)
		payroll.RegisterRoutes(api, payrollHandler, rdb, logger)
		settings.RegisterRoutes(api, settingsHandler, logger)
		statistics.RegisterRoutes(api, statisticsHandler, logger)
	}
}
