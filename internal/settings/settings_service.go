package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/formula"
	settingserrors "go-payroll/internal/settings/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const CalculationSettingsKey = "settings:calculation"

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	// Current returns the effective settings for calculators. A missing
	// row yields zero-value settings, never an error.
	Current(ctx context.Context) (CalculationSettings, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// Current is read by every compensation and payroll run, so it is
// cached in redis with singleflight in front of the database.
func (s *service) Current(ctx context.Context) (CalculationSettings, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, CalculationSettingsKey).Result(); err == nil {
			var cs CalculationSettings
			if json.Unmarshal([]byte(cached), &cs) == nil {
				return cs, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CalculationSettingsKey, func() (interface{}, error) {
		cs, err := s.repo.Find(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalculationSettings{}, nil
		}
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(cs); err == nil {
				s.rdb.Set(ctx, CalculationSettingsKey, jsonData, 10*time.Minute)
			}
		}
		return *cs, nil
	})
	if err != nil {
		return CalculationSettings{}, err
	}
	return v.(CalculationSettings), nil
}

func (s *service) Get(ctx context.Context) (SettingsResponse, error) {
	cs, err := s.Current(ctx)
	if err != nil {
		s.logger.Error("get settings failed", zap.Error(err))
		return SettingsResponse{}, err
	}
	return mapToResponse(cs), nil
}

func parseOptionalMultiplier(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Sign() < 0 {
		return decimal.Zero, settingserrors.ErrInvalidMultiplier
	}
	return d, nil
}

func (s *service) Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error) {
	regular, err := parseOptionalMultiplier(req.RegularHolidayMultiplier)
	if err != nil {
		return SettingsResponse{}, err
	}
	special, err := parseOptionalMultiplier(req.SpecialHolidayMultiplier)
	if err != nil {
		return SettingsResponse{}, err
	}

	checks := []struct {
		kind formula.Kind
		raw  string
	}{
		{formula.KindGrossPay, req.GrossPayFormula},
		{formula.KindTotalDeductions, req.TotalDeductionsFormula},
		{formula.KindNetPay, req.NetPayFormula},
	}
	for _, c := range checks {
		if c.raw == "" {
			continue
		}
		if err := formula.CheckSyntax(c.kind, c.raw); err != nil {
			s.logger.Warn("settings formula rejected",
				zap.String("kind", string(c.kind)),
				zap.Error(err),
			)
			return SettingsResponse{}, apperror.Wrap(err,
				apperror.CodeInvalidInput,
				fmt.Sprintf("%s formula failed the syntax check", c.kind),
				http.StatusBadRequest,
			)
		}
	}

	existing, err := s.repo.Find(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		existing = &CalculationSettings{ID: uuid.New()}
	} else if err != nil {
		s.logger.Error("load settings failed", zap.Error(err))
		return SettingsResponse{}, err
	}

	existing.RegularHolidayMultiplier = regular
	existing.SpecialHolidayMultiplier = special
	existing.GrossPayFormula = req.GrossPayFormula
	existing.TotalDeductionsFormula = req.TotalDeductionsFormula
	existing.NetPayFormula = req.NetPayFormula

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update settings begin tx failed", zap.Error(err))
		return SettingsResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Save(ctx, existing); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		return SettingsResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SettingsResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("settings updated",
		zap.String("regular_multiplier", regular.String()),
		zap.String("special_multiplier", special.String()),
	)
	return mapToResponse(*existing), nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CalculationSettingsKey).Err(); err != nil {
		s.logger.Warn("settings cache invalidation failed",
			zap.String("key", CalculationSettingsKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(cs CalculationSettings) SettingsResponse {
	resp := SettingsResponse{
		GrossPayFormula:        cs.GrossPayFormula,
		TotalDeductionsFormula: cs.TotalDeductionsFormula,
		NetPayFormula:          cs.NetPayFormula,
	}
	if cs.RegularHolidayMultiplier.Sign() > 0 {
		resp.RegularHolidayMultiplier = cs.RegularHolidayMultiplier.String()
	}
	if cs.SpecialHolidayMultiplier.Sign() > 0 {
		resp.SpecialHolidayMultiplier = cs.SpecialHolidayMultiplier.String()
	}
	return resp
}
