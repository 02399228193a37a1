package settings

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=settings_repo.go -destination=mock/settings_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Find(ctx context.Context) (*CalculationSettings, error)
	Save(ctx context.Context, s *CalculationSettings) error
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

func (r *repository) Find(ctx context.Context) (*CalculationSettings, error) {
	var s CalculationSettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error
	return &s, err
}

func (r *repository) Save(ctx context.Context, s *CalculationSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
