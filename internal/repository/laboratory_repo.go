package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

type LaboratoryRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewLaboratoryRepository(tx *gorm.DB, log *logger.Logger) *LaboratoryRepository {
	return &LaboratoryRepository{tx: tx, log: log.With("repo", "LaboratoryRepository")}
}

func (r *LaboratoryRepository) Create(ctx context.Context, lab *domain.Laboratory) error {
	return create(ctx, r.tx, "laboratory", lab)
}

func (r *LaboratoryRepository) GetByID(ctx context.Context, id int64) (*domain.Laboratory, error) {
	return findByID[domain.Laboratory](ctx, r.tx, "laboratory", id)
}

func (r *LaboratoryRepository) Update(ctx context.Context, lab *domain.Laboratory) error {
	return save(ctx, r.tx, "laboratory", lab.ID, lab)
}

// Delete fails with a constraint violation while the laboratory still owns
// projects, equipment, rooms or accounts.
func (r *LaboratoryRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID[domain.Laboratory](ctx, r.tx, "laboratory", id); err != nil {
		return err
	}
	r.log.Info("laboratory deleted", "laboratory_id", id)
	return nil
}

func (r *LaboratoryRepository) List(ctx context.Context) ([]domain.Laboratory, error) {
	var out []domain.Laboratory
	if err := r.tx.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list laboratories: %w", database.Classify(err))
	}
	return out, nil
}
