package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

type PartnerRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewPartnerRepository(tx *gorm.DB, log *logger.Logger) *PartnerRepository {
	return &PartnerRepository{tx: tx, log: log.With("repo", "PartnerRepository")}
}

func (r *PartnerRepository) Create(ctx context.Context, p *domain.Partner) error {
	p.Normalize()
	return create(ctx, r.tx, "partner", p)
}

func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*domain.Partner, error) {
	return findByID[domain.Partner](ctx, r.tx, "partner", id)
}

func (r *PartnerRepository) List(ctx context.Context) ([]domain.Partner, error) {
	var out []domain.Partner
	if err := r.tx.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list partners: %w", database.Classify(err))
	}
	return out, nil
}
