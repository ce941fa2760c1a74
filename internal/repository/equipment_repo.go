package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

type EquipmentRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewEquipmentRepository(tx *gorm.DB, log *logger.Logger) *EquipmentRepository {
	return &EquipmentRepository{tx: tx, log: log.With("repo", "EquipmentRepository")}
}

func (r *EquipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	e.Normalize()
	return create(ctx, r.tx, "equipment", e)
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	return findByID[domain.Equipment](ctx, r.tx, "equipment", id, "EquipmentType")
}

func (r *EquipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	e.Normalize()
	return save(ctx, r.tx, "equipment", e.ID, e)
}

func (r *EquipmentRepository) SetStatus(ctx context.Context, id int64, status domain.EquipmentStatus) error {
	if !status.Valid() {
		return &domain.ValidationError{Entity: "equipment", Field: "status", Rule: "oneof", Value: status}
	}
	res := r.tx.WithContext(ctx).Model(&domain.Equipment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set status of equipment %d: %w", id, database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set status of equipment %d: %w", id, domain.ErrNotFound)
	}
	r.log.Info("equipment status changed", "equipment_id", id, "status", status)
	return nil
}

// Delete fails with a constraint violation while bookings still reference
// the equipment.
func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID[domain.Equipment](ctx, r.tx, "equipment", id)
}

func (r *EquipmentRepository) ListByLaboratory(ctx context.Context, laboratoryID int64) ([]domain.Equipment, error) {
	return listBy[domain.Equipment](ctx, r.tx, "equipment", "laboratory_id", laboratoryID)
}

type EquipmentTypeRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewEquipmentTypeRepository(tx *gorm.DB, log *logger.Logger) *EquipmentTypeRepository {
	return &EquipmentTypeRepository{tx: tx, log: log.With("repo", "EquipmentTypeRepository")}
}

func (r *EquipmentTypeRepository) Create(ctx context.Context, t *domain.EquipmentType) error {
	return create(ctx, r.tx, "equipment_type", t)
}

func (r *EquipmentTypeRepository) GetByID(ctx context.Context, id int64) (*domain.EquipmentType, error) {
	return findByID[domain.EquipmentType](ctx, r.tx, "equipment_type", id)
}

func (r *EquipmentTypeRepository) List(ctx context.Context) ([]domain.EquipmentType, error) {
	var out []domain.EquipmentType
	if err := r.tx.WithContext(ctx).Order("title, id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list equipment types: %w", database.Classify(err))
	}
	return out, nil
}
