package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labcore/internal/database"
	"labcore/internal/domain"
)

// Repositories are bound to one transaction handle for their whole life and
// are created by the unit of work, never shared between units.

type validatable interface {
	Validate() error
}

// create inserts the row alone; associations are written by their own
// repository methods.
func create(ctx context.Context, tx *gorm.DB, entity string, v validatable) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", entity, database.Classify(err))
	}
	return nil
}

// save writes every column of an existing row.
func save(ctx context.Context, tx *gorm.DB, entity string, id int64, v validatable) error {
	if id == 0 {
		return fmt.Errorf("update %s: %w: missing id", entity, domain.ErrNotFound)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	res := tx.WithContext(ctx).Model(v).Select("*").Omit(clause.Associations).Updates(v)
	if res.Error != nil {
		return fmt.Errorf("update %s %d: %w", entity, id, database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s %d: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func findByID[T any](ctx context.Context, tx *gorm.DB, entity string, id int64, preload ...string) (*T, error) {
	var out T
	q := tx.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		return nil, fmt.Errorf("get %s %d: %w", entity, id, database.Classify(err))
	}
	return &out, nil
}

func deleteByID[T any](ctx context.Context, tx *gorm.DB, entity string, id int64) error {
	var model T
	res := tx.WithContext(ctx).Delete(&model, id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", entity, id, database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s %d: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

func listBy[T any](ctx context.Context, tx *gorm.DB, entity, column string, value interface{}) ([]T, error) {
	var out []T
	if err := tx.WithContext(ctx).Where(column+" = ?", value).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, database.Classify(err))
	}
	return out, nil
}
