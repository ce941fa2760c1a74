package repository

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

// StatsRepository answers read-only aggregate questions.
type StatsRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewStatsRepository(tx *gorm.DB, log *logger.Logger) *StatsRepository {
	return &StatsRepository{tx: tx, log: log.With("repo", "StatsRepository")}
}

type LaboratoryCount struct {
	LaboratoryID int64  `json:"laboratory_id"`
	Title        string `json:"title"`
	Total        int64  `json:"total"`
}

// EquipmentPerLaboratory counts equipment of every laboratory, including
// laboratories without any.
func (r *StatsRepository) EquipmentPerLaboratory(ctx context.Context) ([]LaboratoryCount, error) {
	return r.perLaboratory(ctx, "equipment", "total DESC, laboratory.id", 0)
}

// AccountsPerLaboratory counts accounts of every laboratory, smallest first.
func (r *StatsRepository) AccountsPerLaboratory(ctx context.Context) ([]LaboratoryCount, error) {
	return r.perLaboratory(ctx, "account", "total ASC, laboratory.id", 0)
}

// TopLaboratoriesByEquipment returns the limit laboratories owning the most
// equipment.
func (r *StatsRepository) TopLaboratoriesByEquipment(ctx context.Context, limit int) ([]LaboratoryCount, error) {
	if limit <= 0 {
		return nil, &domain.ValidationError{Entity: "stats", Field: "limit", Rule: "gt=0", Value: limit}
	}
	return r.perLaboratory(ctx, "equipment", "total DESC, laboratory.id", limit)
}

func (r *StatsRepository) perLaboratory(ctx context.Context, table, order string, limit int) ([]LaboratoryCount, error) {
	q := r.tx.WithContext(ctx).
		Table("laboratory").
		Select("laboratory.id AS laboratory_id, laboratory.title AS title, COUNT(" + table + ".id) AS total").
		Joins("LEFT JOIN " + table + " ON " + table + ".laboratory_id = laboratory.id").
		Group("laboratory.id, laboratory.title").
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []LaboratoryCount
	if err := q.Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("count %s per laboratory: %w", table, database.Classify(err))
	}
	return out, nil
}

// DistinctInterestAreas returns every interest area named in any profile,
// sorted.
func (r *StatsRepository) DistinctInterestAreas(ctx context.Context) ([]string, error) {
	var lists []datatypes.JSONSlice[string]
	err := r.tx.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("interest_areas IS NOT NULL").
		Pluck("interest_areas", &lists).Error
	if err != nil {
		return nil, fmt.Errorf("list interest areas: %w", database.Classify(err))
	}

	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, area := range list {
			seen[area] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for area := range seen {
		out = append(out, area)
	}
	sort.Strings(out)
	return out, nil
}

type StatusCount struct {
	Status domain.BookingStatus `json:"status"`
	Total  int64                `json:"total"`
}

// BookingsByStatus counts live bookings per status.
func (r *StatsRepository) BookingsByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.tx.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Order("status").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("count bookings by status: %w", database.Classify(err))
	}
	return out, nil
}

// UnpairedResources counts base rows missing their variant plus variant rows
// missing their base. Zero on a consistent store.
func (r *StatsRepository) UnpairedResources(ctx context.Context) (int64, error) {
	db := r.tx.WithContext(ctx)
	var total int64
	for _, t := range domain.ResourceTypes() {
		table := string(t)

		var missingVariant int64
		err := db.Model(&domain.Resource{}).
			Where("type = ? AND id NOT IN (?)", t, db.Table(table).Select("id")).
			Count(&missingVariant).Error
		if err != nil {
			return 0, fmt.Errorf("count %s without variant: %w", table, database.Classify(err))
		}

		var missingBase int64
		err = db.Table(table).
			Where("id NOT IN (?)", db.Model(&domain.Resource{}).Select("id").Where("type = ?", t)).
			Count(&missingBase).Error
		if err != nil {
			return 0, fmt.Errorf("count %s without base: %w", table, database.Classify(err))
		}
		total += missingVariant + missingBase
	}
	return total, nil
}
