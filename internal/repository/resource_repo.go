package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

type ResourceRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewResourceRepository(tx *gorm.DB, log *logger.Logger) *ResourceRepository {
	return &ResourceRepository{tx: tx, log: log.With("repo", "ResourceRepository")}
}

// ResourceFilter narrows List. Zero values match everything.
type ResourceFilter struct {
	Type      domain.ResourceType
	ProjectID int64
}

// Create writes the base row and then its variant under the same id.
func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}
	v, _ := res.Variant()

	db := r.tx.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(res).Error; err != nil {
		return fmt.Errorf("create resource: %w", database.Classify(err))
	}
	res.SetVariant(v)
	if err := db.Create(v).Error; err != nil {
		return fmt.Errorf("create %s %d: %w", res.Type, res.ID, database.Classify(err))
	}
	r.log.Debug("resource created", "resource_id", res.ID, "type", res.Type)
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return findByID[domain.Resource](ctx, r.tx, "resource", id, domain.VariantAssociations...)
}

// List returns resources with their variants resolved: one query for the
// base rows plus one per variant table, whatever the number of rows.
func (r *ResourceRepository) List(ctx context.Context, f ResourceFilter) ([]domain.Resource, error) {
	q := r.tx.WithContext(ctx).Model(&domain.Resource{})
	for _, assoc := range domain.VariantAssociations {
		q = q.Preload(assoc)
	}
	if f.Type != "" {
		q = q.Where("resource.type = ?", f.Type)
	}
	if f.ProjectID != 0 {
		q = q.Joins("JOIN project_resource ON project_resource.resource_id = resource.id").
			Where("project_resource.project_id = ?", f.ProjectID)
	}

	var out []domain.Resource
	if err := q.Order("resource.id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list resources: %w", database.Classify(err))
	}
	return out, nil
}

// Update rewrites the base row and the variant row. The type of a resource
// is fixed at creation.
func (r *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	current, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	if current.Type != res.Type {
		return fmt.Errorf("resource %d %s -> %s: %w", res.ID, current.Type, res.Type, domain.ErrImmutableType)
	}
	if err := save(ctx, r.tx, "resource", res.ID, res); err != nil {
		return err
	}

	v, _ := res.Variant()
	res.SetVariant(v)
	err = r.tx.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(v).Error
	if err != nil {
		return fmt.Errorf("update %s %d: %w", res.Type, res.ID, database.Classify(err))
	}
	return nil
}

// Delete removes project links, the variant row and the base row.
func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	var res domain.Resource
	db := r.tx.WithContext(ctx)
	if err := db.First(&res, id).Error; err != nil {
		return fmt.Errorf("get resource %d: %w", id, database.Classify(err))
	}

	if err := db.Where("resource_id = ?", id).Delete(&domain.ProjectResource{}).Error; err != nil {
		return fmt.Errorf("unlink resource %d: %w", id, database.Classify(err))
	}
	if model := variantModel(res.Type); model != nil {
		if err := db.Delete(model, id).Error; err != nil {
			return fmt.Errorf("delete %s %d: %w", res.Type, id, database.Classify(err))
		}
	}
	if err := deleteByID[domain.Resource](ctx, r.tx, "resource", id); err != nil {
		return err
	}
	r.log.Debug("resource deleted", "resource_id", id, "type", res.Type)
	return nil
}

type TypeCount struct {
	Type  domain.ResourceType `json:"type"`
	Total int64               `json:"total"`
}

func (r *ResourceRepository) CountByType(ctx context.Context) ([]TypeCount, error) {
	var out []TypeCount
	err := r.tx.WithContext(ctx).
		Model(&domain.Resource{}).
		Select("type, COUNT(*) AS total").
		Group("type").
		Order("type").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("count resources by type: %w", database.Classify(err))
	}
	return out, nil
}

func variantModel(t domain.ResourceType) interface{} {
	switch t {
	case domain.ResourcePresentation:
		return &domain.Presentation{}
	case domain.ResourceReport:
		return &domain.Report{}
	case domain.ResourcePublication:
		return &domain.Publication{}
	case domain.ResourceSoftwareRepository:
		return &domain.SoftwareRepository{}
	case domain.ResourceDataset:
		return &domain.Dataset{}
	default:
		return nil
	}
}
