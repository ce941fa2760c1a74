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

type ProjectRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewProjectRepository(tx *gorm.DB, log *logger.Logger) *ProjectRepository {
	return &ProjectRepository{tx: tx, log: log.With("repo", "ProjectRepository")}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	p.Normalize()
	return create(ctx, r.tx, "project", p)
}

// GetByID loads the project with partners, participants and resources, the
// latter resolved to their variants.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	preload := []string{"Partners", "Participants", "Resources"}
	for _, v := range domain.VariantAssociations {
		preload = append(preload, "Resources."+v)
	}
	return findByID[domain.Project](ctx, r.tx, "project", id, preload...)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	p.Normalize()
	return save(ctx, r.tx, "project", p.ID, p)
}

// Delete removes the project and its association rows. Linked resources,
// partners and accounts are kept.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	db := r.tx.WithContext(ctx)
	for _, join := range []interface{}{&domain.ProjectResource{}, &domain.ProjectPartner{}, &domain.ProjectParticipant{}} {
		if err := db.Where("project_id = ?", id).Delete(join).Error; err != nil {
			return fmt.Errorf("delete links of project %d: %w", id, database.Classify(err))
		}
	}
	return deleteByID[domain.Project](ctx, r.tx, "project", id)
}

// AddResources links resources to a project. Linking an existing pair is a no-op.
func (r *ProjectRepository) AddResources(ctx context.Context, projectID int64, resourceIDs ...int64) error {
	rows := make([]domain.ProjectResource, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		rows = append(rows, domain.ProjectResource{ProjectID: projectID, ResourceID: id})
	}
	return link(ctx, r.tx, "resources", projectID, rows)
}

func (r *ProjectRepository) RemoveResources(ctx context.Context, projectID int64, resourceIDs ...int64) error {
	if len(resourceIDs) == 0 {
		return nil
	}
	err := r.tx.WithContext(ctx).
		Where("project_id = ? AND resource_id IN ?", projectID, resourceIDs).
		Delete(&domain.ProjectResource{}).Error
	if err != nil {
		return fmt.Errorf("unlink resources of project %d: %w", projectID, database.Classify(err))
	}
	return nil
}

func (r *ProjectRepository) AddPartners(ctx context.Context, projectID int64, partnerIDs ...int64) error {
	rows := make([]domain.ProjectPartner, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		rows = append(rows, domain.ProjectPartner{ProjectID: projectID, PartnerID: id})
	}
	return link(ctx, r.tx, "partners", projectID, rows)
}

func (r *ProjectRepository) AddParticipants(ctx context.Context, projectID int64, accountIDs ...int64) error {
	rows := make([]domain.ProjectParticipant, 0, len(accountIDs))
	for _, id := range accountIDs {
		rows = append(rows, domain.ProjectParticipant{ProjectID: projectID, AccountID: id})
	}
	return link(ctx, r.tx, "participants", projectID, rows)
}

func (r *ProjectRepository) ListByLaboratory(ctx context.Context, laboratoryID int64) ([]domain.Project, error) {
	return listBy[domain.Project](ctx, r.tx, "projects", "laboratory_id", laboratoryID)
}

func link[T any](ctx context.Context, tx *gorm.DB, what string, projectID int64, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("link %s to project %d: %w", what, projectID, database.Classify(err))
	}
	return nil
}
