package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

type AccountRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewAccountRepository(tx *gorm.DB, log *logger.Logger) *AccountRepository {
	return &AccountRepository{tx: tx, log: log.With("repo", "AccountRepository")}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	a.Normalize()
	if err := create(ctx, r.tx, "account", a); err != nil {
		return err
	}
	if a.Profile != nil {
		return r.SetProfile(ctx, a.ID, a.Profile)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return findByID[domain.Account](ctx, r.tx, "account", id, "Profile")
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := r.tx.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&a).Error
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", database.Classify(err))
	}
	return &a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.Normalize()
	return save(ctx, r.tx, "account", a.ID, a)
}

// Delete removes the account with its profile and project memberships.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	db := r.tx.WithContext(ctx)
	if err := db.Where("account_id = ?", id).Delete(&domain.ProjectParticipant{}).Error; err != nil {
		return fmt.Errorf("delete memberships of account %d: %w", id, database.Classify(err))
	}
	if err := db.Where("account_id = ?", id).Delete(&domain.Profile{}).Error; err != nil {
		return fmt.Errorf("delete profile of account %d: %w", id, database.Classify(err))
	}
	return deleteByID[domain.Account](ctx, r.tx, "account", id)
}

// SetProfile creates or replaces the single profile of an account.
func (r *AccountRepository) SetProfile(ctx context.Context, accountID int64, p *domain.Profile) error {
	p.AccountID = accountID
	err := r.tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"photo_link", "description", "affiliation", "interest_areas", "posts"}),
		}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("set profile of account %d: %w", accountID, database.Classify(err))
	}
	return nil
}

func (r *AccountRepository) ListByLaboratory(ctx context.Context, laboratoryID int64) ([]domain.Account, error) {
	return listBy[domain.Account](ctx, r.tx, "accounts", "laboratory_id", laboratoryID)
}
