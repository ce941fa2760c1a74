package testutil

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"labcore/internal/domain"
)

func SeedLaboratory(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Laboratory {
	tb.Helper()
	lab := &domain.Laboratory{Title: title}
	if err := tx.WithContext(ctx).Create(lab).Error; err != nil {
		tb.Fatalf("seed laboratory: %v", err)
	}
	return lab
}

func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, labID int64, email string) *domain.Account {
	tb.Helper()
	a := &domain.Account{
		FullName:     "Test " + email,
		Email:        email,
		Role:         domain.RoleStaff,
		LaboratoryID: labID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return a
}

func SeedEquipment(tb testing.TB, ctx context.Context, tx *gorm.DB, labID int64) *domain.Equipment {
	tb.Helper()
	e := &domain.Equipment{Status: domain.EquipmentActive, LaboratoryID: labID}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed equipment: %v", err)
	}
	return e
}

// Fixture is a laboratory with one piece of equipment and two accounts, the
// minimum a booking needs.
type Fixture struct {
	Laboratory *domain.Laboratory
	Equipment  *domain.Equipment
	Requester  *domain.Account
	Approver   *domain.Account
}

func SeedBookable(tb testing.TB, ctx context.Context, tx *gorm.DB) Fixture {
	tb.Helper()
	lab := SeedLaboratory(tb, ctx, tx, "Robotics Lab")
	return Fixture{
		Laboratory: lab,
		Equipment:  SeedEquipment(tb, ctx, tx, lab.ID),
		Requester:  SeedAccount(tb, ctx, tx, lab.ID, fmt.Sprintf("requester%d@lab.test", lab.ID)),
		Approver:   SeedAccount(tb, ctx, tx, lab.ID, fmt.Sprintf("approver%d@lab.test", lab.ID)),
	}
}
