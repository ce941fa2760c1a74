package database

import (
	"fmt"

	"gorm.io/gorm"

	"labcore/internal/domain"
)

// Models lists every persisted entity. Join tables of projects are created
// from the many2many declarations on domain.Project.
func Models() []interface{} {
	return []interface{}{
		&domain.Laboratory{},
		&domain.EquipmentType{},
		&domain.Equipment{},
		&domain.Room{},
		&domain.Account{},
		&domain.Profile{},
		&domain.Partner{},
		&domain.Resource{},
		&domain.Presentation{},
		&domain.Report{},
		&domain.Publication{},
		&domain.SoftwareRepository{},
		&domain.Dataset{},
		&domain.Project{},
		&domain.Booking{},
		&domain.BookingHistory{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
