package domain

import (
	"strings"

	"gorm.io/datatypes"
)

// Account belongs to exactly one laboratory at a time.
type Account struct {
	ID           int64       `json:"id" gorm:"primaryKey"`
	FullName     string      `json:"full_name" gorm:"not null" validate:"required"`
	Email        string      `json:"email" gorm:"not null;uniqueIndex" validate:"required,email"`
	Role         AccountRole `json:"role" gorm:"type:varchar(32);not null;default:guest;check:chk_account_role,role IN ('guest','student','staff','moderator','administrator')" validate:"required,oneof=guest student staff moderator administrator"`
	LaboratoryID int64       `json:"laboratory_id" gorm:"not null;index" validate:"required"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (Account) TableName() string { return "account" }

func (a *Account) Normalize() {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.FullName = strings.TrimSpace(a.FullName)
	if a.Role == "" {
		a.Role = RoleGuest
	}
}

func (a *Account) Validate() error {
	return Validate("account", a)
}

// Profile is the public biography of an account, similar to a CV page.
type Profile struct {
	ID            int64                       `json:"id" gorm:"primaryKey"`
	AccountID     int64                       `json:"account_id" gorm:"not null;uniqueIndex"`
	PhotoLink     *string                     `json:"photo_link,omitempty"`
	Description   *string                     `json:"description,omitempty"`
	Affiliation   *string                     `json:"affiliation,omitempty"`
	InterestAreas datatypes.JSONSlice[string] `json:"interest_areas,omitempty"`
	Posts         datatypes.JSONMap           `json:"posts,omitempty"`
}

func (Profile) TableName() string { return "profile" }
