package domain

// Laboratory is a research laboratory, center or institute. It exclusively
// owns its projects, equipment, rooms and accounts.
type Laboratory struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null" validate:"required"`
	Description *string `json:"description,omitempty"`

	Projects  []Project   `json:"projects,omitempty" gorm:"foreignKey:LaboratoryID"`
	Equipment []Equipment `json:"equipment,omitempty" gorm:"foreignKey:LaboratoryID"`
	Rooms     []Room      `json:"rooms,omitempty" gorm:"foreignKey:LaboratoryID"`
	Accounts  []Account   `json:"accounts,omitempty" gorm:"foreignKey:LaboratoryID"`
}

func (Laboratory) TableName() string { return "laboratory" }

func (l *Laboratory) Validate() error {
	return Validate("laboratory", l)
}
