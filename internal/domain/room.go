package domain

// Room is a working space of a laboratory. Label is globally unique
// (e.g. C1.1.111).
type Room struct {
	ID           int64   `json:"id" gorm:"primaryKey"`
	Label        string  `json:"label" gorm:"not null;uniqueIndex" validate:"required"`
	Description  *string `json:"description,omitempty"`
	LaboratoryID int64   `json:"laboratory_id" gorm:"not null;index" validate:"required"`
}

func (Room) TableName() string { return "room" }

func (r *Room) Validate() error {
	return Validate("room", r)
}
