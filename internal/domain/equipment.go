package domain

import "gorm.io/datatypes"

// Equipment is inventory available to one laboratory: devices, licenses,
// subscriptions.
//
// ApprovalRequirements is a free-form policy describing who approves a booking
// and under which conditions (approver roles, schedules, multi-step flows).
// The core stores it and never interprets it.
type Equipment struct {
	ID                   int64             `json:"id" gorm:"primaryKey"`
	Status               EquipmentStatus   `json:"status" gorm:"type:varchar(32);not null;default:active;check:chk_equipment_status,status IN ('active','malfunctioned','maintenance','retired')" validate:"required,oneof=active malfunctioned maintenance retired"`
	Description          *string           `json:"description,omitempty"`
	ImageLink            *string           `json:"image_link,omitempty"`
	ApprovalRequirements datatypes.JSONMap `json:"approval_requirements,omitempty"`
	LaboratoryID         int64             `json:"laboratory_id" gorm:"not null;index" validate:"required"`
	EquipmentTypeID      *int64            `json:"equipment_type_id,omitempty" gorm:"index"`

	EquipmentType *EquipmentType `json:"equipment_type,omitempty" gorm:"foreignKey:EquipmentTypeID"`
}

func (Equipment) TableName() string { return "equipment" }

func (e *Equipment) Normalize() {
	if e.Status == "" {
		e.Status = EquipmentActive
	}
}

func (e *Equipment) Validate() error {
	return Validate("equipment", e)
}

// EquipmentType is a lookup of generic categories (laptop, GPU, power adapter).
// Characteristics are SKU-like attributes such as brand, model or weight.
type EquipmentType struct {
	ID              int64             `json:"id" gorm:"primaryKey"`
	Title           string            `json:"title" gorm:"not null" validate:"required"`
	Description     *string           `json:"description,omitempty"`
	Characteristics datatypes.JSONMap `json:"characteristics,omitempty"`
}

func (EquipmentType) TableName() string { return "equipment_type" }

func (t *EquipmentType) Validate() error {
	return Validate("equipment_type", t)
}
