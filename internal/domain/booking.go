package domain

import (
	"time"

	"gorm.io/gorm"
)

// Booking reserves one piece of equipment for a time window. It is never
// removed physically: deleting a booking sets DeletedAt so its history keeps a
// valid owner.
type Booking struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	EquipmentID int64          `json:"equipment_id" gorm:"not null;index" validate:"required"`
	RequesterID int64          `json:"requester_id" gorm:"not null;index" validate:"required"`
	ApproverID  int64          `json:"approver_id" gorm:"not null;index" validate:"required"`
	StartTS     time.Time      `json:"start_ts" gorm:"column:start_ts;not null" validate:"required"`
	EndTS       time.Time      `json:"end_ts" gorm:"column:end_ts;not null;check:chk_booking_window,end_ts > start_ts" validate:"required,gtfield=StartTS"`
	Status      BookingStatus  `json:"status" gorm:"type:varchar(16);not null;default:requested;check:chk_booking_status,status IN ('requested','approved','rejected','cancelled','completed')" validate:"required,oneof=requested approved rejected cancelled completed"`
	Comment     *string        `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Equipment *Equipment       `json:"equipment,omitempty" gorm:"foreignKey:EquipmentID"`
	Requester *Account         `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Approver  *Account         `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
	History   []BookingHistory `json:"history,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT"`
}

func (Booking) TableName() string { return "booking" }

func (b *Booking) Normalize() {
	if b.Status == "" {
		b.Status = BookingRequested
	}
	b.StartTS = b.StartTS.UTC()
	b.EndTS = b.EndTS.UTC()
}

func (b *Booking) Validate() error {
	return Validate("booking", b)
}

// Overlaps reports whether both windows share at least one instant.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTS.Before(end) && b.EndTS.After(start)
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingRequested: {BookingApproved, BookingRejected, BookingCancelled},
	BookingApproved:  {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingRejected || s == BookingCancelled || s == BookingCompleted
}

// CanTransitionTo reports whether next is reachable in one step. Staying in
// the same status is always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BookingHistory is one append-only audit entry of a booking. Digest chains
// every entry to the previous one of the same booking so that edits made
// outside the gateway are detectable.
type BookingHistory struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	BookingID int64         `json:"booking_id" gorm:"not null;index:idx_booking_history_order,priority:1"`
	Action    HistoryAction `json:"action" gorm:"type:varchar(16);not null;check:chk_booking_history_action,action IN ('created','updated','deleted')"`
	ChangedAt time.Time     `json:"changed_at" gorm:"not null;index:idx_booking_history_order,priority:2"`
	Note      string        `json:"note" gorm:"type:text;not null"`
	Digest    string        `json:"digest" gorm:"type:varchar(64);not null"`
}

func (BookingHistory) TableName() string { return "booking_history" }
