package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labcore/internal/audit"
	"labcore/internal/config"
	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

// BookingRepository is the only write path for bookings. Every mutation
// appends one history entry through the recorder on the same transaction.
type BookingRepository struct {
	tx       *gorm.DB
	log      *logger.Logger
	recorder *audit.Recorder
	policy   config.BookingPolicy
	now      func() time.Time
}

func NewBookingRepository(tx *gorm.DB, log *logger.Logger, recorder *audit.Recorder, policy config.BookingPolicy, now func() time.Time) *BookingRepository {
	if now == nil {
		now = time.Now
	}
	return &BookingRepository{
		tx:       tx,
		log:      log.With("repo", "BookingRepository"),
		recorder: recorder,
		policy:   policy,
		now:      now,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := r.requireTx(); err != nil {
		return err
	}
	b.Normalize()
	if b.DeletedAt.Valid {
		return &domain.ValidationError{Entity: "booking", Field: "deleted_at", Rule: "must be unset on create", Value: b.DeletedAt.Time}
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if r.policy.StrictTransitions && b.Status != domain.BookingRequested {
		return fmt.Errorf("new booking in status %s: %w", b.Status, domain.ErrInvalidTransition)
	}
	if err := r.checkOverlap(ctx, b); err != nil {
		return err
	}

	now := r.now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	if err := r.tx.WithContext(ctx).Omit(clause.Associations).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", database.Classify(err))
	}

	if _, err := r.recorder.Record(ctx, r.tx, audit.Entry{
		BookingID: b.ID,
		Action:    domain.HistoryCreated,
		At:        now,
	}); err != nil {
		return err
	}
	r.log.Debug("booking created", "booking_id", b.ID, "equipment_id", b.EquipmentID)
	return nil
}

// Update loads the booking, applies mutate to a copy and writes the columns
// that changed. An update that changes nothing is still recorded.
func (r *BookingRepository) Update(ctx context.Context, id int64, mutate func(*domain.Booking) error) (*domain.Booking, error) {
	if err := r.requireTx(); err != nil {
		return nil, err
	}
	before, err := r.lock(ctx, id)
	if err != nil {
		return nil, err
	}

	after := cloneBooking(before)
	if err := mutate(after); err != nil {
		return nil, err
	}
	after.ID, after.CreatedAt, after.DeletedAt = before.ID, before.CreatedAt, before.DeletedAt
	after.Normalize()
	if err := after.Validate(); err != nil {
		return nil, err
	}
	if r.policy.StrictTransitions && !before.Status.CanTransitionTo(after.Status) {
		return nil, fmt.Errorf("booking %d %s -> %s: %w", id, before.Status, after.Status, domain.ErrInvalidTransition)
	}
	if err := r.checkOverlap(ctx, after); err != nil {
		return nil, err
	}

	fields := audit.ChangedFields(before, after)
	now := r.now().UTC()
	values := audit.Values(after, fields)
	values["updated_at"] = now

	res := r.tx.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return nil, fmt.Errorf("update booking %d: %w", id, database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update booking %d: %w", id, domain.ErrNotFound)
	}
	after.UpdatedAt = now

	if _, err := r.recorder.Record(ctx, r.tx, audit.Entry{
		BookingID: id,
		Action:    domain.HistoryUpdated,
		Fields:    fields,
		At:        now,
	}); err != nil {
		return nil, err
	}
	r.log.Debug("booking updated", "booking_id", id, "fields", fields)
	return after, nil
}

func (r *BookingRepository) SetStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	return r.Update(ctx, id, func(b *domain.Booking) error {
		b.Status = status
		return nil
	})
}

// Delete marks the booking deleted. The row stays so its history keeps a
// valid owner; normal reads no longer see it.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	if err := r.requireTx(); err != nil {
		return err
	}
	if _, err := r.lock(ctx, id); err != nil {
		return err
	}

	now := r.now().UTC()
	res := r.tx.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return fmt.Errorf("delete booking %d: %w", id, database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete booking %d: %w", id, domain.ErrNotFound)
	}

	if _, err := r.recorder.Record(ctx, r.tx, audit.Entry{
		BookingID: id,
		Action:    domain.HistoryDeleted,
		At:        now,
	}); err != nil {
		return err
	}
	r.log.Debug("booking deleted", "booking_id", id)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return findByID[domain.Booking](ctx, r.tx, "booking", id)
}

func (r *BookingRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.tx.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("start_ts, id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings of equipment %d: %w", equipmentID, database.Classify(err))
	}
	return out, nil
}

// History returns the entries of a booking ordered by (changed_at, id).
// Deleted bookings keep their history readable.
func (r *BookingRepository) History(ctx context.Context, id int64) ([]domain.BookingHistory, error) {
	var count int64
	if err := r.tx.WithContext(ctx).Unscoped().Model(&domain.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("history of booking %d: %w", id, database.Classify(err))
	}
	if count == 0 {
		return nil, fmt.Errorf("history of booking %d: %w", id, domain.ErrNotFound)
	}

	var rows []domain.BookingHistory
	err := r.tx.WithContext(ctx).
		Where("booking_id = ?", id).
		Order("changed_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("history of booking %d: %w", id, database.Classify(err))
	}
	return rows, nil
}

// VerifyHistory recomputes the digest chain of a booking.
func (r *BookingRepository) VerifyHistory(ctx context.Context, id int64) error {
	rows, err := r.History(ctx, id)
	if err != nil {
		return err
	}
	if err := audit.Verify(rows); err != nil {
		r.log.Warn("booking history does not verify", "booking_id", id, "error", err)
		return err
	}
	return nil
}

func (r *BookingRepository) requireTx() error {
	if !audit.InTransaction(r.tx) {
		return fmt.Errorf("%w: bookings can only be written inside a unit of work", domain.ErrAuditFailure)
	}
	return nil
}

// lock reads the current row, taking a row lock where the store supports it.
func (r *BookingRepository) lock(ctx context.Context, id int64) (*domain.Booking, error) {
	q := r.tx.WithContext(ctx)
	if r.tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b domain.Booking
	if err := q.First(&b, id).Error; err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, database.Classify(err))
	}
	return &b, nil
}

// checkOverlap rejects a live booking whose window intersects another live
// booking of the same equipment.
func (r *BookingRepository) checkOverlap(ctx context.Context, b *domain.Booking) error {
	if !r.policy.RejectOverlaps || !isLive(b.Status) {
		return nil
	}
	var others []domain.Booking
	err := r.tx.WithContext(ctx).
		Where("equipment_id = ? AND id <> ?", b.EquipmentID, b.ID).
		Where("status NOT IN ?", []domain.BookingStatus{domain.BookingRejected, domain.BookingCancelled}).
		Find(&others).Error
	if err != nil {
		return fmt.Errorf("check booking overlap: %w", database.Classify(err))
	}
	for i := range others {
		if others[i].Overlaps(b.StartTS, b.EndTS) {
			return fmt.Errorf("booking %d on equipment %d: %w", others[i].ID, b.EquipmentID, domain.ErrOverlap)
		}
	}
	return nil
}

func isLive(s domain.BookingStatus) bool {
	return s != domain.BookingRejected && s != domain.BookingCancelled
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	out := *b
	if b.Comment != nil {
		c := *b.Comment
		out.Comment = &c
	}
	out.Equipment, out.Requester, out.Approver, out.History = nil, nil, nil, nil
	return &out
}
