package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"labcore/internal/domain"
	"labcore/internal/platform/logger"
	"labcore/internal/platform/metrics"
)

// Entry describes one booking mutation to be recorded.
type Entry struct {
	BookingID int64
	Action    domain.HistoryAction
	Fields    []string
	At        time.Time
}

// Recorder appends booking history rows. It only works inside a transaction
// so a history row can never outlive a rolled back mutation, nor a mutation
// commit without its row.
type Recorder struct {
	log     *logger.Logger
	metrics *metrics.Collectors
}

func NewRecorder(log *logger.Logger, m *metrics.Collectors) *Recorder {
	return &Recorder{log: log.With("component", "audit"), metrics: m}
}

func (r *Recorder) Record(ctx context.Context, tx *gorm.DB, e Entry) (*domain.BookingHistory, error) {
	if !InTransaction(tx) {
		return nil, fmt.Errorf("%w: booking %d: history must be written inside a transaction", domain.ErrAuditFailure, e.BookingID)
	}
	if e.BookingID == 0 {
		return nil, fmt.Errorf("%w: missing booking id", domain.ErrAuditFailure)
	}
	switch e.Action {
	case domain.HistoryCreated, domain.HistoryUpdated, domain.HistoryDeleted:
	default:
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrAuditFailure, e.Action)
	}

	var prev domain.BookingHistory
	err := tx.WithContext(ctx).
		Where("booking_id = ?", e.BookingID).
		Order("changed_at DESC, id DESC").
		Limit(1).
		Find(&prev).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load previous entry: %w", domain.ErrAuditFailure, err)
	}

	at := storedTime(e.At)
	// changed_at never goes backwards within one booking.
	if prev.ID != 0 && at.Before(prev.ChangedAt) {
		at = storedTime(prev.ChangedAt)
	}

	row := &domain.BookingHistory{
		BookingID: e.BookingID,
		Action:    e.Action,
		ChangedAt: at,
		Note:      Note(e.Action, e.Fields),
	}
	row.Digest = Digest(prev.Digest, row)

	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		r.log.Error("booking history write failed", "booking_id", e.BookingID, "action", e.Action, "error", err)
		return nil, fmt.Errorf("%w: booking %d: %w", domain.ErrAuditFailure, e.BookingID, err)
	}

	r.metrics.ObserveHistory(string(e.Action))
	r.log.Debug("booking history appended", "booking_id", e.BookingID, "action", e.Action, "note", row.Note)
	return row, nil
}

// InTransaction reports whether tx is bound to an open transaction.
func InTransaction(tx *gorm.DB) bool {
	if tx == nil || tx.Statement == nil {
		return false
	}
	_, ok := tx.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// Digest hashes an entry together with the digest of its predecessor.
func Digest(prev string, h *domain.BookingHistory) string {
	sum := sha256.New()
	for _, part := range []string{
		prev,
		strconv.FormatInt(h.BookingID, 10),
		string(h.Action),
		storedTime(h.ChangedAt).Format(time.RFC3339Nano),
		h.Note,
	} {
		sum.Write([]byte(part))
		sum.Write([]byte{0})
	}
	return hex.EncodeToString(sum.Sum(nil))
}

var ErrBrokenChain = errors.New("booking history chain is broken")

// Verify checks a booking's history in stored order: it must start with a
// creation entry and every digest must match its recomputed value.
func Verify(rows []domain.BookingHistory) error {
	prev := ""
	for i := range rows {
		row := &rows[i]
		if i == 0 && row.Action != domain.HistoryCreated {
			return fmt.Errorf("%w: %w: first entry %d is %q", domain.ErrAuditFailure, ErrBrokenChain, row.ID, row.Action)
		}
		if want := Digest(prev, row); want != row.Digest {
			return fmt.Errorf("%w: %w: entry %d digest mismatch", domain.ErrAuditFailure, ErrBrokenChain, row.ID)
		}
		prev = row.Digest
	}
	return nil
}
