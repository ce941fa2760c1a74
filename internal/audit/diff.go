package audit

import (
	"strings"
	"time"

	"labcore/internal/domain"
)

const (
	// NoteChanged is written on creation and on updates that change nothing.
	NoteChanged = "Booking changed"
	NoteDeleted = "Booking deleted"

	updatedPrefix = "Updated fields: "
)

type bookingField struct {
	name  string
	equal func(a, b *domain.Booking) bool
	value func(b *domain.Booking) interface{}
}

// bookingFields is ordered like the booking columns; notes list changed
// fields in this order.
var bookingFields = []bookingField{
	{"equipment_id", func(a, b *domain.Booking) bool { return a.EquipmentID == b.EquipmentID }, func(b *domain.Booking) interface{} { return b.EquipmentID }},
	{"requester_id", func(a, b *domain.Booking) bool { return a.RequesterID == b.RequesterID }, func(b *domain.Booking) interface{} { return b.RequesterID }},
	{"approver_id", func(a, b *domain.Booking) bool { return a.ApproverID == b.ApproverID }, func(b *domain.Booking) interface{} { return b.ApproverID }},
	{"start_ts", func(a, b *domain.Booking) bool { return a.StartTS.Equal(b.StartTS) }, func(b *domain.Booking) interface{} { return b.StartTS }},
	{"end_ts", func(a, b *domain.Booking) bool { return a.EndTS.Equal(b.EndTS) }, func(b *domain.Booking) interface{} { return b.EndTS }},
	{"status", func(a, b *domain.Booking) bool { return a.Status == b.Status }, func(b *domain.Booking) interface{} { return string(b.Status) }},
	{"comment", func(a, b *domain.Booking) bool { return equalText(a.Comment, b.Comment) }, func(b *domain.Booking) interface{} { return b.Comment }},
}

// ChangedFields returns the column names whose values differ between the
// stored state and the state about to be written.
func ChangedFields(before, after *domain.Booking) []string {
	var out []string
	for _, f := range bookingFields {
		if !f.equal(before, after) {
			out = append(out, f.name)
		}
	}
	return out
}

// Values returns the column/value map of the given fields, ready for an
// UPDATE.
func Values(b *domain.Booking, fields []string) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, name := range fields {
		for _, f := range bookingFields {
			if f.name == name {
				out[name] = f.value(b)
			}
		}
	}
	return out
}

// Note renders the human-readable summary of one history entry.
func Note(action domain.HistoryAction, fields []string) string {
	switch action {
	case domain.HistoryDeleted:
		return NoteDeleted
	case domain.HistoryUpdated:
		if len(fields) > 0 {
			return updatedPrefix + strings.Join(fields, ", ")
		}
	}
	return NoteChanged
}

// ParseNote extracts the field names from an update note.
func ParseNote(note string) []string {
	if !strings.HasPrefix(note, updatedPrefix) {
		return nil
	}
	return strings.Split(strings.TrimPrefix(note, updatedPrefix), ", ")
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Timestamps are stored with microsecond precision by PostgreSQL, so history
// times are truncated before they are hashed.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
