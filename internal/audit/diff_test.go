package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"labcore/internal/domain"
)

func booking() *domain.Booking {
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:          1,
		EquipmentID: 10,
		RequesterID: 20,
		ApproverID:  30,
		StartTS:     start,
		EndTS:       start.Add(time.Hour),
		Status:      domain.BookingRequested,
	}
}

func TestChangedFieldsNone(t *testing.T) {
	before, after := booking(), booking()
	assert.Empty(t, ChangedFields(before, after))
}

func TestChangedFieldsColumnOrder(t *testing.T) {
	before, after := booking(), booking()
	after.Status = domain.BookingApproved
	after.ApproverID = 5
	comment := "bring the charger"
	after.Comment = &comment

	assert.Equal(t, []string{"approver_id", "status", "comment"}, ChangedFields(before, after))
}

func TestChangedFieldsTimesCompareInstants(t *testing.T) {
	before, after := booking(), booking()
	loc := time.FixedZone("UTC+3", 3*3600)
	after.StartTS = before.StartTS.In(loc)
	assert.Empty(t, ChangedFields(before, after))

	after.EndTS = after.EndTS.Add(time.Minute)
	assert.Equal(t, []string{"end_ts"}, ChangedFields(before, after))
}

func TestChangedFieldsComment(t *testing.T) {
	a, b := "x", "x"
	before, after := booking(), booking()
	before.Comment, after.Comment = &a, &b
	assert.Empty(t, ChangedFields(before, after))

	after.Comment = nil
	assert.Equal(t, []string{"comment"}, ChangedFields(before, after))
}

func TestValues(t *testing.T) {
	b := booking()
	b.Status = domain.BookingApproved
	got := Values(b, []string{"status", "approver_id"})
	assert.Equal(t, map[string]interface{}{"status": "approved", "approver_id": int64(30)}, got)
}

func TestNote(t *testing.T) {
	assert.Equal(t, "Booking changed", Note(domain.HistoryCreated, nil))
	assert.Equal(t, "Booking changed", Note(domain.HistoryUpdated, nil))
	assert.Equal(t, "Updated fields: status, approver_id", Note(domain.HistoryUpdated, []string{"status", "approver_id"}))
	assert.Equal(t, "Booking deleted", Note(domain.HistoryDeleted, []string{"status"}))
}

func TestParseNote(t *testing.T) {
	assert.Equal(t, []string{"start_ts", "end_ts"}, ParseNote("Updated fields: start_ts, end_ts"))
	assert.Nil(t, ParseNote(NoteChanged))
}
