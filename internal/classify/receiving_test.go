package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyReceivingOverdue(t *testing.T) {
	cfg := config.Default() // receiving_completion_days = 3
	c := NewReceivingClassifier(cfg)

	rec := entity.ReceivingRecord{ArrivalDate: day(2026, 7, 20), Quantity: 10}
	// deadline = arrival + (3-1) = July 22. current = July 24 is after it.
	got := c.Classify(rec, day(2026, 7, 24))

	assert.True(t, got.IsOverdue)
	assert.Equal(t, entity.ReceivingCritical, got.Priority)
	assert.Equal(t, day(2026, 7, 22), got.DeadlineDate)
}

func TestClassifyReceivingDueTodayIsUrgentNotOverdue(t *testing.T) {
	cfg := config.Default()
	c := NewReceivingClassifier(cfg)

	rec := entity.ReceivingRecord{ArrivalDate: day(2026, 7, 20), Quantity: 10}
	got := c.Classify(rec, day(2026, 7, 22)) // current == deadline

	assert.False(t, got.IsOverdue)
	assert.Equal(t, entity.ReceivingUrgent, got.Priority)
}

func TestClassifyReceivingDueTomorrowIsUrgent(t *testing.T) {
	cfg := config.Default()
	c := NewReceivingClassifier(cfg)

	rec := entity.ReceivingRecord{ArrivalDate: day(2026, 7, 20), Quantity: 10}
	got := c.Classify(rec, day(2026, 7, 21)) // deadline is tomorrow relative to current

	assert.Equal(t, entity.ReceivingUrgent, got.Priority)
}

func TestClassifyReceivingBulkQuantityIsUrgent(t *testing.T) {
	cfg := config.Default()
	c := NewReceivingClassifier(cfg)

	// Arrival far enough out that it's neither overdue, due today, nor due
	// tomorrow, but the quantity clears the bulk threshold.
	rec := entity.ReceivingRecord{ArrivalDate: day(2026, 7, 1), Quantity: cfg.ReceivingBulkQtyThreshold}
	got := c.Classify(rec, day(2026, 7, 1))

	assert.Equal(t, entity.ReceivingUrgent, got.Priority)
}

func TestClassifyReceivingUrgentItemCode(t *testing.T) {
	cfg := config.Default()
	cfg.UrgentItemCodes = []string{"FAM-URGENT"}
	c := NewReceivingClassifier(cfg)

	rec := entity.ReceivingRecord{
		ArrivalDate: day(2026, 7, 1),
		Item:        entity.ItemKey{FamilyCode: "FAM-URGENT", PartNumber: "P1"},
		Quantity:    1,
	}
	got := c.Classify(rec, day(2026, 7, 1))
	assert.Equal(t, entity.ReceivingUrgent, got.Priority)
}

func TestClassifyReceivingNormal(t *testing.T) {
	cfg := config.Default()
	c := NewReceivingClassifier(cfg)

	rec := entity.ReceivingRecord{ArrivalDate: day(2026, 7, 1), Quantity: 1}
	got := c.Classify(rec, day(2026, 7, 1))
	assert.Equal(t, entity.ReceivingNormal, got.Priority)
	assert.Equal(t, 0, got.DaysSinceArrival)
}

func TestClassifyReceivingDaysSinceArrival(t *testing.T) {
	cfg := config.Default()
	c := NewReceivingClassifier(cfg)

	rec := entity.ReceivingRecord{ArrivalDate: day(2026, 7, 1), Quantity: 1}
	got := c.Classify(rec, day(2026, 7, 5))
	assert.Equal(t, 4, got.DaysSinceArrival)
}
