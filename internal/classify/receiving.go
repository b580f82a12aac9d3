package classify

import (
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

// ReceivingClassifier assigns a deadline and urgency to inbound receiving
// records.
type ReceivingClassifier struct {
	cfg config.Config
}

// NewReceivingClassifier builds a classifier bound to the given
// configuration (receiving_completion_days, bulk threshold, urgent item
// codes).
func NewReceivingClassifier(cfg config.Config) *ReceivingClassifier {
	return &ReceivingClassifier{cfg: cfg}
}

// Classify derives the deadline and walks the priority
// ladder: overdue -> due today -> urgent-item-or-bulk -> due tomorrow ->
// else normal.
func (c *ReceivingClassifier) Classify(r entity.ReceivingRecord, currentDate time.Time) entity.ReceivingClassification {
	deadline := r.ArrivalDate.AddDate(0, 0, c.cfg.ReceivingCompletionDays-1)
	daysSinceArrival := daysBetween(r.ArrivalDate, currentDate)
	isOverdue := dateAfter(currentDate, deadline)

	out := entity.ReceivingClassification{
		DeadlineDate:     deadline,
		DaysSinceArrival: daysSinceArrival,
		IsOverdue:        isOverdue,
	}

	switch {
	case isOverdue:
		out.Priority = entity.ReceivingCritical
	case sameDate(currentDate, deadline):
		out.Priority = entity.ReceivingUrgent
	case c.isUrgentItem(r.Item) || r.Quantity >= c.cfg.ReceivingBulkQtyThreshold:
		out.Priority = entity.ReceivingUrgent
	case sameDate(currentDate.AddDate(0, 0, 1), deadline):
		out.Priority = entity.ReceivingUrgent
	default:
		out.Priority = entity.ReceivingNormal
	}

	return out
}

func (c *ReceivingClassifier) isUrgentItem(item entity.ItemKey) bool {
	for _, code := range c.cfg.UrgentItemCodes {
		if code == item.FamilyCode || code == item.PartNumber {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return at.After(bt)
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at).Hours() / 24)
}
