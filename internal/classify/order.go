// Package classify implements the order and receiving classifiers.
package classify

import (
	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

// RouteLookup is the narrow read-only interface the order classifier needs
// from the master-data facade: one lookup by (route, partcustid).
type RouteLookup interface {
	LookupRoute(route entity.RouteCode, partcust entity.PartcustID) (entity.RouteScheduleEntry, bool)
}

// OrderClassifier assigns priority class, order type and deadline
// feasibility to shipping orders.
type OrderClassifier struct {
	cfg    config.Config
	routes RouteLookup
}

// NewOrderClassifier builds a classifier bound to the given route lookup
// and configuration (urgent/normal transaction-code sets, sub-warehouse
// route list).
func NewOrderClassifier(cfg config.Config, routes RouteLookup) *OrderClassifier {
	return &OrderClassifier{cfg: cfg, routes: routes}
}

// Classify runs the classifier end to end: the sub-warehouse tests, the
// transaction-code fallback, and the deadline/available-minutes
// computation.
func (c *OrderClassifier) Classify(o entity.Order) entity.OrderClassification {
	priority, orderType := c.classifyPriority(o)

	result := entity.OrderClassification{
		PriorityClass: priority,
		OrderType:     orderType,
		ScheduleFound: true,
	}

	var delivery, cutoff entity.ClockTime
	if orderType == entity.OrderTypeSubWarehouse {
		delivery = entity.SubWarehouseDeliveryTime
		cutoff = entity.SubWarehouseCutoffTime
	} else {
		entry, ok := c.routes.LookupRoute(o.RouteCode, o.PartcustID)
		if !ok {
			result.ScheduleFound = false
			return result
		}
		delivery = entry.DeliveryTime
		cutoff = entry.OrderCutoffTime
	}

	result.DeliveryTime = delivery
	result.CutoffTime = cutoff
	result.IsLate = o.OrderTime.Seconds() > cutoff.Seconds()

	available, invalid := availableMinutes(o.OrderTime, delivery)
	result.AvailableMinutes = available
	result.TimeInvalid = invalid

	return result
}

// classifyPriority runs the sub-warehouse tests (in order) and falls back to
// the transaction-code sets.
func (c *OrderClassifier) classifyPriority(o entity.Order) (entity.PriorityClass, entity.OrderType) {
	route := string(o.RouteCode)
	for _, sw := range c.cfg.SubWarehouseRoutes {
		if route == sw {
			return entity.PriorityP3, entity.OrderTypeSubWarehouse
		}
	}

	if (route == "R15" && o.PartcustID == "SDTC") || (route == "R16" && o.PartcustID == "SDHN") {
		return entity.PriorityP3, entity.OrderTypeSubWarehouse
	}

	for _, t := range c.cfg.NormalTransCodes {
		if o.TransactionCode == t {
			return entity.PriorityP1, entity.OrderTypeNormal
		}
	}
	for _, t := range c.cfg.UrgentTransCodes {
		if o.TransactionCode == t {
			return entity.PriorityP2, entity.OrderTypeUrgent
		}
	}

	return entity.PriorityP2, entity.OrderTypeOther
}

// availableMinutes computes the delivery-minus-order-time gap, including
// the cross-midnight special case and the 6-hour rejection rule. A
// negative gap that is neither a straightforward subtraction nor a
// recognized cross-midnight window (order hour >= 20, delivery hour <= 12)
// is treated as invalid.
func availableMinutes(order, delivery entity.ClockTime) (float64, bool) {
	orderSec := order.Seconds()
	deliverySec := delivery.Seconds()

	if deliverySec >= orderSec {
		return float64(deliverySec-orderSec) / 60, false
	}

	if order.Hour >= 20 && delivery.Hour <= 12 {
		// A 23:xx order against a 00:xx delivery is rejected rather than
		// treated as a sub-hour overnight window; wider evening windows
		// compute across midnight.
		if order.Hour == 23 && delivery.Hour == 0 {
			return 0, true
		}
		crossMidnight := (86400 - orderSec) + deliverySec
		return float64(crossMidnight) / 60, false
	}

	gap := orderSec - deliverySec
	if gap > 6*3600 {
		return 0, true
	}

	// Negative gap, not cross-midnight, not beyond 6 hours: rejected.
	return 0, true
}
