package entity

// RouteScheduleEntry is one row of the route timetable (master data):
// the cutoff past which new orders for this (route, partcustid) pair miss
// the associated wave, and the delivery time the wave is named after.
type RouteScheduleEntry struct {
	RouteCode       RouteCode
	PartcustID      PartcustID
	OrderCutoffTime ClockTime
	DeliveryTime    ClockTime
}

// Key returns the composite lookup key used by the master-data facade.
func (e RouteScheduleEntry) Key() (RouteCode, PartcustID) {
	return e.RouteCode, e.PartcustID
}
