package entity

import "time"

// DeliveryWave is a derived aggregate, instantiated once per distinct
// delivery_time per simulated day. It is the unit of P1
// shipping planning.
type DeliveryWave struct {
	WaveID              WaveID
	DeliveryDatetime    time.Time
	LatestCutoffDatetime time.Time
	IncludedRoutes      map[RouteCode]struct{}
	IncludedPartcustIDs map[PartcustID]struct{}

	// TaskIDs tracks the tasks attached to this wave for the lifetime of the
	// simulated day. Populated incrementally as shipping tasks are classified
	// into the wave and consumed by the feasibility check and the wave
	// completion gate.
	TaskIDs []TaskID

	Status WaveStatus
}

// WaveStatus tracks the lifecycle of a derived wave for the simulated day it
// belongs to. Waves are destroyed (removed from the active set) at day end
// but retained in history for metrics.
type WaveStatus string

const (
	WaveStatusPending    WaveStatus = "PENDING"
	WaveStatusInProgress WaveStatus = "IN_PROGRESS"
	WaveStatusCompleted  WaveStatus = "COMPLETED"
)

// AddTask appends a task id to the wave's membership, keeping the invariant
// that each (route, partcustid) pair whose delivery time equals this wave's
// delivery time belongs to exactly one wave per day (enforced by the
// catalog, not here).
func (w *DeliveryWave) AddTask(id TaskID) {
	w.TaskIDs = append(w.TaskIDs, id)
}
