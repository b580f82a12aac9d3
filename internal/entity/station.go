package entity

import "time"

// StationCapacity is one master-data row of the workstation_capacity table
//: how many fixed and flex stations a floor has.
type StationCapacity struct {
	Floor         Floor
	FixedStations int
	TempStations  int
}

// StationStatus is the station status machine.
type StationStatus string

const (
	StationIdle       StationStatus = "IDLE"
	StationStartingUp StationStatus = "STARTING_UP"
	StationBusy       StationStatus = "BUSY"
	StationMaintenance StationStatus = "MAINTENANCE"
	StationReserved   StationStatus = "RESERVED"
)

// Station is a fixed or flex workstation on a floor.
type Station struct {
	ID       StationID
	Floor    Floor
	IsFixed  bool
	Status   StationStatus

	CurrentTask    TaskID
	AssignedStaff  StaffID

	StartupStartTime time.Time
	HasStartupStart  bool

	// AvailableTime is the earliest time the station becomes free again; it
	// advances monotonically as tasks are queued onto it.
	AvailableTime time.Time

	ReservedForException bool
}

// IsFree reports whether the station can accept new work right now: not
// RESERVED for an exception, not under MAINTENANCE, and with AvailableTime
// not after now. Status BUSY is not checked; AvailableTime decides.
func (s *Station) IsFree(now time.Time) bool {
	if s.Status == StationReserved || s.Status == StationMaintenance {
		return false
	}
	return !s.AvailableTime.After(now)
}

// Release returns the station to IDLE and clears its current task linkage.
// Called on TASK_COMPLETE -> STATION_BECOME_IDLE.
func (s *Station) Release() {
	s.CurrentTask = ""
	s.AssignedStaff = ""
	s.Status = StationIdle
}
