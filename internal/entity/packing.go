package entity

import "time"

// PartcustidGroup is the ephemeral per-wave bundle of tasks for one partner
// customer; it is atomic for packing.
type PartcustidGroup struct {
	PartcustID           PartcustID
	Tasks                []TaskID
	TotalWorkloadMinutes float64
	TaskCount            int
}

// StationAssignment is the ephemeral per-wave packing result for one
// station: the partcustid groups placed on it and the resulting estimated
// completion time.
type StationAssignment struct {
	StationID            StationID
	Groups                []PartcustidGroup
	TotalWorkloadMinutes float64
	TotalPartcustIDs      int
	EstimatedCompletion   time.Time
}

// PartcustIDCount returns the number of distinct partcustids already packed
// onto this assignment.
func (a *StationAssignment) PartcustIDCount() int { return len(a.Groups) }

// Add folds a partcustid group into the assignment, updating the running
// totals used by the packer's caps.
func (a *StationAssignment) Add(g PartcustidGroup) {
	a.Groups = append(a.Groups, g)
	a.TotalWorkloadMinutes += g.TotalWorkloadMinutes
	a.TotalPartcustIDs = len(a.Groups)
}
