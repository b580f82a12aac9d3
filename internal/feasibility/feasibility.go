// Package feasibility implements the Wave Feasibility Check:
// deciding, for one wave's attached tasks, whether the available stations
// can finish the workload by the earliest deadline.
package feasibility

import (
	"math"
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

// Result is the feasibility check's full output: the verdict plus the
// intermediate figures it was computed from.
type Result struct {
	EarliestDeadline       time.Time
	AvailableMinutes       float64
	TotalWorkloadMinutes   float64
	UniquePartcustIDs      int
	StationsNeededByCap    int
	StationsNeededByTime   int
	EstimatedStationsNeeded int
	TotalStationsAvailable int
	Feasible               bool
}

// Check runs the full feasibility computation. tasks are the tasks
// currently attached to the wave; now is the simulated clock;
// totalStations is the count of stations available to this wave's floor
// set.
func Check(cfg config.Config, tasks []*entity.Task, now time.Time, totalStations int) Result {
	var earliest time.Time
	var totalWorkload float64
	partcustIDs := make(map[entity.PartcustID]struct{})

	for i, t := range tasks {
		if i == 0 || t.DeliveryDeadline.Before(earliest) {
			earliest = t.DeliveryDeadline
		}
		totalWorkload += t.EstimatedDurationMinutes
		if t.PartcustID != "" {
			partcustIDs[t.PartcustID] = struct{}{}
		}
	}

	availableMinutes := earliest.Sub(now).Minutes() - cfg.TimeBufferMinutes

	uniquePC := len(partcustIDs)
	stationsByCap := ceilDiv(uniquePC, cfg.MaxPartcustidsPerStation)

	var stationsByTime int
	if availableMinutes > 0 {
		stationsByTime = int(math.Ceil(totalWorkload / availableMinutes))
	} else {
		stationsByTime = totalStations + 1 // forces infeasible below
	}

	neededStations := stationsByCap
	if stationsByTime > neededStations {
		neededStations = stationsByTime
	}

	feasible := availableMinutes > 0 &&
		neededStations <= totalStations &&
		totalWorkload <= availableMinutes*float64(totalStations)

	return Result{
		EarliestDeadline:        earliest,
		AvailableMinutes:        availableMinutes,
		TotalWorkloadMinutes:    totalWorkload,
		UniquePartcustIDs:       uniquePC,
		StationsNeededByCap:     stationsByCap,
		StationsNeededByTime:    stationsByTime,
		EstimatedStationsNeeded: neededStations,
		TotalStationsAvailable:  totalStations,
		Feasible:                feasible,
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
