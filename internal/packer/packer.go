// Package packer implements the Partcustid Packer: bin-packing a
// wave's partcustid groups onto the fewest stations under the dual
// partcustid-count and workload-time caps.
package packer

import (
	"sort"
	"time"

	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/station"
)

// Pack runs the greedy bin-packing pass for one floor
// within a wave. groups is pre-sorted by workload descending by the
// caller's choice of grouping key; Pack re-sorts defensively so callers
// never need to remember the precondition. capTimeMinutes is the fixed
// window for P1 waves (station.CapWindowMinutes) or the feasibility
// check's available_minutes for non-P1 waves. unplaced collects any group
// that could not be seated on a free station.
func Pack(pool *station.Pool, floor entity.Floor, now time.Time, groups []entity.PartcustidGroup, capPartcustIDs int, capTimeMinutes float64) (assignments []*entity.StationAssignment, unplaced []entity.PartcustidGroup) {
	sorted := make([]entity.PartcustidGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalWorkloadMinutes > sorted[j].TotalWorkloadMinutes
	})

	used := make(map[entity.StationID]struct{})
	var current *entity.StationAssignment

	emit := func() {
		if current != nil {
			assignments = append(assignments, current)
			current = nil
		}
	}

	for _, g := range sorted {
		if current != nil {
			fitsCap := current.PartcustIDCount()+1 <= capPartcustIDs
			fitsTime := current.TotalWorkloadMinutes+g.TotalWorkloadMinutes <= capTimeMinutes
			if fitsCap && fitsTime {
				current.Add(g)
				continue
			}
			emit()
		}

		s, ok := pool.NextFree(floor, now, used)
		if !ok {
			unplaced = append(unplaced, g)
			continue
		}
		used[s.ID] = struct{}{}
		current = &entity.StationAssignment{StationID: s.ID}
		current.Add(g)
	}
	emit()

	for _, a := range assignments {
		a.EstimatedCompletion = now.Add(time.Duration(a.TotalWorkloadMinutes * float64(time.Minute)))
	}

	return assignments, unplaced
}
