// Package station implements the Station Pool: the fixed/flex
// workstations on each floor, initialized once from the workstation_capacity
// table and mutated only by the assignment controller and the exception
// handler for the rest of the run.
package station

import (
	"fmt"
	"sort"
	"time"

	"github.com/warehousesim/core/internal/entity"
)

// Pool owns every Station for the run. It is not safe for concurrent use —
// the engine is single-threaded, so no locking is needed.
type Pool struct {
	byID    map[entity.StationID]*entity.Station
	byFloor map[entity.Floor][]*entity.Station
}

// NewPool builds the fixed ("STxF01"...) and flex ("STxT01"...) stations for
// every floor in capacities.
func NewPool(capacities []entity.StationCapacity) *Pool {
	p := &Pool{
		byID:    make(map[entity.StationID]*entity.Station),
		byFloor: make(map[entity.Floor][]*entity.Station),
	}
	for _, c := range capacities {
		for i := 1; i <= c.FixedStations; i++ {
			p.add(&entity.Station{
				ID:      stationID(c.Floor, "F", i),
				Floor:   c.Floor,
				IsFixed: true,
				Status:  entity.StationIdle,
			})
		}
		for i := 1; i <= c.TempStations; i++ {
			p.add(&entity.Station{
				ID:      stationID(c.Floor, "T", i),
				Floor:   c.Floor,
				IsFixed: false,
				Status:  entity.StationIdle,
			})
		}
	}
	for floor := range p.byFloor {
		sort.Slice(p.byFloor[floor], func(i, j int) bool {
			return p.byFloor[floor][i].ID < p.byFloor[floor][j].ID
		})
	}
	return p
}

func (p *Pool) add(s *entity.Station) {
	p.byID[s.ID] = s
	p.byFloor[s.Floor] = append(p.byFloor[s.Floor], s)
}

func stationID(floor entity.Floor, kind string, n int) entity.StationID {
	return entity.StationID(fmt.Sprintf("ST%d%s%02d", int(floor), kind, n))
}

// Get returns the station by id, if present.
func (p *Pool) Get(id entity.StationID) (*entity.Station, bool) {
	s, ok := p.byID[id]
	return s, ok
}

// Floor returns every station on a floor, in deterministic ascending-ID
// order.
func (p *Pool) Floor(floor entity.Floor) []*entity.Station {
	return p.byFloor[floor]
}

// NextFree implements the deterministic station-selection rule:
// iterate the floor's stations ascending by id, prefer a fixed IDLE
// station, then any fixed station free at now, then any flex station free
// at now. used excludes stations already claimed within this packing pass.
func (p *Pool) NextFree(floor entity.Floor, now time.Time, used map[entity.StationID]struct{}) (*entity.Station, bool) {
	stations := p.byFloor[floor]

	pick := func(wantFixed bool, idleOnly bool) (*entity.Station, bool) {
		for _, s := range stations {
			if _, skip := used[s.ID]; skip {
				continue
			}
			if s.IsFixed != wantFixed {
				continue
			}
			if !s.IsFree(now) {
				continue
			}
			if idleOnly && s.Status != entity.StationIdle {
				continue
			}
			return s, true
		}
		return nil, false
	}

	if s, ok := pick(true, true); ok {
		return s, true
	}
	if s, ok := pick(true, false); ok {
		return s, true
	}
	if s, ok := pick(false, false); ok {
		return s, true
	}
	return nil, false
}

// CapWindowMinutes is the floor-specific fixed time window for P1 wave
// packing: floor 3 gets 30 minutes, floor 2 gets 25,
// every other floor gets 30.
func CapWindowMinutes(floor entity.Floor) float64 {
	switch floor {
	case entity.Floor2:
		return 25
	case entity.Floor3:
		return 30
	default:
		return 30
	}
}
