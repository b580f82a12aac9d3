// Package staffroster implements the daily schedule generator:
// turning the staff skill master and the day's shortage draw into a
// concrete roster of ShiftAssignment rows.
package staffroster

import (
	"fmt"
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/masterdata"
	"github.com/warehousesim/core/internal/simrand"
)

// Floors are generated in a fixed order so the duplicate-avoidance set
// behaves deterministically across runs with the same seed.
var floors = []entity.Floor{entity.Floor2, entity.Floor3, entity.Floor4}

// Generator builds one day's roster from the master data and the
// configured planned headcounts.
type Generator struct {
	cfg  config.Config
	data *masterdata.Facade
}

// NewGenerator builds a Generator bound to the given configuration and
// master-data facade.
func NewGenerator(cfg config.Config, data *masterdata.Facade) *Generator {
	return &Generator{cfg: cfg, data: data}
}

func (g *Generator) plannedFor(floor entity.Floor) int {
	switch floor {
	case entity.Floor2:
		return g.cfg.PlannedStaff2F
	case entity.Floor3:
		return g.cfg.PlannedStaff3F
	case entity.Floor4:
		return g.cfg.PlannedStaff4F
	default:
		return 0
	}
}

// Generate builds the roster for date: for each floor, draws a shortage
// reduction with probability shortage_probability, then picks that many
// distinct eligible staff not already rostered to another floor today.
func (g *Generator) Generate(date time.Time, rnd *simrand.Source) []entity.ShiftAssignment {
	shiftStart, err := entity.ParseClockTime(g.cfg.ShiftStartTime)
	if err != nil {
		shiftStart = entity.ClockTime{Hour: 8}
	}
	shiftEnd, err := entity.ParseClockTime(g.cfg.ShiftEndTime)
	if err != nil {
		shiftEnd = entity.ClockTime{Hour: 17}
	}
	shiftStartAt := atClock(date, shiftStart)
	shiftEndAt := atClock(date, shiftEnd)

	alreadyRostered := make(map[entity.StaffID]struct{})
	var out []entity.ShiftAssignment

	for _, floor := range floors {
		planned := g.plannedFor(floor)
		if rnd.Bernoulli(g.cfg.StaffShortageProbability) {
			reduction := rnd.IntRange(g.cfg.StaffShortageReductionMin, g.cfg.StaffShortageReductionMax)
			planned -= reduction
			if planned < 0 {
				planned = 0
			}
		}

		eligible := g.data.StaffEligibleForFloor(floor)
		picked := make([]entity.Staff, 0, planned)
		for _, s := range eligible {
			if len(picked) >= planned {
				break
			}
			if _, taken := alreadyRostered[s.ID]; taken {
				continue
			}
			picked = append(picked, s)
			alreadyRostered[s.ID] = struct{}{}
		}

		fixedIdx, flexIdx := 1, 1
		for i, s := range picked {
			kind, n := "F", fixedIdx
			// The first (planned+1)/2 picks staff fixed stations, the rest
			// flex, matching the station pool's fixed-then-flex numbering.
			if i >= (planned+1)/2 {
				kind, n = "T", flexIdx
				flexIdx++
			} else {
				fixedIdx++
			}
			out = append(out, entity.ShiftAssignment{
				Date:       date,
				StationID:  stationID(floor, kind, n),
				StaffID:    s.ID,
				ShiftStart: shiftStartAt,
				ShiftEnd:   shiftEndAt,
				IsOvertime: false,
			})
		}
	}

	return out
}

func stationID(floor entity.Floor, kind string, n int) entity.StationID {
	return entity.StationID(fmt.Sprintf("ST%d%s%02d", int(floor), kind, n))
}

func atClock(day time.Time, t entity.ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, t.Second, 0, day.Location())
}
