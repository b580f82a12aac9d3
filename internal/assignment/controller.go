// Package assignment implements the Staged Assignment Controller:
// the per-tick pipeline that turns pending tasks into station+staff
// placements, in P1-wave / P2-gap-fill / P3-receiving-gap-fill order.
package assignment

import (
	"sort"
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/feasibility"
	"github.com/warehousesim/core/internal/packer"
	"github.com/warehousesim/core/internal/station"
)

// Placement is one successful task->station+staff binding, ready for the
// scheduler to push a TASK_START event at PlannedStart.
type Placement struct {
	Task              *entity.Task
	Station           entity.StationID
	Staff             entity.StaffID
	PlannedStart      time.Time
	PlannedCompletion time.Time
}

// Outcome is the controller's full result for one dispatch tick.
type Outcome struct {
	Placements     []Placement
	NeedsOvertime  []*entity.Task // could not be placed, or wave was infeasible
}

// Controller binds the configuration and the live station pool.
type Controller struct {
	cfg  config.Config
	pool *station.Pool
}

// NewController builds a Controller over the given configuration and
// station pool.
func NewController(cfg config.Config, pool *station.Pool) *Controller {
	return &Controller{cfg: cfg, pool: pool}
}

// RosterStation maps a station to the staff member rostered onto it today,
// so placements can assign a staff id alongside the station.
type RosterStation map[entity.StationID]entity.StaffID

// Dispatch runs the three staged passes for one tick. waves
// maps each active P1 wave to its currently attached tasks; p2Tasks and
// p3Tasks are the remaining ungrouped tasks to gap-fill, already sorted by
// the caller in the priority order it wants ties broken.
func (c *Controller) Dispatch(now time.Time, waves map[*entity.DeliveryWave][]*entity.Task, p2Tasks, p3ReceivingTasks []*entity.Task, roster RosterStation) Outcome {
	var out Outcome
	used := make(map[entity.StationID]struct{})

	c.dispatchWaves(now, waves, used, roster, &out)
	c.gapFill(now, p2Tasks, used, roster, &out)
	c.gapFillReceivingAware(now, p3ReceivingTasks, used, roster, &out)

	return out
}

func (c *Controller) dispatchWaves(now time.Time, waves map[*entity.DeliveryWave][]*entity.Task, used map[entity.StationID]struct{}, roster RosterStation, out *Outcome) {
	// Deterministic order: sort waves by wave id so repeated runs visit them
	// identically.
	ordered := make([]*entity.DeliveryWave, 0, len(waves))
	for w := range waves {
		ordered = append(ordered, w)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].WaveID < ordered[j].WaveID })

	for _, wave := range ordered {
		tasks := waves[wave]
		byFloor := groupByFloor(tasks)

		totalStations := 0
		for floor := range byFloor {
			totalStations += len(c.pool.Floor(floor))
		}

		fc := feasibility.Check(c.cfg, tasks, now, totalStations)
		if !fc.Feasible {
			out.NeedsOvertime = append(out.NeedsOvertime, tasks...)
			continue
		}

		floors := sortedFloors(byFloor)
		for _, floor := range floors {
			floorTasks := byFloor[floor]
			groups, byID := groupByPartcustID(floorTasks)
			assignments, unplaced := packer.Pack(c.pool, floor, now, groups, c.cfg.MaxPartcustidsPerStation, station.CapWindowMinutes(floor))

			for _, a := range assignments {
				used[a.StationID] = struct{}{}
				for _, g := range a.Groups {
					for _, taskID := range g.Tasks {
						task := byID[taskID]
						out.Placements = append(out.Placements, c.place(now, a.StationID, task, roster))
					}
				}
			}
			for _, g := range unplaced {
				for _, taskID := range g.Tasks {
					out.NeedsOvertime = append(out.NeedsOvertime, byID[taskID])
				}
			}
		}
	}
}

// gapFill is the second pass: place remaining tasks one by one
// onto free stations on the matching floor, skipping stations already
// claimed this tick.
func (c *Controller) gapFill(now time.Time, tasks []*entity.Task, used map[entity.StationID]struct{}, roster RosterStation, out *Outcome) {
	for _, t := range tasks {
		s, ok := c.pool.NextFree(t.Floor, now, used)
		if !ok {
			out.NeedsOvertime = append(out.NeedsOvertime, t)
			continue
		}
		used[s.ID] = struct{}{}
		out.Placements = append(out.Placements, c.place(now, s.ID, t, roster))
	}
}

// gapFillReceivingAware is the third pass: identical to plain gap fill,
// except that when a floor's remaining gap-fill capacity is thin (under
// an hour of aggregate free station-time), receiving tasks are placed
// ahead of sub-warehouse shipping tasks on that floor so overdue inventory
// doesn't lose out to P3 shipping in the final minutes of the window.
func (c *Controller) gapFillReceivingAware(now time.Time, tasks []*entity.Task, used map[entity.StationID]struct{}, roster RosterStation, out *Outcome) {
	byFloor := groupByFloor(tasks)
	for floor, floorTasks := range byFloor {
		remaining := c.remainingGapMinutes(floor, now, used)

		receiving := make([]*entity.Task, 0, len(floorTasks))
		subWarehouse := make([]*entity.Task, 0, len(floorTasks))
		for _, t := range floorTasks {
			if t.Type == entity.TaskReceiving {
				receiving = append(receiving, t)
			} else {
				subWarehouse = append(subWarehouse, t)
			}
		}

		ordered := append(subWarehouse, receiving...)
		if remaining < 60 {
			ordered = append(append([]*entity.Task{}, receiving...), subWarehouse...)
		}

		c.gapFill(now, ordered, used, roster, out)
	}
}

// remainingGapMinutes estimates a floor's aggregate free station-time:
// each free, not-yet-used station contributes the time until end of shift.
func (c *Controller) remainingGapMinutes(floor entity.Floor, now time.Time, used map[entity.StationID]struct{}) float64 {
	endOfShift, err := entity.ParseClockTime(c.cfg.ShiftEndTime)
	if err != nil {
		endOfShift = entity.ClockTime{Hour: 17}
	}
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), endOfShift.Hour, endOfShift.Minute, endOfShift.Second, 0, now.Location())

	total := 0.0
	for _, s := range c.pool.Floor(floor) {
		if _, taken := used[s.ID]; taken {
			continue
		}
		if !s.IsFree(now) {
			continue
		}
		if dayEnd.After(now) {
			total += dayEnd.Sub(now).Minutes()
		}
	}
	return total
}

// place performs the placement procedure for one task onto one
// station: planned_start accounts for startup time if the station was
// idle, planned_completion follows from the task's fixed duration estimate,
// and the station's available_time/status advance accordingly.
func (c *Controller) place(now time.Time, stationID entity.StationID, task *entity.Task, roster RosterStation) Placement {
	s, _ := c.pool.Get(stationID)
	staffID := roster[stationID]

	wasIdle := s.Status == entity.StationIdle
	start := now
	if s.AvailableTime.After(start) {
		start = s.AvailableTime
	}
	if wasIdle {
		start = start.Add(time.Duration(c.cfg.StationStartupTimeMinutes * float64(time.Minute)))
	}
	completion := start.Add(time.Duration(task.EstimatedDurationMinutes * float64(time.Minute)))

	s.AvailableTime = completion
	s.CurrentTask = task.ID
	s.AssignedStaff = staffID
	if wasIdle {
		s.Status = entity.StationStartingUp
	} else {
		s.Status = entity.StationBusy
	}

	task.AssignedStation = stationID
	task.AssignedStaff = staffID
	task.Status = entity.TaskAssigned
	task.PlannedStart = start
	task.PlannedCompletion = completion

	return Placement{
		Task:              task,
		Station:           stationID,
		Staff:             staffID,
		PlannedStart:      start,
		PlannedCompletion: completion,
	}
}

func groupByFloor(tasks []*entity.Task) map[entity.Floor][]*entity.Task {
	out := make(map[entity.Floor][]*entity.Task)
	for _, t := range tasks {
		out[t.Floor] = append(out[t.Floor], t)
	}
	return out
}

func sortedFloors(byFloor map[entity.Floor][]*entity.Task) []entity.Floor {
	floors := make([]entity.Floor, 0, len(byFloor))
	for f := range byFloor {
		floors = append(floors, f)
	}
	sort.Slice(floors, func(i, j int) bool { return floors[i] < floors[j] })
	return floors
}

func groupByPartcustID(tasks []*entity.Task) ([]entity.PartcustidGroup, map[entity.TaskID]*entity.Task) {
	byID := make(map[entity.TaskID]*entity.Task, len(tasks))
	order := make([]entity.PartcustID, 0)
	groups := make(map[entity.PartcustID]*entity.PartcustidGroup)

	for _, t := range tasks {
		byID[t.ID] = t
		g, ok := groups[t.PartcustID]
		if !ok {
			g = &entity.PartcustidGroup{PartcustID: t.PartcustID}
			groups[t.PartcustID] = g
			order = append(order, t.PartcustID)
		}
		g.Tasks = append(g.Tasks, t.ID)
		g.TotalWorkloadMinutes += t.EstimatedDurationMinutes
		g.TaskCount++
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]entity.PartcustidGroup, 0, len(order))
	for _, pc := range order {
		out = append(out, *groups[pc])
	}
	return out, byID
}
