// Package overtime implements the Overtime Engine: converting a task
// that missed its placement window into an OVERTIME variant bound to a
// near-future session, subject to the daily staff-hours cap.
package overtime

import (
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

// Session describes one overtime window for a set of tasks bound to
// specific stations: the scheduler enqueues an OVERTIME_START at Start and
// a matching OVERTIME_END at End. Stations is parallel to Tasks:
// Stations[i] is the station Tasks[i]'s original held when it was
// cancelled, or empty when the original was never placed.
type Session struct {
	Start    time.Time
	End      time.Time
	Stations []entity.StationID
	Tasks    []*entity.Task
}

// Engine computes overtime sessions and the replacement task records.
type Engine struct {
	cfg config.Config
}

// NewEngine builds an Engine bound to the given configuration.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Plan builds the overtime session: for each task needing overtime, compute
// the required session length from its full fixed estimate
// (EstimatedDurationMinutes), clamp to max_overtime_hours and to
// overtime_end_time, and produce the overtime variant task (priority raised
// to P1, linked back via OvertimeOf) with the original task cancelled.
// Returns nil if overtime_enabled is false. Plan does not itself enforce the
// max_hours_per_day cap on the assigned staff member; the engine checks it
// when it staffs the overtime variant at OVERTIME_START.
func (e *Engine) Plan(now time.Time, tasks []*entity.Task, idGen func() entity.TaskID) (Session, []*entity.Task) {
	if !e.cfg.OvertimeEnabled || len(tasks) == 0 {
		return Session{}, nil
	}

	endCap, err := entity.ParseClockTime(e.cfg.OvertimeEndTime)
	if err != nil {
		endCap = entity.ClockTime{Hour: 22}
	}
	dayCap := time.Date(now.Year(), now.Month(), now.Day(), endCap.Hour, endCap.Minute, endCap.Second, 0, now.Location())

	start := now.Add(5 * time.Minute)

	var requiredHours float64
	var stations []entity.StationID
	var variants []*entity.Task

	for _, t := range tasks {
		// Overtime candidates are tasks that missed their placement window
		// entirely (infeasible wave, capacity exhaustion, end-of-day
		// sweep) rather than ones paused mid-execution, so the full fixed
		// estimate is still owed — unlike the 50% rule exception
		// preemption uses for a task that already made some progress.
		remaining := t.EstimatedDurationMinutes
		hours := remaining / 60
		if hours < 1 {
			hours = 1
		}
		if hours > e.cfg.MaxOvertimeHours {
			hours = e.cfg.MaxOvertimeHours
		}
		if hours > requiredHours {
			requiredHours = hours
		}

		stations = append(stations, t.AssignedStation)

		variant := *t
		variant.ID = idGen()
		variant.PriorityClass = entity.PriorityP1
		variant.Type = entity.TaskOvertime
		variant.OvertimeOf = t.ID
		variant.Status = entity.TaskPending
		variant.AssignedStation = ""
		variant.AssignedStaff = ""
		variants = append(variants, &variant)

		t.Status = entity.TaskCancelled
	}

	end := start.Add(time.Duration(requiredHours * float64(time.Hour)))
	if end.After(dayCap) {
		end = dayCap
	}

	return Session{Start: start, End: end, Stations: stations, Tasks: variants}, variants
}
