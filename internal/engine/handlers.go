package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warehousesim/core/internal/assignment"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/metrics"
	"github.com/warehousesim/core/internal/overtime"
	"github.com/warehousesim/core/internal/validation"
	"github.com/warehousesim/core/internal/wave"
)

// Event payloads. Each event type carries just enough to re-look-up its
// subject from the engine's own maps — the event queue itself stays
// type-erased (entity.Event.Payload is interface{}).
type (
	dayPayload       struct{ Date time.Time }
	taskPayload      struct{ TaskID entity.TaskID }
	stationPayload   struct{ StationID entity.StationID }
	wavePayload      struct{ WaveID entity.WaveID }
	exceptionPayload struct{ ExceptionID entity.ExceptionID }
	overtimePayload  struct{ Session overtime.Session }
)

// dispatch routes one popped event to its handler. Nothing ever schedules
// EventStationStartupComplete — station-startup time is already folded into
// assignment.Controller.place's wasIdle branch — so its case is a no-op
// kept only to keep the event type recognized.
func (e *Engine) dispatch(ctx context.Context, ev entity.Event) error {
	switch ev.Type {
	case entity.EventSimulationStart:
		return e.handleSimulationStart()
	case entity.EventSimulationEnd:
		return e.handleSimulationEnd()
	case entity.EventDailyScheduleGenerate:
		return e.handleDailyScheduleGenerate(ctx, ev)
	case entity.EventReceivingLoad:
		return e.handleReceivingLoad(ctx, ev)
	case entity.EventTaskAssign:
		return e.handleTaskAssign(ev)
	case entity.EventReceivingTaskAssign:
		return e.handleReceivingTaskAssign()
	case entity.EventTaskStart:
		return e.handleTaskStart(ev)
	case entity.EventTaskComplete:
		return e.handleTaskComplete(ev)
	case entity.EventStationBecomeIdle:
		return e.handleStationBecomeIdle(ev)
	case entity.EventWaveCompletionCheck:
		return e.handleWaveCompletionCheck(ev)
	case entity.EventExceptionDetected:
		return e.handleExceptionDetected(ev)
	case entity.EventExceptionResolved:
		return e.handleExceptionResolved(ev)
	case entity.EventOvertimeEvaluation:
		e.planOvertime(e.queue.Now())
		return nil
	case entity.EventOvertimeStart:
		return e.handleOvertimeStart(ev)
	case entity.EventOvertimeEnd:
		return nil
	case entity.EventReceivingDeadlineCheck:
		return e.handleReceivingDeadlineCheck(ev)
	case entity.EventEndOfDayProcessing:
		return e.handleEndOfDayProcessing(ev)
	case entity.EventSystemStatusUpdate:
		return e.handleSystemStatusUpdate()
	case entity.EventStationStartupComplete:
		return nil
	default:
		return fmt.Errorf("unhandled event type %q", ev.Type)
	}
}

func (e *Engine) handleSimulationStart() error {
	e.log.Info("simulation run starting",
		zap.String("run_id", e.runID.String()),
		zap.Time("start_date", e.startDate),
		zap.Time("end_date", e.endDate),
		zap.Int64("seed", e.cfg.RandomSeed),
	)
	return nil
}

func (e *Engine) handleSimulationEnd() error {
	e.log.Info("simulation run complete",
		zap.Int("tasks_completed", e.tasksCompleted),
		zap.Int("tasks_cancelled", e.tasksCancelled),
		zap.Int("exceptions_raised", e.exceptionsRaised),
		zap.Int("overtime_episodes", e.overtimeEpisodes),
		zap.Int("late_shipments", e.lateShipments),
	)
	return nil
}

// handleDailyScheduleGenerate covers both SIMULATION_START's and
// DAILY_SCHEDULE_GENERATE's setup work: the two are consolidated here
// because day one's schedule generation already performs everything a
// separate simulation-start handler would, and every subsequent day needs
// the same roster/wave/order setup regardless.
func (e *Engine) handleDailyScheduleGenerate(ctx context.Context, ev entity.Event) error {
	p := ev.Payload.(dayPayload)
	date := p.Date
	now := e.queue.Now()

	assignments := e.rosterGen.Generate(date, e.rnd)
	roster := make(assignment.RosterStation, len(assignments))
	distinct := make(map[entity.StaffID]struct{}, len(assignments))
	for _, a := range assignments {
		roster[a.StationID] = a.StaffID
		distinct[a.StaffID] = struct{}{}
	}
	e.roster = roster
	e.staffPresent = len(distinct)
	e.staffMinutes = make(map[entity.StaffID]float64)

	dayWaves := e.catalog.BuildForDay(date)
	e.dispatchedWaves = make(map[entity.WaveID]bool)
	for _, w := range dayWaves {
		e.waves[w.WaveID] = w
	}

	orders, err := e.db.TransactionRepository().OrdersForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("loading orders for %s: %w", date.Format("2006-01-02"), err)
	}

	for _, o := range orders {
		classification := e.orderClassifier.Classify(o)
		if !classification.ScheduleFound {
			e.validationResult.AddWarningWithContext(validation.CodeUnscheduledRoute,
				fmt.Sprintf("no route schedule for route %s / partcustid %s", o.RouteCode, o.PartcustID),
				map[string]interface{}{"route": string(o.RouteCode), "partcustid": string(o.PartcustID)})
			continue
		}
		if classification.TimeInvalid {
			e.validationResult.AddWarningWithContext(validation.CodeTimeInvalid,
				fmt.Sprintf("order time %s incompatible with delivery window on route %s", o.OrderTime, o.RouteCode),
				map[string]interface{}{"route": string(o.RouteCode)})
			continue
		}
		item, ok := e.data.Item(o.Item)
		if !ok {
			e.validationResult.AddWarning(validation.CodeUnknownItem, fmt.Sprintf("unknown item %s", o.Item))
			continue
		}

		task := &entity.Task{
			ID:                       e.nextTaskID(),
			Type:                     entity.TaskShipping,
			PriorityClass:            classification.PriorityClass,
			Floor:                    item.Floor,
			Item:                     o.Item,
			Quantity:                 o.Quantity,
			RequiresRepack:           item.RequiresRepack,
			EstimatedDurationMinutes: e.estimator.FixedShipping(item),
			PartcustID:               o.PartcustID,
			RouteCode:                o.RouteCode,
			AvailableWorkMinutes:     classification.AvailableMinutes,
			Status:                   entity.TaskPending,
		}

		if classification.OrderType != entity.OrderTypeSubWarehouse {
			if w, ok := wave.FindWave(dayWaves, o.PartcustID, o.OrderTime, date); ok {
				task.WaveID = w.WaveID
				task.DeliveryDeadline = w.DeliveryDatetime
				w.AddTask(task.ID)
			} else {
				task.DeliveryDeadline = atClock(date, classification.DeliveryTime)
			}
		} else {
			task.DeliveryDeadline = atClock(date, classification.DeliveryTime)
		}

		e.tasks[task.ID] = task
		e.totalTasksSeen++

		e.queue.Schedule(entity.EventTaskAssign, now.Add(e.assignDelay(task.PriorityClass)), 1, taskPayload{TaskID: task.ID})
	}

	return nil
}

func (e *Engine) handleReceivingLoad(ctx context.Context, ev entity.Event) error {
	p := ev.Payload.(dayPayload)
	date := p.Date
	now := e.queue.Now()

	recs, err := e.db.TransactionRepository().ReceivingForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("loading receiving records for %s: %w", date.Format("2006-01-02"), err)
	}

	for _, r := range recs {
		classification := e.receivingClassifier.Classify(r, date)
		item, ok := e.data.Item(r.Item)
		if !ok {
			e.validationResult.AddWarning(validation.CodeUnknownItem, fmt.Sprintf("unknown item %s", r.Item))
			continue
		}

		task := &entity.Task{
			ID:                       e.nextTaskID(),
			Type:                     entity.TaskReceiving,
			PriorityClass:            receivingPriorityClass(classification.Priority),
			Floor:                    item.Floor,
			Item:                     r.Item,
			Quantity:                 r.Quantity,
			RequiresRepack:           item.RequiresRepack,
			EstimatedDurationMinutes: e.estimator.FixedReceiving(r.Quantity),
			ArrivalDate:              r.ArrivalDate,
			DeadlineDate:             classification.DeadlineDate,
			DaysSinceArrival:         classification.DaysSinceArrival,
			IsOverdue:                classification.IsOverdue,
			Status:                   entity.TaskPending,
		}
		e.tasks[task.ID] = task
		e.totalTasksSeen++
	}

	if len(recs) > 0 {
		e.queue.Schedule(entity.EventReceivingTaskAssign, now.Add(30*time.Minute), 1, dayPayload{Date: date})
	}

	return nil
}

// handleReceivingTaskAssign dispatches every still-pending receiving task in
// one batch through the P3/receiving gap-fill pass, without the per-task
// staggering TASK_ASSIGN gives shipping tasks. Receiving tasks still carry
// their classified priority (P1, P2 or P4, see receivingPriorityClass).
func (e *Engine) handleReceivingTaskAssign() error {
	now := e.queue.Now()
	var pending []*entity.Task
	for _, t := range e.tasks {
		if t.Type == entity.TaskReceiving && t.Status == entity.TaskPending {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	outcome := e.controller.Dispatch(now, nil, nil, pending, e.roster)
	e.handleOutcome(outcome)
	return nil
}

// handleTaskAssign routes a shipping task into the right dispatch bucket.
// P1 wave tasks dispatch once per wave, on the first ready P1 TASK_ASSIGN
// for that wave (dispatchedWaves makes every later one for the same wave a
// no-op); P3 sub-warehouse tasks go through the receiving-aware gap fill;
// everything else (P2 urgent/other, whether or not it belongs to a wave)
// gap-fills one task at a time.
func (e *Engine) handleTaskAssign(ev entity.Event) error {
	p := ev.Payload.(taskPayload)
	task := e.tasks[p.TaskID]
	now := e.queue.Now()
	if task == nil || task.Status != entity.TaskPending {
		return nil
	}

	switch {
	case task.PriorityClass == entity.PriorityP1 && task.WaveID != "":
		if e.dispatchedWaves[task.WaveID] {
			return nil
		}
		w := e.waves[task.WaveID]
		if w == nil {
			return nil
		}
		// Only the wave's P1 members ride the wave dispatch; its P2/P3
		// members stay in the wave for completion tracking but reach a
		// station through their own gap-fill TASK_ASSIGN, so they never
		// inflate the wave's feasibility workload.
		var waveTasks []*entity.Task
		for _, id := range w.TaskIDs {
			t := e.tasks[id]
			if t != nil && t.Status == entity.TaskPending && t.PriorityClass == entity.PriorityP1 {
				waveTasks = append(waveTasks, t)
			}
		}
		e.dispatchedWaves[task.WaveID] = true
		outcome := e.controller.Dispatch(now, map[*entity.DeliveryWave][]*entity.Task{w: waveTasks}, nil, nil, e.roster)
		e.handleOutcome(outcome)
	case task.PriorityClass == entity.PriorityP3:
		outcome := e.controller.Dispatch(now, nil, nil, []*entity.Task{task}, e.roster)
		e.handleOutcome(outcome)
	default:
		outcome := e.controller.Dispatch(now, nil, []*entity.Task{task}, nil, e.roster)
		e.handleOutcome(outcome)
	}
	return nil
}

func (e *Engine) handleOutcome(outcome assignment.Outcome) {
	for _, placement := range outcome.Placements {
		e.queue.Schedule(entity.EventTaskStart, placement.PlannedStart, 2, taskPayload{TaskID: placement.Task.ID})
	}
	for _, t := range outcome.NeedsOvertime {
		if e.queuedForOT[t.ID] {
			continue
		}
		e.queuedForOT[t.ID] = true
		e.overtimeBacklog = append(e.overtimeBacklog, t)
	}
}

// handleTaskStart implements the pre-roll exception check: an exception is
// sampled before the task is allowed to transition into IN_PROGRESS.
// Because assignment.Controller.place already set the station's
// CurrentTask to this task's id at dispatch time, an exception that
// reserves "its own" station naturally reproduces the preemption of a
// task that never got to run a single tick.
func (e *Engine) handleTaskStart(ev entity.Event) error {
	p := ev.Payload.(taskPayload)
	task := e.tasks[p.TaskID]
	now := e.queue.Now()
	if task == nil || task.Status != entity.TaskAssigned {
		return nil
	}

	exc, fired := e.exceptionHandler.Roll(task, e.rnd)
	if !fired {
		e.beginExecution(now, task)
		return nil
	}

	exc.ID = uuid.New()
	exc.DetectedAt = now
	e.exceptions[exc.ID] = &exc
	e.exceptionsRaised++
	e.queue.Schedule(entity.EventExceptionDetected, now, 0, exceptionPayload{ExceptionID: exc.ID})
	return nil
}

func (e *Engine) beginExecution(now time.Time, task *entity.Task) {
	station, hasStation := e.pool.Get(task.AssignedStation)
	if hasStation {
		// A predecessor queued on this station may still be running if its
		// actual duration overran the planning estimate; push this start to
		// the predecessor's true completion so the station never runs two
		// tasks at once.
		if running := e.tasks[station.CurrentTask]; running != nil && running.ID != task.ID && running.Status == entity.TaskInProgress {
			resumeAt := running.ActualStart.Add(running.ActualDuration)
			if resumeAt.Before(now) {
				resumeAt = now
			}
			e.queue.Schedule(entity.EventTaskStart, resumeAt, 2, taskPayload{TaskID: task.ID})
			return
		}
	}

	staff, _ := e.data.StaffByID(task.AssignedStaff)
	actual := e.estimator.Actual(task.EstimatedDurationMinutes, staff, e.rnd)

	task.Status = entity.TaskInProgress
	task.ActualStart = now
	dur := time.Duration(actual * float64(time.Minute))
	task.ActualDuration = dur
	if task.AssignedStaff != "" {
		e.staffMinutes[task.AssignedStaff] += actual
	}

	if hasStation {
		station.Status = entity.StationBusy
		station.CurrentTask = task.ID
		if completion := now.Add(dur); completion.After(station.AvailableTime) {
			station.AvailableTime = completion
		}
	}

	e.queue.Schedule(entity.EventTaskComplete, now.Add(dur), 2, taskPayload{TaskID: task.ID})
}

func (e *Engine) handleTaskComplete(ev entity.Event) error {
	p := ev.Payload.(taskPayload)
	task := e.tasks[p.TaskID]
	now := e.queue.Now()
	if task == nil || task.Status != entity.TaskInProgress {
		return nil
	}

	task.Status = entity.TaskCompleted
	task.ActualCompletion = now
	e.tasksCompleted++
	e.daySummary(now).TasksCompleted++

	if !task.DeliveryDeadline.IsZero() && now.After(task.DeliveryDeadline) {
		e.lateShipments++
	}

	if station, ok := e.pool.Get(task.AssignedStation); ok {
		e.queue.Schedule(entity.EventStationBecomeIdle, now, 3, stationPayload{StationID: station.ID})
	}
	if task.WaveID != "" {
		e.queue.Schedule(entity.EventWaveCompletionCheck, now.Add(time.Second), 3, wavePayload{WaveID: task.WaveID})
	}
	return nil
}

func (e *Engine) handleStationBecomeIdle(ev entity.Event) error {
	p := ev.Payload.(stationPayload)
	station, ok := e.pool.Get(p.StationID)
	if !ok {
		return nil
	}
	// A successor task can start on the station at the same instant its
	// predecessor's idle event lands; only release if nothing is running.
	if running := e.tasks[station.CurrentTask]; running != nil && running.Status == entity.TaskInProgress {
		return nil
	}
	station.Release()
	return nil
}

func (e *Engine) handleWaveCompletionCheck(ev entity.Event) error {
	p := ev.Payload.(wavePayload)
	w := e.waves[p.WaveID]
	if w == nil {
		return nil
	}
	for _, id := range w.TaskIDs {
		t := e.tasks[id]
		if t == nil || !t.IsDone() {
			return nil
		}
	}
	w.Status = entity.WaveStatusCompleted
	return nil
}

// handleExceptionDetected drives the DETECTED -> ASSIGNED -> IN_PROGRESS
// transitions, retrying on a short backoff whenever no leader is free or the
// target station can't yet be reserved (it holds the leader across retries
// rather than releasing it between attempts, matching a leader physically
// walking toward the station rather than re-queueing).
func (e *Engine) handleExceptionDetected(ev entity.Event) error {
	p := ev.Payload.(exceptionPayload)
	exc := e.exceptions[p.ExceptionID]
	now := e.queue.Now()
	if exc == nil || exc.Status == entity.ExceptionResolved {
		return nil
	}

	e.exceptionHandler.Escalate(now, exc)

	if exc.Status == entity.ExceptionDetected || exc.Status == entity.ExceptionEscalated {
		if !e.exceptionHandler.Assign(now, exc) {
			e.queue.Schedule(entity.EventExceptionDetected, now.Add(2*time.Minute), 1, exceptionPayload{ExceptionID: exc.ID})
			return nil
		}
	}

	task := e.tasks[exc.TaskID]
	if task == nil {
		return nil
	}
	station, ok := e.pool.Get(task.AssignedStation)
	if !ok {
		return nil
	}

	preempted, started := e.exceptionHandler.Start(now, exc, station)
	if !started {
		e.queue.Schedule(entity.EventExceptionDetected, now.Add(2*time.Minute), 1, exceptionPayload{ExceptionID: exc.ID})
		return nil
	}

	if preempted != "" {
		if pt := e.tasks[preempted]; pt != nil {
			pt.Status = entity.TaskPaused
		}
	}

	e.queue.Schedule(entity.EventExceptionResolved,
		now.Add(time.Duration(exc.HandlingMinutes*float64(time.Minute))), 1, exceptionPayload{ExceptionID: exc.ID})
	return nil
}

// handleExceptionResolved releases the station back to the preempted task
// (if any), resuming it at 50% of its original fixed estimate, or simply
// idles the station if there was nothing to resume.
func (e *Engine) handleExceptionResolved(ev entity.Event) error {
	p := ev.Payload.(exceptionPayload)
	exc := e.exceptions[p.ExceptionID]
	now := e.queue.Now()
	if exc == nil {
		return nil
	}
	station, ok := e.pool.Get(exc.Station)
	if !ok {
		return nil
	}

	preempted := e.exceptionHandler.Resolve(now, exc, station)

	restartAt := now
	if pt := e.tasks[preempted]; pt != nil {
		remaining := pt.RemainingDuration()
		pt.Status = entity.TaskInProgress
		pt.ActualStart = now
		pt.ActualDuration = remaining

		station.Status = entity.StationBusy
		station.CurrentTask = pt.ID
		station.AssignedStaff = pt.AssignedStaff
		station.AvailableTime = now.Add(remaining)

		e.queue.Schedule(entity.EventTaskComplete, now.Add(remaining), 2, taskPayload{TaskID: pt.ID})
		restartAt = now.Add(remaining)
	}

	// A pre-roll exception consumed its own task's TASK_START without the
	// task ever running; once the station clears, give that task a fresh
	// start so it does not sit in ASSIGNED for the rest of the run.
	if own := e.tasks[exc.TaskID]; own != nil && own.ID != preempted && own.Status == entity.TaskAssigned {
		e.queue.Schedule(entity.EventTaskStart, restartAt, 2, taskPayload{TaskID: own.ID})
	}
	return nil
}

// handleOvertimeStart binds each overtime variant to a station: the one its
// original held when it was cancelled, or any free station on the variant's
// floor when the original was never placed. A station still running someone
// else's task, reserved for an exception, or already claimed this session
// is never bound over.
func (e *Engine) handleOvertimeStart(ev entity.Event) error {
	p := ev.Payload.(overtimePayload)
	now := e.queue.Now()

	used := make(map[entity.StationID]struct{})
	for i, v := range p.Session.Tasks {
		var station *entity.Station
		if i < len(p.Session.Stations) && p.Session.Stations[i] != "" {
			if st, ok := e.pool.Get(p.Session.Stations[i]); ok && !e.stationOccupied(st, used) {
				station = st
			}
		}
		if station == nil {
			if st, ok := e.pool.NextFree(v.Floor, now, used); ok {
				station = st
			}
		}
		if station == nil {
			e.log.Warn("overtime task has no station to bind", zap.String("task_id", string(v.ID)))
			continue
		}
		stationID := station.ID

		staffID := e.roster[stationID]
		if staffID != "" {
			if st, found := e.data.StaffByID(staffID); found &&
				e.staffMinutes[staffID]+v.EstimatedDurationMinutes > st.MaxHoursPerDay*60 {
				e.log.Warn("overtime task skipped: staff daily hours cap reached",
					zap.String("task_id", string(v.ID)),
					zap.String("staff_id", string(staffID)),
				)
				continue
			}
		}

		used[stationID] = struct{}{}
		completion := now.Add(time.Duration(v.EstimatedDurationMinutes * float64(time.Minute)))
		v.AssignedStation = stationID
		v.AssignedStaff = staffID
		v.Status = entity.TaskAssigned
		v.PlannedStart = now
		v.PlannedCompletion = completion

		station.CurrentTask = v.ID
		station.AssignedStaff = v.AssignedStaff
		station.Status = entity.StationBusy
		station.AvailableTime = completion

		e.queue.Schedule(entity.EventTaskStart, now, 2, taskPayload{TaskID: v.ID})
	}
	return nil
}

func (e *Engine) handleReceivingDeadlineCheck(ev entity.Event) error {
	p := ev.Payload.(dayPayload)
	now := e.queue.Now()

	overdue, dueToday := 0, 0
	for _, t := range e.tasks {
		if t.Type != entity.TaskReceiving || t.IsDone() {
			continue
		}
		switch {
		case t.IsOverdue:
			overdue++
		case sameCalendarDate(t.DeadlineDate, p.Date):
			dueToday++
		}
	}
	if overdue+dueToday > 0 {
		e.log.Info("receiving deadline check",
			zap.Time("at", now),
			zap.Int("overdue_incomplete", overdue),
			zap.Int("due_today_incomplete", dueToday),
		)
	}

	// Only the after-15:00 check converts the shortfall into an immediate
	// overtime session; the morning checks just observe.
	if now.Hour() < 15 {
		return nil
	}
	var due []*entity.Task
	for _, t := range e.tasks {
		if t.Type != entity.TaskReceiving || t.IsDone() || e.queuedForOT[t.ID] {
			continue
		}
		if !t.IsOverdue && !sameCalendarDate(t.DeadlineDate, p.Date) {
			continue
		}
		due = append(due, t)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	for _, t := range due {
		e.queuedForOT[t.ID] = true
		e.overtimeBacklog = append(e.overtimeBacklog, t)
	}
	e.planOvertime(now)
	return nil
}

func (e *Engine) handleEndOfDayProcessing(ev entity.Event) error {
	p := ev.Payload.(dayPayload)
	var due []*entity.Task
	for _, t := range e.tasks {
		if t.IsDone() || e.queuedForOT[t.ID] {
			continue
		}
		switch {
		case t.Type == entity.TaskShipping && t.PriorityClass == entity.PriorityP3:
			due = append(due, t)
		case t.Type == entity.TaskReceiving && (t.IsOverdue || sameCalendarDate(t.DeadlineDate, p.Date)):
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	for _, t := range due {
		e.queuedForOT[t.ID] = true
		e.overtimeBacklog = append(e.overtimeBacklog, t)
	}
	e.planOvertime(e.queue.Now())
	return nil
}

// planOvertime converts the accumulated backlog into one overtime session.
// Cleared unconditionally up front so a task that Plan declines to convert
// (overtime disabled) isn't retried forever.
func (e *Engine) planOvertime(now time.Time) {
	if len(e.overtimeBacklog) == 0 {
		return
	}
	tasks := e.overtimeBacklog
	e.overtimeBacklog = nil
	for _, t := range tasks {
		delete(e.queuedForOT, t.ID)
	}

	session, variants := e.overtimeEngine.Plan(now, tasks, e.nextTaskID)
	if len(variants) == 0 {
		e.validationResult.AddError(validation.CodeCapacityExhausted,
			fmt.Sprintf("%d task(s) missed their placement window and overtime produced no session", len(tasks)))
		return
	}

	e.tasksCancelled += len(tasks)
	for _, v := range variants {
		e.tasks[v.ID] = v
		e.totalTasksSeen++
		if v.WaveID != "" {
			if w := e.waves[v.WaveID]; w != nil {
				w.AddTask(v.ID)
			}
		}
	}

	e.overtimeEpisodes++
	e.daySummary(now).OvertimeSessions++
	e.queue.Schedule(entity.EventOvertimeStart, session.Start, 1, overtimePayload{Session: session})
	e.queue.Schedule(entity.EventOvertimeEnd, session.End, 1, overtimePayload{Session: session})
}

func (e *Engine) handleSystemStatusUpdate() error {
	now := e.queue.Now()

	var stations []entity.Station
	for _, floor := range []entity.Floor{entity.Floor2, entity.Floor3, entity.Floor4} {
		for _, s := range e.pool.Floor(floor) {
			stations = append(stations, *s)
		}
	}

	taskCounts := make(map[entity.TaskStatus]int)
	for _, t := range e.tasks {
		taskCounts[t.Status]++
	}

	waveCounts := make(map[entity.WaveStatus]int)
	var waveProgress []float64
	for _, w := range e.waves {
		waveCounts[w.Status]++
		if len(w.TaskIDs) == 0 {
			continue
		}
		done := 0
		for _, id := range w.TaskIDs {
			if t := e.tasks[id]; t != nil && t.IsDone() {
				done++
			}
		}
		waveProgress = append(waveProgress, float64(done)/float64(len(w.TaskIDs)))
	}

	activeExceptions := 0
	for _, exc := range e.exceptions {
		if exc.IsActive() {
			activeExceptions++
		}
	}

	staffBusy := 0
	for _, s := range stations {
		if s.Status == entity.StationBusy || s.Status == entity.StationStartingUp {
			staffBusy++
		}
	}

	snap := metrics.Snapshot{
		TakenAt:          now,
		Stations:         stations,
		TaskStatusCounts: taskCounts,
		WaveStatusCounts: waveCounts,
		ActiveExceptions: activeExceptions,
		StaffBusy:        staffBusy,
		StaffPresent:     e.staffPresent,
	}

	e.lastMetrics = e.tracker.Record(snap, e.totalTasksSeen, e.tasksCompleted, waveProgress)
	return nil
}

// assignDelay draws the priority-scaled gap between a task's creation at
// schedule-generation time and its first TASK_ASSIGN attempt: P1 wave tasks get the shortest leash, P3 sub-warehouse tasks the
// longest, P2/P4 in between.
func (e *Engine) assignDelay(priority entity.PriorityClass) time.Duration {
	var lo, hi int
	switch priority {
	case entity.PriorityP1:
		lo, hi = 5, 15
	case entity.PriorityP2:
		lo, hi = 15, 45
	case entity.PriorityP3:
		lo, hi = 30, 90
	default:
		lo, hi = 20, 60
	}
	return time.Duration(e.rnd.IntRange(lo, hi)) * time.Minute
}

// stationOccupied reports whether a station cannot take an overtime variant
// right now: it is reserved for an exception, already claimed this session,
// or its current task is still running. A station whose current task was
// cancelled out from under it (the usual case for an inherited overtime
// station) counts as free even though its planned AvailableTime is stale.
func (e *Engine) stationOccupied(station *entity.Station, used map[entity.StationID]struct{}) bool {
	if _, taken := used[station.ID]; taken {
		return true
	}
	if station.Status == entity.StationReserved || station.Status == entity.StationMaintenance {
		return true
	}
	running := e.tasks[station.CurrentTask]
	return running != nil && running.Status == entity.TaskInProgress
}

// receivingPriorityClass maps the receiving classifier's urgency onto the
// shared P1-P4 scale: overdue receiving competes at P1, due-today/urgent at
// P2, and everything else rides the normal-receiving P4 lane.
func receivingPriorityClass(p entity.ReceivingPriority) entity.PriorityClass {
	switch p {
	case entity.ReceivingCritical:
		return entity.PriorityP1
	case entity.ReceivingUrgent:
		return entity.PriorityP2
	default:
		return entity.PriorityP4
	}
}

func sameCalendarDate(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
