// Package engine implements the scheduler-driven day loop: the top-level
// orchestrator that wires the Clock & Event Queue, the classifiers, the
// Staged Assignment Controller, the Exception Handler, the Overtime Engine
// and the State Tracker into the event-handler loop, and
// owns the one mutable copy of every live Task, DeliveryWave and Exception
// for the run.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/warehousesim/core/internal/assignment"
	"github.com/warehousesim/core/internal/classify"
	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/exception"
	"github.com/warehousesim/core/internal/masterdata"
	"github.com/warehousesim/core/internal/metrics"
	"github.com/warehousesim/core/internal/overtime"
	"github.com/warehousesim/core/internal/repository"
	"github.com/warehousesim/core/internal/scheduler"
	"github.com/warehousesim/core/internal/simrand"
	"github.com/warehousesim/core/internal/staffroster"
	"github.com/warehousesim/core/internal/station"
	"github.com/warehousesim/core/internal/taskmodel"
	"github.com/warehousesim/core/internal/validation"
	"github.com/warehousesim/core/internal/wave"
)

// DaySummary is the per-simulated-day rollup kept for the final Results.
type DaySummary struct {
	Date             time.Time
	TasksCompleted   int
	TasksCancelled   int
	ExceptionsRaised int
	OvertimeSessions int
}

// Results is the full outcome of one Run, returned to the caller and
// persisted via repository.SimulationRunRepository.
type Results struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Seed       int64

	Validation *validation.Result

	DailySummaries []DaySummary
	FinalMetrics   metrics.SystemMetrics

	TasksCompleted   int
	TasksCancelled   int
	ExceptionsRaised int
	OvertimeEpisodes int
	LateShipments    int
}

// Engine is the top-level orchestrator. It is built once per run via New
// and Initialize, then driven to completion by Run. Not safe for
// concurrent use — the event loop is single-threaded.
type Engine struct {
	cfg config.Config
	log *zap.Logger
	db  repository.Database
	data *masterdata.Facade
	rnd  *simrand.Source

	queue               *scheduler.Queue
	pool                *station.Pool
	catalog             *wave.Catalog
	orderClassifier     *classify.OrderClassifier
	receivingClassifier *classify.ReceivingClassifier
	estimator           *taskmodel.Estimator
	controller          *assignment.Controller
	exceptionHandler    *exception.Handler
	overtimeEngine      *overtime.Engine
	tracker             *metrics.Tracker
	rosterGen           *staffroster.Generator

	tasks           map[entity.TaskID]*entity.Task
	waves           map[entity.WaveID]*entity.DeliveryWave
	exceptions      map[entity.ExceptionID]*entity.Exception
	dispatchedWaves map[entity.WaveID]bool
	roster          assignment.RosterStation
	staffPresent    int
	staffMinutes    map[entity.StaffID]float64
	overtimeBacklog []*entity.Task
	queuedForOT     map[entity.TaskID]bool

	taskSeq uint64

	startDate time.Time
	endDate   time.Time
	runID     uuid.UUID
	startedAt time.Time

	daySummaries map[string]*DaySummary

	validationResult *validation.Result
	lastMetrics      metrics.SystemMetrics

	totalTasksSeen   int
	tasksCompleted   int
	tasksCancelled   int
	exceptionsRaised int
	overtimeEpisodes int
	lateShipments    int
}

// New builds an Engine bound to the given configuration, master-data facade
// and storage handle. Call Initialize before Run.
func New(cfg config.Config, db repository.Database, data *masterdata.Facade, log *zap.Logger) *Engine {
	return &Engine{
		cfg:  cfg,
		log:  log,
		db:   db,
		data: data,

		tasks:           make(map[entity.TaskID]*entity.Task),
		waves:           make(map[entity.WaveID]*entity.DeliveryWave),
		exceptions:      make(map[entity.ExceptionID]*entity.Exception),
		dispatchedWaves: make(map[entity.WaveID]bool),
		staffMinutes:    make(map[entity.StaffID]float64),
		queuedForOT:     make(map[entity.TaskID]bool),
		daySummaries:    make(map[string]*DaySummary),

		validationResult: validation.NewResult(),
	}
}

// Initialize builds every subsystem from master data and seeds the event
// queue with each day's bookend events across [startDate, endDate]
// (inclusive). Weekends are skipped by the waves but not by the daily
// handlers themselves — roster generation and receiving checks still run
// seven days a week even when no shipping wave exists that day.
func (e *Engine) Initialize(startDate, endDate time.Time, seed int64) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	e.cfg.RandomSeed = seed
	e.rnd = simrand.New(seed)
	e.runID = uuid.New()
	e.startDate = startDate
	e.endDate = endDate

	e.pool = station.NewPool(e.data.AllStationCapacities())
	e.catalog = wave.NewCatalog(e.data.AllRoutes())
	e.orderClassifier = classify.NewOrderClassifier(e.cfg, e.data)
	e.receivingClassifier = classify.NewReceivingClassifier(e.cfg)
	e.estimator = taskmodel.NewEstimator(e.cfg)
	e.controller = assignment.NewController(e.cfg, e.pool)
	e.exceptionHandler = exception.NewHandler(e.cfg)
	e.overtimeEngine = overtime.NewEngine(e.cfg)
	e.tracker = metrics.NewTracker(e.log, 2000)
	e.rosterGen = staffroster.NewGenerator(e.cfg, e.data)

	dayStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	e.queue = scheduler.NewQueue(dayStart)
	e.startedAt = dayStart

	e.queue.Schedule(entity.EventSimulationStart, dayStart, 0, nil)

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		e.scheduleDay(d)
	}

	endOfRun := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, endDate.Location())
	e.queue.Schedule(entity.EventSimulationEnd, endOfRun, 0, nil)

	return nil
}

// scheduleDay enqueues one simulated day's fixed-time bookend events.
func (e *Engine) scheduleDay(date time.Time) {
	at := func(hour, minute int) time.Time {
		return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
	}

	e.queue.Schedule(entity.EventDailyScheduleGenerate, at(6, 0), 1, dayPayload{Date: date})
	e.queue.Schedule(entity.EventReceivingLoad, at(8, 0), 1, dayPayload{Date: date})
	e.queue.Schedule(entity.EventReceivingDeadlineCheck, at(10, 0), 2, dayPayload{Date: date})
	e.queue.Schedule(entity.EventReceivingDeadlineCheck, at(14, 0), 2, dayPayload{Date: date})
	e.queue.Schedule(entity.EventReceivingDeadlineCheck, at(16, 0), 2, dayPayload{Date: date})
	e.queue.Schedule(entity.EventEndOfDayProcessing, at(17, 0), 1, dayPayload{Date: date})

	interval := e.cfg.OvertimeEvaluationIntervalMinutes
	if interval <= 0 {
		interval = 120
	}
	for m := 8 * 60; m <= 20*60; m += interval {
		e.queue.Schedule(entity.EventOvertimeEvaluation, at(m/60, m%60), 2, dayPayload{Date: date})
	}

	for hour := 8; hour <= 18; hour++ {
		e.queue.Schedule(entity.EventSystemStatusUpdate, at(hour, 0), 3, nil)
	}
}

// MetricsRegistry exposes the metrics tracker's Prometheus registry so a caller
// can serve it over HTTP (e.g. promhttp.HandlerFor) alongside the run;
// the core itself never opens a listener.
func (e *Engine) MetricsRegistry() *prometheus.Registry {
	return e.tracker.Registry()
}

// Run drains the event queue, dispatching each popped event to its handler,
// until the queue empties or ctx is cancelled. It returns the final Results
// and persists a SimulationRunSummary via the configured repository.
func (e *Engine) Run(ctx context.Context) (*Results, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ev, ok := e.queue.Pop()
		if !ok {
			break
		}

		if err := e.dispatch(ctx, ev); err != nil {
			e.log.Error("event handler failed",
				zap.String("event_type", string(ev.Type)),
				zap.Time("scheduled_time", ev.ScheduledTime),
				zap.Error(err),
			)
		}

		if ev.Type == entity.EventSimulationEnd {
			break
		}
	}

	return e.finish(ctx)
}

func (e *Engine) finish(ctx context.Context) (*Results, error) {
	finishedAt := e.queue.Now()

	summaries := make([]DaySummary, 0, len(e.daySummaries))
	for _, s := range e.daySummaries {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date.Before(summaries[j].Date) })

	results := &Results{
		RunID:            e.runID,
		StartedAt:        e.startedAt,
		FinishedAt:       finishedAt,
		Seed:             e.cfg.RandomSeed,
		Validation:       e.validationResult,
		DailySummaries:   summaries,
		FinalMetrics:     e.lastMetrics,
		TasksCompleted:   e.tasksCompleted,
		TasksCancelled:   e.tasksCancelled,
		ExceptionsRaised: e.exceptionsRaised,
		OvertimeEpisodes: e.overtimeEpisodes,
		LateShipments:    e.lateShipments,
	}

	summary := &repository.SimulationRunSummary{
		ID:               e.runID,
		StartedAt:        e.startedAt,
		FinishedAt:       finishedAt,
		RandomSeed:       e.cfg.RandomSeed,
		TasksCompleted:   e.tasksCompleted,
		TasksCancelled:   e.tasksCancelled,
		ExceptionsRaised: e.exceptionsRaised,
		OvertimeEpisodes: e.overtimeEpisodes,
		LateShipments:    e.lateShipments,
		Notes:            e.validationResult.Summary(),
	}
	if err := e.db.SimulationRunRepository().Create(ctx, summary); err != nil {
		return results, fmt.Errorf("persisting simulation run summary: %w", err)
	}

	return results, nil
}

func (e *Engine) nextTaskID() entity.TaskID {
	e.taskSeq++
	return entity.TaskID(fmt.Sprintf("TASK-%08d", e.taskSeq))
}

func (e *Engine) daySummary(date time.Time) *DaySummary {
	key := date.Format("2006-01-02")
	s, ok := e.daySummaries[key]
	if !ok {
		s = &DaySummary{Date: date}
		e.daySummaries[key] = s
	}
	return s
}

func atClock(day time.Time, t entity.ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, t.Second, 0, day.Location())
}
