// Package metrics implements the State Tracker & Metrics component:
// a fixed-size ring buffer of periodic snapshots, diff-based structured
// change events, and the rolling SystemMetrics computation, exported via
// Prometheus gauges for external scraping.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/warehousesim/core/internal/entity"
)

// Snapshot is one point-in-time capture of the system, the unit stored in
// the ring buffer.
type Snapshot struct {
	TakenAt           time.Time
	Stations          []entity.Station
	TaskStatusCounts  map[entity.TaskStatus]int
	WaveStatusCounts  map[entity.WaveStatus]int
	ActiveExceptions  int
	StaffBusy         int
	StaffPresent      int
}

// SystemMetrics is the rolling health rollup computed from each snapshot.
type SystemMetrics struct {
	WorkstationUtilization float64
	TaskCompletionRate     float64
	WaveProgressAvg        float64
	ActiveExceptions       int
	StaffUtilization       float64
	OverallEfficiency      float64
}

// Tracker owns the ring buffer and the Prometheus collectors. Collectors
// are constructor-injected into a dedicated registry rather than the
// default global one, so multiple simulation runs in the same process
// don't collide on metric registration.
type Tracker struct {
	log *zap.Logger

	buffer   []Snapshot
	capacity int
	next     int
	filled   bool

	registry *prometheus.Registry

	utilizationGauge prometheus.Gauge
	completionGauge  prometheus.Gauge
	waveProgressGauge prometheus.Gauge
	exceptionsGauge  prometheus.Gauge
	staffUtilGauge   prometheus.Gauge
	efficiencyGauge  prometheus.Gauge
}

// NewTracker builds a Tracker with a ring buffer of the given capacity.
func NewTracker(log *zap.Logger, capacity int) *Tracker {
	if capacity <= 0 {
		capacity = 500
	}
	registry := prometheus.NewRegistry()

	t := &Tracker{
		log:      log,
		buffer:   make([]Snapshot, capacity),
		capacity: capacity,
		registry: registry,
		utilizationGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehousesim", Name: "workstation_utilization_ratio",
			Help: "Fraction of stations currently BUSY or STARTING_UP.",
		}),
		completionGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehousesim", Name: "task_completion_rate",
			Help: "COMPLETED tasks over total tasks seen so far.",
		}),
		waveProgressGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehousesim", Name: "wave_progress_avg",
			Help: "Average fraction of completed tasks across active waves.",
		}),
		exceptionsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehousesim", Name: "active_exceptions",
			Help: "Count of exceptions not yet RESOLVED.",
		}),
		staffUtilGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehousesim", Name: "staff_utilization_ratio",
			Help: "Busy staff over present staff.",
		}),
		efficiencyGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehousesim", Name: "overall_efficiency",
			Help: "Mean of the other ratios, penalized by active exception count.",
		}),
	}

	registry.MustRegister(
		t.utilizationGauge, t.completionGauge, t.waveProgressGauge,
		t.exceptionsGauge, t.staffUtilGauge, t.efficiencyGauge,
	)

	return t
}

// Registry exposes the Prometheus registry for an HTTP handler to serve.
func (t *Tracker) Registry() *prometheus.Registry { return t.registry }

// Record appends a snapshot to the ring buffer (overwriting the oldest
// entry once full), logs a structured change event against the previous
// snapshot, computes SystemMetrics, and updates the Prometheus gauges.
func (t *Tracker) Record(snap Snapshot, totalTasksSeen, tasksCompleted int, waveProgress []float64) SystemMetrics {
	prev := t.latest()
	t.buffer[t.next] = snap
	t.next = (t.next + 1) % t.capacity
	if t.next == 0 {
		t.filled = true
	}

	if prev != nil {
		t.logDiff(*prev, snap)
	}

	m := t.compute(snap, totalTasksSeen, tasksCompleted, waveProgress)
	t.utilizationGauge.Set(m.WorkstationUtilization)
	t.completionGauge.Set(m.TaskCompletionRate)
	t.waveProgressGauge.Set(m.WaveProgressAvg)
	t.exceptionsGauge.Set(float64(m.ActiveExceptions))
	t.staffUtilGauge.Set(m.StaffUtilization)
	t.efficiencyGauge.Set(m.OverallEfficiency)

	return m
}

func (t *Tracker) latest() *Snapshot {
	if !t.filled && t.next == 0 {
		return nil
	}
	idx := t.next - 1
	if idx < 0 {
		idx = t.capacity - 1
	}
	return &t.buffer[idx]
}

func (t *Tracker) logDiff(prev, curr Snapshot) {
	for status, count := range curr.TaskStatusCounts {
		if prev.TaskStatusCounts[status] != count {
			t.log.Debug("task status count changed",
				zap.String("status", string(status)),
				zap.Int("previous", prev.TaskStatusCounts[status]),
				zap.Int("current", count),
			)
		}
	}
	if prev.ActiveExceptions != curr.ActiveExceptions {
		t.log.Info("active exception count changed",
			zap.Int("previous", prev.ActiveExceptions),
			zap.Int("current", curr.ActiveExceptions),
		)
	}
}

func (t *Tracker) compute(snap Snapshot, totalTasksSeen, tasksCompleted int, waveProgress []float64) SystemMetrics {
	busy := 0
	for _, s := range snap.Stations {
		if s.Status == entity.StationBusy || s.Status == entity.StationStartingUp {
			busy++
		}
	}
	util := ratio(busy, len(snap.Stations))
	completion := ratio(tasksCompleted, totalTasksSeen)

	var waveAvg float64
	if len(waveProgress) > 0 {
		sum := 0.0
		for _, p := range waveProgress {
			sum += p
		}
		waveAvg = sum / float64(len(waveProgress))
	}

	staffUtil := ratio(snap.StaffBusy, snap.StaffPresent)

	mean := (util + completion + waveAvg + staffUtil) / 4
	efficiency := mean*100 - float64(snap.ActiveExceptions)
	if efficiency > 100 {
		efficiency = 100
	}
	if efficiency < 0 {
		efficiency = 0
	}

	return SystemMetrics{
		WorkstationUtilization: util,
		TaskCompletionRate:     completion,
		WaveProgressAvg:        waveAvg,
		ActiveExceptions:       snap.ActiveExceptions,
		StaffUtilization:       staffUtil,
		OverallEfficiency:      efficiency,
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
