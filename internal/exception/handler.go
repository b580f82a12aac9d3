// Package exception implements the Exception Handler: detection
// sampling, the leader-pool/station-reservation lifecycle, preemption of a
// running P1 task, and escalation.
package exception

import (
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/simrand"
)

// typeProfile is the fixed per-exception-type data the handler samples
// from: its relative likelihood, base priority, and (min, avg, max)
// handling-time tuple in minutes.
type typeProfile struct {
	exceptionType entity.ExceptionType
	weight        float64
	basePriority  entity.ExceptionPriority
	minMinutes    float64
	avgMinutes    float64
	maxMinutes    float64
}

// profiles is the fixed weight vector, base-priority map, and per-type
// (min, avg, max) handling-time tuple for each exception type.
var profiles = []typeProfile{
	{entity.ExceptionPickingError, 0.30, entity.ExceptionMedium, 8, 15, 25},
	{entity.ExceptionBarcodeUnreadable, 0.20, entity.ExceptionLow, 3, 8, 15},
	{entity.ExceptionInventoryShortage, 0.15, entity.ExceptionHigh, 10, 20, 45},
	{entity.ExceptionPackagingError, 0.15, entity.ExceptionMedium, 5, 10, 20},
	{entity.ExceptionItemDamage, 0.10, entity.ExceptionMedium, 5, 12, 30},
	{entity.ExceptionLocationError, 0.05, entity.ExceptionMedium, 8, 18, 35},
	{entity.ExceptionQualityIssue, 0.03, entity.ExceptionHigh, 20, 35, 90},
	{entity.ExceptionSystemError, 0.02, entity.ExceptionCritical, 15, 30, 60},
}

// Handler owns the leader pool and implements the detection/lifecycle
// transitions. It does not own the station pool — the scheduler passes in
// the station to reserve/release so ownership of shared resources stays
// centralized in the engine.
type Handler struct {
	cfg         config.Config
	leaderCount int
	leadersFree int
}

// NewHandler builds a Handler with a leader pool sized from configuration.
func NewHandler(cfg config.Config) *Handler {
	return &Handler{cfg: cfg, leaderCount: cfg.LeaderCount, leadersFree: cfg.LeaderCount}
}

// Roll decides whether an exception fires for a task about to start, using
// the configured per-task-type probability. Returns ok=false when no
// exception occurs.
func (h *Handler) Roll(task *entity.Task, rnd *simrand.Source) (entity.Exception, bool) {
	prob := h.cfg.ExceptionProbabilityShipping
	if task.Type == entity.TaskReceiving {
		prob = h.cfg.ExceptionProbabilityReceiving
	}
	if !rnd.Bernoulli(prob) {
		return entity.Exception{}, false
	}

	weights := make([]float64, len(profiles))
	for i, p := range profiles {
		weights[i] = p.weight
	}
	profile := profiles[rnd.WeightedIndex(weights)]

	priority := profile.basePriority
	if task.PriorityClass == entity.PriorityP1 {
		priority = raiseOne(priority)
	}

	handling := sampleHandlingMinutes(profile, priority, rnd)

	return entity.Exception{
		TaskID:          task.ID,
		Type:            profile.exceptionType,
		Priority:        priority,
		Status:          entity.ExceptionDetected,
		HandlingMinutes: handling,
	}, true
}

// sampleHandlingMinutes draws from a normal centered on the type's avg
// with stddev = (max-min)/4, clamps back into [min, max], then adjusts for
// the exception's final priority.
func sampleHandlingMinutes(p typeProfile, priority entity.ExceptionPriority, rnd *simrand.Source) float64 {
	base := rnd.Normal(p.avgMinutes, (p.maxMinutes-p.minMinutes)/4)
	if base < p.minMinutes {
		base = p.minMinutes
	}
	if base > p.maxMinutes {
		base = p.maxMinutes
	}

	switch priority {
	case entity.ExceptionCritical:
		base *= 0.8
	case entity.ExceptionLow:
		base *= 1.2
	}
	return base
}

func raiseOne(p entity.ExceptionPriority) entity.ExceptionPriority {
	switch p {
	case entity.ExceptionLow:
		return entity.ExceptionMedium
	case entity.ExceptionMedium:
		return entity.ExceptionHigh
	case entity.ExceptionHigh:
		return entity.ExceptionCritical
	default:
		return entity.ExceptionCritical
	}
}

// Assign implements the DETECTED -> ASSIGNED transition: takes one leader
// from the pool if any is free.
func (h *Handler) Assign(now time.Time, exc *entity.Exception) bool {
	if h.leadersFree <= 0 {
		return false
	}
	h.leadersFree--
	exc.Status = entity.ExceptionAssigned
	exc.AssignedAt = now
	return true
}

// Start implements the ASSIGNED -> IN_PROGRESS transition: reserves
// station, optionally preempting its current task when interruption is
// allowed and the exception's priority warrants it. The station holding the
// exception's own task is always reservable — that task cannot proceed
// while its exception is open, so the interruption policy does not apply.
func (h *Handler) Start(now time.Time, exc *entity.Exception, station *entity.Station) (preempted entity.TaskID, ok bool) {
	ownTask := exc.TaskID != "" && station.CurrentTask == exc.TaskID
	canPreempt := h.cfg.TaskInterruptionAllowed &&
		(exc.Priority == entity.ExceptionCritical || exc.Priority == entity.ExceptionHigh)

	if !station.IsFree(now) {
		switch {
		case ownTask:
			preempted = station.CurrentTask
		case canPreempt && station.Status == entity.StationBusy:
			preempted = station.CurrentTask
		default:
			return "", false
		}
	}

	station.Status = entity.StationReserved
	station.ReservedForException = true
	exc.Station = station.ID
	exc.PreemptedTask = preempted
	exc.Status = entity.ExceptionInProgress
	return preempted, true
}

// Resolve implements the IN_PROGRESS -> RESOLVED transition: releases the
// leader and the station, and returns the preempted task id (if any) so
// the caller can resume it at 50% of its original duration.
func (h *Handler) Resolve(now time.Time, exc *entity.Exception, station *entity.Station) entity.TaskID {
	exc.Status = entity.ExceptionResolved
	exc.ResolvedAt = now
	h.leadersFree++

	station.ReservedForException = false
	station.Release()

	return exc.PreemptedTask
}

// Escalate applies the escalation predicate: elapsed time in
// ASSIGNED exceeding the configured threshold, an immediate-escalation
// CRITICAL exception still in ASSIGNED, or more than 10 minutes spent in
// DETECTED.
func (h *Handler) Escalate(now time.Time, exc *entity.Exception) bool {
	switch exc.Status {
	case entity.ExceptionAssigned:
		if now.Sub(exc.AssignedAt) > h.cfg.EscalationTimeThreshold {
			exc.Priority = raiseOne(exc.Priority)
			return true
		}
		if exc.Priority == entity.ExceptionCritical && h.cfg.CriticalExceptionImmediateEscalation {
			return true
		}
	case entity.ExceptionDetected:
		if now.Sub(exc.DetectedAt) > 10*time.Minute {
			exc.Priority = raiseOne(exc.Priority)
			exc.Status = entity.ExceptionEscalated
			return true
		}
	}
	return false
}
