package exception

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/simrand"
)

func TestRollNeverFiresWithZeroProbability(t *testing.T) {
	cfg := config.Default()
	cfg.ExceptionProbabilityShipping = 0
	cfg.ExceptionProbabilityReceiving = 0
	h := NewHandler(cfg)
	rnd := simrand.New(1)

	task := &entity.Task{Type: entity.TaskShipping, PriorityClass: entity.PriorityP2}
	_, fired := h.Roll(task, rnd)
	assert.False(t, fired)
}

func TestRollAlwaysFiresWithFullProbability(t *testing.T) {
	cfg := config.Default()
	cfg.ExceptionProbabilityShipping = 1
	h := NewHandler(cfg)
	rnd := simrand.New(2)

	task := &entity.Task{Type: entity.TaskShipping, PriorityClass: entity.PriorityP1}
	exc, fired := h.Roll(task, rnd)
	require.True(t, fired)
	assert.Equal(t, entity.ExceptionDetected, exc.Status)
	assert.Greater(t, exc.HandlingMinutes, 0.0)
}

func TestRollRaisesPriorityForP1Task(t *testing.T) {
	cfg := config.Default()
	cfg.ExceptionProbabilityShipping = 1
	h := NewHandler(cfg)

	p1 := &entity.Task{Type: entity.TaskShipping, PriorityClass: entity.PriorityP1}
	p2 := &entity.Task{Type: entity.TaskShipping, PriorityClass: entity.PriorityP2}

	// Same profile draw (fixed seed per handler), but P1 task gets raised
	// one severity level relative to P2.
	rnd1 := simrand.New(9)
	rnd2 := simrand.New(9)
	excP1, _ := h.Roll(p1, rnd1)
	excP2, _ := h.Roll(p2, rnd2)

	order := map[entity.ExceptionPriority]int{
		entity.ExceptionLow: 0, entity.ExceptionMedium: 1, entity.ExceptionHigh: 2, entity.ExceptionCritical: 3,
	}
	assert.GreaterOrEqual(t, order[excP1.Priority], order[excP2.Priority])
}

func TestAssignConsumesLeaderFromPool(t *testing.T) {
	cfg := config.Default()
	cfg.LeaderCount = 1
	h := NewHandler(cfg)
	now := time.Now()

	exc1 := &entity.Exception{Status: entity.ExceptionDetected}
	require.True(t, h.Assign(now, exc1))
	assert.Equal(t, entity.ExceptionAssigned, exc1.Status)

	exc2 := &entity.Exception{Status: entity.ExceptionDetected}
	assert.False(t, h.Assign(now, exc2), "leader pool of size 1 is exhausted")
}

func TestStartReservesFreeStationWithoutPreemption(t *testing.T) {
	cfg := config.Default()
	h := NewHandler(cfg)
	now := time.Now()

	station := &entity.Station{ID: "ST3F01", Status: entity.StationIdle}
	exc := &entity.Exception{Priority: entity.ExceptionMedium}

	preempted, ok := h.Start(now, exc, station)
	require.True(t, ok)
	assert.Empty(t, preempted)
	assert.Equal(t, entity.StationReserved, station.Status)
	assert.True(t, station.ReservedForException)
}

func TestStartPreemptsBusyStationWhenCriticalAndAllowed(t *testing.T) {
	cfg := config.Default()
	cfg.TaskInterruptionAllowed = true
	h := NewHandler(cfg)
	now := time.Now()

	station := &entity.Station{ID: "ST3F01", Status: entity.StationBusy, CurrentTask: "T1", AvailableTime: now.Add(time.Hour)}
	exc := &entity.Exception{Priority: entity.ExceptionCritical}

	preempted, ok := h.Start(now, exc, station)
	require.True(t, ok)
	assert.Equal(t, entity.TaskID("T1"), preempted)
	assert.Equal(t, entity.StationReserved, station.Status)
}

func TestStartReservesOwnTaskStationRegardlessOfPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.TaskInterruptionAllowed = false
	h := NewHandler(cfg)
	now := time.Now()

	// The station is still spinning up for the very task the exception was
	// detected on; the leader takes it even though interruption is off and
	// the priority is low.
	station := &entity.Station{ID: "ST3F01", Status: entity.StationStartingUp, CurrentTask: "T1", AvailableTime: now.Add(10 * time.Minute)}
	exc := &entity.Exception{TaskID: "T1", Priority: entity.ExceptionLow}

	preempted, ok := h.Start(now, exc, station)
	require.True(t, ok)
	assert.Equal(t, entity.TaskID("T1"), preempted)
	assert.Equal(t, entity.StationReserved, station.Status)
	assert.True(t, station.ReservedForException)
}

func TestStartDeniedWhenPreemptionNotAllowed(t *testing.T) {
	cfg := config.Default()
	cfg.TaskInterruptionAllowed = false
	h := NewHandler(cfg)
	now := time.Now()

	station := &entity.Station{ID: "ST3F01", Status: entity.StationBusy, CurrentTask: "T1", AvailableTime: now.Add(time.Hour)}
	exc := &entity.Exception{Priority: entity.ExceptionCritical}

	_, ok := h.Start(now, exc, station)
	assert.False(t, ok)
}

func TestStartDeniedForLowPriorityOnBusyStation(t *testing.T) {
	cfg := config.Default()
	cfg.TaskInterruptionAllowed = true
	h := NewHandler(cfg)
	now := time.Now()

	station := &entity.Station{ID: "ST3F01", Status: entity.StationBusy, CurrentTask: "T1", AvailableTime: now.Add(time.Hour)}
	exc := &entity.Exception{Priority: entity.ExceptionLow}

	_, ok := h.Start(now, exc, station)
	assert.False(t, ok)
}

func TestResolveReleasesLeaderAndStation(t *testing.T) {
	cfg := config.Default()
	cfg.LeaderCount = 1
	h := NewHandler(cfg)
	now := time.Now()

	exc := &entity.Exception{Status: entity.ExceptionDetected}
	h.Assign(now, exc)

	station := &entity.Station{ID: "ST3F01", Status: entity.StationReserved, ReservedForException: true}
	exc.PreemptedTask = "T1"
	preempted := h.Resolve(now, exc, station)

	assert.Equal(t, entity.TaskID("T1"), preempted)
	assert.Equal(t, entity.ExceptionResolved, exc.Status)
	assert.Equal(t, entity.StationIdle, station.Status)
	assert.False(t, station.ReservedForException)

	// Leader pool is replenished: a fresh exception can be assigned again.
	exc2 := &entity.Exception{Status: entity.ExceptionDetected}
	assert.True(t, h.Assign(now, exc2))
}

func TestEscalateOnLongWaitInDetected(t *testing.T) {
	cfg := config.Default()
	h := NewHandler(cfg)
	now := time.Now()

	exc := &entity.Exception{Status: entity.ExceptionDetected, Priority: entity.ExceptionMedium, DetectedAt: now.Add(-11 * time.Minute)}
	escalated := h.Escalate(now, exc)
	assert.True(t, escalated)
	assert.Equal(t, entity.ExceptionEscalated, exc.Status)
	assert.Equal(t, entity.ExceptionHigh, exc.Priority)
}

func TestEscalateCriticalInAssignedWhenImmediateEscalationEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.CriticalExceptionImmediateEscalation = true
	h := NewHandler(cfg)
	now := time.Now()

	exc := &entity.Exception{Status: entity.ExceptionAssigned, Priority: entity.ExceptionCritical, AssignedAt: now}
	assert.True(t, h.Escalate(now, exc))
}

func TestEscalateNotTriggeredBeforeThreshold(t *testing.T) {
	cfg := config.Default()
	h := NewHandler(cfg)
	now := time.Now()

	exc := &entity.Exception{Status: entity.ExceptionAssigned, Priority: entity.ExceptionMedium, AssignedAt: now}
	assert.False(t, h.Escalate(now, exc))
}
