package overtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

func idGenerator() func() entity.TaskID {
	n := 0
	return func() entity.TaskID {
		n++
		return entity.TaskID("OT-" + string(rune('A'+n)))
	}
}

func TestPlanDisabledReturnsNothing(t *testing.T) {
	cfg := config.Default()
	cfg.OvertimeEnabled = false
	e := NewEngine(cfg)

	task := &entity.Task{ID: "T1", EstimatedDurationMinutes: 60}
	session, variants := e.Plan(time.Now(), []*entity.Task{task}, idGenerator())
	assert.Nil(t, variants)
	assert.True(t, session.Start.IsZero())
}

func TestPlanProducesOvertimeVariantAndCancelsOriginal(t *testing.T) {
	cfg := config.Default()
	cfg.OvertimeEnabled = true
	e := NewEngine(cfg)
	now := time.Date(2026, 8, 3, 17, 0, 0, 0, time.UTC)

	task := &entity.Task{
		ID:                       "T1",
		Type:                     entity.TaskShipping,
		PriorityClass:            entity.PriorityP3,
		EstimatedDurationMinutes: 120,
		AssignedStation:          "ST3F01",
		Status:                   entity.TaskAssigned,
	}

	session, variants := e.Plan(now, []*entity.Task{task}, idGenerator())
	require.Len(t, variants, 1)
	assert.Equal(t, entity.TaskCancelled, task.Status)
	assert.Equal(t, entity.TaskOvertime, variants[0].Type)
	assert.Equal(t, entity.PriorityP1, variants[0].PriorityClass)
	assert.Equal(t, task.ID, variants[0].OvertimeOf)
	assert.Equal(t, entity.TaskPending, variants[0].Status)
	assert.Contains(t, session.Stations, entity.StationID("ST3F01"))
	assert.True(t, session.End.After(session.Start))
}

func TestPlanClampsToMaxOvertimeHours(t *testing.T) {
	cfg := config.Default()
	cfg.OvertimeEnabled = true
	cfg.MaxOvertimeHours = 2
	cfg.OvertimeEndTime = "23:59"
	e := NewEngine(cfg)
	now := time.Date(2026, 8, 3, 17, 0, 0, 0, time.UTC)

	// 1200 minutes remaining would need 20 hours; clamp to the 2-hour cap.
	task := &entity.Task{ID: "T1", EstimatedDurationMinutes: 1200}
	session, _ := e.Plan(now, []*entity.Task{task}, idGenerator())

	assert.InDelta(t, 2*time.Hour, session.End.Sub(session.Start), float64(time.Minute))
}

func TestPlanClampsEndToOvertimeEndTime(t *testing.T) {
	cfg := config.Default()
	cfg.OvertimeEnabled = true
	cfg.MaxOvertimeHours = 10
	cfg.OvertimeEndTime = "18:00"
	e := NewEngine(cfg)
	now := time.Date(2026, 8, 3, 17, 0, 0, 0, time.UTC)

	task := &entity.Task{ID: "T1", EstimatedDurationMinutes: 600}
	session, _ := e.Plan(now, []*entity.Task{task}, idGenerator())

	cap := time.Date(2026, 8, 3, 18, 0, 0, 0, time.UTC)
	assert.True(t, !session.End.After(cap))
}
