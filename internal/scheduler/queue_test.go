package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/entity"
)

func TestPopOrdersByScheduledTime(t *testing.T) {
	start := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	q := NewQueue(start)

	q.Schedule(entity.EventTaskStart, start.Add(2*time.Hour), 1, nil)
	q.Schedule(entity.EventTaskComplete, start.Add(1*time.Hour), 1, nil)

	ev, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, entity.EventTaskComplete, ev.Type)

	ev, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, entity.EventTaskStart, ev.Type)
}

func TestPopBreaksTiesByPriorityThenInsertionOrder(t *testing.T) {
	start := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	q := NewQueue(start)
	at := start.Add(time.Hour)

	q.Schedule(entity.EventTaskComplete, at, 3, nil)
	q.Schedule(entity.EventStationBecomeIdle, at, 3, nil)
	q.Schedule(entity.EventSystemStatusUpdate, at, 1, nil)

	ev, _ := q.Pop()
	assert.Equal(t, entity.EventSystemStatusUpdate, ev.Type, "lower priority number dispatches first")

	ev, _ = q.Pop()
	assert.Equal(t, entity.EventTaskComplete, ev.Type, "same (time,priority) preserves insertion order")

	ev, _ = q.Pop()
	assert.Equal(t, entity.EventStationBecomeIdle, ev.Type)
}

func TestNowAdvancesToPoppedEventTime(t *testing.T) {
	start := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)
	q := NewQueue(start)
	assert.Equal(t, start, q.Now())

	at := start.Add(90 * time.Minute)
	q.Schedule(entity.EventTaskStart, at, 1, nil)
	q.Pop()
	assert.Equal(t, at, q.Now())
}

func TestPopEmptyQueueReturnsFalse(t *testing.T) {
	q := NewQueue(time.Now())
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestLenTracksQueueSize(t *testing.T) {
	q := NewQueue(time.Now())
	assert.Equal(t, 0, q.Len())
	q.Schedule(entity.EventTaskStart, time.Now(), 1, nil)
	q.Schedule(entity.EventTaskComplete, time.Now(), 1, nil)
	assert.Equal(t, 2, q.Len())
	q.Pop()
	assert.Equal(t, 1, q.Len())
}
