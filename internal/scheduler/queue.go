// Package scheduler implements the Clock & Event Queue: a min-heap of
// future events ordered by (scheduled_time, priority, insertion order),
// whose clock advances to each popped event's time. The dispatch loop that
// pops and handles events lives in engine.Run.
package scheduler

import (
	"container/heap"
	"time"

	"github.com/warehousesim/core/internal/entity"
)

// queuedEvent wraps entity.Event with the heap bookkeeping the scheduler
// package needs (insertion sequence for stable tie-breaking, heap index for
// container/heap). These fields can't live on entity.Event itself — that
// type is shared across packages that have no business setting unexported
// scheduler internals.
type queuedEvent struct {
	entity.Event
	seq   uint64
	index int
}

// eventHeap implements heap.Interface over queuedEvent pointers, ordered by
// (ScheduledTime, Priority, seq) — the last term gives the stable,
// insertion-order tie-break dispatch relies on.
type eventHeap []*queuedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if !a.ScheduledTime.Equal(b.ScheduledTime) {
		return a.ScheduledTime.Before(b.ScheduledTime)
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x interface{}) {
	qe := x.(*queuedEvent)
	qe.index = len(*h)
	*h = append(*h, qe)
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue is the simulation's event queue: a min-heap plus a monotonically
// advancing clock.
type Queue struct {
	heap    eventHeap
	nextSeq uint64
	clock   time.Time
}

// NewQueue builds an empty Queue with the clock initialized to start.
func NewQueue(start time.Time) *Queue {
	q := &Queue{clock: start}
	heap.Init(&q.heap)
	return q
}

// Schedule enqueues an event for dispatch at the given time and priority.
func (q *Queue) Schedule(eventType entity.EventType, at time.Time, priority int, payload interface{}) {
	qe := &queuedEvent{
		Event: entity.Event{
			ScheduledTime: at,
			Priority:      priority,
			Type:          eventType,
			Payload:       payload,
		},
		seq: q.nextSeq,
	}
	q.nextSeq++
	heap.Push(&q.heap, qe)
}

// Pop removes and returns the earliest-ordered event, advancing the clock
// to its ScheduledTime. Returns ok=false when the queue is empty.
func (q *Queue) Pop() (entity.Event, bool) {
	if q.heap.Len() == 0 {
		return entity.Event{}, false
	}
	qe := heap.Pop(&q.heap).(*queuedEvent)
	q.clock = qe.ScheduledTime
	return qe.Event, true
}

// Len reports the number of events still queued.
func (q *Queue) Len() int { return q.heap.Len() }

// Now returns the current simulated clock.
func (q *Queue) Now() time.Time { return q.clock }
