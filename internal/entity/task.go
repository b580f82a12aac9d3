package entity

import "time"

// TaskType discriminates the three task variants the scheduler drives.
type TaskType string

const (
	TaskShipping  TaskType = "SHIPPING"
	TaskReceiving TaskType = "RECEIVING"
	TaskOvertime  TaskType = "OVERTIME"
)

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskPending     TaskStatus = "PENDING"
	TaskAssigned    TaskStatus = "ASSIGNED"
	TaskInProgress  TaskStatus = "IN_PROGRESS"
	TaskCompleted   TaskStatus = "COMPLETED"
	TaskPaused      TaskStatus = "PAUSED"
	TaskCancelled   TaskStatus = "CANCELLED"
)

// Task is the unified shipping/receiving/overtime record. Only the fields
// relevant to the task's type are populated.
type Task struct {
	ID             TaskID
	Type           TaskType
	PriorityClass  PriorityClass
	Floor          Floor
	Item           ItemKey
	Quantity       int
	RequiresRepack bool

	// EstimatedDurationMinutes is the fixed (planning) estimate; it
	// never changes once the task is created.
	EstimatedDurationMinutes float64

	// Shipping-only payload.
	PartcustID         PartcustID
	RouteCode          RouteCode
	WaveID             WaveID
	DeliveryDeadline   time.Time
	AvailableWorkMinutes float64

	// Receiving-only payload.
	ArrivalDate      time.Time
	DeadlineDate     time.Time
	DaysSinceArrival int
	IsOverdue        bool

	// Overtime lineage: set when this task is the overtime variant of an
	// original (now-cancelled) task.
	OvertimeOf TaskID

	AssignedStation StationID
	AssignedStaff   StaffID

	Status TaskStatus

	PlannedStart      time.Time
	PlannedCompletion time.Time
	ActualStart       time.Time
	ActualCompletion  time.Time
	ActualDuration    time.Duration
}

// HasWave reports whether this task belongs to a delivery wave (P1/P2
// shipping tasks that were matched against the timetable).
func (t *Task) HasWave() bool { return t.WaveID != "" }

// IsDone reports whether the task has left the active pool.
func (t *Task) IsDone() bool {
	return t.Status == TaskCompleted || t.Status == TaskCancelled
}

// RemainingDuration returns the estimated duration still owed, used by the
// exception handler's preemption bookkeeping: on resume, a
// preempted task's remaining time is estimated at 50% of the original
// fixed estimate.
func (t *Task) RemainingDuration() time.Duration {
	return time.Duration(t.EstimatedDurationMinutes*0.5*60) * time.Second
}
