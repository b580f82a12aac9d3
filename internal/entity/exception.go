package entity

import "time"

// ExceptionType enumerates the failure modes the exception handler
// draws from a fixed weight vector.
type ExceptionType string

const (
	ExceptionPickingError       ExceptionType = "PICKING_ERROR"
	ExceptionBarcodeUnreadable  ExceptionType = "BARCODE_UNREADABLE"
	ExceptionInventoryShortage  ExceptionType = "INVENTORY_SHORTAGE"
	ExceptionPackagingError     ExceptionType = "PACKAGING_ERROR"
	ExceptionItemDamage         ExceptionType = "ITEM_DAMAGE"
	ExceptionLocationError      ExceptionType = "LOCATION_ERROR"
	ExceptionQualityIssue       ExceptionType = "QUALITY_ISSUE"
	ExceptionSystemError        ExceptionType = "SYSTEM_ERROR"
)

// ExceptionPriority is the urgency assigned to an exception, independent of
// the task's own PriorityClass.
type ExceptionPriority string

const (
	ExceptionCritical ExceptionPriority = "CRITICAL"
	ExceptionHigh     ExceptionPriority = "HIGH"
	ExceptionMedium   ExceptionPriority = "MEDIUM"
	ExceptionLow      ExceptionPriority = "LOW"
)

// ExceptionStatus is the lifecycle state of an Exception.
type ExceptionStatus string

const (
	ExceptionDetected   ExceptionStatus = "DETECTED"
	ExceptionAssigned   ExceptionStatus = "ASSIGNED"
	ExceptionInProgress ExceptionStatus = "IN_PROGRESS"
	ExceptionResolved   ExceptionStatus = "RESOLVED"
	ExceptionEscalated  ExceptionStatus = "ESCALATED"
)

// Exception is one detected task-level fault and its handling lifecycle.
type Exception struct {
	ID       ExceptionID
	TaskID   TaskID
	Type     ExceptionType
	Priority ExceptionPriority
	Status   ExceptionStatus

	DetectedAt  time.Time
	AssignedAt  time.Time
	ResolvedAt  time.Time

	Leader  LeaderID
	Station StationID

	HandlingMinutes float64

	// PreemptedTask records the task that was running on Station before
	// this exception reserved it, so resolution can restore it.
	PreemptedTask TaskID
}

// IsActive reports whether the exception still needs handling.
func (e *Exception) IsActive() bool {
	return e.Status != ExceptionResolved
}
