package entity

import "time"

// PriorityClass is the scheduling priority assigned by the order classifier
// or the receiving classifier.
type PriorityClass string

const (
	PriorityP1 PriorityClass = "P1" // normal shipping, highest in-wave priority
	PriorityP2 PriorityClass = "P2" // urgent / gap-fill shipping
	PriorityP3 PriorityClass = "P3" // sub-warehouse, end-of-day deadline
	PriorityP4 PriorityClass = "P4" // normal receiving
)

// OrderType further classifies a shipping order beyond its priority class.
type OrderType string

const (
	OrderTypeNormal       OrderType = "NORMAL"
	OrderTypeUrgent       OrderType = "URGENT"
	OrderTypeOther        OrderType = "OTHER"
	OrderTypeSubWarehouse OrderType = "SUB_WAREHOUSE"
)

// Order is a raw shipping source record.
type Order struct {
	Date            time.Time
	RouteCode       RouteCode
	PartcustID      PartcustID
	OrderTime       ClockTime
	Item            ItemKey
	Quantity        int
	TransactionCode string
}

// OrderClassification is the classifier's output for one order: priority, deadline
// feasibility, and the flags used by downstream wave assignment.
type OrderClassification struct {
	PriorityClass   PriorityClass
	OrderType       OrderType
	DeliveryTime    ClockTime
	CutoffTime      ClockTime
	AvailableMinutes float64
	IsLate          bool
	ScheduleFound   bool
	TimeInvalid     bool
}

// Sub-warehouse orders are not looked up in the timetable; they get a
// synthetic end-of-day deadline.
var (
	SubWarehouseDeliveryTime = ClockTime{Hour: 17, Minute: 0}
	SubWarehouseCutoffTime   = ClockTime{Hour: 16, Minute: 30}
)

// ReceivingPriority is the urgency class assigned to a receiving record.
type ReceivingPriority string

const (
	ReceivingCritical ReceivingPriority = "CRITICAL"
	ReceivingUrgent   ReceivingPriority = "URGENT"
	ReceivingNormal   ReceivingPriority = "NORMAL"
)

// ReceivingRecord is a raw inbound receiving source record.
type ReceivingRecord struct {
	ArrivalDate time.Time
	Item        ItemKey
	Quantity    int
}

// ReceivingClassification is the classifier's output for one receiving record.
type ReceivingClassification struct {
	Priority         ReceivingPriority
	DeadlineDate     time.Time
	DaysSinceArrival int
	IsOverdue        bool
}
