package entity

import "github.com/google/uuid"

// Spec-mandated identifiers keep the exact shape the source tables hand out
// (station IDs like "ST2F01", task IDs, wave IDs) and therefore stay plain
// strings rather than synthetic UUIDs.
type (
	TaskID    string
	StationID string
	StaffID   string
	WaveID    string
	RouteCode string
	PartcustID string
)

// Ephemeral IDs the simulator itself synthesizes (never handed out by the
// source tables) alias uuid.UUID per concept.
type (
	ExceptionID = uuid.UUID
	LeaderID    = uuid.UUID
	RunID       = uuid.UUID
)
