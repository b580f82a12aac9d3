// Package repository defines the storage-facing interfaces behind the
// Master Data Facade: read-only accessors over the static tabular
// inputs, plus a write-side for persisting simulation run
// results. Concrete backings live in repository/memory (serving tables
// already parsed into memory) and repository/postgres (a durable store for
// repeated runs).
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

// Database is the aggregate handle the engine obtains at startup.
type Database interface {
	ParameterRepository() ParameterRepository
	ItemRepository() ItemRepository
	StaffRepository() StaffRepository
	StationCapacityRepository() StationCapacityRepository
	RouteScheduleRepository() RouteScheduleRepository
	SimulationRunRepository() SimulationRunRepository
	TransactionRepository() TransactionRepository

	Close() error
	Health(ctx context.Context) error
}

// ParameterRepository exposes the system_parameters table.
type ParameterRepository interface {
	GetAll(ctx context.Context) ([]config.ParameterRow, error)
}

// ItemRepository exposes the item_master table.
type ItemRepository interface {
	GetAll(ctx context.Context) ([]entity.Item, error)
	GetByKey(ctx context.Context, key entity.ItemKey) (entity.Item, error)
}

// StaffRepository exposes the staff_skill_master table.
type StaffRepository interface {
	GetAll(ctx context.Context) ([]entity.Staff, error)
}

// StationCapacityRepository exposes the workstation_capacity table.
type StationCapacityRepository interface {
	GetAll(ctx context.Context) ([]entity.StationCapacity, error)
}

// RouteScheduleRepository exposes the route_schedule_master table.
type RouteScheduleRepository interface {
	GetAll(ctx context.Context) ([]entity.RouteScheduleEntry, error)
}

// TransactionRepository exposes the historical_orders and
// historical_receiving tables: the day-scoped transaction intake the engine
// pulls from at DAILY_SCHEDULE_GENERATE / RECEIVING_LOAD time. Unlike the
// other master-data tables this one is queried per simulated day rather than
// loaded once, since a multi-day run would otherwise hold the whole history
// in memory for no benefit.
type TransactionRepository interface {
	OrdersForDate(ctx context.Context, date time.Time) ([]entity.Order, error)
	ReceivingForDate(ctx context.Context, date time.Time) ([]entity.ReceivingRecord, error)
}

// SimulationRunSummary is one persisted record of a completed simulation
// run, written at the end of engine.Run for later comparison across seeds
// and parameter sets.
type SimulationRunSummary struct {
	ID                uuid.UUID
	StartedAt         time.Time
	FinishedAt        time.Time
	RandomSeed        int64
	TasksCompleted    int
	TasksCancelled    int
	ExceptionsRaised  int
	OvertimeEpisodes  int
	LateShipments     int
	Notes             string
}

// SimulationRunRepository persists simulation run outcomes.
type SimulationRunRepository interface {
	Create(ctx context.Context, run *SimulationRunSummary) error
	GetByID(ctx context.Context, id uuid.UUID) (*SimulationRunSummary, error)
	ListRecent(ctx context.Context, limit int) ([]*SimulationRunSummary, error)
}
