package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/warehousesim/core/internal/repository"
)

// DB wraps a SQL database connection for all PostgreSQL operations
type DB struct {
	*sql.DB

	parameters   *ParameterRepository
	items        *ItemRepository
	staff        *StaffRepository
	stations     *StationCapacityRepository
	routes       *RouteScheduleRepository
	transactions *TransactionRepository
	runs         *SimulationRunRepository
}

// New creates a new PostgreSQL database connection
func New(connString string) (*DB, error) {
	sqldb, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:           sqldb,
		parameters:   NewParameterRepository(sqldb),
		items:        NewItemRepository(sqldb),
		staff:        NewStaffRepository(sqldb),
		stations:     NewStationCapacityRepository(sqldb),
		routes:       NewRouteScheduleRepository(sqldb),
		transactions: NewTransactionRepository(sqldb),
		runs:         NewSimulationRunRepository(sqldb),
	}, nil
}

var _ repository.Database = (*DB)(nil)

func (db *DB) ParameterRepository() repository.ParameterRepository             { return db.parameters }
func (db *DB) ItemRepository() repository.ItemRepository                       { return db.items }
func (db *DB) StaffRepository() repository.StaffRepository                     { return db.staff }
func (db *DB) StationCapacityRepository() repository.StationCapacityRepository { return db.stations }
func (db *DB) RouteScheduleRepository() repository.RouteScheduleRepository     { return db.routes }
func (db *DB) TransactionRepository() repository.TransactionRepository         { return db.transactions }
func (db *DB) SimulationRunRepository() repository.SimulationRunRepository     { return db.runs }

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
