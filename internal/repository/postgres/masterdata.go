package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
)

// ParameterRepository implements repository.ParameterRepository for
// PostgreSQL, reading the system_parameters table.
type ParameterRepository struct {
	db *sql.DB
}

// NewParameterRepository creates a new ParameterRepository.
func NewParameterRepository(db *sql.DB) *ParameterRepository {
	return &ParameterRepository{db: db}
}

// GetAll retrieves every system_parameters row.
func (r *ParameterRepository) GetAll(ctx context.Context) ([]config.ParameterRow, error) {
	query := `SELECT parameter_name, parameter_value, data_type FROM system_parameters`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query system parameters: %w", err)
	}
	defer rows.Close()

	var out []config.ParameterRow
	for rows.Next() {
		var row config.ParameterRow
		var dataType string
		if err := rows.Scan(&row.Name, &row.Value, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan system parameter: %w", err)
		}
		row.DataType = config.DataType(dataType)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ItemRepository implements repository.ItemRepository for PostgreSQL,
// reading the item_master table.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetAll retrieves every item_master row.
func (r *ItemRepository) GetAll(ctx context.Context) ([]entity.Item, error) {
	query := `
		SELECT family_code, part_number, floor, requires_repack,
		       mean_pick_repack, mean_pick_no_repack
		FROM item_master
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query item master: %w", err)
	}
	defer rows.Close()

	var out []entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByKey retrieves one item_master row by its composite key.
func (r *ItemRepository) GetByKey(ctx context.Context, key entity.ItemKey) (entity.Item, error) {
	query := `
		SELECT family_code, part_number, floor, requires_repack,
		       mean_pick_repack, mean_pick_no_repack
		FROM item_master
		WHERE family_code = $1 AND part_number = $2
	`

	row := r.db.QueryRowContext(ctx, query, key.FamilyCode, key.PartNumber)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return entity.Item{}, &NotFoundError{ResourceType: "item", ResourceID: key.String()}
	}
	if err != nil {
		return entity.Item{}, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(s rowScanner) (entity.Item, error) {
	var it entity.Item
	var floor int
	var repackMean, noRepackMean sql.NullFloat64

	if err := s.Scan(&it.Key.FamilyCode, &it.Key.PartNumber, &floor, &it.RequiresRepack,
		&repackMean, &noRepackMean); err != nil {
		return entity.Item{}, err
	}
	it.Floor = entity.Floor(floor)
	if repackMean.Valid {
		v := repackMean.Float64
		it.MeanPickRepack = &v
	}
	if noRepackMean.Valid {
		v := noRepackMean.Float64
		it.MeanPickNoRepack = &v
	}
	return it, nil
}

// StaffRepository implements repository.StaffRepository for PostgreSQL,
// reading the staff_skill_master table.
type StaffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetAll retrieves every staff_skill_master row.
func (r *StaffRepository) GetAll(ctx context.Context) ([]entity.Staff, error) {
	query := `
		SELECT staff_id, staff_name, home_floor, skill_level,
		       capacity_multiplier, max_hours_per_day
		FROM staff_skill_master
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff skill master: %w", err)
	}
	defer rows.Close()

	var out []entity.Staff
	for rows.Next() {
		var s entity.Staff
		var id string
		if err := rows.Scan(&id, &s.Name, &s.HomeFloor, &s.SkillLevel,
			&s.CapacityMultiplier, &s.MaxHoursPerDay); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		s.ID = entity.StaffID(id)
		out = append(out, s)
	}
	return out, rows.Err()
}

// StationCapacityRepository implements repository.StationCapacityRepository
// for PostgreSQL, reading the workstation_capacity table.
type StationCapacityRepository struct {
	db *sql.DB
}

// NewStationCapacityRepository creates a new StationCapacityRepository.
func NewStationCapacityRepository(db *sql.DB) *StationCapacityRepository {
	return &StationCapacityRepository{db: db}
}

// GetAll retrieves every workstation_capacity row.
func (r *StationCapacityRepository) GetAll(ctx context.Context) ([]entity.StationCapacity, error) {
	query := `SELECT floor, fixed_stations, temp_stations FROM workstation_capacity`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workstation capacity: %w", err)
	}
	defer rows.Close()

	var out []entity.StationCapacity
	for rows.Next() {
		var floor int
		var c entity.StationCapacity
		if err := rows.Scan(&floor, &c.FixedStations, &c.TempStations); err != nil {
			return nil, fmt.Errorf("failed to scan station capacity: %w", err)
		}
		c.Floor = entity.Floor(floor)
		out = append(out, c)
	}
	return out, rows.Err()
}

// RouteScheduleRepository implements repository.RouteScheduleRepository for
// PostgreSQL, reading the route_schedule_master table.
type RouteScheduleRepository struct {
	db *sql.DB
}

// NewRouteScheduleRepository creates a new RouteScheduleRepository.
func NewRouteScheduleRepository(db *sql.DB) *RouteScheduleRepository {
	return &RouteScheduleRepository{db: db}
}

// GetAll retrieves every route_schedule_master row. Cutoff and delivery
// times are stored as raw strings (2-4 digit integers or HH:MM[:SS]) and
// parsed with entity.ParseClockTime.
func (r *RouteScheduleRepository) GetAll(ctx context.Context) ([]entity.RouteScheduleEntry, error) {
	query := `
		SELECT route_code, partcustid, order_end_time, delivery_time
		FROM route_schedule_master
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query route schedule master: %w", err)
	}
	defer rows.Close()

	var out []entity.RouteScheduleEntry
	for rows.Next() {
		var route, partcust, cutoffRaw, deliveryRaw string
		if err := rows.Scan(&route, &partcust, &cutoffRaw, &deliveryRaw); err != nil {
			return nil, fmt.Errorf("failed to scan route schedule row: %w", err)
		}

		cutoff, err := entity.ParseClockTime(cutoffRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing order_end_time %q: %w", cutoffRaw, err)
		}
		delivery, err := entity.ParseClockTime(deliveryRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing delivery_time %q: %w", deliveryRaw, err)
		}

		out = append(out, entity.RouteScheduleEntry{
			RouteCode:       entity.RouteCode(route),
			PartcustID:      entity.PartcustID(partcust),
			OrderCutoffTime: cutoff,
			DeliveryTime:    delivery,
		})
	}
	return out, rows.Err()
}

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL, reading the historical_orders and historical_receiving tables
// scoped to one simulated day at a time.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// OrdersForDate retrieves every historical_orders row for date.
func (r *TransactionRepository) OrdersForDate(ctx context.Context, date time.Time) ([]entity.Order, error) {
	query := `
		SELECT order_date, route_code, partcustid, order_time, family_code,
		       part_number, quantity, transaction_code
		FROM historical_orders
		WHERE order_date = $1::date
	`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical orders: %w", err)
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		var o entity.Order
		var route, partcust, orderTimeRaw string
		if err := rows.Scan(&o.Date, &route, &partcust, &orderTimeRaw,
			&o.Item.FamilyCode, &o.Item.PartNumber, &o.Quantity, &o.TransactionCode); err != nil {
			return nil, fmt.Errorf("failed to scan historical order: %w", err)
		}
		clock, err := entity.ParseClockTime(orderTimeRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing order_time %q: %w", orderTimeRaw, err)
		}
		o.RouteCode = entity.RouteCode(route)
		o.PartcustID = entity.PartcustID(partcust)
		o.OrderTime = clock
		out = append(out, o)
	}
	return out, rows.Err()
}

// ReceivingForDate retrieves every historical_receiving row for date.
func (r *TransactionRepository) ReceivingForDate(ctx context.Context, date time.Time) ([]entity.ReceivingRecord, error) {
	query := `
		SELECT arrival_date, family_code, part_number, quantity
		FROM historical_receiving
		WHERE arrival_date = $1::date
	`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical receiving: %w", err)
	}
	defer rows.Close()

	var out []entity.ReceivingRecord
	for rows.Next() {
		var rec entity.ReceivingRecord
		if err := rows.Scan(&rec.ArrivalDate, &rec.Item.FamilyCode, &rec.Item.PartNumber, &rec.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan historical receiving record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// NotFoundError reports a missing row on a postgres-layer lookup.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.ResourceType + " " + e.ResourceID
}
