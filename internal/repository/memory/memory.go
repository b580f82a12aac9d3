// Package memory implements repository.Database directly over in-process
// slices, for loading the tabular master-data inputs without a
// database — the common path for one-off simulation runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/repository"
	"github.com/warehousesim/core/internal/simerr"
)

// Tables bundles the master-data slices an ingestion step has already
// parsed from the source files.
type Tables struct {
	Parameters []config.ParameterRow
	Items      []entity.Item
	Staff      []entity.Staff
	Stations   []entity.StationCapacity
	Routes     []entity.RouteScheduleEntry
	Orders     []entity.Order
	Receiving  []entity.ReceivingRecord
}

// Repository is a read-only snapshot of the master-data tables plus an
// in-memory log of simulation run summaries. Each sub-accessor returns a
// distinct view type so that the identically-named GetAll methods required
// by the different repository.* interfaces don't collide on one receiver.
type Repository struct {
	parameterRepo   parameterRepo
	itemRepo        itemRepo
	staffRepo       staffRepo
	stationRepo     stationRepo
	routeRepo       routeRepo
	transactionRepo transactionRepo
	runRepo         *runRepo
}

// New builds a Repository over the given pre-parsed tables.
func New(t Tables) *Repository {
	byKey := make(map[entity.ItemKey]entity.Item, len(t.Items))
	for _, it := range t.Items {
		byKey[it.Key] = it
	}
	return &Repository{
		parameterRepo:   parameterRepo{rows: t.Parameters},
		itemRepo:        itemRepo{items: t.Items, byKey: byKey},
		staffRepo:       staffRepo{staff: t.Staff},
		stationRepo:     stationRepo{stations: t.Stations},
		routeRepo:       routeRepo{routes: t.Routes},
		transactionRepo: transactionRepo{orders: t.Orders, receiving: t.Receiving},
		runRepo:         &runRepo{runs: make(map[uuid.UUID]*repository.SimulationRunSummary)},
	}
}

var _ repository.Database = (*Repository)(nil)

func (r *Repository) ParameterRepository() repository.ParameterRepository             { return r.parameterRepo }
func (r *Repository) ItemRepository() repository.ItemRepository                       { return r.itemRepo }
func (r *Repository) StaffRepository() repository.StaffRepository                     { return r.staffRepo }
func (r *Repository) StationCapacityRepository() repository.StationCapacityRepository { return r.stationRepo }
func (r *Repository) RouteScheduleRepository() repository.RouteScheduleRepository     { return r.routeRepo }
func (r *Repository) TransactionRepository() repository.TransactionRepository         { return r.transactionRepo }
func (r *Repository) SimulationRunRepository() repository.SimulationRunRepository     { return r.runRepo }

func (r *Repository) Close() error                    { return nil }
func (r *Repository) Health(ctx context.Context) error { return nil }

type parameterRepo struct{ rows []config.ParameterRow }

func (p parameterRepo) GetAll(ctx context.Context) ([]config.ParameterRow, error) {
	return p.rows, nil
}

type itemRepo struct {
	items []entity.Item
	byKey map[entity.ItemKey]entity.Item
}

func (i itemRepo) GetAll(ctx context.Context) ([]entity.Item, error) { return i.items, nil }

func (i itemRepo) GetByKey(ctx context.Context, key entity.ItemKey) (entity.Item, error) {
	it, ok := i.byKey[key]
	if !ok {
		return entity.Item{}, &simerr.NotFoundError{ResourceType: "item", ResourceID: key.String()}
	}
	return it, nil
}

type staffRepo struct{ staff []entity.Staff }

func (s staffRepo) GetAll(ctx context.Context) ([]entity.Staff, error) { return s.staff, nil }

type stationRepo struct{ stations []entity.StationCapacity }

func (s stationRepo) GetAll(ctx context.Context) ([]entity.StationCapacity, error) {
	return s.stations, nil
}

type routeRepo struct{ routes []entity.RouteScheduleEntry }

func (r routeRepo) GetAll(ctx context.Context) ([]entity.RouteScheduleEntry, error) {
	return r.routes, nil
}

type transactionRepo struct {
	orders    []entity.Order
	receiving []entity.ReceivingRecord
}

func (t transactionRepo) OrdersForDate(ctx context.Context, date time.Time) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range t.orders {
		if sameDate(o.Date, date) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (t transactionRepo) ReceivingForDate(ctx context.Context, date time.Time) ([]entity.ReceivingRecord, error) {
	var out []entity.ReceivingRecord
	for _, r := range t.receiving {
		if sameDate(r.ArrivalDate, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// runRepo is the only sub-repository with write behavior, so unlike its
// siblings it needs a mutex and a pointer receiver.
type runRepo struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*repository.SimulationRunSummary
}

func (r *runRepo) Create(ctx context.Context, run *repository.SimulationRunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	r.runs[run.ID] = run
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.SimulationRunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, &simerr.NotFoundError{ResourceType: "simulation_run", ResourceID: id.String()}
	}
	return run, nil
}

func (r *runRepo) ListRecent(ctx context.Context, limit int) ([]*repository.SimulationRunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*repository.SimulationRunSummary, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

