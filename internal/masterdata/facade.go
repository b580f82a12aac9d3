// Package masterdata implements the Master Data Facade: a read-only,
// in-memory view over items, the route timetable, station capacity and
// staff skills, loaded once from repository.Database at startup. Everything downstream (classifiers, packer, roster generator)
// reads through this facade rather than the repository directly, so the
// event loop never touches I/O.
package masterdata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/repository"
)

// Facade is the loaded, indexed snapshot of all master-data tables.
type Facade struct {
	items    map[entity.ItemKey]entity.Item
	staff    []entity.Staff
	stations []entity.StationCapacity
	routes   map[routeKey]entity.RouteScheduleEntry
	rawRoutes []entity.RouteScheduleEntry
}

type routeKey struct {
	route    entity.RouteCode
	partcust entity.PartcustID
}

// Load reads every master-data table from db and builds the indexed
// Facade. Called once during engine initialization.
func Load(ctx context.Context, db repository.Database) (*Facade, error) {
	var items []entity.Item
	var staff []entity.Staff
	var stations []entity.StationCapacity
	var routes []entity.RouteScheduleEntry

	// The four master tables are independent reads; fan them out so a slow
	// backend doesn't serialize startup behind four round trips.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = db.ItemRepository().GetAll(gctx)
		if err != nil {
			return fmt.Errorf("loading item master: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		staff, err = db.StaffRepository().GetAll(gctx)
		if err != nil {
			return fmt.Errorf("loading staff skill master: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stations, err = db.StationCapacityRepository().GetAll(gctx)
		if err != nil {
			return fmt.Errorf("loading workstation capacity: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		routes, err = db.RouteScheduleRepository().GetAll(gctx)
		if err != nil {
			return fmt.Errorf("loading route schedule master: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &Facade{
		items:     make(map[entity.ItemKey]entity.Item, len(items)),
		staff:     staff,
		stations:  stations,
		routes:    make(map[routeKey]entity.RouteScheduleEntry, len(routes)),
		rawRoutes: routes,
	}
	for _, it := range items {
		f.items[it.Key] = it
	}
	for _, r := range routes {
		route, partcust := r.Key()
		f.routes[routeKey{route, partcust}] = r
	}
	return f, nil
}

// LookupRoute implements classify.RouteLookup.
func (f *Facade) LookupRoute(route entity.RouteCode, partcust entity.PartcustID) (entity.RouteScheduleEntry, bool) {
	e, ok := f.routes[routeKey{route, partcust}]
	return e, ok
}

// Item returns the item master record for key, if any.
func (f *Facade) Item(key entity.ItemKey) (entity.Item, bool) {
	it, ok := f.items[key]
	return it, ok
}

// AllRoutes returns every route_schedule_master row, used by the wave
// catalog to build the day's wave set.
func (f *Facade) AllRoutes() []entity.RouteScheduleEntry { return f.rawRoutes }

// StaffEligibleForFloor returns every staff member whose home_floor matches
// floor or is "ALL", used by the daily roster generator.
func (f *Facade) StaffEligibleForFloor(floor entity.Floor) []entity.Staff {
	var out []entity.Staff
	for _, s := range f.staff {
		if s.EligibleForFloor(floor) {
			out = append(out, s)
		}
	}
	return out
}

// StationCapacityFor returns the fixed/temp station counts configured for
// floor.
func (f *Facade) StationCapacityFor(floor entity.Floor) (entity.StationCapacity, bool) {
	for _, c := range f.stations {
		if c.Floor == floor {
			return c, true
		}
	}
	return entity.StationCapacity{}, false
}

// AllStationCapacities returns every workstation_capacity row.
func (f *Facade) AllStationCapacities() []entity.StationCapacity { return f.stations }

// StaffByID looks up one staff member by id, used when a task starts and the
// execution-time estimate needs that staff member's skill/capacity factors.
func (f *Facade) StaffByID(id entity.StaffID) (entity.Staff, bool) {
	for _, s := range f.staff {
		if s.ID == id {
			return s, true
		}
	}
	return entity.Staff{}, false
}
