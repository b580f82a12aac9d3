// Package wave implements the Route/Wave Catalog: deriving the day's
// delivery waves from the route timetable and answering "which wave does
// this order catch" queries.
package wave

import (
	"fmt"
	"sort"
	"time"

	"github.com/warehousesim/core/internal/entity"
)

// group is the catalog's static, timetable-derived aggregate: every
// (route, partcustid) pair sharing one delivery_time.
type group struct {
	deliveryTime entity.ClockTime
	routes       map[entity.RouteCode]struct{}
	partcustIDs  map[entity.PartcustID]struct{}
	cutoffs      []entity.ClockTime
	latestCutoff entity.ClockTime
}

// Catalog groups the route timetable by delivery_time and indexes each
// partcustid's delivery times for "find next catchable wave" queries.
type Catalog struct {
	groups          []*group
	partcustIDWaves map[entity.PartcustID][]entity.ClockTime // sorted ascending
	// AllowWeekends overrides the default weekend skip; not
	// used by default.
	AllowWeekends bool
}

// NewCatalog groups the ingested route timetable by delivery time.
func NewCatalog(entries []entity.RouteScheduleEntry) *Catalog {
	c := &Catalog{partcustIDWaves: make(map[entity.PartcustID][]entity.ClockTime)}

	byDelivery := make(map[int]*group)
	var order []int
	for _, e := range entries {
		key := e.DeliveryTime.Seconds()
		g, ok := byDelivery[key]
		if !ok {
			g = &group{
				deliveryTime: e.DeliveryTime,
				routes:       make(map[entity.RouteCode]struct{}),
				partcustIDs:  make(map[entity.PartcustID]struct{}),
			}
			byDelivery[key] = g
			order = append(order, key)
		}
		g.routes[e.RouteCode] = struct{}{}
		g.partcustIDs[e.PartcustID] = struct{}{}
		g.cutoffs = append(g.cutoffs, e.OrderCutoffTime)
		if e.OrderCutoffTime.Seconds() > g.latestCutoff.Seconds() {
			g.latestCutoff = e.OrderCutoffTime
		}
	}

	sort.Ints(order)
	for _, key := range order {
		c.groups = append(c.groups, byDelivery[key])
	}

	for _, g := range c.groups {
		for pc := range g.partcustIDs {
			c.partcustIDWaves[pc] = append(c.partcustIDWaves[pc], g.deliveryTime)
		}
	}
	for pc := range c.partcustIDWaves {
		times := c.partcustIDWaves[pc]
		sort.Slice(times, func(i, j int) bool { return times[i].Seconds() < times[j].Seconds() })
		c.partcustIDWaves[pc] = times
	}

	return c
}

// IsWorkday reports whether date is a weekday; Saturday and Sunday are
// skipped.
func IsWorkday(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BuildForDay instantiates concrete DeliveryWave values for one simulated
// day. Weekends produce zero waves unless AllowWeekends is set.
func (c *Catalog) BuildForDay(date time.Time) []*entity.DeliveryWave {
	if !c.AllowWeekends && !IsWorkday(date) {
		return nil
	}

	waves := make([]*entity.DeliveryWave, 0, len(c.groups))
	for _, g := range c.groups {
		deliveryDate := date
		if g.deliveryTime.Seconds() < g.latestCutoff.Seconds() {
			deliveryDate = date.AddDate(0, 0, 1)
		}

		deliveryDT := atClock(deliveryDate, g.deliveryTime)
		cutoffDT := atClock(date, g.latestCutoff)

		routes := make(map[entity.RouteCode]struct{}, len(g.routes))
		for r := range g.routes {
			routes[r] = struct{}{}
		}
		partcustIDs := make(map[entity.PartcustID]struct{}, len(g.partcustIDs))
		for pc := range g.partcustIDs {
			partcustIDs[pc] = struct{}{}
		}

		waves = append(waves, &entity.DeliveryWave{
			WaveID:               waveID(date, g.deliveryTime),
			DeliveryDatetime:     deliveryDT,
			LatestCutoffDatetime: cutoffDT,
			IncludedRoutes:       routes,
			IncludedPartcustIDs:  partcustIDs,
			Status:               entity.WaveStatusPending,
		})
	}
	return waves
}

// FindWave answers "which of this partcustid's waves (on the same catalog
// day, already-built) catches an order placed at orderTime": the earliest
// whose latest_cutoff >= order_time, or the day's last wave for that
// partcustid if the order missed every cutoff.
func FindWave(dayWaves []*entity.DeliveryWave, pc entity.PartcustID, orderTime entity.ClockTime, day time.Time) (*entity.DeliveryWave, bool) {
	var candidates []*entity.DeliveryWave
	for _, w := range dayWaves {
		if _, ok := w.IncludedPartcustIDs[pc]; ok {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].LatestCutoffDatetime.Before(candidates[j].LatestCutoffDatetime)
	})

	orderDT := atClock(day, orderTime)
	for _, w := range candidates {
		if !w.LatestCutoffDatetime.Before(orderDT) {
			return w, true
		}
	}
	return candidates[len(candidates)-1], true
}

func atClock(day time.Time, t entity.ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, t.Second, 0, day.Location())
}

func waveID(day time.Time, delivery entity.ClockTime) entity.WaveID {
	return entity.WaveID(fmt.Sprintf("WAVE-%s-%s", day.Format("20060102"), delivery.String()))
}
