package packer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/station"
)

func newFloor3Pool(fixed int) *station.Pool {
	return station.NewPool([]entity.StationCapacity{{Floor: entity.Floor3, FixedStations: fixed, TempStations: 0}})
}

// TestPackTwoGroupsExceedingTimeCapSplit:
// two partcustid groups whose combined workload (15+16=31) exceeds the
// floor-3 30-minute window must land on two distinct stations even though
// both fit comfortably under the partcustid-count cap.
func TestPackTwoGroupsExceedingTimeCapSplit(t *testing.T) {
	pool := newFloor3Pool(4)
	now := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

	groups := []entity.PartcustidGroup{
		{PartcustID: "A", TotalWorkloadMinutes: 15, TaskCount: 3},
		{PartcustID: "B", TotalWorkloadMinutes: 16, TaskCount: 4},
	}

	assignments, unplaced := Pack(pool, entity.Floor3, now, groups, 12, 30)
	require.Empty(t, unplaced)
	require.Len(t, assignments, 2)
	assert.NotEqual(t, assignments[0].StationID, assignments[1].StationID)
	for _, a := range assignments {
		assert.Equal(t, 1, a.PartcustIDCount())
	}
}

func TestPackGroupsWithinCapShareOneStation(t *testing.T) {
	pool := newFloor3Pool(4)
	now := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

	groups := []entity.PartcustidGroup{
		{PartcustID: "A", TotalWorkloadMinutes: 10, TaskCount: 2},
		{PartcustID: "B", TotalWorkloadMinutes: 10, TaskCount: 2},
	}

	assignments, unplaced := Pack(pool, entity.Floor3, now, groups, 12, 30)
	require.Empty(t, unplaced)
	require.Len(t, assignments, 1)
	assert.Equal(t, 2, assignments[0].PartcustIDCount())
	assert.Equal(t, float64(20), assignments[0].TotalWorkloadMinutes)
}

func TestPackRespectsPartcustidCountCap(t *testing.T) {
	pool := newFloor3Pool(4)
	now := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

	groups := []entity.PartcustidGroup{
		{PartcustID: "A", TotalWorkloadMinutes: 1, TaskCount: 1},
		{PartcustID: "B", TotalWorkloadMinutes: 1, TaskCount: 1},
		{PartcustID: "C", TotalWorkloadMinutes: 1, TaskCount: 1},
	}

	// Cap of 2 partcustids per station forces a second station for C even
	// though the time budget would have allowed packing all three together.
	assignments, unplaced := Pack(pool, entity.Floor3, now, groups, 2, 30)
	require.Empty(t, unplaced)
	require.Len(t, assignments, 2)
	assert.Equal(t, 2, assignments[0].PartcustIDCount())
	assert.Equal(t, 1, assignments[1].PartcustIDCount())
}

func TestPackLeavesGroupUnplacedWhenStationsExhausted(t *testing.T) {
	pool := newFloor3Pool(1)
	now := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

	groups := []entity.PartcustidGroup{
		{PartcustID: "A", TotalWorkloadMinutes: 20, TaskCount: 1},
		{PartcustID: "B", TotalWorkloadMinutes: 20, TaskCount: 1},
	}

	assignments, unplaced := Pack(pool, entity.Floor3, now, groups, 12, 30)
	require.Len(t, assignments, 1)
	require.Len(t, unplaced, 1)
	assert.Equal(t, entity.PartcustID("B"), unplaced[0].PartcustID)
}

func TestPackAllTasksInAGroupShareOneStation(t *testing.T) {
	// Every task in a placed partcustid group must share the same station.
	pool := newFloor3Pool(4)
	now := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

	groups := []entity.PartcustidGroup{
		{PartcustID: "A", Tasks: []entity.TaskID{"T1", "T2", "T3"}, TotalWorkloadMinutes: 15, TaskCount: 3},
	}
	assignments, unplaced := Pack(pool, entity.Floor3, now, groups, 12, 30)
	require.Empty(t, unplaced)
	require.Len(t, assignments, 1)
	assert.Len(t, assignments[0].Groups[0].Tasks, 3)
}
