package masterdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/repository/memory"
)

func TestLoadIndexesItemsAndRoutes(t *testing.T) {
	key := entity.ItemKey{FamilyCode: "FAM1", PartNumber: "SKU1"}
	db := memory.New(memory.Tables{
		Items: []entity.Item{{Key: key}},
		Routes: []entity.RouteScheduleEntry{
			{RouteCode: "R1", PartcustID: "P1", DeliveryTime: entity.ClockTime{Hour: 10}},
		},
	})

	f, err := Load(context.Background(), db)
	require.NoError(t, err)

	it, ok := f.Item(key)
	require.True(t, ok)
	assert.Equal(t, key, it.Key)

	entry, ok := f.LookupRoute("R1", "P1")
	require.True(t, ok)
	assert.Equal(t, 10, entry.DeliveryTime.Hour)

	_, ok = f.LookupRoute("R1", "UNKNOWN")
	assert.False(t, ok)
}

func TestStaffEligibleForFloorIncludesHomeFloorAll(t *testing.T) {
	db := memory.New(memory.Tables{
		Staff: []entity.Staff{
			{ID: "S1", HomeFloor: "3"},
			{ID: "S2", HomeFloor: entity.HomeFloorAll},
			{ID: "S3", HomeFloor: "2"},
		},
	})
	f, err := Load(context.Background(), db)
	require.NoError(t, err)

	eligible := f.StaffEligibleForFloor(entity.Floor3)
	ids := make([]entity.StaffID, 0)
	for _, s := range eligible {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []entity.StaffID{"S1", "S2"}, ids)
}

func TestStationCapacityForReturnsFalseWhenFloorUnconfigured(t *testing.T) {
	db := memory.New(memory.Tables{Stations: []entity.StationCapacity{{Floor: entity.Floor3, FixedStations: 2}}})
	f, err := Load(context.Background(), db)
	require.NoError(t, err)

	_, ok := f.StationCapacityFor(entity.Floor4)
	assert.False(t, ok)

	cap, ok := f.StationCapacityFor(entity.Floor3)
	require.True(t, ok)
	assert.Equal(t, 2, cap.FixedStations)
}

func TestStaffByIDLooksUpExactMatch(t *testing.T) {
	db := memory.New(memory.Tables{Staff: []entity.Staff{{ID: "S1", SkillLevel: 4}}})
	f, err := Load(context.Background(), db)
	require.NoError(t, err)

	s, ok := f.StaffByID("S1")
	require.True(t, ok)
	assert.Equal(t, 4, s.SkillLevel)

	_, ok = f.StaffByID("MISSING")
	assert.False(t, ok)
}
