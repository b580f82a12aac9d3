package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/masterdata"
	"github.com/warehousesim/core/internal/repository/memory"
)

func TestValidateMasterDataFlagsMissingRoutesAndCapacity(t *testing.T) {
	db := memory.New(memory.Tables{})
	data, err := masterdata.Load(context.Background(), db)
	require.NoError(t, err)

	result := validateMasterData(data)
	assert.True(t, result.HasErrors())
	assert.True(t, result.HasWarnings())
}

func TestValidateMasterDataPassesOnFullySeededTables(t *testing.T) {
	db := memory.New(memory.Tables{
		Routes: []entity.RouteScheduleEntry{{RouteCode: "R1", PartcustID: "P1"}},
		Stations: []entity.StationCapacity{
			{Floor: entity.Floor2, FixedStations: 2},
			{Floor: entity.Floor3, FixedStations: 2},
			{Floor: entity.Floor4, FixedStations: 2},
		},
		Staff: []entity.Staff{{ID: "S1", HomeFloor: entity.HomeFloorAll}},
	})
	data, err := masterdata.Load(context.Background(), db)
	require.NoError(t, err)

	result := validateMasterData(data)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
}
