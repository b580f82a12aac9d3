package main

import (
	"fmt"

	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/masterdata"
	"github.com/warehousesim/core/internal/validation"
)

// validateMasterData runs structural checks over the loaded master-data
// facade without driving the event loop, so an operator can catch a bad
// table load before committing to a multi-day run.
func validateMasterData(data *masterdata.Facade) *validation.Result {
	result := validation.NewResult()

	if len(data.AllRoutes()) == 0 {
		result.AddError(validation.CodeUnscheduledRoute, "route schedule master has no rows")
	}

	floors := []entity.Floor{entity.Floor2, entity.Floor3, entity.Floor4}
	for _, floor := range floors {
		capacity, ok := data.StationCapacityFor(floor)
		if !ok {
			result.AddWarning(validation.CodeCapacityExhausted, fmt.Sprintf("floor %d has no workstation_capacity row", int(floor)))
			continue
		}
		if capacity.FixedStations+capacity.TempStations == 0 {
			result.AddError(validation.CodeCapacityExhausted, fmt.Sprintf("floor %d has zero stations configured", int(floor)))
		}
		if len(data.StaffEligibleForFloor(floor)) == 0 {
			result.AddWarning(validation.CodeUnknownStaff, fmt.Sprintf("floor %d has no eligible staff in the skill master", int(floor)))
		}
	}

	return result
}
