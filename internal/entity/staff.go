package entity

import "time"

// HomeFloorAll is the sentinel home-floor value meaning a staff member is
// eligible to be picked for any floor's daily roster.
const HomeFloorAll = "ALL"

// Staff is a read-only master-data record describing one operator's skill
// profile and daily capacity.
type Staff struct {
	ID                 StaffID
	Name               string
	HomeFloor          string // "2", "3", "4", or HomeFloorAll
	SkillLevel         int    // 1-5
	CapacityMultiplier float64
	MaxHoursPerDay      float64
}

// EligibleForFloor reports whether this staff member can be rostered onto
// the given floor.
func (s Staff) EligibleForFloor(floor Floor) bool {
	return s.HomeFloor == HomeFloorAll || s.HomeFloor == floorString(floor)
}

func floorString(f Floor) string {
	switch f {
	case Floor2:
		return "2"
	case Floor3:
		return "3"
	case Floor4:
		return "4"
	}
	return ""
}

// ShiftAssignment is a daily staff-to-station binding produced by the staff
// roster.
type ShiftAssignment struct {
	Date        time.Time
	StationID   StationID
	StaffID     StaffID
	ShiftStart  time.Time
	ShiftEnd    time.Time
	IsOvertime  bool
}
