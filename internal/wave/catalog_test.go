package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehousesim/core/internal/entity"
)

func mustClock(t *testing.T, raw string) entity.ClockTime {
	t.Helper()
	ct, err := entity.ParseClockTime(raw)
	require.NoError(t, err)
	return ct
}

func TestBuildForDayGroupsByDeliveryTime(t *testing.T) {
	entries := []entity.RouteScheduleEntry{
		{RouteCode: "R1", PartcustID: "A", OrderCutoffTime: mustClock(t, "09:30"), DeliveryTime: mustClock(t, "10:00")},
		{RouteCode: "R2", PartcustID: "B", OrderCutoffTime: mustClock(t, "09:00"), DeliveryTime: mustClock(t, "10:00")},
		{RouteCode: "R3", PartcustID: "C", OrderCutoffTime: mustClock(t, "13:00"), DeliveryTime: mustClock(t, "14:00")},
	}
	cat := NewCatalog(entries)

	monday := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	waves := cat.BuildForDay(monday)
	require.Len(t, waves, 2)

	// Waves are built in delivery-time order.
	assert.Equal(t, 10, waves[0].DeliveryDatetime.Hour())
	assert.Len(t, waves[0].IncludedRoutes, 2)
	assert.Contains(t, waves[0].IncludedPartcustIDs, entity.PartcustID("A"))
	assert.Contains(t, waves[0].IncludedPartcustIDs, entity.PartcustID("B"))
	// Latest cutoff among R1 (09:30) and R2 (09:00) is 09:30.
	assert.Equal(t, 9, waves[0].LatestCutoffDatetime.Hour())
	assert.Equal(t, 30, waves[0].LatestCutoffDatetime.Minute())

	assert.Equal(t, 14, waves[1].DeliveryDatetime.Hour())
}

func TestBuildForDaySkipsWeekends(t *testing.T) {
	entries := []entity.RouteScheduleEntry{
		{RouteCode: "R1", PartcustID: "A", OrderCutoffTime: mustClock(t, "09:30"), DeliveryTime: mustClock(t, "10:00")},
	}
	cat := NewCatalog(entries)

	saturday := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())
	sunday := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	assert.Empty(t, cat.BuildForDay(saturday))
	assert.Empty(t, cat.BuildForDay(sunday))
}

func TestBuildForDayDeliveryBeforeCutoffRollsToNextDay(t *testing.T) {
	// Delivery at 00:05 with a cutoff of 23:30 implies an overnight wave:
	// the delivery datetime must land on the following day.
	entries := []entity.RouteScheduleEntry{
		{RouteCode: "R1", PartcustID: "A", OrderCutoffTime: mustClock(t, "23:30"), DeliveryTime: mustClock(t, "00:05")},
	}
	cat := NewCatalog(entries)
	monday := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	waves := cat.BuildForDay(monday)
	require.Len(t, waves, 1)
	assert.Equal(t, 4, waves[0].DeliveryDatetime.Day())
	assert.Equal(t, 3, waves[0].LatestCutoffDatetime.Day())
}

func TestFindWaveEarliestCatchableCutoff(t *testing.T) {
	entries := []entity.RouteScheduleEntry{
		{RouteCode: "R1", PartcustID: "A", OrderCutoffTime: mustClock(t, "09:30"), DeliveryTime: mustClock(t, "10:00")},
		{RouteCode: "R1", PartcustID: "A", OrderCutoffTime: mustClock(t, "13:00"), DeliveryTime: mustClock(t, "14:00")},
	}
	cat := NewCatalog(entries)
	monday := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	waves := cat.BuildForDay(monday)

	// An order at 09:00 catches the 10:00 wave (cutoff 09:30 >= 09:00).
	w, ok := FindWave(waves, "A", mustClock(t, "09:00"), monday)
	require.True(t, ok)
	assert.Equal(t, 10, w.DeliveryDatetime.Hour())

	// An order at 09:30 (equal to cutoff) is accepted, not rejected.
	w, ok = FindWave(waves, "A", mustClock(t, "09:30"), monday)
	require.True(t, ok)
	assert.Equal(t, 10, w.DeliveryDatetime.Hour())

	// An order at 12:00 misses the first cutoff but catches the second.
	w, ok = FindWave(waves, "A", mustClock(t, "12:00"), monday)
	require.True(t, ok)
	assert.Equal(t, 14, w.DeliveryDatetime.Hour())

	// An order at 15:00 misses every cutoff: attached to the day's last wave.
	w, ok = FindWave(waves, "A", mustClock(t, "15:00"), monday)
	require.True(t, ok)
	assert.Equal(t, 14, w.DeliveryDatetime.Hour())
}

func TestFindWaveUnknownPartcustID(t *testing.T) {
	cat := NewCatalog(nil)
	_, ok := FindWave(nil, "ZZZ", mustClock(t, "09:00"), time.Now())
	assert.False(t, ok)
	_ = cat
}
