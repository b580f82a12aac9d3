package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/warehousesim/core/internal/entity"
)

func TestRecordComputesWorkstationUtilization(t *testing.T) {
	tr := NewTracker(zap.NewNop(), 10)

	snap := Snapshot{
		TakenAt: time.Now(),
		Stations: []entity.Station{
			{Status: entity.StationBusy},
			{Status: entity.StationStartingUp},
			{Status: entity.StationIdle},
			{Status: entity.StationIdle},
		},
		StaffPresent: 2,
		StaffBusy:    1,
	}

	m := tr.Record(snap, 10, 5, nil)
	assert.Equal(t, 0.5, m.WorkstationUtilization)
	assert.Equal(t, 0.5, m.TaskCompletionRate)
	assert.Equal(t, 0.5, m.StaffUtilization)
}

func TestRecordWaveProgressAverage(t *testing.T) {
	tr := NewTracker(zap.NewNop(), 10)
	snap := Snapshot{TakenAt: time.Now()}

	m := tr.Record(snap, 0, 0, []float64{1.0, 0.5, 0.0})
	assert.InDelta(t, 0.5, m.WaveProgressAvg, 0.0001)
}

func TestRecordEfficiencyPenalizedByExceptionsAndFlooredAtZero(t *testing.T) {
	tr := NewTracker(zap.NewNop(), 10)
	snap := Snapshot{
		TakenAt:          time.Now(),
		Stations:         []entity.Station{{Status: entity.StationBusy}},
		StaffPresent:     1,
		StaffBusy:        1,
		ActiveExceptions: 200,
	}

	m := tr.Record(snap, 1, 1, []float64{1.0})
	assert.Equal(t, 0.0, m.OverallEfficiency, "a huge exception count floors efficiency at zero, not negative")
}

func TestRecordZeroDenominatorsProduceZeroRatios(t *testing.T) {
	tr := NewTracker(zap.NewNop(), 10)
	snap := Snapshot{TakenAt: time.Now()}

	m := tr.Record(snap, 0, 0, nil)
	assert.Equal(t, 0.0, m.WorkstationUtilization)
	assert.Equal(t, 0.0, m.TaskCompletionRate)
	assert.Equal(t, 0.0, m.StaffUtilization)
}

func TestRecordRingBufferWrapsAtCapacity(t *testing.T) {
	tr := NewTracker(zap.NewNop(), 2)
	for i := 0; i < 5; i++ {
		tr.Record(Snapshot{TakenAt: time.Now()}, 1, 1, nil)
	}
	// Should not panic on wraparound; latest() must still resolve.
	m := tr.Record(Snapshot{TakenAt: time.Now(), ActiveExceptions: 1}, 1, 1, nil)
	assert.Equal(t, 1, m.ActiveExceptions)
}
