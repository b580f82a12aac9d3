// Package taskmodel implements Task Duration Estimation: the fixed
// (planning) estimate used by feasibility and packing, and the actual
// (execution) estimate applied when a task starts running.
package taskmodel

import (
	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/entity"
	"github.com/warehousesim/core/internal/simrand"
)

// Estimator computes both duration modes from one bound configuration.
type Estimator struct {
	cfg config.Config
}

// NewEstimator builds an Estimator bound to the given configuration.
func NewEstimator(cfg config.Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// FixedShipping computes the shipping planning estimate: the
// repack or no-repack base (an item's own mean pick time if the master
// data carries one, else the parameter default), plus the repack
// surcharge when required, clamped to [min_task_duration, max_task_duration].
func (e *Estimator) FixedShipping(item entity.Item) float64 {
	var base float64
	if item.RequiresRepack {
		if item.MeanPickRepack != nil {
			base = *item.MeanPickRepack
		} else {
			base = e.cfg.PickingBaseTimeRepack
		}
		base += e.cfg.RepackAdditionalTime
	} else {
		if item.MeanPickNoRepack != nil {
			base = *item.MeanPickNoRepack
		} else {
			base = e.cfg.PickingBaseTimeNoRepack
		}
	}
	return e.clamp(base)
}

// FixedReceiving computes the receiving planning estimate: quantity times
// time-per-piece, clamped to both the quantity-relative band and the
// global [min, max] band.
func (e *Estimator) FixedReceiving(quantity int) float64 {
	raw := float64(quantity) * e.cfg.ReceivingTimePerPiece
	lo := raw * 0.5
	if lo < 1 {
		lo = 1
	}
	hi := raw * 3
	if raw < lo {
		raw = lo
	}
	if raw > hi {
		raw = hi
	}
	return e.clamp(raw)
}

// Actual computes the execution-time estimate: the fixed
// estimate adjusted by the assigned staff's skill and capacity, then
// perturbed by a uniform ±15% jitter drawn from rnd, then re-clamped.
func (e *Estimator) Actual(fixed float64, staff entity.Staff, rnd *simrand.Source) float64 {
	skillFactor := 1 - float64(staff.SkillLevel-3)*e.cfg.SkillImpactMultiplier
	if skillFactor < 0.5 {
		skillFactor = 0.5
	}
	if skillFactor > 1.5 {
		skillFactor = 1.5
	}

	capMultiplier := staff.CapacityMultiplier
	if capMultiplier <= 0 {
		capMultiplier = 1
	}

	adjusted := fixed * skillFactor / capMultiplier
	jitter := rnd.UniformRange(0.85, 1.15)
	return e.clamp(adjusted * jitter)
}

func (e *Estimator) clamp(minutes float64) float64 {
	if minutes < e.cfg.MinTaskDuration {
		return e.cfg.MinTaskDuration
	}
	if minutes > e.cfg.MaxTaskDuration {
		return e.cfg.MaxTaskDuration
	}
	return minutes
}
