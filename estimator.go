package arachne

import (
	"time"

	"golang.org/x/exp/constraints"
)

// defaultEstimatorPeriod is the default sampling period for the core
// load estimator (spec.md §4.I).
const defaultEstimatorPeriod = 50 * time.Millisecond

// LoadEstimatorStrategy selects which heuristic CoreLoadEstimator uses
// to recommend scaling the held core count.
type LoadEstimatorStrategy int

const (
	// LoadFactorStrategy recommends scaling based on weighted loaded
	// cycles versus idle cycles, with hysteresis around the idle
	// fraction. This is the original's default strategy, per
	// CoreLoadEstimator.h.
	LoadFactorStrategy LoadEstimatorStrategy = iota
	// UtilizationStrategy recommends scaling based on a simple
	// occupied-core utilization ratio against a maximum target.
	UtilizationStrategy
)

// Constants grounded on the original's CoreLoadEstimator.h, preserved
// verbatim since spec.md §4.I leaves their exact values to this
// implementation but they are load-bearing for the scenario in §8.
const (
	loadFactorThreshold          = 1.5
	maxUtilization                = 0.8
	idleCoreFractionHysteresis   = 0.09
	zeroCoreUtilizationThreshold = 0.01
	slotOccupancyThreshold       = 0.5
)

// Recommendation is CoreLoadEstimator's output: how many cores to add
// or remove, or 0 for no change.
type Recommendation int

const (
	RecommendRemoveCore Recommendation = -1
	RecommendNoChange   Recommendation = 0
	RecommendAddCore    Recommendation = 1
)

// CoreLoadEstimator periodically samples every held core's idle/total/
// weighted-loaded cycle counters and slot occupancy and recommends
// scaling the held core count up or down (spec.md §4.I). Grounded on
// catrate's periodic-sampling rate estimator, generalized here from a
// single scalar rate to a per-core cycle/occupancy snapshot feeding a
// pluggable strategy.
type CoreLoadEstimator struct {
	rt       *Runtime
	strategy LoadEstimatorStrategy
	period   time.Duration

	lastIdleFraction float64
}

func newCoreLoadEstimator(rt *Runtime, strategy LoadEstimatorStrategy, period time.Duration) *CoreLoadEstimator {
	return &CoreLoadEstimator{rt: rt, strategy: strategy, period: period, lastIdleFraction: 1}
}

// sample reads every held core's counters, per spec.md §4.I "Sampling".
func (e *CoreLoadEstimator) sample() coreLoadSample {
	var s coreLoadSample
	for _, c := range e.rt.cores {
		idle := c.idleCycles.Load()
		total := c.totalCycles.Load()
		weighted := c.weightedLoadedCycles.Load()
		occ := c.mask.load().numOccupied()
		s.idleCycles += idle
		s.totalCycles += total
		s.weightedLoadedCycles += weighted
		s.occupiedSlots += occ
		s.coreCount++
	}
	return s
}

type coreLoadSample struct {
	idleCycles, totalCycles, weightedLoadedCycles uint64
	occupiedSlots, coreCount                      int
}

func (s coreLoadSample) idleFraction() float64 {
	if s.totalCycles == 0 {
		return 1
	}
	return float64(s.idleCycles) / float64(s.totalCycles)
}

func (s coreLoadSample) slotOccupancyFraction() float64 {
	capacity := s.coreCount * maxSlotsPerCore
	if capacity == 0 {
		return 0
	}
	return float64(s.occupiedSlots) / float64(capacity)
}

// recommend applies e's configured strategy to the most recent sample,
// per spec.md §4.I.
func (e *CoreLoadEstimator) recommend() Recommendation {
	s := e.sample()
	defer func() { e.lastIdleFraction = s.idleFraction() }()

	switch e.strategy {
	case UtilizationStrategy:
		util := 1 - s.idleFraction()
		if util > maxUtilization {
			return RecommendAddCore
		}
		if util < zeroCoreUtilizationThreshold {
			return RecommendRemoveCore
		}
		return RecommendNoChange
	default: // LoadFactorStrategy
		if s.totalCycles == 0 {
			return RecommendNoChange
		}
		loadFactor := float64(s.weightedLoadedCycles) / clamp(float64(s.idleCycles), 1, float64(s.totalCycles))
		idleFrac := s.idleFraction()
		switch {
		case loadFactor > loadFactorThreshold && s.slotOccupancyFraction() > slotOccupancyThreshold:
			return RecommendAddCore
		case idleFrac > e.lastIdleFraction+idleCoreFractionHysteresis && idleFrac > 1-zeroCoreUtilizationThreshold:
			return RecommendRemoveCore
		default:
			return RecommendNoChange
		}
	}
}

// clamp restricts v to [lo, hi], grounded on catrate's generic clamp
// helper (golang.org/x/exp/constraints.Ordered).
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
