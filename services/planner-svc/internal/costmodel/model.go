// Package costmodel derives repair prices, durations and crew costs
// from infrastructure geometry and configured rate tables.
package costmodel

import (
	"math"

	"reconnect/pkg/apperror"
	"reconnect/pkg/config"
	"reconnect/pkg/domain"
)

// Model holds the rate tables and crew parameters.
type Model struct {
	pricePerMeter    map[domain.InfraType]float64
	durationPerMeter map[domain.InfraType]float64
	dailyWage        float64
	shiftHours       float64
	maxWorkers       int
}

// New builds a cost model from configuration. Every known
// infrastructure type must have a price and a duration rate.
func New(cfg config.PlanningConfig) (*Model, error) {
	m := &Model{
		pricePerMeter:    make(map[domain.InfraType]float64, 3),
		durationPerMeter: make(map[domain.InfraType]float64, 3),
		dailyWage:        cfg.DailyWage,
		shiftHours:       cfg.ShiftHours,
		maxWorkers:       cfg.MaxWorkersPerInfra,
	}
	if m.shiftHours <= 0 {
		m.shiftHours = 8
	}
	if m.maxWorkers < 1 {
		m.maxWorkers = 1
	}

	for _, t := range []domain.InfraType{domain.InfraTypeAerial, domain.InfraTypeSemiAerial, domain.InfraTypeDuct} {
		price, ok := cfg.PricePerMeter[t.String()]
		if !ok {
			return nil, apperror.Newf(apperror.CodeMissingRate, "no price rate for infrastructure type %q", t)
		}
		duration, ok := cfg.DurationPerMeter[t.String()]
		if !ok {
			return nil, apperror.Newf(apperror.CodeMissingRate, "no duration rate for infrastructure type %q", t)
		}
		if price < 0 || duration < 0 {
			return nil, apperror.Newf(apperror.CodeNegativeValue, "rates for %q must not be negative", t)
		}
		m.pricePerMeter[t] = price
		m.durationPerMeter[t] = duration
	}

	return m, nil
}

// MaxWorkers returns the per-infrastructure crew size cap.
func (m *Model) MaxWorkers() int {
	return m.maxWorkers
}

// Price is the repair price of a segment of the given type and length.
func (m *Model) Price(t domain.InfraType, length float64) float64 {
	return length * m.pricePerMeter[t]
}

// DurationHours is the total work required to repair a segment,
// in worker-hours.
func (m *Model) DurationHours(t domain.InfraType, length float64) float64 {
	return length * m.durationPerMeter[t]
}

// WorkerCost is the labor cost of a segment. Pay follows hours of work,
// not crew size.
func (m *Model) WorkerCost(t domain.InfraType, length float64) float64 {
	return m.DurationHours(t, length) / m.shiftHours * m.dailyWage
}

// ElapsedHours is the wall-clock repair time with the given crew size.
// Throughput stops improving past the configured worker cap.
func (m *Model) ElapsedHours(t domain.InfraType, length float64, workers int) float64 {
	if workers < 1 {
		workers = 1
	}
	if workers > m.maxWorkers {
		workers = m.maxWorkers
	}
	return m.DurationHours(t, length) / float64(workers)
}

// RequiredWorkers is the smallest crew that finishes a segment within
// targetHours, clamped to the worker cap. A non-positive target asks
// for the fastest crew.
func (m *Model) RequiredWorkers(t domain.InfraType, length float64, targetHours float64) int {
	if targetHours <= 0 {
		return m.maxWorkers
	}
	workers := int(math.Ceil(m.DurationHours(t, length) / targetHours))
	if workers < 1 {
		workers = 1
	}
	if workers > m.maxWorkers {
		workers = m.maxWorkers
	}
	return workers
}
