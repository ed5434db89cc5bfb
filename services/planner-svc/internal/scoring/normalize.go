// Package scoring normalizes per-criterion building scores and ranks
// buildings by a weighted composite.
package scoring

import "reconnect/pkg/domain"

// PopulationScores scales inhabitant counts by the maximum of the
// collection. An all-zero collection yields all-zero scores.
func PopulationScores(inhabitants []int) []float64 {
	scores := make([]float64, len(inhabitants))
	max := 0
	for _, v := range inhabitants {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return scores
	}
	for i, v := range inhabitants {
		scores[i] = float64(v) / float64(max)
	}
	return scores
}

// inverseMinMax maps values to [0,1] with the smallest value scoring
// highest. When all values are equal there is no discriminating signal
// and every score is 1.
func inverseMinMax(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) == 0 {
		return scores
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if domain.FloatEquals(min, max) {
		for i := range scores {
			scores[i] = 1.0
		}
		return scores
	}

	span := max - min
	for i, v := range values {
		scores[i] = 1.0 - (v-min)/span
	}
	return scores
}

// CostScores scores reconnection cost estimates, cheapest first.
func CostScores(costs []float64) []float64 {
	return inverseMinMax(costs)
}

// DistanceScores scores distances to the existing network, nearest first.
func DistanceScores(distances []float64) []float64 {
	return inverseMinMax(distances)
}

type urgencyKey struct {
	buildingType domain.BuildingType
	priority     domain.PriorityLevel
}

// neutralUrgency applies to any (type, priority) pair outside the table.
const neutralUrgency = 0.5

var urgencyTable = map[urgencyKey]float64{
	{domain.BuildingTypeHospital, domain.PriorityHigh}:      1.0,
	{domain.BuildingTypeSchool, domain.PriorityHigh}:        1.0,
	{domain.BuildingTypeResidential, domain.PriorityHigh}:   0.75,
	{domain.BuildingTypeCommercial, domain.PriorityMedium}:  0.55,
	{domain.BuildingTypeResidential, domain.PriorityMedium}: 0.55,
	{domain.BuildingTypeResidential, domain.PriorityLow}:    0.35,
}

// UrgencyScore looks up the urgency of a (type, priority) pair.
func UrgencyScore(buildingType domain.BuildingType, priority domain.PriorityLevel) float64 {
	if score, ok := urgencyTable[urgencyKey{buildingType, priority}]; ok {
		return score
	}
	return neutralUrgency
}
