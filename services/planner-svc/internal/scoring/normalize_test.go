package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reconnect/pkg/domain"
)

func TestPopulationScores(t *testing.T) {
	scores := PopulationScores([]int{100, 200, 400})
	assert.InDelta(t, 0.25, scores[0], 1e-9)
	assert.InDelta(t, 0.5, scores[1], 1e-9)
	assert.InDelta(t, 1.0, scores[2], 1e-9)
}

func TestPopulationScores_AllZero(t *testing.T) {
	scores := PopulationScores([]int{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, scores)
}

func TestCostScores(t *testing.T) {
	scores := CostScores([]float64{100, 200, 300})
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.5, scores[1], 1e-9)
	assert.InDelta(t, 0.0, scores[2], 1e-9)
}

func TestCostScores_AllEqual(t *testing.T) {
	scores := CostScores([]float64{250, 250, 250})
	assert.Equal(t, []float64{1, 1, 1}, scores)
}

func TestDistanceScores(t *testing.T) {
	scores := DistanceScores([]float64{10, 30})
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)

	assert.Empty(t, DistanceScores(nil))
}

func TestUrgencyScore(t *testing.T) {
	tests := []struct {
		buildingType domain.BuildingType
		priority     domain.PriorityLevel
		want         float64
	}{
		{domain.BuildingTypeHospital, domain.PriorityHigh, 1.0},
		{domain.BuildingTypeSchool, domain.PriorityHigh, 1.0},
		{domain.BuildingTypeResidential, domain.PriorityHigh, 0.75},
		{domain.BuildingTypeCommercial, domain.PriorityMedium, 0.55},
		{domain.BuildingTypeResidential, domain.PriorityMedium, 0.55},
		{domain.BuildingTypeResidential, domain.PriorityLow, 0.35},

		// Untabulated pairs fall back to the neutral score.
		{domain.BuildingTypeHospital, domain.PriorityLow, 0.5},
		{domain.BuildingTypeSchool, domain.PriorityMedium, 0.5},
		{domain.BuildingTypeCommercial, domain.PriorityHigh, 0.5},
		{domain.BuildingTypeUnspecified, domain.PriorityUnspecified, 0.5},
	}

	for _, tt := range tests {
		got := UrgencyScore(tt.buildingType, tt.priority)
		assert.InDelta(t, tt.want, got, 1e-9, "%s/%s", tt.buildingType, tt.priority)
	}
}
