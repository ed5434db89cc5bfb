package scoring

import (
	"math"
	"sort"

	"reconnect/pkg/apperror"
	"reconnect/pkg/config"
	"reconnect/pkg/domain"
)

// Weights are the composite-score weights per criterion.
type Weights struct {
	Population float64
	Cost       float64
	Urgency    float64
	Distance   float64
}

// WeightsFromConfig copies the scoring weights out of the configuration.
func WeightsFromConfig(cfg config.ScoringConfig) Weights {
	return Weights{
		Population: cfg.Population,
		Cost:       cfg.Cost,
		Urgency:    cfg.Urgency,
		Distance:   cfg.Distance,
	}
}

// Validate checks that all weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Population, w.Cost, w.Urgency, w.Distance} {
		if v < 0 {
			return apperror.New(apperror.CodeInvalidWeights, "scoring weights must not be negative")
		}
	}
	sum := w.Population + w.Cost + w.Urgency + w.Distance
	if math.Abs(sum-1.0) > domain.WeightTolerance {
		return apperror.Newf(apperror.CodeInvalidWeights,
			"scoring weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// RankedBuilding is one row of the prioritization output.
type RankedBuilding struct {
	BuildingID      string  `json:"building_id"`
	PopulationScore float64 `json:"population_score"`
	CostScore       float64 `json:"cost_score"`
	UrgencyScore    float64 `json:"urgency_score"`
	DistanceScore   float64 `json:"distance_score"`
	CompositeScore  float64 `json:"composite_score"`
	Rank            int     `json:"rank"`

	CumulativeInhabitants int     `json:"cumulative_inhabitants"`
	CumulativeCost        float64 `json:"cumulative_cost"`

	// Share of the totals covered once this row is reached, in percent.
	CumulativeInhabitantsPct float64 `json:"cumulative_inhabitants_pct"`
	CumulativeCostPct        float64 `json:"cumulative_cost_pct"`
}

// Engine ranks buildings by weighted composite score.
type Engine struct {
	weights Weights
}

// NewEngine validates the weights and returns a ranking engine.
func NewEngine(weights Weights) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: weights}, nil
}

// Rank scores every building, sorts by composite score descending with
// ties broken by ascending identifier, and attaches 1-based ranks and
// cumulative impact figures.
func (e *Engine) Rank(buildings []domain.Building) ([]RankedBuilding, error) {
	if err := domain.ValidateBuildings(buildings); err != nil {
		return nil, err
	}
	if len(buildings) == 0 {
		return []RankedBuilding{}, nil
	}

	inhabitants := make([]int, len(buildings))
	costs := make([]float64, len(buildings))
	distances := make([]float64, len(buildings))
	for i := range buildings {
		inhabitants[i] = buildings[i].Inhabitants
		costs[i] = buildings[i].Cost
		distances[i] = buildings[i].Distance
	}

	popScores := PopulationScores(inhabitants)
	costScores := CostScores(costs)
	distScores := DistanceScores(distances)

	ranked := make([]RankedBuilding, len(buildings))
	for i, b := range buildings {
		urgency := UrgencyScore(b.Type, b.Priority)
		ranked[i] = RankedBuilding{
			BuildingID:      b.ID,
			PopulationScore: popScores[i],
			CostScore:       costScores[i],
			UrgencyScore:    urgency,
			DistanceScore:   distScores[i],
			CompositeScore: e.weights.Population*popScores[i] +
				e.weights.Cost*costScores[i] +
				e.weights.Urgency*urgency +
				e.weights.Distance*distScores[i],
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CompositeScore != ranked[j].CompositeScore {
			return ranked[i].CompositeScore > ranked[j].CompositeScore
		}
		return ranked[i].BuildingID < ranked[j].BuildingID
	})

	byID := make(map[string]*domain.Building, len(buildings))
	for i := range buildings {
		byID[buildings[i].ID] = &buildings[i]
	}

	totalInhabitants := 0
	totalCost := 0.0
	for i := range buildings {
		totalInhabitants += buildings[i].Inhabitants
		totalCost += buildings[i].Cost
	}

	runInhabitants := 0
	runCost := 0.0
	for i := range ranked {
		b := byID[ranked[i].BuildingID]
		runInhabitants += b.Inhabitants
		runCost += b.Cost

		ranked[i].Rank = i + 1
		ranked[i].CumulativeInhabitants = runInhabitants
		ranked[i].CumulativeCost = runCost
		if totalInhabitants > 0 {
			ranked[i].CumulativeInhabitantsPct = 100 * float64(runInhabitants) / float64(totalInhabitants)
		}
		if totalCost > 0 {
			ranked[i].CumulativeCostPct = 100 * runCost / totalCost
		}
	}

	return ranked, nil
}
