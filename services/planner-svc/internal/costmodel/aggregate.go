package costmodel

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"reconnect/pkg/apperror"
	"reconnect/pkg/domain"
)

// BuildingCost aggregates repair figures over the to-replace
// infrastructures of one building.
type BuildingCost struct {
	BuildingID string   `json:"building_id"`
	InfraIDs   []string `json:"infra_ids"`

	TotalCost          float64 `json:"total_cost"`
	TotalDurationHours float64 `json:"total_duration_hours"`
	TotalWorkerCost    float64 `json:"total_worker_cost"`

	// Wall-clock lower bound: independent crews repair segments in
	// parallel, so the slowest segment at full crew is binding.
	MinElapsedHours float64 `json:"min_elapsed_hours"`

	TotalLength  float64 `json:"total_length"`
	HousesServed int     `json:"houses_served"`

	// Length of repair per household served; lower is better.
	Difficulty float64 `json:"difficulty"`
}

// ForBuilding aggregates the to-replace infrastructures of one building.
// Intact segments do not contribute.
func (m *Model) ForBuilding(buildingID string, infras []domain.Infrastructure) (BuildingCost, error) {
	agg := BuildingCost{BuildingID: buildingID, InfraIDs: []string{}}

	for i := range infras {
		infra := &infras[i]
		if infra.BuildingID != buildingID || !infra.NeedsRepair() {
			continue
		}
		if infra.Type == domain.InfraTypeUnspecified {
			return BuildingCost{}, apperror.Newf(apperror.CodeInvalidInfraType,
				"infrastructure %q has no type", infra.ID)
		}

		agg.InfraIDs = append(agg.InfraIDs, infra.ID)
		agg.TotalCost += m.Price(infra.Type, infra.Length)
		agg.TotalDurationHours += m.DurationHours(infra.Type, infra.Length)
		agg.TotalWorkerCost += m.WorkerCost(infra.Type, infra.Length)
		agg.TotalLength += infra.Length
		agg.HousesServed += infra.HousesServed

		if elapsed := m.ElapsedHours(infra.Type, infra.Length, m.maxWorkers); elapsed > agg.MinElapsedHours {
			agg.MinElapsedHours = elapsed
		}
	}

	sort.Strings(agg.InfraIDs)

	if agg.HousesServed > 0 {
		agg.Difficulty = agg.TotalLength / float64(agg.HousesServed)
	} else {
		agg.Difficulty = agg.TotalLength
	}

	return agg, nil
}

// BuildingCosts aggregates every building concurrently. Buildings are
// independent, so the work fans out over a bounded group; the result
// is ordered by building identifier regardless of completion order.
func (m *Model) BuildingCosts(ctx context.Context, buildings []domain.Building, infras []domain.Infrastructure) ([]BuildingCost, error) {
	if err := domain.ValidateBuildings(buildings); err != nil {
		return nil, err
	}
	if err := domain.ValidateInfrastructures(infras); err != nil {
		return nil, err
	}

	byBuilding := make(map[string][]domain.Infrastructure, len(buildings))
	for _, infra := range infras {
		byBuilding[infra.BuildingID] = append(byBuilding[infra.BuildingID], infra)
	}

	results := make([]BuildingCost, len(buildings))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i := range buildings {
		g.Go(func() error {
			cost, err := m.ForBuilding(buildings[i].ID, byBuilding[buildings[i].ID])
			if err != nil {
				return err
			}
			results[i] = cost
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].BuildingID < results[j].BuildingID })
	return results, nil
}
