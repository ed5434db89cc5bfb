package benchmark

import (
	"fmt"
	"testing"

	"reconnect/pkg/domain"
)

func BenchmarkValidateBuildings(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("%d_buildings", n), func(b *testing.B) {
			buildings := generateBuildings(n)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := domain.ValidateBuildings(buildings); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkValidateInfrastructures(b *testing.B) {
	infras := generateInfrastructures(5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := domain.ValidateInfrastructures(infras); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseBuildingType(b *testing.B) {
	names := []string{"hospital", "school", "residential", "commercial"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		domain.ParseBuildingType(names[i%len(names)])
	}
}

func BenchmarkParseInfraType(b *testing.B) {
	names := []string{"aerial", "semi_aerial", "duct"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		domain.ParseInfraType(names[i%len(names)])
	}
}

func generateBuildings(n int) []domain.Building {
	types := []domain.BuildingType{
		domain.BuildingTypeHospital,
		domain.BuildingTypeSchool,
		domain.BuildingTypeResidential,
		domain.BuildingTypeCommercial,
	}

	buildings := make([]domain.Building, n)
	for i := range buildings {
		buildings[i] = domain.Building{
			ID:          fmt.Sprintf("b-%d", i),
			Inhabitants: 10 + i%190,
			Type:        types[i%len(types)],
			Priority:    domain.PriorityMedium,
			Connected:   i%3 == 0,
			Cost:        float64(1000 + i%9000),
			Distance:    float64(i % 500),
		}
	}
	return buildings
}

func generateInfrastructures(n int) []domain.Infrastructure {
	types := []domain.InfraType{domain.InfraTypeAerial, domain.InfraTypeSemiAerial, domain.InfraTypeDuct}

	infras := make([]domain.Infrastructure, n)
	for i := range infras {
		state := domain.InfraStateIntact
		if i%2 == 0 {
			state = domain.InfraStateToReplace
		}
		infras[i] = domain.Infrastructure{
			ID:           fmt.Sprintf("inf-%d", i),
			BuildingID:   fmt.Sprintf("b-%d", i%1000),
			Type:         types[i%len(types)],
			State:        state,
			Length:       float64(5 + i%95),
			HousesServed: 1 + i%10,
		}
	}
	return infras
}
