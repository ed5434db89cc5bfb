package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconnect/pkg/apperror"
)

func TestParseBuildingType(t *testing.T) {
	tests := []struct {
		in      string
		want    BuildingType
		wantErr bool
	}{
		{"residential", BuildingTypeResidential, false},
		{"school", BuildingTypeSchool, false},
		{"hospital", BuildingTypeHospital, false},
		{"commercial", BuildingTypeCommercial, false},
		{"warehouse", BuildingTypeUnspecified, true},
		{"", BuildingTypeUnspecified, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBuildingType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, apperror.CodeInvalidBuildingType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseInfraType_Aliases(t *testing.T) {
	a, err := ParseInfraType("semi_aerial")
	require.NoError(t, err)
	b, err := ParseInfraType("semi-aerial")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, InfraTypeSemiAerial, a)
}

func TestParseInfraState(t *testing.T) {
	s, err := ParseInfraState("to_replace")
	require.NoError(t, err)
	assert.Equal(t, InfraStateToReplace, s)

	_, err = ParseInfraState("broken")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInfraState))
}

func TestBuilding_Validate(t *testing.T) {
	tests := []struct {
		name     string
		building Building
		wantCode apperror.ErrorCode
	}{
		{
			name:     "valid",
			building: Building{ID: "B1", Inhabitants: 10, Cost: 100, Distance: 5},
		},
		{
			name:     "missing id",
			building: Building{Inhabitants: 10},
			wantCode: apperror.CodeInvalidArgument,
		},
		{
			name:     "negative inhabitants",
			building: Building{ID: "B1", Inhabitants: -1},
			wantCode: apperror.CodeNegativeValue,
		},
		{
			name:     "negative cost",
			building: Building{ID: "B1", Cost: -100},
			wantCode: apperror.CodeNegativeValue,
		},
		{
			name:     "negative distance",
			building: Building{ID: "B1", Distance: -1},
			wantCode: apperror.CodeNegativeValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.building.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsCode(err, tt.wantCode))
		})
	}
}

func TestInfrastructure_NeedsRepair(t *testing.T) {
	intact := Infrastructure{ID: "I1", State: InfraStateIntact}
	broken := Infrastructure{ID: "I2", State: InfraStateToReplace}

	assert.False(t, intact.NeedsRepair())
	assert.True(t, broken.NeedsRepair())
}

func TestValidateBuildings_Duplicates(t *testing.T) {
	err := ValidateBuildings([]Building{
		{ID: "B1"},
		{ID: "B2"},
		{ID: "B1"},
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicateID))
}

func TestValidateInfrastructures(t *testing.T) {
	err := ValidateInfrastructures([]Infrastructure{
		{ID: "I1", Length: 10},
		{ID: "I2", Length: -3},
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeNegativeLength))
}

func TestSafeReciprocal(t *testing.T) {
	assert.InDelta(t, 0.5, SafeReciprocal(2.0), 1e-12)
	assert.Equal(t, MaxReciprocal, SafeReciprocal(0))
	assert.Equal(t, MaxReciprocal, SafeReciprocal(-1))
}
