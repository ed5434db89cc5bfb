// Package domain defines the record types shared by the reconnection
// planning components: buildings, infrastructure segments, network
// segments and substations. Records are created at the ingestion
// boundary; unknown enum values are rejected there, not discovered
// mid-computation.
package domain

import (
	"reconnect/pkg/apperror"
)

// BuildingType categorizes a building.
type BuildingType int

const (
	BuildingTypeUnspecified BuildingType = iota
	BuildingTypeResidential
	BuildingTypeSchool
	BuildingTypeHospital
	BuildingTypeCommercial
)

// String returns the string representation of the building type.
func (b BuildingType) String() string {
	switch b {
	case BuildingTypeResidential:
		return "residential"
	case BuildingTypeSchool:
		return "school"
	case BuildingTypeHospital:
		return "hospital"
	case BuildingTypeCommercial:
		return "commercial"
	default:
		return "unspecified"
	}
}

// ParseBuildingType converts a string into a BuildingType.
func ParseBuildingType(s string) (BuildingType, error) {
	switch s {
	case "residential":
		return BuildingTypeResidential, nil
	case "school":
		return BuildingTypeSchool, nil
	case "hospital":
		return BuildingTypeHospital, nil
	case "commercial":
		return BuildingTypeCommercial, nil
	default:
		return BuildingTypeUnspecified, apperror.Newf(apperror.CodeInvalidBuildingType, "unknown building type %q", s)
	}
}

// PriorityLevel is the explicit priority attached to a building record.
type PriorityLevel int

const (
	PriorityUnspecified PriorityLevel = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// String returns the string representation of the priority level.
func (p PriorityLevel) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unspecified"
	}
}

// ParsePriorityLevel converts a string into a PriorityLevel.
func ParsePriorityLevel(s string) (PriorityLevel, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityUnspecified, apperror.Newf(apperror.CodeInvalidPriority, "unknown priority %q", s)
	}
}

// InfraType is the technical type of an infrastructure segment.
type InfraType int

const (
	InfraTypeUnspecified InfraType = iota
	InfraTypeAerial
	InfraTypeSemiAerial
	InfraTypeDuct
)

// String returns the string representation of the infrastructure type.
func (t InfraType) String() string {
	switch t {
	case InfraTypeAerial:
		return "aerial"
	case InfraTypeSemiAerial:
		return "semi_aerial"
	case InfraTypeDuct:
		return "duct"
	default:
		return "unspecified"
	}
}

// ParseInfraType converts a string into an InfraType.
func ParseInfraType(s string) (InfraType, error) {
	switch s {
	case "aerial":
		return InfraTypeAerial, nil
	case "semi_aerial", "semi-aerial":
		return InfraTypeSemiAerial, nil
	case "duct":
		return InfraTypeDuct, nil
	default:
		return InfraTypeUnspecified, apperror.Newf(apperror.CodeInvalidInfraType, "unknown infrastructure type %q", s)
	}
}

// InfraState describes whether an infrastructure segment needs replacement.
type InfraState int

const (
	InfraStateUnspecified InfraState = iota
	InfraStateIntact
	InfraStateToReplace
)

// String returns the string representation of the infrastructure state.
func (s InfraState) String() string {
	switch s {
	case InfraStateIntact:
		return "intact"
	case InfraStateToReplace:
		return "to_replace"
	default:
		return "unspecified"
	}
}

// ParseInfraState converts a string into an InfraState.
func ParseInfraState(s string) (InfraState, error) {
	switch s {
	case "intact":
		return InfraStateIntact, nil
	case "to_replace":
		return InfraStateToReplace, nil
	default:
		return InfraStateUnspecified, apperror.Newf(apperror.CodeInvalidInfraState, "unknown infrastructure state %q", s)
	}
}

// Building is a building record as supplied by the loading layer.
// Cost and Distance are the reconnection cost estimate and the distance
// to the existing network, both precomputed upstream.
type Building struct {
	ID          string
	Inhabitants int
	Type        BuildingType
	Priority    PriorityLevel
	Connected   bool
	Cost        float64
	Distance    float64
}

// Validate checks the building record invariants.
func (b *Building) Validate() error {
	if b.ID == "" {
		return apperror.NewWithField(apperror.CodeInvalidArgument, "building id is required", "id")
	}
	if b.Inhabitants < 0 {
		return apperror.NewWithField(apperror.CodeNegativeValue, "inhabitants must not be negative", "inhabitants")
	}
	if b.Cost < 0 {
		return apperror.NewWithField(apperror.CodeNegativeValue, "cost must not be negative", "cost")
	}
	if b.Distance < 0 {
		return apperror.NewWithField(apperror.CodeNegativeValue, "distance must not be negative", "distance")
	}
	return nil
}

// Infrastructure is one repairable segment serving a building.
type Infrastructure struct {
	ID           string
	BuildingID   string
	Type         InfraType
	State        InfraState
	Length       float64
	HousesServed int
}

// NeedsRepair reports whether the segment must be replaced.
func (i *Infrastructure) NeedsRepair() bool {
	return i.State == InfraStateToReplace
}

// Validate checks the infrastructure record invariants.
func (i *Infrastructure) Validate() error {
	if i.ID == "" {
		return apperror.NewWithField(apperror.CodeInvalidArgument, "infrastructure id is required", "id")
	}
	if i.Length < 0 {
		return apperror.NewWithField(apperror.CodeNegativeLength, "length must not be negative", "length")
	}
	if i.HousesServed < 0 {
		return apperror.NewWithField(apperror.CodeNegativeValue, "houses served must not be negative", "houses_served")
	}
	return nil
}

// Substation is a transformation substation record.
type Substation struct {
	ID       string
	Name     string
	X        float64
	Y        float64
	Capacity float64
}

// NetworkSegment is one span of the distribution network.
type NetworkSegment struct {
	ID        string
	EndpointA string
	EndpointB string
	Length    float64
	Damaged   bool
	Capacity  float64
}

// ValidateBuildings validates a batch and rejects duplicate identifiers.
func ValidateBuildings(buildings []Building) error {
	seen := make(map[string]bool, len(buildings))
	for i := range buildings {
		if err := buildings[i].Validate(); err != nil {
			return err
		}
		if seen[buildings[i].ID] {
			return apperror.Newf(apperror.CodeDuplicateID, "duplicate building id %q", buildings[i].ID)
		}
		seen[buildings[i].ID] = true
	}
	return nil
}

// ValidateInfrastructures validates a batch and rejects duplicate identifiers.
func ValidateInfrastructures(infras []Infrastructure) error {
	seen := make(map[string]bool, len(infras))
	for i := range infras {
		if err := infras[i].Validate(); err != nil {
			return err
		}
		if seen[infras[i].ID] {
			return apperror.Newf(apperror.CodeDuplicateID, "duplicate infrastructure id %q", infras[i].ID)
		}
		seen[infras[i].ID] = true
	}
	return nil
}
