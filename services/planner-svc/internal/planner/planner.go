// Package planner schedules building reconnections into a critical
// phase followed by budget-constrained phases.
package planner

import (
	"context"
	"log/slog"
	"sort"

	"reconnect/pkg/apperror"
	"reconnect/pkg/config"
	"reconnect/pkg/domain"
	"reconnect/pkg/logger"

	"reconnect/services/planner-svc/internal/costmodel"
)

// state tracks the planner's progress. Transitions are strictly
// sequential; no phase is revisited.
type state int

const (
	stateInit state = iota
	stateCritical
	stateBudget
	stateDone
)

func (s state) String() string {
	switch s {
	case stateCritical:
		return "critical"
	case stateBudget:
		return "budget"
	case stateDone:
		return "done"
	default:
		return "init"
	}
}

// Warning codes attached to phases and plans.
const (
	WarnGeneratorAutonomy = "GENERATOR_AUTONOMY_EXCEEDED"
	WarnBudgetExhausted   = "BUDGET_EXHAUSTED"
)

// Warning flags a risk for human review without blocking the plan.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Phase is one step of the reconnection schedule. Index 0 is the
// critical-facility phase; budget phases start at 1.
type Phase struct {
	Index           int       `json:"index"`
	BuildingIDs     []string  `json:"building_ids"`
	InfraIDs        []string  `json:"infra_ids"`
	Cost            float64   `json:"cost"`
	DurationHours   float64   `json:"duration_hours"`
	MinElapsedHours float64   `json:"min_elapsed_hours"`
	WorkerCost      float64   `json:"worker_cost"`
	BudgetAllotment float64   `json:"budget_allotment,omitempty"`
	Warnings        []Warning `json:"warnings,omitempty"`
}

// Plan is the full phased schedule. Buildings that did not fit in any
// phase are reported unplanned, never silently dropped.
type Plan struct {
	Phases     []Phase   `json:"phases"`
	Unplanned  []string  `json:"unplanned,omitempty"`
	Warnings   []Warning `json:"warnings,omitempty"`
	TotalCost  float64   `json:"total_cost"`
	WorkerCost float64   `json:"worker_cost"`
}

// Planner builds phased reconnection plans.
type Planner struct {
	model *costmodel.Model

	totalBudget    float64
	fractions      []float64
	autonomyHours  float64
	safetyMargin   float64
	combined       config.CombinedConfig
	priorityWeight map[domain.BuildingType]float64
}

// neutralPriority applies to building types missing from the table.
const neutralPriority = 0.5

// New validates the planning parameters and returns a planner.
// Configuration problems are fatal here, before any plan is attempted.
func New(model *costmodel.Model, cfg config.PlanningConfig) (*Planner, error) {
	if model == nil {
		return nil, apperror.New(apperror.CodeNilInput, "cost model is required")
	}
	if cfg.TotalBudget <= 0 {
		return nil, apperror.Newf(apperror.CodeInvalidBudget, "total budget must be positive, got %v", cfg.TotalBudget)
	}
	if len(cfg.PhaseBudgetFractions) == 0 {
		return nil, apperror.New(apperror.CodeInvalidFraction, "at least one phase budget fraction is required")
	}
	sum := 0.0
	for _, f := range cfg.PhaseBudgetFractions {
		if f <= 0 || f > 1 {
			return nil, apperror.Newf(apperror.CodeInvalidFraction, "phase budget fraction %v out of (0,1]", f)
		}
		sum += f
	}
	if sum > 1+domain.WeightTolerance {
		return nil, apperror.Newf(apperror.CodeInvalidFraction, "phase budget fractions sum to %v, must not exceed 1", sum)
	}
	for _, c := range []float64{cfg.Combined.Alpha, cfg.Combined.Beta, cfg.Combined.Gamma, cfg.Combined.Delta} {
		if c < 0 {
			return nil, apperror.New(apperror.CodeNegativeCoefficient, "combined score coefficients must not be negative")
		}
	}
	if cfg.GeneratorAutonomyHours <= 0 {
		return nil, apperror.Newf(apperror.CodeInvalidAutonomy, "generator autonomy must be positive, got %v", cfg.GeneratorAutonomyHours)
	}
	if cfg.SafetyMargin <= 0 || cfg.SafetyMargin > 1 {
		return nil, apperror.Newf(apperror.CodeInvalidMargin, "safety margin %v out of (0,1]", cfg.SafetyMargin)
	}

	priority := make(map[domain.BuildingType]float64, len(cfg.Priority))
	for name, weight := range cfg.Priority {
		t, err := domain.ParseBuildingType(name)
		if err != nil {
			return nil, err
		}
		if weight < 0 {
			return nil, apperror.Newf(apperror.CodeNegativeValue, "priority weight for %q must not be negative", name)
		}
		priority[t] = weight
	}

	return &Planner{
		model:          model,
		totalBudget:    cfg.TotalBudget,
		fractions:      cfg.PhaseBudgetFractions,
		autonomyHours:  cfg.GeneratorAutonomyHours,
		safetyMargin:   cfg.SafetyMargin,
		combined:       cfg.Combined,
		priorityWeight: priority,
	}, nil
}

// candidate is one building requiring repair, with its cost aggregate.
type candidate struct {
	building domain.Building
	cost     costmodel.BuildingCost
}

// BuildPlan schedules every building requiring repair. A building
// requires repair when it is disconnected or has a to-replace segment.
func (p *Planner) BuildPlan(ctx context.Context, buildings []domain.Building, infras []domain.Infrastructure) (*Plan, error) {
	costs, err := p.model.BuildingCosts(ctx, buildings, infras)
	if err != nil {
		return nil, err
	}
	costByID := make(map[string]costmodel.BuildingCost, len(costs))
	for _, c := range costs {
		costByID[c.BuildingID] = c
	}

	var critical, remaining []candidate
	for _, b := range buildings {
		c := candidate{building: b, cost: costByID[b.ID]}
		if b.Connected && len(c.cost.InfraIDs) == 0 {
			continue
		}
		if b.Type == domain.BuildingTypeHospital {
			critical = append(critical, c)
		} else {
			remaining = append(remaining, c)
		}
	}

	st := stateInit
	plan := &Plan{Phases: []Phase{}}
	remainingBudget := p.totalBudget

	st = stateCritical
	if len(critical) > 0 {
		phase := p.criticalPhase(critical)
		plan.Phases = append(plan.Phases, phase)
		remainingBudget -= phase.Cost
		if remainingBudget < 0 {
			remainingBudget = 0
		}
		logger.Log.DebugContext(ctx, "critical phase closed",
			slog.String("state", st.String()),
			slog.Int("buildings", len(phase.BuildingIDs)),
			slog.Float64("cost", phase.Cost))
	}

	st = stateBudget
	for i, fraction := range p.fractions {
		if len(remaining) == 0 {
			break
		}

		allotment := fraction * remainingBudget
		phase, rest := p.budgetPhase(i+1, allotment, remaining)
		remaining = rest
		if len(phase.BuildingIDs) == 0 {
			continue
		}

		plan.Phases = append(plan.Phases, phase)
		remainingBudget -= phase.Cost
		if remainingBudget < 0 {
			remainingBudget = 0
		}
		logger.Log.DebugContext(ctx, "budget phase closed",
			slog.String("state", st.String()),
			slog.Int("phase", phase.Index),
			slog.Int("buildings", len(phase.BuildingIDs)),
			slog.Float64("allotment", allotment),
			slog.Float64("cost", phase.Cost))
	}

	st = stateDone
	if len(remaining) > 0 {
		for _, c := range remaining {
			plan.Unplanned = append(plan.Unplanned, c.building.ID)
		}
		sort.Strings(plan.Unplanned)
		plan.Warnings = append(plan.Warnings, Warning{
			Code:    WarnBudgetExhausted,
			Message: budgetExhaustedMessage(len(plan.Unplanned)),
		})
	}

	for _, phase := range plan.Phases {
		plan.TotalCost += phase.Cost
		plan.WorkerCost += phase.WorkerCost
	}

	logger.Log.InfoContext(ctx, "plan built",
		slog.String("state", st.String()),
		slog.Int("phases", len(plan.Phases)),
		slog.Int("unplanned", len(plan.Unplanned)),
		slog.Float64("total_cost", plan.TotalCost))

	return plan, nil
}

// criticalPhase aggregates every hospital requiring repair into phase 0
// regardless of cost or score.
func (p *Planner) criticalPhase(critical []candidate) Phase {
	sort.Slice(critical, func(i, j int) bool {
		return critical[i].building.ID < critical[j].building.ID
	})

	phase := Phase{Index: 0, BuildingIDs: []string{}, InfraIDs: []string{}}
	for _, c := range critical {
		phase.BuildingIDs = append(phase.BuildingIDs, c.building.ID)
		phase.InfraIDs = append(phase.InfraIDs, c.cost.InfraIDs...)
		phase.Cost += c.cost.TotalCost
		phase.DurationHours += c.cost.TotalDurationHours
		phase.WorkerCost += c.cost.TotalWorkerCost
		if c.cost.MinElapsedHours > phase.MinElapsedHours {
			phase.MinElapsedHours = c.cost.MinElapsedHours
		}
	}
	sort.Strings(phase.InfraIDs)

	window := p.autonomyHours * p.safetyMargin
	if phase.MinElapsedHours > window {
		phase.Warnings = append(phase.Warnings, Warning{
			Code:    WarnGeneratorAutonomy,
			Message: autonomyMessage(phase.MinElapsedHours, window),
		})
	}

	return phase
}

// budgetPhase fills one phase greedily in combined-score order until
// the allotment is reached. The building crossing the threshold is
// still included, so a phase closes at or just above its target.
func (p *Planner) budgetPhase(index int, allotment float64, remaining []candidate) (Phase, []candidate) {
	ordered := make([]candidate, len(remaining))
	copy(ordered, remaining)

	scores := make(map[string]float64, len(ordered))
	for _, c := range ordered {
		scores[c.building.ID] = p.combinedScore(c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		si, sj := scores[ordered[i].building.ID], scores[ordered[j].building.ID]
		if si != sj {
			return si > sj
		}
		return ordered[i].building.ID < ordered[j].building.ID
	})

	phase := Phase{Index: index, BuildingIDs: []string{}, InfraIDs: []string{}, BudgetAllotment: allotment}
	var rest []candidate
	for i, c := range ordered {
		if phase.Cost >= allotment && len(phase.BuildingIDs) > 0 {
			rest = append(rest, ordered[i:]...)
			break
		}

		phase.BuildingIDs = append(phase.BuildingIDs, c.building.ID)
		phase.InfraIDs = append(phase.InfraIDs, c.cost.InfraIDs...)
		phase.Cost += c.cost.TotalCost
		phase.DurationHours += c.cost.TotalDurationHours
		phase.WorkerCost += c.cost.TotalWorkerCost
		if c.cost.MinElapsedHours > phase.MinElapsedHours {
			phase.MinElapsedHours = c.cost.MinElapsedHours
		}
	}
	sort.Strings(phase.BuildingIDs)
	sort.Strings(phase.InfraIDs)

	return phase, rest
}

// combinedScore orders buildings inside budget phases: configured
// priority plus inverse difficulty, cost and duration. Reciprocals are
// guarded so zero denominators stay large but finite.
func (p *Planner) combinedScore(c candidate) float64 {
	weight, ok := p.priorityWeight[c.building.Type]
	if !ok {
		weight = neutralPriority
	}
	return p.combined.Alpha*weight +
		p.combined.Beta*domain.SafeReciprocal(c.cost.Difficulty) +
		p.combined.Gamma*domain.SafeReciprocal(c.cost.TotalCost) +
		p.combined.Delta*domain.SafeReciprocal(c.cost.TotalDurationHours)
}
