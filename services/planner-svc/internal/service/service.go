// Package service orchestrates scoring, cost modelling and planning
// behind a single facade used by the HTTP handlers.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"reconnect/pkg/apperror"
	"reconnect/pkg/cache"
	"reconnect/pkg/config"
	"reconnect/pkg/domain"
	"reconnect/pkg/logger"
	"reconnect/pkg/metrics"
	"reconnect/pkg/telemetry"

	"reconnect/services/planner-svc/internal/costmodel"
	"reconnect/services/planner-svc/internal/planner"
	"reconnect/services/planner-svc/internal/repository"
	"reconnect/services/planner-svc/internal/scoring"
)

const defaultCacheTTL = 10 * time.Minute

// PlannerService wires the planning components together.
type PlannerService struct {
	cfg     config.PlanningConfig
	model   *costmodel.Model
	engine  *scoring.Engine
	planner *planner.Planner
	results *cache.ResultCache
	repo    repository.Repository
}

// New builds the service. Both the cache and the repository are
// optional; a nil cache disables memoization and a nil repository
// disables plan history.
func New(cfg config.PlanningConfig, c cache.Cache, repo repository.Repository) (*PlannerService, error) {
	model, err := costmodel.New(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := scoring.NewEngine(scoring.WeightsFromConfig(cfg.Scoring))
	if err != nil {
		return nil, err
	}
	p, err := planner.New(model, cfg)
	if err != nil {
		return nil, err
	}

	svc := &PlannerService{
		cfg:     cfg,
		model:   model,
		engine:  engine,
		planner: p,
		repo:    repo,
	}
	if c != nil {
		svc.results = cache.NewResultCache(c, defaultCacheTTL)
	}
	return svc, nil
}

// PlanRequest carries the building and infrastructure records of one
// planning run.
type PlanRequest struct {
	Buildings       []domain.Building
	Infrastructures []domain.Infrastructure
}

// PlanResult is the full output of one planning run.
type PlanResult struct {
	PlanID    uuid.UUID                `json:"plan_id"`
	CreatedAt time.Time                `json:"created_at"`
	Ranking   []scoring.RankedBuilding `json:"ranking"`
	Plan      *planner.Plan            `json:"plan"`
	Costs     []costmodel.BuildingCost `json:"costs"`
}

// fingerprint hashes a request into a short cache key component.
func (r *PlanRequest) fingerprint() string {
	raw, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return cache.ShortHash(raw)
}

// BuildPlan ranks the buildings, aggregates their repair costs and
// schedules them into phases. Identical requests are served from cache.
func (s *PlannerService) BuildPlan(ctx context.Context, req *PlanRequest) (*PlanResult, error) {
	if req == nil {
		return nil, apperror.New(apperror.CodeNilInput, "plan request is required")
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "service.BuildPlan")
	defer span.End()
	span.SetAttributes(attribute.Int("plan.buildings", len(req.Buildings)))

	fp := req.fingerprint()
	key := cache.BuildPlanKey(fp)
	if s.results != nil && fp != "" {
		var cached PlanResult
		hit, err := s.results.Get(ctx, key, &cached)
		metrics.Get().RecordCacheLookup("plan", hit)
		if err == nil && hit {
			return &cached, nil
		}
	}

	ranking, err := s.engine.Rank(req.Buildings)
	if err != nil {
		metrics.Get().RecordPlanOperation("build_plan", false, time.Since(start))
		return nil, err
	}

	costs, err := s.model.BuildingCosts(ctx, req.Buildings, req.Infrastructures)
	if err != nil {
		metrics.Get().RecordPlanOperation("build_plan", false, time.Since(start))
		return nil, err
	}

	plan, err := s.planner.BuildPlan(ctx, req.Buildings, req.Infrastructures)
	if err != nil {
		metrics.Get().RecordPlanOperation("build_plan", false, time.Since(start))
		return nil, err
	}

	result := &PlanResult{
		PlanID:    uuid.New(),
		CreatedAt: time.Now().UTC(),
		Ranking:   ranking,
		Plan:      plan,
		Costs:     costs,
	}

	phaseCosts := make([]float64, len(plan.Phases))
	for i, phase := range plan.Phases {
		phaseCosts[i] = phase.Cost
	}
	metrics.Get().RecordPlanOperation("build_plan", true, time.Since(start))
	metrics.Get().RecordPlanOutcome(plan.TotalCost, phaseCosts, len(plan.Unplanned))
	span.SetAttributes(telemetry.PlanAttributes(result.PlanID.String(), len(plan.Phases), plan.TotalCost, len(plan.Unplanned))...)

	if s.repo != nil {
		if err := s.persist(ctx, fp, req, result); err != nil {
			// History is best-effort; the plan itself is still valid.
			logger.Log.WarnContext(ctx, "failed to persist plan",
				"plan_id", result.PlanID, "error", err)
		}
	}

	if s.results != nil && fp != "" {
		if err := s.results.Set(ctx, key, result, 0); err != nil {
			logger.Log.WarnContext(ctx, "failed to cache plan", "error", err)
		}
	}

	return result, nil
}

func (s *PlannerService) persist(ctx context.Context, fp string, req *PlanRequest, result *PlanResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to encode plan payload")
	}

	record := &repository.Plan{
		ID:             result.PlanID,
		BuildingCount:  len(req.Buildings),
		PhaseCount:     len(result.Plan.Phases),
		UnplannedCount: len(result.Plan.Unplanned),
		TotalCost:      result.Plan.TotalCost,
		WorkerCost:     result.Plan.WorkerCost,
		Fingerprint:    fp,
		Payload:        payload,
	}
	return s.repo.Create(ctx, record)
}

// RankBuildings computes the multi-criteria ranking without planning.
func (s *PlannerService) RankBuildings(ctx context.Context, buildings []domain.Building) ([]scoring.RankedBuilding, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "service.RankBuildings")
	defer span.End()

	var fp string
	if raw, err := json.Marshal(buildings); err == nil {
		fp = cache.ShortHash(raw)
	}
	key := cache.BuildRankingKey(fp)
	if s.results != nil && fp != "" {
		var cached []scoring.RankedBuilding
		hit, err := s.results.Get(ctx, key, &cached)
		metrics.Get().RecordCacheLookup("ranking", hit)
		if err == nil && hit {
			return cached, nil
		}
	}

	ranking, err := s.engine.Rank(buildings)
	if err != nil {
		metrics.Get().RecordPlanOperation("rank", false, time.Since(start))
		return nil, err
	}
	metrics.Get().RecordPlanOperation("rank", true, time.Since(start))
	span.SetAttributes(attribute.Int("ranking.buildings", len(ranking)))

	if s.results != nil && fp != "" {
		if err := s.results.Set(ctx, key, ranking, 0); err != nil {
			logger.Log.WarnContext(ctx, "failed to cache ranking", "error", err)
		}
	}

	return ranking, nil
}

// HistoryEnabled reports whether plan persistence is configured.
func (s *PlannerService) HistoryEnabled() bool {
	return s.repo != nil
}
