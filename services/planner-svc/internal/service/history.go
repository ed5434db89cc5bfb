package service

import (
	"context"

	"github.com/google/uuid"

	"reconnect/pkg/apperror"

	"reconnect/services/planner-svc/internal/repository"
)

var errHistoryDisabled = apperror.New(apperror.CodeInvalidConfig, "plan history is not configured")

// GetPlan loads a persisted plan by identifier.
func (s *PlannerService) GetPlan(ctx context.Context, id uuid.UUID) (*repository.Plan, error) {
	if s.repo == nil {
		return nil, errHistoryDisabled
	}
	return s.repo.GetByID(ctx, id)
}

// ListPlans returns persisted plan summaries, newest first.
func (s *PlannerService) ListPlans(ctx context.Context, limit, offset int) ([]repository.Plan, error) {
	if s.repo == nil {
		return nil, errHistoryDisabled
	}
	return s.repo.List(ctx, limit, offset)
}

// DeletePlan removes a persisted plan.
func (s *PlannerService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if s.repo == nil {
		return errHistoryDisabled
	}
	return s.repo.Delete(ctx, id)
}
