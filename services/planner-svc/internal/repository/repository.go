// Package repository persists plan history in PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reconnect/pkg/apperror"
)

// ErrPlanNotFound is returned when a plan id has no row.
var ErrPlanNotFound = apperror.New(apperror.CodeNotFound, "plan not found")

// Plan is one persisted planning run. Payload carries the full result
// document as JSON; the scalar columns exist for listing and filtering
// without deserializing it.
type Plan struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	BuildingCount  int       `json:"building_count"`
	PhaseCount     int       `json:"phase_count"`
	UnplannedCount int       `json:"unplanned_count"`
	TotalCost      float64   `json:"total_cost"`
	WorkerCost     float64   `json:"worker_cost"`
	Fingerprint    string    `json:"fingerprint"`
	Payload        []byte    `json:"payload,omitempty"`
}

// Repository stores and retrieves plan history.
type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	List(ctx context.Context, limit, offset int) ([]Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
