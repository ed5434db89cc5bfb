package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"reconnect/pkg/apperror"
	"reconnect/pkg/database"
	"reconnect/pkg/telemetry"
)

// PostgresRepository is the pgx-backed plan store.
type PostgresRepository struct {
	db database.DB
}

// NewPostgresRepository wraps a database handle.
func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const defaultListLimit = 50

// Create inserts a plan row. A zero id is assigned.
func (r *PostgresRepository) Create(ctx context.Context, plan *Plan) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.CreatePlan")
	defer span.End()

	if plan == nil {
		return apperror.New(apperror.CodeNilInput, "plan is required")
	}
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	query := `
		INSERT INTO plans (id, building_count, phase_count, unplanned_count,
			total_cost, worker_cost, fingerprint, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		plan.ID,
		plan.BuildingCount,
		plan.PhaseCount,
		plan.UnplannedCount,
		plan.TotalCost,
		plan.WorkerCost,
		plan.Fingerprint,
		plan.Payload,
	).Scan(&plan.CreatedAt)
	if err != nil {
		telemetry.SetError(ctx, err)
		return apperror.Wrap(err, apperror.CodeInternal, "failed to insert plan")
	}

	return nil
}

// GetByID loads one plan with its payload.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.GetPlan")
	defer span.End()

	query := `
		SELECT id, created_at, building_count, phase_count, unplanned_count,
			total_cost, worker_cost, fingerprint, payload
		FROM plans
		WHERE id = $1`

	var plan Plan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&plan.ID,
		&plan.CreatedAt,
		&plan.BuildingCount,
		&plan.PhaseCount,
		&plan.UnplannedCount,
		&plan.TotalCost,
		&plan.WorkerCost,
		&plan.Fingerprint,
		&plan.Payload,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to load plan")
	}

	return &plan, nil
}

// List returns plan summaries newest first, without payloads.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]Plan, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.ListPlans")
	defer span.End()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, created_at, building_count, phase_count, unplanned_count,
			total_cost, worker_cost, fingerprint
		FROM plans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to list plans")
	}
	defer rows.Close()

	plans := []Plan{}
	for rows.Next() {
		var plan Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.CreatedAt,
			&plan.BuildingCount,
			&plan.PhaseCount,
			&plan.UnplannedCount,
			&plan.TotalCost,
			&plan.WorkerCost,
			&plan.Fingerprint,
		); err != nil {
			telemetry.SetError(ctx, err)
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to scan plan row")
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		telemetry.SetError(ctx, err)
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to read plan rows")
	}

	return plans, nil
}

// Delete removes a plan row.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.DeletePlan")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		telemetry.SetError(ctx, err)
		return apperror.Wrap(err, apperror.CodeInternal, "failed to delete plan")
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}

	return nil
}
