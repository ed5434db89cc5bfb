package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconnect/pkg/apperror"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	plan := &Plan{
		BuildingCount:  12,
		PhaseCount:     4,
		UnplannedCount: 1,
		TotalCost:      98000,
		WorkerCost:     4200,
		Fingerprint:    "abc123",
		Payload:        []byte(`{"phases":[]}`),
	}

	mock.ExpectQuery(`INSERT INTO plans`).
		WithArgs(pgxmock.AnyArg(), 12, 4, 1, 98000.0, 4200.0, "abc123", plan.Payload).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	err := repo.Create(context.Background(), plan)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, plan.ID)
	assert.Equal(t, now, plan.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create_Nil(t *testing.T) {
	repo, _ := newMockRepo(t)
	err := repo.Create(context.Background(), nil)
	assert.True(t, apperror.IsCode(err, apperror.CodeNilInput))
}

func TestPostgresRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM plans`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "created_at", "building_count", "phase_count", "unplanned_count",
			"total_cost", "worker_cost", "fingerprint", "payload",
		}).AddRow(id, now, 12, 4, 1, 98000.0, 4200.0, "abc123", []byte(`{}`)))

	plan, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, plan.ID)
	assert.Equal(t, 12, plan.BuildingCount)
	assert.Equal(t, "abc123", plan.Fingerprint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM plans`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)

	id1, id2 := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM plans`).
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "created_at", "building_count", "phase_count", "unplanned_count",
			"total_cost", "worker_cost", "fingerprint",
		}).
			AddRow(id1, now, 5, 2, 0, 1000.0, 100.0, "fp-1").
			AddRow(id2, now.Add(-time.Hour), 7, 3, 1, 2000.0, 200.0, "fp-2"))

	plans, err := repo.List(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, id1, plans[0].ID)
	assert.Equal(t, id2, plans[1].ID)
	assert.Nil(t, plans[0].Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_List_DefaultLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM plans`).
		WithArgs(defaultListLimit, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "created_at", "building_count", "phase_count", "unplanned_count",
			"total_cost", "worker_cost", "fingerprint",
		}))

	plans, err := repo.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Empty(t, plans)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM plans`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM plans`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPostgresRepository_Create_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO plans`).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &Plan{})
	assert.True(t, apperror.IsCode(err, apperror.CodeInternal))
}
