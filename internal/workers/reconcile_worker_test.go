package workers_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"hiring_backend/internal/models"
	"hiring_backend/internal/repositories"
	"hiring_backend/internal/services"
	"hiring_backend/internal/testutil"
	"hiring_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingPruner struct{ calls atomic.Int32 }

func (p *countingPruner) Prune(time.Time) { p.calls.Add(1) }

type countingReconciler struct{ calls atomic.Int32 }

func (r *countingReconciler) ReconcileCandidateStatuses(*gorm.DB) (int, error) {
	r.calls.Add(1)
	return 0, nil
}

func TestReconcileWorker_RunOnceFixesDrift(t *testing.T) {
	cfg := testutil.TestConfig(t)
	db := testutil.NewTestDB(t, cfg)

	hr := testutil.CreateUser(t, db, "HR", models.DesignationHR)
	manager := testutil.CreateUser(t, db, "Manager", models.DesignationManager)
	candidate := testutil.CreateCandidate(t, db, hr.ID)
	assignment := testutil.CreateAssignment(t, db, candidate, hr, manager)

	require.NoError(t, db.Model(assignment).Update("status", models.AssignmentStatusShortlisted).Error)

	service := services.NewReconcileService(
		repositories.NewCandidateRepository(),
		repositories.NewAssignmentRepository(),
	)
	worker := workers.NewReconcileWorker(db, service, 0, nil)

	assert.Equal(t, 1, worker.RunOnce(context.Background()))
	assert.Equal(t, 0, worker.RunOnce(context.Background()))

	var stored models.Candidate
	require.NoError(t, db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusShortlisted, stored.Status)
}

func TestReconcileWorker_DisabledDoesNothing(t *testing.T) {
	db := testutil.NewTestDB(t, testutil.TestConfig(t))
	reconciler := &countingReconciler{}
	pruner := &countingPruner{}

	workers.NewReconcileWorker(db, reconciler, 0, pruner).Start(context.Background())
	time.Sleep(30 * time.Millisecond)

	assert.Zero(t, reconciler.calls.Load())
	assert.Zero(t, pruner.calls.Load())
}

func TestReconcileWorker_TicksUntilCancelled(t *testing.T) {
	db := testutil.NewTestDB(t, testutil.TestConfig(t))
	reconciler := &countingReconciler{}
	pruner := &countingPruner{}

	ctx, cancel := context.WithCancel(context.Background())
	workers.NewReconcileWorker(db, reconciler, 10*time.Millisecond, pruner).Start(ctx)

	require.Eventually(t, func() bool { return pruner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := reconciler.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, reconciler.calls.Load())
}
