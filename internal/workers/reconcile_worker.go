package workers

import (
	"context"
	"time"

	"hiring_backend/internal/logger"
	"hiring_backend/internal/services"

	"gorm.io/gorm"
)

const reconcileWorkerName = "candidate_status_reconcile"

// ReconcileWorker периодически выравнивает статус кандидата по его назначению
type ReconcileWorker struct {
	db        *gorm.DB
	service   services.ReconcileService
	interval  time.Duration
	rateLimit Pruner
}

// Pruner - то, что нужно периодически чистить (лимитер в памяти)
type Pruner interface {
	Prune(now time.Time)
}

func NewReconcileWorker(db *gorm.DB, service services.ReconcileService, interval time.Duration, pruner Pruner) *ReconcileWorker {
	return &ReconcileWorker{
		db:        db,
		service:   service,
		interval:  interval,
		rateLimit: pruner,
	}
}

// Start запускает фоновую задачу; interval <= 0 - воркер выключен
func (w *ReconcileWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Reconcile worker disabled")
		return
	}
	go w.loop(ctx)
}

func (w *ReconcileWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reconcile worker stopped")
			return
		case now := <-ticker.C:
			w.RunOnce(ctx)
			if w.rateLimit != nil {
				w.rateLimit.Prune(now)
			}
		}
	}
}

// RunOnce - один проход; возвращает количество исправленных кандидатов
func (w *ReconcileWorker) RunOnce(ctx context.Context) int {
	fixed, err := w.service.ReconcileCandidateStatuses(w.db.WithContext(ctx))
	logger.WorkerLog(reconcileWorkerName, "reconcile_candidate_statuses", err, "fixed", fixed)
	return fixed
}
