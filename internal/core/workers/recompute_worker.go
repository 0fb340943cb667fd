package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
	"github.com/daanvos/macroflow-engine/internal/core/services"
)

type RecomputeJob struct {
	ClientID string
	DayIndex int
}

// RecomputeWorker recomputes a day's nutrition progress after a checked-state
// toggle and stores the snapshot in the key-value store, so dashboards read
// precomputed totals instead of resolving the plan on every request.
type RecomputeWorker struct {
	resolver *services.PlanResolver
	checked  *services.CheckedStateService
	kv       domain.KeyValueStore
	jobs     chan RecomputeJob
}

func NewRecomputeWorker(resolver *services.PlanResolver, checked *services.CheckedStateService, kv domain.KeyValueStore) *RecomputeWorker {
	return &RecomputeWorker{
		resolver: resolver,
		checked:  checked,
		kv:       kv,
		jobs:     make(chan RecomputeJob, 100),
	}
}

func (w *RecomputeWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Recompute Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Recompute Worker shutting down...")
				return
			}
		}
	}()
}

func (w *RecomputeWorker) Enqueue(clientID string, dayIndex int) {
	select {
	case w.jobs <- RecomputeJob{ClientID: clientID, DayIndex: dayIndex}:
	default:
		log.Printf("Recompute Worker queue full! Dropping job for client %s day %d", clientID, dayIndex)
	}
}

// SnapshotKey is where a day's precomputed progress lives in the KV store.
func SnapshotKey(clientID string, dayIndex int) string {
	return fmt.Sprintf("day_progress:%s:%d", clientID, dayIndex)
}

func (w *RecomputeWorker) processJob(ctx context.Context, job RecomputeJob) {
	plan, err := w.resolver.Resolve(ctx, job.ClientID)
	if err != nil {
		log.Printf("Worker Error resolving plan for %s: %v", job.ClientID, err)
		return
	}

	state := w.checked.Load(ctx, job.ClientID)
	progress := services.ComputeDayProgress(plan, state, job.DayIndex)

	data, err := json.Marshal(progress)
	if err != nil {
		log.Printf("Worker Failed to encode progress for %s: %v", job.ClientID, err)
		return
	}

	if err := w.kv.Set(ctx, SnapshotKey(job.ClientID, job.DayIndex), data); err != nil {
		log.Printf("Worker Failed to store progress for %s day %d: %v", job.ClientID, job.DayIndex, err)
		return
	}

	log.Printf("Day progress recomputed for client %s day %d: total=%d kcal checked=%d kcal",
		job.ClientID, job.DayIndex, progress.Total.Kcal, progress.Checked.Kcal)
}
