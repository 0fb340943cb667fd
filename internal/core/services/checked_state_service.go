package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/daanvos/macroflow-engine/internal/core/domain"
)

// Recomputer receives day-recompute requests after a toggle. Implemented by
// workers.RecomputeWorker.
type Recomputer interface {
	Enqueue(clientID string, dayIndex int)
}

// CheckedStateService persists the per-client completion map through the
// key-value port and signals recomputation of the affected day.
type CheckedStateService struct {
	kv        domain.KeyValueStore
	recompute Recomputer
}

func NewCheckedStateService(kv domain.KeyValueStore, recompute Recomputer) *CheckedStateService {
	return &CheckedStateService{
		kv:        kv,
		recompute: recompute,
	}
}

// SetRecomputer wires the worker in after construction. The worker itself
// needs this service to load state, so one of the two is attached late.
func (s *CheckedStateService) SetRecomputer(r Recomputer) {
	s.recompute = r
}

func checkedStateKey(clientID string) string {
	return fmt.Sprintf("checked_state:%s", clientID)
}

// load distinguishes a missing key (fresh client, empty map) from a store
// read failure. Corrupted payloads degrade to empty: a retry would read the
// same bytes.
func (s *CheckedStateService) load(ctx context.Context, clientID string) (domain.CheckedState, error) {
	raw, err := s.kv.Get(ctx, checkedStateKey(clientID))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return domain.CheckedState{}, nil
	}

	var state domain.CheckedState
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Printf("[CHECKED] Corrupted state for client %s: %v", clientID, err)
		return domain.CheckedState{}, nil
	}
	return state, nil
}

// Load returns the client's checked-state map. Missing or unreadable data
// degrades to an empty map; a fresh client simply has nothing checked.
func (s *CheckedStateService) Load(ctx context.Context, clientID string) domain.CheckedState {
	state, err := s.load(ctx, clientID)
	if err != nil {
		log.Printf("[CHECKED] Load failed for client %s: %v", clientID, err)
		return domain.CheckedState{}
	}
	return state
}

// Toggle flips the flag for one slot, persists the whole map and enqueues a
// recompute of the affected day. The stored map only grows or flips in place;
// entries are never removed. Unlike reads, a toggle does not degrade a store
// failure to an empty map: persisting that map would wipe every flag the
// client has set.
func (s *CheckedStateService) Toggle(ctx context.Context, clientID string, dayIndex, slotIndex int) (domain.CheckedState, error) {
	current, err := s.load(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("checked state: failed to load: %w", err)
	}
	state := current.WithToggled(dayIndex, slotIndex)

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("checked state: failed to encode: %w", err)
	}
	if err := s.kv.Set(ctx, checkedStateKey(clientID), data); err != nil {
		return nil, fmt.Errorf("checked state: failed to persist: %w", err)
	}

	if s.recompute != nil {
		s.recompute.Enqueue(clientID, dayIndex)
	}

	return state, nil
}
