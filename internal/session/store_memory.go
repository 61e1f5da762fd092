// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taibuivan/csemotors/internal/platform/metrics"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore implements [Store] in process memory.
//
// Records are stored encoded so callers never share maps with the store.
// Expired entries are invisible to Get immediately and are reclaimed by
// [MemoryStore.Sweep], normally driven by [MemoryStore.StartSweeper].
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Tests use it to expire entries.
func (store *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	store.now = now
	return store
}

// Get loads the record for id.
func (store *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	store.mu.Lock()
	entry, found := store.entries[id]
	store.mu.Unlock()

	if !found || !store.now().Before(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return decode(entry.payload)
}

// Save writes the record for id with a fresh expiry.
func (store *MemoryStore) Save(_ context.Context, id string, data *Data, ttl time.Duration) error {
	payload, err := encode(data)
	if err != nil {
		return err
	}

	store.mu.Lock()
	store.entries[id] = memoryEntry{payload: payload, expiresAt: store.now().Add(ttl)}
	store.mu.Unlock()
	return nil
}

// Delete removes the record for id.
func (store *MemoryStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	delete(store.entries, id)
	store.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (store *MemoryStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.entries)
}

// Sweep deletes every expired entry and returns how many were removed.
func (store *MemoryStore) Sweep() int {
	now := store.now()

	store.mu.Lock()
	defer store.mu.Unlock()

	removed := 0
	for id, entry := range store.entries {
		if !now.Before(entry.expiresAt) {
			delete(store.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs [MemoryStore.Sweep] on a cron schedule (e.g. "@every 5m")
// until ctx is cancelled.
func (store *MemoryStore) StartSweeper(ctx context.Context, schedule string, logger *slog.Logger) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(schedule, func() {
		if removed := store.Sweep(); removed > 0 {
			metrics.RecordSessionsSwept(removed)
			logger.Info("sessions_swept", slog.Int("count", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("session: invalid sweep schedule %q: %w", schedule, err)
	}

	scheduler.Start()
	logger.Info("session_sweeper_started", slog.String("schedule", schedule))

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
	}()

	return nil
}
