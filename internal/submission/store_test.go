// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_submission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                 {}
func (nopLogger) Debugf(format string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})                  {}
func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})                  {}
func (nopLogger) Warnf(format string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})                 {}
func (nopLogger) Errorf(format string, args ...interface{}) {}
func (nopLogger) Fatalf(format string, args ...interface{}) {}
func (nopLogger) Sync() error                               { return nil }

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, opts ...StoreOption) Store {
	t.Helper()
	store := NewStore(nopLogger{}, opts...)
	t.Cleanup(store.Close)
	return store
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, &Session{Section: "speaking", TaskID: "task-1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	session, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "speaking", session.Section)
	assert.Equal(t, "task-1", session.TaskID)
	assert.Equal(t, StatusPending, session.Status)
}

func TestStoreGetUnknown(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestStoreClaimIsExclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, &Session{Section: "writing", TaskID: "task-2"})
	require.NoError(t, err)

	claimed, err := store.Claim(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusClaimed, claimed.Status)

	_, err = store.Claim(ctx, id)
	assert.Error(t, err)
}

func TestStoreClaimConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, &Session{Section: "speaking", TaskID: "task-3"})
	require.NoError(t, err)

	const racers = 8
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Claim(ctx, id); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins)
}

func TestStoreCompleteAttachesScore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, &Session{Section: "reading", TaskID: "task-4"})
	require.NoError(t, err)
	_, err = store.Claim(ctx, id)
	require.NoError(t, err)

	require.NoError(t, store.Complete(ctx, id, map[string]int{"correct": 4}))

	session, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, session.Status)
	assert.Equal(t, map[string]int{"correct": 4}, session.Score)

	// completed sessions stay readable
	again, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, again.Status)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, &Session{Section: "listening"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Get(ctx, id)
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, id))
}

func TestStoreSweepRemovesExpiredSessions(t *testing.T) {
	clock := newManualClock()
	store := newTestStore(t, WithClock(clock.Now), WithTTL(time.Hour))
	ctx := context.Background()

	stale, err := store.Save(ctx, &Session{Section: "speaking"})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	fresh, err := store.Save(ctx, &Session{Section: "writing"})
	require.NoError(t, err)

	store.(*memoryStore).sweep()

	_, err = store.Get(ctx, stale)
	assert.Error(t, err)
	_, err = store.Get(ctx, fresh)
	assert.NoError(t, err)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, &Session{Section: "speaking"})
	require.NoError(t, err)

	first, err := store.Get(ctx, id)
	require.NoError(t, err)
	first.Status = "mangled"

	second, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, second.Status)
}
