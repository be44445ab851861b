package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStaleStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
}

func (s *recordingStaleStore) DeleteStale(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	return 1, nil
}

func (s *recordingStaleStore) calls() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.cutoffs...)
}

func TestJanitorPurgesOnEachTick(t *testing.T) {
	store := &recordingStaleStore{}
	janitor := NewConversationJanitor(store, 10*time.Millisecond, 7)

	janitor.Start(context.Background())
	defer janitor.Close()

	require.Eventually(t, func() bool {
		return len(store.calls()) >= 2
	}, time.Second, 5*time.Millisecond)

	for _, cutoff := range store.calls() {
		assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), cutoff, time.Minute)
	}
}

func TestJanitorCloseStopsTicking(t *testing.T) {
	store := &recordingStaleStore{}
	janitor := NewConversationJanitor(store, 10*time.Millisecond, 7)

	janitor.Start(context.Background())
	require.Eventually(t, func() bool {
		return len(store.calls()) >= 1
	}, time.Second, 5*time.Millisecond)

	janitor.Close()
	count := len(store.calls())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, count, len(store.calls()))
}

func TestJanitorStartIsIdempotent(t *testing.T) {
	store := &recordingStaleStore{}
	janitor := NewConversationJanitor(store, time.Hour, 7)

	ctx := context.Background()
	janitor.Start(ctx)
	janitor.Start(ctx)
	janitor.Close()
}
