package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// StaleConversationStore deletes conversations whose last activity predates
// the cutoff.
type StaleConversationStore interface {
	DeleteStale(cutoff time.Time) (int64, error)
}

// ConversationJanitor periodically purges stale conversations for the
// lifetime of the process.
type ConversationJanitor struct {
	store      StaleConversationStore
	tick       time.Duration
	maxAgeDays int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConversationJanitor(store StaleConversationStore, tick time.Duration, maxAgeDays int) *ConversationJanitor {
	if tick <= 0 {
		tick = 24 * time.Hour
	}
	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	return &ConversationJanitor{
		store:      store,
		tick:       tick,
		maxAgeDays: maxAgeDays,
	}
}

func (j *ConversationJanitor) Start(ctx context.Context) {
	if j.cancel != nil {
		return
	}

	janitorCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.tick)
		defer ticker.Stop()

		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -j.maxAgeDays)
				purged, err := j.store.DeleteStale(cutoff)
				if err != nil {
					log.Printf("conversation janitor purge failed: %v", err)
					continue
				}
				if purged > 0 {
					log.Printf("conversation janitor purged %d stale conversations", purged)
				}
			}
		}
	}()
}

func (j *ConversationJanitor) Close() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}
