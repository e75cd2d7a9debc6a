package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// InMemoryLedger es el fallback cuando no hay Redis ni SQLite (y el ledger de
// los tests). No sobrevive a un reinicio del proceso: protección best-effort.
type InMemoryLedger struct {
	seen     map[string]time.Time
	mu       sync.Mutex
	ttl      time.Duration
	stopChan chan struct{}
}

var _ domain.FulfillmentLedger = (*InMemoryLedger)(nil)

func NewInMemoryLedger(ttl, cleanupInterval time.Duration) *InMemoryLedger {
	l := &InMemoryLedger{
		seen:     make(map[string]time.Time),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	go l.cleanupLoop(cleanupInterval)
	return l
}

func (l *InMemoryLedger) MarkIfNew(ctx context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiresAt, ok := l.seen[eventID]; ok && time.Now().UTC().Before(expiresAt) {
		return false, nil
	}
	l.seen[eventID] = time.Now().UTC().Add(l.ttl)
	return true, nil
}

// Stop detiene la goroutine de limpieza.
func (l *InMemoryLedger) Stop() {
	close(l.stopChan)
}

func (l *InMemoryLedger) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for id, expiresAt := range l.seen {
				if time.Now().UTC().After(expiresAt) {
					delete(l.seen, id)
				}
			}
			l.mu.Unlock()
		case <-l.stopChan:
			return
		}
	}
}
