package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Snapshot is one full tenant listing delivered through the live feed,
// ordered by creation time descending.
type Snapshot struct {
	TenantID uuid.UUID
	Users    []User
}

// Subscription receives snapshots for a single tenant. Safe for concurrent
// use; Close is idempotent.
type Subscription struct {
	ch     chan Snapshot
	closed bool
	mu     sync.RWMutex
}

func newSubscription(bufferSize int) *Subscription {
	return &Subscription{ch: make(chan Snapshot, bufferSize)}
}

// Updates returns the snapshot channel. The first value is the current
// listing at subscription time; each later value reflects one committed
// mutation. The channel closes when the subscription is torn down.
func (s *Subscription) Updates() <-chan Snapshot {
	return s.ch
}

// Close tears the subscription down and closes the update channel.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *Subscription) send(snap Snapshot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- snap:
		return true
	default:
		return false
	}
}

// feed fans tenant snapshots out to subscribers. Sends never block: a
// subscriber whose buffer is full has the snapshot dropped and is removed,
// which keeps a stalled consumer from holding up mutations.
type feed struct {
	subscribers map[*Subscription]uuid.UUID
	bufferSize  int
	closed      bool
	done        chan struct{}
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

func newFeed(bufferSize int) *feed {
	return &feed{
		subscribers: make(map[*Subscription]uuid.UUID),
		// A zero buffer would make every send blocking and defeat the
		// non-blocking design.
		bufferSize: max(bufferSize, 1),
		done:       make(chan struct{}),
	}
}

// subscribe registers a subscriber for one tenant's snapshots. The
// subscription is torn down automatically when ctx is cancelled.
func (f *feed) subscribe(ctx context.Context, tenantID uuid.UUID) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := newSubscription(f.bufferSize)
	if f.closed {
		_ = sub.Close()
		return sub
	}

	f.subscribers[sub] = tenantID

	if ctx.Done() != nil {
		f.cleanupWg.Add(1)
		go func() {
			defer f.cleanupWg.Done()
			select {
			case <-ctx.Done():
				f.unsubscribe(sub)
			case <-f.done:
				// The feed is closing and tears every subscription down
				// itself; waiting on a still-live context here would wedge
				// close.
			}
		}()
	}

	return sub
}

// publish delivers a snapshot to every subscriber of its tenant.
func (f *feed) publish(snap Snapshot) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return
	}

	for sub, tenantID := range f.subscribers {
		if tenantID != snap.TenantID {
			continue
		}
		if !sub.send(snap) {
			// Remove slow or closed subscribers without blocking the
			// publishing mutation.
			go f.unsubscribe(sub)
		}
	}
}

func (f *feed) unsubscribe(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subscribers, sub)
	_ = sub.Close()
}

func (f *feed) close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true

	for sub := range f.subscribers {
		_ = sub.Close()
	}
	clear(f.subscribers)
	f.mu.Unlock()

	// Release the context-cancel cleanup goroutines, then wait them out so
	// close and async unsubscribes cannot race.
	close(f.done)
	f.cleanupWg.Wait()
}
