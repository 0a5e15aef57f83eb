// Package identitybus delivers identity change events from the auth flow to
// session state consumers.
package identitybus

import (
	"context"
	"sync"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
)

const subscriberBuffer = 16

// Bus is an in-process fan-out of identity change events. The auth service
// publishes one event per change (the new identity, or nil on sign-out);
// each subscriber receives events in publish order.
type Bus struct {
	mu     sync.Mutex
	subs   map[chan *domainauth.Identity]struct{}
	closed bool
}

// New creates an identity event bus.
func New() *Bus {
	return &Bus{subs: make(map[chan *domainauth.Identity]struct{})}
}

// Subscribe implements ports.IdentityEvents. The returned channel is closed
// when ctx is done or the bus shuts down.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *domainauth.Identity, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		ch := make(chan *domainauth.Identity)
		close(ch)
		return ch, nil
	}

	ch := make(chan *domainauth.Identity, subscriberBuffer)
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()

	return ch, nil
}

// Publish delivers an identity change to all subscribers. Slow subscribers
// that have fallen subscriberBuffer events behind are dropped rather than
// blocking the publisher.
func (b *Bus) Publish(identity *domainauth.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for ch := range b.subs {
		select {
		case ch <- identity:
		default:
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

func (b *Bus) unsubscribe(ch chan *domainauth.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}
