package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.UserEvent
	err    error
	block  chan struct{}
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.UserEvent) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byUser() map[string][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string][]string)
	for _, e := range p.events {
		out[e.UserID] = append(out[e.UserID], e.ID)
	}
	return out
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(4, pub, zerolog.Nop())
	d.Start(context.Background())

	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for i := 0; i < 20; i++ {
		for _, u := range users {
			d.Enqueue(domain.UserEvent{ID: fmt.Sprintf("%s-%02d", u, i), UserID: u, Type: domain.EventUserUpdated})
		}
	}
	d.Stop()

	got := pub.byUser()
	for _, u := range users {
		ids := got[u]
		if len(ids) != 20 {
			t.Fatalf("user %s: expected 20 events, got %d", u, len(ids))
		}
		for i, id := range ids {
			if want := fmt.Sprintf("%s-%02d", u, i); id != want {
				t.Fatalf("user %s: event %d out of order: %s", u, i, id)
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingPublisher{}, zerolog.Nop())
	for _, id := range []string{"", "u1", "65f0c0ffee"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if again := d.shardIndex(id); again != first {
			t.Fatalf("shard for %q moved from %d to %d", id, first, again)
		}
	}
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	pub := &recordingPublisher{block: make(chan struct{})}
	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start(context.Background())

	// One event is held by the blocked worker; the rest fill the buffer.
	total := channelBuffer + 10
	for i := 0; i < total; i++ {
		d.Enqueue(domain.UserEvent{ID: fmt.Sprint(i), UserID: "u1"})
	}
	close(pub.block)
	d.Stop()

	n := len(pub.byUser()["u1"])
	if n >= total || n < channelBuffer {
		t.Fatalf("expected between %d and %d published events, got %d", channelBuffer, total-1, n)
	}
}

func TestDispatcher_PublishErrorsDoNotStopWorker(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(domain.UserEvent{ID: "a", UserID: "u1"})
	d.Enqueue(domain.UserEvent{ID: "b", UserID: "u1"})
	d.Stop()

	if got := pub.byUser()["u1"]; len(got) != 2 {
		t.Fatalf("expected both events attempted, got %v", got)
	}
}

func TestDispatcher_EnqueueAfterStopIsIgnored(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(2, pub, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	d.Enqueue(domain.UserEvent{ID: "late", UserID: "u1"})
	if got := pub.byUser(); len(got) != 0 {
		t.Fatalf("expected nothing published, got %v", got)
	}
}
