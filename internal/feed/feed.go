// Package feed fan-outs activity events to subscribed clients (the dashboard's
// live activity stream).
package feed

import (
	"context"
	"sync"
	"time"
)

// Activity describes one portal mutation for the live feed. Subscribers only
// see events for their own company.
type Activity struct {
	CompanyID int64     `json:"company_id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Summary   string    `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type subscriber struct {
	companyID int64
	ch        chan Activity
}

// Feed fan-outs activity events to all active subscribers.
type Feed struct {
	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

// New initialises an empty feed.
func New() *Feed {
	return &Feed{subs: make(map[int]subscriber)}
}

// Subscribe registers a subscriber scoped to one company and returns a channel
// which will receive events. The channel is closed when the context ends.
func (f *Feed) Subscribe(ctx context.Context, companyID int64) <-chan Activity {
	ch := make(chan Activity, 16)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = subscriber{companyID: companyID, ch: ch}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to subscribers of the event's company.
func (f *Feed) Publish(evt Activity) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, sub := range f.subs {
		if sub.companyID != evt.CompanyID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
