package feed

import (
	"context"
	"testing"
	"time"
)

func TestPublishScopedToCompany(t *testing.T) {
	f := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := f.Subscribe(ctx, 1)
	theirs := f.Subscribe(ctx, 2)

	f.Publish(Activity{CompanyID: 1, Action: "department.create", Resource: "department"})

	select {
	case evt := <-mine:
		if evt.Action != "department.create" || evt.Timestamp.IsZero() {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber for company 1 received nothing")
	}

	select {
	case evt := <-theirs:
		t.Fatalf("company 2 received foreign event: %+v", evt)
	default:
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	f := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.Subscribe(ctx, 1) // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			f.Publish(Activity{CompanyID: 1, Action: "employee.update"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestSubscribeClosesOnContextCancel(t *testing.T) {
	f := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch := f.Subscribe(ctx, 1)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
