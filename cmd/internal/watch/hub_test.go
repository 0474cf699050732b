package watch

import (
	"testing"
	"time"
)

func TestHub_PublishToSubscribers(t *testing.T) {
	h := NewHub(nil)

	ch1, cancel1 := h.Subscribe()
	ch2, cancel2 := h.Subscribe()
	defer cancel1()
	defer cancel2()

	ev := Event{Kind: KindLoginOK, Email: "a@x.com", At: time.Now().UTC()}
	h.Publish(ev)

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got.Kind != KindLoginOK || got.Email != "a@x.com" {
				t.Fatalf("unexpected event: %+v", got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event")
		}
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(nil)

	ch, cancel := h.Subscribe()
	cancel()

	select {
	case _, open := <-ch:
		if open {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic or block.
	h.Publish(Event{Kind: KindLogout, Email: "a@x.com", At: time.Now().UTC()})

	// Unsubscribe is idempotent.
	cancel()
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(nil)

	_, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberQueueSize*2; i++ {
			h.Publish(Event{Kind: KindLoginFailed, Email: "x@x.com", At: time.Now().UTC()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on slow subscriber")
	}
}
