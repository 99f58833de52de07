package watch

import (
	"context"
	"testing"
	"time"

	"github.com/luk-gg/lukchan/pkg/types"
)

func TestPublishReachesSubscribers(t *testing.T) {
	h := NewHub(context.Background())
	defer func() { h.Inbox() <- Shutdown{} }()

	out1 := make(chan types.Card, 4)
	out2 := make(chan types.Card, 4)
	h.Inbox() <- Subscribe{CardID: "card-1", ClientID: "c1", Outbox: out1}
	h.Inbox() <- Subscribe{CardID: "card-1", ClientID: "c2", Outbox: out2}

	h.Inbox() <- Publish{CardID: "card-1", Card: types.Card{Title: "Zakum"}}

	for _, out := range []chan types.Card{out1, out2} {
		select {
		case card := <-out:
			if card.Title != "Zakum" {
				t.Fatalf("got %q", card.Title)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for card")
		}
	}
}

func TestPublishOtherCardNotDelivered(t *testing.T) {
	h := NewHub(context.Background())
	defer func() { h.Inbox() <- Shutdown{} }()

	out := make(chan types.Card, 4)
	h.Inbox() <- Subscribe{CardID: "card-1", ClientID: "c1", Outbox: out}
	h.Inbox() <- Publish{CardID: "card-2", Card: types.Card{Title: "Other"}}

	// Use a Count round trip as a barrier: once answered, the publish
	// above has been processed.
	reply := make(chan int, 1)
	h.Inbox() <- Count{CardID: "card-1", Reply: reply}
	<-reply

	select {
	case card := <-out:
		t.Fatalf("unexpected delivery: %#v", card)
	default:
	}
}

func TestSlowWatcherIsDropped(t *testing.T) {
	h := NewHub(context.Background())
	defer func() { h.Inbox() <- Shutdown{} }()

	out := make(chan types.Card) // unbuffered and never read
	h.Inbox() <- Subscribe{CardID: "card-1", ClientID: "slow", Outbox: out}
	h.Inbox() <- Publish{CardID: "card-1", Card: types.Card{Title: "x"}}

	reply := make(chan int, 1)
	h.Inbox() <- Count{CardID: "card-1", Reply: reply}
	if n := <-reply; n != 0 {
		t.Fatalf("slow watcher still registered: %d", n)
	}

	// The dropped channel is closed so its reader unblocks.
	if _, ok := <-out; ok {
		t.Fatal("expected closed outbox")
	}
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub(context.Background())
	defer func() { h.Inbox() <- Shutdown{} }()

	out := make(chan types.Card, 1)
	h.Inbox() <- Subscribe{CardID: "card-1", ClientID: "c1", Outbox: out}
	h.Inbox() <- Unsubscribe{CardID: "card-1", ClientID: "c1"}

	reply := make(chan int, 1)
	h.Inbox() <- Count{CardID: "card-1", Reply: reply}
	if n := <-reply; n != 0 {
		t.Fatalf("watcher still registered: %d", n)
	}

	// The outbox is closed on unsubscribe; a writer loop ranging over it
	// would otherwise block forever once its client disconnects.
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed outbox, got a card")
		}
	case <-time.After(time.Second):
		t.Fatal("outbox never closed after unsubscribe")
	}
}

func TestContextCancelShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(ctx)

	out := make(chan types.Card, 1)
	h.Inbox() <- Subscribe{CardID: "card-1", ClientID: "c1", Outbox: out}

	// Barrier: the subscribe must land before the cancel races it.
	reply := make(chan int, 1)
	h.Inbox() <- Count{CardID: "card-1", Reply: reply}
	<-reply

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed outbox, got a card")
		}
	case <-time.After(time.Second):
		t.Fatal("outbox never closed after cancel")
	}
}
