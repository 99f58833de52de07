// Package watch fans re-rendered cards out to whoever is displaying them.
// A single actor goroutine owns the watcher registry; everything goes
// through its inbox, so no locks.
package watch

import (
	"context"

	"github.com/luk-gg/lukchan/pkg/types"
)

type Msg interface{ isMsg() }

type Subscribe struct {
	CardID   string
	ClientID string
	Outbox   chan types.Card // where this watcher receives card updates
}

type Unsubscribe struct {
	CardID   string
	ClientID string
}

type Publish struct {
	CardID string
	Card   types.Card
}

// Count is test-only: reflects watcher counts without data races.
type Count struct {
	CardID string
	Reply  chan int
}

type Shutdown struct{}

func (Subscribe) isMsg()   {}
func (Unsubscribe) isMsg() {}
func (Publish) isMsg()     {}
func (Count) isMsg()       {}
func (Shutdown) isMsg()    {}

type Hub struct {
	inbox    chan Msg
	watchers map[string]map[string]chan types.Card
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan Msg, 64),
		watchers: make(map[string]map[string]chan types.Card),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Subscribe:
				byClient := h.watchers[msg.CardID]
				if byClient == nil {
					byClient = make(map[string]chan types.Card)
					h.watchers[msg.CardID] = byClient
				}
				byClient[msg.ClientID] = msg.Outbox

			case Unsubscribe:
				byClient := h.watchers[msg.CardID]
				// Close so the watcher's writer loop terminates; absent
				// means the slow-drop path already closed it.
				if ch, ok := byClient[msg.ClientID]; ok {
					close(ch)
					delete(byClient, msg.ClientID)
				}
				if len(byClient) == 0 {
					delete(h.watchers, msg.CardID)
				}

			case Publish:
				h.broadcast(msg.CardID, msg.Card)

			case Count:
				msg.Reply <- len(h.watchers[msg.CardID])

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) broadcast(cardID string, card types.Card) {
	byClient := h.watchers[cardID]
	for id, ch := range byClient {
		select {
		case ch <- card:
		default:
			// Watcher is slow/full - drop them.
			close(ch)
			delete(byClient, id)
		}
	}
	if len(byClient) == 0 {
		delete(h.watchers, cardID)
	}
}

func (h *Hub) shutdown() {
	for cardID, byClient := range h.watchers {
		for id, ch := range byClient {
			close(ch)
			delete(byClient, id)
		}
		delete(h.watchers, cardID)
	}
	h.cancel()
}
