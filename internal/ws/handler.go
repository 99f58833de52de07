// Package ws streams re-rendered cards to watchers over a websocket.
// Interactions themselves go over HTTP; this connection is display-only.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luk-gg/lukchan/internal/watch"
	"github.com/luk-gg/lukchan/pkg/types"
)

func Handler(h *watch.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID := r.URL.Query().Get("card_id")
		if cardID == "" {
			http.Error(w, "missing card_id", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.Card, 8)
		clientID := uuid.NewString()

		h.Inbox() <- watch.Subscribe{CardID: cardID, ClientID: clientID, Outbox: out}
		defer func() { h.Inbox() <- watch.Unsubscribe{CardID: cardID, ClientID: clientID} }()

		log.Debug("watcher connected", zap.String("card_id", cardID), zap.String("client_id", clientID))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for card := range out {
				payload, err := json.Marshal(card)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop: watchers send nothing meaningful, but reading is
		// how we notice the peer going away.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}
}
