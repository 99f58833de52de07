package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetupRoutes builds the router with the gateway injected. The websocket
// handler is passed in so this package stays off the ws dependency.
func SetupRoutes(gw *Gateway, ws http.HandlerFunc, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(log))

	r.Post("/interactions", gw.HandleInteraction)
	r.Get("/cards/{cardID}", gw.HandleGetCard)
	r.Get("/ws", ws)
	r.Get("/healthz", Healthz)
	return r
}
