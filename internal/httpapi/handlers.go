package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luk-gg/lukchan/internal/cache"
	"github.com/luk-gg/lukchan/internal/codec"
	"github.com/luk-gg/lukchan/internal/embed"
	"github.com/luk-gg/lukchan/internal/engine"
	"github.com/luk-gg/lukchan/internal/roster"
	"github.com/luk-gg/lukchan/internal/watch"
	"github.com/luk-gg/lukchan/pkg/types"
)

// Gateway receives interaction events from the host chat layer, runs them
// through the engine under the card's critical section, and hands the
// re-rendered card back (and out to watchers).
type Gateway struct {
	log      *zap.Logger
	store    *cache.Store
	renderer *embed.Renderer
	hub      *watch.Hub
	now      func() time.Time
}

func NewGateway(log *zap.Logger, store *cache.Store, renderer *embed.Renderer, hub *watch.Hub) *Gateway {
	return &Gateway{log: log, store: store, renderer: renderer, hub: hub, now: time.Now}
}

func (gw *Gateway) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	var req types.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.CallerID == "" {
		writeError(w, http.StatusBadRequest, "missing caller_id")
		return
	}

	if req.Action == types.ActionCreate {
		gw.handleCreate(w, req)
		return
	}
	gw.handleMutation(w, req)
}

func (gw *Gateway) handleCreate(w http.ResponseWriter, req types.InteractionRequest) {
	p := req.Payload
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "missing group name")
		return
	}

	when, err := engine.ParseScheduledTime(p.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date format: %q could not be parsed", p.Time))
		return
	}

	limits := roster.DefaultLimits()
	switch {
	case p.Limits != "":
		limits = engine.ParseLimits(p.Limits)
	case p.Preset != 0:
		if preset, ok := roster.PresetLimits(p.Preset); ok {
			limits = preset
		}
	}

	desc := ""
	if p.Desc != nil {
		desc = *p.Desc
	}
	owner := roster.Owner{ID: req.CallerID, Name: p.OwnerName, IconURL: p.OwnerIcon}

	g, err := engine.New(p.Name, desc, when, limits, owner, gw.now())
	if err != nil {
		writeError(w, statusFor(err), userFacing(err))
		return
	}

	cardID := uuid.NewString()
	card, err := gw.renderer.Render(g)
	if err != nil {
		gw.log.Error("render failed", zap.String("card_id", cardID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	gw.store.Put(cardID, g)

	gw.log.Info("group created",
		zap.String("card_id", cardID),
		zap.String("owner", req.CallerID),
		zap.String("name", g.Name))

	writeJSON(w, http.StatusCreated, types.InteractionResponse{
		CardID:      cardID,
		Card:        &card,
		UserMessage: fmt.Sprintf("Group %q created for <t:%d:F>.", g.Name, g.Time.Unix()),
	})
}

func (gw *Gateway) handleMutation(w http.ResponseWriter, req types.InteractionRequest) {
	if req.CardID == "" {
		writeError(w, http.StatusBadRequest, "missing card_id")
		return
	}
	cmd, ok := toCommand(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}

	var (
		g      *roster.Group
		card   types.Card
		events []engine.Event
	)
	err := gw.store.Do(req.CardID, func() error {
		var err error
		g, err = gw.store.GetOrDecode(req.CardID, req.Payload.Token)
		if err != nil {
			return err
		}
		events, err = engine.Apply(g, cmd, gw.now())
		if err != nil {
			return err
		}
		card, err = gw.renderer.Render(g)
		if err != nil {
			return err
		}
		gw.store.Put(req.CardID, g)
		return nil
	})
	if err != nil {
		gw.log.Warn("interaction rejected",
			zap.String("card_id", req.CardID),
			zap.String("action", req.Action),
			zap.String("caller", req.CallerID),
			zap.Error(err))
		writeError(w, statusFor(err), userFacing(err))
		return
	}

	// The mutation is committed; a slow or dead watcher cannot undo it.
	gw.hub.Inbox() <- watch.Publish{CardID: req.CardID, Card: card}

	writeJSON(w, http.StatusOK, types.InteractionResponse{
		CardID:      req.CardID,
		Card:        &card,
		UserMessage: gw.userMessage(g, cmd, events),
	})
}

// errNotCached is the miss-without-fallback case on the read path.
var errNotCached = errors.New("card not cached and no token supplied")

func (gw *Gateway) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	token := r.URL.Query().Get("token")

	// Reads share the card's critical section with mutations; rendering a
	// roster mid-append would serve a torn member list.
	var card types.Card
	err := gw.store.Do(cardID, func() error {
		g, ok := gw.store.Get(cardID)
		if !ok {
			if token == "" {
				return errNotCached
			}
			var err error
			g, err = gw.store.GetOrDecode(cardID, token)
			if err != nil {
				return err
			}
		}
		var err error
		card, err = gw.renderer.Render(g)
		return err
	})
	if err != nil {
		writeError(w, statusFor(err), userFacing(err))
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func toCommand(req types.InteractionRequest) (engine.Command, bool) {
	base := engine.Command{UserID: req.CallerID, CallerIsAdmin: req.CallerIsAdmin}

	switch req.Action {
	case types.ActionJoin:
		base.Type = engine.CmdJoin
		base.RoleToken = req.Payload.Role
	case types.ActionLeave:
		base.Type = engine.CmdLeave
	case types.ActionToggleHelp:
		base.Type = engine.CmdToggleHelp
	case types.ActionSetCosmetics:
		base.Type = engine.CmdSetCosmetics
		base.Cosmetics = req.Payload.Cosmetics
	case types.ActionEdit:
		base.Type = engine.CmdEdit
		base.Patch = &engine.Patch{
			Name:      req.Payload.Name,
			Desc:      req.Payload.Desc,
			TimeRaw:   req.Payload.Time,
			LimitsRaw: req.Payload.Limits,
		}
	case types.ActionClose:
		base.Type = engine.CmdClose
	default:
		return engine.Command{}, false
	}
	return base, true
}

// userMessage builds the ephemeral reply for the acting user, in the
// voice the bot always used.
func (gw *Gateway) userMessage(g *roster.Group, cmd engine.Command, events []engine.Event) string {
	if len(events) == 0 {
		return "You are not in this group."
	}

	switch events[0].Type {
	case engine.EvtMemberJoined, engine.EvtMemberMoved, engine.EvtCosmeticsSet:
		return gw.membershipSummary(g, cmd.UserID, events[0])
	case engine.EvtMemberLeft:
		return fmt.Sprintf("You have left %s's group %q at <t:%d:F>.", g.Owner.Name, g.Name, g.Time.Unix())
	case engine.EvtHelpToggled:
		if events[0].Help {
			return "You are now helping!"
		}
		return "You are no longer helping."
	case engine.EvtGroupEdited:
		return "Updated successfully."
	case engine.EvtGroupClosed:
		return fmt.Sprintf("Group %q is now closed.", g.Name)
	default:
		return "Done."
	}
}

func (gw *Gateway) membershipSummary(g *roster.Group, userID string, evt engine.Event) string {
	m, _, ok := g.Find(userID)
	if !ok {
		return "Missing user in group data."
	}

	className := m.Role
	if role, found := roster.RoleByToken(m.Role); found {
		className = role.Name
	}

	var cosmetics []string
	for _, category := range roster.CosmeticOrder {
		if idx, chosen := m.Cosmetics[category]; chosen {
			label := strings.ToUpper(category[:1]) + category[1:]
			cosmetics = append(cosmetics, fmt.Sprintf("%s A%d", label, idx))
		}
	}

	msg := fmt.Sprintf("You have joined %s's group %q at <t:%d:F> as %s",
		g.Owner.Name, g.Name, g.Time.Unix(), className)
	if len(cosmetics) > 0 {
		msg += " with " + strings.Join(cosmetics, " and ")
	}
	msg += "."
	if m.Help {
		msg += " You are also helping!"
	}
	if evt.OverCap {
		msg += " Heads up: that role is over its limit."
	}
	return msg
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotCached):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrInvalidTime),
		errors.Is(err, engine.ErrInvalidLimit),
		errors.Is(err, engine.ErrInvalidCosmetic),
		errors.Is(err, engine.ErrUnsupportedCommand),
		errors.Is(err, roster.ErrUnknownRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func userFacing(err error) string {
	if errors.Is(err, codec.ErrDecode) {
		return "could not load this card"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}
