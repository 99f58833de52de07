// Package types holds the wire contract between the host chat layer and
// the group-finder core: the inbound interaction event and the rendered
// card that goes back out.
package types

// Action names accepted on an interaction.
const (
	ActionCreate       = "create"
	ActionJoin         = "join"
	ActionLeave        = "leave"
	ActionToggleHelp   = "toggle_help"
	ActionSetCosmetics = "set_cosmetics"
	ActionEdit         = "edit"
	ActionClose        = "close"
)

// InteractionRequest is one user action on a card, as delivered by the
// host event dispatch. The caller identity and admin flag are supplied by
// the host; the core trusts them.
type InteractionRequest struct {
	Action        string             `json:"action"`
	CardID        string             `json:"card_id,omitempty"`
	CallerID      string             `json:"caller_id"`
	CallerIsAdmin bool               `json:"caller_is_admin,omitempty"`
	Payload       InteractionPayload `json:"payload"`
}

// InteractionPayload carries the action-specific fields. Token is the
// encoded roster lifted from the card's author URL; it is the fallback
// when the card has aged out of the cache.
type InteractionPayload struct {
	Token string `json:"token,omitempty"`

	// create / edit
	Name      string  `json:"name,omitempty"`
	Desc      *string `json:"desc,omitempty"`
	Time      string  `json:"time,omitempty"`   // human date, e.g. "2026-12-31 20:00 BRT"
	Limits    string  `json:"limits,omitempty"` // e.g. "DPS:3 Sup:1 Tank"
	Preset    int     `json:"preset,omitempty"` // group size 5/10/15/20, used when limits is empty
	OwnerName string  `json:"owner_name,omitempty"`
	OwnerIcon string  `json:"owner_icon,omitempty"`

	// join
	Role string `json:"role,omitempty"` // class token, e.g. "sb"

	// set_cosmetics
	Cosmetics map[string]int `json:"cosmetics,omitempty"`
}

// InteractionResponse is what the host re-displays: the re-rendered card
// plus an ephemeral message for the acting user.
type InteractionResponse struct {
	CardID      string `json:"card_id"`
	Card        *Card  `json:"card"`
	UserMessage string `json:"user_message"`
}

// ErrorResponse is the failure shape for all gateway endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Card is the rendered form of a roster.
type Card struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       int       `json:"color"`
	Sections    []Section `json:"sections"`
	Author      Author    `json:"author"`
}

type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Author is the card's author block; Link carries the encoded roster.
type Author struct {
	Name    string `json:"name"`
	IconURL string `json:"icon_url"`
	Link    string `json:"link"`
}
