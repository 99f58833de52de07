// Package engine applies user operations to a group roster. A group has
// two states, open and closed; close is one-way, and a closed group
// rejects every mutation. Each Apply call validates fully before touching
// the roster, so an operation either commits whole or leaves no trace.
package engine

import (
	"errors"
	"time"

	"github.com/luk-gg/lukchan/internal/roster"
)

var ErrInvalidTime = errors.New("scheduled time must be in the future")
var ErrInvalidLimit = errors.New("limits must be positive or unlimited")
var ErrInvalidCosmetic = errors.New("invalid cosmetic choice")
var ErrClosed = errors.New("group is closed")
var ErrNotOwner = errors.New("only the group owner or an admin may do that")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdJoin         CommandType = "Join"
	CmdLeave        CommandType = "Leave"
	CmdToggleHelp   CommandType = "ToggleHelp"
	CmdSetCosmetics CommandType = "SetCosmetics"
	CmdEdit         CommandType = "Edit"
	CmdClose        CommandType = "Close"
)

type Command struct {
	Type          CommandType
	UserID        string
	CallerIsAdmin bool

	// Join
	RoleToken string

	// SetCosmetics
	Cosmetics map[string]int

	// Edit; nil fields keep the current value.
	Patch *Patch
}

// Patch is the edit payload. Raw time and limits arrive as the user typed
// them and are re-validated exactly like at creation.
type Patch struct {
	Name      string  // empty keeps current
	Desc      *string // nil keeps current
	TimeRaw   string  // empty keeps current
	LimitsRaw string  // empty keeps current
}

type EventType string

const (
	EvtMemberJoined EventType = "MemberJoined"
	EvtMemberMoved  EventType = "MemberMoved"
	EvtMemberLeft   EventType = "MemberLeft"
	EvtHelpToggled  EventType = "HelpToggled"
	EvtCosmeticsSet EventType = "CosmeticsSet"
	EvtGroupEdited  EventType = "GroupEdited"
	EvtGroupClosed  EventType = "GroupClosed"
)

type Event struct {
	Type     EventType
	UserID   string
	Category roster.Category
	Role     string
	Help     bool
	OverCap  bool
}

// New validates and builds a fresh group. The scheduled time must be
// strictly in the future and every bounded limit positive.
func New(name, desc string, t time.Time, limits roster.Limits, owner roster.Owner, now time.Time) (*roster.Group, error) {
	if !t.After(now) {
		return nil, ErrInvalidTime
	}
	if err := checkLimits(limits); err != nil {
		return nil, err
	}
	return roster.New(name, desc, t, limits, owner), nil
}

// Apply runs one command against the group. Mutations on an absent member
// (leave, toggle, cosmetics) are benign no-ops: no events, no error.
func Apply(g *roster.Group, cmd Command, now time.Time) ([]Event, error) {
	if g.Closed {
		return nil, ErrClosed
	}

	switch cmd.Type {
	case CmdJoin:
		return applyJoin(g, cmd)

	case CmdLeave:
		m := g.Remove(cmd.UserID)
		if m == nil {
			return nil, nil
		}
		return []Event{{Type: EvtMemberLeft, UserID: cmd.UserID, Role: m.Role}}, nil

	case CmdToggleHelp:
		on, ok := g.ToggleHelp(cmd.UserID)
		if !ok {
			return nil, nil
		}
		return []Event{{Type: EvtHelpToggled, UserID: cmd.UserID, Help: on}}, nil

	case CmdSetCosmetics:
		if err := checkCosmetics(cmd.Cosmetics); err != nil {
			return nil, err
		}
		if !g.SetCosmetics(cmd.UserID, cmd.Cosmetics) {
			return nil, nil
		}
		return []Event{{Type: EvtCosmeticsSet, UserID: cmd.UserID}}, nil

	case CmdEdit:
		return applyEdit(g, cmd, now)

	case CmdClose:
		if err := checkOwner(g, cmd); err != nil {
			return nil, err
		}
		g.Closed = true
		return []Event{{Type: EvtGroupClosed, UserID: cmd.UserID}}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}

func applyJoin(g *roster.Group, cmd Command) ([]Event, error) {
	// Capacity is a soft limit: the join always lands, and the renderer
	// flags anyone past the cap who is not helping.
	_, _, already := g.Find(cmd.UserID)
	cat, err := g.AddOrMove(cmd.UserID, cmd.RoleToken)
	if err != nil {
		return nil, err
	}

	idx := len(g.Members(cat)) - 1
	evt := Event{
		Type:     EvtMemberJoined,
		UserID:   cmd.UserID,
		Category: cat,
		Role:     cmd.RoleToken,
		OverCap:  g.OverCapacity(cat, idx),
	}
	if already {
		evt.Type = EvtMemberMoved
	}
	return []Event{evt}, nil
}

func applyEdit(g *roster.Group, cmd Command, now time.Time) ([]Event, error) {
	if err := checkOwner(g, cmd); err != nil {
		return nil, err
	}
	if cmd.Patch == nil {
		return nil, ErrUnsupportedCommand
	}
	p := cmd.Patch

	// Parse and validate everything before assigning anything.
	newTime := g.Time
	if p.TimeRaw != "" {
		t, err := ParseScheduledTime(p.TimeRaw)
		if err != nil || !t.After(now) {
			return nil, ErrInvalidTime
		}
		newTime = t
	}
	newLimits := g.Limits()
	if p.LimitsRaw != "" {
		newLimits = ParseLimits(p.LimitsRaw)
		if err := checkLimits(newLimits); err != nil {
			return nil, err
		}
	}

	if p.Name != "" {
		g.Name = p.Name
	}
	if p.Desc != nil {
		g.Desc = *p.Desc
	}
	g.Time = newTime
	g.SetLimits(newLimits)

	return []Event{{Type: EvtGroupEdited, UserID: cmd.UserID}}, nil
}

func checkOwner(g *roster.Group, cmd Command) error {
	if cmd.UserID != g.Owner.ID && !cmd.CallerIsAdmin {
		return ErrNotOwner
	}
	return nil
}

func checkLimits(l roster.Limits) error {
	for _, lim := range []roster.Limit{l.DPS, l.Support, l.Tank} {
		if n, bounded := lim.Bounded(); bounded && n <= 0 {
			return ErrInvalidLimit
		}
	}
	return nil
}

func checkCosmetics(choices map[string]int) error {
	for category, idx := range choices {
		variants, ok := roster.CosmeticVariants(category)
		if !ok || idx < 0 || idx >= len(variants) {
			return ErrInvalidCosmetic
		}
	}
	return nil
}
