package roster

import (
	"encoding/json"
	"time"
)

// Category is one of the three role buckets a member can occupy.
type Category string

const (
	CategoryDPS     Category = "dps"
	CategorySupport Category = "healer"
	CategoryTank    Category = "tank"
)

// Categories in display order.
var Categories = []Category{CategoryDPS, CategorySupport, CategoryTank}

// Limit is a per-category capacity. The zero value means unlimited, which
// also makes an absent JSON field unlimited. Bounded limits are plain
// integers; there is no infinity sentinel.
type Limit struct {
	n       int
	bounded bool
}

func LimitOf(n int) Limit { return Limit{n: n, bounded: true} }

func Unlimited() Limit { return Limit{} }

// Bounded reports the capacity and whether one is set at all.
func (l Limit) Bounded() (int, bool) { return l.n, l.bounded }

func (l Limit) IsUnlimited() bool { return !l.bounded }

func (l Limit) MarshalJSON() ([]byte, error) {
	if !l.bounded {
		return []byte("null"), nil
	}
	return json.Marshal(l.n)
}

func (l *Limit) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Limit{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = LimitOf(n)
	return nil
}

// Limits holds the capacity for each category.
type Limits struct {
	DPS     Limit
	Support Limit
	Tank    Limit
}

func (l Limits) For(c Category) Limit {
	switch c {
	case CategoryDPS:
		return l.DPS
	case CategorySupport:
		return l.Support
	default:
		return l.Tank
	}
}

func (l *Limits) Set(c Category, v Limit) {
	switch c {
	case CategoryDPS:
		l.DPS = v
	case CategorySupport:
		l.Support = v
	case CategoryTank:
		l.Tank = v
	}
}

// Member is one participant slot in a group.
type Member struct {
	ID   string `json:"id"`
	Role string `json:"role"` // class token, e.g. "sb"
	Help bool   `json:"help,omitempty"`
	// Cosmetics maps a cosmetic category name to a chosen variant index.
	// An absent key means no choice for that category.
	Cosmetics map[string]int `json:"cosmetics,omitempty"`
}

// Owner is the display record of whoever created the group. Both a live
// guild member and a record reconstructed from a token project onto it.
type Owner struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"icon_url"`
}

// Group is a full roster: metadata plus the three ordered member lists.
// List order is display order and decides who sits within the hard limit.
type Group struct {
	Name   string    `json:"name"`
	Time   time.Time `json:"time"`
	Desc   string    `json:"desc,omitempty"`
	Closed bool      `json:"closed,omitempty"`

	DPSLimit     Limit `json:"dps_limit"`
	SupportLimit Limit `json:"healer_limit"`
	TankLimit    Limit `json:"tank_limit"`

	DPS     []Member `json:"dps_members"`
	Support []Member `json:"healer_members"`
	Tank    []Member `json:"tank_members"`

	Owner Owner `json:"owner"`
}

func New(name, desc string, t time.Time, limits Limits, owner Owner) *Group {
	return &Group{
		Name:         name,
		Desc:         desc,
		Time:         t,
		DPSLimit:     limits.DPS,
		SupportLimit: limits.Support,
		TankLimit:    limits.Tank,
		DPS:          []Member{},
		Support:      []Member{},
		Tank:         []Member{},
		Owner:        owner,
	}
}

func (g *Group) Limits() Limits {
	return Limits{DPS: g.DPSLimit, Support: g.SupportLimit, Tank: g.TankLimit}
}

func (g *Group) SetLimits(l Limits) {
	g.DPSLimit = l.DPS
	g.SupportLimit = l.Support
	g.TankLimit = l.Tank
}

// Members returns the list for a category. The slice header is a copy;
// mutation goes through the methods below.
func (g *Group) Members(c Category) []Member {
	switch c {
	case CategoryDPS:
		return g.DPS
	case CategorySupport:
		return g.Support
	default:
		return g.Tank
	}
}

func (g *Group) list(c Category) *[]Member {
	switch c {
	case CategoryDPS:
		return &g.DPS
	case CategorySupport:
		return &g.Support
	default:
		return &g.Tank
	}
}

// Find locates a member in any category.
func (g *Group) Find(userID string) (*Member, Category, bool) {
	for _, c := range Categories {
		lst := *g.list(c)
		for i := range lst {
			if lst[i].ID == userID {
				return &lst[i], c, true
			}
		}
	}
	return nil, "", false
}

// AddOrMove puts the user into the category the class token belongs to.
// A user already in the group is moved, keeping help flag and cosmetics;
// joining the category they are already in just updates the class token.
// Returns the category joined.
func (g *Group) AddOrMove(userID, roleToken string) (Category, error) {
	role, ok := RoleByToken(roleToken)
	if !ok {
		return "", ErrUnknownRole
	}

	entry := g.Remove(userID)
	if entry == nil {
		entry = &Member{ID: userID}
	}
	entry.Role = role.Token

	lst := g.list(role.Category)
	*lst = append(*lst, *entry)
	return role.Category, nil
}

// Remove pops the user from whichever category holds them. Nil if absent.
func (g *Group) Remove(userID string) *Member {
	for _, c := range Categories {
		lst := g.list(c)
		for i := range *lst {
			if (*lst)[i].ID == userID {
				m := (*lst)[i]
				*lst = append((*lst)[:i], (*lst)[i+1:]...)
				return &m
			}
		}
	}
	return nil
}

// ToggleHelp flips the help flag. The second return is false if the user
// is not in the group.
func (g *Group) ToggleHelp(userID string) (bool, bool) {
	m, _, ok := g.Find(userID)
	if !ok {
		return false, false
	}
	m.Help = !m.Help
	return m.Help, true
}

// SetCosmetics replaces the user's cosmetic selection wholesale.
// Returns false if the user is not in the group.
func (g *Group) SetCosmetics(userID string, choices map[string]int) bool {
	m, _, ok := g.Find(userID)
	if !ok {
		return false
	}
	if len(choices) == 0 {
		m.Cosmetics = nil
		return true
	}
	m.Cosmetics = make(map[string]int, len(choices))
	for k, v := range choices {
		m.Cosmetics[k] = v
	}
	return true
}

// OverCapacity reports whether the member at index i of a category sits
// past the stated limit. Helpers never count against capacity, so the
// position that matters is the member's rank among non-helpers, which is
// also the rank the renderer displays after sorting helpers to the back.
func (g *Group) OverCapacity(c Category, i int) bool {
	lst := g.Members(c)
	if i < 0 || i >= len(lst) || lst[i].Help {
		return false
	}
	n, bounded := g.Limits().For(c).Bounded()
	if !bounded {
		return false
	}
	rank := 0
	for j := 0; j < i; j++ {
		if !lst[j].Help {
			rank++
		}
	}
	return rank >= n
}
