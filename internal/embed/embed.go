// Package embed turns a roster into a displayable card. Rendering is a
// pure function of the roster; the only memoization point is the cache
// layer, so every call recomputes.
package embed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luk-gg/lukchan/internal/codec"
	"github.com/luk-gg/lukchan/internal/roster"
	"github.com/luk-gg/lukchan/pkg/types"
)

// Assets are the static lookup tables the renderer needs: emoji, colors,
// category labels. Built once at startup and injected, never ambient.
type Assets struct {
	Color         int
	HelpEmoji     string
	AlertEmoji    string
	ClosedMarker  string
	Roles         map[string]roster.Role
	Cosmetics     map[string][]string
	CosmeticOrder []string
	CategoryEmoji map[roster.Category]string
	CategoryName  map[roster.Category]string
}

// DefaultAssets builds the standard table set from the roster package's
// class and cosmetic data.
func DefaultAssets() Assets {
	return Assets{
		Color:         0x2B6CB0,
		HelpEmoji:     "<:lukchan_wow:1421678029247221790>",
		AlertEmoji:    "⚠️",
		ClosedMarker:  "\U0001f512 This group is closed.",
		Roles:         roster.Roles(),
		Cosmetics:     roster.Cosmetics(),
		CosmeticOrder: roster.CosmeticOrder,
		CategoryEmoji: map[roster.Category]string{
			roster.CategoryDPS:     "<:role_dps:1421678555737227301>",
			roster.CategorySupport: "<:role_sup:1421678555737227302>",
			roster.CategoryTank:    "<:role_tank:1421678555737227303>",
		},
		CategoryName: map[roster.Category]string{
			roster.CategoryDPS:     "Damage",
			roster.CategorySupport: "Support",
			roster.CategoryTank:    "Tank",
		},
	}
}

type Renderer struct {
	assets Assets
	codec  codec.Codec
}

func NewRenderer(a Assets, c codec.Codec) *Renderer {
	return &Renderer{assets: a, codec: c}
}

// Render produces the card for the roster's current state. The author
// link carries the freshly encoded token, so the card is self-contained.
func (r *Renderer) Render(g *roster.Group) (types.Card, error) {
	link, err := r.codec.URL(g)
	if err != nil {
		return types.Card{}, err
	}

	unix := g.Time.Unix()
	var desc strings.Builder
	fmt.Fprintf(&desc, "**Time:** <t:%d:f> (<t:%d:R>)\n\n", unix, unix)
	if g.Desc != "" {
		desc.WriteString(g.Desc)
	}
	if g.Closed {
		if g.Desc != "" {
			desc.WriteString("\n\n")
		}
		desc.WriteString(r.assets.ClosedMarker)
	}

	sections := make([]types.Section, 0, len(roster.Categories))
	for _, cat := range roster.Categories {
		sections = append(sections, r.section(g, cat))
	}

	return types.Card{
		Title:       g.Name,
		Description: desc.String(),
		Color:       r.assets.Color,
		Sections:    sections,
		Author: types.Author{
			Name:    g.Owner.Name,
			IconURL: g.Owner.IconURL,
			Link:    link,
		},
	}, nil
}

func (r *Renderer) section(g *roster.Group, cat roster.Category) types.Section {
	members := g.Members(cat)
	limit := g.Limits().For(cat)

	heading := fmt.Sprintf("%s %s (%d", r.assets.CategoryEmoji[cat], r.assets.CategoryName[cat], len(members))
	if n, bounded := limit.Bounded(); bounded {
		heading += fmt.Sprintf("/%d", n)
	}
	heading += ")"

	return types.Section{Heading: heading, Body: r.memberLines(members, limit)}
}

// memberLines renders one line per member, helpers sorted after everyone
// else. The sort is stable: join order survives within each half, and the
// over-capacity index is computed against the displayed order.
func (r *Renderer) memberLines(members []roster.Member, limit roster.Limit) string {
	if len(members) == 0 {
		return "\u200b"
	}

	ordered := make([]roster.Member, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].Help && ordered[j].Help
	})

	n, bounded := limit.Bounded()
	lines := make([]string, 0, len(ordered))
	for i, m := range ordered {
		var b strings.Builder
		if role, ok := r.assets.Roles[m.Role]; ok {
			b.WriteString(role.Emoji)
		} else {
			b.WriteString(m.Role)
		}
		fmt.Fprintf(&b, " <@%s>", m.ID)

		for _, cosmetic := range r.assets.CosmeticOrder {
			idx, chosen := m.Cosmetics[cosmetic]
			if !chosen {
				continue
			}
			variants := r.assets.Cosmetics[cosmetic]
			if idx >= 0 && idx < len(variants) {
				b.WriteString(" " + variants[idx])
			}
		}

		if m.Help {
			b.WriteString(" " + r.assets.HelpEmoji)
		}
		if bounded && i >= n && !m.Help {
			b.WriteString(" " + r.assets.AlertEmoji)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
