package engine

import (
	"strconv"
	"strings"

	"github.com/luk-gg/lukchan/internal/roster"
)

// ParseLimits reads the limits mini-language: whitespace-separated tokens
// of NAME or NAME:NUMBER. A bare NAME means unlimited; names it does not
// recognize are ignored. A malformed number abandons the whole input and
// falls back to the 3/1/1 default rather than applying half of it.
func ParseLimits(input string) roster.Limits {
	limits := roster.DefaultLimits()
	if strings.TrimSpace(input) == "" {
		return limits
	}

	for _, part := range strings.Fields(input) {
		name, num, bounded := strings.Cut(part, ":")

		cat, ok := limitName(name)
		if !ok {
			continue
		}

		if !bounded {
			limits.Set(cat, roster.Unlimited())
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return roster.DefaultLimits()
		}
		limits.Set(cat, roster.LimitOf(n))
	}
	return limits
}

func limitName(name string) (roster.Category, bool) {
	switch strings.ToLower(name) {
	case "dps":
		return roster.CategoryDPS, true
	case "healer", "sup", "support":
		return roster.CategorySupport, true
	case "tank":
		return roster.CategoryTank, true
	default:
		return "", false
	}
}

// FormatLimits is the inverse direction, used to pre-fill an edit form.
func FormatLimits(l roster.Limits) string {
	format := func(name string, lim roster.Limit) string {
		if n, bounded := lim.Bounded(); bounded {
			return name + ":" + strconv.Itoa(n)
		}
		return name
	}
	return strings.Join([]string{
		format("DPS", l.DPS),
		format("Sup", l.Support),
		format("Tank", l.Tank),
	}, " ")
}
