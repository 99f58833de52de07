package roster

import "errors"

// ErrUnknownRole is returned when a class token is not in the role table.
var ErrUnknownRole = errors.New("unknown class token")

// Role is one playable class. The token is what travels on the wire and
// inside encoded rosters; category is derived from it, never stored.
type Role struct {
	Token    string
	Name     string
	Category Category
	Emoji    string
}

var roles = map[string]Role{
	// DPS
	"sb": {Token: "sb", Name: "Stormblade", Category: CategoryDPS, Emoji: "<:class_sb:1421679001256733101>"},
	"fm": {Token: "fm", Name: "Frost Mage", Category: CategoryDPS, Emoji: "<:class_fm:1421679012858223804>"},
	"wk": {Token: "wk", Name: "Wind Knight", Category: CategoryDPS, Emoji: "<:class_wk:1421679024656486702>"},
	"mm": {Token: "mm", Name: "Marksman", Category: CategoryDPS, Emoji: "<:class_mm:1421679037306321203>"},
	// Support
	"vo": {Token: "vo", Name: "Verdant Oracle", Category: CategorySupport, Emoji: "<:class_vo:1421679049419194504>"},
	"bp": {Token: "bp", Name: "Beat Performer", Category: CategorySupport, Emoji: "<:class_bp:1421679060723821605>"},
	// Tank
	"sk": {Token: "sk", Name: "Shield Knight", Category: CategoryTank, Emoji: "<:class_sk:1421679072383127506>"},
	"hg": {Token: "hg", Name: "Heavy Guardian", Category: CategoryTank, Emoji: "<:class_hg:1421679083959189607>"},
}

func RoleByToken(token string) (Role, bool) {
	r, ok := roles[token]
	return r, ok
}

// Roles returns the role table keyed by token. The map is shared; callers
// must not mutate it.
func Roles() map[string]Role { return roles }

// CosmeticOrder fixes the display order of cosmetic categories.
var CosmeticOrder = []string{"airona", "tina"}

var cosmetics = map[string][]string{
	"airona": {
		"<:airona:1421678801234567001>",
		"<:airona_angry:1421678801234567002>",
		"<:airona3:1421678801234567003>",
		"<:airona_grin:1421678801234567004>",
		"<:airona_laugh:1421678801234567005>",
		"<:airona_wauw:1421678801234567006>",
	},
	"tina": {
		"<:tina:1421678901234567001>",
		"<:tina_smile:1421678901234567002>",
		"<:tina_wink:1421678901234567003>",
		"<:tina_grin:1421678901234567004>",
		"<:tina_laugh:1421678901234567005>",
		"<:tina_wauw:1421678901234567006>",
	},
}

// CosmeticVariants returns the emoji list for a cosmetic category.
func CosmeticVariants(category string) ([]string, bool) {
	v, ok := cosmetics[category]
	return v, ok
}

// Cosmetics returns the full cosmetic table. Callers must not mutate it.
func Cosmetics() map[string][]string { return cosmetics }

// DefaultLimits is the fallback capacity triple: 3 DPS, 1 support, 1 tank.
func DefaultLimits() Limits {
	return Limits{DPS: LimitOf(3), Support: LimitOf(1), Tank: LimitOf(1)}
}

// PresetLimits returns the capacity triple for a standard group size
// (5, 10, 15 or 20 players).
func PresetLimits(size int) (Limits, bool) {
	switch size {
	case 5:
		return Limits{DPS: LimitOf(3), Support: LimitOf(1), Tank: LimitOf(1)}, true
	case 10:
		return Limits{DPS: LimitOf(6), Support: LimitOf(2), Tank: LimitOf(2)}, true
	case 15:
		return Limits{DPS: LimitOf(9), Support: LimitOf(3), Tank: LimitOf(3)}, true
	case 20:
		return Limits{DPS: LimitOf(12), Support: LimitOf(4), Tank: LimitOf(4)}, true
	default:
		return Limits{}, false
	}
}
