package engine

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Timezone abbreviations accepted at the end of a scheduled-time input.
// The community spans South America through Oceania, so the table leans
// broad rather than canonical.
var timezones = map[string]string{
	// South America
	"BRT": "America/Sao_Paulo",
	"ART": "America/Argentina/Buenos_Aires",
	"CLT": "America/Santiago",
	"PYT": "America/Asuncion",
	"UYT": "America/Montevideo",
	"GFT": "America/Cayenne",
	"AMT": "America/Manaus",
	"BOT": "America/La_Paz",
	// North America
	"EST": "America/New_York",
	"CST": "America/Chicago",
	"MST": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"AKST": "America/Anchorage",
	"HST": "Pacific/Honolulu",
	// Europe
	"GMT": "Etc/GMT",
	"UTC": "UTC",
	"BST": "Europe/London",
	"CET": "Europe/Paris",
	"EET": "Europe/Athens",
	"MSK": "Europe/Moscow",
	// Asia
	"IST": "Asia/Kolkata",
	"JST": "Asia/Tokyo",
	"KST": "Asia/Seoul",
	"SGT": "Asia/Singapore",
	"HKT": "Asia/Hong_Kong",
	// Oceania
	"AEST": "Australia/Sydney",
	"NZST": "Pacific/Auckland",
}

// ParseScheduledTime reads a human-entered meeting time. RFC3339 is taken
// as-is; otherwise a trailing timezone abbreviation picks the location and
// the rest is fuzzy-parsed, defaulting to UTC.
func ParseScheduledTime(input string) (time.Time, error) {
	input = strings.TrimSpace(input)

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}

	loc := time.UTC
	if i := strings.LastIndexByte(input, ' '); i > 0 {
		abbrev := strings.ToUpper(input[i+1:])
		if iana, ok := timezones[abbrev]; ok {
			if l, err := time.LoadLocation(iana); err == nil {
				loc = l
				input = strings.TrimSpace(input[:i])
			}
		}
	}

	return dateparse.ParseIn(input, loc)
}
