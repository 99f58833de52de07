package engine

import (
	"testing"
	"time"

	"github.com/luk-gg/lukchan/internal/roster"
)

func limitEq(l roster.Limit, want int, bounded bool) bool {
	n, b := l.Bounded()
	return b == bounded && (!bounded || n == want)
}

func TestParseLimits(t *testing.T) {
	cases := []struct {
		name  string
		input string
		check func(*testing.T, roster.Limits)
	}{
		{
			name:  "empty input gives defaults",
			input: "",
			check: func(t *testing.T, l roster.Limits) {
				if !limitEq(l.DPS, 3, true) || !limitEq(l.Support, 1, true) || !limitEq(l.Tank, 1, true) {
					t.Fatalf("not the default triple: %#v", l)
				}
			},
		},
		{
			name:  "full triple",
			input: "DPS:6 Sup:2 Tank:2",
			check: func(t *testing.T, l roster.Limits) {
				if !limitEq(l.DPS, 6, true) || !limitEq(l.Support, 2, true) || !limitEq(l.Tank, 2, true) {
					t.Fatalf("wrong parse: %#v", l)
				}
			},
		},
		{
			name:  "bare name means unlimited",
			input: "DPS Tank:1",
			check: func(t *testing.T, l roster.Limits) {
				if !l.DPS.IsUnlimited() {
					t.Fatalf("dps should be unlimited: %#v", l.DPS)
				}
				if !limitEq(l.Tank, 1, true) {
					t.Fatalf("tank wrong: %#v", l.Tank)
				}
				// Unmentioned category keeps its default.
				if !limitEq(l.Support, 1, true) {
					t.Fatalf("support wrong: %#v", l.Support)
				}
			},
		},
		{
			name:  "healer and support alias sup",
			input: "healer:4",
			check: func(t *testing.T, l roster.Limits) {
				if !limitEq(l.Support, 4, true) {
					t.Fatalf("alias not honored: %#v", l.Support)
				}
			},
		},
		{
			name:  "unknown names ignored silently",
			input: "Bard:2 DPS:5",
			check: func(t *testing.T, l roster.Limits) {
				if !limitEq(l.DPS, 5, true) {
					t.Fatalf("dps wrong: %#v", l.DPS)
				}
			},
		},
		{
			name:  "malformed number falls back to default triple",
			input: "DPS:lots Sup:2",
			check: func(t *testing.T, l roster.Limits) {
				if !limitEq(l.DPS, 3, true) || !limitEq(l.Support, 1, true) || !limitEq(l.Tank, 1, true) {
					t.Fatalf("expected full fallback, got %#v", l)
				}
			},
		},
		{
			name:  "case insensitive",
			input: "dps:2 TANK:3",
			check: func(t *testing.T, l roster.Limits) {
				if !limitEq(l.DPS, 2, true) || !limitEq(l.Tank, 3, true) {
					t.Fatalf("wrong parse: %#v", l)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, ParseLimits(tc.input))
		})
	}
}

func TestFormatLimits_RoundTrip(t *testing.T) {
	l := roster.Limits{DPS: roster.LimitOf(6), Support: roster.Unlimited(), Tank: roster.LimitOf(2)}
	text := FormatLimits(l)
	if text != "DPS:6 Sup Tank:2" {
		t.Fatalf("got %q", text)
	}
	back := ParseLimits(text)
	if !limitEq(back.DPS, 6, true) || !back.Support.IsUnlimited() || !limitEq(back.Tank, 2, true) {
		t.Fatalf("round trip lost data: %#v", back)
	}
}

func TestParseScheduledTime(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2026-12-31T20:00:00Z",
			want:  time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC),
		},
		{
			name:  "date with utc abbreviation",
			input: "2026-12-31 20:00 UTC",
			want:  time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC),
		},
		{
			name:  "brt resolves sao paulo offset",
			input: "2026-12-31 20:00 BRT",
			want:  time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC), // UTC-3
		},
		{
			name:  "no zone defaults to utc",
			input: "2026-12-31 20:00",
			want:  time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "when the stars align",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseScheduledTime(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
