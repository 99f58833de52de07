package roster

import (
	"testing"
	"time"
)

func newGroup() *Group {
	return New("Zakum Run", "", time.Now().Add(time.Hour), DefaultLimits(), Owner{
		ID: "owner-1", Name: "luk", IconURL: "https://cdn.example/luk.png",
	})
}

func TestAddOrMove_NewMember(t *testing.T) {
	g := newGroup()

	cat, err := g.AddOrMove("u1", "sb")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cat != CategoryDPS {
		t.Fatalf("got %q, want %q", cat, CategoryDPS)
	}
	if len(g.DPS) != 1 || g.DPS[0].ID != "u1" || g.DPS[0].Role != "sb" {
		t.Fatalf("unexpected dps list: %#v", g.DPS)
	}
}

func TestAddOrMove_UnknownToken(t *testing.T) {
	g := newGroup()
	if _, err := g.AddOrMove("u1", "zzz"); err != ErrUnknownRole {
		t.Fatalf("want ErrUnknownRole, got %v", err)
	}
	if len(g.DPS)+len(g.Support)+len(g.Tank) != 0 {
		t.Fatalf("member lists must stay empty")
	}
}

func TestAddOrMove_SwitchPreservesState(t *testing.T) {
	g := newGroup()

	if _, err := g.AddOrMove("u1", "sb"); err != nil {
		t.Fatal(err)
	}
	if !g.SetCosmetics("u1", map[string]int{"airona": 2}) {
		t.Fatal("SetCosmetics reported member missing")
	}
	if _, ok := g.ToggleHelp("u1"); !ok {
		t.Fatal("ToggleHelp reported member missing")
	}

	// Switch to tank: cosmetics and help ride along, dps entry disappears.
	cat, err := g.AddOrMove("u1", "sk")
	if err != nil {
		t.Fatal(err)
	}
	if cat != CategoryTank {
		t.Fatalf("got %q, want %q", cat, CategoryTank)
	}
	if len(g.DPS) != 0 {
		t.Fatalf("dps list should be empty, got %#v", g.DPS)
	}
	m, c, ok := g.Find("u1")
	if !ok || c != CategoryTank {
		t.Fatalf("member not found in tank (ok=%v cat=%q)", ok, c)
	}
	if m.Role != "sk" || !m.Help || m.Cosmetics["airona"] != 2 {
		t.Fatalf("state lost on switch: %#v", m)
	}
}

func TestAddOrMove_SameCategoryKeepsPosition(t *testing.T) {
	g := newGroup()
	_, _ = g.AddOrMove("u1", "sb")
	_, _ = g.AddOrMove("u2", "fm")

	// u1 re-picks a dps class; they drop to the back of the same list,
	// which is the observable "re-join" order the original used.
	if _, err := g.AddOrMove("u1", "mm"); err != nil {
		t.Fatal(err)
	}
	if len(g.DPS) != 2 || g.DPS[1].ID != "u1" || g.DPS[1].Role != "mm" {
		t.Fatalf("unexpected dps list: %#v", g.DPS)
	}
}

func TestRemove(t *testing.T) {
	cases := []struct {
		name   string
		seed   []string // user:role pairs interleaved
		target string
		found  bool
	}{
		{name: "present", seed: []string{"u1", "sb", "u2", "vo"}, target: "u2", found: true},
		{name: "absent", seed: []string{"u1", "sb"}, target: "ghost", found: false},
		{name: "empty group", seed: nil, target: "u1", found: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newGroup()
			for i := 0; i < len(tc.seed); i += 2 {
				if _, err := g.AddOrMove(tc.seed[i], tc.seed[i+1]); err != nil {
					t.Fatal(err)
				}
			}
			m := g.Remove(tc.target)
			if tc.found && (m == nil || m.ID != tc.target) {
				t.Fatalf("expected removed entry for %s, got %#v", tc.target, m)
			}
			if !tc.found && m != nil {
				t.Fatalf("expected nil, got %#v", m)
			}
			if _, _, ok := g.Find(tc.target); ok {
				t.Fatalf("%s still present after Remove", tc.target)
			}
		})
	}
}

func TestToggleHelp_AbsentUserIsNoop(t *testing.T) {
	g := newGroup()
	if _, ok := g.ToggleHelp("ghost"); ok {
		t.Fatal("toggle on absent user must report not found")
	}
}

func TestToggleHelp_TwiceRestoresState(t *testing.T) {
	g := newGroup()
	_, _ = g.AddOrMove("u1", "bp")

	on, ok := g.ToggleHelp("u1")
	if !ok || !on {
		t.Fatalf("first toggle: on=%v ok=%v", on, ok)
	}
	off, ok := g.ToggleHelp("u1")
	if !ok || off {
		t.Fatalf("second toggle: on=%v ok=%v", off, ok)
	}
}

func TestSetCosmetics_EmptyClears(t *testing.T) {
	g := newGroup()
	_, _ = g.AddOrMove("u1", "sb")
	g.SetCosmetics("u1", map[string]int{"airona": 1, "tina": 4})
	g.SetCosmetics("u1", nil)

	m, _, _ := g.Find("u1")
	if m.Cosmetics != nil {
		t.Fatalf("cosmetics not cleared: %#v", m.Cosmetics)
	}
}

func TestOverCapacity(t *testing.T) {
	g := newGroup()
	g.DPSLimit = LimitOf(2)
	_, _ = g.AddOrMove("u1", "sb")
	_, _ = g.AddOrMove("u2", "sb")
	_, _ = g.AddOrMove("u3", "sb")

	for i, want := range []bool{false, false, true} {
		if got := g.OverCapacity(CategoryDPS, i); got != want {
			t.Fatalf("index %d: got %v, want %v", i, got, want)
		}
	}

	// Helping exempts the overflow member.
	g.ToggleHelp("u3")
	if g.OverCapacity(CategoryDPS, 2) {
		t.Fatal("helper must not be over capacity")
	}
}

func TestOverCapacity_UnlimitedNeverFlags(t *testing.T) {
	g := newGroup()
	g.DPSLimit = Unlimited()
	for i := 0; i < 10; i++ {
		_, _ = g.AddOrMove(string(rune('a'+i)), "sb")
	}
	for i := range g.DPS {
		if g.OverCapacity(CategoryDPS, i) {
			t.Fatalf("index %d flagged with unlimited capacity", i)
		}
	}
}

func TestPresetLimits(t *testing.T) {
	cases := []struct {
		size           int
		dps, sup, tank int
		ok             bool
	}{
		{5, 3, 1, 1, true},
		{10, 6, 2, 2, true},
		{15, 9, 3, 3, true},
		{20, 12, 4, 4, true},
		{7, 0, 0, 0, false},
	}
	for _, tc := range cases {
		l, ok := PresetLimits(tc.size)
		if ok != tc.ok {
			t.Fatalf("size %d: ok=%v, want %v", tc.size, ok, tc.ok)
		}
		if !ok {
			continue
		}
		for _, pair := range []struct {
			got  Limit
			want int
		}{{l.DPS, tc.dps}, {l.Support, tc.sup}, {l.Tank, tc.tank}} {
			n, bounded := pair.got.Bounded()
			if !bounded || n != pair.want {
				t.Fatalf("size %d: got %d (bounded=%v), want %d", tc.size, n, bounded, pair.want)
			}
		}
	}
}
