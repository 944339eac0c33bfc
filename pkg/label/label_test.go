package label

import (
	"strings"
	"testing"
	"unicode"

	"pgregory.net/rapid"

	"github.com/matzehuels/graphwidget/pkg/textfmt"
)

func strptr(s string) *string { return &s }

func TestPrepare_ServiceScenario(t *testing.T) {
	nodes := Prepare([]RawNode{{ID: StringID("service-a"), Label: strptr("service-a\nrequests: 120")}})
	if len(nodes) != 1 {
		t.Fatalf("Prepare() returned %d nodes, want 1", len(nodes))
	}
	n := nodes[0]

	checks := []struct {
		field, got, want string
	}{
		{"Title", n.Title, "service-a"},
		{"StatsLine", n.StatsLine, "requests: 120"},
		{"ShortLabel", n.ShortLabel, "service-a\nrequests: 120"},
		{"LongLabel", n.LongLabel, "service-a\nrequests: 120"},
		{"Label", n.Label, n.ShortLabel},
		{"Shape", n.Shape, DefaultShape},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if !n.IsShort {
		t.Error("IsShort = false, want true after Prepare")
	}
	if n.Color != DefaultColor {
		t.Errorf("Color = %v, want DefaultColor", n.Color)
	}
}

func TestPrepare_LongTitle(t *testing.T) {
	title := strings.Repeat("word ", 12) // 60 characters
	n := Prepare([]RawNode{{ID: StringID(title)}})[0]

	if got := textfmt.Len(n.ShortLabel); got != ShortLimit {
		t.Errorf("len(ShortLabel) = %d, want %d", got, ShortLimit)
	}
	if !strings.HasSuffix(n.ShortLabel, textfmt.Ellipsis) {
		t.Errorf("ShortLabel = %q, want ellipsis suffix", n.ShortLabel)
	}
	for _, line := range strings.Split(n.LongLabel, "\n") {
		if textfmt.Len(line) > WrapWidth {
			t.Errorf("LongLabel line %q exceeds %d characters", line, WrapWidth)
		}
	}
	if n.StatsLine != "" {
		t.Errorf("StatsLine = %q, want empty without a label", n.StatsLine)
	}
}

func TestPrepare_StatsLine(t *testing.T) {
	tests := []struct {
		name  string
		label *string
		want  string
	}{
		{"absent", nil, ""},
		{"empty", strptr(""), ""},
		{"title only", strptr("title"), ""},
		{"one stats line", strptr("title\n(cited by: 3, cites: 1)"), "(cited by: 3, cites: 1)"},
		{"several lines", strptr("title\na\nb"), "a\nb"},
		{"trailing newline", strptr("title\n"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Prepare([]RawNode{{ID: StringID("x"), Label: tt.label}})[0]
			if n.StatsLine != tt.want {
				t.Errorf("StatsLine = %q, want %q", n.StatsLine, tt.want)
			}
		})
	}
}

func TestPrepare_TitleIsID(t *testing.T) {
	n := Prepare([]RawNode{{ID: IntID(42), Label: strptr("ignored title\nstats")}})[0]
	if n.Title != "42" {
		t.Errorf("Title = %q, want %q", n.Title, "42")
	}
	if n.ShortLabel != "42\nstats" {
		t.Errorf("ShortLabel = %q, want %q", n.ShortLabel, "42\nstats")
	}
}

func TestPrepare_Color(t *testing.T) {
	custom := map[string]any{"background": "#c47e63", "border": "#000"}
	nodes := Prepare([]RawNode{
		{ID: StringID("a"), Color: "#819a90"},
		{ID: StringID("b"), Color: custom},
		{ID: StringID("c")},
	})

	if nodes[0].Color != "#819a90" {
		t.Errorf("string color = %v, want #819a90", nodes[0].Color)
	}
	if m, ok := nodes[1].Color.(map[string]any); !ok || m["background"] != "#c47e63" {
		t.Errorf("object color = %v, want passthrough", nodes[1].Color)
	}
	if nodes[2].Color != DefaultColor {
		t.Errorf("missing color = %v, want DefaultColor", nodes[2].Color)
	}
}

func TestPrepare_Empty(t *testing.T) {
	if got := Prepare(nil); len(got) != 0 {
		t.Errorf("Prepare(nil) = %v, want empty", got)
	}
}

func TestToggle(t *testing.T) {
	n := Prepare([]RawNode{{ID: StringID(strings.Repeat("long title ", 6)), Label: strptr("t\nstats")}})[0]
	original := n.Label

	Toggle(&n)
	if n.IsShort {
		t.Error("IsShort = true after one toggle")
	}
	if n.Label != n.LongLabel {
		t.Errorf("Label = %q, want LongLabel %q", n.Label, n.LongLabel)
	}

	Toggle(&n)
	if !n.IsShort {
		t.Error("IsShort = false after two toggles")
	}
	if n.Label != original {
		t.Errorf("Label = %q after two toggles, want %q", n.Label, original)
	}
}

func TestToggleProperties(t *testing.T) {
	gen := rapid.StringOf(rapid.RuneFrom([]rune{' ', '\n'}, unicode.Latin))
	rapid.Check(t, func(t *rapid.T) {
		id := gen.Draw(t, "id")
		lbl := gen.Draw(t, "label")
		flips := rapid.IntRange(0, 9).Draw(t, "flips")

		n := Prepare([]RawNode{{ID: StringID(id), Label: &lbl}})[0]
		short, long := n.ShortLabel, n.LongLabel
		for range flips {
			Toggle(&n)
		}

		wantShort := flips%2 == 0
		if n.IsShort != wantShort {
			t.Fatalf("IsShort = %v after %d toggles", n.IsShort, flips)
		}
		want := long
		if wantShort {
			want = short
		}
		if n.Label != want {
			t.Fatalf("Label = %q after %d toggles, want %q", n.Label, flips, want)
		}
		if n.ShortLabel != short || n.LongLabel != long {
			t.Fatal("toggle modified the precomputed labels")
		}
	})
}
