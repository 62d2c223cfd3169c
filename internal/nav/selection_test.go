package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNavigator_Initial(t *testing.T) {
	n := NewNavigator(nil)
	s := n.Initial()
	assert.Equal(t, Selection{Category: "wsd", Tab: "home"}, s)
	assert.True(t, s.IsHome())
}

func TestNavigator_Transitions(t *testing.T) {
	n := NewNavigator(Default)

	tests := []struct {
		name  string
		start Selection
		apply func(Selection) Selection
		want  Selection
	}{
		{
			name:  "select category from home picks first item",
			start: n.Initial(),
			apply: func(s Selection) Selection { return n.SelectCategory(s, "ced") },
			want:  Selection{Category: "ced", Tab: "weather"},
		},
		{
			name:  "select category keeps shared tab",
			start: Selection{Category: "wqeh", Tab: "water-prediction"},
			apply: func(s Selection) Selection { return n.SelectCategory(s, "gs") },
			want:  Selection{Category: "gs", Tab: "water-prediction"},
		},
		{
			name:  "unknown category is ignored",
			start: Selection{Category: "io", Tab: "energy-optimization"},
			apply: func(s Selection) Selection { return n.SelectCategory(s, "nope") },
			want:  Selection{Category: "io", Tab: "energy-optimization"},
		},
		{
			name:  "select tab sets tab only",
			start: Selection{Category: "wsd", Tab: "weekly-demand"},
			apply: func(s Selection) Selection { return n.SelectTab(s, "leakage") },
			want:  Selection{Category: "wsd", Tab: "leakage"},
		},
		{
			name:  "go home",
			start: Selection{Category: "ugl", Tab: "citizen-report"},
			apply: n.GoHome,
			want:  Selection{Category: "wsd", Tab: "home"},
		},
		{
			name:  "quick access",
			start: n.Initial(),
			apply: func(s Selection) Selection { return n.QuickAccess(s, "rhm") },
			want:  Selection{Category: "rhm", Tab: "flood-risk"},
		},
		{
			name:  "quick access to current category still leaves home",
			start: n.Initial(),
			apply: func(s Selection) Selection { return n.QuickAccess(s, "wsd") },
			want:  Selection{Category: "wsd", Tab: "weekly-demand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.apply(tt.start))
		})
	}
}

func TestNavigator_Label(t *testing.T) {
	n := NewNavigator(nil)
	assert.Equal(t, "Water Prediction", n.Label(Selection{Category: "wqeh", Tab: "water-prediction"}))
	assert.Equal(t, "Ground Water Level", n.Label(Selection{Category: "gs", Tab: "water-prediction"}))
	assert.Equal(t, "Drought", n.Label(Selection{Category: "wsd", Tab: "drought"}))
	assert.Empty(t, n.Label(Selection{Category: "wsd", Tab: "home"}))
}

func TestTaxonomy_TabIDs(t *testing.T) {
	ids := Default.TabIDs()
	assert.Len(t, ids, 14)
	assert.Equal(t, "weekly-demand", ids[0])
	assert.Len(t, Default.Pairs(), 15)
}

// After any sequence of transitions, a selection reached through a known
// category always shows one of that category's tabs or home.
func TestNavigator_SelectionStaysInCategory(t *testing.T) {
	n := NewNavigator(nil)
	categoryIDs := make([]string, 0, len(Default))
	for _, c := range Default {
		categoryIDs = append(categoryIDs, c.ID)
	}
	categoryIDs = append(categoryIDs, "unknown")

	rapid.Check(t, func(t *rapid.T) {
		s := n.Initial()
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				s = n.SelectCategory(s, rapid.SampledFrom(categoryIDs).Draw(t, "category"))
			case 1:
				s = n.GoHome(s)
			case 2:
				s = n.QuickAccess(s, rapid.SampledFrom(categoryIDs).Draw(t, "quick"))
			}
			if !s.IsHome() && !Default.Contains(s.Category, s.Tab) {
				t.Fatalf("tab %q not in category %q", s.Tab, s.Category)
			}
		}
	})
}

func TestNavigator_SelectCategoryIdempotent(t *testing.T) {
	n := NewNavigator(nil)
	pairs := Default.Pairs()

	rapid.Check(t, func(t *rapid.T) {
		p := rapid.SampledFrom(pairs).Draw(t, "pair")
		start := Selection{Category: p.Category, Tab: p.Item.ID}
		target := rapid.SampledFrom(Default).Draw(t, "target")

		once := n.SelectCategory(start, target.ID)
		twice := n.SelectCategory(once, target.ID)
		if once != twice {
			t.Fatalf("not idempotent: %v then %v", once, twice)
		}
		if once.Category != target.ID || !target.Has(once.Tab) {
			t.Fatalf("selection %v outside category %s", once, target.ID)
		}
	})
}
