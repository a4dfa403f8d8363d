package engine

import (
	"testing"

	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

func TestIsTransformationAllowed(t *testing.T) {
	mixed := Shares{{"saiyan", 0.25}, {"human", 0.75}}
	tests := []struct {
		name   string
		form   rules.Transformation
		shares Shares
		preset Preset
		want   bool
	}{
		{"unconstrained", rules.Transformation{ID: "x"}, mixed, PresetQuarterHuman, true},
		{"required share met", rules.Transformation{RequiredRaceShares: map[string]float64{"human": 0.75}}, mixed, "", true},
		{"required share missed", rules.Transformation{RequiredRaceShares: map[string]float64{"saiyan": 0.5}}, mixed, "", false},
		{"required race absent", rules.Transformation{RequiredRaceShares: map[string]float64{"saiyan": 0.5}}, Shares{{"human", 1}}, "", false},
		{"allowed default threshold", rules.Transformation{AllowedRaceIDs: []string{"saiyan", "human"}}, mixed, "", false},
		{"allowed full share", rules.Transformation{AllowedRaceIDs: []string{"saiyan"}}, Shares{{"saiyan", 1}}, "", true},
		{"allowed best share counts", rules.Transformation{AllowedRaceIDs: []string{"saiyan", "human"}, MinRaceShare: rules.Float(0.5)}, mixed, "", true},
		{"allowed threshold missed", rules.Transformation{AllowedRaceIDs: []string{"saiyan"}, MinRaceShare: rules.Float(0.5)}, mixed, "", false},
		{"blocked preset", rules.Transformation{BlockedLineages: []string{"quarter_human"}}, mixed, PresetQuarterHuman, false},
		{"other preset", rules.Transformation{BlockedLineages: []string{"quarter_human"}}, mixed, PresetFull, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransformationAllowed(tt.form, tt.shares, tt.preset); got != tt.want {
				t.Fatalf("allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterAllowedTransformationsNeverEmpty(t *testing.T) {
	forms := []rules.Transformation{
		{ID: "ssj", RequiredRaceShares: map[string]float64{"saiyan": 0.5}},
		{ID: "kaio", BlockedLineages: []string{"full"}},
	}
	for _, catalog := range [][]rules.Transformation{nil, forms} {
		got := FilterAllowedTransformations(catalog, Shares{{"human", 1}}, PresetFull)
		if len(got) != 1 {
			t.Fatalf("allowed = %+v, want single base form", got)
		}
		if got[0].ID != BaseFormID || got[0].Name != "Base Form" || got[0].PowerMultiplier() != 1 || got[0].KiScale() != 1 {
			t.Fatalf("fallback = %+v", got[0])
		}
	}
}

func TestFilterAllowedTransformationsKeepsOrder(t *testing.T) {
	forms := []rules.Transformation{
		{ID: "a"},
		{ID: "ssj", RequiredRaceShares: map[string]float64{"saiyan": 0.5}},
		{ID: "b"},
	}
	got := FilterAllowedTransformations(forms, Shares{{"human", 1}}, PresetFull)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("allowed = %+v", got)
	}
}

func TestResolveActiveForm(t *testing.T) {
	allowed := []rules.Transformation{{ID: "base"}, {ID: "kaioken_x2"}}
	if got := ResolveActiveForm(allowed, "kaioken_x2"); got.ID != "kaioken_x2" {
		t.Fatalf("active = %q", got.ID)
	}
	if got := ResolveActiveForm(allowed, "ssj"); got.ID != "base" {
		t.Fatalf("fallback active = %q, want first allowed", got.ID)
	}
	if got := ResolveActiveForm(nil, "ssj"); got.ID != BaseFormID {
		t.Fatalf("empty allowed = %q", got.ID)
	}
}
