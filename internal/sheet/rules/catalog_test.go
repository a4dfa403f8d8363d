package rules

import (
	"math"
	"testing"
)

func TestFallbackCatalogs(t *testing.T) {
	c := Fallback()
	if got := len(c.Races); got != 7 {
		t.Fatalf("races = %d, want 7", got)
	}
	if got := len(c.Transformations); got != 9 {
		t.Fatalf("transformations = %d, want 9", got)
	}
	if got := len(c.Techniques); got != 13 {
		t.Fatalf("techniques = %d, want 13", got)
	}
	if len(c.Classes) == 0 || len(c.Professions) == 0 {
		t.Fatalf("classes/professions empty: %d/%d", len(c.Classes), len(c.Professions))
	}

	saiyan, ok := c.FindRace("saiyan")
	if !ok {
		t.Fatal("expected saiyan race")
	}
	if saiyan.StatBonuses.Str != 5 || saiyan.HP != 3 {
		t.Fatalf("saiyan bonuses = %+v hp %v", saiyan.StatBonuses, saiyan.HP)
	}
	human, _ := c.FindRace("human")
	if human.Name != "Earthling" {
		t.Fatalf("human name = %q", human.Name)
	}

	base, ok := c.FindTransformation("base")
	if !ok || base.PowerMultiplier() != 1 || base.KiScale() != 1 {
		t.Fatalf("base form = %+v", base)
	}
	pride, _ := c.FindTransformation("saiyan_pride")
	if pride.RequiredRaceShares["saiyan"] != 0.5 {
		t.Fatalf("saiyan_pride required shares = %v", pride.RequiredRaceShares)
	}
	flare, _ := c.FindTechnique("solar_flare")
	if flare.DamageDice != "0d0" || flare.UsesAttackMod {
		t.Fatalf("solar_flare = %+v", flare)
	}
}

func TestFallbackReturnsFreshCopies(t *testing.T) {
	first := Fallback()
	first.Races[0].Name = "mutated"
	first.Transformations[4].RequiredRaceShares["saiyan"] = 0

	second := Fallback()
	if second.Races[0].Name == "mutated" {
		t.Fatal("expected fresh race slice")
	}
	if second.Transformations[4].RequiredRaceShares["saiyan"] != 0.5 {
		t.Fatal("expected fresh transformation map")
	}
}

func TestTransformationOptionalScalars(t *testing.T) {
	var form Transformation
	if form.PowerMultiplier() != 1 || form.KiScale() != 1 || form.MinAllowedShare() != 1 {
		t.Fatalf("unset scalars should default to 1")
	}

	form.Multiplier = Float(3)
	form.KiModifier = Float(math.NaN())
	form.MinRaceShare = Float(0.25)
	if form.PowerMultiplier() != 3 {
		t.Fatalf("multiplier = %v", form.PowerMultiplier())
	}
	if form.KiScale() != 1 {
		t.Fatalf("NaN ki modifier = %v, want 1", form.KiScale())
	}
	if form.MinAllowedShare() != 0.25 {
		t.Fatalf("min share = %v", form.MinAllowedShare())
	}
}

func TestFindMissing(t *testing.T) {
	c := Fallback()
	if _, ok := c.FindRace("missing"); ok {
		t.Fatal("expected missing race")
	}
	if _, ok := c.FindClass("missing"); ok {
		t.Fatal("expected missing class")
	}
	if _, ok := c.FindProfession("missing"); ok {
		t.Fatal("expected missing profession")
	}
	if _, ok := c.FindTechnique("missing"); ok {
		t.Fatal("expected missing technique")
	}
	if _, ok := (Catalogs{}).FindTransformation("base"); ok {
		t.Fatal("expected empty catalog to miss")
	}
}

func TestAbilityScoresArithmetic(t *testing.T) {
	a := AbilityScores{Str: 1, Spi: 2}
	b := AbilityScores{Str: 3, Dex: 1}

	sum := a.Add(b)
	if sum != (AbilityScores{Str: 4, Dex: 1, Spi: 2}) {
		t.Fatalf("add = %+v", sum)
	}
	if scaled := sum.Scale(0.5); scaled != (AbilityScores{Str: 2, Dex: 0.5, Spi: 1}) {
		t.Fatalf("scale = %+v", scaled)
	}
	if v, ok := sum.Get(Spi); !ok || v != 2 {
		t.Fatalf("get spi = %v %v", v, ok)
	}
	if _, ok := sum.Get("luck"); ok {
		t.Fatal("expected unknown ability")
	}
	if got := (AbilityScores{Con: math.Inf(1)}).Finite(); got.Con != 0 {
		t.Fatalf("finite con = %v", got.Con)
	}
	if got := sum.With(Wis, 7).Map()[Wis]; got != 7 {
		t.Fatalf("with wis = %v", got)
	}
}

func TestFlatBonusesScaleIgnoresNonFinite(t *testing.T) {
	f := FlatBonuses{HP: 6, Ki: math.NaN(), Speed: 10}
	got := f.Scale(0.5).Add(FlatBonuses{HP: 1})
	if got.HP != 4 || got.Ki != 0 || got.Speed != 5 {
		t.Fatalf("scaled = %+v", got)
	}
}
