// Package engine computes a character's derived combat statistics. Every
// function here is pure: inputs are never mutated and identical inputs give
// identical results.
package engine

import (
	"math"

	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

// NoneID identifies the neutral class or profession used when the
// configured one is not in its catalog.
const NoneID = "none"

// Derived is the computed snapshot of a character sheet.
type Derived struct {
	Mods             rules.AbilityScores `json:"mods"`
	BoostedAbilities rules.AbilityScores `json:"boostedAbilities"`
	Level            float64             `json:"level"`
	ProficiencyBonus float64             `json:"proficiencyBonus"`

	Form                   rules.Transformation   `json:"form"`
	AllowedTransformations []rules.Transformation `json:"allowedTransformations"`

	LineageShares Shares           `json:"lineageShares"`
	LineageLabel  string           `json:"lineageLabel"`
	RaceComposite RaceComposite    `json:"raceComposite"`
	Class         rules.Class      `json:"selectedClass"`
	Profession    rules.Profession `json:"selectedProfession"`

	TransformedPowerLevel      float64 `json:"transformedPowerLevel"`
	TransformedPowerLevelLabel string  `json:"transformedPowerLevelLabel"`

	CurrentHP float64 `json:"currentHp"`
	MaxHP     float64 `json:"maxHp"`
	CurrentKi float64 `json:"currentKi"`
	MaxKi     float64 `json:"maxKi"`

	AttackBonus float64 `json:"attackBonus"`
	DamageBonus float64 `json:"damageBonus"`
	Defense     float64 `json:"defense"`
	Initiative  float64 `json:"initiative"`
	Speed       float64 `json:"speed"`
	TechSaveDC  float64 `json:"techSaveDc"`
	KiRecovery  float64 `json:"kiRecovery"`

	// PassiveBonuses is race plus class plus profession flat bonuses.
	PassiveBonuses rules.FlatBonuses `json:"passiveBonuses"`
}

// AncestryOf reads the lineage configuration from meta.
func AncestryOf(meta character.Meta) Ancestry {
	return Ancestry{
		PrimaryRaceID:   meta.PrimaryRaceID,
		SecondaryRaceID: meta.SecondaryRaceID,
		Preset:          Preset(meta.LineagePreset),
	}
}

// NoneClass is the neutral class.
func NoneClass() rules.Class {
	return rules.Class{Definition: rules.Definition{ID: NoneID, Name: "None"}}
}

// NoneProfession is the neutral profession.
func NoneProfession() rules.Profession {
	return rules.Profession{Definition: rules.Definition{ID: NoneID, Name: "None"}}
}

// ComputeDerived folds the character state and catalogs into a snapshot.
func ComputeDerived(s character.State, c rules.Catalogs) Derived {
	s = character.CoerceFinite(s)
	preset := Preset(s.Meta.LineagePreset)

	shares := ResolveShares(AncestryOf(s.Meta))
	composite := ResolveRaceComposite(c.Races, shares, preset)

	class, ok := c.FindClass(s.Meta.ClassID)
	if !ok {
		class = NoneClass()
	}
	profession, ok := c.FindProfession(s.Meta.ProfessionID)
	if !ok {
		profession = NoneProfession()
	}
	var classPool Pool
	classPool.Add(class, 1)
	classPool.Add(profession, 1)

	allowed := FilterAllowedTransformations(c.Transformations, shares, preset)
	form := ResolveActiveForm(allowed, s.ActiveTransformationID)

	boosted := s.Abilities.
		Add(composite.Stats).
		Add(classPool.Stats).
		Add(form.AbilityBonuses.Finite())
	var mods rules.AbilityScores
	for _, ability := range rules.Abilities {
		score, _ := boosted.Get(ability)
		mods = mods.With(ability, AbilityMod(score))
	}

	level := max(1, s.Meta.Level)
	prof := ProficiencyBonus(level)

	plBase := max(0, s.Progression.BasePowerLevel+s.Progression.PowerBonusFlat)
	powerLevel := plBase * form.PowerMultiplier()

	passive := composite.Flats.Add(classPool.Flats)

	maxHP := max(1, math.Floor(s.Resources.MaxHP+passive.HP))
	baseKi := max(0, s.Resources.BaseKi+passive.Ki)
	rawMaxKi := (baseKi + level*4 + mods.Spi*3) * form.KiScale()
	maxKi := max(1, math.Floor(rawMaxKi))

	attackMod, _ := mods.Get(rules.Ability(attackStat(s.Combat.AttackStat)))
	formFlat := func(v float64) float64 { return numeric.Finite(v, 0) }

	return Derived{
		Mods:             mods,
		BoostedAbilities: boosted,
		Level:            level,
		ProficiencyBonus: prof,

		Form:                   form,
		AllowedTransformations: allowed,

		LineageShares: shares,
		LineageLabel:  PresetLabel(preset),
		RaceComposite: composite,
		Class:         class,
		Profession:    profession,

		TransformedPowerLevel:      powerLevel,
		TransformedPowerLevelLabel: numeric.FormatLargeNumber(powerLevel),

		CurrentHP: numeric.Clamp(s.Resources.CurrentHP, 0, maxHP),
		MaxHP:     maxHP,
		CurrentKi: numeric.Clamp(s.Resources.CurrentKi, 0, maxKi),
		MaxKi:     maxKi,

		AttackBonus: prof + attackMod + s.Combat.AttackBonusFlat + formFlat(form.AttackBonus) + passive.Attack,
		DamageBonus: attackMod + s.Combat.DamageBonusFlat + formFlat(form.DamageBonus) + passive.Damage,
		Defense:     max(1, 10+mods.Dex+s.Combat.DefenseBonus+formFlat(form.DefenseBonus)+passive.Defense),
		Initiative:  mods.Dex + s.Combat.InitiativeBonus + formFlat(form.InitiativeBonus) + passive.Initiative,
		Speed:       max(0, s.Combat.BaseSpeed+formFlat(form.SpeedBonus)+passive.Speed),
		TechSaveDC:  8 + prof + mods.Spi + s.Combat.TechSaveBonus + passive.TechSave,
		KiRecovery:  max(1, math.Floor(level/2)+mods.Spi+s.Resources.KiRecoveryFlat+passive.KiRecovery),

		PassiveBonuses: passive,
	}
}

// attackStat returns the canonical attack stat, defaulting to str.
func attackStat(raw string) string {
	if raw == "" {
		return string(rules.Str)
	}
	return NormalizeStatKey(raw)
}
