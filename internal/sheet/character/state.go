// Package character defines the persisted character sheet state and the
// normalization every loaded or mutated state goes through.
package character

import "github.com/louisbranch/kisheet/internal/sheet/rules"

// Meta identifies the character and its ancestry, class and profession.
type Meta struct {
	Name      string  `json:"name"`
	Level     float64 `json:"level"`
	Alignment string  `json:"alignment"`

	PrimaryRaceID   string `json:"primaryRaceId"`
	SecondaryRaceID string `json:"secondaryRaceId"`
	// LineagePreset is the blend preset name, e.g. "half_hybrid".
	LineagePreset string `json:"lineagePreset"`

	ClassID      string `json:"classId"`
	ProfessionID string `json:"professionId"`
}

// Progression holds the power level inputs.
type Progression struct {
	BasePowerLevel float64 `json:"basePowerLevel"`
	PowerBonusFlat float64 `json:"powerBonusFlat"`
}

// Resources holds hit points and ki. Current values are clamped against the
// derived maxima whenever the sheet is recomputed.
type Resources struct {
	MaxHP          float64 `json:"maxHp"`
	CurrentHP      float64 `json:"currentHp"`
	BaseKi         float64 `json:"baseKi"`
	CurrentKi      float64 `json:"currentKi"`
	KiRecoveryFlat float64 `json:"kiRecoveryFlat"`
}

// Combat holds the configured attack stat and flat combat bonuses.
type Combat struct {
	AttackStat      string  `json:"attackStat"`
	BaseSpeed       float64 `json:"baseSpeed"`
	DefenseBonus    float64 `json:"defenseBonus"`
	InitiativeBonus float64 `json:"initiativeBonus"`
	AttackBonusFlat float64 `json:"attackBonusFlat"`
	DamageBonusFlat float64 `json:"damageBonusFlat"`
	TechSaveBonus   float64 `json:"techSaveBonus"`
}

// Skills is free text.
type Skills struct {
	Notes string `json:"notes"`
}

// Inventory is free text, one item per line.
type Inventory struct {
	Items string `json:"items"`
}

// Notes is free text.
type Notes struct {
	General string `json:"general"`
}

// State is the complete character sheet. It is treated as a value: every
// mutation produces a new State.
type State struct {
	Meta                   Meta                `json:"meta"`
	Abilities              rules.AbilityScores `json:"abilities"`
	Progression            Progression         `json:"progression"`
	Resources              Resources           `json:"resources"`
	Combat                 Combat              `json:"combat"`
	ActiveTransformationID string              `json:"activeTransformationId"`
	Skills                 Skills              `json:"skills"`
	Inventory              Inventory           `json:"inventory"`
	Notes                  Notes               `json:"notes"`
}

// Default returns a fresh level 1 character.
func Default() State {
	return State{
		Meta: Meta{
			Name:          "New Fighter",
			Level:         1,
			Alignment:     "Neutral",
			PrimaryRaceID: "saiyan",
			LineagePreset: "full",
			ClassID:       "martial_artist",
			ProfessionID:  "none",
		},
		Abilities: rules.AbilityScores{
			Str: 14,
			Dex: 14,
			Con: 14,
			Int: 10,
			Wis: 10,
			Cha: 10,
			Spi: 14,
		},
		Progression: Progression{
			BasePowerLevel: 500,
		},
		Resources: Resources{
			MaxHP:     32,
			CurrentHP: 32,
			BaseKi:    12,
			CurrentKi: 12,
		},
		Combat: Combat{
			AttackStat: "str",
			BaseSpeed:  30,
		},
		ActiveTransformationID: "base",
	}
}
