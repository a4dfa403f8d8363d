package rules

import "github.com/louisbranch/kisheet/internal/sheet/numeric"

// Ability names one of the seven character abilities.
type Ability string

const (
	Str Ability = "str"
	Dex Ability = "dex"
	Con Ability = "con"
	Int Ability = "int"
	Wis Ability = "wis"
	Cha Ability = "cha"
	// Spi (spirit) drives ki capacity, ki recovery and technique save DCs.
	Spi Ability = "spi"
)

// Abilities lists every ability in sheet order.
var Abilities = []Ability{Str, Dex, Con, Int, Wis, Cha, Spi}

// AbilityScores holds one value per ability. It is used for base scores,
// partial bonus deltas (unset abilities are zero) and boosted totals.
type AbilityScores struct {
	Str float64 `json:"str" yaml:"str"`
	Dex float64 `json:"dex" yaml:"dex"`
	Con float64 `json:"con" yaml:"con"`
	Int float64 `json:"int" yaml:"int"`
	Wis float64 `json:"wis" yaml:"wis"`
	Cha float64 `json:"cha" yaml:"cha"`
	Spi float64 `json:"spi" yaml:"spi"`
}

// Get returns the value for ability and whether the ability is known.
func (a AbilityScores) Get(ability Ability) (float64, bool) {
	switch ability {
	case Str:
		return a.Str, true
	case Dex:
		return a.Dex, true
	case Con:
		return a.Con, true
	case Int:
		return a.Int, true
	case Wis:
		return a.Wis, true
	case Cha:
		return a.Cha, true
	case Spi:
		return a.Spi, true
	default:
		return 0, false
	}
}

// With returns a copy of a with ability set to value. Unknown abilities
// leave a unchanged.
func (a AbilityScores) With(ability Ability, value float64) AbilityScores {
	switch ability {
	case Str:
		a.Str = value
	case Dex:
		a.Dex = value
	case Con:
		a.Con = value
	case Int:
		a.Int = value
	case Wis:
		a.Wis = value
	case Cha:
		a.Cha = value
	case Spi:
		a.Spi = value
	}
	return a
}

// Map converts a into a map keyed by ability.
func (a AbilityScores) Map() map[Ability]float64 {
	out := make(map[Ability]float64, len(Abilities))
	for _, ability := range Abilities {
		out[ability], _ = a.Get(ability)
	}
	return out
}

// Add returns the field-wise sum of a and b.
func (a AbilityScores) Add(b AbilityScores) AbilityScores {
	return AbilityScores{
		Str: a.Str + b.Str,
		Dex: a.Dex + b.Dex,
		Con: a.Con + b.Con,
		Int: a.Int + b.Int,
		Wis: a.Wis + b.Wis,
		Cha: a.Cha + b.Cha,
		Spi: a.Spi + b.Spi,
	}
}

// Scale returns a with every field multiplied by weight.
func (a AbilityScores) Scale(weight float64) AbilityScores {
	return AbilityScores{
		Str: a.Str * weight,
		Dex: a.Dex * weight,
		Con: a.Con * weight,
		Int: a.Int * weight,
		Wis: a.Wis * weight,
		Cha: a.Cha * weight,
		Spi: a.Spi * weight,
	}
}

// Finite returns a with non-finite fields replaced by zero.
func (a AbilityScores) Finite() AbilityScores {
	out := a
	for _, ability := range Abilities {
		v, _ := a.Get(ability)
		out = out.With(ability, numeric.Finite(v, 0))
	}
	return out
}
