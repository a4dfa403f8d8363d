package engine

import (
	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

// TechniqueRoll is the to-hit and damage modifier of a technique for one
// derived snapshot.
type TechniqueRoll struct {
	BaseHit   float64 `json:"baseHit"`
	DamageMod float64 `json:"damageMod"`
}

// TechniqueMath computes a technique's modifiers. An explicit to-hit stat
// uses proficiency plus that stat's modifier; otherwise the derived attack
// bonus applies. Damage adds the named damage stats, or the derived damage
// bonus when the technique uses the attack modifier and names no stat.
func TechniqueMath(t rules.Technique, d Derived) TechniqueRoll {
	toHitBonus := numeric.Finite(t.ToHitBonus, 0)
	var roll TechniqueRoll

	hitStat := NormalizeStatKey(t.ToHitStat)
	if hitStat != "" && hitStat != StatNone {
		mod, _ := d.Mods.Get(rules.Ability(hitStat))
		roll.BaseHit = d.ProficiencyBonus + mod + toHitBonus
	} else {
		roll.BaseHit = d.AttackBonus + toHitBonus
	}

	roll.DamageMod = numeric.Finite(t.DamageFlat, 0)
	switch {
	case t.DamageStat != "":
		roll.DamageMod += ModForStatSpec(d.Mods, t.DamageStat)
	case t.UsesAttackMod:
		roll.DamageMod += d.DamageBonus
	}
	return roll
}

// CanUseTechnique reports whether current ki covers the technique's cost.
func CanUseTechnique(t rules.Technique, d Derived) bool {
	return d.CurrentKi >= numeric.Finite(t.KiCost, 0)
}
