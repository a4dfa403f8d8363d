package engine

import (
	"math"
	"strings"

	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

// StatNone marks a technique stat that contributes nothing.
const StatNone = "none"

var statSynonyms = map[string]string{
	"strength":     string(rules.Str),
	"str":          string(rules.Str),
	"agility":      string(rules.Dex),
	"dexterity":    string(rules.Dex),
	"dex":          string(rules.Dex),
	"tenacity":     string(rules.Con),
	"con":          string(rules.Con),
	"constitution": string(rules.Con),
	"scholarship":  string(rules.Int),
	"int":          string(rules.Int),
	"intelligence": string(rules.Int),
	"insight":      string(rules.Wis),
	"wis":          string(rules.Wis),
	"wisdom":       string(rules.Wis),
	"personality":  string(rules.Cha),
	"cha":          string(rules.Cha),
	"charisma":     string(rules.Cha),
	"spirit":       string(rules.Spi),
	"potency":      string(rules.Spi),
	"magic":        string(rules.Spi),
	"spi":          string(rules.Spi),
	"none":         StatNone,
}

// NormalizeStatKey maps a stat name or synonym to its canonical key.
// Unrecognized names come back trimmed and lowercased.
func NormalizeStatKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := statSynonyms[key]; ok {
		return canonical
	}
	return key
}

// ModForStatSpec sums the modifiers named by a "+"-joined stat list such as
// "str+spi". Unknown names and "none" contribute 0.
func ModForStatSpec(mods rules.AbilityScores, spec string) float64 {
	var total float64
	for _, part := range strings.Split(spec, "+") {
		key := NormalizeStatKey(part)
		if key == "" || key == StatNone {
			continue
		}
		v, _ := mods.Get(rules.Ability(key))
		total += v
	}
	return total
}

// AbilityMod is floor((score - 10) / 2).
func AbilityMod(score float64) float64 {
	return math.Floor((numeric.Finite(score, 0) - 10) / 2)
}

// ProficiencyBonus is 2 + floor((level - 1) / 4), with level at least 1.
func ProficiencyBonus(level float64) float64 {
	safe := max(1, numeric.Finite(level, 1))
	return 2 + math.Floor((safe-1)/4)
}
