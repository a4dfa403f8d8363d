// Package rules defines the reference catalogs a character sheet is computed
// against: races, classes, professions, transformations and techniques.
// Catalog records are read-only once loaded.
package rules

import "github.com/louisbranch/kisheet/internal/sheet/numeric"

// FlatBonuses are the named passive deltas a race, class or profession can
// grant. JSON and YAML documents carry them inline on the owning record.
type FlatBonuses struct {
	HP         float64 `json:"hpBonus,omitempty" yaml:"hpBonus,omitempty"`
	Ki         float64 `json:"kiBonus,omitempty" yaml:"kiBonus,omitempty"`
	Speed      float64 `json:"speedBonus,omitempty" yaml:"speedBonus,omitempty"`
	Attack     float64 `json:"attackBonus,omitempty" yaml:"attackBonus,omitempty"`
	Damage     float64 `json:"damageBonus,omitempty" yaml:"damageBonus,omitempty"`
	Defense    float64 `json:"defenseBonus,omitempty" yaml:"defenseBonus,omitempty"`
	Initiative float64 `json:"initiativeBonus,omitempty" yaml:"initiativeBonus,omitempty"`
	TechSave   float64 `json:"techSaveBonus,omitempty" yaml:"techSaveBonus,omitempty"`
	KiRecovery float64 `json:"kiRecoveryBonus,omitempty" yaml:"kiRecoveryBonus,omitempty"`
}

// Add returns the field-wise sum of f and g.
func (f FlatBonuses) Add(g FlatBonuses) FlatBonuses {
	return FlatBonuses{
		HP:         f.HP + g.HP,
		Ki:         f.Ki + g.Ki,
		Speed:      f.Speed + g.Speed,
		Attack:     f.Attack + g.Attack,
		Damage:     f.Damage + g.Damage,
		Defense:    f.Defense + g.Defense,
		Initiative: f.Initiative + g.Initiative,
		TechSave:   f.TechSave + g.TechSave,
		KiRecovery: f.KiRecovery + g.KiRecovery,
	}
}

// Scale returns f with every field multiplied by weight. Non-finite fields
// count as zero.
func (f FlatBonuses) Scale(weight float64) FlatBonuses {
	w := func(v float64) float64 { return numeric.Finite(v, 0) * weight }
	return FlatBonuses{
		HP:         w(f.HP),
		Ki:         w(f.Ki),
		Speed:      w(f.Speed),
		Attack:     w(f.Attack),
		Damage:     w(f.Damage),
		Defense:    w(f.Defense),
		Initiative: w(f.Initiative),
		TechSave:   w(f.TechSave),
		KiRecovery: w(f.KiRecovery),
	}
}

// BonusSource is anything that contributes ability and flat bonuses.
type BonusSource interface {
	Bonuses() (AbilityScores, FlatBonuses)
}

// Definition is the shape shared by races, classes and professions.
type Definition struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	StatBonuses AbilityScores `json:"statBonuses" yaml:"statBonuses"`
	FlatBonuses `yaml:",inline"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Bonuses implements BonusSource.
func (d Definition) Bonuses() (AbilityScores, FlatBonuses) {
	return d.StatBonuses, d.FlatBonuses
}

// Race is an ancestry a character's lineage can draw from.
type Race struct {
	Definition `yaml:",inline"`
	Subraces   []string `json:"subraces,omitempty" yaml:"subraces,omitempty"`
}

// Class is a character class. Classes contribute at full weight.
type Class struct {
	Definition `yaml:",inline"`
}

// Profession is a character profession. Professions contribute at full weight.
type Profession struct {
	Definition `yaml:",inline"`
}

// Transformation is a temporary combat form.
type Transformation struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Multiplier scales power level; nil means 1.
	Multiplier *float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	// KiModifier scales the max-ki formula; nil means 1.
	KiModifier      *float64      `json:"kiModifier,omitempty" yaml:"kiModifier,omitempty"`
	AttackBonus     float64       `json:"attackBonus" yaml:"attackBonus"`
	DamageBonus     float64       `json:"damageBonus" yaml:"damageBonus"`
	DefenseBonus    float64       `json:"defenseBonus" yaml:"defenseBonus"`
	InitiativeBonus float64       `json:"initiativeBonus" yaml:"initiativeBonus"`
	SpeedBonus      float64       `json:"speedBonus" yaml:"speedBonus"`
	AbilityBonuses  AbilityScores `json:"abilityBonuses" yaml:"abilityBonuses"`

	RequiredRaceShares map[string]float64 `json:"requiredRaceShares,omitempty" yaml:"requiredRaceShares,omitempty"`
	AllowedRaceIDs     []string           `json:"allowedRaceIds,omitempty" yaml:"allowedRaceIds,omitempty"`
	// MinRaceShare is the threshold for AllowedRaceIDs; nil means 1.
	MinRaceShare    *float64 `json:"minRaceShare,omitempty" yaml:"minRaceShare,omitempty"`
	BlockedLineages []string `json:"blockedLineages,omitempty" yaml:"blockedLineages,omitempty"`

	KiUpkeep        float64 `json:"kiUpkeep,omitempty" yaml:"kiUpkeep,omitempty"`
	HPUpkeep        float64 `json:"hpUpkeep,omitempty" yaml:"hpUpkeep,omitempty"`
	TierRequirement string  `json:"tierRequirement,omitempty" yaml:"tierRequirement,omitempty"`
	RaceRequirement string  `json:"raceRequirement,omitempty" yaml:"raceRequirement,omitempty"`
	Notes           string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	Source          string  `json:"source,omitempty" yaml:"source,omitempty"`
}

// PowerMultiplier returns the power-level multiplier, defaulting to 1.
func (t Transformation) PowerMultiplier() float64 {
	return optional(t.Multiplier, 1)
}

// KiScale returns the max-ki multiplier, defaulting to 1.
func (t Transformation) KiScale() float64 {
	return optional(t.KiModifier, 1)
}

// MinAllowedShare returns the share an allowed race must reach, defaulting to 1.
func (t Transformation) MinAllowedShare() float64 {
	return optional(t.MinRaceShare, 1)
}

func optional(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return numeric.Finite(*v, fallback)
}

// Float returns a pointer to v, for building transformations in code.
func Float(v float64) *float64 {
	return &v
}

// Technique is a ki-powered action a character can roll or use.
type Technique struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	KiCost        float64 `json:"kiCost" yaml:"kiCost"`
	TPCost        float64 `json:"tpCost,omitempty" yaml:"tpCost,omitempty"`
	ToHitStat     string  `json:"toHitStat,omitempty" yaml:"toHitStat,omitempty"`
	ToHitBonus    float64 `json:"toHitBonus" yaml:"toHitBonus"`
	DamageDice    string  `json:"damageDice" yaml:"damageDice"`
	DamageFlat    float64 `json:"damageFlat" yaml:"damageFlat"`
	UsesAttackMod bool    `json:"usesAttackMod" yaml:"usesAttackMod"`
	// DamageStat is a "+"-joined list of ability names, e.g. "str+spi".
	DamageStat string `json:"damageStat,omitempty" yaml:"damageStat,omitempty"`
	Range      string `json:"range,omitempty" yaml:"range,omitempty"`
	Notes      string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Catalogs bundles every reference catalog.
type Catalogs struct {
	Races           []Race
	Classes         []Class
	Professions     []Profession
	Transformations []Transformation
	Techniques      []Technique
}

// FindRace returns the race with id.
func (c Catalogs) FindRace(id string) (Race, bool) {
	for _, race := range c.Races {
		if race.ID == id {
			return race, true
		}
	}
	return Race{}, false
}

// FindClass returns the class with id.
func (c Catalogs) FindClass(id string) (Class, bool) {
	for _, class := range c.Classes {
		if class.ID == id {
			return class, true
		}
	}
	return Class{}, false
}

// FindProfession returns the profession with id.
func (c Catalogs) FindProfession(id string) (Profession, bool) {
	for _, profession := range c.Professions {
		if profession.ID == id {
			return profession, true
		}
	}
	return Profession{}, false
}

// FindTransformation returns the transformation with id.
func (c Catalogs) FindTransformation(id string) (Transformation, bool) {
	for _, form := range c.Transformations {
		if form.ID == id {
			return form, true
		}
	}
	return Transformation{}, false
}

// FindTechnique returns the technique with id.
func (c Catalogs) FindTechnique(id string) (Technique, bool) {
	for _, technique := range c.Techniques {
		if technique.ID == id {
			return technique, true
		}
	}
	return Technique{}, false
}
