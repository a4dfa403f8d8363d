package engine

import "github.com/louisbranch/kisheet/internal/sheet/numeric"

// Preset names how a lineage is split between races.
type Preset string

const (
	PresetFull          Preset = "full"
	PresetHalfHuman     Preset = "half_human"
	PresetQuarterHuman  Preset = "quarter_human"
	PresetHalfHybrid    Preset = "half_hybrid"
	PresetQuarterHybrid Preset = "quarter_hybrid"
)

// Presets lists every known preset.
var Presets = []Preset{PresetFull, PresetHalfHuman, PresetQuarterHuman, PresetHalfHybrid, PresetQuarterHybrid}

// HumanRaceID is the race forced by the human presets and used when a
// lineage has no positive share.
const HumanRaceID = "human"

// secondaryForHuman is the default secondary race of a human primary.
const secondaryForHuman = "saiyan"

var presetLabels = map[Preset]string{
	PresetFull:          "Full Blood",
	PresetHalfHuman:     "Half Human Hybrid",
	PresetQuarterHuman:  "Quarter Human Hybrid",
	PresetHalfHybrid:    "Half Hybrid (Any Two Races)",
	PresetQuarterHybrid: "Quarter Hybrid (75/25)",
}

// PresetLabel returns the display label for p. Unknown presets read as
// full blood.
func PresetLabel(p Preset) string {
	if label, ok := presetLabels[p]; ok {
		return label
	}
	return presetLabels[PresetFull]
}

// Ancestry is the character's lineage configuration.
type Ancestry struct {
	PrimaryRaceID   string
	SecondaryRaceID string
	Preset          Preset
}

// Share is one race's weight in a lineage.
type Share struct {
	RaceID string  `json:"raceId"`
	Share  float64 `json:"share"`
}

// Shares is an ordered race to weight mapping. Order is insertion order, so
// the primary race always comes first.
type Shares []Share

// Get returns the share of raceID, or 0 when absent.
func (s Shares) Get(raceID string) float64 {
	for _, share := range s {
		if share.RaceID == raceID {
			return share.Share
		}
	}
	return 0
}

// Has reports whether raceID is present.
func (s Shares) Has(raceID string) bool {
	for _, share := range s {
		if share.RaceID == raceID {
			return true
		}
	}
	return false
}

// Sum returns the total weight.
func (s Shares) Sum() float64 {
	var total float64
	for _, share := range s {
		total += share.Share
	}
	return total
}

// Map returns s as a map.
func (s Shares) Map() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, share := range s {
		out[share.RaceID] = share.Share
	}
	return out
}

// add merges amount into raceID's entry. Empty ids are ignored.
func (s Shares) add(raceID string, amount float64) Shares {
	if raceID == "" {
		return s
	}
	for i := range s {
		if s[i].RaceID == raceID {
			s[i].Share += numeric.Finite(amount, 0)
			return s
		}
	}
	return append(s, Share{RaceID: raceID, Share: numeric.Finite(amount, 0)})
}

// ResolveShares turns an ancestry configuration into normalized shares.
func ResolveShares(a Ancestry) Shares {
	primary := a.PrimaryRaceID
	if primary == "" {
		primary = HumanRaceID
	}
	secondary := a.SecondaryRaceID
	if secondary == "" {
		secondary = HumanRaceID
		if primary == HumanRaceID {
			secondary = secondaryForHuman
		}
	}

	var shares Shares
	switch a.Preset {
	case PresetHalfHuman:
		shares = shares.add(primary, 0.5).add(HumanRaceID, 0.5)
	case PresetQuarterHuman:
		shares = shares.add(primary, 0.25).add(HumanRaceID, 0.75)
	case PresetHalfHybrid:
		shares = shares.add(primary, 0.5).add(secondary, 0.5)
	case PresetQuarterHybrid:
		shares = shares.add(primary, 0.75).add(secondary, 0.25)
	default:
		shares = shares.add(primary, 1)
	}
	return CleanShares(shares)
}

// CleanShares drops non-positive entries and rescales the rest to sum to 1.
// When nothing positive remains the result is exactly {human: 1}.
func CleanShares(s Shares) Shares {
	kept := make(Shares, 0, len(s))
	var total float64
	for _, share := range s {
		v := numeric.Finite(share.Share, 0)
		if v <= 0 {
			continue
		}
		kept = append(kept, Share{RaceID: share.RaceID, Share: v})
		total += v
	}
	if total <= 0 {
		return Shares{{RaceID: HumanRaceID, Share: 1}}
	}
	for i := range kept {
		kept[i].Share /= total
	}
	return kept
}
