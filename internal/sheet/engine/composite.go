package engine

import (
	"fmt"
	"strings"

	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

// NoAncestrySummary is the summary of a lineage with no catalog matches.
const NoAncestrySummary = "No ancestry selected"

// RaceComposite is the share-weighted blend of a character's races.
type RaceComposite struct {
	Pool
	Features     []string    `json:"features"`
	Breakdown    []string    `json:"breakdown"`
	Summary      string      `json:"summary"`
	Dominant     *rules.Race `json:"dominantRace"`
	LineageLabel string      `json:"lineageLabel"`
}

// ResolveRaceComposite pools the bonuses of each race in shares, weighted by
// its share. Shares without a catalog entry are skipped. The dominant race
// is the one with the highest share; ties go to the race listed first in
// the catalog.
func ResolveRaceComposite(races []rules.Race, shares Shares, preset Preset) RaceComposite {
	composite := RaceComposite{
		Features:     []string{},
		Breakdown:    []string{},
		LineageLabel: PresetLabel(preset),
	}

	for _, share := range shares {
		race, ok := findRace(races, share.RaceID)
		if !ok {
			continue
		}
		composite.Add(race, share.Share)

		label := fmt.Sprintf("%s %d%%", race.Name, int(numeric.Round(share.Share*100)))
		composite.Breakdown = append(composite.Breakdown, label)
		for _, feature := range race.Features {
			composite.Features = append(composite.Features, label+": "+feature)
		}
	}

	composite.Summary = strings.Join(composite.Breakdown, " + ")
	if composite.Summary == "" {
		composite.Summary = NoAncestrySummary
	}

	best := -1.0
	for i := range races {
		if !shares.Has(races[i].ID) {
			continue
		}
		if v := shares.Get(races[i].ID); v > best {
			best = v
			dominant := races[i]
			composite.Dominant = &dominant
		}
	}
	return composite
}

func findRace(races []rules.Race, id string) (rules.Race, bool) {
	for _, race := range races {
		if race.ID == id {
			return race, true
		}
	}
	return rules.Race{}, false
}
