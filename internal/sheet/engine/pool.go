package engine

import (
	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

// Pool accumulates weighted stat and flat bonuses.
type Pool struct {
	Stats rules.AbilityScores `json:"statBonuses"`
	Flats rules.FlatBonuses   `json:"flatBonuses"`
}

// Add accumulates src scaled by weight. Non-finite weights count as 1 and
// non-finite bonus values count as 0.
func (p *Pool) Add(src rules.BonusSource, weight float64) {
	if src == nil {
		return
	}
	w := numeric.Finite(weight, 1)
	stats, flats := src.Bonuses()
	p.Stats = p.Stats.Add(stats.Finite().Scale(w))
	p.Flats = p.Flats.Add(flats.Scale(w))
}
