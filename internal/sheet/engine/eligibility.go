package engine

import (
	"slices"

	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
)

// BaseFormID identifies the synthetic fallback form.
const BaseFormID = "base"

// BaseForm returns the form used when no catalog form is allowed.
func BaseForm() rules.Transformation {
	return rules.Transformation{
		ID:         BaseFormID,
		Name:       "Base Form",
		Multiplier: rules.Float(1),
		KiModifier: rules.Float(1),
		Notes:      "Fallback base form.",
		Source:     "Core",
	}
}

// IsTransformationAllowed reports whether form is usable by a character with
// the given shares and lineage preset. Every declared constraint must hold:
// each required race share is met, the best share among allowed races
// reaches the minimum, and the preset is not blocked.
func IsTransformationAllowed(form rules.Transformation, shares Shares, preset Preset) bool {
	for raceID, minShare := range form.RequiredRaceShares {
		if shares.Get(raceID) < numeric.Finite(minShare, 0) {
			return false
		}
	}

	if len(form.AllowedRaceIDs) > 0 {
		var highest float64
		for _, raceID := range form.AllowedRaceIDs {
			highest = max(highest, shares.Get(raceID))
		}
		if highest < form.MinAllowedShare() {
			return false
		}
	}

	return !slices.Contains(form.BlockedLineages, string(preset))
}

// FilterAllowedTransformations returns the allowed forms in catalog order.
// The result is never empty: with nothing allowed it holds only BaseForm.
func FilterAllowedTransformations(forms []rules.Transformation, shares Shares, preset Preset) []rules.Transformation {
	allowed := make([]rules.Transformation, 0, len(forms))
	for _, form := range forms {
		if IsTransformationAllowed(form, shares, preset) {
			allowed = append(allowed, form)
		}
	}
	if len(allowed) == 0 {
		return []rules.Transformation{BaseForm()}
	}
	return allowed
}

// ResolveActiveForm returns the allowed form with activeID, or the first
// allowed form when activeID is not allowed. It never reports an error; the
// caller decides whether to persist the correction.
func ResolveActiveForm(allowed []rules.Transformation, activeID string) rules.Transformation {
	if len(allowed) == 0 {
		return BaseForm()
	}
	for _, form := range allowed {
		if form.ID == activeID {
			return form
		}
	}
	return allowed[0]
}
