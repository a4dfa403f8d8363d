// Package play implements the in-session actions that spend and restore
// resources, switch forms and roll dice against the current sheet.
package play

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/dice"
	"github.com/louisbranch/kisheet/internal/sheet/engine"
	"github.com/louisbranch/kisheet/internal/sheet/numeric"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
	"github.com/louisbranch/kisheet/internal/sheet/store"
)

// Quick action amounts.
const (
	DefaultHeal   = 10
	DefaultDamage = 10
	DefaultKiCost = 1
)

// Session binds a state store to the catalogs and dice used in play.
type Session struct {
	store    *store.Store
	catalogs rules.Catalogs
	roller   *dice.Roller
	log      *RollLog
}

// NewSession returns a session. A nil roller uses dice.NewDefaultRoller and a
// nil log starts a fresh RollLog.
func NewSession(st *store.Store, catalogs rules.Catalogs, roller *dice.Roller, log *RollLog) *Session {
	if roller == nil {
		roller = dice.NewDefaultRoller()
	}
	if log == nil {
		log = NewRollLog(nil)
	}
	return &Session{store: st, catalogs: catalogs, roller: roller, log: log}
}

// Log returns the session's roll log.
func (s *Session) Log() *RollLog {
	return s.log
}

// Catalogs returns the reference data the session computes against.
func (s *Session) Catalogs() rules.Catalogs {
	return s.catalogs
}

// Derived computes the snapshot of the current state.
func (s *Session) Derived() engine.Derived {
	return engine.ComputeDerived(s.store.Get(), s.catalogs)
}

// CorrectActiveForm rewrites an active form id that is missing from the
// transformation catalog to the first catalog form. It reports whether the
// state changed.
func (s *Session) CorrectActiveForm(ctx context.Context) (bool, error) {
	current := s.store.Get().ActiveTransformationID
	if _, ok := s.catalogs.FindTransformation(current); ok {
		return false, nil
	}
	target := engine.BaseFormID
	if len(s.catalogs.Transformations) > 0 {
		target = s.catalogs.Transformations[0].ID
	}
	if current == target {
		return false, nil
	}
	err := s.mutate(ctx, func(next *character.State, _ engine.Derived) error {
		next.ActiveTransformationID = target
		return nil
	})
	return err == nil, err
}

// ApplyTransformation selects a form. A form the character may not use
// resolves to the first allowed form when the sheet is computed.
func (s *Session) ApplyTransformation(ctx context.Context, formID string) (string, error) {
	formID = strings.TrimSpace(formID)
	err := s.mutate(ctx, func(next *character.State, _ engine.Derived) error {
		next.ActiveTransformationID = formID
		return nil
	})
	if err != nil {
		return "", err
	}
	form := s.Derived().Form
	if form.ID != formID {
		return s.log.Push(fmt.Sprintf("%s is not available; using %s.", formID, form.Name)), nil
	}
	return s.log.Push(fmt.Sprintf("Transformed into %s.", form.Name)), nil
}

// SpendKi removes amount ki, never going below zero.
func (s *Session) SpendKi(ctx context.Context, amount float64) (string, error) {
	if err := validateAmount(amount); err != nil {
		return "", err
	}
	err := s.mutate(ctx, func(next *character.State, _ engine.Derived) error {
		next.Resources.CurrentKi = max(0, next.Resources.CurrentKi-amount)
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.log.Push(fmt.Sprintf("Spent %s Ki.", format(amount))), nil
}

// RecoverKi restores the derived ki recovery, capped at max ki.
func (s *Session) RecoverKi(ctx context.Context) (string, error) {
	var recovered float64
	err := s.mutate(ctx, func(next *character.State, d engine.Derived) error {
		recovered = d.KiRecovery
		next.Resources.CurrentKi = min(d.MaxKi, next.Resources.CurrentKi+d.KiRecovery)
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.log.Push(fmt.Sprintf("Recovered %s Ki.", format(recovered))), nil
}

// Heal restores amount hp, capped at max hp.
func (s *Session) Heal(ctx context.Context, amount float64) (string, error) {
	if err := validateAmount(amount); err != nil {
		return "", err
	}
	err := s.mutate(ctx, func(next *character.State, d engine.Derived) error {
		next.Resources.CurrentHP = min(d.MaxHP, next.Resources.CurrentHP+amount)
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.log.Push(fmt.Sprintf("Healed %s HP.", format(amount))), nil
}

// Damage removes amount hp, never going below zero.
func (s *Session) Damage(ctx context.Context, amount float64) (string, error) {
	if err := validateAmount(amount); err != nil {
		return "", err
	}
	err := s.mutate(ctx, func(next *character.State, _ engine.Derived) error {
		next.Resources.CurrentHP = max(0, next.Resources.CurrentHP-amount)
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.log.Push(fmt.Sprintf("Took %s damage.", format(amount))), nil
}

// RollInitiative rolls d20 plus the derived initiative.
func (s *Session) RollInitiative() string {
	d := s.Derived()
	roll := s.roller.RollDie(dice.DefaultSides)
	total := float64(roll) + d.Initiative
	return s.log.Push(fmt.Sprintf("Initiative: %d%s=%s", roll, numeric.Signed(d.Initiative), format(total)))
}

// RollDie rolls a single die.
func (s *Session) RollDie(sides int) string {
	roll := s.roller.RollDie(sides)
	return s.log.Push(fmt.Sprintf("d%d: %d", max(1, sides), roll))
}

// Roll rolls an "NdM" expression.
func (s *Session) Roll(notation string) string {
	roll := s.roller.RollExpression(notation)
	return s.log.Push(fmt.Sprintf("%s (%s) = %d", roll.Expression, joinRolls(roll.Rolls), roll.Total))
}

// UseTechnique spends a technique's ki cost. It fails without changing state
// when current ki does not cover the cost.
func (s *Session) UseTechnique(ctx context.Context, techniqueID string) (string, error) {
	technique, err := s.technique(techniqueID)
	if err != nil {
		return "", err
	}
	cost := numeric.Finite(technique.KiCost, 0)
	err = s.mutate(ctx, func(next *character.State, d engine.Derived) error {
		if !engine.CanUseTechnique(technique, d) {
			return apperrors.WithMetadata(
				apperrors.CodeTechniqueInsufficientKi,
				"use technique",
				map[string]string{
					"Technique": technique.Name,
					"Cost":      format(cost),
					"Current":   format(d.CurrentKi),
				},
			)
		}
		next.Resources.CurrentKi = max(0, next.Resources.CurrentKi-cost)
		return nil
	})
	if apperrors.GetCode(err) == apperrors.CodeTechniqueInsufficientKi {
		s.log.Push(fmt.Sprintf("%s: not enough Ki.", technique.Name))
		return "", err
	}
	if err != nil {
		return "", err
	}
	return s.log.Push(fmt.Sprintf("%s: spent %s Ki.", technique.Name, format(cost))), nil
}

// RollTechnique rolls to hit and damage for a technique without spending ki.
func (s *Session) RollTechnique(techniqueID string) (string, error) {
	technique, err := s.technique(techniqueID)
	if err != nil {
		return "", err
	}
	calc := engine.TechniqueMath(technique, s.Derived())
	d20 := s.roller.RollDie(dice.DefaultSides)
	hitTotal := float64(d20) + calc.BaseHit
	damage := s.roller.RollExpression(technique.DamageDice)
	damageTotal := float64(damage.Total) + calc.DamageMod

	return s.log.Push(fmt.Sprintf(
		"%s: hit %d%s=%s, damage %s (%s) %s=%s",
		technique.Name,
		d20,
		numeric.Signed(calc.BaseHit),
		format(hitTotal),
		damage.Expression,
		joinRolls(damage.Rolls),
		numeric.Signed(calc.DamageMod),
		format(damageTotal),
	)), nil
}

func (s *Session) technique(id string) (rules.Technique, error) {
	technique, ok := s.catalogs.FindTechnique(strings.TrimSpace(id))
	if !ok {
		return rules.Technique{}, apperrors.WithMetadata(
			apperrors.CodeTechniqueUnknown,
			"find technique",
			map[string]string{"Technique": id},
		)
	}
	return technique, nil
}

// mutate applies fn to a copy of the current state, then clamps current hp
// and ki against the snapshot of the resulting state. fn receives the
// snapshot of the state before the change. An error from fn aborts the
// write.
func (s *Session) mutate(ctx context.Context, fn func(next *character.State, d engine.Derived) error) error {
	return s.store.Update(ctx, func(prev character.State) (character.State, error) {
		next := prev
		if err := fn(&next, engine.ComputeDerived(prev, s.catalogs)); err != nil {
			return prev, err
		}
		return s.clamp(next), nil
	})
}

func (s *Session) clamp(state character.State) character.State {
	return ClampResources(s.catalogs)(state)
}

// ClampResources returns a store normalizer that keeps current hp and ki
// within [0, max] of the state's own derived snapshot, so any write that
// shrinks a maximum also lowers the stored current value.
func ClampResources(catalogs rules.Catalogs) store.Normalizer {
	return func(state character.State) character.State {
		d := engine.ComputeDerived(state, catalogs)
		state.Resources.CurrentHP = d.CurrentHP
		state.Resources.CurrentKi = d.CurrentKi
		return state
	}
}

func validateAmount(amount float64) error {
	if numeric.Finite(amount, -1) < 0 {
		return apperrors.WithMetadata(
			apperrors.CodeResourceAmountInvalid,
			"validate amount",
			map[string]string{"Amount": strconv.FormatFloat(amount, 'g', -1, 64)},
		)
	}
	return nil
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, v := range rolls {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
