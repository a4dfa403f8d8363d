package play

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/dice"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
	"github.com/louisbranch/kisheet/internal/sheet/store"
)

// cycle returns its values in order, reduced modulo n.
type cycle struct {
	values []int
	next   int
}

func (c *cycle) Intn(n int) int {
	v := c.values[c.next%len(c.values)]
	c.next++
	return v % n
}

var noon = time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, rolls ...int) (*Session, *store.Store) {
	t.Helper()
	if len(rolls) == 0 {
		rolls = []int{0}
	}
	st := store.New(nil)
	log := NewRollLog(func() time.Time { return noon })
	return NewSession(st, rules.Fallback(), dice.NewRoller(&cycle{values: rolls}), log), st
}

func setResources(t *testing.T, st *store.Store, hp, ki float64) {
	t.Helper()
	err := st.Set(context.Background(), func(prev character.State) character.State {
		prev.Resources.CurrentHP = hp
		prev.Resources.CurrentKi = ki
		return prev
	})
	if err != nil {
		t.Fatalf("set resources: %v", err)
	}
}

func TestSpendKi(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	msg, err := s.SpendKi(ctx, DefaultKiCost)
	if err != nil {
		t.Fatalf("spend ki: %v", err)
	}
	if msg != "12:00:00 - Spent 1 Ki." {
		t.Fatalf("message = %q", msg)
	}
	if got := st.Get().Resources.CurrentKi; got != 11 {
		t.Fatalf("ki = %v, want 11", got)
	}

	if _, err := s.SpendKi(ctx, 100); err != nil {
		t.Fatalf("overspend ki: %v", err)
	}
	if got := st.Get().Resources.CurrentKi; got != 0 {
		t.Fatalf("ki = %v, want 0", got)
	}
}

func TestAmountsMustBeNonNegative(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()
	for _, amount := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := s.Heal(ctx, amount); apperrors.GetCode(err) != apperrors.CodeResourceAmountInvalid {
			t.Fatalf("heal %v error = %v", amount, err)
		}
		if _, err := s.Damage(ctx, amount); apperrors.GetCode(err) != apperrors.CodeResourceAmountInvalid {
			t.Fatalf("damage %v error = %v", amount, err)
		}
		if _, err := s.SpendKi(ctx, amount); apperrors.GetCode(err) != apperrors.CodeResourceAmountInvalid {
			t.Fatalf("spend %v error = %v", amount, err)
		}
	}
	if st.Version() != 0 {
		t.Fatalf("version = %d, want no writes", st.Version())
	}
}

func TestRecoverKiCapsAtMax(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	msg, err := s.RecoverKi(ctx)
	if err != nil {
		t.Fatalf("recover ki: %v", err)
	}
	if !strings.HasSuffix(msg, "Recovered 3 Ki.") {
		t.Fatalf("message = %q", msg)
	}
	if got := st.Get().Resources.CurrentKi; got != 15 {
		t.Fatalf("ki = %v, want 15", got)
	}

	setResources(t, st, 32, 24)
	if _, err := s.RecoverKi(ctx); err != nil {
		t.Fatalf("recover ki: %v", err)
	}
	if got := st.Get().Resources.CurrentKi; got != 25 {
		t.Fatalf("ki = %v, want max 25", got)
	}
}

func TestHealAndDamageStayInRange(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	if _, err := s.Heal(ctx, DefaultHeal); err != nil {
		t.Fatalf("heal: %v", err)
	}
	if got := st.Get().Resources.CurrentHP; got != 39 {
		t.Fatalf("hp = %v, want max 39", got)
	}
	msg, err := s.Damage(ctx, 50)
	if err != nil {
		t.Fatalf("damage: %v", err)
	}
	if !strings.HasSuffix(msg, "Took 50 damage.") {
		t.Fatalf("message = %q", msg)
	}
	if got := st.Get().Resources.CurrentHP; got != 0 {
		t.Fatalf("hp = %v, want 0", got)
	}
}

func TestApplyTransformationClampsWhenMaxShrinks(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()
	setResources(t, st, 32, 25)

	msg, err := s.ApplyTransformation(ctx, "kaioken_x4")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.HasSuffix(msg, "Transformed into Kaioken x4.") {
		t.Fatalf("message = %q", msg)
	}
	d := s.Derived()
	if d.MaxKi != 18 {
		t.Fatalf("max ki = %v, want 18", d.MaxKi)
	}
	if got := st.Get().Resources.CurrentKi; got != 18 {
		t.Fatalf("stored ki = %v, want clamped 18", got)
	}
	if d.TransformedPowerLevel != 2000 {
		t.Fatalf("power level = %v", d.TransformedPowerLevel)
	}
}

func TestShrinkingMaxClampsStoredResources(t *testing.T) {
	catalogs := rules.Fallback()
	st := store.New(nil, ClampResources(catalogs))
	s := NewSession(st, catalogs, dice.NewRoller(&cycle{values: []int{0}}), NewRollLog(func() time.Time { return noon }))
	ctx := context.Background()

	err := st.Update(ctx, func(prev character.State) (character.State, error) {
		next, err := character.SetPath(prev, "resources.maxHp", "1")
		if err != nil {
			return prev, err
		}
		return character.SetPath(next, "resources.baseKi", "0")
	})
	if err != nil {
		t.Fatalf("set max: %v", err)
	}
	d := s.Derived()
	stored := st.Get().Resources
	if stored.CurrentHP != d.MaxHP || stored.CurrentKi > d.MaxKi {
		t.Fatalf("stored hp %v ki %v, want within max %v/%v", stored.CurrentHP, stored.CurrentKi, d.MaxHP, d.MaxKi)
	}

	if _, err := s.Damage(ctx, d.MaxHP); err != nil {
		t.Fatalf("damage: %v", err)
	}
	if got := st.Get().Resources.CurrentHP; got != 0 {
		t.Fatalf("hp after damage = %v, want 0", got)
	}

	imported := character.Default()
	imported.Resources.CurrentHP = 500
	if err := st.Replace(ctx, imported); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got, want := st.Get().Resources.CurrentHP, s.Derived().MaxHP; got != want {
		t.Fatalf("replaced hp = %v, want %v", got, want)
	}
}

func TestApplyTransformationNotAllowed(t *testing.T) {
	s, st := newTestSession(t)
	msg, err := s.ApplyTransformation(context.Background(), "ascension")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.HasSuffix(msg, "ascension is not available; using Base Form.") {
		t.Fatalf("message = %q", msg)
	}
	if st.Get().ActiveTransformationID != "ascension" {
		t.Fatalf("stored form = %q", st.Get().ActiveTransformationID)
	}
	if s.Derived().Form.ID != "base" {
		t.Fatalf("resolved form = %q", s.Derived().Form.ID)
	}
}

func TestCorrectActiveForm(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()
	_ = st.Set(ctx, func(prev character.State) character.State {
		prev.ActiveTransformationID = "removed_form"
		return prev
	})

	changed, err := s.CorrectActiveForm(ctx)
	if err != nil || !changed {
		t.Fatalf("correct = %v, %v", changed, err)
	}
	if got := st.Get().ActiveTransformationID; got != "base" {
		t.Fatalf("form = %q, want base", got)
	}
	changed, err = s.CorrectActiveForm(ctx)
	if err != nil || changed {
		t.Fatalf("second correct = %v, %v", changed, err)
	}
}

func TestUseTechnique(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	msg, err := s.UseTechnique(ctx, "beam")
	if err != nil {
		t.Fatalf("use beam: %v", err)
	}
	if !strings.HasSuffix(msg, "Beam: spent 12 Ki.") {
		t.Fatalf("message = %q", msg)
	}
	if got := st.Get().Resources.CurrentKi; got != 0 {
		t.Fatalf("ki = %v, want 0", got)
	}

	version := st.Version()
	_, err = s.UseTechnique(ctx, "beam")
	if apperrors.GetCode(err) != apperrors.CodeTechniqueInsufficientKi {
		t.Fatalf("error = %v, want insufficient ki", err)
	}
	if got := apperrors.LocalizedMessage(err, "en-US"); got != "Beam needs 12 Ki but only 0 is available" {
		t.Fatalf("localized = %q", got)
	}
	if st.Version() != version {
		t.Fatal("refused technique must not write state")
	}
	if entries := s.Log().Entries(); !strings.HasSuffix(entries[0], "Beam: not enough Ki.") {
		t.Fatalf("log = %v", entries)
	}

	if _, err := s.UseTechnique(ctx, "spirit_bomb"); apperrors.GetCode(err) != apperrors.CodeTechniqueUnknown {
		t.Fatalf("unknown technique error = %v", err)
	}
}

func TestRollTechnique(t *testing.T) {
	s, st := newTestSession(t, 9, 3)
	msg, err := s.RollTechnique("basic_physical")
	if err != nil {
		t.Fatalf("roll technique: %v", err)
	}
	want := "12:00:00 - Basic Physical: hit 10+8=18, damage 1d10 (4) +5=9"
	if msg != want {
		t.Fatalf("message = %q, want %q", msg, want)
	}
	if st.Version() != 0 {
		t.Fatal("rolling must not write state")
	}

	flare, err := s.RollTechnique("solar_flare")
	if err != nil {
		t.Fatalf("roll solar flare: %v", err)
	}
	if !strings.Contains(flare, "damage 0d0 () +0=0") {
		t.Fatalf("message = %q", flare)
	}
}

func TestRolls(t *testing.T) {
	s, _ := newTestSession(t, 13)
	if got := s.RollInitiative(); got != "12:00:00 - Initiative: 14+4=18" {
		t.Fatalf("initiative = %q", got)
	}

	s, _ = newTestSession(t, 0, 5)
	if got := s.Roll("2d6"); !strings.HasSuffix(got, "2d6 (1,6) = 7") {
		t.Fatalf("roll = %q", got)
	}
	if got := s.Roll("bogus"); !strings.HasSuffix(got, "0d0 () = 0") {
		t.Fatalf("bogus roll = %q", got)
	}
	if got := s.RollDie(0); !strings.HasSuffix(got, "d1: 1") {
		t.Fatalf("die = %q", got)
	}
}

func TestRollLogKeepsNewestTwelve(t *testing.T) {
	clock := noon
	log := NewRollLog(func() time.Time { return clock })
	for i := 0; i < 15; i++ {
		clock = noon.Add(time.Duration(i) * time.Second)
		log.Push("entry")
	}
	entries := log.Entries()
	if len(entries) != RollLogSize {
		t.Fatalf("entries = %d, want %d", len(entries), RollLogSize)
	}
	if entries[0] != "12:00:14 - entry" || entries[RollLogSize-1] != "12:00:03 - entry" {
		t.Fatalf("entries = %v", entries)
	}
}
