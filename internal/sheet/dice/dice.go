// Package dice rolls uniform dice and "NdM" notation for the sheet.
package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/louisbranch/kisheet/internal/random"
)

// DefaultSides is the die size used when none is given.
const DefaultSides = 20

// MaxDiceCount bounds the dice rolled for one expression.
const MaxDiceCount = 1000

// EmptyExpression labels a roll that could not be parsed.
const EmptyExpression = "0d0"

// ErrInvalidNotation indicates the expression is not "NdM" with positive N and M.
var ErrInvalidNotation = errors.New("dice notation must be NdM with positive N and M")

// ErrTooManyDice indicates the expression asks for more than MaxDiceCount dice.
var ErrTooManyDice = fmt.Errorf("dice notation may roll at most %d dice", MaxDiceCount)

var notationPattern = regexp.MustCompile(`(?i)^(\d+)d(\d+)$`)

// Source yields uniform integers in [0, n). *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Spec describes Count dice of Sides faces.
type Spec struct {
	Count int
	Sides int
}

// String renders spec in canonical notation.
func (s Spec) String() string {
	return fmt.Sprintf("%dd%d", s.Count, s.Sides)
}

// Roll is the result of one expression.
type Roll struct {
	Total      int    `json:"total"`
	Rolls      []int  `json:"rolls"`
	Expression string `json:"expression"`
}

// ParseNotation parses "NdM" (case-insensitive, surrounding space ignored).
// A count above MaxDiceCount returns ErrTooManyDice together with the spec
// clamped to MaxDiceCount dice.
func ParseNotation(notation string) (Spec, error) {
	match := notationPattern.FindStringSubmatch(strings.TrimSpace(notation))
	if match == nil {
		return Spec{}, ErrInvalidNotation
	}
	sides, err := strconv.Atoi(match[2])
	if err != nil || sides <= 0 {
		return Spec{}, ErrInvalidNotation
	}
	count, err := strconv.Atoi(match[1])
	if err != nil || count > MaxDiceCount {
		return Spec{Count: MaxDiceCount, Sides: sides}, ErrTooManyDice
	}
	if count <= 0 {
		return Spec{}, ErrInvalidNotation
	}
	return Spec{Count: count, Sides: sides}, nil
}

// Roller rolls dice from a Source. It is safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	src Source
}

// NewRoller returns a roller over src.
func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// NewDefaultRoller returns a roller seeded from the system entropy source.
func NewDefaultRoller() *Roller {
	return NewRoller(random.NewSource())
}

// RollDie returns a uniform value in [1, sides]. Sides below 1 count as 1.
func (r *Roller) RollDie(sides int) int {
	sides = max(1, sides)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(sides) + 1
}

// RollExpression rolls an "NdM" expression. Counts above MaxDiceCount roll
// MaxDiceCount dice and the label shows the clamped count. Unparseable
// expressions roll nothing: total 0, no rolls and the label "0d0".
func (r *Roller) RollExpression(notation string) Roll {
	spec, err := ParseNotation(notation)
	if err != nil && !errors.Is(err, ErrTooManyDice) {
		return Roll{Rolls: []int{}, Expression: EmptyExpression}
	}
	return r.RollSpec(spec)
}

// RollSpec rolls a parsed spec.
func (r *Roller) RollSpec(spec Spec) Roll {
	if spec.Count <= 0 || spec.Sides <= 0 {
		return Roll{Rolls: []int{}, Expression: EmptyExpression}
	}
	rolls := make([]int, spec.Count)
	total := 0
	for i := range rolls {
		rolls[i] = r.RollDie(spec.Sides)
		total += rolls[i]
	}
	return Roll{Total: total, Rolls: rolls, Expression: spec.String()}
}
