// internal/game/engine.go
//
// Turn state machine for a single Yahtzee session.
// Responsibilities:
//   - Hold the five dice, the rolls used this turn and the filled boxes.
//   - Apply rolls with hold semantics (first roll of a turn rerolls all five).
//   - Plan and apply marks, resetting the turn after each non-final mark.
//
// States: fresh (no rolls, nothing filled) → in turn (1..3 rolls) → ... →
// complete (13 boxes filled). Illegal transitions are reported as false and
// leave the session untouched.
//
// A Session is not safe for concurrent use; the registry serialises access.
package game

import "errors"

// ErrIncomplete is returned when a scorecard is requested before every
// category has been filled.
var ErrIncomplete = errors.New("game: scorecard incomplete")

// Roller produces die faces in 1..sides.
type Roller interface {
	Roll(sides int) int
}

// Session is the mutable state of one in-progress game.
type Session struct {
	dice   [DiceCount]Die
	rolls  int
	filled map[Category]int
	roller Roller
}

// Move is a validated mark that has not been applied yet.
type Move struct {
	Category Category
	Score    int
	Final    bool // fills the last open category
}

// NewSession starts a game with five freshly rolled dice and an empty card.
func NewSession(r Roller) *Session {
	s := &Session{
		filled: make(map[Category]int, NumCategories),
		roller: r,
	}
	for i := range s.dice {
		s.dice[i] = s.rollDie()
	}
	return s
}

// Roll rolls the dice. held selects the dice kept back; it is ignored on the
// first roll of a turn, which always rerolls all five.
// Returns false, changing nothing, when the turn has no rolls left.
func (s *Session) Roll(held [DiceCount]bool) bool {
	if s.rolls >= MaxRolls || s.Complete() {
		return false
	}
	s.rolls++
	for i := range s.dice {
		if s.rolls > 1 && held[i] {
			s.dice[i].Held = true
			continue
		}
		s.dice[i] = s.rollDie()
	}
	return true
}

// Plan validates marking the category at index with the current dice.
// It reports false when no roll has been made this turn, the index is off
// the card, or the category is already filled.
func (s *Session) Plan(index int) (Move, bool) {
	if s.rolls == 0 {
		return Move{}, false
	}
	c, ok := CategoryAt(index)
	if !ok {
		return Move{}, false
	}
	if _, done := s.filled[c]; done {
		return Move{}, false
	}
	return Move{
		Category: c,
		Score:    Score(c, HandOf(s.dice), JokerEligible(s.filled)),
		Final:    len(s.filled) == NumCategories-1,
	}, true
}

// Apply commits a planned move. The turn resets unless the move completes the
// card. Returns false if the move is no longer legal.
func (s *Session) Apply(m Move) bool {
	if s.rolls == 0 || !m.Category.Valid() {
		return false
	}
	if _, done := s.filled[m.Category]; done {
		return false
	}
	s.filled[m.Category] = m.Score
	if !s.Complete() {
		s.rolls = 0
	}
	return true
}

// Mark plans and applies a move in one step.
func (s *Session) Mark(index int) (Move, bool) {
	m, ok := s.Plan(index)
	if !ok {
		return Move{}, false
	}
	return m, s.Apply(m)
}

// Potential previews the points c would earn if marked now. It is not
// applicable (false) once c is filled, and zero before the turn's first roll.
func (s *Session) Potential(c Category) (int, bool) {
	if _, done := s.filled[c]; done || !c.Valid() {
		return 0, false
	}
	if s.rolls == 0 {
		return 0, true
	}
	return Score(c, HandOf(s.dice), JokerEligible(s.filled)), true
}

// Filled returns the score recorded for c, if any.
func (s *Session) Filled(c Category) (int, bool) {
	v, ok := s.filled[c]
	return v, ok
}

// FilledCount is the number of categories already scored.
func (s *Session) FilledCount() int { return len(s.filled) }

// Complete reports whether every category has been filled.
func (s *Session) Complete() bool { return len(s.filled) == NumCategories }

// Dice returns a copy of the current dice.
func (s *Session) Dice() [DiceCount]Die { return s.dice }

// RollsUsed is the number of rolls taken this turn.
func (s *Session) RollsUsed() int { return s.rolls }

// RollsRemaining is the number of rolls left this turn.
func (s *Session) RollsRemaining() int { return MaxRolls - s.rolls }

// Total is the sum of all filled categories.
func (s *Session) Total() int {
	total := 0
	for _, v := range s.filled {
		total += v
	}
	return total
}

func (s *Session) rollDie() Die {
	return Die{Value: s.roller.Roll(DieSides)}
}
