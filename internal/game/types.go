// internal/game/types.go
//
// Core type definitions for the Yahtzee game engine.
// Defines:
//   - Die: a single face value plus its held flag.
//   - Hand: the five face values a score is computed from.
//   - Category: the thirteen scoring boxes in their fixed card order.

package game

import "fmt"

const (
	// DiceCount is the number of dice rolled each turn.
	DiceCount = 5
	// DieSides is the number of faces on every die.
	DieSides = 6
	// MaxRolls is the number of rolls allowed per turn.
	MaxRolls = 3
)

// Die is one of the five dice on the table.
type Die struct {
	Value int  `json:"value"` // 1..6
	Held  bool `json:"held"`  // kept back during the last roll
}

// Hand is the face values of the five dice, order irrelevant for scoring.
type Hand [DiceCount]int

// HandOf extracts the face values from a set of dice.
func HandOf(dice [DiceCount]Die) Hand {
	var h Hand
	for i, d := range dice {
		h[i] = d.Value
	}
	return h
}

// Category is a scoring box on the card. The numeric value is the card
// position and is part of the external /mark/{index} contract.
type Category int

const (
	Aces Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeOfAKind
	FourOfAKind
	FullHouse
	SmallStraight
	LargeStraight
	Yahtzee
	Chance
)

// NumCategories is the size of a complete scorecard.
const NumCategories = 13

// Categories lists every category in card order.
var Categories = [NumCategories]Category{
	Aces, Twos, Threes, Fours, Fives, Sixes,
	ThreeOfAKind, FourOfAKind, FullHouse,
	SmallStraight, LargeStraight, Yahtzee, Chance,
}

var categoryNames = [NumCategories]string{
	"Aces", "Twos", "Threes", "Fours", "Fives", "Sixes",
	"Three of a kind", "Four of a kind", "Full house",
	"Small straight", "Large straight", "Yahtzee", "Chance",
}

// CategoryAt resolves a card position into a category.
func CategoryAt(index int) (Category, bool) {
	if index < 0 || index >= NumCategories {
		return 0, false
	}
	return Categories[index], true
}

// Index returns the card position of c.
func (c Category) Index() int { return int(c) }

// Valid reports whether c is one of the thirteen categories.
func (c Category) Valid() bool { return c >= Aces && c <= Chance }

// String returns the display name shown on the card.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// face returns the die face counted by an upper-section category.
func (c Category) face() (int, bool) {
	if c >= Aces && c <= Sixes {
		return int(c) + 1, true
	}
	return 0, false
}
