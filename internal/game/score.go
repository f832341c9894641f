// internal/game/score.go
//
// Scoring engine: maps (category, hand, joker eligibility) to points.
//
// Rules:
//   - Upper section (Aces..Sixes): sum of the dice showing that face.
//   - Five of a kind with joker eligibility scores a flat 100 in
//     Three/Four of a kind, Full house, both straights and Chance.
//   - Yahtzee itself is 50 or nothing and is never boosted.
//   - Straights match literal face sets, not "any run of four".

package game

const (
	fullHouseScore     = 25
	smallStraightScore = 30
	largeStraightScore = 40
	yahtzeeScore       = 50
	jokerScore         = 100
)

var smallStraights = [][]int{
	{1, 2, 3, 4},
	{2, 3, 4, 5},
	{3, 4, 5, 6},
}

// Score returns the points h earns in category c. Unknown categories score 0.
func Score(c Category, h Hand, jokerEligible bool) int {
	counts := h.counts()

	if face, ok := c.face(); ok {
		return face * counts[face]
	}

	if jokerEligible && counts.fiveOfAKind() && c != Yahtzee && c.Valid() {
		return jokerScore
	}

	switch c {
	case ThreeOfAKind:
		if counts.most() >= 3 {
			return h.sum()
		}
	case FourOfAKind:
		if counts.most() >= 4 {
			return h.sum()
		}
	case FullHouse:
		if counts.has(3) && counts.has(2) {
			return fullHouseScore
		}
	case SmallStraight:
		for _, run := range smallStraights {
			if counts.contains(run...) {
				return smallStraightScore
			}
		}
	case LargeStraight:
		if counts.contains(2, 3, 4, 5) && (counts.contains(1) || counts.contains(6)) {
			return largeStraightScore
		}
	case Yahtzee:
		if counts.fiveOfAKind() {
			return yahtzeeScore
		}
	case Chance:
		return h.sum()
	}
	return 0
}

// JokerEligible reports whether five of a kind earns the joker bonus given
// the boxes already filled. A Yahtzee scratched as zero disables it for the
// rest of the game; an empty or non-zero Yahtzee box keeps it enabled.
func JokerEligible(filled map[Category]int) bool {
	v, ok := filled[Yahtzee]
	return !ok || v != 0
}

// faceCounts is indexed by face value; index 0 collects out-of-range dice.
type faceCounts [DieSides + 1]int

func (h Hand) counts() faceCounts {
	var fc faceCounts
	for _, v := range h {
		if v < 1 || v > DieSides {
			v = 0
		}
		fc[v]++
	}
	return fc
}

func (h Hand) sum() int {
	total := 0
	for _, v := range h {
		total += v
	}
	return total
}

func (fc faceCounts) most() int {
	best := 0
	for face := 1; face <= DieSides; face++ {
		if fc[face] > best {
			best = fc[face]
		}
	}
	return best
}

// has reports whether some face appears exactly n times.
func (fc faceCounts) has(n int) bool {
	for face := 1; face <= DieSides; face++ {
		if fc[face] == n {
			return true
		}
	}
	return false
}

func (fc faceCounts) contains(faces ...int) bool {
	for _, f := range faces {
		if fc[f] == 0 {
			return false
		}
	}
	return true
}

func (fc faceCounts) fiveOfAKind() bool {
	return fc.most() == DiceCount
}
