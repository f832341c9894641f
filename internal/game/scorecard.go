package game

// Entry is one line of a finished scorecard.
type Entry struct {
	Kind  string `json:"kind"`
	Value int    `json:"value"`
}

// Scorecard is the sealed record of a completed game. The JSON shape is the
// storage format and the /api/{id} response, so field tags must not change.
type Scorecard struct {
	Scores []Entry `json:"scores"`
	Total  int     `json:"total"`
}

// Scorecard derives the final card. It fails with ErrIncomplete until every
// category is filled.
func (s *Session) Scorecard() (Scorecard, error) {
	return buildScorecard(s.filled)
}

// ScorecardWith derives the card the session would have after applying m,
// without mutating the session.
func (s *Session) ScorecardWith(m Move) (Scorecard, error) {
	next := make(map[Category]int, len(s.filled)+1)
	for c, v := range s.filled {
		next[c] = v
	}
	if m.Category.Valid() {
		if _, done := next[m.Category]; !done {
			next[m.Category] = m.Score
		}
	}
	return buildScorecard(next)
}

func buildScorecard(filled map[Category]int) (Scorecard, error) {
	if len(filled) != NumCategories {
		return Scorecard{}, ErrIncomplete
	}
	card := Scorecard{Scores: make([]Entry, 0, NumCategories)}
	for _, c := range Categories {
		v, ok := filled[c]
		if !ok {
			return Scorecard{}, ErrIncomplete
		}
		card.Scores = append(card.Scores, Entry{Kind: c.String(), Value: v})
		card.Total += v
	}
	return card, nil
}
