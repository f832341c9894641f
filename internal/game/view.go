package game

// View is the read-only snapshot handed to the rendering layer for the
// in-progress game page.
type View struct {
	Categories     []CategoryView `json:"categories"`
	Total          int            `json:"total"`
	Dice           [DiceCount]Die `json:"dice"`
	RollsRemaining int            `json:"rollsRemaining"`
}

// CategoryView is one row of the card. Value is nil while the box is open.
type CategoryView struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Value     *int   `json:"value"`
	Markable  bool   `json:"markable"`
	Potential int    `json:"potential"`
}

// View builds the page model for the session.
func (s *Session) View() View {
	v := View{
		Categories:     make([]CategoryView, 0, NumCategories),
		Total:          s.Total(),
		Dice:           s.dice,
		RollsRemaining: s.RollsRemaining(),
	}
	for _, c := range Categories {
		row := CategoryView{Index: c.Index(), Name: c.String()}
		if score, ok := s.filled[c]; ok {
			score := score
			row.Value = &score
		} else {
			row.Markable = s.rolls > 0
			row.Potential, _ = s.Potential(c)
		}
		v.Categories = append(v.Categories, row)
	}
	return v
}
