// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - GET  /                 → index page for the cookie's session (starts one if needed)
//   - GET  /state            → the same view model as JSON
//   - POST /roll             → roll with hold mask die1..die5, 303 → /
//   - POST /mark/{index}     → score a category, 303 → / or /scorecard/{id} when finished
//   - GET  /scorecard/{id}   → archived scorecard page
//   - GET  /api/{id}         → archived scorecard JSON
//
// Illegal rolls and marks are not errors: the client is redirected to the
// current state. A missing or unknown session on roll/mark is a 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/pie-flavor/yahtzee/internal/game"
	"github.com/pie-flavor/yahtzee/internal/tracker"
)

type indexPage struct {
	ID   string
	View game.View
}

type scorecardPage struct {
	ID   string
	Card game.Scorecard
}

// mountGame registers the game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/state", s.handleState)
	r.Post("/roll", s.handleRoll)
	r.Post("/mark/{index}", s.handleMark)
	r.Get("/scorecard/{id}", s.handleScorecardPage)
	r.Get("/api/{id}", s.handleScorecardJSON)
}

// current loads (or starts) the session and refreshes the cookie when a new
// one was started.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (tracker.Current, error) {
	cur, err := s.tracker.Current(r.Context(), s.cookies.sessionID(r))
	if err != nil {
		return tracker.Current{}, err
	}
	if cur.Created {
		if err := s.cookies.set(w, cur.ID); err != nil {
			return tracker.Current{}, fmt.Errorf("set session cookie: %w", err)
		}
	}
	return cur, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cur, err := s.current(w, r)
	if err != nil {
		s.failHTML(w, r, err)
		return
	}
	s.views.html(w, r, http.StatusOK, "index.html", indexPage{ID: cur.ID, View: cur.View})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	cur, err := s.current(w, r)
	if err != nil {
		s.failJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cur.View)
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	held, err := parseHeld(r)
	if err != nil {
		s.views.errorPage(w, r, http.StatusBadRequest)
		return
	}
	if err := s.tracker.Roll(r.Context(), s.cookies.sessionID(r), held); err != nil {
		s.failHTML(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(chi.URLParam(r, "index"))
	if !ok {
		s.views.errorPage(w, r, http.StatusNotFound)
		return
	}
	id := s.cookies.sessionID(r)
	res, err := s.tracker.Mark(r.Context(), id, index)
	if err != nil {
		s.failHTML(w, r, err)
		return
	}
	if res.Completed {
		canonical, _ := tracker.ParseID(id)
		http.Redirect(w, r, "/scorecard/"+canonical, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleScorecardPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	card, err := s.tracker.Scorecard(r.Context(), id)
	if err != nil {
		s.failHTML(w, r, err)
		return
	}
	s.views.html(w, r, http.StatusOK, "scorecard.html", scorecardPage{ID: id, Card: card})
}

func (s *Server) handleScorecardJSON(w http.ResponseWriter, r *http.Request) {
	card, err := s.tracker.Scorecard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.failJSON(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// ------------------------------ helpers ------------------------------------

// statusFor maps tracker errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrSessionNotFound), errors.Is(err, tracker.ErrScorecardNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) failHTML(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	s.views.errorPage(w, r, status)
}

func (s *Server) failJSON(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		writeJSONError(w, status, "not_found")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	writeJSONError(w, status, "internal")
}

// parseIndex accepts a non-negative decimal category index. Numbers too
// large for an int are still numeric and map to an out-of-range index.
func parseIndex(raw string) (int, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) || (err == nil && n > uint64(game.NumCategories)) {
		return -1, true
	}
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// parseHeld reads the hold mask from a form body (checkbox fields die1..die5)
// or a JSON object {"die1":true,...}. Absent fields mean "not held".
func parseHeld(r *http.Request) ([game.DiceCount]bool, error) {
	var held [game.DiceCount]bool

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		var body map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return held, fmt.Errorf("decode hold mask: %w", err)
		}
		for i := range held {
			held[i] = body[dieField(i)]
		}
		return held, nil
	}

	if err := r.ParseForm(); err != nil {
		return held, fmt.Errorf("parse form: %w", err)
	}
	for i := range held {
		held[i] = checked(r.PostForm.Get(dieField(i)))
	}
	return held, nil
}

func dieField(i int) string { return "die" + strconv.Itoa(i+1) }

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1":
		return true
	}
	return false
}
