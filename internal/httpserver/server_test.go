package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-flavor/yahtzee/internal/archive"
	"github.com/pie-flavor/yahtzee/internal/common/uuid"
	"github.com/pie-flavor/yahtzee/internal/dice"
	"github.com/pie-flavor/yahtzee/internal/game"
	"github.com/pie-flavor/yahtzee/internal/registry"
	"github.com/pie-flavor/yahtzee/internal/tracker"
)

type harness struct {
	t        *testing.T
	srv      *Server
	sessions *registry.Memory
	cookie   *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sessions := registry.NewMemory()
	svc, err := tracker.New(&tracker.Config{
		Sessions: sessions,
		Archive:  archive.NewMemory(),
		Roller:   dice.New(&dice.Config{Seed: 99}),
		IDs:      uuid.New(),
	})
	require.NoError(t, err)

	srv, err := New(svc, Options{Cookie: CookieOptions{Secret: "test-secret"}})
	require.NoError(t, err)
	return &harness{t: t, srv: srv, sessions: sessions}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == defaultCookieName {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return h.do(req)
}

func (h *harness) state() game.View {
	rec := h.get("/state")
	require.Equal(h.t, http.StatusOK, rec.Code)
	var v game.View
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestIndex_StartsSessionAndSetsCookie(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Yahtzee")
	assert.Contains(t, rec.Body.String(), `name="die1"`)
	require.NotNil(t, h.cookie)
	assert.True(t, h.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, h.cookie.SameSite)
	assert.Equal(t, 1, h.sessions.Len())

	first := h.cookie.Value
	rec = h.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "known session keeps its cookie")
	assert.Equal(t, first, h.cookie.Value)
	assert.Equal(t, 1, h.sessions.Len())
}

func TestIndex_TamperedCookieStartsNewSession(t *testing.T) {
	h := newHarness(t)
	h.get("/")
	require.NotNil(t, h.cookie)

	h.cookie = &http.Cookie{Name: defaultCookieName, Value: h.cookie.Value + "x"}
	rec := h.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, 2, h.sessions.Len())
}

func TestState_JSONShape(t *testing.T) {
	h := newHarness(t)
	rec := h.get("/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "categories")
	assert.Contains(t, raw, "dice")
	assert.EqualValues(t, 3, raw["rollsRemaining"])
	assert.EqualValues(t, 0, raw["total"])

	cats := raw["categories"].([]any)
	require.Len(t, cats, game.NumCategories)
	first := cats[0].(map[string]any)
	assert.Equal(t, "Aces", first["name"])
	assert.Nil(t, first["value"])
	assert.Equal(t, false, first["markable"])
}

func TestRoll_WithoutSessionIs404(t *testing.T) {
	h := newHarness(t)
	rec := h.postForm("/roll", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, h.sessions.Len())
}

func TestRoll_RedirectsAndConsumesRoll(t *testing.T) {
	h := newHarness(t)
	h.get("/")

	rec := h.postForm("/roll", url.Values{"die1": {"on"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	v := h.state()
	assert.Equal(t, 2, v.RollsRemaining)
	for _, d := range v.Dice {
		assert.False(t, d.Held, "holds ignored on the first roll")
	}
}

func TestRoll_JSONHoldMask(t *testing.T) {
	h := newHarness(t)
	h.get("/")
	require.Equal(t, http.StatusSeeOther, h.postJSON("/roll", "").Code)
	before := h.state()

	rec := h.postJSON("/roll", `{"die1":true,"die3":true}`)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	after := h.state()
	assert.Equal(t, before.Dice[0].Value, after.Dice[0].Value)
	assert.Equal(t, before.Dice[2].Value, after.Dice[2].Value)
	assert.True(t, after.Dice[0].Held)
	assert.False(t, after.Dice[1].Held)
	assert.True(t, after.Dice[2].Held)
	assert.Equal(t, 1, after.RollsRemaining)
}

func TestRoll_BadJSONIs400(t *testing.T) {
	h := newHarness(t)
	h.get("/")
	rec := h.postJSON("/roll", `{"die1":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 3, h.state().RollsRemaining)
}

func TestMark_IndexValidation(t *testing.T) {
	h := newHarness(t)
	h.get("/")
	h.postForm("/roll", nil)

	for _, path := range []string{"/mark/abc", "/mark/-1", "/mark/1.5"} {
		rec := h.postForm(path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	for _, path := range []string{"/mark/13", "/mark/99999999999999999999999"} {
		rec := h.postForm(path, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	}

	v := h.state()
	for _, c := range v.Categories {
		assert.Nil(t, c.Value)
	}
}

func TestMark_WithoutSessionIs404(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusNotFound, h.postForm("/mark/0", nil).Code)
}

func TestFullGame(t *testing.T) {
	h := newHarness(t)
	h.get("/")
	cookie := h.cookie

	var location string
	for i := 0; i < game.NumCategories; i++ {
		require.Equal(t, http.StatusSeeOther, h.postForm("/roll", nil).Code)
		rec := h.postForm("/mark/"+strconv.Itoa(i), nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		location = rec.Header().Get("Location")
	}
	require.True(t, strings.HasPrefix(location, "/scorecard/"), location)
	assert.Equal(t, 0, h.sessions.Len())

	id := strings.TrimPrefix(location, "/scorecard/")

	rec := h.get("/api/" + id)
	require.Equal(t, http.StatusOK, rec.Code)
	var card game.Scorecard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	require.Len(t, card.Scores, game.NumCategories)
	sum := 0
	for i, e := range card.Scores {
		assert.Equal(t, game.Categories[i].String(), e.Kind)
		sum += e.Value
	}
	assert.Equal(t, sum, card.Total)

	rec = h.get("/scorecard/" + id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Final scorecard")
	assert.Contains(t, rec.Body.String(), "Chance")

	// The finished game's cookie no longer names a live session.
	h.cookie = cookie
	assert.Equal(t, http.StatusNotFound, h.postForm("/roll", nil).Code)
}

func TestScorecard_NotFound(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/api/not-a-uuid")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())

	rec = h.get("/api/6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.get("/scorecard/6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}

func TestDiagnosticsAndAssets(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = h.get("/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".die")

	rec = h.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	rec = h.get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

// stubTracker fails every operation with err.
type stubTracker struct{ err error }

func (s stubTracker) Current(context.Context, string) (tracker.Current, error) {
	return tracker.Current{}, s.err
}
func (s stubTracker) Roll(context.Context, string, [game.DiceCount]bool) error { return s.err }
func (s stubTracker) Mark(context.Context, string, int) (tracker.MarkResult, error) {
	return tracker.MarkResult{}, s.err
}
func (s stubTracker) Scorecard(context.Context, string) (game.Scorecard, error) {
	return game.Scorecard{}, s.err
}

func TestInfrastructureFailuresAre500(t *testing.T) {
	srv, err := New(stubTracker{err: errors.New("archive scorecard: disk full")}, Options{})
	require.NoError(t, err)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/roll"},
		{http.MethodPost, "/mark/3"},
		{http.MethodGet, "/scorecard/x"},
	} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tc.path)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal"}`, rec.Body.String())
}

func TestNew_NilTracker(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}
