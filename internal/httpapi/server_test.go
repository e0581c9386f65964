package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/session"
	"github.com/roach88/brewlab/internal/store"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type testServer struct {
	srv   *Server
	store *store.Store
}

func newTestServer(t *testing.T, debug bool) testServer {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	codec, err := session.NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	srv, err := New(Options{
		Store:     st,
		Codec:     codec,
		DailySalt: "pepper",
		Debug:     debug,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return testServer{srv: srv, store: st}
}

func (ts testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

type createdSession struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
	Token string        `json:"token"`
	Game  gameView      `json:"game"`
}

func (ts testServer) createSession(t *testing.T, body any) (*http.Cookie, createdSession, *game.Game) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/session", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out createdSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie must be set")

	g, err := out.State.Game()
	require.NoError(t, err)
	return cookie, out, g
}

func fullSheet(g *game.Game) deduce.Sheet {
	sheet := deduce.Sheet{}
	for _, p := range g.FullMappingProfiles {
		for slot, m := range p.Slots {
			sheet.Set(p.ID, slot, m)
		}
	}
	return sheet
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestCreateSession_ReturnsGameWithoutCompositions(t *testing.T) {
	ts := newTestServer(t, false)
	_, out, g := ts.createSession(t, map[string]any{"seed": "api-seed"})

	assert.NotEmpty(t, out.ID)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, game.ModeExactCraft, out.State.Mode, "empty mode selects the default")
	assert.Equal(t, "api-seed", out.Game.Seed)
	assert.Len(t, out.Game.Ingredients, len(g.Ingredients))
	assert.Equal(t, g.TargetOrder, out.Game.Objective.Target)
	assert.Equal(t, g.MinSizeForTarget, out.Game.Objective.MinSize)
	assert.Nil(t, out.Game.Objective.Ingredient)

	rec := ts.do(t, http.MethodPost, "/api/session", map[string]any{"seed": "api-seed"}, nil)
	assert.NotContains(t, rec.Body.String(), `"elements"`)
}

func TestCreateSession_LogsGeneration(t *testing.T) {
	ts := newTestServer(t, false)
	ts.createSession(t, map[string]any{"seed": "logged-seed"})
	ts.createSession(t, map[string]any{"seed": "logged-seed"})

	recs, err := ts.store.GamesForSeed(context.Background(), "logged-seed")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCreateSession_Invalid(t *testing.T) {
	ts := newTestServer(t, false)
	tests := []struct {
		name string
		body any
	}{
		{"blank seed", map[string]any{"seed": "   "}},
		{"unknown mode", map[string]any{"seed": "x", "mode": "speedrun"}},
		{"unknown field", map[string]any{"seed": "x", "difficulty": 9}},
		{"malformed json", `{"seed":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/session", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestCreateSession_DailyUsesDaySeed(t *testing.T) {
	ts := newTestServer(t, false)
	_, out, _ := ts.createSession(t, map[string]any{"seed": "ignored", "daily": true})

	assert.Equal(t, game.DailySeed(fixedNow, "pepper"), out.State.Seed)
	assert.True(t, out.State.Daily)
	assert.True(t, out.Game.Daily)
}

func TestRequireSession(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, out, _ := ts.createSession(t, map[string]any{"seed": "guarded"})

	t.Run("no token", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/game", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		bad := &http.Cookie{Name: CookieName, Value: cookie.Value + "x"}
		rec := ts.do(t, http.MethodGet, "/api/game", nil, bad)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		cleared := rec.Result().Cookies()
		require.NotEmpty(t, cleared)
		assert.Empty(t, cleared[0].Value)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.Header.Set("Authorization", "Bearer "+out.Token)
		rec := httptest.NewRecorder()
		ts.srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got createdSession
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, out.ID, got.ID)
		assert.Equal(t, out.State, got.State)
	})
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, _ := ts.createSession(t, map[string]any{"seed": "short-lived"})

	rec := ts.do(t, http.MethodDelete, "/api/session", nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The token is still validly signed but its session is gone.
	rec = ts.do(t, http.MethodGet, "/api/game", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGame_MatchesSession(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, out, _ := ts.createSession(t, map[string]any{"seed": "viewer", "mode": "profile-hunt"})

	rec := ts.do(t, http.MethodGet, "/api/game", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var view gameView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, out.Game, view)
	require.NotNil(t, view.Objective.Ingredient)
	assert.Empty(t, view.Objective.Target)
}

func TestBrew(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, g := ts.createSession(t, map[string]any{"seed": "brewer"})

	rec := ts.do(t, http.MethodPost, "/api/brew", map[string]any{"ids": g.TargetIDs}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res brew.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, g.TargetOrder, res.Effects)

	rec = ts.do(t, http.MethodPost, "/api/brew", map[string]any{"ids": g.TargetIDs[:1]}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/brew", map[string]any{"ids": []string{"ing-01", "ing-99"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "ing-99")
}

func TestEstimate(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, g := ts.createSession(t, map[string]any{"seed": "estimator"})

	rec := ts.do(t, http.MethodPost, "/api/estimate", map[string]any{
		"ids":   g.TargetIDs,
		"marks": fullSheet(g),
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res estimateRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Estimate)
	assert.Equal(t, g.TargetOrder, res.Estimate.Effects)
	assert.False(t, res.Estimate.Ambiguous)

	rec = ts.do(t, http.MethodPost, "/api/estimate", map[string]any{"ids": []string{"ing-01"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"estimate":null}`, rec.Body.String())

	tooMany := make([]string, g.MaxCombo+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("ing-%02d", i+1)
	}
	for name, ids := range map[string][]string{
		"repeated":       {"ing-01", "ing-01"},
		"unknown":        {"ing-01", "ing-99"},
		"over max combo": tooMany,
	} {
		rec = ts.do(t, http.MethodPost, "/api/estimate", map[string]any{"ids": ids, "marks": fullSheet(g)}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}

	rec = ts.do(t, http.MethodPost, "/api/estimate", `{"ids":["ing-01","ing-02"],"marks":{"ing-01":{"7":"Sun"}}}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/estimate", `{"ids":["ing-01","ing-02"],"marks":{"ing-01":{"0":"Fire"}}}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "Fire is not in the Sun/Moon pair")
}

func TestCheck_ExactCraft(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, g := ts.createSession(t, map[string]any{"seed": "crafter", "mode": "exact-craft"})

	rec := ts.do(t, http.MethodPost, "/api/check", map[string]any{"ids": g.TargetIDs}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res checkRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Solved)
	require.NotNil(t, res.Brew)
	assert.Equal(t, g.TargetOrder, res.Brew.Effects)
}

func TestCheck_ProfileHunt(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, g := ts.createSession(t, map[string]any{"seed": "hunter", "mode": "profile-hunt"})

	target := g.ProfileHuntTarget.ID
	sheet := deduce.Sheet{}
	for slot, m := range deduce.TrueMarks(g.ProfileHuntTarget.List()) {
		sheet.Set(target, slot, m)
	}

	rec := ts.do(t, http.MethodPost, "/api/check", map[string]any{"marks": sheet}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res checkRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, game.ModeProfileHunt, res.Mode)
	assert.True(t, res.Solved)

	rec = ts.do(t, http.MethodPost, "/api/check", map[string]any{"marks": deduce.Sheet{}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Solved)
}

func TestCheck_FullMapping(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, g := ts.createSession(t, map[string]any{"seed": "mapper", "mode": "full-mapping"})

	rec := ts.do(t, http.MethodPost, "/api/check", map[string]any{"marks": fullSheet(g)}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res checkRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Solved)
	require.NotNil(t, res.Mapping)
	assert.Equal(t, len(g.Ingredients), res.Mapping.Correct)
	assert.Empty(t, res.Mapping.Wrong)
}

func TestSolution_DebugOnly(t *testing.T) {
	ts := newTestServer(t, false)
	cookie, _, _ := ts.createSession(t, map[string]any{"seed": "secret"})
	rec := ts.do(t, http.MethodGet, "/api/solution", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ts = newTestServer(t, true)
	cookie, _, g := ts.createSession(t, map[string]any{"seed": "secret"})
	rec = ts.do(t, http.MethodGet, "/api/solution", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res solutionRes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	want, ok := g.Solve()
	require.True(t, ok)
	assert.Equal(t, want, res.Solution)
	assert.Equal(t, g.TargetOrder, res.TargetOrder)
	assert.Equal(t, g.ProfileHuntTarget.ID, res.ProfileHuntTarget)
	assert.Len(t, res.FullMappingProfiles, len(g.Ingredients))
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec), "/nope")
}
