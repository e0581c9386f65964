package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/session"
)

var (
	errNoSession   = errors.New("no session")
	errSessionGone = errors.New("session no longer exists")
)

type ctxSessionKey struct{}

// activeSession is the verified session attached to a request.
type activeSession struct {
	ID    string
	State session.State
	Game  *game.Game
}

func sessionFrom(ctx context.Context) *activeSession {
	as, _ := ctx.Value(ctxSessionKey{}).(*activeSession)
	return as
}

// tokenFrom reads the session token from the cookie, falling back to a
// bearer Authorization header.
func tokenFrom(r *http.Request) (string, bool) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); tok != "" {
			return tok, true
		}
	}
	return "", false
}

// requireSession verifies the token, loads the stored triple, and
// regenerates the game. The stored triple is authoritative over the claims.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := tokenFrom(r)
		if !ok {
			s.fail(w, r, errNoSession)
			return
		}
		id, _, err := s.codec.Parse(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		rec, ok, err := s.store.LoadSession(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if !ok {
			s.fail(w, r, errSessionGone)
			return
		}
		g, err := s.generate(r.Context(), rec.State)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, &activeSession{ID: rec.ID, State: rec.State, Game: g})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generate regenerates the game for st and logs its fingerprint.
func (s *Server) generate(ctx context.Context, st session.State) (*game.Game, error) {
	cfg := st.Config()
	g, err := game.GenerateWithLogger(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.LogGenerated(ctx, cfg, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Server) setCookie(w http.ResponseWriter, r *http.Request, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// newSessionReq is the body of POST /api/session.
type newSessionReq struct {
	Seed  string `json:"seed"`
	Daily bool   `json:"daily"`
	Mode  string `json:"mode"`
}

type sessionRes struct {
	ID        string        `json:"id"`
	State     session.State `json:"state"`
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	Game      *gameView     `json:"game,omitempty"`
}

// handleCreateSession starts a session. Daily sessions ignore the
// requested seed and play the seed of the current UTC day.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	seed := req.Seed
	if req.Daily {
		seed = game.DailySeed(s.now(), s.salt)
	}
	st, err := session.New(seed, req.Daily, req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	g, err := s.generate(r.Context(), st)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.CreateSession(r.Context(), st)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, exp, err := s.codec.Sign(rec.ID, st)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.setCookie(w, r, token, exp)

	s.logger.Info("session created", "session", rec.ID, "seed", st.Seed, "mode", st.Mode)
	view := newGameView(g, st.Mode)
	writeJSON(w, http.StatusCreated, sessionRes{ID: rec.ID, State: st, Token: token, ExpiresAt: &exp, Game: &view})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	as := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, sessionRes{ID: as.ID, State: as.State})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	as := sessionFrom(r.Context())
	if _, err := s.store.DeleteSession(r.Context(), as.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// errorStatus maps an error to its response status.
func errorStatus(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case game.IsValidationError(err), errors.Is(err, errBadRequest), errors.As(err, &maxErr):
		return http.StatusBadRequest
	case errors.Is(err, errNoSession), errors.Is(err, session.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errSessionGone):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error. Server errors are logged and their
// detail withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	if status == http.StatusUnauthorized || errors.Is(err, errSessionGone) {
		clearCookie(w)
	}
	writeError(w, status, msg)
}
