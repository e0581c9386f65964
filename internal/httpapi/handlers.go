package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/game"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// ------------------------------ views ---------------------------------------

type ingredientView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// objectiveView describes what the session's mode asks for.
type objectiveView struct {
	// exact-craft
	Target  []element.Element `json:"target,omitempty"`
	MinSize int               `json:"minSize,omitempty"`
	// profile-hunt
	Ingredient *ingredientView `json:"ingredient,omitempty"`
}

// gameView is the client-facing game. Compositions are withheld.
type gameView struct {
	Seed        string           `json:"seed"`
	Daily       bool             `json:"daily"`
	Mode        game.Mode        `json:"mode"`
	MaxCombo    int              `json:"maxCombo"`
	Pairs       []element.Pair   `json:"pairs"`
	Ingredients []ingredientView `json:"ingredients"`
	Objective   objectiveView    `json:"objective"`
}

func newGameView(g *game.Game, mode game.Mode) gameView {
	v := gameView{
		Seed:        g.Seed,
		Daily:       g.Daily,
		Mode:        mode,
		MaxCombo:    g.MaxCombo,
		Pairs:       element.Pairs,
		Ingredients: make([]ingredientView, len(g.Ingredients)),
	}
	for k, ing := range g.Ingredients {
		v.Ingredients[k] = ingredientView{ID: ing.ID, Name: ing.Name}
	}
	switch mode {
	case game.ModeExactCraft:
		v.Objective.Target = g.TargetOrder
		v.Objective.MinSize = g.MinSizeForTarget
	case game.ModeProfileHunt:
		v.Objective.Ingredient = &ingredientView{ID: g.ProfileHuntTarget.ID, Name: g.ProfileHuntTarget.Name}
	}
	return v
}

// ----------------------------- handlers -------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	as := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, newGameView(as.Game, as.State.Mode))
}

type brewReq struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleBrew(w http.ResponseWriter, r *http.Request) {
	var req brewReq
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := sessionFrom(r.Context()).Game.Brew(req.IDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type estimateReq struct {
	IDs   []string     `json:"ids"`
	Marks deduce.Sheet `json:"marks"`
}

// estimateRes carries a nil estimate when fewer than two ids are selected.
type estimateRes struct {
	Estimate *deduce.Estimate `json:"estimate"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateReq
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validSheet(req.Marks); err != nil {
		s.fail(w, r, err)
		return
	}
	est, ok, err := sessionFrom(r.Context()).Game.Estimate(req.IDs, req.Marks)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, estimateRes{})
		return
	}
	writeJSON(w, http.StatusOK, estimateRes{Estimate: &est})
}

type checkReq struct {
	IDs   []string     `json:"ids"`
	Marks deduce.Sheet `json:"marks"`
}

type checkRes struct {
	Mode    game.Mode          `json:"mode"`
	Solved  bool               `json:"solved"`
	Brew    *brew.Result       `json:"brew,omitempty"`
	Mapping *game.MappingScore `json:"mapping,omitempty"`
}

// handleCheck verifies an answer against the session's mode: ids for
// exact-craft, marks for profile-hunt and full-mapping.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkReq
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	as := sessionFrom(r.Context())
	g := as.Game
	res := checkRes{Mode: as.State.Mode}

	switch as.State.Mode {
	case game.ModeExactCraft:
		b, err := g.Brew(req.IDs)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		res.Brew = &b
		res.Solved = brew.Equal(b.Effects, g.TargetOrder)
	case game.ModeProfileHunt:
		if err := validSheet(req.Marks); err != nil {
			s.fail(w, r, err)
			return
		}
		res.Solved = g.CheckProfile(req.Marks[g.ProfileHuntTarget.ID])
	case game.ModeFullMapping:
		if err := validSheet(req.Marks); err != nil {
			s.fail(w, r, err)
			return
		}
		score := g.CheckMapping(req.Marks)
		res.Mapping = &score
		res.Solved = score.Solved()
	}

	if res.Solved {
		s.logger.Info("puzzle solved", "session", as.ID, "mode", as.State.Mode)
	}
	writeJSON(w, http.StatusOK, res)
}

type solutionRes struct {
	TargetOrder         []element.Element `json:"targetOrder"`
	TargetIDs           []string          `json:"targetIds"`
	Solution            []string          `json:"solution"`
	ProfileHuntTarget   string            `json:"profileHuntTarget"`
	FullMappingProfiles []game.Profile    `json:"fullMappingProfiles"`
}

// handleSolution reveals the answers. Mounted only in debug mode.
func (s *Server) handleSolution(w http.ResponseWriter, r *http.Request) {
	g := sessionFrom(r.Context()).Game
	sol, _ := g.Solve()
	writeJSON(w, http.StatusOK, solutionRes{
		TargetOrder:         g.TargetOrder,
		TargetIDs:           g.TargetIDs,
		Solution:            sol,
		ProfileHuntTarget:   g.ProfileHuntTarget.ID,
		FullMappingProfiles: g.FullMappingProfiles,
	})
}

// ------------------------------ helpers -------------------------------------

func validSheet(sheet deduce.Sheet) error {
	if err := sheet.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodeBody decodes a JSON body strictly. An empty body leaves v zero.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
