// internal/httpserver/routes_game.go
//
// Game endpoints. All of them run with optional auth so guests can play.
//   - POST /games                 → new session in the standard position
//   - GET  /games/{id}            → state snapshot
//   - POST /games/{id}/activate   → one square activation
//   - GET  /games/{id}/moves      → legal destinations from a square
//   - POST /games/{id}/undo       → revert the last move
//   - POST /games/{id}/new        → reset the session to a fresh game
//
// Every engine call runs inside store.Update, so one session is driven by one
// request at a time. Progress is mirrored to SQLite on a best-effort basis.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/apps/chess-server/internal/game"
	"github.com/robalobadob/boardgames/apps/chess-server/internal/results"
	"github.com/robalobadob/boardgames/apps/chess-server/internal/store"
)

// mountGames registers the /games routes on r.
func (s *Server) mountGames(r chi.Router) {
	r.Post("/games", s.handleNewGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Post("/activate", s.handleActivate)
		r.Get("/moves", s.handleMoves)
		r.Post("/undo", s.handleUndo)
		r.Post("/new", s.handleReset)
	})
}

type newGameRes struct {
	GameID string     `json:"gameId"`
	State  game.State `json:"state"`
}

type activateReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type actionRes struct {
	Outcome game.Outcome `json:"outcome"`
	State   game.State   `json:"state"`
}

type movesRes struct {
	Moves []game.Square `json:"moves"`
}

// handleNewGame creates an in-memory game and persists its owner row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g := game.New()
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	owner := results.Owner{}
	if me := userFrom(r.Context()); me != nil {
		owner.UserID = me.ID
	} else {
		owner.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.results.CreateGame(r.Context(), g.ID, owner, g.StartedAt); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, State: g.State()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var st game.State
	err := s.store.View(r.Context(), chi.URLParam(r, "id"), func(g *game.Game) error {
		st = g.State()
		return nil
	})
	if !s.checkStoreErr(w, err) {
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// handleActivate forwards one square activation to the engine. Rejections are
// part of the response body, not an HTTP error.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.runAction(w, r, func(g *game.Game) game.Outcome {
		return g.ActivateSquare(*req.Row, *req.Col)
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, (*game.Game).Undo)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, func(g *game.Game) game.Outcome {
		out := g.NewGame()
		if err := s.results.RestartGame(r.Context(), g.ID, g.StartedAt); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("restart game row")
		}
		return out
	})
}

// runAction applies act under the session lock and mirrors the result to the DB.
func (s *Server) runAction(w http.ResponseWriter, r *http.Request, act func(g *game.Game) game.Outcome) {
	var res actionRes
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(g *game.Game) error {
		before := g.MoveCount()
		res.Outcome = act(g)
		if res.Outcome != game.OutcomeReset && g.MoveCount() != before {
			s.recordProgress(r, g)
		}
		res.State = g.State()
		return nil
	})
	if !s.checkStoreErr(w, err) {
		return
	}
	if res.Outcome == game.OutcomeRejected {
		log.Debug().Str("gameId", res.State.ID).Msg("action rejected")
	}
	_ = json.NewEncoder(w).Encode(res)
}

// recordProgress stores the move counter and, once a king falls, the result.
// Must be called with the session lock held.
func (s *Server) recordProgress(r *http.Request, g *game.Game) {
	ctx := r.Context()
	if err := s.results.SetMoves(ctx, g.ID, g.MoveCount()); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update moves")
	}
	winner, ok := g.Winner()
	if !ok {
		return
	}
	done, err := s.results.Finish(ctx, results.Result{
		GameID:    g.ID,
		Winner:    winner.String(),
		Moves:     g.MoveCount(),
		Captures:  len(g.CapturedPieces(game.Light)) + len(g.CapturedPieces(game.Dark)),
		ElapsedMs: time.Since(g.StartedAt).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game")
		return
	}
	if done {
		log.Info().Str("gameId", g.ID).Str("winner", winner.String()).Int("moves", g.MoveCount()).Msg("game finished")
	}
}

// handleMoves lists the legal destinations from ?row=&col=. Squares without a
// movable piece yield an empty list.
func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	row, errR := strconv.Atoi(r.URL.Query().Get("row"))
	col, errC := strconv.Atoi(r.URL.Query().Get("col"))
	if errR != nil || errC != nil {
		writeError(w, http.StatusBadRequest, "bad_query")
		return
	}
	res := movesRes{Moves: []game.Square{}}
	err := s.store.View(r.Context(), chi.URLParam(r, "id"), func(g *game.Game) error {
		if m := g.QueryMoves(row, col); m != nil {
			res.Moves = m
		}
		return nil
	})
	if !s.checkStoreErr(w, err) {
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// checkStoreErr writes the HTTP error for a failed store call and reports
// whether the handler may continue.
func (s *Server) checkStoreErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		log.Error().Err(err).Msg("store")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
	return false
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
