// internal/httpserver/routes_stats.go
//
// Read-only result endpoints:
//   - GET /leaderboard → quickest king captures (public, ?limit= up to 100)
//   - GET /stats/me    → win counters of the signed-in user
//   - GET /games/mine  → the signed-in user's recent games

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/boardgames/apps/chess-server/internal/results"
)

const maxLeaderboard = 100

type lbRes struct {
	Top []results.LBRow `json:"top"`
}

// handleLeaderboard returns the fastest finished games.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_query")
			return
		}
		limit = min(n, maxLeaderboard)
	}
	rows, err := s.results.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Top: rows})
}

type statsRes struct {
	GamesPlayed int `json:"gamesPlayed"`
	LightWins   int `json:"lightWins"`
	DarkWins    int `json:"darkWins"`
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	u, err := s.findUserByID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	_ = json.NewEncoder(w).Encode(statsRes{GamesPlayed: u.GamesPlayed, LightWins: u.LightWins, DarkWins: u.DarkWins})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	rows, err := s.results.RecentGames(r.Context(), me.ID, 50)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("recent games")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}
