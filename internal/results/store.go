// internal/results/store.go
//
// SQLite persistence for chess games and their results.
//   - games:   one row per session (owner, status, move counter).
//   - results: one row per finished game, ranked by moves then time.
//   - users:   per-account counters bumped once per finished game.

package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Owner identifies who a game belongs to: an account or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

// Result is a finished game as recorded in the results table.
type Result struct {
	GameID    string `json:"gameId"`
	UserID    string `json:"userId,omitempty"` // filled from the games row by Finish
	Winner    string `json:"winner"`
	Moves     int    `json:"moves"`
	Captures  int    `json:"captures"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// GameRow is a summary of one game for a user's history.
type GameRow struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Winner     string `json:"winner,omitempty"`
	Moves      int    `json:"moves"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	GameID    string `json:"gameId"`
	UserID    string `json:"userId,omitempty"`
	Winner    string `json:"winner"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// CreateGame inserts the owner row for a new session.
func (s *Store) CreateGame(ctx context.Context, id string, owner Owner, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, started_at, status, moves)
		 VALUES (?, ?, ?, ?, 'playing', 0)`,
		id, nullable(owner.UserID), nullable(owner.AnonymousID), startedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// SetMoves records the current length of a game's history.
func (s *Store) SetMoves(ctx context.Context, id string, moves int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE games SET moves=? WHERE id=?`, moves, id)
	return err
}

// RestartGame puts a session's row back to "playing" after a new game.
// Results of earlier rounds are kept.
func (s *Store) RestartGame(ctx context.Context, id string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET status='playing', winner=NULL, finished_at=NULL, moves=0, started_at=?
		 WHERE id=?`, startedAt.UTC().Format(time.RFC3339), id)
	return err
}

// Finish marks a game as won and records its result for the game's owner.
// It reports whether this call performed the transition: a game revived by
// undo and won again keeps its first result, and stats are bumped once.
func (s *Store) Finish(ctx context.Context, r Result) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE games SET status='finished', winner=?, finished_at=?, moves=?
		 WHERE id=? AND status='playing'`,
		r.Winner, time.Now().UTC().Format(time.RFC3339), r.Moves, r.GameID,
	)
	if err != nil {
		return false, fmt.Errorf("finish game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	var owner sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, r.GameID).Scan(&owner); err != nil {
		return false, fmt.Errorf("read owner: %w", err)
	}
	r.UserID = owner.String

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO results (game_id, user_id, winner, moves, captures, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.GameID, nullable(r.UserID), r.Winner, r.Moves, r.Captures, r.ElapsedMs,
	); err != nil {
		return false, fmt.Errorf("insert result: %w", err)
	}

	if r.UserID != "" {
		if err := bumpStats(ctx, tx, r.UserID, r.Winner); err != nil {
			return false, fmt.Errorf("bump stats: %w", err)
		}
	}
	return true, tx.Commit()
}

// bumpStats increments games played and the winning side's counter (within tx).
func bumpStats(ctx context.Context, tx *sql.Tx, userID, winner string) error {
	col := "dark_wins"
	if winner == "light" {
		col = "light_wins"
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET games_played = games_played + 1, `+col+` = `+col+` + 1 WHERE id=?`, userID)
	return err
}

// ClaimAnonymous transfers an anonymous visitor's games to an account.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE results SET user_id=? WHERE user_id IS NULL AND game_id IN (SELECT id FROM games WHERE user_id=?)`,
		userID, userID)
	return err
}

// RecentGames lists a user's games, newest first.
func (s *Store) RecentGames(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, COALESCE(winner,''), moves, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var gr GameRow
		if err := rows.Scan(&gr.ID, &gr.Status, &gr.Winner, &gr.Moves, &gr.StartedAt, &gr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, gr)
	}
	return out, rows.Err()
}

// Leaderboard returns the quickest finished games: fewest moves, then
// shortest wall time, then earliest.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, COALESCE(user_id,''), winner, moves, elapsed_ms
		 FROM results
		 ORDER BY moves ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.GameID, &r.UserID, &r.Winner, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
