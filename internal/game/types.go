// internal/game/types.go
//
// Core type definitions for the chess engine.
// Defines:
//   - Side:    the two players (light moves first, dark second).
//   - Kind:    the six piece kinds; the zero value means "no piece".
//   - Piece:   an immutable {kind, side} value.
//   - Square:  a (row, col) coordinate; row 0 is dark's back rank.
//   - Phase:   the controller state (awaiting selection/destination, game over).
//   - Outcome: explicit result of every player action.

package game

import "fmt"

// Side identifies one of the two players.
type Side uint8

const (
	Light Side = iota
	Dark
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Light {
		return Dark
	}
	return Light
}

func (s Side) String() string {
	if s == Light {
		return "light"
	}
	return "dark"
}

// MarshalText encodes a Side as "light"/"dark" (also used for JSON map keys).
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the strings produced by MarshalText.
func (s *Side) UnmarshalText(b []byte) error {
	v, ok := ParseSide(string(b))
	if !ok {
		return fmt.Errorf("invalid side %q", string(b))
	}
	*s = v
	return nil
}

// ParseSide maps "light"/"dark" to a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "light":
		return Light, true
	case "dark":
		return Dark, true
	}
	return Light, false
}

// Kind is the type of a chess piece. The zero value is not a piece.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "none",
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid kind %q", string(b))
}

// Piece is a value: moving a piece relocates it, it never mutates it.
type Piece struct {
	Kind Kind `json:"kind"`
	Side Side `json:"side"`
}

// IsZero reports whether p represents an empty square.
func (p Piece) IsZero() bool { return p.Kind == NoKind }

func (p Piece) String() string { return p.Side.String() + " " + p.Kind.String() }

// Square is a board coordinate. Row 0 is dark's back rank, row 7 light's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square { return Square{Row: row, Col: col} }

// InBounds reports whether the square lies on the 8x8 board.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Offset returns the square dr rows and dc columns away. The result may be off-board.
func (s Square) Offset(dr, dc int) Square { return Square{Row: s.Row + dr, Col: s.Col + dc} }

func (s Square) String() string { return fmt.Sprintf("(%d,%d)", s.Row, s.Col) }

// Phase is the controller state.
type Phase string

const (
	PhaseAwaitingSelection   Phase = "awaiting_selection"
	PhaseAwaitingDestination Phase = "awaiting_destination"
	PhaseGameOver            Phase = "game_over"
)

// Outcome reports what a player action did. Rejected actions never change state.
type Outcome string

const (
	OutcomeSelected   Outcome = "selected"
	OutcomeDeselected Outcome = "deselected"
	OutcomeReselected Outcome = "reselected"
	OutcomeMoved      Outcome = "moved"
	OutcomeGameEnded  Outcome = "game_ended"
	OutcomeUndone     Outcome = "undone"
	OutcomeReset      Outcome = "reset"
	OutcomeRejected   Outcome = "rejected"
)

// Changed reports whether the outcome altered observable state.
func (o Outcome) Changed() bool { return o != OutcomeRejected }
