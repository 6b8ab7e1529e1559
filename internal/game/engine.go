// internal/game/engine.go
//
// Game controller for a single chess session.
// Responsibilities:
//   - Own the board, the move history and the captured-piece tallies.
//   - Drive the selection state machine from square activations.
//   - Validate (IsLegal), execute and undo moves.
//   - Detect the terminal state: the side to move has no king.
//
// Notes:
//   - A Game is single-threaded. Callers sharing one across goroutines must
//     serialise access (see internal/store).
//   - Rejected actions never change state; every action reports an Outcome.
//   - King capture stands in for checkmate.
package game

import (
	"time"

	"github.com/google/uuid"
)

// Game is one chess session.
type Game struct {
	ID        string
	StartedAt time.Time

	board    *Board
	history  History
	captured [2][]Piece // indexed by the side the pieces belonged to

	phase     Phase
	selection Square
	winner    Side
}

// New constructs a game in the standard starting position.
func New() *Game {
	g := &Game{ID: uuid.NewString()}
	g.NewGame()
	return g
}

// NewFromBoard starts a game from an arbitrary position. The board is copied.
// A position where the side to move has no king is already over.
func NewFromBoard(b *Board) *Game {
	g := &Game{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
	g.board = b.Clone()
	g.settle()
	return g
}

// NewGame resets board, history, tallies and selection to a fresh start.
func (g *Game) NewGame() Outcome {
	g.board = NewBoard()
	g.history.reset()
	g.captured = [2][]Piece{}
	g.StartedAt = time.Now().UTC()
	g.settle()
	return OutcomeReset
}

// ActivateSquare is the single entry point for player interaction.
//
// Transitions:
//   - awaiting selection + own piece          → selected
//   - awaiting destination + same square      → deselected
//   - awaiting destination + legal target     → moved (or game_ended)
//   - awaiting destination + illegal target   → reselected if it holds an own
//     piece, otherwise deselected
//   - anything else (empty/enemy square, off-board, game over) → rejected
func (g *Game) ActivateSquare(row, col int) Outcome {
	sq := Sq(row, col)
	if !sq.InBounds() || g.phase == PhaseGameOver {
		return OutcomeRejected
	}

	if g.phase == PhaseAwaitingSelection {
		if !g.selectable(sq) {
			return OutcomeRejected
		}
		g.selection = sq
		g.phase = PhaseAwaitingDestination
		return OutcomeSelected
	}

	from := g.selection
	if sq == from {
		g.clearSelection()
		return OutcomeDeselected
	}
	if g.IsLegal(from, sq) {
		g.execute(from, sq)
		g.board.SetSideToMove(g.board.SideToMove().Opposite())
		g.settle()
		if g.phase == PhaseGameOver {
			return OutcomeGameEnded
		}
		return OutcomeMoved
	}
	if g.selectable(sq) {
		g.selection = sq
		return OutcomeReselected
	}
	g.clearSelection()
	return OutcomeDeselected
}

// QueryMoves lists the destinations for the piece on (row, col), or nil
// when that piece may not move now.
func (g *Game) QueryMoves(row, col int) []Square {
	sq := Sq(row, col)
	if g.phase == PhaseGameOver || !g.selectable(sq) {
		return nil
	}
	return GenerateMoves(g.board, sq)
}

// IsLegal is the single legality gate. It fails closed.
func (g *Game) IsLegal(from, to Square) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	p, ok := g.board.PieceAt(from)
	if !ok || p.Side != g.board.SideToMove() {
		return false
	}
	for _, m := range movesFor(g.board, from, p) {
		if m == to {
			return true
		}
	}
	return false
}

// execute applies a move already confirmed by IsLegal. It does not flip the
// side to move, keeping execute and undo symmetric.
func (g *Game) execute(from, to Square) {
	moved, _ := g.board.PieceAt(from)
	entry := HistoryEntry{From: from, To: to, Moved: moved, Mover: g.board.SideToMove(), tallyIndex: -1}

	if victim, ok := g.board.PieceAt(to); ok {
		snap := victim
		entry.Captured = &snap
		entry.tallyIndex = len(g.captured[victim.Side])
		g.captured[victim.Side] = append(g.captured[victim.Side], victim)
	}

	g.board.Clear(from)
	g.board.Place(to, moved)
	g.history.Push(entry)
}

// Undo reverses the most recent move. It is rejected when the history is
// empty and is allowed from game over, reviving the game.
func (g *Game) Undo() Outcome {
	e, ok := g.history.Pop()
	if !ok {
		return OutcomeRejected
	}
	g.board.Place(e.From, e.Moved)
	if e.Captured != nil {
		g.board.Place(e.To, *e.Captured)
		tally := g.captured[e.Captured.Side]
		if i := e.tallyIndex; i >= 0 && i < len(tally) {
			g.captured[e.Captured.Side] = append(tally[:i:i], tally[i+1:]...)
		}
	} else {
		g.board.Clear(e.To)
	}
	g.board.SetSideToMove(e.Mover)
	g.settle()
	return OutcomeUndone
}

// settle clears the selection and re-evaluates the terminal condition.
func (g *Game) settle() {
	g.clearSelection()
	toMove := g.board.SideToMove()
	if !g.board.HasKing(toMove) {
		g.phase = PhaseGameOver
		g.winner = toMove.Opposite()
	}
}

func (g *Game) clearSelection() {
	g.selection = Square{}
	g.phase = PhaseAwaitingSelection
}

// selectable reports whether sq holds a piece of the side to move.
func (g *Game) selectable(sq Square) bool {
	p, ok := g.board.PieceAt(sq)
	return ok && p.Side == g.board.SideToMove()
}

// ---- observers ----

func (g *Game) CurrentSide() Side { return g.board.SideToMove() }

func (g *Game) PieceAt(sq Square) (Piece, bool) { return g.board.PieceAt(sq) }

func (g *Game) Phase() Phase { return g.phase }

// Board returns a copy of the current board.
func (g *Game) Board() *Board { return g.board.Clone() }

// Selection returns the selected square while awaiting a destination.
func (g *Game) Selection() (Square, bool) {
	return g.selection, g.phase == PhaseAwaitingDestination
}

// Winner reports the winning side once the game is over.
func (g *Game) Winner() (Side, bool) {
	return g.winner, g.phase == PhaseGameOver
}

// CapturedPieces returns the pieces of side that have been removed, in capture order.
func (g *Game) CapturedPieces(side Side) []Piece {
	out := make([]Piece, len(g.captured[side]))
	copy(out, g.captured[side])
	return out
}

// CapturedBy returns the pieces that side has taken from its opponent.
func (g *Game) CapturedBy(side Side) []Piece {
	return g.CapturedPieces(side.Opposite())
}

// History returns a copy of the move log, oldest first.
func (g *Game) History() []HistoryEntry { return g.history.Entries() }

// MoveCount is the number of moves currently in the history.
func (g *Game) MoveCount() int { return g.history.Len() }
