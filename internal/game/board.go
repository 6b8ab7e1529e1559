// internal/game/board.go
//
// Board state: an 8x8 grid of optional pieces plus the side to move.
// The board is a plain container and performs no rule validation.

package game

// BoardSize is the number of rows and columns.
const BoardSize = 8

var backRank = [BoardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is comparable with ==, which the tests rely on for undo round trips.
type Board struct {
	squares    [BoardSize][BoardSize]Piece
	sideToMove Side
}

// PlacedPiece pairs a piece with its square, for display.
type PlacedPiece struct {
	Square
	Piece
}

// NewBoard returns the standard starting position with light to move.
// Dark occupies rows 0 and 1, light rows 6 and 7.
func NewBoard() *Board {
	b := EmptyBoard(Light)
	for col, k := range backRank {
		b.squares[0][col] = Piece{Kind: k, Side: Dark}
		b.squares[1][col] = Piece{Kind: Pawn, Side: Dark}
		b.squares[6][col] = Piece{Kind: Pawn, Side: Light}
		b.squares[7][col] = Piece{Kind: k, Side: Light}
	}
	return b
}

// EmptyBoard returns a board with no pieces and the given side to move.
func EmptyBoard(toMove Side) *Board {
	return &Board{sideToMove: toMove}
}

// PieceAt returns the piece on sq, if any. Off-board squares are empty.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	if !sq.InBounds() {
		return Piece{}, false
	}
	p := b.squares[sq.Row][sq.Col]
	return p, !p.IsZero()
}

// Place puts p on sq; a zero Piece clears the square. Off-board squares are ignored.
func (b *Board) Place(sq Square, p Piece) {
	if !sq.InBounds() {
		return
	}
	b.squares[sq.Row][sq.Col] = p
}

// Clear empties sq.
func (b *Board) Clear(sq Square) { b.Place(sq, Piece{}) }

func (b *Board) SideToMove() Side { return b.sideToMove }

func (b *Board) SetSideToMove(s Side) { b.sideToMove = s }

// HasKing reports whether side still has a king on the board.
func (b *Board) HasKing(side Side) bool {
	for r := range b.squares {
		for _, p := range b.squares[r] {
			if p.Kind == King && p.Side == side {
				return true
			}
		}
	}
	return false
}

// Pieces lists every occupied square in row-major order.
func (b *Board) Pieces() []PlacedPiece {
	out := make([]PlacedPiece, 0, 32)
	for r := range b.squares {
		for c, p := range b.squares[r] {
			if !p.IsZero() {
				out = append(out, PlacedPiece{Square: Sq(r, c), Piece: p})
			}
		}
	}
	return out
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}
