// internal/game/movegen.go
//
// Pseudo-legal move generation, one pure function per piece kind.
//
// Rules implemented:
//   - Pawn:   one step forward onto an empty square, two from the starting
//             rank when both squares are empty, one diagonal-forward capture.
//   - Rook/Bishop/Queen: slide along rays, stop at the first occupied square
//             and include it only when it holds an enemy piece.
//   - Knight/King: fixed offset sets, blocked only by friendly pieces.
//
// Not implemented on purpose: check avoidance, castling, en passant, promotion.
// Output order is not significant.

package game

type delta struct{ dr, dc int }

var (
	orthogonal = []delta{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = []delta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	allDirs    = append(append([]delta{}, orthogonal...), diagonal...)

	knightJumps = []delta{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
)

type moveFunc func(b *Board, from Square, side Side) []Square

// generators is indexed by Kind; the kind set is closed.
var generators = [...]moveFunc{
	Pawn:   pawnMoves,
	Knight: knightMoves,
	Bishop: bishopMoves,
	Rook:   rookMoves,
	Queen:  queenMoves,
	King:   kingMoves,
}

// GenerateMoves returns the destinations reachable by the piece on from.
// It returns nil for an empty or off-board square.
func GenerateMoves(b *Board, from Square) []Square {
	p, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	return movesFor(b, from, p)
}

func movesFor(b *Board, from Square, p Piece) []Square {
	if int(p.Kind) >= len(generators) || generators[p.Kind] == nil {
		return nil
	}
	return generators[p.Kind](b, from, p.Side)
}

// pawnDirection is -1 for light (towards row 0) and +1 for dark.
func pawnDirection(side Side) int {
	if side == Light {
		return -1
	}
	return 1
}

func pawnStartRow(side Side) int {
	if side == Light {
		return 6
	}
	return 1
}

func pawnMoves(b *Board, from Square, side Side) []Square {
	dir := pawnDirection(side)
	moves := make([]Square, 0, 4)

	one := from.Offset(dir, 0)
	if one.InBounds() {
		if _, occupied := b.PieceAt(one); !occupied {
			moves = append(moves, one)
			two := from.Offset(2*dir, 0)
			if from.Row == pawnStartRow(side) && two.InBounds() {
				if _, occupied := b.PieceAt(two); !occupied {
					moves = append(moves, two)
				}
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		diag := from.Offset(dir, dc)
		if target, ok := b.PieceAt(diag); ok && target.Side != side {
			moves = append(moves, diag)
		}
	}
	return moves
}

func rookMoves(b *Board, from Square, side Side) []Square {
	return slide(b, from, side, orthogonal)
}

func bishopMoves(b *Board, from Square, side Side) []Square {
	return slide(b, from, side, diagonal)
}

func queenMoves(b *Board, from Square, side Side) []Square {
	return slide(b, from, side, allDirs)
}

func knightMoves(b *Board, from Square, side Side) []Square {
	return step(b, from, side, knightJumps)
}

func kingMoves(b *Board, from Square, side Side) []Square {
	return step(b, from, side, allDirs)
}

// slide walks each ray until the board edge or the first occupied square.
func slide(b *Board, from Square, side Side, dirs []delta) []Square {
	moves := make([]Square, 0, 14)
	for _, d := range dirs {
		for sq := from.Offset(d.dr, d.dc); sq.InBounds(); sq = sq.Offset(d.dr, d.dc) {
			target, occupied := b.PieceAt(sq)
			if !occupied {
				moves = append(moves, sq)
				continue
			}
			if target.Side != side {
				moves = append(moves, sq)
			}
			break
		}
	}
	return moves
}

// step checks each single offset for bounds and friendly occupancy.
func step(b *Board, from Square, side Side, offsets []delta) []Square {
	moves := make([]Square, 0, len(offsets))
	for _, d := range offsets {
		sq := from.Offset(d.dr, d.dc)
		if !sq.InBounds() {
			continue
		}
		if target, occupied := b.PieceAt(sq); occupied && target.Side == side {
			continue
		}
		moves = append(moves, sq)
	}
	return moves
}
