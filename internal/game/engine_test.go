package game

import (
	"reflect"
	"testing"
)

// play activates from and then to, failing unless the move lands.
func play(t *testing.T, g *Game, from, to Square) Outcome {
	t.Helper()
	if got := g.ActivateSquare(from.Row, from.Col); got != OutcomeSelected {
		t.Fatalf("select %v: expected %s, got %s", from, OutcomeSelected, got)
	}
	got := g.ActivateSquare(to.Row, to.Col)
	if got != OutcomeMoved && got != OutcomeGameEnded {
		t.Fatalf("move %v->%v: expected a move, got %s", from, to, got)
	}
	return got
}

func TestInitialSetup(t *testing.T) {
	g := New()
	back := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		checks := []struct {
			row  int
			want Piece
		}{
			{0, Piece{back[col], Dark}},
			{1, Piece{Pawn, Dark}},
			{6, Piece{Pawn, Light}},
			{7, Piece{back[col], Light}},
		}
		for _, c := range checks {
			got, ok := g.PieceAt(Sq(c.row, col))
			if !ok || got != c.want {
				t.Fatalf("square (%d,%d): expected %v, got %v (present=%v)", c.row, col, c.want, got, ok)
			}
		}
		for row := 2; row <= 5; row++ {
			if p, ok := g.PieceAt(Sq(row, col)); ok {
				t.Fatalf("square (%d,%d) should be empty, found %v", row, col, p)
			}
		}
	}
	if g.CurrentSide() != Light {
		t.Fatalf("expected light to move first, got %s", g.CurrentSide())
	}
	if g.Phase() != PhaseAwaitingSelection {
		t.Fatalf("expected %s, got %s", PhaseAwaitingSelection, g.Phase())
	}
	if _, over := g.Winner(); over {
		t.Fatalf("fresh game should not be over")
	}
}

func TestTurnEnforcement(t *testing.T) {
	g := New()
	for col := 0; col < BoardSize; col++ {
		for _, row := range []int{0, 1} {
			if got := g.ActivateSquare(row, col); got != OutcomeRejected {
				t.Fatalf("dark piece (%d,%d) selectable on light's turn: %s", row, col, got)
			}
			if _, ok := g.Selection(); ok {
				t.Fatalf("selection set after activating dark piece")
			}
		}
	}
	if got := g.ActivateSquare(4, 4); got != OutcomeRejected {
		t.Fatalf("empty square should be rejected, got %s", got)
	}
	if moves := g.QueryMoves(1, 4); moves != nil {
		t.Fatalf("QueryMoves for opponent piece should be empty, got %v", moves)
	}
	if moves := g.QueryMoves(6, 4); len(moves) != 2 {
		t.Fatalf("QueryMoves for light pawn: expected 2, got %v", moves)
	}
}

func TestOutOfBoundsActivationIsNoop(t *testing.T) {
	g := New()
	before := *g.Board()
	for _, sq := range []Square{Sq(-1, 0), Sq(0, 8), Sq(8, 8), Sq(3, -2)} {
		if got := g.ActivateSquare(sq.Row, sq.Col); got != OutcomeRejected {
			t.Fatalf("activate %v: expected rejected, got %s", sq, got)
		}
	}
	g.ActivateSquare(6, 0)
	if got := g.ActivateSquare(9, 0); got != OutcomeRejected {
		t.Fatalf("off-board destination: expected rejected, got %s", got)
	}
	if sel, ok := g.Selection(); !ok || sel != Sq(6, 0) {
		t.Fatalf("selection should survive a rejected activation, got %v %v", sel, ok)
	}
	if *g.Board() != before {
		t.Fatalf("board changed after rejected activations")
	}
}

func TestIdempotentDeselection(t *testing.T) {
	g := New()
	before := *g.Board()
	if got := g.ActivateSquare(6, 4); got != OutcomeSelected {
		t.Fatalf("expected selected, got %s", got)
	}
	if got := g.ActivateSquare(6, 4); got != OutcomeDeselected {
		t.Fatalf("expected deselected, got %s", got)
	}
	if _, ok := g.Selection(); ok {
		t.Fatalf("selection should be cleared")
	}
	if g.Phase() != PhaseAwaitingSelection {
		t.Fatalf("expected %s, got %s", PhaseAwaitingSelection, g.Phase())
	}
	if *g.Board() != before || g.MoveCount() != 0 || g.CurrentSide() != Light {
		t.Fatalf("deselection mutated game state")
	}
}

func TestIllegalDestinationReselectsOrClears(t *testing.T) {
	g := New()
	g.ActivateSquare(6, 4)
	if got := g.ActivateSquare(6, 3); got != OutcomeReselected {
		t.Fatalf("own piece: expected reselected, got %s", got)
	}
	if sel, _ := g.Selection(); sel != Sq(6, 3) {
		t.Fatalf("expected selection (6,3), got %v", sel)
	}
	if got := g.ActivateSquare(3, 3); got != OutcomeDeselected {
		t.Fatalf("unreachable empty square: expected deselected, got %s", got)
	}
	if _, ok := g.Selection(); ok {
		t.Fatalf("selection should be cleared")
	}
	g.ActivateSquare(7, 0)
	if got := g.ActivateSquare(0, 0); got != OutcomeDeselected {
		t.Fatalf("blocked enemy square: expected deselected, got %s", got)
	}
	if g.MoveCount() != 0 {
		t.Fatalf("illegal attempts must not execute")
	}
}

func TestMoveFlipsTurn(t *testing.T) {
	g := New()
	if got := play(t, g, Sq(6, 4), Sq(4, 4)); got != OutcomeMoved {
		t.Fatalf("expected moved, got %s", got)
	}
	if g.CurrentSide() != Dark {
		t.Fatalf("expected dark to move, got %s", g.CurrentSide())
	}
	if _, ok := g.PieceAt(Sq(6, 4)); ok {
		t.Fatalf("origin square should be empty")
	}
	if p, _ := g.PieceAt(Sq(4, 4)); p != (Piece{Pawn, Light}) {
		t.Fatalf("expected light pawn on (4,4), got %v", p)
	}
	h := g.History()
	if len(h) != 1 || h[0].From != Sq(6, 4) || h[0].To != Sq(4, 4) || h[0].Mover != Light || h[0].Captured != nil {
		t.Fatalf("unexpected history %+v", h)
	}
}

func TestIsLegalFailsClosed(t *testing.T) {
	g := New()
	cases := []struct {
		name     string
		from, to Square
	}{
		{"empty origin", Sq(4, 4), Sq(3, 4)},
		{"wrong side", Sq(1, 4), Sq(3, 4)},
		{"not generated", Sq(6, 4), Sq(3, 4)},
		{"off board", Sq(6, 4), Sq(-2, 4)},
		{"origin off board", Sq(8, 4), Sq(7, 4)},
	}
	for _, c := range cases {
		if g.IsLegal(c.from, c.to) {
			t.Fatalf("%s: IsLegal(%v,%v) should be false", c.name, c.from, c.to)
		}
	}
	if !g.IsLegal(Sq(6, 4), Sq(4, 4)) {
		t.Fatalf("double pawn push should be legal")
	}
}

func TestCaptureBookkeeping(t *testing.T) {
	g := New()
	play(t, g, Sq(6, 4), Sq(4, 4)) // light pawn
	play(t, g, Sq(1, 3), Sq(3, 3)) // dark pawn
	play(t, g, Sq(4, 4), Sq(3, 3)) // light pawn takes

	if p, _ := g.PieceAt(Sq(3, 3)); p != (Piece{Pawn, Light}) {
		t.Fatalf("capturing square should hold the light pawn, got %v", p)
	}
	if got := g.CapturedBy(Light); !reflect.DeepEqual(got, []Piece{{Pawn, Dark}}) {
		t.Fatalf("light should have taken one dark pawn, got %v", got)
	}
	if got := g.CapturedPieces(Dark); len(got) != 1 {
		t.Fatalf("dark tally should hold one piece, got %v", got)
	}
	if got := g.CapturedPieces(Light); len(got) != 0 {
		t.Fatalf("light tally should be empty, got %v", got)
	}
	last := g.History()[2]
	if last.Captured == nil || *last.Captured != (Piece{Pawn, Dark}) {
		t.Fatalf("history should snapshot the captured pawn, got %+v", last)
	}
}

func TestUndoRoundTrip(t *testing.T) {
	g := New()
	startBoard := *g.Board()

	moves := [][2]Square{
		{Sq(6, 4), Sq(4, 4)},
		{Sq(1, 3), Sq(3, 3)},
		{Sq(4, 4), Sq(3, 3)}, // capture
		{Sq(0, 3), Sq(3, 3)}, // queen recaptures
		{Sq(7, 6), Sq(5, 5)},
		{Sq(3, 3), Sq(6, 3)}, // queen takes pawn
		{Sq(7, 3), Sq(6, 3)}, // light queen takes queen
	}
	type snapshot struct {
		board    Board
		captured [2][]Piece
		moves    int
	}
	var snaps []snapshot
	for _, m := range moves {
		snaps = append(snaps, snapshot{*g.Board(), [2][]Piece{g.CapturedPieces(Light), g.CapturedPieces(Dark)}, g.MoveCount()})
		play(t, g, m[0], m[1])
	}
	if got := len(g.CapturedPieces(Dark)) + len(g.CapturedPieces(Light)); got != 4 {
		t.Fatalf("expected 4 captures, got %d", got)
	}

	for i := len(moves) - 1; i >= 0; i-- {
		if got := g.Undo(); got != OutcomeUndone {
			t.Fatalf("undo %d: expected undone, got %s", i, got)
		}
		want := snaps[i]
		if *g.Board() != want.board {
			t.Fatalf("undo %d: board mismatch", i)
		}
		if !reflect.DeepEqual(g.CapturedPieces(Light), want.captured[Light]) ||
			!reflect.DeepEqual(g.CapturedPieces(Dark), want.captured[Dark]) {
			t.Fatalf("undo %d: tallies mismatch: light=%v dark=%v", i, g.CapturedPieces(Light), g.CapturedPieces(Dark))
		}
		if g.MoveCount() != want.moves {
			t.Fatalf("undo %d: expected %d moves, got %d", i, want.moves, g.MoveCount())
		}
	}
	if *g.Board() != startBoard || g.CurrentSide() != Light || len(g.History()) != 0 {
		t.Fatalf("full undo did not restore the starting position")
	}
	if got := g.Undo(); got != OutcomeRejected {
		t.Fatalf("undo on empty history: expected rejected, got %s", got)
	}
}

func TestUndoRemovesTheMatchingCaptureInstance(t *testing.T) {
	b := EmptyBoard(Light)
	b.Place(Sq(7, 4), Piece{King, Light})
	b.Place(Sq(0, 4), Piece{King, Dark})
	b.Place(Sq(4, 0), Piece{Rook, Light})
	b.Place(Sq(4, 3), Piece{Pawn, Dark})
	b.Place(Sq(2, 3), Piece{Pawn, Dark})
	b.Place(Sq(1, 7), Piece{Knight, Dark})
	g := NewFromBoard(b)

	play(t, g, Sq(4, 0), Sq(4, 3)) // rook takes first pawn
	play(t, g, Sq(1, 7), Sq(3, 6))
	play(t, g, Sq(4, 3), Sq(2, 3)) // rook takes second pawn

	if got := len(g.CapturedPieces(Dark)); got != 2 {
		t.Fatalf("expected two dark pawns captured, got %d", got)
	}
	g.Undo()
	if got := len(g.CapturedPieces(Dark)); got != 1 {
		t.Fatalf("expected one capture after undo, got %d", got)
	}
	if p, _ := g.PieceAt(Sq(2, 3)); p != (Piece{Pawn, Dark}) {
		t.Fatalf("second pawn not restored, got %v", p)
	}
	if p, _ := g.PieceAt(Sq(4, 3)); p != (Piece{Rook, Light}) {
		t.Fatalf("rook not restored, got %v", p)
	}
}

func TestKingCaptureEndsGame(t *testing.T) {
	b := EmptyBoard(Light)
	b.Place(Sq(7, 4), Piece{King, Light})
	b.Place(Sq(0, 4), Piece{King, Dark})
	b.Place(Sq(5, 4), Piece{Rook, Light})
	g := NewFromBoard(b)

	if got := play(t, g, Sq(5, 4), Sq(0, 4)); got != OutcomeGameEnded {
		t.Fatalf("expected game_ended, got %s", got)
	}
	w, over := g.Winner()
	if !over || w != Light {
		t.Fatalf("expected light to win, got %s over=%v", w, over)
	}
	if g.Phase() != PhaseGameOver {
		t.Fatalf("expected %s, got %s", PhaseGameOver, g.Phase())
	}
	if got := g.ActivateSquare(0, 4); got != OutcomeRejected {
		t.Fatalf("activation after game over should be rejected, got %s", got)
	}
	if moves := g.QueryMoves(0, 4); moves != nil {
		t.Fatalf("no moves after game over, got %v", moves)
	}

	if got := g.Undo(); got != OutcomeUndone {
		t.Fatalf("undo from game over: expected undone, got %s", got)
	}
	if _, over := g.Winner(); over {
		t.Fatalf("undo should revive the game")
	}
	if p, ok := g.PieceAt(Sq(0, 4)); !ok || p != (Piece{King, Dark}) {
		t.Fatalf("dark king not restored, got %v", p)
	}
	if g.CurrentSide() != Light || g.Phase() != PhaseAwaitingSelection {
		t.Fatalf("expected light awaiting selection, got %s %s", g.CurrentSide(), g.Phase())
	}
}

func TestPositionWithoutKingToMoveIsOver(t *testing.T) {
	b := EmptyBoard(Dark)
	b.Place(Sq(7, 4), Piece{King, Light})
	b.Place(Sq(1, 1), Piece{Pawn, Dark})
	g := NewFromBoard(b)
	w, over := g.Winner()
	if !over || w != Light {
		t.Fatalf("expected light as winner, got %s over=%v", w, over)
	}
	if got := g.Undo(); got != OutcomeRejected {
		t.Fatalf("undo without history should be rejected, got %s", got)
	}
}

func TestNewGameResetsEverything(t *testing.T) {
	g := New()
	id := g.ID
	play(t, g, Sq(6, 4), Sq(4, 4))
	play(t, g, Sq(1, 3), Sq(3, 3))
	play(t, g, Sq(4, 4), Sq(3, 3))
	g.ActivateSquare(1, 0)

	if got := g.NewGame(); got != OutcomeReset {
		t.Fatalf("expected reset, got %s", got)
	}
	if *g.Board() != *NewBoard() {
		t.Fatalf("board not reset")
	}
	if g.MoveCount() != 0 || len(g.CapturedPieces(Dark)) != 0 || g.CurrentSide() != Light {
		t.Fatalf("history, tallies or side not reset")
	}
	if _, ok := g.Selection(); ok {
		t.Fatalf("selection not cleared")
	}
	if g.ID != id {
		t.Fatalf("new game must keep the session id")
	}
}

func TestHistoryIsIsolatedFromCallers(t *testing.T) {
	g := New()
	play(t, g, Sq(6, 4), Sq(4, 4))
	play(t, g, Sq(1, 3), Sq(3, 3))
	play(t, g, Sq(4, 4), Sq(3, 3))

	h := g.History()
	h[2].Captured.Kind = Queen
	h[0].Moved = Piece{King, Dark}
	g.Undo()
	if p, _ := g.PieceAt(Sq(3, 3)); p != (Piece{Pawn, Dark}) {
		t.Fatalf("undo restored a tampered snapshot: %v", p)
	}
}

func TestStateSnapshot(t *testing.T) {
	g := New()
	g.ActivateSquare(7, 1)
	st := g.State()
	if st.Phase != PhaseAwaitingDestination || st.Selected == nil || *st.Selected != Sq(7, 1) {
		t.Fatalf("unexpected selection in state: %+v", st)
	}
	if len(st.Targets) != 2 {
		t.Fatalf("expected 2 targets for the knight, got %v", st.Targets)
	}
	if len(st.Pieces) != 32 || st.Winner != nil || st.LastMove != nil {
		t.Fatalf("unexpected state %+v", st)
	}
}
