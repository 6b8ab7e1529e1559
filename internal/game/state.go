package game

// State is a read-only, JSON-ready snapshot of a game for the rendering layer.
type State struct {
	ID       string           `json:"id"`
	Phase    Phase            `json:"phase"`
	Turn     Side             `json:"turn"`
	Selected *Square          `json:"selected,omitempty"`
	Targets  []Square         `json:"targets,omitempty"`
	Winner   *Side            `json:"winner,omitempty"`
	Pieces   []PlacedPiece    `json:"pieces"`
	Captured map[Side][]Piece `json:"captured"`
	Moves    int              `json:"moves"`
	LastMove *HistoryEntry    `json:"lastMove,omitempty"`
}

// State builds a snapshot. Targets holds the legal destinations of the
// selected piece so the renderer can highlight them.
func (g *Game) State() State {
	st := State{
		ID:     g.ID,
		Phase:  g.phase,
		Turn:   g.board.SideToMove(),
		Pieces: g.board.Pieces(),
		Captured: map[Side][]Piece{
			Light: g.CapturedPieces(Light),
			Dark:  g.CapturedPieces(Dark),
		},
		Moves: g.history.Len(),
	}
	if sel, ok := g.Selection(); ok {
		st.Selected = &sel
		st.Targets = g.QueryMoves(sel.Row, sel.Col)
	}
	if w, ok := g.Winner(); ok {
		st.Winner = &w
	}
	if last, ok := g.history.Last(); ok {
		if last.Captured != nil {
			cp := *last.Captured
			last.Captured = &cp
		}
		st.LastMove = &last
	}
	return st
}
