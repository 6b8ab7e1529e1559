// internal/game/history.go
//
// Linear move history. Entries are value snapshots, never references into
// the live board, so later board mutation cannot corrupt an undo.

package game

// HistoryEntry records one executed move, enough to restore the prior board.
type HistoryEntry struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Moved    Piece  `json:"moved"`
	Captured *Piece `json:"captured,omitempty"`
	Mover    Side   `json:"mover"`

	// tallyIndex is the position of Captured in its side's tally, -1 if none.
	tallyIndex int
}

// History is a push/pop stack of executed moves.
type History struct {
	entries []HistoryEntry
}

func (h *History) Push(e HistoryEntry) { h.entries = append(h.entries, e) }

// Pop removes and returns the most recent entry.
func (h *History) Pop() (HistoryEntry, bool) {
	n := len(h.entries)
	if n == 0 {
		return HistoryEntry{}, false
	}
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return e, true
}

// Last returns the most recent entry without removing it.
func (h *History) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	for i := range out {
		if c := out[i].Captured; c != nil {
			cp := *c
			out[i].Captured = &cp
		}
	}
	return out
}

func (h *History) reset() { h.entries = nil }
