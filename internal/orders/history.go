package orders

import (
	"sync"
	"time"
)

// HistoryLog is an append-only ledger of status transitions.
type HistoryLog struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	byOrder map[OrderID][]int
}

func NewHistoryLog() *HistoryLog {
	return &HistoryLog{byOrder: make(map[OrderID][]int)}
}

func (h *HistoryLog) Append(id OrderID, s Status, at time.Time) HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := HistoryEntry{Seq: uint64(len(h.entries) + 1), OrderID: id, Status: s, At: at}
	h.byOrder[id] = append(h.byOrder[id], len(h.entries))
	h.entries = append(h.entries, e)
	return e
}

// For returns the entries of one order in append order. Unknown ids yield nil.
func (h *HistoryLog) For(id OrderID) []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	idx := h.byOrder[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]HistoryEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, h.entries[i])
	}
	return out
}

func (h *HistoryLog) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
