package insight

import (
	"container/list"
	"sync"
)

const defaultMemoryCapacity = 4096

// PaceMemory remembers the last accepted pace per game so a momentarily
// invalid estimate can fall back to the previous one. Bounded LRU so
// long-running processes do not grow without limit.
type PaceMemory struct {
	mu    sync.Mutex
	cap   int
	items map[string]*list.Element
	order *list.List
}

type memoryEntry struct {
	gameID string
	pace   float64
}

// NewPaceMemory creates a pace memory with the default capacity.
func NewPaceMemory() *PaceMemory {
	return NewPaceMemoryWithCapacity(defaultMemoryCapacity)
}

// NewPaceMemoryWithCapacity creates a pace memory bounded to cap entries.
func NewPaceMemoryWithCapacity(capacity int) *PaceMemory {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &PaceMemory{
		cap:   capacity,
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Remember stores the last valid pace for a game. Last writer wins.
func (m *PaceMemory) Remember(gameID string, pace float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[gameID]; ok {
		el.Value.(*memoryEntry).pace = pace
		m.order.MoveToFront(el)
		return
	}

	if m.order.Len() >= m.cap {
		oldest := m.order.Back()
		if oldest != nil {
			delete(m.items, oldest.Value.(*memoryEntry).gameID)
			m.order.Remove(oldest)
		}
	}

	m.items[gameID] = m.order.PushFront(&memoryEntry{gameID: gameID, pace: pace})
}

// LastValid returns the remembered pace for a game, false when absent.
func (m *PaceMemory) LastValid(gameID string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[gameID]
	if !ok {
		return 0, false
	}
	m.order.MoveToFront(el)
	return el.Value.(*memoryEntry).pace, true
}
