package insight

import (
	"fmt"
	"testing"
)

func TestPaceMemoryRememberAndLookup(t *testing.T) {
	m := NewPaceMemory()
	if _, ok := m.LastValid("g1"); ok {
		t.Fatalf("expected miss on empty memory")
	}

	m.Remember("g1", 101.5)
	got, ok := m.LastValid("g1")
	if !ok || got != 101.5 {
		t.Fatalf("expected 101.5, got %v ok=%v", got, ok)
	}

	// Last writer wins.
	m.Remember("g1", 98.0)
	got, _ = m.LastValid("g1")
	if got != 98.0 {
		t.Fatalf("expected 98.0, got %v", got)
	}
}

func TestPaceMemoryEviction(t *testing.T) {
	m := NewPaceMemoryWithCapacity(2)
	m.Remember("g1", 90)
	m.Remember("g2", 95)
	m.Remember("g3", 100)

	if _, ok := m.LastValid("g1"); ok {
		t.Fatalf("expected oldest entry evicted")
	}
	if _, ok := m.LastValid("g2"); !ok {
		t.Fatalf("expected g2 retained")
	}
	if _, ok := m.LastValid("g3"); !ok {
		t.Fatalf("expected g3 retained")
	}
}

func TestPaceMemoryLookupRefreshesRecency(t *testing.T) {
	m := NewPaceMemoryWithCapacity(2)
	m.Remember("g1", 90)
	m.Remember("g2", 95)
	m.LastValid("g1")
	m.Remember("g3", 100)

	if _, ok := m.LastValid("g2"); ok {
		t.Fatalf("expected g2 evicted after g1 was touched")
	}
	if _, ok := m.LastValid("g1"); !ok {
		t.Fatalf("expected g1 retained")
	}
}

func TestPaceMemoryBounded(t *testing.T) {
	m := NewPaceMemoryWithCapacity(16)
	for i := 0; i < 100; i++ {
		m.Remember(fmt.Sprintf("g%d", i), float64(i))
	}
	if m.order.Len() != 16 {
		t.Fatalf("expected 16 entries, got %d", m.order.Len())
	}
}
