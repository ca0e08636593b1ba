package insight

import "testing"

func TestParseClock(t *testing.T) {
	got, err := ParseClock("06:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 6.5 {
		t.Fatalf("expected 6.5, got %v", got)
	}
}

func TestParseClockMalformed(t *testing.T) {
	if _, err := ParseClock("630"); err == nil {
		t.Fatalf("expected error for missing separator")
	}
	if _, err := ParseClock("ab:cd"); err == nil {
		t.Fatalf("expected error for non-numeric clock")
	}
}

func TestElapsedMinutes(t *testing.T) {
	cases := []struct {
		quarter int
		clock   string
		want    float64
	}{
		{1, "12:00", 0},
		{1, "06:00", 6},
		{2, "06:00", 18},
		{4, "00:00", 48},
		{0, "12:00", 0},
	}
	for _, c := range cases {
		got, err := ElapsedMinutes(c.quarter, c.clock)
		if err != nil {
			t.Fatalf("q%d %s: unexpected error: %v", c.quarter, c.clock, err)
		}
		if got != c.want {
			t.Fatalf("q%d %s: expected %v, got %v", c.quarter, c.clock, c.want, got)
		}
	}
}
