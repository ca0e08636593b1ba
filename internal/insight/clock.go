package insight

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock converts a "MM:SS" game clock into fractional minutes remaining.
func ParseClock(clock string) (float64, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock %q", clock)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", clock, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", clock, err)
	}
	return float64(minutes) + float64(seconds)/60.0, nil
}

// ElapsedMinutes returns total game minutes played given the current quarter
// and the clock remaining in that quarter. Overtime periods are treated as
// regular 12-minute periods.
func ElapsedMinutes(quarter int, clock string) (float64, error) {
	remaining, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	completed := quarter - 1
	if completed < 0 {
		completed = 0
	}
	return float64(completed)*12 + (12 - remaining), nil
}
