package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2025-11-02T19:30:00Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestAgeSeconds(t *testing.T) {
    now := time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC)
    if got := AgeSeconds(now.Add(-42*time.Second), now); got != 42 {
        t.Fatalf("expected 42, got %d", got)
    }
    if got := AgeSeconds(time.Time{}, now); got != 0 {
        t.Fatalf("expected 0 for zero time, got %d", got)
    }
    if got := AgeSeconds(now.Add(5*time.Second), now); got != 0 {
        t.Fatalf("expected 0 for future time, got %d", got)
    }
}

func TestRound(t *testing.T) {
    if got := Round(1.23456, 4); got != 1.2346 {
        t.Fatalf("unexpected %v", got)
    }
    if got := Round(-0.125, 2); got != -0.13 {
        t.Fatalf("unexpected %v", got)
    }
}
