package insight

import (
	"testing"

	"PacePulse/internal/domain/models"
)

func history(totals ...float64) []models.LineHistoryEntry {
	entries := make([]models.LineHistoryEntry, 0, len(totals))
	for _, total := range totals {
		entries = append(entries, models.LineHistoryEntry{Total: total})
	}
	return entries
}

func TestBuildBiasEmptyHistory(t *testing.T) {
	bias := BuildBias(nil, 0.2)
	if bias.Status != "inactive" {
		t.Fatalf("expected inactive, got %s", bias.Status)
	}
	if bias.Direction != nil {
		t.Fatalf("expected nil direction, got %v", *bias.Direction)
	}
	if bias.Confidence != 0.0 || bias.AvgMovement != 0.0 || bias.WindowMin != 0 || bias.SampleSize != 0 {
		t.Fatalf("expected zeroed bias, got %+v", bias)
	}
}

func TestBuildBiasBelowSampleThreshold(t *testing.T) {
	bias := BuildBias(history(225.5, 227.0), 0.2)
	if bias.Status != "inactive" {
		t.Fatalf("expected inactive with 2 samples, got %s", bias.Status)
	}
	if bias.Direction != nil {
		t.Fatalf("expected nil direction when inactive")
	}
	if bias.Confidence != 0.0 {
		t.Fatalf("expected zero confidence when inactive, got %v", bias.Confidence)
	}
	if bias.AvgMovement != 1.5 {
		t.Fatalf("expected avg movement 1.5, got %v", bias.AvgMovement)
	}
	if bias.WindowMin != 3 || bias.SampleSize != 2 {
		t.Fatalf("unexpected window/sample: %+v", bias)
	}
}

func TestBuildBiasActive(t *testing.T) {
	bias := BuildBias(history(225.5, 227.0, 230.0), 0.19)
	if bias.Status != "active" {
		t.Fatalf("expected active with 3 samples, got %s", bias.Status)
	}
	if bias.Direction == nil || *bias.Direction != "up" {
		t.Fatalf("expected direction up, got %v", bias.Direction)
	}
	// min(0.95, 0.4 + 0.05*3)
	if bias.Confidence != 0.55 {
		t.Fatalf("expected confidence 0.55, got %v", bias.Confidence)
	}
	// mean of |1.5| and |3.0|
	if bias.AvgMovement != 2.25 {
		t.Fatalf("expected avg movement 2.25, got %v", bias.AvgMovement)
	}
}

func TestBuildBiasDirectionBands(t *testing.T) {
	h := history(1, 2, 3)
	if b := BuildBias(h, 0.05); *b.Direction != "up" {
		t.Fatalf("expected up at +0.05, got %s", *b.Direction)
	}
	if b := BuildBias(h, -0.05); *b.Direction != "down" {
		t.Fatalf("expected down at -0.05, got %s", *b.Direction)
	}
	if b := BuildBias(h, 0.049); *b.Direction != "flat" {
		t.Fatalf("expected flat below threshold, got %s", *b.Direction)
	}
}

func TestBuildBiasConfidenceCap(t *testing.T) {
	totals := make([]float64, 20)
	for i := range totals {
		totals[i] = 200 + float64(i)
	}
	bias := BuildBias(history(totals...), 0)
	if bias.Confidence != 0.95 {
		t.Fatalf("expected confidence capped at 0.95, got %v", bias.Confidence)
	}
}
