package insight

import (
	"math"

	"PacePulse/internal/domain/models"
	"PacePulse/pkg/util"
)

// BuildBias derives line movement bias from recorded history. With no history
// the bias is inactive with zeroed fields; direction stays null until at
// least three samples exist.
func BuildBias(history []models.LineHistoryEntry, paceDeltaPct float64) models.Bias {
	if len(history) == 0 {
		return models.Bias{
			Status:      "inactive",
			Direction:   nil,
			Confidence:  0.0,
			AvgMovement: 0.0,
			WindowMin:   0,
			SampleSize:  0,
		}
	}

	avgMovement := 0.0
	if len(history) > 1 {
		sum := 0.0
		for i := 1; i < len(history); i++ {
			sum += math.Abs(history[i].Total - history[i-1].Total)
		}
		avgMovement = sum / float64(len(history)-1)
	}

	direction := "flat"
	if paceDeltaPct >= 0.05 {
		direction = "up"
	} else if paceDeltaPct <= -0.05 {
		direction = "down"
	}

	sampleSize := len(history)
	status := "inactive"
	confidence := 0.0
	var dirPtr *string
	if sampleSize >= 3 {
		status = "active"
		confidence = math.Min(0.95, 0.4+0.05*float64(sampleSize))
		dirPtr = &direction
	}

	return models.Bias{
		Status:      status,
		Direction:   dirPtr,
		Confidence:  util.Round(confidence, 2),
		AvgMovement: util.Round(avgMovement, 2),
		WindowMin:   3,
		SampleSize:  sampleSize,
	}
}
