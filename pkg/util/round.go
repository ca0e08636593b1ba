package util

import "math"

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
    p := math.Pow10(places)
    return math.Round(v*p) / p
}
