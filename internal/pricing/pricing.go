// Package pricing computes reservation charges from elapsed time and an
// hourly rate.
package pricing

import (
	"fmt"
	"math"
	"time"
)

// ComputeCost returns the charge for parking from start to end at ratePerHour,
// rounded to two decimals with halves away from zero. A zero duration costs
// zero; there is no minimum charge.
func ComputeCost(start, end time.Time, ratePerHour float64) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("end time %s is before start time %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	hours := end.Sub(start).Seconds() / 3600
	return Round2(hours * ratePerHour), nil
}

// Round2 rounds a monetary amount to two decimals, halves away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
