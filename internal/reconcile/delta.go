package reconcile

import (
	"fmt"
	"math"

	"ratedesk/pkg/contracts/domain"
)

// delta display markers, matching the Master sheet conventions.
const (
	markIncrease  = "⬆️"
	markDecrease  = "⬇️"
	markUnchanged = "↔️"
)

// Classify builds the three-way delta for a current amount against the
// immediately preceding amount in its reconciliation group. The display
// string carries the marker plus the absolute magnitude; the raw signed
// delta is retained for filtering and tests.
func Classify(current, previous float64) domain.RateDelta {
	raw := current - previous

	var (
		direction domain.DeltaDirection
		mark      string
	)
	switch {
	case almostZero(raw):
		direction, mark, raw = domain.DeltaUnchanged, markUnchanged, 0
	case raw > 0:
		direction, mark = domain.DeltaIncrease, markIncrease
	default:
		direction, mark = domain.DeltaDecrease, markDecrease
	}

	magnitude := math.Abs(raw)
	return domain.RateDelta{
		Direction: direction,
		Magnitude: magnitude,
		Raw:       raw,
		Display:   fmt.Sprintf("%s %s", mark, formatMagnitude(magnitude)),
	}
}

func formatMagnitude(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func almostZero(v float64) bool {
	return math.Abs(v) < 1e-9
}
