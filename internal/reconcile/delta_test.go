package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ratedesk/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		previous  float64
		direction domain.DeltaDirection
		raw       float64
		display   string
	}{
		{"increase", 2600, 2500, domain.DeltaIncrease, 100, "⬆️ 100"},
		{"decrease", 2400, 2500, domain.DeltaDecrease, -100, "⬇️ 100"},
		{"unchanged", 2500, 2500, domain.DeltaUnchanged, 0, "↔️ 0"},
		{"fractional", 2500.75, 2500, domain.DeltaIncrease, 0.75, "⬆️ 0.75"},
		{"float noise is unchanged", 2500.0000000001, 2500, domain.DeltaUnchanged, 0, "↔️ 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.current, tt.previous)
			assert.Equal(t, tt.direction, d.Direction)
			assert.InDelta(t, tt.raw, d.Raw, 1e-9)
			assert.Equal(t, tt.display, d.Display)
		})
	}
}
