package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRegion(t *testing.T) {
	assert.Equal(t, RegionWest, ClassifyRegion("USLAX"))
	assert.Equal(t, RegionWest, ClassifyRegion("cavan"))
	assert.Equal(t, RegionEast, ClassifyRegion("USNYC"))
	assert.Equal(t, RegionGulf, ClassifyRegion("USHOU"))
	assert.Equal(t, RegionOther, ClassifyRegion("USCHI"))
}

func TestEstimateTransit(t *testing.T) {
	min, max := EstimateTransit("USLAX")
	assert.Equal(t, 20, min)
	assert.Equal(t, 24, max)

	min, max = EstimateTransit("USSAV")
	assert.Equal(t, 40, min)
	assert.Equal(t, 45, max)

	min, max = EstimateTransit("USHOU")
	assert.Equal(t, 40, min)
	assert.Equal(t, 45, max)

	min, max = EstimateTransit("USMEM")
	assert.Equal(t, 30, min)
	assert.Equal(t, 40, max)
}

func TestExpandPODCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"full code", "USLAX", []string{"USLAX"}},
		{"slash list", "USLAX/USLGB", []string{"USLAX", "USLGB"}},
		{"mixed separators", "USLAX; USOAK, USSEA", []string{"USLAX", "USOAK", "USSEA"}},
		{"three letter known", "SAV", []string{"SAV", "USSAV"}},
		{"three letter unknown", "MEM", []string{"MEM", "USMEM"}},
		{"canadian", "CAVAN", []string{"CAVAN"}},
		{"free text passes through", "CHICAGO RAMP", []string{"CHICAGO RAMP"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, ExpandPODCandidates(tt.raw))
		})
	}
}

func TestExpandPODCandidatesCoastAliases(t *testing.T) {
	east := ExpandPODCandidates("USEC")
	assert.Contains(t, east, "USNYC")
	assert.Contains(t, east, "USSAV")
	assert.Len(t, east, len(eastPorts))

	west := ExpandPODCandidates("USWC")
	assert.Contains(t, west, "USLAX")
	assert.Len(t, west, len(westPorts))
}
