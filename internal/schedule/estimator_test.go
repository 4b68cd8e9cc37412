package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(entries ...Entry) *Index {
	return &Index{entries: entries}
}

func entry(carrier, polTag, weekday, pod string, weekNo int, vessel string) Entry {
	return Entry{
		Carrier:   carrier,
		Service:   "PS3",
		POLTag:    polTag,
		Weekday:   weekday,
		PODCode:   pod,
		WeekNo:    weekNo,
		WeekLabel: fmt.Sprintf("W%02d", weekNo),
		Vessel:    vessel,
	}
}

func estimatorAt(idx *Index, now time.Time) *Estimator {
	e := NewEstimator(idx)
	e.now = func() time.Time { return now }
	return e
}

func TestScheduleForPicksFirstWeekAtOrAfterCargoReady(t *testing.T) {
	idx := testIndex(
		entry("EMC", POLTagAny, "SUN", "USLAX", 24, "EVER ACE"),
		entry("EMC", POLTagAny, "SUN", "USLAX", 26, "EVER GIVEN"),
	)
	// 2025-06-10 is in ISO week 24; the Sunday of week 24 (2025-06-15)
	// is after cargo-ready, so week 24 wins.
	cargoReady := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	res := estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "USLAX", &cargoReady)

	require.False(t, res.IsZero())
	assert.Equal(t, 24, res.WeekNo)
	assert.Equal(t, "EVER ACE", res.Vessel)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), res.ETD)
	assert.False(t, res.ETD.Before(cargoReady))
}

func TestScheduleForSkipsWeekWhoseSailingDayPassed(t *testing.T) {
	idx := testIndex(
		entry("EMC", POLTagAny, "MON", "USLAX", 24, "EVER ACE"),
		entry("EMC", POLTagAny, "MON", "USLAX", 26, "EVER GIVEN"),
	)
	// Monday of week 24 is 2025-06-09, before cargo-ready 06-10, so the
	// estimator must move on to week 26.
	cargoReady := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	res := estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "USLAX", &cargoReady)

	require.False(t, res.IsZero())
	assert.Equal(t, 26, res.WeekNo)
	assert.False(t, res.ETD.Before(cargoReady))
}

func TestScheduleForWrapsToNextYearAfterLastWeek(t *testing.T) {
	idx := testIndex(
		entry("EMC", POLTagAny, "SUN", "USLAX", 5, "EVER ACE"),
	)
	// Cargo ready in ISO week 50: week 5 has passed this year, so the
	// ETD rolls into next year's week 5.
	cargoReady := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)
	res := estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "USLAX", &cargoReady)

	require.False(t, res.IsZero())
	assert.Equal(t, 5, res.WeekNo)
	assert.False(t, res.ETD.Before(cargoReady), "ETD must never precede cargo-ready")
	assert.Equal(t, 2026, res.ETD.Year())
}

func TestScheduleForPOLTagFiltering(t *testing.T) {
	idx := testIndex(
		entry("EMC", "HPH", "SUN", "USLAX", 24, "HAIPHONG LOOP"),
		entry("EMC", "HCM", "SUN", "USLAX", 24, "SAIGON LOOP"),
		entry("EMC", POLTagAny, "SUN", "USLAX", 25, "ANY LOOP"),
	)
	cargoReady := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	res := estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "USLAX", &cargoReady)

	require.False(t, res.IsZero())
	assert.Equal(t, "SAIGON LOOP", res.Vessel, "HPH-tagged loop must not match an HCM shipment")
}

func TestScheduleForNoMatchReturnsZero(t *testing.T) {
	idx := testIndex(entry("EMC", POLTagAny, "SUN", "USLAX", 24, "EVER ACE"))
	est := estimatorAt(idx, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))

	assert.True(t, est.ScheduleFor("HPL", "HCM", "USLAX", nil).IsZero(), "carrier mismatch")
	assert.True(t, est.ScheduleFor("EMC", "HCM", "USNYC", nil).IsZero(), "pod mismatch")
	assert.True(t, est.ScheduleFor("", "HCM", "USLAX", nil).IsZero(), "no carrier")
	assert.True(t, NewEstimator(nil).ScheduleFor("EMC", "HCM", "USLAX", nil).IsZero(), "empty index")
}

func TestScheduleForTransitAndETA(t *testing.T) {
	idx := testIndex(entry("EMC", POLTagAny, "SUN", "USLAX", 24, "EVER ACE"))
	cargoReady := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	res := estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "USLAX", &cargoReady)

	require.False(t, res.IsZero())
	assert.Equal(t, 20, res.TransitMin)
	assert.Equal(t, 24, res.TransitMax)
	assert.Equal(t, res.ETD.AddDate(0, 0, 22), res.ETA)
}

func TestScheduleForMatchesExpandedPOD(t *testing.T) {
	idx := testIndex(entry("EMC", POLTagAny, "SUN", "USSAV", 24, "EVER ACE"))
	cargoReady := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	res := estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "SAV", &cargoReady)
	require.False(t, res.IsZero())
	assert.Equal(t, "EVER ACE", res.Vessel)

	res = estimatorAt(idx, cargoReady).ScheduleFor("EMC", "HCM", "USEC", &cargoReady)
	require.False(t, res.IsZero(), "USEC expands to the east coast set")
}

func TestIsoWeekDate(t *testing.T) {
	// Cross-check against Go's ISOWeek.
	d := isoWeekDate(2025, 24, 7) // Sunday of week 24
	y, w := d.ISOWeek()
	assert.Equal(t, 2025, y)
	assert.Equal(t, 24, w)
	assert.Equal(t, time.Sunday, d.Weekday())

	d = isoWeekDate(2026, 1, 1) // Monday of week 1
	y, w = d.ISOWeek()
	assert.Equal(t, 2026, y)
	assert.Equal(t, 1, w)
	assert.Equal(t, time.Monday, d.Weekday())
}
