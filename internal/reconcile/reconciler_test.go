package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratedesk/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func record(carrier string, ct domain.ContainerType, amount float64, eff, exp *time.Time) domain.RateRecord {
	return domain.RateRecord{
		POL:             "HCM",
		POD:             "USLAX",
		PlaceOfDelivery: "LOS ANGELES, CA",
		Carrier:         carrier,
		ContainerType:   ct,
		Amount:          amount,
		EffectiveDate:   eff,
		ExpirationDate:  exp,
		RateType:        domain.RateTypeFAK,
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	result := Reconcile(nil, time.Time{}, false, nil)
	assert.Empty(t, result.Current)
	assert.Empty(t, result.Historical)
}

func TestReconcileFiltersExpiredRows(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.RateRecord{
		record("EMC", domain.Container40HQ, 2400, date(2025, 5, 1), date(2025, 5, 31)),
		record("EMC", domain.Container40HQ, 2500, date(2025, 6, 1), date(2025, 6, 30)),
		// Open-ended window always current.
		record("HPL", domain.Container40HQ, 2300, date(2025, 6, 1), nil),
	}

	result := Reconcile(records, cutoff, false, nil)

	require.Len(t, result.Current, 2)
	require.Len(t, result.Historical, 3)

	carriers := []string{result.Current[0].Carrier, result.Current[1].Carrier}
	assert.ElementsMatch(t, []string{"EMC", "HPL"}, carriers)
	for _, row := range result.Current {
		if row.Carrier == "EMC" {
			assert.Equal(t, 2500.0, row.Rates[domain.Container40HQ])
		}
	}
}

func TestReconcileIncludeExpiredKeepsHistory(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.RateRecord{
		record("EMC", domain.Container40HQ, 2400, date(2025, 5, 1), date(2025, 5, 31)),
		record("EMC", domain.Container40HQ, 2500, date(2025, 6, 1), date(2025, 6, 30)),
	}
	result := Reconcile(records, cutoff, true, nil)
	assert.Len(t, result.Current, 2)
}

func TestReconcileComputesDeltasAgainstPreviousPeriod(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.RateRecord{
		record("EMC", domain.Container40HQ, 2400, date(2025, 5, 1), date(2025, 5, 31)),
		record("EMC", domain.Container40HQ, 2500, date(2025, 6, 1), date(2025, 6, 30)),
		record("EMC", domain.Container20GP, 1500, date(2025, 6, 1), date(2025, 6, 30)),
	}

	result := Reconcile(records, cutoff, false, nil)
	require.Len(t, result.Current, 1)

	row := result.Current[0]
	assert.Equal(t, 2500.0, row.Rates[domain.Container40HQ])
	assert.Equal(t, 1500.0, row.Rates[domain.Container20GP])

	require.Contains(t, row.Deltas, domain.Container40HQ)
	d := row.Deltas[domain.Container40HQ]
	assert.Equal(t, domain.DeltaIncrease, d.Direction)
	assert.Equal(t, 100.0, d.Raw)

	// 20GP has no earlier period, so no delta.
	assert.NotContains(t, row.Deltas, domain.Container20GP)

	// Historical rows never carry deltas.
	for _, h := range result.Historical {
		assert.Empty(t, h.Deltas)
	}
}

func TestReconcileDeltasAreGroupScoped(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.RateRecord{
		record("EMC", domain.Container40HQ, 2400, date(2025, 5, 1), date(2025, 5, 31)),
		// Different carrier: must not inherit EMC's previous amount.
		record("HPL", domain.Container40HQ, 2500, date(2025, 6, 1), date(2025, 6, 30)),
	}
	result := Reconcile(records, cutoff, false, nil)
	require.Len(t, result.Current, 1)
	assert.Equal(t, "HPL", result.Current[0].Carrier)
	assert.Empty(t, result.Current[0].Deltas)
}

func TestReconcilePivotCollisionKeepsFirstAmount(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	a := record("EMC", domain.Container40HQ, 2500, date(2025, 6, 1), date(2025, 6, 30))
	b := record("EMC", domain.Container40HQ, 2600, date(2025, 6, 1), date(2025, 6, 30))

	result := Reconcile([]domain.RateRecord{a, b}, cutoff, false, nil)
	require.Len(t, result.Current, 1)
	assert.Equal(t, 2500.0, result.Current[0].Rates[domain.Container40HQ])
}

func TestReconcilePivotSeparatesValidityWindows(t *testing.T) {
	records := []domain.RateRecord{
		record("EMC", domain.Container40HQ, 2400, date(2025, 5, 1), date(2025, 5, 31)),
		record("EMC", domain.Container40HQ, 2500, date(2025, 6, 1), date(2025, 6, 30)),
	}
	result := Reconcile(records, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), true, nil)
	assert.Len(t, result.Historical, 2, "distinct windows stay distinct rows")
}
