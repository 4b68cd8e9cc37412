package master

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ratedesk/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleRow() domain.MasterRow {
	return domain.MasterRow{
		POL:                "HCM",
		POD:                "USLAX",
		PlaceOfDelivery:    "LOS ANGELES, CA",
		RoutingNote:        "VIA LAX",
		Carrier:            "EMC",
		EffectiveDate:      date(2025, 6, 1),
		ExpirationDate:     date(2025, 6, 30),
		ContractIdentifier: "C123",
		CommodityType:      "FAK",
		RateType:           domain.RateTypeFAK,
		Rates: map[domain.ContainerType]float64{
			domain.Container20GP: 1500,
			domain.Container40HQ: 2500,
		},
		Deltas: map[domain.ContainerType]domain.RateDelta{
			domain.Container40HQ: {
				Direction: domain.DeltaIncrease,
				Magnitude: 100,
				Raw:       100,
				Display:   "⬆️ 100",
			},
		},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Master_Rate.xlsx")
	current := []domain.MasterRow{sampleRow()}

	w := NewWriter(nil)
	require.NoError(t, w.Write(path, current, current, []string{"FAK RATE 10DECNO.2.xlsx"}))

	rows, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	got := rows[0]
	want := current[0]
	assert.Equal(t, want.POL, got.POL)
	assert.Equal(t, want.POD, got.POD)
	assert.Equal(t, want.PlaceOfDelivery, got.PlaceOfDelivery)
	assert.Equal(t, want.RoutingNote, got.RoutingNote)
	assert.Equal(t, want.Carrier, got.Carrier)
	assert.Equal(t, want.ContractIdentifier, got.ContractIdentifier)
	assert.Equal(t, want.CommodityType, got.CommodityType)
	assert.Equal(t, want.RateType, got.RateType)
	require.NotNil(t, got.EffectiveDate)
	assert.Equal(t, *want.EffectiveDate, *got.EffectiveDate)
	require.NotNil(t, got.ExpirationDate)
	assert.Equal(t, *want.ExpirationDate, *got.ExpirationDate)
	assert.Equal(t, want.Rates, got.Rates)

	require.Contains(t, got.Deltas, domain.Container40HQ)
	d := got.Deltas[domain.Container40HQ]
	assert.Equal(t, domain.DeltaIncrease, d.Direction)
	assert.Equal(t, 100.0, d.Raw)
	assert.Equal(t, "⬆️ 100", d.Display)
}

func TestWriteCreatesExpectedSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Master_Rate.xlsx")
	w := NewWriter(nil)
	require.NoError(t, w.Write(path, nil, nil, []string{"FAK RATE 10DECNO.2.xlsx"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, SheetMaster)
	assert.Contains(t, sheets, SheetHistory)
	assert.Contains(t, sheets, "10DECNO2")
	assert.NotContains(t, sheets, "Sheet1")

	// Raw delta columns on the Master sheet are hidden.
	headers := sheetHeaders(true)
	for i, h := range headers {
		if len(h) > len(deltaRawPrefix) && h[:len(deltaRawPrefix)] == deltaRawPrefix {
			name, err := excelize.ColumnNumberToName(i + 1)
			require.NoError(t, err)
			visible, err := f.GetColVisible(SheetMaster, name)
			require.NoError(t, err)
			assert.False(t, visible, "column %s should be hidden", h)
		}
	}
}

func TestVersionStamp(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "10DECNO2", VersionStamp([]string{"FAK RATE 10DECNO.2.xlsx"}, today))
	assert.Equal(t, "27NOVNO1", VersionStamp([]string{"fak rate 27novno1.xlsx"}, today))
	assert.Equal(t, "10JUN.NOX", VersionStamp([]string{"SCFI DEC.xlsx"}, today))
	assert.Equal(t, "10JUN.NOX", VersionStamp(nil, today))
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), nil)
	assert.Error(t, err)
}
