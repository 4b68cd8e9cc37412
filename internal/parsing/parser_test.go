package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratedesk/pkg/contracts/domain"
)

// fakRow builds a raw FAK-layout row with the given key fields and
// container amounts at their fixed offsets.
func fakRow(pol, pod, place, routing, carrier, eff, exp, commodity, contract string, amounts map[int]string) []string {
	row := make([]string, 42)
	row[0] = pol
	row[1] = pod
	row[2] = place
	row[3] = routing
	row[5] = carrier
	row[6] = eff
	row[7] = exp
	row[9] = commodity
	row[11] = contract
	for col, v := range amounts {
		row[col] = v
	}
	return row
}

func TestParseRowsMeltsFAKLayout(t *testing.T) {
	p := NewParser(nil)

	rows := [][]string{
		{"header one"},
		{"header two"},
		fakRow("HCM", "LOS ANGELES", "LOS ANGELES, CA", "VIA LAX", "EMC",
			"2025-06-01", "2025-06-30", "FAK", "C123",
			map[int]string{12: "1,500", 13: "2,400", 14: "2,500"}),
	}

	records := p.ParseRows(rows, domain.RateTypeFAK, "FAK RATE 10DECNO.2.xlsx")
	require.Len(t, records, 3)

	byType := make(map[domain.ContainerType]domain.RateRecord)
	for _, r := range records {
		byType[r.ContainerType] = r
	}
	require.Contains(t, byType, domain.Container20GP)
	require.Contains(t, byType, domain.Container40GP)
	require.Contains(t, byType, domain.Container40HQ)

	r20 := byType[domain.Container20GP]
	assert.Equal(t, "HCM", r20.POL)
	assert.Equal(t, "LOS ANGELES", r20.POD)
	assert.Equal(t, "LOS ANGELES, CA", r20.PlaceOfDelivery)
	assert.Equal(t, "VIA LAX", r20.RoutingNote)
	assert.Equal(t, "EMC", r20.Carrier)
	assert.Equal(t, "C123", r20.ContractIdentifier)
	assert.Equal(t, "FAK", r20.CommodityType)
	assert.Equal(t, 1500.0, r20.Amount)
	assert.Equal(t, domain.RateTypeFAK, r20.RateType)
	assert.Equal(t, "FAK RATE 10DECNO.2.xlsx", r20.SourceFile)

	require.NotNil(t, r20.EffectiveDate)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *r20.EffectiveDate)
	require.NotNil(t, r20.ExpirationDate)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), *r20.ExpirationDate)
}

func TestParseRowsReadsPortUseCharge(t *testing.T) {
	p := NewParser(nil)

	row := fakRow("HCM", "LOS ANGELES", "LOS ANGELES, CA", "SOC", "ONE",
		"", "", "FAK", "", map[int]string{12: "1500", 14: "2500"})
	row[38] = "150" // 20GP PUC
	row[40] = "300" // 40HQ PUC

	records := p.ParseRows([][]string{nil, nil, row}, domain.RateTypeFAK, "f.xlsx")
	require.Len(t, records, 2)
	for _, r := range records {
		switch r.ContainerType {
		case domain.Container20GP:
			assert.Equal(t, 150.0, r.RawPortUseCharge)
		case domain.Container40HQ:
			assert.Equal(t, 300.0, r.RawPortUseCharge)
		}
	}
}

func TestParseRowsSCFILayoutFixedCarrier(t *testing.T) {
	p := NewParser(nil)

	row := make([]string, 8)
	row[0] = "HPH"
	row[1] = "NEW YORK"
	row[2] = "NEW YORK, NY"
	row[3] = "2025-01-01"
	row[4] = "2025-01-15"
	row[5] = "2100"
	row[6] = "2900"
	row[7] = "3000"

	records := p.ParseRows([][]string{nil, nil, row}, domain.RateTypeSCFI, "SCFI.xlsx")
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "HPL", r.Carrier)
		assert.Equal(t, domain.RateTypeSCFI, r.RateType)
		assert.Empty(t, r.RoutingNote)
	}
}

func TestParseRowsRewritesONECommodities(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		raw  string
		want string
	}{
		{"GARMENT (KNITTED OR NOT)", "FAK: TPE1 - FAK Straight"},
		{"REEFER FAK COMMODITIES", "REEFER FAK"},
		{"SHORT TERM GDSM PROMO", "SHORT TERM GDSM"},
		{"S1 TPE9 GROUP SOC CARGO", "S1– TPE9 – Group SOC"},
		{"GENERAL DEPT", "GENERAL DEPT"},
	}
	for _, tt := range tests {
		row := fakRow("HCM", "LOS ANGELES", "LOS ANGELES, CA", "", "ONE",
			"", "", tt.raw, "", map[int]string{12: "1000"})
		records := p.ParseRows([][]string{nil, nil, row}, domain.RateTypeFAK, "f.xlsx")
		require.Len(t, records, 1, "commodity %q", tt.raw)
		assert.Equal(t, tt.want, records[0].CommodityType)
	}
}

func TestParseRowsSkipsEmptyAndUnpriceableRows(t *testing.T) {
	p := NewParser(nil)

	rows := [][]string{
		nil,
		nil,
		make([]string, 20), // entirely blank
		fakRow("HCM", "LOS ANGELES", "LOS ANGELES, CA", "", "EMC",
			"", "", "FAK", "", map[int]string{12: "N/A", 13: ""}), // no numeric amount
		fakRow("HCM", "LOS ANGELES", "LOS ANGELES, CA", "", "EMC",
			"", "", "FAK", "", map[int]string{12: "1500"}),
	}
	records := p.ParseRows(rows, domain.RateTypeFAK, "f.xlsx")
	require.Len(t, records, 1)
	assert.Equal(t, 1500.0, records[0].Amount)
}

func TestParseRowsDedupesExactDuplicates(t *testing.T) {
	p := NewParser(nil)

	row := fakRow("HCM", "LOS ANGELES", "LOS ANGELES, CA", "", "EMC",
		"2025-06-01", "2025-06-30", "FAK", "C1", map[int]string{12: "1500"})
	dup := append([]string(nil), row...)

	records := p.ParseRows([][]string{nil, nil, row, dup}, domain.RateTypeFAK, "f.xlsx")
	assert.Len(t, records, 1)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want *time.Time
	}{
		{"2025-06-01", timePtr(2025, 6, 1)},
		{"6/1/25", timePtr(2025, 6, 1)},
		{"01-Jun-25", timePtr(2025, 6, 1)},
		{"1 Jun 2025", timePtr(2025, 6, 1)},
		{"", nil},
		{"TBA", nil},
	}
	for _, tt := range tests {
		got := parseDate(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got, "raw %q", tt.raw)
		} else {
			require.NotNil(t, got, "raw %q", tt.raw)
			assert.Equal(t, *tt.want, *got, "raw %q", tt.raw)
		}
	}
}

func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
