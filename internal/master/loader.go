package master

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ratedesk/pkg/contracts/domain"
)

// Load reads the Master sheet of a workbook back into wide rows for
// quote serving. A missing or unreadable workbook is a hard error: the
// quote service cannot run without rates. Delta columns are restored so
// callers can surface movements alongside prices.
func Load(path string, logger *slog.Logger) ([]domain.MasterRow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open master workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetMaster)
	if err != nil {
		return nil, fmt.Errorf("read %s sheet: %w", SheetMaster, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := indexColumns(rows[0])
	out := make([]domain.MasterRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m, ok := buildRow(row, cols)
		if !ok {
			continue
		}
		out = append(out, m)
	}

	logger.Info("master loaded",
		slog.String("path", path),
		slog.Int("rows", len(out)))
	return out, nil
}

// columnIndex maps each known header to its zero-based column, plus the
// per-container rate, delta display and raw delta columns.
type columnIndex struct {
	key       map[string]int
	rates     map[domain.ContainerType]int
	deltaDisp map[domain.ContainerType]int
	deltaRaw  map[domain.ContainerType]int
}

func indexColumns(header []string) columnIndex {
	idx := columnIndex{
		key:       make(map[string]int),
		rates:     make(map[domain.ContainerType]int),
		deltaDisp: make(map[domain.ContainerType]int),
		deltaRaw:  make(map[domain.ContainerType]int),
	}
	byType := make(map[string]domain.ContainerType, len(domain.ContainerColumnOrder))
	for _, ct := range domain.ContainerColumnOrder {
		byType[string(ct)] = ct
	}
	for col, raw := range header {
		h := strings.ToUpper(strings.TrimSpace(raw))
		switch {
		case h == "":
		case strings.HasPrefix(h, deltaRawPrefix):
			if ct, ok := byType[strings.TrimPrefix(h, deltaRawPrefix)]; ok {
				idx.deltaRaw[ct] = col
			}
		case strings.HasSuffix(h, deltaDisplaySuffix):
			if ct, ok := byType[strings.TrimSuffix(h, deltaDisplaySuffix)]; ok {
				idx.deltaDisp[ct] = col
			}
		default:
			if ct, ok := byType[h]; ok {
				idx.rates[ct] = col
			} else {
				idx.key[h] = col
			}
		}
	}
	return idx
}

func buildRow(row []string, cols columnIndex) (domain.MasterRow, bool) {
	get := func(header string) string {
		col, ok := cols.key[header]
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	m := domain.MasterRow{
		POL:                get("POL"),
		POD:                get("POD"),
		PlaceOfDelivery:    get("PLACE OF DELIVERY"),
		RoutingNote:        get("ROUTING NOTE"),
		Carrier:            get("CARRIER NAME"),
		EffectiveDate:      parseISODate(get("EFFECTIVE DATE")),
		ExpirationDate:     parseISODate(get("EXPIRATION DATE")),
		ContractIdentifier: get("CONTRACT NO."),
		CommodityType:      get("COMMODITY TYPE"),
		RateType:           domain.RateType(get("RATE TYPE")),
		Rates:              make(map[domain.ContainerType]float64),
	}
	if m.POL == "" && m.PlaceOfDelivery == "" {
		return domain.MasterRow{}, false
	}

	for ct, col := range cols.rates {
		if col >= len(row) {
			continue
		}
		if v, ok := parseNumber(row[col]); ok {
			m.Rates[ct] = v
		}
	}
	if len(m.Rates) == 0 {
		return domain.MasterRow{}, false
	}

	for ct, col := range cols.deltaRaw {
		if col >= len(row) {
			continue
		}
		raw, ok := parseNumber(row[col])
		if !ok {
			continue
		}
		d := domain.RateDelta{Raw: raw, Magnitude: abs(raw)}
		switch {
		case raw > 0:
			d.Direction = domain.DeltaIncrease
		case raw < 0:
			d.Direction = domain.DeltaDecrease
		default:
			d.Direction = domain.DeltaUnchanged
		}
		if col, ok := cols.deltaDisp[ct]; ok && col < len(row) {
			d.Display = strings.TrimSpace(row[col])
		}
		if m.Deltas == nil {
			m.Deltas = make(map[domain.ContainerType]domain.RateDelta)
		}
		m.Deltas[ct] = d
	}
	return m, true
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseISODate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
