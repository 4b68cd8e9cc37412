package parsing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ratedesk/pkg/contracts/domain"
)

// preferredSheet is tried first; carrier files usually keep the rate
// grid on a sheet named RATE and notes elsewhere.
const preferredSheet = "RATE"

// Parser turns one raw carrier rate workbook into canonical long-form
// rate records, using the positional layout selected by the file's
// rate type.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile loads a workbook and melts it into long-form records. Files
// whose name matches no known rate-type pattern are skipped with a
// warning and yield no records and no error; ingestion of a batch must
// not abort on one unrecognized file.
func (p *Parser) ParseFile(filePath string) ([]domain.RateRecord, error) {
	name := filepath.Base(filePath)

	rateType, ok := DetectRateType(name)
	if !ok {
		p.logger.Warn("cannot detect rate type from file name, skipping",
			slog.String("file", name))
		return nil, nil
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open rate file %s: %w", name, err)
	}
	defer f.Close()

	rows, err := f.GetRows(preferredSheet)
	if err != nil {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("rate file %s has no sheets", name)
		}
		rows, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read sheet %q of %s: %w", sheets[0], name, err)
		}
	}

	records := p.ParseRows(rows, rateType, name)
	p.logger.Info("parsed rate file",
		slog.String("file", name),
		slog.String("rate_type", string(rateType)),
		slog.Int("records", len(records)))
	return records, nil
}

// ParseRows melts raw sheet rows into one record per (row, container
// type) pair with a usable amount. Rows with no valid container amount
// are dropped entirely. Unparseable dates degrade to nil, which the
// reconciler treats as an open validity window.
func (p *Parser) ParseRows(rows [][]string, rateType domain.RateType, sourceFile string) []domain.RateRecord {
	layout, ok := LayoutFor(rateType)
	if !ok {
		p.logger.Warn("no layout registered for rate type",
			slog.String("rate_type", string(rateType)))
		return nil
	}
	if len(rows) <= layout.HeaderRows {
		return nil
	}

	var out []domain.RateRecord
	for _, row := range rows[layout.HeaderRows:] {
		carrier := layout.FixedCarrier
		if carrier == "" {
			carrier = strings.TrimSpace(cellAt(row, layout.Carrier))
		}

		commodity := layout.FixedCommodity
		if commodity == "" {
			commodity = strings.TrimSpace(cellAt(row, layout.Commodity))
		}
		if strings.Contains(strings.ToUpper(carrier), "ONE") {
			commodity = rewriteONECommodity(commodity)
		}

		base := domain.RateRecord{
			POL:                strings.TrimSpace(cellAt(row, layout.POL)),
			POD:                strings.TrimSpace(cellAt(row, layout.POD)),
			PlaceOfDelivery:    strings.TrimSpace(cellAt(row, layout.Place)),
			RoutingNote:        strings.TrimSpace(cellAt(row, layout.RoutingNote)),
			Carrier:            carrier,
			EffectiveDate:      parseDate(cellAt(row, layout.EffectiveDate)),
			ExpirationDate:     parseDate(cellAt(row, layout.ExpirationDate)),
			ContractIdentifier: strings.TrimSpace(cellAt(row, layout.Contract)),
			CommodityType:      commodity,
			RateType:           rateType,
			SourceFile:         sourceFile,
		}
		if base.POL == "" && base.POD == "" && base.PlaceOfDelivery == "" {
			continue
		}

		for _, cc := range layout.Containers {
			amount, ok := parseAmount(cellAt(row, cc.Col))
			if !ok {
				continue
			}
			rec := base
			rec.ContainerType = cc.Type
			rec.Amount = amount
			if pucCol, ok := layout.PUCColumns[cc.Type]; ok {
				if puc, ok := parseAmount(cellAt(row, pucCol)); ok {
					rec.RawPortUseCharge = puc
				}
			}
			out = append(out, rec)
		}
	}
	return dedupe(out)
}

// oneCommodityRule rewrites ONE's verbose tariff labels into the fixed
// vocabulary used downstream. Ordered; first match wins.
type oneCommodityRule struct {
	contains  []string
	canonical string
}

var oneCommodityRules = []oneCommodityRule{
	{contains: []string{"GARMENT"}, canonical: "FAK: TPE1 - FAK Straight"},
	{contains: []string{"FAK: TPE1 - FAK STRAIGHT"}, canonical: "FAK: TPE1 - FAK Straight"},
	{contains: []string{"REEFER FAK"}, canonical: "REEFER FAK"},
	{contains: []string{"SHORT TERM GDSM"}, canonical: "SHORT TERM GDSM"},
	{contains: []string{"TPE9", "GROUP SOC"}, canonical: "S1– TPE9 – Group SOC"},
}

func rewriteONECommodity(raw string) string {
	up := strings.ToUpper(raw)
	for _, rule := range oneCommodityRules {
		matched := true
		for _, needle := range rule.contains {
			if !strings.Contains(up, needle) {
				matched = false
				break
			}
		}
		if matched {
			return rule.canonical
		}
	}
	return raw
}

func cellAt(row []string, idx int) string {
	if idx == ColumnAbsent || idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseAmount coerces a thousands-separated numeric string. Blank and
// non-numeric cells report !ok and are dropped by the caller.
func parseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/06",
	"01/02/06",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-06",
	"02-Jan-06",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseDate returns nil for blank or unparseable cells; a missing date
// means an open-ended validity window, never a dropped row.
func parseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// dedupe drops exact duplicate records, preserving first occurrence.
func dedupe(records []domain.RateRecord) []domain.RateRecord {
	type key struct {
		g      domain.GroupKey
		eff    string
		exp    string
		amount float64
	}
	seen := make(map[key]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		k := key{g: r.Group(), amount: r.Amount}
		if r.EffectiveDate != nil {
			k.eff = r.EffectiveDate.Format("2006-01-02")
		}
		if r.ExpirationDate != nil {
			k.exp = r.ExpirationDate.Format("2006-01-02")
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
