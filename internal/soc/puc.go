// Package soc adjusts shipper-owned-container rate amounts using the
// port-use-charge (PUC) reference table. Listed carriers quote SOC
// lanes net of the destination port-use charge, so ingestion subtracts
// the raw per-row charge and reconciliation adds the reference charge
// back before the rate reaches the Master.
package soc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ratedesk/internal/normalize"
	"ratedesk/pkg/contracts/domain"
)

// Carriers lists the carriers whose SOC bookings carry a PUC adjustment.
var Carriers = []string{"CMA", "ONE", "YML"}

const tableSheet = "PUC_SOC"

// cityCharge holds the per-city charge pair: 20-foot class and 40-foot
// class. Nil means the sheet had no usable value (blank, TBA, N/A).
type cityCharge struct {
	rate20 *float64
	rate40 *float64
}

// Table is the loaded port-use-charge reference, keyed by uppercased
// city name.
type Table struct {
	charges map[string]cityCharge
	// cities sorted longest-first so containment resolution prefers the
	// most specific match.
	cities []string
}

// LoadTable reads the PUC_SOC reference workbook. Required header
// columns: PlaceOfDelivery, 20DC, 40HC.
func LoadTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open PUC table %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(tableSheet)
	if err != nil {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("PUC table %s has no sheets", path)
		}
		rows, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read PUC table %s: %w", path, err)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("PUC table %s is empty", path)
	}

	placeCol, col20, col40 := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "PLACEOFDELIVERY":
			placeCol = i
		case "20DC":
			col20 = i
		case "40HC":
			col40 = i
		}
	}
	if placeCol < 0 || col20 < 0 || col40 < 0 {
		return nil, fmt.Errorf("PUC table %s missing PlaceOfDelivery/20DC/40HC columns", path)
	}

	t := &Table{charges: make(map[string]cityCharge)}
	for _, row := range rows[1:] {
		if placeCol >= len(row) {
			continue
		}
		city := strings.ToUpper(strings.TrimSpace(row[placeCol]))
		if city == "" {
			continue
		}
		t.charges[city] = cityCharge{
			rate20: parseCharge(cellAt(row, col20)),
			rate40: parseCharge(cellAt(row, col40)),
		}
	}

	t.cities = make([]string, 0, len(t.charges))
	for city := range t.charges {
		t.cities = append(t.cities, city)
	}
	sort.Slice(t.cities, func(i, j int) bool {
		if len(t.cities[i]) != len(t.cities[j]) {
			return len(t.cities[i]) > len(t.cities[j])
		}
		return t.cities[i] < t.cities[j]
	})
	return t, nil
}

// CityKey resolves the PUC city for a PlaceOfDelivery value: the
// longest known city name contained in it, else the prefix before the
// first '(' or ','.
func (t *Table) CityKey(placeOfDelivery string) string {
	up := strings.ToUpper(strings.TrimSpace(placeOfDelivery))
	if up == "" {
		return ""
	}
	for _, city := range t.cities {
		if strings.Contains(up, city) {
			return city
		}
	}
	base := up
	if i := strings.Index(base, "("); i >= 0 {
		base = base[:i]
	}
	if i := strings.Index(base, ","); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSpace(base)
}

// ChargeFor returns the per-container charge for a place and container
// type. Unknown cities, missing charges and excluded size classes
// (45-foot) all yield zero; a missing charge never rejects a row.
func (t *Table) ChargeFor(placeOfDelivery string, ct domain.ContainerType) float64 {
	class, ok := normalize.ContainerSizeClass(ct)
	if !ok {
		return 0
	}
	charge, ok := t.charges[t.CityKey(placeOfDelivery)]
	if !ok {
		return 0
	}
	switch class {
	case "20":
		if charge.rate20 != nil {
			return *charge.rate20
		}
	case "40":
		if charge.rate40 != nil {
			return *charge.rate40
		}
	}
	return 0
}

// Eligible reports whether a record is subject to PUC adjustment: its
// carrier is in the allow-list and its routing note marks the booking
// as SOC.
func Eligible(r domain.RateRecord) bool {
	carrier := strings.ToUpper(strings.TrimSpace(r.Carrier))
	listed := false
	for _, c := range Carriers {
		if carrier == c {
			listed = true
			break
		}
	}
	return listed && strings.Contains(strings.ToUpper(r.RoutingNote), "SOC")
}

// SubtractAtIngest removes the raw per-row port-use charge (read from
// the rate sheet's own PUC block) from eligible records, and clears the
// transient charge field. Pure.
func SubtractAtIngest(records []domain.RateRecord) []domain.RateRecord {
	out := make([]domain.RateRecord, len(records))
	copy(out, records)
	for i := range out {
		if !Eligible(out[i]) {
			out[i].RawPortUseCharge = 0
			continue
		}
		if _, classed := normalize.ContainerSizeClass(out[i].ContainerType); !classed {
			out[i].RawPortUseCharge = 0
			continue
		}
		out[i].Amount -= out[i].RawPortUseCharge
		out[i].RawPortUseCharge = 0
	}
	return out
}

// AddAtReconcile adds the reference-table charge back onto eligible
// records during reconciliation. Records with no resolvable city or
// missing charge are left unadjusted. Pure.
func (t *Table) AddAtReconcile(records []domain.RateRecord) []domain.RateRecord {
	out := make([]domain.RateRecord, len(records))
	copy(out, records)
	for i := range out {
		if !Eligible(out[i]) {
			continue
		}
		out[i].Amount += t.ChargeFor(out[i].PlaceOfDelivery, out[i].ContainerType)
	}
	return out
}

func parseCharge(raw string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	switch strings.ToUpper(s) {
	case "", "TBA", "N/A":
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
