package quote

import (
	"sort"
	"strings"

	"ratedesk/pkg/contracts/domain"
)

// reefer plan items fall back to dry columns when the Master carries no
// dedicated reefer rate for a row.
var rateFallbacks = map[domain.ContainerType][]domain.ContainerType{
	domain.Container20RF: {domain.Container20RF, domain.Container20GP},
	domain.Container40RF: {domain.Container40RF, domain.Container40HQ, domain.Container40GP},
}

// baseRate resolves the unit rate on a row for a plan container type,
// applying reefer fallbacks.
func baseRate(row domain.MasterRow, ct domain.ContainerType) (float64, bool) {
	if fallbacks, ok := rateFallbacks[ct]; ok {
		for _, alt := range fallbacks {
			if v, ok := row.Rate(alt); ok {
				return v, true
			}
		}
		return 0, false
	}
	return row.Rate(ct)
}

// effectiveRate is the base rate plus the per-carrier markup.
func effectiveRate(row domain.MasterRow, ct domain.ContainerType, markup map[string]float64) (float64, bool) {
	base, ok := baseRate(row, ct)
	if !ok {
		return 0, false
	}
	return base + markup[carrierKey(row.Carrier)], true
}

// hasAllRates reports whether a row can price every item of the plan.
func hasAllRates(row domain.MasterRow, plan []domain.ContainerPlanItem) bool {
	for _, item := range plan {
		if _, ok := baseRate(row, item.Type); !ok {
			return false
		}
	}
	return true
}

// pricedRow pairs a candidate with its plan total.
type pricedRow struct {
	row   domain.MasterRow
	total float64
}

func totalFor(row domain.MasterRow, plan []domain.ContainerPlanItem, markup map[string]float64) float64 {
	var total float64
	for _, item := range plan {
		rate, _ := effectiveRate(row, item.Type, markup)
		total += rate * float64(item.Quantity)
	}
	return total
}

// selectOptions applies the selection policy. Without a preferred list:
// cheapest row per carrier, then the maxOptions cheapest carriers
// overall (one option per carrier). With a preferred list the
// per-carrier dedupe is skipped and the maxOptions cheapest rows win.
func selectOptions(priced []pricedRow, hasPreferred bool, maxOptions int) []pricedRow {
	if maxOptions < 1 {
		maxOptions = 1
	}

	sorted := make([]pricedRow, len(priced))
	copy(sorted, priced)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].total < sorted[j].total
	})

	if hasPreferred {
		if len(sorted) > maxOptions {
			sorted = sorted[:maxOptions]
		}
		return sorted
	}

	seen := make(map[string]struct{})
	perCarrier := make([]pricedRow, 0, len(sorted))
	for _, p := range sorted {
		key := carrierKey(p.row.Carrier)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		perCarrier = append(perCarrier, p)
	}
	if len(perCarrier) > maxOptions {
		perCarrier = perCarrier[:maxOptions]
	}
	return perCarrier
}

// normalizeMarkup uppercases carrier keys so lookups match rows.
func normalizeMarkup(markup map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(markup))
	for carrier, amount := range markup {
		out[carrierKey(carrier)] = amount
	}
	return out
}

// buildNotes joins rate type and routing note for display on an option.
func buildNotes(row domain.MasterRow) string {
	var parts []string
	if rt := strings.TrimSpace(string(row.RateType)); rt != "" {
		parts = append(parts, rt)
	}
	if note := strings.TrimSpace(row.RoutingNote); note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, " / ")
}
