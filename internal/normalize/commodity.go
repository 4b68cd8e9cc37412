package normalize

import (
	"strings"

	"ratedesk/pkg/contracts/domain"
)

// CommodityRule rewrites a free-text commodity label to a canonical
// value when every Contains needle appears in the raw text
// (case-insensitive substring containment).
type CommodityRule struct {
	Contains  []string
	Canonical string
}

// carrierCommodityRules is the per-carrier rewrite table. Rules are
// ordered and first-match-wins, so a more specific refinement (YML's
// "GROUP A" qualifier) must precede the general rule it refines.
// Canonical outputs never re-match any needle in the same table, which
// keeps normalization idempotent.
var carrierCommodityRules = map[string][]CommodityRule{
	"COSCO": {
		{Contains: []string{"FAK (EXCLUDING GARMENT)"}, Canonical: "FAK"},
		{Contains: []string{"GARMENTS/TEXTILE/CONSOL"}, Canonical: "GARMENT"},
	},
	"EMC": {
		{Contains: []string{"RATE 1 - GENERAL CARGO"}, Canonical: "RATE 1"},
	},
	"HPL": {
		{Contains: []string{"FAK INCLUDING GARMENT"}, Canonical: "FAK"},
	},
	"YML": {
		{Contains: []string{"GROUP A", ymlFAKLabel}, Canonical: "GROUP A"},
		{Contains: []string{ymlFAKLabel}, Canonical: "FAK"},
	},
}

const ymlFAKLabel = "FAK (NON-HAZ, EXCLUDING REEFER/ SHIPS/ BOATS/ VEHICLES/ CARS)"

// NormalizeCommodities rewrites commodity labels into the canonical
// vocabulary, per carrier. Pure: the input slice is not mutated.
// Records for carriers with no rule entry pass through unchanged, and
// re-running on already-normalized values is a no-op.
func NormalizeCommodities(records []domain.RateRecord) []domain.RateRecord {
	out := make([]domain.RateRecord, len(records))
	copy(out, records)

	for i := range out {
		carrierUp := strings.ToUpper(out[i].Carrier)
		for carrier, rules := range carrierCommodityRules {
			if !strings.Contains(carrierUp, carrier) {
				continue
			}
			if canonical, ok := matchCommodity(out[i].CommodityType, rules); ok {
				out[i].CommodityType = canonical
			}
			break
		}
	}
	return out
}

func matchCommodity(raw string, rules []CommodityRule) (string, bool) {
	up := strings.ToUpper(raw)
	for _, rule := range rules {
		matched := true
		for _, needle := range rule.Contains {
			if !strings.Contains(up, strings.ToUpper(needle)) {
				matched = false
				break
			}
		}
		if matched {
			return rule.Canonical, true
		}
	}
	return "", false
}
