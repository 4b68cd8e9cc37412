package schedule

import (
	"strings"
)

// Region buckets destination ports for transit-time estimation.
type Region string

const (
	RegionWest  Region = "WEST"
	RegionEast  Region = "EAST"
	RegionGulf  Region = "GULF"
	RegionOther Region = "OTHER"
)

var westPorts = map[string]struct{}{
	"USLAX": {}, // Los Angeles
	"USLGB": {}, // Long Beach
	"USOAK": {}, // Oakland
	"USTIW": {}, // Tacoma
	"USSEA": {}, // Seattle
	"CAVAN": {}, // Vancouver
	"CATIW": {}, // Tacoma inland/rail leg
}

var eastPorts = map[string]struct{}{
	"USNYC": {}, // New York
	"USSAV": {}, // Savannah
	"USCHS": {}, // Charleston
	"USORF": {}, // Norfolk
	"USJAX": {}, // Jacksonville
	"USBAL": {}, // Baltimore
	"USPHL": {}, // Philadelphia
}

var gulfPorts = map[string]struct{}{
	"USHOU":  {}, // Houston
	"USMOB":  {}, // Mobile
	"USNOL":  {}, // New Orleans
	"USNOLA": {},
}

var threeToFive = map[string]string{
	"CHS": "USCHS",
	"SAV": "USSAV",
	"NYC": "USNYC",
	"ORF": "USORF",
	"JAX": "USJAX",
	"BAL": "USBAL",
	"HOU": "USHOU",
	"LAX": "USLAX",
	"LGB": "USLGB",
	"OAK": "USOAK",
	"TIW": "USTIW",
	"SEA": "USSEA",
	"VAN": "CAVAN",
}

// ClassifyRegion buckets a POD code by coast.
func ClassifyRegion(podCode string) Region {
	pod := strings.ToUpper(strings.TrimSpace(podCode))
	if _, ok := westPorts[pod]; ok {
		return RegionWest
	}
	if _, ok := eastPorts[pod]; ok {
		return RegionEast
	}
	if _, ok := gulfPorts[pod]; ok {
		return RegionGulf
	}
	return RegionOther
}

// EstimateTransit returns the transit-day range for a POD code:
// West Coast 20-24, East Coast and Gulf 40-45, everything else 30-40.
func EstimateTransit(podCode string) (min, max int) {
	switch ClassifyRegion(podCode) {
	case RegionWest:
		return 20, 24
	case RegionEast, RegionGulf:
		return 40, 45
	default:
		return 30, 40
	}
}

// ExpandPODCandidates turns a Master POD value into the concrete
// 5-letter codes it can match in the schedule: slash/semicolon/comma
// lists are split, USEC/USWC expand to their coast sets, 3-letter
// shorthands map through the lookup table (falling back to "US"+code),
// full codes pass through.
func ExpandPODCandidates(podRaw string) []string {
	tokens := strings.FieldsFunc(strings.ToUpper(podRaw), func(r rune) bool {
		return r == '/' || r == ';' || r == ','
	})

	seen := make(map[string]struct{})
	add := func(code string) {
		if code != "" {
			seen[code] = struct{}{}
		}
	}

	for _, tok := range tokens {
		t := strings.TrimSpace(tok)
		if t == "" {
			continue
		}
		switch {
		case t == "USEC":
			for p := range eastPorts {
				add(p)
			}
		case t == "USWC":
			for p := range westPorts {
				add(p)
			}
		case len(t) == 5 && (strings.HasPrefix(t, "US") || strings.HasPrefix(t, "CA")):
			add(t)
		case len(t) == 3:
			add(t)
			if full, ok := threeToFive[t]; ok {
				add(full)
			} else {
				add("US" + t)
			}
		default:
			add(t)
		}
	}

	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	return out
}
