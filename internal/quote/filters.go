package quote

import (
	"strings"
	"time"

	"ratedesk/pkg/contracts/domain"
)

// stage is one step of the filter pipeline: a pure narrowing function
// over an immutable candidate slice. A stage that empties the set
// short-circuits the pipeline with its domain error.
type stage struct {
	name  string
	apply func(rows []domain.MasterRow) ([]domain.MasterRow, *Error)
}

func runStages(rows []domain.MasterRow, stages []stage) ([]domain.MasterRow, *Error) {
	for _, st := range stages {
		var err *Error
		rows, err = st.apply(rows)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// keep returns the subset of rows satisfying pred, never mutating the
// input slice.
func keep(rows []domain.MasterRow, pred func(domain.MasterRow) bool) []domain.MasterRow {
	out := make([]domain.MasterRow, 0, len(rows))
	for _, row := range rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// filterStages builds the ordered candidate filters for a shipment.
// Carrier allow/deny stages are appended by the engine when options
// carry them; the cost preview runs without them.
func filterStages(shipment domain.ShipmentRequest) []stage {
	stages := []stage{
		stagePOL(shipment.POL),
		stagePlace(shipment.PlaceOfDelivery),
	}
	if shipment.POD != "" {
		stages = append(stages, stagePOD(shipment.POD))
	}
	if c := strings.ToUpper(strings.TrimSpace(shipment.CommodityType)); c != "" && c != "ANY" {
		stages = append(stages, stageCommodity(c))
	}
	if shipment.ExcludeSOC {
		stages = append(stages, stageExcludeSOC())
	}
	return stages
}

func stagePOL(pol string) stage {
	want := strings.ToUpper(strings.TrimSpace(pol))
	return stage{name: "pol", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			return strings.ToUpper(strings.TrimSpace(r.POL)) == want
		})
		if len(rows) == 0 {
			return nil, noRate("no rates found for POL %q", pol)
		}
		return rows, nil
	}}
}

func stagePlace(place string) stage {
	want := strings.ToUpper(strings.TrimSpace(place))
	return stage{name: "place_of_delivery", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			return strings.Contains(strings.ToUpper(r.PlaceOfDelivery), want)
		})
		if len(rows) == 0 {
			return nil, noRate("no rates found with place of delivery containing %q", place)
		}
		return rows, nil
	}}
}

func stagePOD(pod string) stage {
	want := strings.ToUpper(strings.TrimSpace(pod))
	return stage{name: "pod", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			return strings.Contains(strings.ToUpper(r.POD), want)
		})
		if len(rows) == 0 {
			return nil, noRate("no rates found with POD containing %q", pod)
		}
		return rows, nil
	}}
}

// stageCommodity matches the requested commodity against the normalized
// vocabulary. FAK deliberately excludes reefer FAK variants; named
// families match by containment; anything else must match exactly.
func stageCommodity(commodityUpper string) stage {
	return stage{name: "commodity", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			rowComm := strings.ToUpper(r.CommodityType)
			switch commodityUpper {
			case "FAK":
				return strings.Contains(rowComm, "FAK") && !strings.Contains(rowComm, "REEFER")
			case "REEFER":
				return strings.Contains(rowComm, "REEFER")
			case "FIX RATE", "SHORT TERM GDSM":
				return strings.Contains(rowComm, commodityUpper)
			default:
				return rowComm == commodityUpper
			}
		})
		if len(rows) == 0 {
			return nil, noRate("no rates found for commodity type %q", commodityUpper)
		}
		return rows, nil
	}}
}

func stageExcludeSOC() stage {
	return stage{name: "soc", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			return !strings.Contains(strings.ToUpper(r.RoutingNote), "SOC")
		})
		if len(rows) == 0 {
			return nil, noRate("no rates left after excluding SOC routings")
		}
		return rows, nil
	}}
}

func stagePreferredCarriers(preferred []string) stage {
	allow := upperSet(preferred)
	return stage{name: "preferred_carriers", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			_, ok := allow[carrierKey(r.Carrier)]
			return ok
		})
		if len(rows) == 0 {
			return nil, noRate("no rates found for preferred carriers %v", preferred)
		}
		return rows, nil
	}}
}

func stageExcludedCarriers(excluded []string) stage {
	deny := upperSet(excluded)
	return stage{name: "excluded_carriers", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			_, ok := deny[carrierKey(r.Carrier)]
			return !ok
		})
		if len(rows) == 0 {
			return nil, noRate("all remaining rates belong to excluded carriers")
		}
		return rows, nil
	}}
}

// stageValidity drops rows already expired at the cargo-ready date.
// Rows without an expiration date are open-ended and always pass.
func stageValidity(cargoReady time.Time) stage {
	day := time.Date(cargoReady.Year(), cargoReady.Month(), cargoReady.Day(), 0, 0, 0, 0, cargoReady.Location())
	return stage{name: "validity", apply: func(rows []domain.MasterRow) ([]domain.MasterRow, *Error) {
		rows = keep(rows, func(r domain.MasterRow) bool {
			return r.IsCurrent(day)
		})
		if len(rows) == 0 {
			return nil, noRate("no rates valid at cargo-ready date %s", day.Format("2006-01-02"))
		}
		return rows, nil
	}}
}

func carrierKey(carrier string) string {
	return strings.ToUpper(strings.TrimSpace(carrier))
}

func upperSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}
