package quote

import (
	"sort"

	"ratedesk/pkg/contracts/domain"
)

// CostPreviewRow is one carrier's cheapest matching row at base rates,
// before markup. Used by the sales-side cost check, not the customer
// quote.
type CostPreviewRow struct {
	Carrier            string                           `json:"carrier"`
	RateType           domain.RateType                  `json:"rate_type,omitempty"`
	POD                string                           `json:"pod"`
	PlaceOfDelivery    string                           `json:"place_of_delivery"`
	ContractIdentifier string                           `json:"contract_identifier,omitempty"`
	CommodityType      string                           `json:"commodity_type,omitempty"`
	ValidFrom          string                           `json:"valid_from,omitempty"`
	ValidTo            string                           `json:"valid_to,omitempty"`
	ContainerRates     map[domain.ContainerType]float64 `json:"container_rates"`
	Total              float64                          `json:"total"`
	Notes              string                           `json:"notes,omitempty"`
}

// PreviewCost runs the shipment filters without carrier preferences or
// markup and returns every carrier's cheapest complete row, ascending by
// plan total. Carrier allow/deny lists and markups are quote-side
// concerns and deliberately ignored here.
func PreviewCost(master []domain.MasterRow, shipment domain.ShipmentRequest, plan []domain.ContainerPlanItem) ([]CostPreviewRow, error) {
	if shipment.PlaceOfDelivery == "" {
		return nil, &Error{Code: CodeMissingPlaceOfDelivery, Message: "place of delivery is required"}
	}
	if len(plan) == 0 {
		return nil, &Error{Code: CodeNoValidRateForPlan, Message: "container plan is empty"}
	}

	stages := filterStages(shipment)
	if shipment.CargoReadyDate != nil {
		stages = append(stages, stageValidity(*shipment.CargoReadyDate))
	}
	candidates, stageErr := runStages(master, stages)
	if stageErr != nil {
		return nil, stageErr
	}

	complete := keep(candidates, func(r domain.MasterRow) bool {
		return hasAllRates(r, plan)
	})
	if len(complete) == 0 {
		return nil, &Error{
			Code:    CodeNoValidRateForPlan,
			Message: "no rate row covers every container type in the plan",
		}
	}

	noMarkup := map[string]float64{}
	cheapest := make(map[string]pricedRow)
	for _, row := range complete {
		p := pricedRow{row: row, total: totalFor(row, plan, noMarkup)}
		key := carrierKey(row.Carrier)
		if best, ok := cheapest[key]; !ok || p.total < best.total {
			cheapest[key] = p
		}
	}

	rows := make([]pricedRow, 0, len(cheapest))
	for _, p := range cheapest {
		rows = append(rows, p)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total < rows[j].total
		}
		return rows[i].row.Carrier < rows[j].row.Carrier
	})

	out := make([]CostPreviewRow, 0, len(rows))
	for _, p := range rows {
		rates := make(map[domain.ContainerType]float64, len(plan))
		for _, item := range plan {
			v, _ := baseRate(p.row, item.Type)
			rates[item.Type] = v
		}
		out = append(out, CostPreviewRow{
			Carrier:            p.row.Carrier,
			RateType:           p.row.RateType,
			POD:                p.row.POD,
			PlaceOfDelivery:    p.row.PlaceOfDelivery,
			ContractIdentifier: p.row.ContractIdentifier,
			CommodityType:      p.row.CommodityType,
			ValidFrom:          fmtDate(p.row.EffectiveDate),
			ValidTo:            fmtDate(p.row.ExpirationDate),
			ContainerRates:     rates,
			Total:              p.total,
			Notes:              buildNotes(p.row),
		})
	}
	return out, nil
}
