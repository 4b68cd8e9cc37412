package domain

import (
	"fmt"
	"strings"
	"time"
)

// CustomerInfo identifies the requesting customer on a quote.
type CustomerInfo struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	SalesPerson   string `json:"sales_person,omitempty"`
}

// ShipmentRequest describes the lane and cargo a quote is asked for.
// CommodityType "ANY" disables the commodity filter. ExcludeSOC drops
// shipper-owned-container rate rows from consideration.
type ShipmentRequest struct {
	POL             string     `json:"pol" validate:"required"`
	POD             string     `json:"pod,omitempty"`
	PlaceOfDelivery string     `json:"place_of_delivery" validate:"required"`
	CargoReadyDate  *time.Time `json:"cargo_ready_date,omitempty"`
	Incoterm        string     `json:"incoterm,omitempty"`
	CommodityType   string     `json:"commodity_type,omitempty"`
	ExcludeSOC      bool       `json:"exclude_soc,omitempty"`
}

// ContainerPlanItem is one line of the requested container plan.
type ContainerPlanItem struct {
	Type     ContainerType `json:"type" validate:"required"`
	Quantity int           `json:"quantity" validate:"required,min=1"`
}

// EngineOptions tune quote selection and pricing.
type EngineOptions struct {
	PreferredCarriers []string           `json:"preferred_carriers,omitempty"`
	ExcludedCarriers  []string           `json:"excluded_carriers,omitempty"`
	MaxOptions        int                `json:"max_options,omitempty"`
	Currency          string             `json:"currency,omitempty"`
	MarkupPerCarrier  map[string]float64 `json:"markup_per_carrier,omitempty"`
}

// DefaultMaxOptions bounds the option list when the caller does not.
const DefaultMaxOptions = 5

// ContainerCharge is the priced breakdown for one plan item on one option.
type ContainerCharge struct {
	Type     ContainerType `json:"type"`
	Quantity int           `json:"quantity"`
	UnitRate float64       `json:"unit_rate"`
	Amount   float64       `json:"amount"`
}

// QuoteOption is one priced, scheduled carrier option. Ephemeral:
// returned to the caller and optionally written to the audit log, never
// persisted in the Master.
type QuoteOption struct {
	Index              int                       `json:"index"`
	IsRecommended      bool                      `json:"is_recommended"`
	Carrier            string                    `json:"carrier"`
	RateType           RateType                  `json:"rate_type,omitempty"`
	POL                string                    `json:"pol"`
	POD                string                    `json:"pod"`
	PlaceOfDelivery    string                    `json:"place_of_delivery"`
	ContractIdentifier string                    `json:"contract_identifier,omitempty"`
	CommodityType      string                    `json:"commodity_type,omitempty"`
	ValidFrom          string                    `json:"valid_from,omitempty"`
	ValidTo            string                    `json:"valid_to,omitempty"`
	ContainerRates     map[ContainerType]float64 `json:"container_rates"`
	ContainerPlan      []ContainerCharge         `json:"container_plan"`
	TotalOceanAmount   float64                   `json:"total_ocean_amount"`
	Currency           string                    `json:"currency"`
	Schedule           *ScheduleResult           `json:"schedule,omitempty"`
	Notes              string                    `json:"notes,omitempty"`
}

// QuoteSummary restates the request on the quote output.
type QuoteSummary struct {
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email,omitempty"`
	ContactPerson     string `json:"contact_person,omitempty"`
	SalesPerson       string `json:"sales_person,omitempty"`
	Route             string `json:"route"`
	POL               string `json:"pol"`
	POD               string `json:"pod,omitempty"`
	PlaceOfDelivery   string `json:"place_of_delivery"`
	ContainersSummary string `json:"containers_summary"`
	Incoterm          string `json:"incoterm,omitempty"`
	CommodityType     string `json:"commodity_type"`
	ExcludeSOC        bool   `json:"exclude_soc"`
	Currency          string `json:"currency"`
}

// QuoteResult is a successful quote response.
type QuoteResult struct {
	QuoteRefNo string        `json:"quote_ref_no"`
	QuoteDate  string        `json:"quote_date"`
	Summary    QuoteSummary  `json:"summary"`
	Options    []QuoteOption `json:"options"`
}

// SummarizeContainers renders a plan as "2 x 40HQ, 1 x 20GP".
func SummarizeContainers(plan []ContainerPlanItem) string {
	parts := make([]string, 0, len(plan))
	for _, item := range plan {
		parts = append(parts, fmt.Sprintf("%d x %s", item.Quantity, item.Type))
	}
	return strings.Join(parts, ", ")
}
