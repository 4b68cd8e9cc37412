package domain

import (
	"time"
)

// ContainerType identifies an equipment type column in a rate sheet.
type ContainerType string

const (
	Container20GP  ContainerType = "20GP"
	Container40GP  ContainerType = "40GP"
	Container40HQ  ContainerType = "40HQ"
	Container45HQ  ContainerType = "45HQ"
	Container40NOR ContainerType = "40NOR"
	Container20RF  ContainerType = "20RF"
	Container40RF  ContainerType = "40RF"
)

// ContainerColumnOrder is the canonical column order for wide output.
var ContainerColumnOrder = []ContainerType{
	Container20GP,
	Container40GP,
	Container40HQ,
	Container45HQ,
	Container40NOR,
}

// RateType identifies the source-sheet family a rate record came from.
type RateType string

const (
	RateTypeFAK     RateType = "FAK"
	RateTypeSCFI    RateType = "HPL_SCFI"
	RateTypeONESpec RateType = "ONE_SPECIAL RATE"
)

// RateRecord is one carrier's price for one container type on one
// lane/contract/commodity combination, valid over one date range.
// Records are transient: produced by the parser, consumed by the
// reconciler, never persisted in long form except as audit history.
type RateRecord struct {
	POL                string     `json:"pol"`
	POD                string     `json:"pod"`
	PlaceOfDelivery    string     `json:"place_of_delivery"`
	RoutingNote        string     `json:"routing_note"`
	Carrier            string     `json:"carrier"`
	EffectiveDate      *time.Time `json:"effective_date,omitempty"`
	ExpirationDate     *time.Time `json:"expiration_date,omitempty"`
	ContractIdentifier string     `json:"contract_identifier,omitempty"`
	CommodityType      string     `json:"commodity_type,omitempty"`
	ContainerType      ContainerType `json:"container_type"`
	Amount             float64    `json:"amount"`
	RateType           RateType   `json:"rate_type"`
	SourceFile         string     `json:"source_file"`

	// RawPortUseCharge is the per-container port-use charge read alongside
	// the rate in sheets that carry a PUC block. It is consumed by the SOC
	// adjuster at ingestion time and is zero afterwards.
	RawPortUseCharge float64 `json:"-"`
}

// GroupKey identifies the reconciliation group a record belongs to:
// one lane + carrier + contract + commodity + rate type + container type.
type GroupKey struct {
	POL                string
	POD                string
	PlaceOfDelivery    string
	RoutingNote        string
	Carrier            string
	ContractIdentifier string
	CommodityType      string
	RateType           RateType
	ContainerType      ContainerType
}

// Group returns the reconciliation group key for the record.
func (r RateRecord) Group() GroupKey {
	return GroupKey{
		POL:                r.POL,
		POD:                r.POD,
		PlaceOfDelivery:    r.PlaceOfDelivery,
		RoutingNote:        r.RoutingNote,
		Carrier:            r.Carrier,
		ContractIdentifier: r.ContractIdentifier,
		CommodityType:      r.CommodityType,
		RateType:           r.RateType,
		ContainerType:      r.ContainerType,
	}
}

// RowKey identifies a wide Master row: the group key minus the container
// type, plus the validity window.
type RowKey struct {
	POL                string
	POD                string
	PlaceOfDelivery    string
	RoutingNote        string
	Carrier            string
	ContractIdentifier string
	CommodityType      string
	RateType           RateType
	EffectiveDate      string
	ExpirationDate     string
}

// DeltaDirection classifies a period-over-period rate movement.
type DeltaDirection string

const (
	DeltaIncrease  DeltaDirection = "increase"
	DeltaDecrease  DeltaDirection = "decrease"
	DeltaUnchanged DeltaDirection = "unchanged"
)

// RateDelta describes one container column's movement versus the
// immediately preceding record in the same reconciliation group.
// Raw keeps the signed numeric delta for filtering and tests; Display
// is the human-facing string shown on the Master sheet.
type RateDelta struct {
	Direction DeltaDirection `json:"direction"`
	Magnitude float64        `json:"magnitude"`
	Raw       float64        `json:"raw"`
	Display   string         `json:"display"`
}

// MasterRow is one wide, reconciled rate row: one lane + carrier +
// contract + commodity + rate type + validity window, with one amount
// per container type. All container columns on a row describe the same
// key tuple. Deltas is populated for current rows only.
type MasterRow struct {
	POL                string     `json:"pol"`
	POD                string     `json:"pod"`
	PlaceOfDelivery    string     `json:"place_of_delivery"`
	RoutingNote        string     `json:"routing_note"`
	Carrier            string     `json:"carrier"`
	EffectiveDate      *time.Time `json:"effective_date,omitempty"`
	ExpirationDate     *time.Time `json:"expiration_date,omitempty"`
	ContractIdentifier string     `json:"contract_identifier,omitempty"`
	CommodityType      string     `json:"commodity_type,omitempty"`
	RateType           RateType   `json:"rate_type"`

	Rates  map[ContainerType]float64   `json:"rates"`
	Deltas map[ContainerType]RateDelta `json:"deltas,omitempty"`
}

// Rate returns the amount for the given container type.
func (m MasterRow) Rate(ct ContainerType) (float64, bool) {
	v, ok := m.Rates[ct]
	return v, ok
}

// IsCurrent reports whether the row is still usable for pricing at the
// given cutoff date. Rows with no expiration are open-ended.
func (m MasterRow) IsCurrent(cutoff time.Time) bool {
	if m.ExpirationDate == nil {
		return true
	}
	return !m.ExpirationDate.Before(cutoff)
}
