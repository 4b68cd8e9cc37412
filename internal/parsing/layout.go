package parsing

import (
	"ratedesk/pkg/contracts/domain"
)

// ColumnAbsent marks a field the layout does not carry.
const ColumnAbsent = -1

// ContainerColumn binds one container type to a fixed column offset.
type ContainerColumn struct {
	Type domain.ContainerType
	Col  int
}

// RateLayout is the positional schema for one rate-type family. Offsets
// are zero-based raw column indexes; layouts are resolved by rate type,
// never by header text, so adding a rate type is a table entry here.
type RateLayout struct {
	HeaderRows int

	POL            int
	POD            int
	Place          int
	RoutingNote    int
	Carrier        int
	EffectiveDate  int
	ExpirationDate int
	Commodity      int
	Contract       int

	// FixedCarrier / FixedCommodity override the column values for
	// layouts that hard-code them.
	FixedCarrier   string
	FixedCommodity string

	Containers []ContainerColumn

	// PUCColumns maps container types to the raw port-use-charge block
	// carried on the same row, where the sheet has one.
	PUCColumns map[domain.ContainerType]int
}

var layouts = map[domain.RateType]RateLayout{
	domain.RateTypeFAK: {
		HeaderRows:     2,
		POL:            0,
		POD:            1,
		Place:          2,
		RoutingNote:    3,
		Carrier:        5,
		EffectiveDate:  6,
		ExpirationDate: 7,
		Commodity:      9,
		Contract:       11,
		Containers: []ContainerColumn{
			{domain.Container20GP, 12},
			{domain.Container40GP, 13},
			{domain.Container40HQ, 14},
			{domain.Container45HQ, 15},
			{domain.Container40NOR, 16},
		},
		PUCColumns: map[domain.ContainerType]int{
			domain.Container20GP: 38,
			domain.Container40GP: 39,
			domain.Container40HQ: 40,
			domain.Container45HQ: 41,
		},
	},
	domain.RateTypeONESpec: {
		HeaderRows:     2,
		POL:            0,
		POD:            1,
		Place:          2,
		RoutingNote:    3,
		Carrier:        5,
		EffectiveDate:  6,
		ExpirationDate: 7,
		Commodity:      ColumnAbsent,
		Contract:       11,
		FixedCommodity: "FIX RATE",
		Containers: []ContainerColumn{
			{domain.Container20GP, 12},
			{domain.Container40GP, 13},
			{domain.Container40HQ, 14},
			{domain.Container45HQ, 15},
			{domain.Container40NOR, 16},
		},
		PUCColumns: map[domain.ContainerType]int{
			domain.Container20GP: 38,
			domain.Container40GP: 39,
			domain.Container40HQ: 40,
			domain.Container45HQ: 41,
		},
	},
	domain.RateTypeSCFI: {
		HeaderRows:     2,
		POL:            0,
		POD:            1,
		Place:          2,
		RoutingNote:    ColumnAbsent,
		Carrier:        ColumnAbsent,
		EffectiveDate:  3,
		ExpirationDate: 4,
		Commodity:      ColumnAbsent,
		Contract:       ColumnAbsent,
		FixedCarrier:   "HPL",
		Containers: []ContainerColumn{
			{domain.Container20GP, 5},
			{domain.Container40GP, 6},
			{domain.Container40HQ, 7},
		},
	},
}

// LayoutFor returns the positional schema for a rate type.
func LayoutFor(rt domain.RateType) (RateLayout, bool) {
	l, ok := layouts[rt]
	return l, ok
}
