// Package quote filters, prices and ranks the Master rate table for a
// shipment request. The engine is a sequential filter-then-price-then-
// rank pipeline over an in-memory Master snapshot; every "no match"
// outcome is a domain-coded Error, not a panic.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ratedesk/pkg/contracts/domain"
)

// Scheduler resolves the estimated sailing attached to each option. A
// zero result means "schedule unknown" and never fails the quote.
type Scheduler interface {
	ScheduleFor(carrier, pol, podCode string, cargoReady *time.Time) domain.ScheduleResult
}

// AuditLog persists successful quotes for later review.
type AuditLog interface {
	LogQuote(ctx context.Context, result domain.QuoteResult) error
}

// Request is one quote invocation.
type Request struct {
	Customer   domain.CustomerInfo
	Shipment   domain.ShipmentRequest
	Containers []domain.ContainerPlanItem
	Options    domain.EngineOptions
}

// Engine generates quotes against a Master snapshot. It holds no
// Master state itself: callers pass the snapshot per call, so the
// computation is pure apart from issuing the reference counter and the
// best-effort audit write.
type Engine struct {
	logger    *slog.Logger
	seqs      SequenceSource
	scheduler Scheduler
	audit     AuditLog

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// NewEngine wires the engine. scheduler and audit may be nil: options
// then carry no schedule and nothing is logged. seqs may be nil only in
// tests; without it quotes carry an empty reference.
func NewEngine(logger *slog.Logger, seqs SequenceSource, scheduler Scheduler, audit AuditLog) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, seqs: seqs, scheduler: scheduler, audit: audit, now: time.Now}
}

// Generate runs the full pipeline. Domain outcomes (nothing matched a
// filter stage, no row prices the whole plan, missing place of
// delivery) come back as *Error; infrastructure failures (the reference
// counter store being unwritable) come back as ordinary wrapped errors.
func (e *Engine) Generate(ctx context.Context, master []domain.MasterRow, req Request) (*domain.QuoteResult, error) {
	shipment := req.Shipment
	if shipment.PlaceOfDelivery == "" {
		return nil, &Error{Code: CodeMissingPlaceOfDelivery, Message: "place of delivery is required"}
	}
	if len(req.Containers) == 0 {
		return nil, &Error{Code: CodeNoValidRateForPlan, Message: "container plan is empty"}
	}

	opts := req.Options
	if opts.MaxOptions <= 0 {
		opts.MaxOptions = domain.DefaultMaxOptions
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	markup := normalizeMarkup(opts.MarkupPerCarrier)

	stages := filterStages(shipment)
	if len(opts.PreferredCarriers) > 0 {
		stages = append(stages, stagePreferredCarriers(opts.PreferredCarriers))
	}
	if len(opts.ExcludedCarriers) > 0 {
		stages = append(stages, stageExcludedCarriers(opts.ExcludedCarriers))
	}
	if shipment.CargoReadyDate != nil {
		stages = append(stages, stageValidity(*shipment.CargoReadyDate))
	}

	candidates, stageErr := runStages(master, stages)
	if stageErr != nil {
		e.logger.Info("quote pipeline emptied",
			slog.String("code", stageErr.Code),
			slog.String("pol", shipment.POL),
			slog.String("place_of_delivery", shipment.PlaceOfDelivery))
		return nil, stageErr
	}

	complete := keep(candidates, func(r domain.MasterRow) bool {
		return hasAllRates(r, req.Containers)
	})
	if len(complete) == 0 {
		return nil, &Error{
			Code:    CodeNoValidRateForPlan,
			Message: "no rate row covers every container type in the plan",
		}
	}

	priced := make([]pricedRow, 0, len(complete))
	for _, row := range complete {
		priced = append(priced, pricedRow{row: row, total: totalFor(row, req.Containers, markup)})
	}
	selected := selectOptions(priced, len(opts.PreferredCarriers) > 0, opts.MaxOptions)

	options := make([]domain.QuoteOption, 0, len(selected))
	for i, p := range selected {
		options = append(options, e.buildOption(i+1, p, req, markup, opts.Currency))
	}

	result := &domain.QuoteResult{
		QuoteDate: e.now().Format("2006-01-02"),
		Summary:   buildSummary(req, opts.Currency),
		Options:   options,
	}

	if e.seqs != nil {
		ref, err := BuildRef(ctx, e.seqs, req.Customer.Name, e.now())
		if err != nil {
			return nil, fmt.Errorf("quote generation: %w", err)
		}
		result.QuoteRefNo = ref
	}

	if e.audit != nil {
		if err := e.audit.LogQuote(ctx, *result); err != nil {
			e.logger.Warn("quote audit log write failed",
				slog.String("quote_ref", result.QuoteRefNo),
				slog.String("error", err.Error()))
		}
	}

	e.logger.Info("quote generated",
		slog.String("quote_ref", result.QuoteRefNo),
		slog.String("pol", shipment.POL),
		slog.String("place_of_delivery", shipment.PlaceOfDelivery),
		slog.Int("options", len(options)))
	return result, nil
}

func (e *Engine) buildOption(index int, p pricedRow, req Request, markup map[string]float64, currency string) domain.QuoteOption {
	row := p.row

	rates := make(map[domain.ContainerType]float64, len(req.Containers))
	plan := make([]domain.ContainerCharge, 0, len(req.Containers))
	for _, item := range req.Containers {
		unit, _ := effectiveRate(row, item.Type, markup)
		rates[item.Type] = unit
		plan = append(plan, domain.ContainerCharge{
			Type:     item.Type,
			Quantity: item.Quantity,
			UnitRate: unit,
			Amount:   unit * float64(item.Quantity),
		})
	}

	opt := domain.QuoteOption{
		Index:              index,
		IsRecommended:      index == 1,
		Carrier:            row.Carrier,
		RateType:           row.RateType,
		POL:                row.POL,
		POD:                row.POD,
		PlaceOfDelivery:    row.PlaceOfDelivery,
		ContractIdentifier: row.ContractIdentifier,
		CommodityType:      row.CommodityType,
		ValidFrom:          fmtDate(row.EffectiveDate),
		ValidTo:            fmtDate(row.ExpirationDate),
		ContainerRates:     rates,
		ContainerPlan:      plan,
		TotalOceanAmount:   p.total,
		Currency:           currency,
		Notes:              buildNotes(row),
	}

	if e.scheduler != nil {
		sched := e.scheduler.ScheduleFor(row.Carrier, req.Shipment.POL, row.POD, req.Shipment.CargoReadyDate)
		if !sched.IsZero() {
			opt.Schedule = &sched
		}
	}
	return opt
}

func buildSummary(req Request, currency string) domain.QuoteSummary {
	shipment := req.Shipment
	return domain.QuoteSummary{
		CustomerName:      req.Customer.Name,
		CustomerEmail:     req.Customer.Email,
		ContactPerson:     req.Customer.ContactPerson,
		SalesPerson:       req.Customer.SalesPerson,
		Route:             fmt.Sprintf("%s → %s", shipment.POL, shipment.PlaceOfDelivery),
		POL:               shipment.POL,
		POD:               shipment.POD,
		PlaceOfDelivery:   shipment.PlaceOfDelivery,
		ContainersSummary: domain.SummarizeContainers(req.Containers),
		Incoterm:          shipment.Incoterm,
		CommodityType:     commodityOrAny(shipment.CommodityType),
		ExcludeSOC:        shipment.ExcludeSOC,
		Currency:          currency,
	}
}

func commodityOrAny(commodity string) string {
	if commodity == "" {
		return "ANY"
	}
	return commodity
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
