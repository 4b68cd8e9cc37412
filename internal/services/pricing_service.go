// Package services wires domain components into the request-facing
// pricing service: the Master snapshot, schedule estimator, reference
// counter store and quote engine behind one type the HTTP layer calls.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ratedesk/internal/config"
	"ratedesk/internal/master"
	"ratedesk/internal/quote"
	"ratedesk/internal/schedule"
	"ratedesk/internal/store/sqlite"
	"ratedesk/pkg/contracts/domain"
)

// PricingService serves quotes, cost previews and schedule lookups over
// an in-memory Master snapshot. Quote computation is pure over the
// snapshot; the only cross-request state is the sqlite counter store,
// which serializes reference sequences itself.
type PricingService struct {
	logger    *slog.Logger
	engine    *quote.Engine
	estimator *schedule.Estimator
	store     *sqlite.Store
	paths     config.PathsConfig

	mu     sync.RWMutex
	rows   []domain.MasterRow
	loaded time.Time
}

// NewPricingService loads the Master workbook, schedule index and
// counter store named by paths. A missing Master workbook is a hard
// error; a missing schedule workbook degrades to quotes without
// sailings and is logged.
func NewPricingService(paths config.PathsConfig, logger *slog.Logger) (*PricingService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := master.Load(paths.MasterFile, logger)
	if err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}

	var estimator *schedule.Estimator
	idx, err := schedule.LoadIndex(paths.ScheduleFile, logger)
	if err != nil {
		logger.Warn("schedule index unavailable, quotes will carry no sailings",
			slog.String("path", paths.ScheduleFile),
			slog.String("error", err.Error()))
	} else {
		estimator = schedule.NewEstimator(idx)
	}

	store, err := sqlite.New(paths.CounterDB)
	if err != nil {
		return nil, fmt.Errorf("pricing service: %w", err)
	}

	svc := &PricingService{
		logger:    logger.With(slog.String("component", "pricing_service")),
		estimator: estimator,
		store:     store,
		paths:     paths,
		rows:      rows,
		loaded:    time.Now(),
	}
	svc.engine = quote.NewEngine(logger, store, schedulerOrNil(estimator), store)
	return svc, nil
}

// schedulerOrNil avoids handing the engine a non-nil interface wrapping
// a nil *Estimator.
func schedulerOrNil(est *schedule.Estimator) quote.Scheduler {
	if est == nil {
		return nil
	}
	return est
}

// Close releases the counter store.
func (s *PricingService) Close() error {
	return s.store.Close()
}

// Quote generates a quote for the request against the current snapshot.
func (s *PricingService) Quote(ctx context.Context, req quote.Request) (*domain.QuoteResult, error) {
	return s.engine.Generate(ctx, s.snapshot(), req)
}

// PreviewCost returns per-carrier base costs for the shipment without
// markup, for internal sales use.
func (s *PricingService) PreviewCost(ctx context.Context, shipment domain.ShipmentRequest, plan []domain.ContainerPlanItem) ([]quote.CostPreviewRow, error) {
	return quote.PreviewCost(s.snapshot(), shipment, plan)
}

// Schedule resolves the estimated sailing for a lane. Returns a zero
// result when no schedule index is loaded or nothing matches.
func (s *PricingService) Schedule(carrier, pol, podCode string, cargoReady *time.Time) domain.ScheduleResult {
	if s.estimator == nil {
		return domain.ScheduleResult{}
	}
	return s.estimator.ScheduleFor(carrier, pol, podCode, cargoReady)
}

// Reload re-reads the Master workbook and swaps the snapshot in place.
// In-flight quotes keep the snapshot they started with.
func (s *PricingService) Reload() error {
	rows, err := master.Load(s.paths.MasterFile, s.logger)
	if err != nil {
		return fmt.Errorf("reload master: %w", err)
	}
	s.mu.Lock()
	s.rows = rows
	s.loaded = time.Now()
	s.mu.Unlock()
	s.logger.Info("master snapshot reloaded", slog.Int("rows", len(rows)))
	return nil
}

// Health summarizes what the service has loaded.
func (s *PricingService) Health() HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HealthStatus{
		Status:        "ok",
		MasterRows:    len(s.rows),
		MasterLoaded:  s.loaded,
		ScheduleReady: s.estimator != nil,
	}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string    `json:"status"`
	MasterRows    int       `json:"master_rows"`
	MasterLoaded  time.Time `json:"master_loaded"`
	ScheduleReady bool      `json:"schedule_ready"`
}

func (s *PricingService) snapshot() []domain.MasterRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}
