// Package http exposes the pricing service over a chi router: quote
// generation, cost preview, schedule lookup, health and metrics.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "ratedesk/internal/errors"
	"ratedesk/internal/quote"
	"ratedesk/pkg/contracts/domain"
)

// PricingService is the service surface the handlers need.
type PricingService interface {
	Quote(ctx context.Context, req quote.Request) (*domain.QuoteResult, error)
	PreviewCost(ctx context.Context, shipment domain.ShipmentRequest, plan []domain.ContainerPlanItem) ([]quote.CostPreviewRow, error)
	Schedule(carrier, pol, podCode string, cargoReady *time.Time) domain.ScheduleResult
}

// QuoteHandler handles quote and preview requests.
type QuoteHandler struct {
	service  PricingService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewQuoteHandler creates the handler.
func NewQuoteHandler(service PricingService, logger *slog.Logger) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "quote_handler")),
		validate: validator.New(),
	}
}

// Routes returns the quote routes.
func (h *QuoteHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.CreateQuote)
	r.Post("/preview", h.PreviewCost)
	return r
}

// QuoteRequest is the POST /api/v1/quote body.
type QuoteRequest struct {
	Customer   domain.CustomerInfo        `json:"customer" validate:"required"`
	Shipment   domain.ShipmentRequest     `json:"shipment" validate:"required"`
	Containers []domain.ContainerPlanItem `json:"containers" validate:"required,min=1,dive"`
	Options    domain.EngineOptions       `json:"options"`
}

// PreviewRequest is the POST /api/v1/quote/preview body. Customer and
// options are irrelevant to the cost check.
type PreviewRequest struct {
	Shipment   domain.ShipmentRequest     `json:"shipment" validate:"required"`
	Containers []domain.ContainerPlanItem `json:"containers" validate:"required,min=1,dive"`
}

// CreateQuote handles POST /api/v1/quote.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if apiErr := h.validateStruct(req); apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	result, err := h.service.Quote(r.Context(), quote.Request{
		Customer:   req.Customer,
		Shipment:   req.Shipment,
		Containers: req.Containers,
		Options:    req.Options,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	observeQuoteOutcome("ok")
	render.JSON(w, r, result)
}

// PreviewCost handles POST /api/v1/quote/preview.
func (h *QuoteHandler) PreviewCost(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if apiErr := h.validateStruct(req); apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	rows, err := h.service.PreviewCost(r.Context(), req.Shipment, req.Containers)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"carriers": rows})
}

func (h *QuoteHandler) validateStruct(v any) *apierrors.APIError {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]apierrors.ValidationError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, apierrors.ValidationError{
				Field:   fe.Namespace(),
				Message: "failed " + fe.Tag() + " validation",
			})
		}
		return apierrors.NewValidationErrors(fields)
	}
	return apierrors.InvalidRequestWithError(err)
}

func (h *QuoteHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var qerr *quote.Error
	if errors.As(err, &qerr) {
		observeQuoteOutcome(qerr.Code)
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromQuoteError(qerr)))
		return
	}
	observeQuoteOutcome("error")
	h.logger.ErrorContext(r.Context(), "quote request failed", "error", err.Error())
	render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
}
