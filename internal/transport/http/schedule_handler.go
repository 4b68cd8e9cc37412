package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ratedesk/internal/errors"
)

// ScheduleHandler resolves estimated sailings on demand.
type ScheduleHandler struct {
	service PricingService
	logger  *slog.Logger
}

// NewScheduleHandler creates the handler.
func NewScheduleHandler(service PricingService, logger *slog.Logger) *ScheduleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleHandler{
		service: service,
		logger:  logger.With(slog.String("component", "schedule_handler")),
	}
}

// Routes returns the schedule routes.
func (h *ScheduleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetSchedule)
	return r
}

// GetSchedule handles GET /api/v1/schedule?carrier=&pol=&pod=&cargo_ready=.
// carrier, pol and pod are required; cargo_ready is YYYY-MM-DD and
// defaults to today.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	carrier := q.Get("carrier")
	pol := q.Get("pol")
	pod := q.Get("pod")

	var missing []apierrors.ValidationError
	for name, v := range map[string]string{"carrier": carrier, "pol": pol, "pod": pod} {
		if v == "" {
			missing = append(missing, apierrors.ValidationError{Field: name, Message: "required"})
		}
	}
	if len(missing) > 0 {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.NewValidationErrors(missing)))
		return
	}

	var cargoReady *time.Time
	if raw := q.Get("cargo_ready"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: "cargo_ready", Message: "must be YYYY-MM-DD"},
			})))
			return
		}
		cargoReady = &t
	}

	result := h.service.Schedule(carrier, pol, pod, cargoReady)
	observeScheduleLookup(!result.IsZero())
	if result.IsZero() {
		render.JSON(w, r, map[string]any{"found": false})
		return
	}
	render.JSON(w, r, map[string]any{"found": true, "schedule": result})
}
