// internal/api/overrides/handlers.go
package overrides

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/request"
)

const overridesQueryTimeout = 5 * time.Second

var (
	service     *booking.Service
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *booking.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

// GET /api/v1/overrides?court_id=&date=
func HandleListOverrides(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	courtID, ok := request.CourtIDFromQuery(r)
	if !ok {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "court_id", Reason: "must be a positive integer"})
		return
	}
	date, err := apiutil.RequiredQuery(r, "date")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), overridesQueryTimeout)
	defer cancel()

	overrides, err := svc.ListOverrides(ctx, courtID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"overrides": overrides}); err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to write overrides response")
	}
}

// POST /api/v1/overrides
func HandleCreateOverride(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req booking.OverrideRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	if req.CourtID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "courtId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), overridesQueryTimeout)
	defer cancel()

	override, err := svc.SetOverride(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, override); err != nil {
		logger.Error().Err(err).Int64("override_id", override.ID).Msg("Failed to write override response")
	}
}

// DELETE /api/v1/overrides/{id}
func HandleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), overridesQueryTimeout)
	defer cancel()

	if err := svc.DeleteOverride(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadService() *booking.Service {
	return service
}
