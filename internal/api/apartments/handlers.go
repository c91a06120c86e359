// internal/api/apartments/handlers.go
package apartments

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/booking"
)

const apartmentsQueryTimeout = 5 * time.Second

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

// POST /api/v1/apartments
func HandleRegisterApartment(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req booking.ApartmentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "code", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), apartmentsQueryTimeout)
	defer cancel()

	apartment, err := svc.RegisterApartment(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, apartment); err != nil {
		logger.Error().Err(err).Str("apartment", apartment.Code).Msg("Failed to write apartment response")
	}
}

// GET /api/v1/apartments/{code}
func HandleGetApartment(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), apartmentsQueryTimeout)
	defer cancel()

	apartment, err := svc.GetApartment(ctx, r.PathValue("code"))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, apartment); err != nil {
		logger.Error().Err(err).Str("apartment", apartment.Code).Msg("Failed to write apartment response")
	}
}

// GET /api/v1/apartments/{code}/reservations
func HandleApartmentReservations(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	code := r.PathValue("code")

	ctx, cancel := context.WithTimeout(r.Context(), apartmentsQueryTimeout)
	defer cancel()

	reservations, err := svc.ApartmentReservations(ctx, code)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"reservations": reservations}); err != nil {
		logger.Error().Err(err).Str("apartment", code).Msg("Failed to write apartment reservations response")
	}
}

// GET /api/v1/apartments/{code}/displacements
func HandlePendingDisplacements(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	code := r.PathValue("code")

	ctx, cancel := context.WithTimeout(r.Context(), apartmentsQueryTimeout)
	defer cancel()

	displacements, err := svc.PendingDisplacements(ctx, code)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"displacements": displacements}); err != nil {
		logger.Error().Err(err).Str("apartment", code).Msg("Failed to write displacements response")
	}
}

// POST /api/v1/displacements/{id}/ack
func HandleAcknowledgeDisplacement(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), apartmentsQueryTimeout)
	defer cancel()

	if err := svc.AcknowledgeDisplacement(ctx, id); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func loadService() *booking.Service {
	return service
}
