// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/api/apiutil"
	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/ratelimit"
	"github.com/codr1/Padelicious/internal/request"
)

const reservationsQueryTimeout = 5 * time.Second

var (
	service     *booking.Service
	limiter     *ratelimit.Limiter
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
// A nil limiter disables rate limiting.
func InitHandlers(svc *booking.Service, l *ratelimit.Limiter) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		limiter = l
	})
}

// GET /api/v1/reservations?court_id=&date=
func HandleListReservations(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), reservationsQueryTimeout)
	defer cancel()

	reservations, err := svc.ListReservations(ctx, courtID, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"reservations": reservations}); err != nil {
		logger.Error().Err(err).Int64("court_id", courtID).Msg("Failed to write reservations response")
	}
}

// POST /api/v1/reservations
func HandleCreateReservation(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Booking service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req booking.ReserveRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Err: err})
		return
	}
	if strings.TrimSpace(req.Apartment) == "" {
		if code, ok := request.ApartmentFromRequest(r); ok {
			req.Apartment = code
		}
	}
	if err := validateReserveRequest(req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if limiter != nil {
		ip := limiter.ClientIP(r)
		result := limiter.CheckBooking(req.Apartment, ip)
		if !result.Allowed {
			ratelimit.LogRateLimitExceeded(r.Context(), req.Apartment, ip, result)
			w.Header().Set("Retry-After", retryAfterSeconds(result.RetryAfter))
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status:  http.StatusTooManyRequests,
				Message: "Too many reservation attempts, try again later",
			})
			return
		}
		limiter.RecordBooking(req.Apartment, ip)
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationsQueryTimeout)
	defer cancel()

	result, err := svc.Reserve(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, result); err != nil {
		logger.Error().Err(err).Int64("reservation_id", result.Reservation.ID).Msg("Failed to write reservation response")
	}
}

// DELETE /api/v1/reservations/{id}?apartment=
func HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
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
	apartment, ok := request.ApartmentFromRequest(r)
	if !ok {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "apartment", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationsQueryTimeout)
	defer cancel()

	result, err := svc.Cancel(ctx, id, apartment)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, result); err != nil {
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to write cancellation response")
	}
}

func validateReserveRequest(req booking.ReserveRequest) error {
	if req.CourtID <= 0 {
		return apiutil.FieldError{Field: "courtId", Reason: "must be greater than 0"}
	}
	if strings.TrimSpace(req.Apartment) == "" {
		return apiutil.FieldError{Field: "apartment", Reason: "is required"}
	}
	if strings.TrimSpace(req.Date) == "" {
		return apiutil.FieldError{Field: "date", Reason: "is required"}
	}
	if len(req.StartTimes) == 0 {
		return apiutil.FieldError{Field: "startTimes", Reason: "must contain at least one slot"}
	}
	return nil
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func loadService() *booking.Service {
	return service
}
