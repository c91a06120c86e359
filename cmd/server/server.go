// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codr1/Padelicious/internal/api"
	"github.com/codr1/Padelicious/internal/api/apartments"
	"github.com/codr1/Padelicious/internal/api/courts"
	"github.com/codr1/Padelicious/internal/api/overrides"
	"github.com/codr1/Padelicious/internal/api/reservations"
	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/config"
	"github.com/codr1/Padelicious/internal/ratelimit"
)

func newServer(cfg *config.Config, bookings *booking.Service, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	courts.InitHandlers(bookings)
	apartments.InitHandlers(bookings)
	reservations.InitHandlers(bookings, limiter)
	overrides.InitHandlers(bookings)

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Court routes
	mux.HandleFunc("GET /api/v1/courts", courts.HandleListCourts)
	mux.HandleFunc("POST /api/v1/courts", courts.HandleCreateCourt)
	mux.HandleFunc("PATCH /api/v1/courts/{id}", courts.HandleSetCourtStatus)
	mux.HandleFunc("GET /api/v1/courts/{id}/availability", courts.HandleAvailability)

	// Apartment routes
	mux.HandleFunc("POST /api/v1/apartments", apartments.HandleRegisterApartment)
	mux.HandleFunc("GET /api/v1/apartments/{code}", apartments.HandleGetApartment)
	mux.HandleFunc("GET /api/v1/apartments/{code}/reservations", apartments.HandleApartmentReservations)
	mux.HandleFunc("GET /api/v1/apartments/{code}/displacements", apartments.HandlePendingDisplacements)
	mux.HandleFunc("POST /api/v1/displacements/{id}/ack", apartments.HandleAcknowledgeDisplacement)

	// Reservation routes
	mux.HandleFunc("GET /api/v1/reservations", reservations.HandleListReservations)
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleCreateReservation)
	mux.HandleFunc("DELETE /api/v1/reservations/{id}", reservations.HandleCancelReservation)

	// Administrative slot overrides
	mux.HandleFunc("GET /api/v1/overrides", overrides.HandleListOverrides)
	mux.HandleFunc("POST /api/v1/overrides", overrides.HandleCreateOverride)
	mux.HandleFunc("DELETE /api/v1/overrides/{id}", overrides.HandleDeleteOverride)
}
