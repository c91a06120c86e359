package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/config"
	"github.com/codr1/Padelicious/internal/testutil"
)

func TestServerRoutes(t *testing.T) {
	cfg := config.Default()

	database := testutil.NewTestDB(t)
	bookings, err := booking.NewService(database, booking.PolicyFromConfig(cfg.Booking))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	srv := httptest.NewServer(newServer(cfg, bookings, nil).Handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Fatalf("health: %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	resp, err = http.Post(srv.URL+"/api/v1/courts", "application/json", strings.NewReader(`{"name":"Court 1"}`))
	if err != nil {
		t.Fatalf("POST /api/v1/courts: %v", err)
	}
	var court struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&court); err != nil {
		t.Fatalf("decode court: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create court: %d", resp.StatusCode)
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/v1/courts/%d/availability?date=2099-01-01", srv.URL, court.ID))
	if err != nil {
		t.Fatalf("GET availability: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability: %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/courts", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/v1/courts: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for PUT, got %d", resp.StatusCode)
	}
}
