package courts

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/testutil"
)

func setupCourtsTest(t *testing.T) (*booking.Service, int64) {
	t.Helper()

	database := testutil.NewTestDB(t)
	courtID := testutil.SeedCourt(t, database, "Court 1")
	testutil.SeedApartments(t, database, "1A")

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	svc, err := booking.NewService(database, booking.DefaultPolicy(), booking.WithClock(clock), booking.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	service = nil
	serviceOnce = sync.Once{}
	InitHandlers(svc)

	t.Cleanup(func() {
		service = nil
		serviceOnce = sync.Once{}
	})

	return svc, courtID
}

func availabilityRequest(courtID string, date string) *httptest.ResponseRecorder {
	target := fmt.Sprintf("/api/v1/courts/%s/availability", courtID)
	if date != "" {
		target += "?date=" + date
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.SetPathValue("id", courtID)
	recorder := httptest.NewRecorder()
	HandleAvailability(recorder, req)
	return recorder
}

func TestHandleAvailability(t *testing.T) {
	svc, courtID := setupCourtsTest(t)

	if _, err := svc.Reserve(context.Background(), booking.ReserveRequest{
		CourtID: courtID, Apartment: "1A", Date: "2025-06-02", StartTimes: []string{"12:00"},
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	recorder := availabilityRequest(fmt.Sprint(courtID), "2025-06-02")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	var day struct {
		Bookable bool `json:"bookable"`
		Slots    []struct {
			StartTime              string          `json:"startTime"`
			Available              bool            `json:"available"`
			Ended                  bool            `json:"ended"`
			PriorityTier           *string         `json:"priorityTier"`
			ConflictingReservation json.RawMessage `json:"conflictingReservation"`
		} `json:"slots"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&day); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !day.Bookable {
		t.Fatalf("expected today to be bookable")
	}
	if len(day.Slots) != 28 {
		t.Fatalf("expected 28 slots, got %d", len(day.Slots))
	}
	if day.Slots[0].StartTime != "08:00" || !day.Slots[0].Ended {
		t.Fatalf("expected 08:00 slot to have ended, got %+v", day.Slots[0])
	}
	for _, slot := range day.Slots {
		if slot.StartTime != "12:00" {
			continue
		}
		if slot.Available {
			t.Fatalf("expected 12:00 to be taken")
		}
		if slot.PriorityTier == nil || *slot.PriorityTier != "first" {
			t.Fatalf("expected first tier on 12:00, got %v", slot.PriorityTier)
		}
		if string(slot.ConflictingReservation) == "null" {
			t.Fatalf("expected conflicting reservation on 12:00")
		}
	}
}

func TestHandleAvailability_BadRequests(t *testing.T) {
	_, courtID := setupCourtsTest(t)

	tests := []struct {
		name       string
		courtID    string
		date       string
		wantStatus int
	}{
		{name: "missing date", courtID: fmt.Sprint(courtID), wantStatus: http.StatusBadRequest},
		{name: "bad date", courtID: fmt.Sprint(courtID), date: "2025-13-01", wantStatus: http.StatusBadRequest},
		{name: "bad id", courtID: "abc", date: "2025-06-02", wantStatus: http.StatusBadRequest},
		{name: "unknown court", courtID: "999", date: "2025-06-02", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := availabilityRequest(tt.courtID, tt.date)
			if recorder.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d body: %s", tt.wantStatus, recorder.Code, recorder.Body.String())
			}
		})
	}
}

func TestHandleCreateAndListCourts(t *testing.T) {
	setupCourtsTest(t)

	create := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		HandleCreateCourt(recorder, req)
		return recorder
	}

	if recorder := create(`{"name":"Court 2"}`); recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	if recorder := create(`{"name":"Court 2"}`); recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", recorder.Code)
	}
	if recorder := create(`{"name":""}`); recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", recorder.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts", nil)
	recorder := httptest.NewRecorder()
	HandleListCourts(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp struct {
		Courts []struct {
			Name string `json:"name"`
		} `json:"courts"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Courts) != 2 {
		t.Fatalf("expected 2 courts, got %d", len(resp.Courts))
	}
}

func TestHandleSetCourtStatus(t *testing.T) {
	_, courtID := setupCourtsTest(t)
	id := fmt.Sprint(courtID)

	patch := func(pathID, body string) int {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/courts/"+pathID, strings.NewReader(body))
		req.SetPathValue("id", pathID)
		recorder := httptest.NewRecorder()
		HandleSetCourtStatus(recorder, req)
		return recorder.Code
	}

	if code := patch(id, `{}`); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing flag, got %d", code)
	}
	if code := patch("999", `{"active":false}`); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown court, got %d", code)
	}
	if code := patch(id, `{"active":false}`); code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", code)
	}

	recorder := availabilityRequest(id, "2025-06-03")
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 for inactive court, got %d", recorder.Code)
	}
}
