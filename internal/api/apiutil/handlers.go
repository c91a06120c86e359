package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/booking"
	"github.com/codr1/Padelicious/internal/selection"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError writes a JSON error body. Server errors are logged with the
// underlying cause and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var resp ErrorResponse
	status := http.StatusInternalServerError

	var herr HandlerError
	var ferr FieldError
	switch {
	case errors.As(err, &herr):
		status = herr.Status
		resp.Error = herr.Message
	case errors.As(err, &ferr):
		status = http.StatusBadRequest
		resp.Error = ferr.Error()
		resp.Field = ferr.Field
	default:
		status = StatusForError(err)
		resp.Error = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		if herr.Message == "" {
			resp.Error = http.StatusText(status)
		}
	}

	if werr := WriteJSON(w, status, resp); werr != nil {
		logger.Error().Err(werr).Msg("Failed to write error response")
	}
}

// StatusForError maps booking and selection failures to HTTP statuses.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidInput),
		errors.Is(err, booking.ErrEmptySelection),
		errors.Is(err, booking.ErrUnknownSlot),
		errors.Is(err, booking.ErrInvalidPhone):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrAlreadyExists),
		errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrNotCancellable),
		errors.Is(err, booking.ErrCourtInactive):
		return http.StatusConflict
	case errors.Is(err, selection.ErrMaxSlots),
		errors.Is(err, selection.ErrNotConsecutive),
		errors.Is(err, selection.ErrDifferentDay),
		errors.Is(err, selection.ErrSlotUnavailable),
		errors.Is(err, booking.ErrSlotEnded),
		errors.Is(err, booking.ErrOutsideWindow),
		errors.Is(err, booking.ErrCannotDisplace):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
