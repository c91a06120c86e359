package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ApartmentHeader lets clients identify the acting apartment without a query parameter.
const ApartmentHeader = "X-Apartment-Code"

// ParseCourtID parses a positive int64 court ID from a query value.
func ParseCourtID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	courtID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || courtID <= 0 {
		return 0, false
	}

	return courtID, true
}

// CourtIDFromQuery parses court_id from the query string.
func CourtIDFromQuery(r *http.Request) (int64, bool) {
	return ParseCourtID(r.URL.Query().Get("court_id"))
}

// ApartmentFromRequest reads the acting apartment from the apartment query
// parameter or, failing that, the X-Apartment-Code header.
func ApartmentFromRequest(r *http.Request) (string, bool) {
	if code := strings.TrimSpace(r.URL.Query().Get("apartment")); code != "" {
		return code, true
	}

	code := strings.TrimSpace(r.Header.Get(ApartmentHeader))
	if code == "" {
		log.Ctx(r.Context()).
			Debug().
			Str("path", r.URL.Path).
			Msg("Request carries no apartment code")
		return "", false
	}
	return code, true
}
