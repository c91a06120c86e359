package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Padelicious/internal/db/generated"
)

type ApartmentRequest struct {
	Code         string `json:"code"`
	DisplayName  string `json:"displayName"`
	ContactPhone string `json:"contactPhone"`
}

// ApartmentView is the public shape of an apartment. The contact phone is
// normalized to E.164.
type ApartmentView struct {
	Code         string `json:"code"`
	DisplayName  string `json:"displayName"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

func normalizeApartmentCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func toApartmentView(row dbgen.Apartment) ApartmentView {
	return ApartmentView{
		Code:         row.Code,
		DisplayName:  row.DisplayName,
		ContactPhone: row.ContactPhone.String,
	}
}

func (s *Service) normalizePhone(raw string) (sql.NullString, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullString{}, nil
	}
	number, err := phonenumbers.Parse(raw, s.region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return sql.NullString{}, ErrInvalidPhone
	}
	return sql.NullString{String: phonenumbers.Format(number, phonenumbers.E164), Valid: true}, nil
}

func (s *Service) RegisterApartment(ctx context.Context, req ApartmentRequest) (ApartmentView, error) {
	code := normalizeApartmentCode(req.Code)
	if code == "" {
		return ApartmentView{}, fmt.Errorf("%w: apartment code is required", ErrInvalidInput)
	}
	if len(code) > 16 {
		return ApartmentView{}, fmt.Errorf("%w: apartment code must be at most 16 characters", ErrInvalidInput)
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Apartment " + code
	}
	phone, err := s.normalizePhone(req.ContactPhone)
	if err != nil {
		return ApartmentView{}, err
	}

	row, err := s.db.Queries.CreateApartment(ctx, dbgen.CreateApartmentParams{
		Code:         code,
		DisplayName:  name,
		ContactPhone: phone,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return ApartmentView{}, fmt.Errorf("apartment %s: %w", code, ErrAlreadyExists)
		}
		return ApartmentView{}, fmt.Errorf("create apartment: %w", err)
	}

	log.Ctx(ctx).Info().Str("apartment", row.Code).Msg("Apartment registered")
	return toApartmentView(row), nil
}

func (s *Service) GetApartment(ctx context.Context, code string) (ApartmentView, error) {
	row, err := s.db.Queries.GetApartment(ctx, normalizeApartmentCode(code))
	if err != nil {
		return ApartmentView{}, notFound(err, "apartment")
	}
	return toApartmentView(row), nil
}
