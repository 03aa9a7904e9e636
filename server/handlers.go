package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

var (
	errUnableToFetchRates      = errors.New("unable to fetch rates")
	errUnableToFetchCurrencies = errors.New("unable to fetch currencies")

	errInvalidDate     = errors.New("invalid date (must be YYYY-MM-DD)")
	errInvalidCurrency = errors.New("invalid currency (must be 3 letters A-Z)")
	errNoRateForDate   = errors.New("no rate for the given date")
)

// Rates returns the rows for the requested date,
// defaulting to the latest date present
func (s *Server) Rates(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	rows, err := s.storage.RatesOn(r.Context(), date)
	if err != nil {
		s.logger.Debug(
			"unable to fetch rates",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchRates,
		)

		return
	}

	writeJSON(w, http.StatusOK, &RatesResponse{
		Results: rows,
	})
}

// RateForCurrency returns the single row for a currency on the requested
// date, defaulting to the latest date present
func (s *Server) RateForCurrency(w http.ResponseWriter, r *http.Request) {
	currency, err := parseCurrencySymbol(chi.URLParam(r, "currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	rows, err := s.storage.RatesOn(r.Context(), date)
	if err != nil {
		s.logger.Debug(
			"unable to fetch rates",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchRates,
		)

		return
	}

	for _, row := range rows {
		if row.Currency == currency {
			writeJSON(w, http.StatusOK, row)

			return
		}
	}

	writeError(w, http.StatusNotFound, errNoRateForDate)
}

func (s *Server) Currencies(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListCurrencies(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch currencies",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchCurrencies,
		)

		return
	}

	writeJSON(w, http.StatusOK, &CurrenciesResponse{
		Results: items,
	})
}

func parseDate(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", nil // default is the latest date
	}

	if _, err := time.Parse(types.DateFormat, v); err != nil {
		return "", errInvalidDate
	}

	return v, nil
}

func parseCurrencySymbol(v string) (types.Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) != 3 {
		return "", errInvalidCurrency
	}

	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", errInvalidCurrency
		}
	}

	return types.Currency(s), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
