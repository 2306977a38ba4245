package http

import (
	"encoding/json"
	"errors"
	"strconv"

	nethttp "net/http"

	"github.com/go-playground/validator/v10"

	"github.com/gradekit/gradescale/internal/gradescale"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func decodeJSON(w nethttp.ResponseWriter, r *nethttp.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		nethttp.Error(w, "bad json: "+err.Error(), nethttp.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		nethttp.Error(w, "validation: "+err.Error(), nethttp.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w nethttp.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// intParam parses a pagination query param; empty or junk means unset.
func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// storeErr maps store/engine sentinels onto HTTP statuses. Out-of-range
// and empty-scale are expected conditions, not server faults.
func storeErr(w nethttp.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gradescale.ErrScaleNotFound),
		errors.Is(err, gradescale.ErrRangeNotFound):
		nethttp.Error(w, err.Error(), nethttp.StatusNotFound)
	case errors.Is(err, gradescale.ErrScaleIsDefault):
		nethttp.Error(w, err.Error(), nethttp.StatusConflict)
	case errors.Is(err, gradescale.ErrOutOfRange),
		errors.Is(err, gradescale.ErrEmptyScale),
		errors.Is(err, gradescale.ErrUnsupportedScaleType):
		nethttp.Error(w, err.Error(), nethttp.StatusUnprocessableEntity)
	default:
		nethttp.Error(w, err.Error(), nethttp.StatusInternalServerError)
	}
}
