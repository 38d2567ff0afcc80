package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"banco/internal/core"
	"banco/internal/directory"
)

// writeJSON outputs a success response. All success paths go through here so
// the API stays uniform.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors onto HTTP status codes. Rejected ledger
// operations are conflicts (the request was well-formed, the ledger said no);
// malformed input is unprocessable.
func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, directory.ErrInvalidTaxID):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrWithdrawalLimit),
		errors.Is(err, core.ErrDailyLimitReached),
		errors.Is(err, directory.ErrDuplicateCustomer):
		code = http.StatusConflict
	case errors.Is(err, directory.ErrAccountNotFound),
		errors.Is(err, directory.ErrCustomerNotFound):
		code = http.StatusNotFound
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
