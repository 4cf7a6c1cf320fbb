package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kmehta/bahikhata/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrCompanyNotFound),
		errors.Is(err, ledger.ErrLedgerNotFound),
		errors.Is(err, ledger.ErrVoucherNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateVoucherNumber),
		errors.Is(err, ledger.ErrLedgerHasTransactions),
		errors.Is(err, ledger.ErrVoucherCancelled):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrNegativeCash),
		errors.Is(err, ledger.ErrDateOutsideFY):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrLedgerNameRequired),
		errors.Is(err, ledger.ErrCompanyRequired),
		errors.Is(err, ledger.ErrInvalidGroup),
		errors.Is(err, ledger.ErrInvalidVoucherType),
		errors.Is(err, ledger.ErrNoEntries),
		errors.Is(err, ledger.ErrOneSidedEntry),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrUnbalancedVoucher),
		errors.Is(err, ledger.ErrWrongCompany),
		errors.Is(err, ledger.ErrSuspenseMissing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
