package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
)

type transactionRowRequest struct {
	VoucherNumber string          `json:"voucher_number"`
	Date          string          `json:"date"`
	Type          string          `json:"voucher_type"`
	LedgerName    string          `json:"ledger_name"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Narration     string          `json:"narration,omitempty"`
}

type bulkImportRequest struct {
	TrialBalance []ledger.TrialBalanceRow `json:"trial_balance"`
	Transactions []transactionRowRequest  `json:"transactions"`
}

func (s *Server) bulkImport(w http.ResponseWriter, r *http.Request) {
	var req bulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	rows := make([]ledger.TransactionRow, 0, len(req.Transactions))
	for _, tr := range req.Transactions {
		row := ledger.TransactionRow{
			VoucherNumber: tr.VoucherNumber,
			Type:          tr.Type,
			LedgerName:    tr.LedgerName,
			Debit:         tr.Debit,
			Credit:        tr.Credit,
			Narration:     tr.Narration,
		}
		// Continuation rows may omit the date; numbered rows must not.
		if tr.Date != "" {
			d, err := time.Parse(ledger.DateLayout, tr.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
				return
			}
			row.Date = d
		}
		rows = append(rows, row)
	}

	res, err := s.store.BulkImport(r.Context(), chi.URLParam(r, "id"), req.TrialBalance, rows)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
