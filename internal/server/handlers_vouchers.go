package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/kmehta/bahikhata/internal/store"
	"github.com/shopspring/decimal"
)

type createVoucherRequest struct {
	Type      ledger.VoucherType `json:"voucher_type"`
	Date      string             `json:"date"`
	Narration string             `json:"narration,omitempty"`
	CreatedBy string             `json:"created_by,omitempty"`
	Entries   []ledger.EntryLine `json:"entries"`
}

func (s *Server) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req createVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	date, err := time.Parse(ledger.DateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	v, err := s.store.CreateVoucher(r.Context(), ledger.Draft{
		CompanyID: chi.URLParam(r, "id"),
		Type:      req.Type,
		Date:      date,
		Narration: req.Narration,
		CreatedBy: req.CreatedBy,
		Lines:     req.Entries,
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) listVouchers(w http.ResponseWriter, r *http.Request) {
	var typ ledger.VoucherType
	if v := r.URL.Query().Get("type"); v != "" {
		typ = ledger.VoucherType(v)
	}
	limit := 0
	if lim := r.URL.Query().Get("limit"); lim != "" {
		limit, _ = strconv.Atoi(lim)
	}

	vouchers, err := s.store.ListVouchers(r.Context(), chi.URLParam(r, "id"), typ, limit)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if vouchers == nil {
		vouchers = []ledger.Voucher{}
	}
	writeJSON(w, http.StatusOK, vouchers)
}

func (s *Server) getVoucher(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.GetVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type updateVoucherRequest struct {
	Date      string             `json:"date"`
	Narration string             `json:"narration,omitempty"`
	Entries   []ledger.EntryLine `json:"entries"`
}

func (s *Server) updateVoucher(w http.ResponseWriter, r *http.Request) {
	var req updateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	date, err := time.Parse(ledger.DateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	err = s.store.UpdateVoucher(r.Context(), id, store.VoucherUpdate{
		Date:      date,
		Narration: req.Narration,
		Lines:     req.Entries,
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	v, err := s.store.GetVoucher(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) cancelVoucher(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Actor string `json:"actor"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Actor == "" {
		req.Actor = "api"
	}

	id := chi.URLParam(r, "id")
	if err := s.store.CancelVoucher(r.Context(), id, req.Actor); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	v, err := s.store.GetVoucher(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVoucher(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dayBook(w http.ResponseWriter, r *http.Request) {
	from, err := dateParam(r, "from", time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := dateParam(r, "to", time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := s.store.DayBook(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if book == nil {
		book = []ledger.Voucher{}
	}
	writeJSON(w, http.StatusOK, book)
}

type transferCashRequest struct {
	FromLedgerID string          `json:"from_ledger_id"`
	ToLedgerID   string          `json:"to_ledger_id"`
	Amount       decimal.Decimal `json:"amount"`
	Actor        string          `json:"actor,omitempty"`
}

func (s *Server) transferCash(w http.ResponseWriter, r *http.Request) {
	var req transferCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Actor == "" {
		req.Actor = "api"
	}

	v, err := s.store.TransferCash(r.Context(), chi.URLParam(r, "id"),
		req.FromLedgerID, req.ToLedgerID, req.Amount, req.Actor)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, v)
}
