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

type createLedgerRequest struct {
	Name               string          `json:"name"`
	Group              ledger.Group    `json:"group_name"`
	SubGroup           string          `json:"sub_group,omitempty"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	AssignedOperatorID string          `json:"assigned_operator_id,omitempty"`
}

func (s *Server) createLedger(w http.ResponseWriter, r *http.Request) {
	var req createLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	l := &ledger.Ledger{
		CompanyID:          chi.URLParam(r, "id"),
		Name:               req.Name,
		Group:              req.Group,
		SubGroup:           req.SubGroup,
		OpeningBalance:     req.OpeningBalance,
		AssignedOperatorID: req.AssignedOperatorID,
	}
	if err := s.store.CreateLedger(r.Context(), l); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	created, err := s.store.GetLedger(r.Context(), l.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, l)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listLedgers(w http.ResponseWriter, r *http.Request) {
	filter := store.LedgerFilter{}
	if g := r.URL.Query().Get("group"); g != "" {
		filter.Group = ledger.Group(g)
	}
	if lim := r.URL.Query().Get("limit"); lim != "" {
		filter.Limit, _ = strconv.Atoi(lim)
	}
	if off := r.URL.Query().Get("offset"); off != "" {
		filter.Offset, _ = strconv.Atoi(off)
	}

	ledgers, err := s.store.ListLedgers(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if ledgers == nil {
		ledgers = []ledger.Ledger{}
	}
	writeJSON(w, http.StatusOK, ledgers)
}

func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.GetLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteLedger(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLedger(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ledgerStatement serves GET /ledgers/{id}/statement?from=...&to=...
// Dates are calendar days; from defaults to the beginning of time, to
// defaults to today.
func (s *Server) ledgerStatement(w http.ResponseWriter, r *http.Request) {
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

	stmt, err := s.store.LedgerStatement(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if stmt.Rows == nil {
		stmt.Rows = []ledger.StatementRow{}
	}
	writeJSON(w, http.StatusOK, stmt)
}

func (s *Server) recomputeBalances(w http.ResponseWriter, r *http.Request) {
	repair := r.URL.Query().Get("repair") == "true" || r.URL.Query().Get("repair") == "1"

	drifts, err := s.store.RecomputeBalances(r.Context(), chi.URLParam(r, "id"), repair)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if drifts == nil {
		drifts = []ledger.BalanceDrift{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"repaired": repair,
		"drifts":   drifts,
	})
}

func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return time.Parse(ledger.DateLayout, v)
}
