package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kmehta/bahikhata/internal/ledger"
)

type companyRequest struct {
	Name    string `json:"name"`
	FYStart string `json:"fy_start,omitempty"`
	FYEnd   string `json:"fy_end,omitempty"`
}

func (req *companyRequest) toCompany() (*ledger.Company, error) {
	c := &ledger.Company{Name: req.Name}
	if req.FYStart != "" {
		t, err := time.Parse(ledger.DateLayout, req.FYStart)
		if err != nil {
			return nil, err
		}
		c.FYStart = &t
	}
	if req.FYEnd != "" {
		t, err := time.Parse(ledger.DateLayout, req.FYEnd)
		if err != nil {
			return nil, err
		}
		c.FYEnd = &t
	}
	return c, nil
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c, err := req.toCompany()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.CreateCompany(r.Context(), c); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	created, err := s.store.GetCompany(r.Context(), c.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, c)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if companies == nil {
		companies = []ledger.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	c, err := req.toCompany()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.ID = chi.URLParam(r, "id")
	if err := s.store.UpdateCompany(r.Context(), c); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	updated, err := s.store.GetCompany(r.Context(), c.ID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
