package server

import (
	"log"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kmehta/bahikhata/internal/store"
)

type Server struct {
	store  *store.Store
	router chi.Router
	addr   string
}

func New(st *store.Store, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{store: st, router: r, addr: addr}

	r.Route("/api/v1", func(r chi.Router) {
		// Companies
		r.Post("/companies", s.createCompany)
		r.Get("/companies", s.listCompanies)
		r.Get("/companies/{id}", s.getCompany)
		r.Patch("/companies/{id}", s.updateCompany)
		r.Delete("/companies/{id}", s.deleteCompany)

		// Per-company collections
		r.Post("/companies/{id}/ledgers", s.createLedger)
		r.Get("/companies/{id}/ledgers", s.listLedgers)
		r.Post("/companies/{id}/vouchers", s.createVoucher)
		r.Get("/companies/{id}/vouchers", s.listVouchers)
		r.Get("/companies/{id}/daybook", s.dayBook)
		r.Post("/companies/{id}/transfer-cash", s.transferCash)
		r.Post("/companies/{id}/import", s.bulkImport)
		r.Post("/companies/{id}/recompute", s.recomputeBalances)

		// Ledgers
		r.Get("/ledgers/{id}", s.getLedger)
		r.Get("/ledgers/{id}/statement", s.ledgerStatement)
		r.Delete("/ledgers/{id}", s.deleteLedger)

		// Vouchers
		r.Get("/vouchers/{id}", s.getVoucher)
		r.Put("/vouchers/{id}", s.updateVoucher)
		r.Post("/vouchers/{id}/cancel", s.cancelVoucher)
		r.Delete("/vouchers/{id}", s.deleteVoucher)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	log.Printf("bahikhata server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	log.Printf("bahikhata server listening on %s", ln.Addr())
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
