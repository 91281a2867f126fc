package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"usedcar-analyzer/models"
	"usedcar-analyzer/services"
	"usedcar-analyzer/utils"
)

// Store is the read surface the dashboard draws from.
type Store interface {
	FetchListings() ([]models.NormalizedListing, error)
	FetchUsedCarYearly() ([]models.YearlyTransactions, error)
	FetchAllCarYearly() ([]models.YearlyTransactions, error)
	FetchFAQ() ([]models.FAQEntry, error)
}

// Server serves the dashboard JSON API on top of a Store.
type Server struct {
	store  Store
	scorer *services.Scorer
	logger *utils.Logger
}

// New creates a Server.
func New(store Store, scorer *services.Scorer, logger *utils.Logger) *Server {
	return &Server{store: store, scorer: scorer, logger: logger}
}

// Router returns the configured route set.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/listings", s.GetListings).Methods(http.MethodGet)
	r.HandleFunc("/api/top", s.GetTopValue).Methods(http.MethodGet)
	r.HandleFunc("/api/analysis", s.GetAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/api/market-share", s.GetMarketShare).Methods(http.MethodGet)
	r.HandleFunc("/api/faq", s.GetFAQ).Methods(http.MethodGet)
	return r
}

// NewHTTPServer returns an http.Server for the dashboard API.
func NewHTTPServer(addr string, store Store, scorer *services.Scorer, logger *utils.Logger) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: New(store, scorer, logger).Router(),
	}
}
