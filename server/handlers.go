package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"usedcar-analyzer/models"
	"usedcar-analyzer/services"
)

// GetListings filters the clean dataset by the query parameters and scores
// the result against the full, unfiltered population, sorted by value score
// descending.
func (s *Server) GetListings(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	population, err := s.store.FetchListings()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	filtered := services.FilterListings(population, criteria)
	scored := s.scorer.Score(filtered, population)
	sortByValueScore(scored)

	s.writeJSON(w, scored)
}

// GetTopValue returns the best value-score listings across the whole
// dataset; ?limit= overrides the default of 10.
func (s *Server) GetTopValue(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer: %q", raw))
			return
		}
		limit = n
	}

	population, err := s.store.FetchListings()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	scored := s.scorer.Score(population, population)
	sortByValueScore(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	s.writeJSON(w, scored)
}

// GetAnalysis runs a groupby metric over the optionally filtered dataset.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria, err := criteriaFromQuery(query)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := s.store.FetchListings()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	rows, err := services.Aggregate(
		services.FilterListings(data, criteria),
		services.Metric(query.Get("metric")),
		services.GroupBy(query.Get("group_by")),
	)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, rows)
}

// GetMarketShare returns the used-market share time series.
func (s *Server) GetMarketShare(w http.ResponseWriter, r *http.Request) {
	used, err := s.store.FetchUsedCarYearly()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	all, err := s.store.FetchAllCarYearly()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, services.MarketShare(used, all))
}

// GetFAQ searches the FAQ entries; ?q= is the search term.
func (s *Server) GetFAQ(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.FetchFAQ()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, services.SearchFAQ(entries, r.URL.Query().Get("q")))
}

// criteriaFromQuery builds filter criteria from dashboard query parameters.
// Absent parameters impose no constraint; present ones must parse, and an
// explicit 0 bound still applies.
func criteriaFromQuery(query url.Values) (services.Criteria, error) {
	c := services.Criteria{
		Brand:    query.Get("brand"),
		BodyType: query.Get("body_type"),
	}

	var err error
	if c.YearMin, err = intParam(query, "year_min"); err != nil {
		return c, err
	}
	if c.YearMax, err = intParam(query, "year_max"); err != nil {
		return c, err
	}
	if c.PriceMin, err = intParam(query, "price_min"); err != nil {
		return c, err
	}
	if c.PriceMax, err = intParam(query, "price_max"); err != nil {
		return c, err
	}
	if c.MileageMin, err = floatParam(query, "mileage_min"); err != nil {
		return c, err
	}
	if c.MileageMax, err = floatParam(query, "mileage_max"); err != nil {
		return c, err
	}
	return c, nil
}

func intParam(query url.Values, name string) (*int, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %q", name, raw)
	}
	return &n, nil
}

func floatParam(query url.Values, name string) (*float64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %q", name, raw)
	}
	return &f, nil
}

func sortByValueScore(scored []models.ScoredListing) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ValueScore > scored[j].ValueScore
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("[server] encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("[server] %v", err)
	} else {
		s.logger.Warn("[server] %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
