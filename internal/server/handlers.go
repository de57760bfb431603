package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sheetshop/sheetshop/internal/utils"
	"github.com/sheetshop/sheetshop/pkg/engine"
	"github.com/sheetshop/sheetshop/pkg/query"
	"github.com/sheetshop/sheetshop/pkg/sheets"
	"github.com/sheetshop/sheetshop/pkg/storage"
)

// quotaRetryAfter is sent with 503 answers caused by upstream quota errors.
const quotaRetryAfter = "60"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail maps engine errors to HTTP statuses: quota rejections become 503,
// other upstream answers 502, everything else 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *sheets.APIError
	status := http.StatusInternalServerError
	switch {
	case sheets.IsQuota(err):
		w.Header().Set("Retry-After", quotaRetryAfter)
		status = http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	}
	utils.Log.WithField("path", r.URL.Path).Errorf("request failed: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func intParam(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	res, err := s.Engine.ItemsPage(r.Context(), intParam(r, "page"), intParam(r, "size"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pq := engine.PageQuery{
		FilterSpec: query.FilterSpec{
			Query:    q.Get("q"),
			Brand:    q.Get("brand"),
			Category: q.Get("category"),
			Seller:   q.Get("seller"),
		},
		Order: q.Get("order"),
		Seed:  q.Get("seed"),
	}
	res, err := s.Engine.CatalogPage(r.Context(), intParam(r, "page"), intParam(r, "size"), pq)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.Engine.ItemBySlugOrID(r.Context(), r.PathValue("key"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if it == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleHead(w http.ResponseWriter, r *http.Request) {
	items, err := s.Engine.ItemsHead(r.Context(), intParam(r, "limit"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := s.Engine.Facets(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

func (s *Server) handleCacheSizes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Caches().Sizes())
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	s.Engine.Caches().Purge()
	utils.Log.Info("caches purged")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	changes, err := s.DB.ListRecentChanges(r.Context(), intParam(r, "limit"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func (s *Server) handleSnapshotItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.DB.ListItems(r.Context(), storage.ListOptions{
		Seller: q.Get("seller"),
		Brand:  q.Get("brand"),
		Limit:  intParam(r, "limit"),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
