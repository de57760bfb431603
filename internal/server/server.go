package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sheetshop/sheetshop/internal/utils"
	"github.com/sheetshop/sheetshop/pkg/engine"
	"github.com/sheetshop/sheetshop/pkg/storage"
)

type Server struct {
	Engine   *engine.Engine
	DB       *storage.DB // optional; enables the snapshot endpoints
	Username string
	Password string
}

func New(e *engine.Engine, db *storage.DB, user, pass string) *Server {
	return &Server{
		Engine:   e,
		DB:       db,
		Username: user,
		Password: pass,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/items", s.basicAuth(s.handleItems))
	mux.HandleFunc("GET /api/items/{key}", s.basicAuth(s.handleItem))
	mux.HandleFunc("GET /api/catalog", s.basicAuth(s.handleCatalog))
	mux.HandleFunc("GET /api/head", s.basicAuth(s.handleHead))
	mux.HandleFunc("GET /api/facets", s.basicAuth(s.handleFacets))
	mux.HandleFunc("GET /api/cache", s.basicAuth(s.handleCacheSizes))
	mux.HandleFunc("POST /api/cache/purge", s.basicAuth(s.handlePurge))
	if s.DB != nil {
		mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
		mux.HandleFunc("GET /api/changes", s.basicAuth(s.handleChanges))
		mux.HandleFunc("GET /api/snapshot/items", s.basicAuth(s.handleSnapshotItems))
	}
	mux.Handle("GET /metrics", s.basicAuthHandler(promhttp.Handler()))

	return mux
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	utils.Log.Infof("Starting server on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) authorized(r *http.Request) bool {
	if s.Username == "" && s.Password == "" {
		return true
	}
	user, pass, ok := r.BasicAuth()
	return ok && user == s.Username && pass == s.Password
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) basicAuthHandler(next http.Handler) http.Handler {
	return s.basicAuth(next.ServeHTTP)
}
