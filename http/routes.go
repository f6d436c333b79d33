package http

import (
	"net/http"

	"github.com/aukilabs/spatialmap/featureflag"
	"github.com/aukilabs/spatialmap/query"
)

// ServiceOptions configures the public HTTP service.
type ServiceOptions struct {
	Version      string
	FeatureFlags featureflag.FeatureFlag

	// Service returns the query service, nil until the data is loaded.
	Service func() *query.Service
}

// NewServiceHandler returns the handler of the public HTTP service. Query
// routes respond with 503 until the data is loaded.
func NewServiceHandler(opts ServiceOptions) http.Handler {
	ready := func() bool {
		return opts.Service() != nil
	}

	withService := func(h func(*query.Service) http.HandlerFunc) http.Handler {
		return HandleWithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := opts.Service()
			if s == nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			h(s).ServeHTTP(w, r)
		}))
	}

	var mux http.ServeMux
	mux.Handle("GET /points", withService(HandlePoint))
	mux.Handle("GET /range", withService(HandleRange))
	mux.Handle("GET /regions", HandleWithCORS(http.HandlerFunc(HandleRegions)))
	mux.Handle("GET /regions/{name}", withService(HandleRegion))
	mux.Handle("GET /stats", withService(HandleStats))
	mux.Handle("GET /dump", withService(func(s *query.Service) http.HandlerFunc {
		return HandleDump(s, opts.FeatureFlags)
	}))
	mux.HandleFunc("/health", HandleHealthCheck)
	mux.HandleFunc("/ready", HandleReadyCheck(ready))
	mux.Handle("/version", HandleWithCORS(HandleVersion(opts.Version)))
	return &mux
}
