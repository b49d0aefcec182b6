package gateway

import (
	"net/http"
	"time"

	"github.com/djglaser/spookymart-ecommerce/internal/httpx"
)

// availableEndpoints is the public surface listed by the descriptor and by
// 404 responses.
var availableEndpoints = map[string]string{
	"info":     "GET /",
	"health":   "GET /health",
	"products": "GET|POST|PUT|DELETE /api/products",
	"orders":   "GET|POST|PUT|DELETE /api/orders",
}

func (s *Server) describe(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"service":     ServiceName,
		"version":     Version,
		"description": "SpookyMart API gateway: unified entrypoint for the product and order services",
		"environment": s.cfg.Environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"endpoints":   availableEndpoints,
		"upstreams": map[string]string{
			productUpstream: s.cfg.ProductServiceURL,
			orderUpstream:   s.cfg.OrderServiceURL,
		},
	})
}

// compositeHealth probes both upstreams on every call and answers 200 only
// when all of them are healthy.
func (s *Server) compositeHealth(w http.ResponseWriter, r *http.Request) {
	comp := s.agg.Check(r.Context())

	status := http.StatusOK
	if !comp.Healthy() {
		status = http.StatusServiceUnavailable
	}
	httpx.JSON(w, status, map[string]any{
		"status":    comp.Status,
		"service":   ServiceName,
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  comp.Services,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusNotFound, map[string]any{
		"error":              "Not Found",
		"message":            r.Method + " " + r.URL.Path + " is not a known route",
		"availableEndpoints": availableEndpoints,
	})
}
