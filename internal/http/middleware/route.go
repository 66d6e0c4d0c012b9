package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern returns the chi route pattern matched by r, once the request
// has been routed.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "<unknown>"
	}

	pattern := rctx.RoutePattern()
	if pattern == "" {
		return "<unknown>"
	}
	return pattern
}
