package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mplads/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Header("Cache-Control", "no-store").
		Data(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(s.started).Round(time.Second).String(),
		}).
		Write(w)
}

// handleReady reports ready once fund records are loaded and, when a
// backing store is configured, it answers a ping. A failing check turns
// the whole response into a 503 error naming every failure.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]any)
	var failures []string

	if n := s.funds.Len(); n > 0 {
		checks["fund_records"] = map[string]any{"status": "ok", "count": n, "loaded_at": s.funds.LoadedAt().Format(time.RFC3339)}
	} else {
		failures = append(failures, "fund_records: no fund records loaded")
	}

	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("store: %v", err))
		} else {
			checks["store"] = "ok"
		}
	}

	if len(failures) > 0 {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "failures", failures)
		ServiceUnavailableError("not ready: " + strings.Join(failures, "; ")).Write(w)
		return
	}

	checks["cache"] = map[string]any{"entries": s.responses.Size(), "status": "ok"}
	if s.rateLimiter != nil {
		checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients(), "status": "ok"}
	}

	NewJSONResponse().
		Header("Cache-Control", "no-store").
		Data(map[string]any{
			"status":    "ready",
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    checks,
		}).
		Write(w)
}

// handleListMPs serves GET /api/mps?house=&q=&sort=: the current view of
// the member table and the totals of the selected house.
func (s *Server) handleListMPs(r *http.Request) (string, func() any) {
	q := r.URL.Query()
	return CacheKey(r.URL.Path, q, "house", "q", "sort"), func() any {
		return s.funds.Query(ParseFundQuery(q))
	}
}

// handleStats serves GET /api/mps/stats.
func (s *Server) handleStats(r *http.Request) (string, func() any) {
	return r.URL.Path, func() any { return s.funds.Overview() }
}

// handleListProfiles serves GET /api/analytics/mps?house=.
func (s *Server) handleListProfiles(r *http.Request) (string, func() any) {
	q := r.URL.Query()
	return CacheKey(r.URL.Path, q, "house"), func() any {
		return s.analytics.ListByHouse(r.Context(), ParseHouseFilter(q))
	}
}

// handleProfile serves GET /api/analytics/mps/{name}. The name is the full
// mapping key including the tenure suffix.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(r.PathValue("name"))
	profile, ok := s.analytics.GetBreakdown(r.Context(), name)
	if !ok {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Spending profile not found", log.FieldMember, name)
		NotFoundError(fmt.Sprintf("no spending data for %q", name)).Write(w)
		return
	}
	NewJSONResponse().
		Header("Cache-Control", s.cacheControl()).
		Data(newProfileView(profile)).
		Write(w)
}

// handleCompare serves GET /api/analytics/compare?a=&b=. Either side is
// null when that member has no spending data.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	p, ok := ParseCompareParams(r.URL.Query())
	if !ok {
		BadRequestError("both a and b are required").Write(w)
		return
	}
	c := s.analytics.Compare(r.Context(), p.A, p.B)
	NewJSONResponse().
		Header("Cache-Control", s.cacheControl()).
		Data(comparisonView{
			A:          newProfileView(c.A),
			B:          newProfileView(c.B),
			Categories: c.Categories,
		}).
		Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		MethodNotAllowedError("GET, HEAD").Write(w)
		return
	}
	NotFoundError("not found").Write(w)
}

// cachedHandler returns the cache key of a request and a function that
// builds the response body on a miss.
type cachedHandler func(r *http.Request) (key string, build func() any)

// cached serves encoded bodies from the response cache. The dataset is
// immutable once loaded, so entries only expire by TTL and size.
func (s *Server) cached(h cachedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, build := h(r)
		resp := NewJSONResponse().Header("Cache-Control", s.cacheControl())

		if body, ok := s.responses.Get(key); ok {
			resp.Header("X-Cache", "HIT").Raw(body).Write(w)
			return
		}

		body, err := resp.Data(build()).Encode()
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", log.FieldError, err, log.FieldPath, r.URL.Path)
			ErrorResponse(http.StatusInternalServerError, "failed to encode response").Write(w)
			return
		}
		s.responses.Set(key, body)
		resp.Header("X-Cache", "MISS").Raw(body).Write(w)
	}
}

func (s *Server) cacheControl() string {
	return "public, max-age=" + strconv.Itoa(int(s.cacheTTL.Seconds()))
}
