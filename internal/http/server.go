package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mplads/internal/analytics"
	"mplads/internal/cache"
	"mplads/internal/funds"
	"mplads/internal/log"
	"mplads/internal/middleware/ratelimit"
	"mplads/internal/middleware/security"
	"mplads/internal/middleware/trace"
)

// Options configures the HTTP server.
type Options struct {
	Addr               string
	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int
	AllowOrigin        string

	// Ping, when set, is called by /readyz to check the backing store.
	Ping func(ctx context.Context) error

	Logger *log.Logger
}

// Server serves the read-only query API over a loaded dataset.
type Server struct {
	http.Server

	funds     *funds.Dataset
	analytics *analytics.Service
	ping      func(ctx context.Context) error
	logger    *log.Logger
	started   time.Time

	detector     *security.Detector
	rateLimiter  *ratelimit.Limiter
	registry     *prometheus.Registry
	responses    *cache.LRUCache[[]byte]
	cacheManager *cache.Manager
	cacheTTL     time.Duration

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. The dataset and analytics service must not be nil.
func NewServer(opts Options, ds *funds.Dataset, svc *analytics.Service) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	s := &Server{
		funds:        ds,
		analytics:    svc,
		ping:         opts.Ping,
		logger:       logger.WithComponent(log.ComponentHTTP),
		started:      time.Now(),
		detector:     security.NewDetector(),
		registry:     prometheus.NewRegistry(),
		responses:    cache.NewLRUCache[[]byte](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(logger),
		cacheTTL:     opts.CacheTTL,
	}

	s.cacheManager.Register(s.responses)
	s.cacheManager.StartCleanup(opts.CacheTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /api/mps", s.cached(s.handleListMPs))
	mux.HandleFunc("GET /api/mps/stats", s.cached(s.handleStats))
	mux.HandleFunc("GET /api/analytics/mps", s.cached(s.handleListProfiles))
	mux.HandleFunc("GET /api/analytics/mps/{name}", s.handleProfile)
	mux.HandleFunc("GET /api/analytics/compare", s.handleCompare)
	mux.HandleFunc("/", s.handleNotFound)

	var handler http.Handler = trace.CapturePattern(mux)
	if opts.RateLimitPerMinute > 0 {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute})
		handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldPath, r.URL.Path)
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
		})(handler)
	}
	headers := security.DefaultHeadersConfig()
	headers.AllowOrigin = opts.AllowOrigin
	handler = security.NewHeadersMiddleware(headers).Middleware(handler)
	handler = s.detector.Middleware(logger)(handler)
	handler = log.RequestIDMiddleware(trace.RequestID)(handler)
	handler = log.Middleware(logger)(handler)
	handler = trace.NewMiddleware(s.detector.ExtractClientIP, logger, trace.NewMetrics(s.registry)).Middleware(handler)

	s.registerMetrics()

	s.Addr = opts.Addr
	s.Handler = handler
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 120 * time.Second
	return s
}

func (s *Server) registerMetrics() {
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mplads", Name: "fund_records",
			Help: "Normalized fund records currently served.",
		}, func() float64 { return float64(s.funds.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mplads", Subsystem: "cache", Name: "entries",
			Help: "Cached API responses.",
		}, func() float64 { return float64(s.responses.Size()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mplads", Subsystem: "cache", Name: "hits_total",
			Help: "Response cache hits.",
		}, func() float64 { h, _ := s.responses.Stats(); return float64(h) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mplads", Subsystem: "cache", Name: "misses_total",
			Help: "Response cache misses.",
		}, func() float64 { _, m := s.responses.Stats(); return float64(m) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "mplads", Subsystem: "security", Name: "suspicious_requests_total",
			Help: "Requests matching suspicious path patterns.",
		}, func() float64 { return float64(s.detector.GetMetrics().SuspiciousRequests) }),
	)
	if s.rateLimiter != nil {
		s.registry.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: "mplads", Subsystem: "ratelimit", Name: "rejected_total",
				Help: "Requests rejected by the rate limiter.",
			}, func() float64 { return float64(s.rateLimiter.GetMetrics().TotalHits) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "mplads", Subsystem: "ratelimit", Name: "active_clients",
				Help: "Clients tracked by the rate limiter.",
			}, func() float64 { return float64(s.rateLimiter.ActiveClients()) }),
		)
	}
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
