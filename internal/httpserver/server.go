// internal/httpserver/server.go
//
// HTTP server wiring for the Yahtzee tracker.
// Responsibilities:
//   - Router + middleware (request IDs, access log, timeouts, panic recovery, metrics).
//   - Game pages: "/", POST /roll, POST /mark/{index}, /scorecard/{id}.
//   - Machine-readable views: /state, /api/{id}.
//   - Diagnostics: /health, /metrics. Embedded assets under /static/.
//
// Notes:
//   - The session id travels in a signed cookie; see cookie.go.
//   - HTML routes render the error page on failure, JSON routes answer
//     {"error":"..."} bodies.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/pie-flavor/yahtzee/assets"
	"github.com/pie-flavor/yahtzee/internal/game"
	"github.com/pie-flavor/yahtzee/internal/metrics"
	"github.com/pie-flavor/yahtzee/internal/tracker"
)

// Tracker is the game service the handlers drive.
type Tracker interface {
	Current(ctx context.Context, rawID string) (tracker.Current, error)
	Roll(ctx context.Context, rawID string, held [game.DiceCount]bool) error
	Mark(ctx context.Context, rawID string, index int) (tracker.MarkResult, error)
	Scorecard(ctx context.Context, rawID string) (game.Scorecard, error)
}

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	Cookie         CookieOptions
	RequestTimeout time.Duration
}

// Server bundles router, game service and templates.
type Server struct {
	r       *chi.Mux
	tracker Tracker
	cookies *cookieCodec
	views   *renderer
}

// New constructs a Server, installs middleware, and registers routes.
func New(t Tracker, opts Options) (*Server, error) {
	if t == nil {
		return nil, errors.New("httpserver: tracker cannot be nil")
	}
	views, err := newRenderer()
	if err != nil {
		return nil, err
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &Server{
		r:       chi.NewRouter(),
		tracker: t,
		cookies: newCookieCodec(opts.Cookie),
		views:   views,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(chimw.Timeout(timeout))      // bound handler time
	s.r.Use(routeMetrics)                // prometheus counters per route

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static()))))

	// --- game ---
	s.mountGame(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.views.errorPage(w, r, http.StatusNotFound)
	})

	return s, nil
}

// Start serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// accessLog writes one structured line per request through the hlog logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// routeMetrics records request counts and latency labelled by chi route
// pattern rather than raw path.
func routeMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
