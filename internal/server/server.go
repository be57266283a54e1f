package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/CaseBattle_Go/internal/battle"
	"github.com/osse101/CaseBattle_Go/internal/handler"
	"github.com/osse101/CaseBattle_Go/internal/logger"
	"github.com/osse101/CaseBattle_Go/internal/metrics"
	"github.com/osse101/CaseBattle_Go/internal/opening"
	"github.com/osse101/CaseBattle_Go/internal/repository"
)

// maxRequestBytes caps request bodies
const maxRequestBytes = 1 << 20

// Deps are the collaborators the HTTP layer serves
type Deps struct {
	Port           int
	APIKey         string
	TrustedProxies []string

	Openings  opening.Service
	Battles   battle.Service
	Catalog   repository.Catalog
	Ledger    repository.Ledger
	Inventory repository.Inventory

	// Readiness holds storage dependencies probed by /readyz
	Readiness map[string]handler.Pinger
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", deps.Port),
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter builds the routed handler with the full middleware stack
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(deps.APIKey, deps.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(deps.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Readiness))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	boxes := handler.NewBoxHandler(deps.Catalog, deps.Openings)
	openings := handler.NewOpeningHandler(deps.Openings)
	fairness := handler.NewFairnessHandler(deps.Openings)
	battles := handler.NewBattleHandler(deps.Battles)
	wallet := handler.NewWalletHandler(deps.Ledger, deps.Inventory)
	admin := handler.NewAdminHandler(deps.Openings, deps.Ledger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/boxes", func(r chi.Router) {
			r.Get("/", boxes.HandleListBoxes)
			r.Get("/{boxID}", boxes.HandleGetBox)
			r.Post("/{boxID}/open", boxes.HandleOpenBox)
			r.Post("/{boxID}/demo", boxes.HandleDemoOpen)
		})

		r.Route("/openings/{openingID}", func(r chi.Router) {
			r.Get("/", openings.HandleGetOpening)
			r.Post("/sell", openings.HandleSellBack)
			r.Post("/keep", openings.HandleKeepItem)
			r.Get("/verify", openings.HandleVerifyOpening)
		})

		r.Route("/fairness", func(r chi.Router) {
			r.Get("/", fairness.HandleGetState)
			r.Put("/client-seed", fairness.HandleSetClientSeed)
			r.Get("/seeds/{hash}", fairness.HandleRevealSeed)
		})

		r.Route("/battles", func(r chi.Router) {
			r.Get("/", battles.HandleListBattles)
			r.Post("/", battles.HandleCreateBattle)
			r.Get("/{battleID}", battles.HandleGetBattle)
			r.Post("/{battleID}/join", battles.HandleJoinBattle)
			r.Post("/{battleID}/claim", battles.HandleClaim)
		})

		r.Get("/wallet", wallet.HandleGetBalance)
		r.Get("/inventory", wallet.HandleGetInventory)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/seeds/rotate", admin.HandleRotateSeed)
			r.Post("/credit", admin.HandleCredit)
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		if userID := r.Header.Get(handler.HeaderUserID); userID != "" {
			ctx = logger.WithUserID(ctx, userID)
		}
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{logger.RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
