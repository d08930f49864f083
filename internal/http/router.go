// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (Identity → RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/podtruth/go-factcheck-backend/internal/config"
	"github.com/podtruth/go-factcheck-backend/internal/http/handlers"
	"github.com/podtruth/go-factcheck-backend/internal/http/middleware"
	"github.com/podtruth/go-factcheck-backend/internal/repo"
	"github.com/podtruth/go-factcheck-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. Identity: resolve the caller before anything logs
//  3. RequestID: generate/propagate correlation id
//  4. RedactingLogger: structured logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Body size limiter and gzip
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Caller identity (gateway header shim)
	r.Use(middleware.Identity())

	// 3) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 4) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			middleware.HeaderUserID, // caller identity stays out of raw header dumps
		},
	}))

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit (256 KiB; payloads here are small JSON) + gzip
	r.Use(limitBody(256 << 10))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, subjectID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, subjectID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderModerator, middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID, middleware.HeaderModerator, middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db
	karmaSvc := &services.KarmaService{DB: db, MaxRetries: cfg.KarmaMaxRetries}
	notifSvc := services.NewNotificationService(db)
	voteSvc := &services.VoteService{DB: db, Karma: karmaSvc, MaxRetries: cfg.VoteMaxRetries}
	fcSvc := services.NewFactCheckService(db, karmaSvc, notifSvc)
	cmSvc := services.NewCommentService(db, karmaSvc, notifSvc)

	h := handlers.New(voteSvc, karmaSvc, fcSvc, cmSvc, notifSvc).
		WithIdempotency(&idemStore{db: db, ttl: cfg.IdempotencyTTL})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Fact checks
		api.POST("/fact-checks", h.CreateFactCheck)
		api.GET("/fact-checks/:id", h.GetFactCheck)
		api.PATCH("/fact-checks/:id/status", h.SetFactCheckStatus)
		api.DELETE("/fact-checks/:id", h.DeleteFactCheck)
		api.GET("/episodes/:id/fact-checks", h.ListEpisodeFactChecks)

		// Comments
		api.POST("/fact-checks/:id/comments", h.CreateComment)
		api.GET("/fact-checks/:id/comments", h.ListComments)
		api.DELETE("/comments/:id", h.DeleteComment)

		// Votes
		api.POST("/fact-checks/:id/votes", h.SubmitFactCheckVote)
		api.GET("/fact-checks/:id/votes", h.GetFactCheckVotes)
		api.POST("/comments/:id/votes", h.SubmitCommentVote)
		api.GET("/comments/:id/votes", h.GetCommentVotes)
		api.GET("/users/:id/votes", h.GetUserVotes)

		// Karma
		api.GET("/users/:id/karma", h.GetUserKarma)
		api.GET("/users/:id/karma/history", h.GetKarmaHistory)

		// Notifications
		api.GET("/users/:id/notifications", h.ListNotifications)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// idemStore adapts the idempotency repository to handlers.IdempotencyStore.
// Record is best-effort: a lost record only means a retried request is
// processed again, which the vote engine tolerates.
type idemStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func (s *idemStore) Recall(ctx context.Context, userID, subjectID, key string) (string, bool) {
	rec, err := repo.GetIdempotency(ctx, s.db, userID, subjectID, key, time.Now().UTC())
	if err != nil || rec == nil {
		return "", false
	}
	return rec.ResultID, true
}

func (s *idemStore) Record(ctx context.Context, userID, subjectID, key, resultID string, status int) {
	_, err := repo.CreateIdempotency(ctx, s.db, userID, subjectID, key, resultID, status, s.ttl)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		log.Warn().Err(err).
			Str("user_id", userID).
			Str("subject_id", subjectID).
			Msg("idempotency record not stored")
	}
}
