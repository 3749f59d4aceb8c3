// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, compression, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/config"
	"github.com/stablemesh/go-breeder-network/internal/http/handlers"
	"github.com/stablemesh/go-breeder-network/internal/http/middleware"
	"github.com/stablemesh/go-breeder-network/internal/services"
	"github.com/stablemesh/go-breeder-network/internal/stores"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with share-code scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Response compression
//  8. Rate limiter (per tenant/IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) Token-bucket rate limiter per tenant/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByTenantOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Tenant-ID"},
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
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Tenant-ID"},
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

	// Dependency injection: services ← stores/db
	animals := &stores.GormAnimalStore{DB: db}
	tenants := &stores.GormTenantDirectory{DB: db}
	plans := &stores.GormPlanStore{DB: db}
	threads := &stores.GormThreadStore{DB: db}
	notifier := stores.LogNotifier{}

	codeSvc := &services.ShareCodeService{
		DB:         db,
		Animals:    animals,
		Segments:   cfg.ShareCode.Segments,
		SegmentLen: cfg.ShareCode.SegmentLen,
	}
	accSvc := &services.AccessService{DB: db, Animals: animals}
	netSvc := &services.NetworkService{DB: db, Animals: animals, Tenants: tenants}
	inqSvc := &services.InquiryService{
		DB:         db,
		Animals:    animals,
		Tenants:    tenants,
		Threads:    threads,
		Notifier:   notifier,
		RateLimit:  cfg.Inquiry.RateLimit,
		RateWindow: cfg.Inquiry.RateWindow,
	}
	agrSvc := &services.AgreementService{DB: db, Plans: plans, Notifier: notifier}
	convSvc := &services.ConversationService{DB: db, Animals: animals, Tenants: tenants, Threads: threads}

	h := handlers.New(codeSvc, accSvc, netSvc, inqSvc, agrSvc, convSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Share codes
		api.POST("/share-codes", h.GenerateShareCode)
		api.GET("/share-codes", h.ListShareCodes)
		api.POST("/share-codes/redeem", h.RedeemShareCode)
		api.GET("/share-codes/validate/:code", h.ValidateShareCode)
		api.DELETE("/share-codes/:id", h.RevokeShareCode)

		// Animal access
		api.GET("/animal-access/received", h.ListReceivedAccess)
		api.GET("/animal-access/shared", h.ListSharedAccess)
		api.DELETE("/animal-access/:id", h.RemoveAccess)
		api.POST("/animal-access/:id/revoke", h.RevokeAccess)
		api.PUT("/animal-access/:id/tier", h.UpdateAccessTier)
		api.POST("/animals/:id/deleted", h.AnimalDeleted)

		// Conversations (keyed by access grant)
		api.GET("/conversations/:id", h.GetConversation)
		api.POST("/conversations/:id/messages", h.SendConversationMessage)

		// Network search
		api.POST("/network/search", h.SearchNetwork)
		api.POST("/network/rebuild-index", h.RebuildIndex)

		// Inquiries
		api.POST("/inquiries", h.SendInquiry)
		api.GET("/inquiries/sent", h.ListSentInquiries)
		api.GET("/inquiries/received", h.ListReceivedInquiries)
		api.GET("/inquiries/received/:id", h.GetReceivedInquiry)
		api.POST("/inquiries/:id/respond", h.RespondInquiry)

		// Agreements
		api.POST("/agreements", h.CreateAgreement)
		api.GET("/agreements", h.ListAgreements)
		api.GET("/agreements/:id", h.GetAgreement)
		api.POST("/agreements/:id/approve", h.ApproveAgreement)
		api.POST("/agreements/:id/reject", h.RejectAgreement)
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
