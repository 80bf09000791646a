// Package api wires the HTTP surface: middleware chain, route groups, and
// handlers. Three route groups exist with distinct authentication:
//
//   - /api/v1/auth         public, under the strict rate limit
//   - /api/v1/...          JWT-authenticated, tenant-bound, role-checked
//   - /api/v1/ext/...      API-key-authenticated, read-only
//
// Handlers are thin: bind, call the service, render the envelope. All
// tenant and role enforcement lives in the middleware chain.
package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/config"
	"github.com/saasbase/saasbase/internal/db/repositories"
	"github.com/saasbase/saasbase/internal/middleware"
	"github.com/saasbase/saasbase/internal/services"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// BackgroundServices tracks goroutine-owning components started by NewRouter
// so the server can stop them on shutdown.
type BackgroundServices struct {
	limiters []*middleware.MemoryLimiter
	shipper  audit.Shipper
	redis    *redis.Client
}

// Shutdown stops rate limiter cleanup goroutines, flushes and closes audit
// shippers, and closes the Redis client if one was opened.
func (b *BackgroundServices) Shutdown() {
	for _, l := range b.limiters {
		l.Stop()
	}
	if b.shipper != nil {
		b.shipper.Close() //nolint:errcheck // shutdown path
	}
	if b.redis != nil {
		b.redis.Close() //nolint:errcheck
	}
}

// NewRouter builds the engine with all routes and middleware registered.
// The returned BackgroundServices must be Shutdown when the server stops.
func NewRouter(cfg *config.Config, sqlDB *sql.DB) (*gin.Engine, *BackgroundServices, error) {
	bg := &BackgroundServices{}

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Expiry, cfg.Auth.JWT.Issuer)
	if err != nil {
		return nil, nil, err
	}

	userRepo := repositories.NewUserRepository(sqlDB)
	orgRepo := repositories.NewOrganizationRepository(sqlDB)
	keyRepo := repositories.NewAPIKeyRepository(sqlDB)
	projectRepo := repositories.NewProjectRepository(sqlx.NewDb(sqlDB, "postgres"))
	auditRepo := repositories.NewAuditRepository(sqlDB)

	var shipper audit.Shipper
	if cfg.Audit.Enabled && len(cfg.Audit.Shippers) > 0 {
		shipper, err = audit.NewMultiShipper(shipperConfigs(cfg.Audit.Shippers))
		if err != nil {
			return nil, nil, err
		}
		bg.shipper = shipper
	}
	recorder := audit.NewRecorder(auditRepo, shipper)

	authSvc := services.NewAuthService(userRepo, orgRepo, issuer, recorder)
	keySvc := services.NewAPIKeyService(keyRepo, recorder, cfg.Auth.APIKeys.Prefix)
	userSvc := services.NewUserService(userRepo, recorder)
	projectSvc := services.NewProjectService(projectRepo, recorder)
	auditSvc := services.NewAuditService(auditRepo)

	authH := NewAuthHandlers(authSvc)
	keyH := NewAPIKeyHandlers(keySvc)
	userH := NewUserHandlers(userSvc)
	projectH := NewProjectHandlers(projectSvc)
	auditH := NewAuditHandlers(auditSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders(middleware.APISecurityHeadersConfig()))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Security.CORS))

	registerRootRoutes(r, sqlDB)

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	if cfg.Security.RateLimiting.Enabled {
		rlCfg := middleware.AuthRateLimitConfig()
		authGroup.Use(middleware.RateLimit(bg.newLimiter(cfg, rlCfg), rlCfg))
	}
	authGroup.POST("/register", authH.Register)
	authGroup.POST("/login", authH.Login)

	jwtGroup := v1.Group("")
	if cfg.Security.RateLimiting.Enabled {
		rlCfg := middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Security.RateLimiting.RequestsPerMinute,
			BurstSize:         cfg.Security.RateLimiting.Burst,
			CleanupInterval:   middleware.DefaultRateLimitConfig().CleanupInterval,
		}
		jwtGroup.Use(middleware.RateLimit(bg.newLimiter(cfg, rlCfg), rlCfg))
	}
	jwtGroup.Use(middleware.JWTAuth(issuer), middleware.TenantGuard())

	keys := jwtGroup.Group("/api-keys")
	keys.POST("", middleware.RequireRole(auth.APIKeyWrite), keyH.Create)
	keys.GET("", keyH.List)
	keys.POST("/:keyId/rotate", middleware.RequireRole(auth.APIKeyWrite), keyH.Rotate)
	keys.DELETE("/:keyId", middleware.RequireRole(auth.APIKeyRevoke), keyH.Revoke)

	users := jwtGroup.Group("/users")
	users.POST("", middleware.RequireRole(auth.UserWrite), userH.Create)
	users.GET("", userH.List)
	users.POST("/password", userH.ChangePassword)
	users.GET("/:userId", userH.Get)
	users.PUT("/:userId", middleware.RequireRole(auth.UserWrite), userH.Update)
	users.DELETE("/:userId", middleware.RequireRole(auth.UserDeactivate), userH.Deactivate)

	projects := jwtGroup.Group("/projects")
	projects.POST("", middleware.RequireRole(auth.ProjectWrite), projectH.Create)
	projects.GET("", projectH.List)
	projects.GET("/:projectId", projectH.Get)
	projects.PUT("/:projectId", middleware.RequireRole(auth.ProjectWrite), projectH.Update)
	projects.DELETE("/:projectId", middleware.RequireRole(auth.ProjectDelete), projectH.Delete)

	auditGroup := jwtGroup.Group("/audit")
	auditGroup.GET("", middleware.RequireRole(auth.AuditRead), auditH.ListOrganization)
	auditGroup.GET("/:userId", auditH.ListUser)

	if cfg.Auth.APIKeys.Enabled {
		ext := v1.Group("/ext", middleware.APIKeyAuth(keySvc), middleware.TenantGuard())
		ext.GET("/projects", projectH.List)
		ext.GET("/projects/:projectId", projectH.Get)
	}

	return r, bg, nil
}

// registerRootRoutes adds the unauthenticated operational endpoints.
func registerRootRoutes(r *gin.Engine, sqlDB *sql.DB) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": Version})
	})
}

// newLimiter picks the rate limit backend. The memory backend registers its
// cleanup goroutine with BackgroundServices; the Redis backend shares one
// client across groups.
func (b *BackgroundServices) newLimiter(cfg *config.Config, rlCfg middleware.RateLimitConfig) middleware.Limiter {
	if cfg.Security.RateLimiting.Backend == "redis" {
		if b.redis == nil {
			b.redis = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
		}
		return middleware.NewRedisLimiter(b.redis, rlCfg)
	}
	ml := middleware.NewMemoryLimiter(rlCfg)
	b.limiters = append(b.limiters, ml)
	return ml
}

// shipperConfigs maps the viper-loaded audit config onto the shipper
// package's own config types.
func shipperConfigs(in []config.AuditShipperConfig) []audit.ShipperConfig {
	out := make([]audit.ShipperConfig, 0, len(in))
	for _, sc := range in {
		mapped := audit.ShipperConfig{Enabled: sc.Enabled, Type: sc.Type}
		if sc.Syslog != nil {
			mapped.Syslog = &audit.SyslogConfig{
				Network: sc.Syslog.Network,
				Address: sc.Syslog.Address,
				Tag:     sc.Syslog.Tag,
			}
		}
		if sc.Webhook != nil {
			mapped.Webhook = &audit.WebhookConfig{
				URL:           sc.Webhook.URL,
				Headers:       sc.Webhook.Headers,
				Timeout:       time.Duration(sc.Webhook.TimeoutSecs) * time.Second,
				BatchSize:     sc.Webhook.BatchSize,
				FlushInterval: time.Duration(sc.Webhook.FlushIntervalSecs) * time.Second,
			}
		}
		if sc.File != nil {
			mapped.File = &audit.FileConfig{
				Path:       sc.File.Path,
				MaxSizeMB:  sc.File.MaxSizeMB,
				MaxBackups: sc.File.MaxBackups,
			}
		}
		out = append(out, mapped)
	}
	return out
}
