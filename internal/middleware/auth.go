// Package middleware provides Gin HTTP middleware for authentication,
// tenant binding, authorization, rate limiting, security headers, request ids,
// and metrics.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Security → RequestID → Metrics → RateLimit → Auth → TenantGuard → RequireRole → Handler
//
// Security headers run first so they appear on all responses including errors.
// Rate limiting runs before auth to blunt brute-force attempts before any
// crypto or DB work. Auth populates the caller identity; TenantGuard pins the
// request to the authenticated organization; RequireRole reads the role that
// auth stored in the context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/services"
)

// Context keys populated by the authentication middleware. Handlers and
// downstream middleware read these instead of re-parsing credentials.
const (
	CtxUserID         = "user_id"
	CtxEmail          = "email"
	CtxOrganizationID = "organization_id"
	CtxRole           = "role"
	CtxAuthMethod     = "auth_method"
	CtxAPIKeyID       = "api_key_id"
)

// APIKeyHeader carries the plaintext API key for machine callers.
const APIKeyHeader = "X-API-Key"

// OrgIDHeader carries the caller-asserted organization id on API key requests.
// The assertion is verified against the key's actual organization; a mismatch
// is indistinguishable from an invalid key.
const OrgIDHeader = "X-Organization-ID"

// abortError writes the standard response envelope and stops the chain.
func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// JWTAuth authenticates interactive callers via a Bearer token. On success the
// claims are copied into the request context; the token is self-contained, so
// no database access happens here.
func JWTAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortError(c, http.StatusUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			abortError(c, http.StatusUnauthorized, "Authorization header must start with 'Bearer '")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			abortError(c, http.StatusUnauthorized, "Authorization token is empty")
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			// Expired, tampered, and malformed tokens all read the same.
			abortError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxOrganizationID, claims.OrganizationID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxAuthMethod, "jwt")

		c.Next()
	}
}

// APIKeyAuth authenticates machine callers via the X-API-Key header together
// with a caller-asserted organization id. Verification is delegated to the
// API key service, which also records usage.
func APIKeyAuth(keys *services.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			abortError(c, http.StatusUnauthorized, "Missing API key")
			return
		}

		assertedOrg := c.GetHeader(OrgIDHeader)
		if assertedOrg == "" {
			abortError(c, http.StatusUnauthorized, "Missing organization id")
			return
		}

		apiKey, err := keys.Verify(c.Request.Context(), key, assertedOrg, services.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if err != nil {
			abortError(c, http.StatusUnauthorized, "Invalid API key")
			return
		}

		c.Set(CtxOrganizationID, apiKey.OrganizationID)
		c.Set(CtxAPIKeyID, apiKey.ID)
		c.Set(CtxAuthMethod, "api_key")

		c.Next()
	}
}

// RequestMeta extracts per-request client attributes for audit entries.
func RequestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
