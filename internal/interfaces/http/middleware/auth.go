package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/auth"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/infrastructure/logger"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/dto"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	TenantIDKey   = "auth_tenant_id"
	UserIDKey     = "auth_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "

	// TenantHeader and UserHeader carry the caller identity when token
	// verification is disabled
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"
)

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	// JWTService verifies bearer tokens. Nil switches to header mode, where
	// the tenant and user are read from X-Tenant-ID and X-User-ID.
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultAuthConfig returns default auth middleware configuration
func DefaultAuthConfig(jwtService *auth.JWTService) AuthConfig {
	return AuthConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
		},
	}
}

// Auth resolves the calling tenant and user for every request that is not
// skipped, and rejects the request with 401 when it cannot
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if skipped(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		var tenantID, userID string
		if cfg.JWTService != nil {
			claims, err := bearerClaims(cfg.JWTService, c.GetHeader(AuthHeaderKey))
			if err != nil {
				abortUnauthorized(c, cfg, err)
				return
			}
			c.Set(ClaimsKey, claims)
			tenantID, userID = claims.TenantID, claims.UserID
		} else {
			tenantID = strings.TrimSpace(c.GetHeader(TenantHeader))
			userID = strings.TrimSpace(c.GetHeader(UserHeader))
			if _, err := uuid.Parse(tenantID); err != nil {
				abortUnauthorized(c, cfg, auth.ErrMissingTenantID)
				return
			}
			if userID != "" {
				if _, err := uuid.Parse(userID); err != nil {
					abortUnauthorized(c, cfg, auth.ErrMissingUserID)
					return
				}
			}
		}

		c.Set(TenantIDKey, tenantID)
		c.Set(UserIDKey, userID)

		ctx, reqLogger := c.Request.Context(), logger.GetGinLogger(c)
		if logger.GetTenantID(ctx) != tenantID {
			ctx, reqLogger = logger.WithTenantID(ctx, reqLogger, tenantID)
		}
		if userID != "" {
			reqLogger = reqLogger.With(zap.String("user_id", userID))
			ctx = logger.WithContext(ctx, reqLogger)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinLoggerKey, reqLogger)

		c.Next()
	}
}

func skipped(cfg AuthConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func bearerClaims(svc *auth.JWTService, header string) (*auth.Claims, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return nil, auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return svc.ValidateAccessToken(token)
}

// abortUnauthorized answers 401 with a code describing why authentication failed
func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error) {
	cfg.Logger.Warn("Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	message := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	case errors.Is(err, auth.ErrMissingTenantID):
		message = "A valid tenant is required"
	case errors.Is(err, auth.ErrMissingUserID):
		message = "Invalid user identity"
	case errors.Is(err, auth.ErrInvalidToken):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}

// GetClaims retrieves verified token claims from gin.Context.
// Returns nil in header mode.
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(ClaimsKey); exists {
		if ac, ok := claims.(*auth.Claims); ok {
			return ac
		}
	}
	return nil
}

// GetTenantID retrieves the authenticated tenant ID from context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetUserID retrieves the authenticated user ID from context.
// It may be empty in header mode.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
