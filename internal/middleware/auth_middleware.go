package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/auth"
)

// ProfileResolver turns verified access token claims into the current profile
type ProfileResolver interface {
	ValidateAccessClaims(ctx context.Context, claims *auth.Claims) (*models.Profile, error)
}

// AuthMiddleware authenticates bearer access tokens
type AuthMiddleware struct {
	jwtService *auth.JWTService
	profiles   ProfileResolver
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, profiles ProfileResolver, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		profiles:   profiles,
		logger:     logger,
	}
}

// JWTAuth validates the Authorization header and stores the profile the token
// was issued for in the context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected access token")
			HandleAPIError(c, err)
			return
		}

		profile, err := m.profiles.ValidateAccessClaims(c.Request.Context(), claims)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		// token outlived its profile
		if profile == nil {
			HandleAPIError(c, apperrors.NewAuthenticationError(apperrors.ErrUnauthenticated, "Authentication required"))
			return
		}

		c.Set(ContextProfileKey, profile)
		c.Next()
	}
}
