package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/auth"
	"github.com/yigit/unimanage/internal/pkg/metrics"
)

// AuthService defines sign-in, sign-out, token rotation and access token resolution
type AuthService interface {
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error)
	SignOut(ctx context.Context, requester *models.Profile, profileID int64) error
	Refresh(ctx context.Context, profileID int64, refreshToken string) (*dto.TokenResponse, error)
	ValidateAccessClaims(ctx context.Context, claims *auth.Claims) (*models.Profile, error)
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type authServiceImpl struct {
	profiles   ProfileStore
	tokens     TokenStore
	jwtService *auth.JWTService
	abilities  *authz.AbilityFactory
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService. m may be nil.
func NewAuthService(
	profiles ProfileStore,
	tokens TokenStore,
	jwtService *auth.JWTService,
	abilities *authz.AbilityFactory,
	m *metrics.Metrics,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		profiles:   profiles,
		tokens:     tokens,
		jwtService: jwtService,
		abilities:  abilities,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

func invalidCredentials() error {
	return apperrors.NewAuthenticationError(apperrors.ErrInvalidCredentials, "Invalid credentials")
}

// SignIn checks the credentials and issues a new token pair
func (s *authServiceImpl) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	profile, err := s.profiles.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.metrics.ObserveSignIn(metrics.OutcomeFailure)
			return nil, invalidCredentials()
		}
		return nil, storeError(s.logger, err, "failed to load credentials")
	}

	if !auth.CheckPassword(profile.Password, req.Password) {
		s.logger.Warn().Int64("profileID", profile.ID).Msg("Sign in with wrong password")
		s.metrics.ObserveSignIn(metrics.OutcomeFailure)
		return nil, invalidCredentials()
	}
	profile.Password = ""

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSignIn(metrics.OutcomeSuccess)
	s.logger.Info().Int64("profileID", profile.ID).Msg("Profile signed in")
	return &dto.AuthResponse{Token: *tokens, Profile: profile}, nil
}

// SignOut revokes every active refresh token of profileID. Only the owner or
// a profile manager may do this.
func (s *authServiceImpl) SignOut(ctx context.Context, requester *models.Profile, profileID int64) error {
	if requester == nil {
		return apperrors.NewAuthenticationError(apperrors.ErrUnauthenticated, "Authentication required")
	}
	if requester.ID != profileID {
		if err := authz.RequireAbility(s.abilities.CreateForUser(requester), authz.ActionManage, authz.SubjectProfile); err != nil {
			return err
		}
	}

	revoked, err := s.tokens.RevokeAllProfileTokens(ctx, profileID)
	if err != nil {
		return storeError(s.logger, err, "failed to revoke tokens of profile with id %d", profileID)
	}

	s.logger.Info().Int64("profileID", profileID).Int64("revoked", revoked).Msg("Profile signed out")
	return nil
}

// Refresh rotates a refresh token. The presented token is revoked and a new
// pair is issued. Presenting a token that was already revoked revokes every
// token of the profile.
func (s *authServiceImpl) Refresh(ctx context.Context, profileID int64, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetByHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			s.metrics.ObserveRefresh(metrics.OutcomeFailure)
			return nil, apperrors.NewAuthenticationError(apperrors.ErrTokenInvalid, "Invalid refresh token")
		}
		return nil, storeError(s.logger, err, "failed to load refresh token")
	}

	if stored.ProfileID != profileID {
		s.logger.Warn().Int64("profileID", profileID).Int64("tokenProfileID", stored.ProfileID).Msg("Refresh token presented for another profile")
		s.metrics.ObserveRefresh(metrics.OutcomeFailure)
		return nil, apperrors.NewAuthenticationError(apperrors.ErrTokenInvalid, "Invalid refresh token")
	}

	if stored.Revoked {
		return nil, s.reuseDetected(ctx, profileID)
	}

	if stored.Expired(s.now()) {
		s.metrics.ObserveRefresh(metrics.OutcomeFailure)
		return nil, apperrors.NewAuthenticationError(apperrors.ErrTokenExpired, "Refresh token expired")
	}

	if err := s.tokens.RevokeToken(ctx, stored.ID); err != nil {
		if errors.Is(err, apperrors.ErrTokenRevoked) {
			// lost a race with another rotation of the same token
			return nil, s.reuseDetected(ctx, profileID)
		}
		return nil, storeError(s.logger, err, "failed to revoke refresh token")
	}

	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.metrics.ObserveRefresh(metrics.OutcomeFailure)
			return nil, apperrors.NewAuthenticationError(apperrors.ErrTokenInvalid, "Invalid refresh token")
		}
		return nil, storeError(s.logger, err, "failed to load profile with id %d", profileID)
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveRefresh(metrics.OutcomeSuccess)
	return tokens, nil
}

func (s *authServiceImpl) reuseDetected(ctx context.Context, profileID int64) error {
	revoked, err := s.tokens.RevokeAllProfileTokens(ctx, profileID)
	if err != nil {
		return storeError(s.logger, err, "failed to revoke tokens of profile with id %d", profileID)
	}

	s.logger.Warn().Int64("profileID", profileID).Int64("revoked", revoked).Msg("Refresh token reuse detected, all tokens revoked")
	s.metrics.ObserveRefresh(metrics.OutcomeReuse)
	return apperrors.NewAuthenticationError(apperrors.ErrTokenRevoked, "Refresh token has been revoked")
}

// ValidateAccessClaims resolves the profile an access token was issued for.
// It returns nil, nil when the profile no longer exists or its email changed
// after the token was issued.
func (s *authServiceImpl) ValidateAccessClaims(ctx context.Context, claims *auth.Claims) (*models.Profile, error) {
	if claims == nil {
		return nil, nil
	}

	profile, err := s.profiles.GetByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, storeError(s.logger, err, "failed to load profile with id %d", claims.ProfileID)
	}
	if !strings.EqualFold(profile.Email, claims.Email) {
		s.logger.Debug().Int64("profileID", profile.ID).Msg("Access token email no longer matches profile")
		return nil, nil
	}
	return profile, nil
}

// CleanupExpiredTokens deletes refresh tokens past their expiry
func (s *authServiceImpl) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.CleanupExpiredTokens(ctx)
	if err != nil {
		return 0, storeError(s.logger, err, "failed to clean up expired tokens")
	}
	return deleted, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, profile *models.Profile) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(profile)
	if err != nil {
		s.logger.Error().Err(err).Int64("profileID", profile.ID).Msg("Failed to generate tokens")
		return nil, apperrors.NewStorageError("failed to generate tokens", err)
	}

	if err := s.tokens.CreateToken(ctx, auth.HashRefreshToken(pair.RefreshToken), profile.ID, pair.RefreshExpiresAt); err != nil {
		return nil, storeError(s.logger, err, "failed to store refresh token for profile with id %d", profile.ID)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.AccessExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}, nil
}
