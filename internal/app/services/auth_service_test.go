package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/app/models/dto"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/auth"
)

const testPassword = "correct-horse"

func newTestAuth(t *testing.T) (AuthService, *memoryDB, *auth.JWTService) {
	t.Helper()
	db := newMemoryDB()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "unimanage-test",
	})
	svc := NewAuthService(fakeProfiles{db: db}, fakeTokens{db: db}, jwtService, authz.NewAbilityFactory(), nil, zerolog.Nop())
	return svc, db, jwtService
}

func addProfileWithPassword(t *testing.T, db *memoryDB, role models.Role) *models.Profile {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	p := db.addProfile(role)
	p.Password = hash
	return p
}

func TestAuthService_SignIn(t *testing.T) {
	svc, db, jwtService := newTestAuth(t)
	p := addProfileWithPassword(t, db, models.RoleStudent)

	resp, err := svc.SignIn(context.Background(), &dto.SignInRequest{Email: "  " + strings.ToUpper(p.Email), Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(900), resp.Token.ExpiresIn)
	assert.Equal(t, int64(3600), resp.Token.RefreshTokenExpiresIn)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, p.ID, resp.Profile.ID)
	assert.Empty(t, resp.Profile.Password)

	claims, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.ProfileID)

	assert.Equal(t, 1, db.activeTokens(p.ID))
	for _, stored := range db.tokens {
		assert.Equal(t, auth.HashRefreshToken(resp.Token.RefreshToken), stored.TokenHash)
	}
}

func TestAuthService_SignInInvalidCredentials(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	p := addProfileWithPassword(t, db, models.RoleStudent)

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@uni.edu", testPassword},
		{"wrong password", p.Email, "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignIn(context.Background(), &dto.SignInRequest{Email: tt.email, Password: tt.pass})
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			assert.Equal(t, "Invalid credentials", apperrors.MessageOf(err))
		})
	}
	assert.Zero(t, db.writes["CreateToken"])
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	ctx := context.Background()
	p := addProfileWithPassword(t, db, models.RoleFaculty)

	signIn, err := svc.SignIn(ctx, &dto.SignInRequest{Email: p.Email, Password: testPassword})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, p.ID, signIn.Token.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, signIn.Token.RefreshToken, rotated.RefreshToken)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.Equal(t, 1, db.activeTokens(p.ID))
	assert.Len(t, db.tokens, 2)

	again, err := svc.Refresh(ctx, p.ID, rotated.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, again.RefreshToken)
}

func TestAuthService_RefreshReuseRevokesAll(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	ctx := context.Background()
	p := addProfileWithPassword(t, db, models.RoleStudent)

	signIn, err := svc.SignIn(ctx, &dto.SignInRequest{Email: p.Email, Password: testPassword})
	require.NoError(t, err)
	rotated, err := svc.Refresh(ctx, p.ID, signIn.Token.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, p.ID, signIn.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	assert.Zero(t, db.activeTokens(p.ID))

	_, err = svc.Refresh(ctx, p.ID, rotated.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	ctx := context.Background()
	p := addProfileWithPassword(t, db, models.RoleStudent)

	signIn, err := svc.SignIn(ctx, &dto.SignInRequest{Email: p.Email, Password: testPassword})
	require.NoError(t, err)
	for _, stored := range db.tokens {
		stored.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = svc.Refresh(ctx, p.ID, signIn.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.Equal(t, 1, db.activeTokens(p.ID))

	deleted, err := svc.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Empty(t, db.tokens)
}

func TestAuthService_RefreshInvalid(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	ctx := context.Background()
	p := addProfileWithPassword(t, db, models.RoleStudent)
	other := db.addProfile(models.RoleGuest)

	signIn, err := svc.SignIn(ctx, &dto.SignInRequest{Email: p.Email, Password: testPassword})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, p.ID, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.Refresh(ctx, other.ID, signIn.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	assert.Equal(t, 1, db.activeTokens(p.ID))
}

func TestAuthService_ValidateAccessClaims(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	ctx := context.Background()
	p := db.addProfile(models.RoleAdmin)

	profile, err := svc.ValidateAccessClaims(ctx, &auth.Claims{ProfileID: p.ID, Email: p.Email})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, models.RoleAdmin, profile.Role)

	missing, err := svc.ValidateAccessClaims(ctx, &auth.Claims{ProfileID: 4040, Email: "gone@uni.edu"})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuthService_ValidateAccessClaimsEmailChanged(t *testing.T) {
	svc, db, jwtService := newTestAuth(t)
	ctx := context.Background()
	p := db.addProfile(models.RoleStudent)

	pair, err := jwtService.GenerateTokenPair(p)
	require.NoError(t, err)
	claims, err := jwtService.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)

	db.profiles[p.ID].Email = "renamed@uni.edu"

	stale, err := svc.ValidateAccessClaims(ctx, claims)
	assert.NoError(t, err)
	assert.Nil(t, stale)
}

func TestAuthService_SignOut(t *testing.T) {
	svc, db, _ := newTestAuth(t)
	ctx := context.Background()
	student := addProfileWithPassword(t, db, models.RoleStudent)
	other := db.addProfile(models.RoleStudent)
	admin := db.addProfile(models.RoleAdmin)

	_, err := svc.SignIn(ctx, &dto.SignInRequest{Email: student.Email, Password: testPassword})
	require.NoError(t, err)

	err = svc.SignOut(ctx, nil, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	err = svc.SignOut(ctx, other, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, 1, db.activeTokens(student.ID))

	require.NoError(t, svc.SignOut(ctx, admin, student.ID))
	assert.Zero(t, db.activeTokens(student.ID))

	require.NoError(t, svc.SignOut(ctx, student, student.ID))
}
