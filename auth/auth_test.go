package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wealth-tracker/database"
	"wealth-tracker/database/dbtest"
	"wealth-tracker/models"
)

type fixture struct {
	svc    *Service
	db     *gorm.DB
	mr     *miniredis.Miniredis
	issuer *TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, database.New(db).Migrate())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	return &fixture{svc: NewService(db, rdb, issuer), db: db, mr: mr, issuer: issuer}
}

func ptr[T any](v T) *T { return &v }

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrInvalidCredentials)
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	access, claims, err := issuer.Issue("auth-1", TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", claims.Subject)

	parsed, err := issuer.Parse(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)

	_, err = issuer.Parse(access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "kind is checked")

	other := NewTokenIssuer("other-secret", time.Minute, time.Hour)
	other.now = issuer.now
	_, err = other.Parse(access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "signature is checked")

	now = now.Add(2 * time.Minute)
	_, err = issuer.Parse(access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "expiry is checked")

	_, err = issuer.Parse("garbage", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignupLinksUserByAuthID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Signup(ctx, SignupInput{
		Email: "Grace@Example.com", Password: "hunter22", FirstName: ptr("Grace"), LastName: ptr("Hopper"),
	})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", user.Email)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Grace Hopper", *user.Name)

	var authUser models.AuthUser
	require.NoError(t, f.db.Where("email = ?", "grace@example.com").First(&authUser).Error)
	assert.Equal(t, authUser.ID, user.AuthID)
	require.NotNil(t, authUser.Password)
	assert.NotEqual(t, "hunter22", *authUser.Password)

	_, err = f.svc.Signup(ctx, SignupInput{Email: "GRACE@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.svc.Signup(ctx, SignupInput{Email: "ada@example.com", Password: "analytical"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@example.com", "analytical")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := f.svc.Login(ctx, "ADA@example.com", "analytical")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.SessionToken)

	var sessions int64
	require.NoError(t, f.db.Model(&models.AuthSession{}).Where("user_id = ?", user.AuthID).Count(&sessions).Error)
	assert.EqualValues(t, 1, sessions)

	resolved, err := f.svc.ResolveUser(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = f.svc.ResolveUser(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	rotated, err := f.svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "a rotated refresh token cannot be reused")

	require.NoError(t, f.svc.Logout(ctx, rotated.RefreshToken, tokens.SessionToken))
	_, err = f.svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	require.NoError(t, f.db.Model(&models.AuthSession{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}

func TestResolveUserWithoutApplicationUser(t *testing.T) {
	f := newFixture(t)
	access, _, err := f.issuer.Issue("orphan-auth-id", TokenAccess)
	require.NoError(t, err)

	_, err = f.svc.ResolveUser(context.Background(), access)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerificationToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, SignupInput{Email: "verify@example.com", Password: "password1"})
	require.NoError(t, err)

	token, err := f.svc.CreateVerificationToken(ctx, "Verify@example.com", time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.UseVerificationToken(ctx, "verify@example.com", "nope"), ErrInvalidToken)
	require.NoError(t, f.svc.UseVerificationToken(ctx, "verify@example.com", token))
	assert.ErrorIs(t, f.svc.UseVerificationToken(ctx, "verify@example.com", token), ErrInvalidToken, "single use")

	var authUser models.AuthUser
	require.NoError(t, f.db.Where("email = ?", "verify@example.com").First(&authUser).Error)
	assert.NotNil(t, authUser.EmailVerified)

	expired, err := f.svc.CreateVerificationToken(ctx, "verify@example.com", -time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.UseVerificationToken(ctx, "verify@example.com", expired), ErrInvalidToken)
	var remaining int64
	require.NoError(t, f.db.Model(&models.AuthVerificationToken{}).Count(&remaining).Error)
	assert.Zero(t, remaining, "expired tokens are consumed too")
}
