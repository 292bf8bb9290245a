// Package auth owns the auth collaborator's tables. It creates the
// application User alongside the AuthUser at signup and afterwards joins
// the two only through User.AuthID.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"wealth-tracker/derive"
	"wealth-tracker/logger"
	"wealth-tracker/models"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrEmailTaken         = fmt.Errorf("email already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
)

type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SignupInput struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type Service struct {
	db     *gorm.DB
	rdb    *redis.Client
	tokens *TokenIssuer
}

func NewService(db *gorm.DB, rdb *redis.Client, tokens *TokenIssuer) *Service {
	return &Service{db: db, rdb: rdb, tokens: tokens}
}

func refreshKey(tokenID string) string {
	return "refresh_token:" + tokenID
}

// Signup creates the AuthUser and the application User in one transaction.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := models.NormalizeEmail(in.Email)

	var existing models.AuthUser
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	authUser := models.AuthUser{
		Email:     email,
		Password:  &hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Name:      derive.FullName(in.FirstName, in.LastName),
	}
	user := models.User{
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&authUser).Error; err != nil {
			return err
		}
		user.AuthID = authUser.ID
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().Uint("user_id", user.ID).Str("auth_id", authUser.ID).Msg("user signed up")
	return &user, nil
}

// Login checks the password, opens a session row and issues an access and
// refresh token pair. The refresh token is tracked in redis until it expires
// or is rotated.
func (s *Service) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var authUser models.AuthUser
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&authUser).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if authUser.Password == nil {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(*authUser.Password, password); err != nil {
		return nil, err
	}

	tokens, err := s.issue(ctx, authUser.ID)
	if err != nil {
		return nil, err
	}

	session := models.AuthSession{
		SessionToken: uuid.NewString(),
		UserID:       authUser.ID,
		Expires:      tokens.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}
	tokens.SessionToken = session.SessionToken
	return tokens, nil
}

func (s *Service) issue(ctx context.Context, authUserID string) (*Tokens, error) {
	access, _, err := s.tokens.Issue(authUserID, TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := s.tokens.Issue(authUserID, TokenRefresh)
	if err != nil {
		return nil, err
	}

	expires := claims.ExpiresAt.Time
	ttl := time.Until(expires)
	if err := s.rdb.Set(ctx, refreshKey(claims.ID), authUserID, ttl).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: expires}, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := s.tokens.Parse(refreshToken, TokenRefresh)
	if err != nil {
		return nil, err
	}

	owner, err := s.rdb.GetDel(ctx, refreshKey(claims.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if owner != claims.Subject {
		return nil, ErrInvalidToken
	}
	return s.issue(ctx, claims.Subject)
}

// Logout revokes the refresh token and drops the session.
func (s *Service) Logout(ctx context.Context, refreshToken, sessionToken string) error {
	claims, err := s.tokens.Parse(refreshToken, TokenRefresh)
	if err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, refreshKey(claims.ID)).Err(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if sessionToken != "" {
		err := s.db.WithContext(ctx).
			Where("session_token = ? AND user_id = ?", sessionToken, claims.Subject).
			Delete(&models.AuthSession{}).Error
		if err != nil {
			return fmt.Errorf("logout: delete session: %w", err)
		}
	}
	return nil
}

// ResolveUser returns the application user behind an access token.
func (s *Service) ResolveUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken, TokenAccess)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("auth_id = ?", claims.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return &user, nil
}

// CreateVerificationToken issues a single-use token for identifier, usually
// an email address.
func (s *Service) CreateVerificationToken(ctx context.Context, identifier string, ttl time.Duration) (string, error) {
	vt := models.AuthVerificationToken{
		Identifier: models.NormalizeEmail(identifier),
		Token:      uuid.NewString(),
		Expires:    time.Now().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&vt).Error; err != nil {
		return "", fmt.Errorf("create verification token: %w", err)
	}
	return vt.Token, nil
}

// UseVerificationToken consumes the token and marks the matching auth
// user's email as verified.
func (s *Service) UseVerificationToken(ctx context.Context, identifier, token string) error {
	identifier = models.NormalizeEmail(identifier)

	var expired bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vt models.AuthVerificationToken
		err := tx.Where("identifier = ? AND token = ?", identifier, token).First(&vt).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if err := tx.Where("identifier = ? AND token = ?", identifier, token).Delete(&models.AuthVerificationToken{}).Error; err != nil {
			return err
		}
		// an expired token is still consumed
		if time.Now().After(vt.Expires) {
			expired = true
			return nil
		}
		return tx.Model(&models.AuthUser{}).
			Where("email = ?", identifier).
			UpdateColumn("email_verified", time.Now().UTC()).Error
	})
	if err != nil {
		return err
	}
	if expired {
		return ErrInvalidToken
	}
	return nil
}
