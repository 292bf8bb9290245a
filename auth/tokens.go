package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims identify the auth user by Subject. The application user is found
// by matching it against User.AuthID.
type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) ttl(kind TokenKind) time.Duration {
	if kind == TokenRefresh {
		return i.refreshTTL
	}
	return i.accessTTL
}

// Issue signs an HS256 token for authUserID. Every token carries a random id
// so that two tokens issued in the same second still differ.
func (i *TokenIssuer) Issue(authUserID string, kind TokenKind) (string, *Claims, error) {
	now := i.now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   authUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, claims, nil
}

// Parse validates signature, expiry and kind.
func (i *TokenIssuer) Parse(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
