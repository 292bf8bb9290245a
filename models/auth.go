package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The auth tables belong to the auth collaborator. AuthUser.ID is matched to
// User.AuthID by value; there is no foreign key between the two.

type AuthUser struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          *string    `json:"name"`
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	Email         string     `gorm:"not null;uniqueIndex" json:"email"`
	EmailVerified *time.Time `json:"emailVerified"`
	Image         *string    `json:"image"`
	Password      *string    `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (AuthUser) TableName() string { return "auth_users" }

func (u *AuthUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *AuthUser) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

type AuthAccount struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	User              *AuthUser `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type              string    `gorm:"not null" json:"type"`
	Provider          string    `gorm:"not null;uniqueIndex:idx_auth_accounts_provider_account,priority:1" json:"provider"`
	ProviderAccountID string    `gorm:"not null;uniqueIndex:idx_auth_accounts_provider_account,priority:2" json:"providerAccountId"`
	RefreshToken      *string   `json:"-"`
	AccessToken       *string   `json:"-"`
	ExpiresAt         *int64    `json:"expiresAt"`
	TokenType         *string   `json:"tokenType"`
	Scope             *string   `json:"scope"`
	IDToken           *string   `json:"-"`
	SessionState      *string   `json:"-"`
}

func (AuthAccount) TableName() string { return "auth_accounts" }

func (a *AuthAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type AuthSession struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionToken string    `gorm:"not null;uniqueIndex" json:"-"`
	UserID       string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	User         *AuthUser `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Expires      time.Time `gorm:"not null" json:"expires"`
}

func (AuthSession) TableName() string { return "auth_sessions" }

func (s *AuthSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type AuthVerificationToken struct {
	Identifier string    `gorm:"not null;uniqueIndex:idx_auth_verification_tokens_identifier_token,priority:1" json:"identifier"`
	Token      string    `gorm:"primaryKey;uniqueIndex:idx_auth_verification_tokens_identifier_token,priority:2" json:"-"`
	Expires    time.Time `gorm:"not null" json:"expires"`
}

func (AuthVerificationToken) TableName() string { return "auth_verification_tokens" }
