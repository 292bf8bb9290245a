package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"wealth-tracker/derive"
)

// User is the application's own identity. It is linked to the auth tables
// only through AuthID, never by foreign key.
type User struct {
	Base
	AuthID    string     `gorm:"not null;uniqueIndex" json:"authId"`
	Email     string     `gorm:"not null;uniqueIndex" json:"email"`
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Name      *string    `json:"name"`
	DOB       *time.Time `gorm:"type:date" json:"dob"`
	Country   *string    `gorm:"size:2" json:"country"`
	State     *string    `json:"state"`

	StripeCustomerID       *string    `gorm:"uniqueIndex" json:"-"`
	StripeSubscriptionID   *string    `gorm:"uniqueIndex" json:"-"`
	StripePriceID          *string    `json:"-"`
	StripeCurrentPeriodEnd *time.Time `json:"stripeCurrentPeriodEnd"`
	StripeCancelAt         *time.Time `json:"stripeCancelAt"`
	TrialEnd               *time.Time `json:"trialEnd"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail gives email its case-insensitive comparison form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = derive.FullName(u.FirstName, u.LastName)
	return nil
}
