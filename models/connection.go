package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wealth-tracker/derive"
)

type AccountConnectionType string

const (
	AccountConnectionTypePlaid    AccountConnectionType = "plaid"
	AccountConnectionTypeFinicity AccountConnectionType = "finicity"
)

type AccountConnectionStatus string

const (
	AccountConnectionStatusOK           AccountConnectionStatus = "OK"
	AccountConnectionStatusError        AccountConnectionStatus = "ERROR"
	AccountConnectionStatusDisconnected AccountConnectionStatus = "DISCONNECTED"
)

// SyncStatus is recorded for the sync orchestrator; transitions are not
// validated here.
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "IDLE"
	SyncStatusPending SyncStatus = "PENDING"
	SyncStatusSyncing SyncStatus = "SYNCING"
)

// AccountConnection is one linked institution session. Only the fields of
// the provider named by Type may be set.
type AccountConnection struct {
	Base
	UserID uint  `gorm:"not null;index" json:"userId"`
	User   *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name          string                  `gorm:"not null" json:"name"`
	Type          AccountConnectionType   `gorm:"type:varchar(16);not null" json:"type"`
	Status        AccountConnectionStatus `gorm:"type:varchar(16);not null;default:OK" json:"status"`
	SyncStatus    SyncStatus              `gorm:"type:varchar(16);not null;default:IDLE" json:"syncStatus"`
	InstitutionID *string                 `json:"institutionId"`
	LastSyncedAt  *time.Time              `json:"lastSyncedAt"`

	PlaidItemID               *string        `gorm:"uniqueIndex" json:"-"`
	PlaidInstitutionID        *string        `json:"-"`
	PlaidAccessToken          *string        `json:"-"`
	PlaidConsentExpiration    *time.Time     `json:"plaidConsentExpiration"`
	PlaidNewAccountsAvailable bool           `gorm:"not null;default:false" json:"plaidNewAccountsAvailable"`
	PlaidError                datatypes.JSON `json:"plaidError"`

	FinicityInstitutionLoginID *string        `gorm:"uniqueIndex" json:"-"`
	FinicityInstitutionID      *string        `json:"-"`
	FinicityError              datatypes.JSON `json:"finicityError"`
}

func (AccountConnection) TableName() string { return "account_connections" }

func (c *AccountConnection) BeforeSave(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = AccountConnectionStatusOK
	}
	if c.SyncStatus == "" {
		c.SyncStatus = SyncStatusIdle
	}
	if err := c.checkProviderFields(); err != nil {
		log := hookLogger(tx)
		log.Error().Err(err).Uint("connection_id", c.ID).Str("type", string(c.Type)).Msg("rejecting connection write")
		return err
	}
	return nil
}

func (c *AccountConnection) plaidFieldsSet() bool {
	return c.PlaidItemID != nil || c.PlaidInstitutionID != nil || c.PlaidAccessToken != nil ||
		c.PlaidConsentExpiration != nil || c.PlaidNewAccountsAvailable || !derive.IsNullJSON(c.PlaidError)
}

func (c *AccountConnection) finicityFieldsSet() bool {
	return c.FinicityInstitutionLoginID != nil || c.FinicityInstitutionID != nil || !derive.IsNullJSON(c.FinicityError)
}

func (c *AccountConnection) checkProviderFields() error {
	switch c.Type {
	case AccountConnectionTypePlaid:
		if c.finicityFieldsSet() {
			return ErrProviderFields
		}
	case AccountConnectionTypeFinicity:
		if c.plaidFieldsSet() {
			return ErrProviderFields
		}
	default:
		return fmt.Errorf("unknown connection type %q", c.Type)
	}
	return nil
}
