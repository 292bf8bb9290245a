package models

type Institution struct {
	Base
	Name         string  `gorm:"not null" json:"name"`
	URL          *string `gorm:"column:url" json:"url"`
	Logo         *string `json:"logo"`
	LogoURL      *string `gorm:"column:logo_url" json:"logoUrl"`
	PrimaryColor *string `json:"primaryColor"`
}

func (Institution) TableName() string { return "institutions" }

type Provider string

const (
	ProviderPlaid    Provider = "PLAID"
	ProviderFinicity Provider = "FINICITY"
)

// ProviderInstitution is one aggregator's view of an institution. Deleting
// the canonical Institution unlinks these rows instead of deleting them.
type ProviderInstitution struct {
	Base
	Provider      Provider     `gorm:"type:varchar(16);not null;uniqueIndex:idx_provider_institutions_provider_id,priority:1" json:"provider"`
	ProviderID    string       `gorm:"not null;uniqueIndex:idx_provider_institutions_provider_id,priority:2" json:"providerId"`
	InstitutionID *uint        `gorm:"index" json:"institutionId"`
	Institution   *Institution `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	Name         string  `gorm:"not null" json:"name"`
	URL          *string `gorm:"column:url" json:"url"`
	Logo         *string `json:"logo"`
	LogoURL      *string `gorm:"column:logo_url" json:"logoUrl"`
	PrimaryColor *string `json:"primaryColor"`
	OAuth        bool    `gorm:"column:oauth;not null;default:false" json:"oauth"`
	Rank         int     `gorm:"not null;default:0" json:"rank"`
}

func (ProviderInstitution) TableName() string { return "provider_institutions" }
