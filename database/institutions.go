package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth-tracker/models"
)

func (s *Store) CreateInstitution(ctx context.Context, inst *models.Institution) error {
	if err := translateError(s.db.WithContext(ctx).Create(inst).Error); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// CreateProviderInstitution inserts one provider's institution record; a
// second row for the same (provider, providerId) fails with ErrDuplicate.
func (s *Store) CreateProviderInstitution(ctx context.Context, pi *models.ProviderInstitution) error {
	if err := translateError(s.db.WithContext(ctx).Create(pi).Error); err != nil {
		return fmt.Errorf("create provider institution: %w", err)
	}
	return nil
}

// UpsertProviderInstitutions refreshes the provider's institution directory.
// The link to a canonical institution is never touched here.
func (s *Store) UpsertProviderInstitutions(ctx context.Context, rows []models.ProviderInstitution) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].Institution = nil
	}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider"}, {Name: "provider_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "url", "logo", "logo_url", "primary_color", "oauth", "rank", "updated_at",
			}),
		}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("upsert provider institutions: %w", err)
	}
	return nil
}

func (s *Store) GetProviderInstitution(ctx context.Context, provider models.Provider, providerID string) (*models.ProviderInstitution, error) {
	var pi models.ProviderInstitution
	err := s.db.WithContext(ctx).Where("provider = ? AND provider_id = ?", provider, providerID).First(&pi).Error
	if err := translateError(err); err != nil {
		return nil, fmt.Errorf("get provider institution %s/%s: %w", provider, providerID, err)
	}
	return &pi, nil
}

// LinkProviderInstitution points a provider row at a canonical institution.
func (s *Store) LinkProviderInstitution(ctx context.Context, providerInstitutionID, institutionID uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.ProviderInstitution{}).
			Where("id = ?", providerInstitutionID).
			Update("institution_id", institutionID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("link provider institution %d: %w", providerInstitutionID, err)
	}
	return nil
}

// DeleteInstitution removes the canonical institution; linked provider rows
// stay behind with a null institution.
func (s *Store) DeleteInstitution(ctx context.Context, id uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&models.Institution{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete institution %d: %w", id, err)
	}
	return nil
}
