package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wealth-tracker/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := translateError(s.db.WithContext(ctx).Create(user).Error); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := translateError(s.db.WithContext(ctx).First(&user, id).Error); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByAuthID joins the application user to the auth collaborator's
// identifier.
func (s *Store) GetUserByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("auth_id = ?", authID).First(&user).Error
	if err := translateError(err); err != nil {
		return nil, fmt.Errorf("get user by auth id: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the user; connections, accounts, plans and everything
// beneath them go with it.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
