package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wealth-tracker/models"
)

var ErrInvalidStatus = fmt.Errorf("invalid status")

// CreateConnection links a new institution session to userID.
func (s *Store) CreateConnection(ctx context.Context, userID uint, conn *models.AccountConnection) error {
	conn.UserID = userID
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(conn).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventInsert, conn, conn.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

func (s *Store) GetConnection(ctx context.Context, userID, connID uint) (*models.AccountConnection, error) {
	var conn models.AccountConnection
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", connID, userID).First(&conn).Error
	if err := translateError(err); err != nil {
		return nil, fmt.Errorf("get connection %d: %w", connID, err)
	}
	return &conn, nil
}

func (s *Store) ListUserConnections(ctx context.Context, userID uint) ([]models.AccountConnection, error) {
	var conns []models.AccountConnection
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&conns).Error; err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return conns, nil
}

// SetConnectionStatus is a system write made by the sync orchestrator.
func (s *Store) SetConnectionStatus(ctx context.Context, connID uint, status models.AccountConnectionStatus) error {
	switch status {
	case models.AccountConnectionStatusOK, models.AccountConnectionStatusError, models.AccountConnectionStatusDisconnected:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.updateConnection(ctx, connID, func(c *models.AccountConnection) { c.Status = status })
}

// SetSyncStatus records the orchestrator's state. Any transition is accepted.
func (s *Store) SetSyncStatus(ctx context.Context, connID uint, status models.SyncStatus) error {
	switch status {
	case models.SyncStatusIdle, models.SyncStatusPending, models.SyncStatusSyncing:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.updateConnection(ctx, connID, func(c *models.AccountConnection) { c.SyncStatus = status })
}

// SetAccountSyncStatus records the orchestrator's state for a single account
// of a connection, such as one being refreshed on its own.
func (s *Store) SetAccountSyncStatus(ctx context.Context, accountID uint, status models.SyncStatus) error {
	switch status {
	case models.SyncStatusIdle, models.SyncStatusPending, models.SyncStatusSyncing:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			return err
		}
		account.SyncStatus = status
		if err := tx.Save(&account).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventUpdate, &account, account.ID, nil)
	})
	if err != nil {
		return fmt.Errorf("update account %d sync status: %w", accountID, err)
	}
	return nil
}

func (s *Store) updateConnection(ctx context.Context, connID uint, mutate func(*models.AccountConnection)) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var conn models.AccountConnection
		if err := tx.First(&conn, connID).Error; err != nil {
			return err
		}
		mutate(&conn)
		if err := tx.Save(&conn).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventUpdate, &conn, conn.ID, nil)
	})
	if err != nil {
		return fmt.Errorf("update connection %d: %w", connID, err)
	}
	return nil
}

// DeleteConnection removes the connection and every account synced through
// it, along with all of their dependent rows.
func (s *Store) DeleteConnection(ctx context.Context, userID, connID uint) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var conn models.AccountConnection
		if err := tx.Where("id = ? AND user_id = ?", connID, userID).First(&conn).Error; err != nil {
			return err
		}
		if err := tx.Delete(&conn).Error; err != nil {
			return err
		}
		return recordAudit(tx, models.AuditEventDelete, &conn, conn.ID, &userID)
	})
	if err != nil {
		return fmt.Errorf("delete connection %d: %w", connID, err)
	}
	return nil
}
