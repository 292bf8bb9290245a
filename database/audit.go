package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wealth-tracker/models"
)

// recordAudit appends an AuditEvent for row inside tx. actorID nil marks a
// system change.
func recordAudit(tx *gorm.DB, typ models.AuditEventType, row interface{}, id uint, actorID *uint) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	event := models.AuditEvent{
		Type:    typ,
		Model:   modelName(row),
		ModelID: id,
		UserID:  actorID,
		Payload: datatypes.JSON(payload),
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

func modelName(row interface{}) string {
	t := reflect.TypeOf(row)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// ListAuditEvents returns the events recorded for one row, oldest first.
func (s *Store) ListAuditEvents(ctx context.Context, model string, id uint) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := s.db.WithContext(ctx).
		Where("model = ? AND model_id = ?", model, id).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
