package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditEventType string

const (
	AuditEventInsert AuditEventType = "insert"
	AuditEventUpdate AuditEventType = "update"
	AuditEventDelete AuditEventType = "delete"
)

// AuditEvent is an append-only record of a write to a tracked model. UserID
// is the acting user; nil means a system change. It carries no foreign key so
// events outlive the rows they describe.
type AuditEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	Type      AuditEventType `gorm:"type:varchar(16);not null" json:"type"`
	Model     string         `gorm:"not null;index:idx_audit_events_model,priority:1" json:"model"`
	ModelID   uint           `gorm:"not null;index:idx_audit_events_model,priority:2" json:"modelId"`
	UserID    *uint          `gorm:"index" json:"userId"`
	Payload   datatypes.JSON `json:"payload"`
}

func (AuditEvent) TableName() string { return "audit_events" }

func (e *AuditEvent) BeforeUpdate(tx *gorm.DB) error { return ErrAuditEventReadOnly }

func (e *AuditEvent) BeforeDelete(tx *gorm.DB) error { return ErrAuditEventReadOnly }
