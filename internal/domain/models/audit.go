package models

import (
	"time"
)

// AuditAction enumerates what happened to an entity
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	// AuditActionAccess records a read, such as issuing a download URL.
	AuditActionAccess AuditAction = "ACCESS"
)

// AuditEntity enumerates the audited entity types
type AuditEntity string

const (
	AuditEntityFile         AuditEntity = "FILE"
	AuditEntityFolder       AuditEntity = "FOLDER"
	AuditEntityOrganization AuditEntity = "ORGANIZATION"
	AuditEntityMembership   AuditEntity = "MEMBERSHIP"
)

// AuditLogEntry is append-only; nothing in this service updates or deletes one.
type AuditLogEntry struct {
	ID         string      `json:"id" db:"id"`
	UserID     string      `json:"user_id" db:"user_id"`
	EntityType AuditEntity `json:"entity_type" db:"entity_type"`
	EntityID   string      `json:"entity_id" db:"entity_id"`
	Action     AuditAction `json:"action" db:"action"`
	Details    string      `json:"details" db:"details"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
