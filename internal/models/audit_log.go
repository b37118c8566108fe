package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of audit event
type EventType string

const (
	// Identity events
	EventLoginSuccess      EventType = "LOGIN_SUCCESS"
	EventLoginFailure      EventType = "LOGIN_FAILURE"
	EventLogout            EventType = "LOGOUT"
	EventIdentify          EventType = "IDENTIFY"
	EventIdentityModified  EventType = "IDENTITY_MODIFIED"
	EventSessionResumed    EventType = "SESSION_RESUMED"
	EventSessionRevoked    EventType = "SESSION_REVOKED"
	EventUserRegistered    EventType = "USER_REGISTERED"
	EventPushRegistration  EventType = "PUSH_REGISTRATION"
	EventKitDeliveryFailed EventType = "KIT_DELIVERY_FAILED"

	// Security events
	EventRateLimitExceeded EventType = "RATE_LIMIT_EXCEEDED"
)

// EventSeverity represents the severity level of an audit event
type EventSeverity string

const (
	SeverityInfo     EventSeverity = "INFO"
	SeverityWarning  EventSeverity = "WARNING"
	SeverityError    EventSeverity = "ERROR"
	SeverityCritical EventSeverity = "CRITICAL"
)

// ResourceType represents the type of resource being operated on
type ResourceType string

const (
	ResourceUser    ResourceType = "USER"
	ResourceSession ResourceType = "SESSION"
	ResourceDevice  ResourceType = "DEVICE"
)

// DefaultSeverity is used for entries logged without an explicit severity.
func (e EventType) DefaultSeverity() EventSeverity {
	switch e {
	case EventLoginFailure, EventKitDeliveryFailed, EventRateLimitExceeded:
		return SeverityWarning
	case EventSessionRevoked:
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

// AuditDetails is stored as a JSON column; nil is NULL.
type AuditDetails map[string]any

func (a AuditDetails) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil //nolint:nilnil // SQL NULL
	}
	return json.Marshal(a)
}

// Scan accepts the []byte of postgres json columns and the string sqlite
// returns for the same column.
func (a *AuditDetails) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit details: unsupported column type %T", value)
	}

	details := AuditDetails{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return fmt.Errorf("audit details: %w", err)
	}
	*a = details
	return nil
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// Event information
	EventType EventType     `gorm:"type:varchar(50);index;not null" json:"event_type"`
	EventTime time.Time     `gorm:"index;not null"                  json:"event_time"`
	Severity  EventSeverity `gorm:"type:varchar(20);not null"       json:"severity"`

	// Actor information
	ActorUserID string `gorm:"type:varchar(36);index" json:"actor_user_id"`
	ActorEmail  string `gorm:"type:varchar(255)"      json:"actor_email"`
	ActorIP     string `gorm:"type:varchar(45);index" json:"actor_ip"` // Support IPv6

	// Resource information
	ResourceType ResourceType `gorm:"type:varchar(50);index" json:"resource_type"`
	ResourceID   string       `gorm:"type:varchar(64);index" json:"resource_id"`
	ResourceName string       `gorm:"type:varchar(255)"      json:"resource_name"`

	// Operation details
	Action       string       `gorm:"type:varchar(255);not null" json:"action"`
	Details      AuditDetails `gorm:"type:json"                  json:"details"`
	Success      bool         `gorm:"index;not null"             json:"success"`
	ErrorMessage string       `gorm:"type:text"                  json:"error_message,omitempty"`

	// Request metadata
	UserAgent     string `gorm:"type:varchar(500)" json:"user_agent,omitempty"`
	RequestPath   string `gorm:"type:varchar(500)" json:"request_path,omitempty"`
	RequestMethod string `gorm:"type:varchar(10)"  json:"request_method,omitempty"`

	// Timestamps (no UpdatedAt - immutable logs)
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}
