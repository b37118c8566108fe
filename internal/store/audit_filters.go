package store

import (
	"time"

	"github.com/go-authgate/idgate/internal/models"

	"gorm.io/gorm"
)

// AuditLogFilters narrows an audit log listing. Zero fields match everything.
type AuditLogFilters struct {
	EventType    models.EventType     `json:"event_type,omitempty"`
	ActorUserID  string               `json:"actor_user_id,omitempty"`
	ResourceType models.ResourceType  `json:"resource_type,omitempty"`
	ResourceID   string               `json:"resource_id,omitempty"`
	Severity     models.EventSeverity `json:"severity,omitempty"`
	Success      *bool                `json:"success,omitempty"`
	StartTime    time.Time            `json:"start_time,omitzero"`
	EndTime      time.Time            `json:"end_time,omitzero"`
}

func (f AuditLogFilters) apply(query *gorm.DB) *gorm.DB {
	for column, value := range map[string]string{
		"event_type":    string(f.EventType),
		"actor_user_id": f.ActorUserID,
		"resource_type": string(f.ResourceType),
		"resource_id":   f.ResourceID,
		"severity":      string(f.Severity),
	} {
		if value != "" {
			query = query.Where(column+" = ?", value)
		}
	}
	if f.Success != nil {
		query = query.Where("success = ?", *f.Success)
	}
	if !f.StartTime.IsZero() {
		query = query.Where("event_time >= ?", f.StartTime)
	}
	if !f.EndTime.IsZero() {
		query = query.Where("event_time <= ?", f.EndTime)
	}
	return query
}
