package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"
	"github.com/go-authgate/idgate/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveDetails(t *testing.T) {
	masked := maskSensitiveDetails(models.AuditDetails{
		"session_token": "abc",
		"API_KEY":       "key",
		"device_id":     "0123456789abcdef",
		"session_id":    "short",
		"provider":      "local",
		"new_email":     "user@example.com",
		"email":         "not-an-email",
	})

	assert.Equal(t, "***REDACTED***", masked["session_token"])
	assert.Equal(t, "***REDACTED***", masked["API_KEY"])
	assert.Equal(t, "01234567...cdef", masked["device_id"])
	assert.Equal(t, "short", masked["session_id"])
	assert.Equal(t, "local", masked["provider"])
	assert.Equal(t, "u***@example.com", masked["new_email"])
	assert.Equal(t, "***REDACTED***", masked["email"])

	assert.Nil(t, maskSensitiveDetails(nil))
}

func TestNewAuditLog_FillsActorFromContext(t *testing.T) {
	ctx := util.SetIPContext(context.Background(), "203.0.113.9")
	entry := newAuditLog(ctx, AuditLogEntry{
		EventType: models.EventLoginSuccess,
		Severity:  models.SeverityInfo,
		Action:    "Login succeeded",
		Success:   true,
	})

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "203.0.113.9", entry.ActorIP)
	assert.Empty(t, entry.ActorEmail)
	assert.False(t, entry.EventTime.IsZero())

	device := newAuditLog(
		util.SetDeviceIDContext(ctx, "device-42"),
		AuditLogEntry{ResourceType: models.ResourceDevice},
	)
	assert.Equal(t, "device-42", device.ResourceID)

	explicit := newAuditLog(ctx, AuditLogEntry{ActorIP: "198.51.100.1", ActorEmail: "a@example.com"})
	assert.Equal(t, "198.51.100.1", explicit.ActorIP)
	assert.Equal(t, "a@example.com", explicit.ActorEmail)

	failed := newAuditLog(ctx, AuditLogEntry{EventType: models.EventLoginFailure})
	assert.Equal(t, models.SeverityWarning, failed.Severity)
}

func TestAuditService_Disabled(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, false, 0)

	svc.Log(context.Background(), AuditLogEntry{EventType: models.EventLogout, Action: "Logged out"})
	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{EventType: models.EventLogout}))
	require.NoError(t, svc.Shutdown(context.Background()))

	logs, _, err := svc.GetAuditLogs(store.NewPaginationParams(1, 10, ""), store.AuditLogFilters{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditService_FlushesOnShutdown(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, true, 10)

	for range 3 {
		svc.Log(context.Background(), AuditLogEntry{
			EventType:  models.EventLoginFailure,
			Severity:   models.SeverityWarning,
			ActorEmail: "nobody@example.com",
			Action:     "Login failed",
			Details:    models.AuditDetails{"password": "hunter2"},
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))
	require.NoError(t, svc.Shutdown(ctx), "second shutdown is a no-op")

	logs, page, err := svc.GetAuditLogs(
		store.NewPaginationParams(1, 10, ""),
		store.AuditLogFilters{EventType: models.EventLoginFailure},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, logs, 3)
	assert.Equal(t, "***REDACTED***", logs[0].Details["password"])
}

func TestAuditService_LogSyncAndCleanup(t *testing.T) {
	db := setupTestStore(t)
	svc := NewAuditService(db, true, 10)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{
		EventType: models.EventSessionRevoked,
		Severity:  models.SeverityInfo,
		Action:    "Session revoked",
		Success:   true,
	}))

	deleted, err := svc.CleanupOldLogs(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted, "fresh entries are kept")

	deleted, err = svc.CleanupOldLogs(-time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
