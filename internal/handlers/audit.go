package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	// queryValueTrue represents the string "true" used in query parameters
	queryValueTrue = "true"

	auditExportLimit = 10000
)

// AuditHandler exposes the audit trail to operators
type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func parseAuditFilters(c *gin.Context) store.AuditLogFilters {
	filters := store.AuditLogFilters{
		EventType:    models.EventType(c.Query("event_type")),
		ActorUserID:  c.Query("actor_user_id"),
		ResourceType: models.ResourceType(c.Query("resource_type")),
		ResourceID:   c.Query("resource_id"),
		Severity:     models.EventSeverity(c.Query("severity")),
	}

	if successStr := c.Query("success"); successStr != "" {
		success := successStr == queryValueTrue
		filters.Success = &success
	}
	if t, err := time.Parse(time.RFC3339, c.Query("start_time")); err == nil {
		filters.StartTime = t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("end_time")); err == nil {
		filters.EndTime = t
	}
	return filters
}

// ListAuditLogs godoc
//
//	@Summary		List audit logs
//	@Description	Paginated audit trail of identity and kit events
//	@Tags			Audit
//	@Produce		json
//	@Security		MetricsToken
//	@Param			page			query		int		false	"Page number"	default(1)
//	@Param			page_size		query		int		false	"Page size"		default(20)
//	@Param			event_type		query		string	false	"Event type, e.g. LOGIN_FAILURE"
//	@Param			actor_user_id	query		string	false	"Actor user ID"
//	@Param			success			query		bool	false	"Only successful or failed events"
//	@Success		200				{object}	object{logs=[]models.AuditLog,pagination=store.PaginationResult}
//	@Failure		401				{object}	object{error=string,message=string}
//	@Failure		500				{object}	object{error=string}
//	@Router			/api/v1/audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := store.NewPaginationParams(page, pageSize, c.Query("search"))

	logs, pagination, err := h.auditService.GetAuditLogs(params, parseAuditFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": pagination,
	})
}

// ExportAuditLogs godoc
//
//	@Summary		Export audit logs
//	@Description	Audit trail as CSV, newest first, up to 10000 rows
//	@Tags			Audit
//	@Produce		text/csv
//	@Security		MetricsToken
//	@Success		200	{string}	string	"CSV file"
//	@Failure		500	{object}	object{error=string}
//	@Router			/api/v1/audit/export [get]
func (h *AuditHandler) ExportAuditLogs(c *gin.Context) {
	params := store.PaginationParams{Page: 1, PageSize: auditExportLimit}

	logs, _, err := h.auditService.GetAuditLogs(params, parseAuditFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(
		"attachment; filename=audit_logs_%s.csv",
		time.Now().Format("2006-01-02"),
	))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Event Time",
		"Event Type",
		"Severity",
		"Actor Email",
		"Actor IP",
		"Resource Type",
		"Resource ID",
		"Action",
		"Success",
		"Error Message",
	}); err != nil {
		return
	}

	for _, entry := range logs {
		if err := writer.Write([]string{
			entry.EventTime.Format(time.RFC3339),
			string(entry.EventType),
			string(entry.Severity),
			entry.ActorEmail,
			entry.ActorIP,
			string(entry.ResourceType),
			entry.ResourceID,
			entry.Action,
			strconv.FormatBool(entry.Success),
			entry.ErrorMessage,
		}); err != nil {
			return
		}
	}
}
