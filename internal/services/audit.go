package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"
	"github.com/go-authgate/idgate/internal/util"

	"github.com/google/uuid"
)

const (
	defaultAuditBufferSize = 1000
	auditBatchSize         = 100
	auditFlushInterval     = time.Second

	redacted = "***REDACTED***"
)

// AuditLogEntry represents the data needed to create an audit log entry
type AuditLogEntry struct {
	EventType     models.EventType
	Severity      models.EventSeverity
	ActorUserID   string
	ActorEmail    string
	ActorIP       string
	ResourceType  models.ResourceType
	ResourceID    string
	ResourceName  string
	Action        string
	Details       models.AuditDetails
	Success       bool
	ErrorMessage  string
	UserAgent     string
	RequestPath   string
	RequestMethod string
}

// AuditService records login, session and kit events. Log is asynchronous:
// entries are queued and written in batches by a single worker.
type AuditService struct {
	store   *store.Store
	enabled bool

	queue    chan *models.AuditLog
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewAuditService creates a new audit service. bufferSize bounds the queue;
// entries logged while it is full are dropped.
func NewAuditService(s *store.Store, enabled bool, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = defaultAuditBufferSize
	}

	service := &AuditService{
		store:   s,
		enabled: enabled,
		queue:   make(chan *models.AuditLog, bufferSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if !enabled {
		close(service.done)
		log.Println("[Audit] Service is disabled")
		return service
	}

	go service.run()
	log.Printf("[Audit] Service started with buffer size %d", bufferSize)
	return service
}

// run owns the pending batch; nothing else touches it.
func (s *AuditService) run() {
	defer close(s.done)

	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	batch := make([]*models.AuditLog, 0, auditBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.store.CreateAuditLogBatch(batch); err != nil {
			log.Printf("[Audit] Failed to write batch of %d entries: %v", len(batch), err)
		}
		batch = make([]*models.AuditLog, 0, auditBatchSize)
	}

	for {
		select {
		case entry := <-s.queue:
			batch = append(batch, entry)
			if len(batch) >= auditBatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-s.stop:
			// Entries queued before Shutdown are still written
			for {
				select {
				case entry := <-s.queue:
					batch = append(batch, entry)
					if len(batch) >= auditBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Log records an audit log entry asynchronously
func (s *AuditService) Log(ctx context.Context, entry AuditLogEntry) {
	if !s.enabled {
		return
	}

	select {
	case s.queue <- newAuditLog(ctx, entry):
	default:
		log.Printf("[Audit] Buffer full, dropping event %s: %s", entry.EventType, entry.Action)
	}
}

// LogSync records an audit log entry synchronously (for critical events)
func (s *AuditService) LogSync(ctx context.Context, entry AuditLogEntry) error {
	if !s.enabled {
		return nil
	}
	return s.store.CreateAuditLog(newAuditLog(ctx, entry))
}

// GetAuditLogs retrieves audit logs with pagination and filtering
func (s *AuditService) GetAuditLogs(
	params store.PaginationParams,
	filters store.AuditLogFilters,
) ([]models.AuditLog, store.PaginationResult, error) {
	return s.store.GetAuditLogsPaginated(params, filters)
}

// CleanupOldLogs deletes audit logs older than the retention period
func (s *AuditService) CleanupOldLogs(retention time.Duration) (int64, error) {
	return s.store.DeleteOldAuditLogs(time.Now().Add(-retention))
}

// Shutdown stops the worker after it has written every queued entry.
// It is safe to call more than once.
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	s.stopOnce.Do(func() { close(s.stop) })

	select {
	case <-s.done:
		log.Println("[Audit] Service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// newAuditLog fills actor and device fields missing from entry using the
// request context and masks sensitive details.
func newAuditLog(ctx context.Context, entry AuditLogEntry) *models.AuditLog {
	if entry.ActorIP == "" {
		entry.ActorIP = util.GetIPFromContext(ctx)
	}
	if entry.ActorEmail == "" {
		entry.ActorEmail = util.GetEmailFromContext(ctx)
	}
	if entry.ResourceType == models.ResourceDevice && entry.ResourceID == "" {
		entry.ResourceID = util.GetDeviceIDFromContext(ctx)
	}
	if entry.Severity == "" {
		entry.Severity = entry.EventType.DefaultSeverity()
	}

	now := time.Now()
	return &models.AuditLog{
		ID:            uuid.New().String(),
		EventType:     entry.EventType,
		EventTime:     now,
		Severity:      entry.Severity,
		ActorUserID:   entry.ActorUserID,
		ActorEmail:    entry.ActorEmail,
		ActorIP:       entry.ActorIP,
		ResourceType:  entry.ResourceType,
		ResourceID:    entry.ResourceID,
		ResourceName:  entry.ResourceName,
		Action:        entry.Action,
		Details:       maskSensitiveDetails(entry.Details),
		Success:       entry.Success,
		ErrorMessage:  entry.ErrorMessage,
		UserAgent:     entry.UserAgent,
		RequestPath:   entry.RequestPath,
		RequestMethod: entry.RequestMethod,
		CreatedAt:     now,
	}
}

// detailMasks maps a key fragment to how values under matching keys are
// stored. The first matching fragment wins.
var detailMasks = []struct {
	fragment string
	mask     func(any) any
}{
	{"password", redact},
	{"token", redact},
	{"secret", redact},
	{"api_key", redact},
	{"apikey", redact},
	{"session_id", shortenID},
	{"device_id", shortenID},
	{"email", maskEmail},
}

// maskSensitiveDetails masks sensitive information in audit log details
func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return nil
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		masked[key] = value
		lower := strings.ToLower(key)
		for _, m := range detailMasks {
			if strings.Contains(lower, m.fragment) {
				masked[key] = m.mask(value)
				break
			}
		}
	}
	return masked
}

func redact(any) any { return redacted }

// shortenID keeps the head and tail of long identifiers.
func shortenID(value any) any {
	if str, ok := value.(string); ok && len(str) > 12 {
		return str[:8] + "..." + str[len(str)-4:]
	}
	return value
}

// maskEmail keeps the first character of the local part and the domain.
// Login emails are stored verbatim, so values without an @ are hidden.
func maskEmail(value any) any {
	str, ok := value.(string)
	if !ok || str == "" {
		return value
	}
	at := strings.LastIndex(str, "@")
	if at < 1 {
		return redacted
	}
	return str[:1] + "***" + str[at:]
}
