package services

import (
	"context"
	"errors"
	"log"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/models"
)

// Screen name and events reported by the main screen
const (
	DashboardScreen = "DashboardActivity"
	TestEventName   = "mp_test"
)

// SamplePurchase is the purchase logged from the main screen.
func SamplePurchase() kit.CommerceEvent {
	return kit.NewPurchase(
		kit.TransactionAttributes{ID: "foo-transaction-id", Revenue: 430.00, Tax: 30.00},
		kit.Product{Name: "Double Room - Econ Rate", SKU: "econ-1", Price: 100.00, Quantity: 4},
	)
}

// EventKit is an integration that receives forwarded events. *kit.Kit
// implements it.
type EventKit interface {
	Name() string
	LogScreen(ctx context.Context, user identity.User, screenName string, attrs map[string]string) error
	LogEvent(ctx context.Context, user identity.User, event kit.Event) error
	LogCommerceEvent(ctx context.Context, user identity.User, event kit.CommerceEvent) error
	OnSetUserAttribute(ctx context.Context, user identity.User, key string, value any) error
	WillHandlePushMessage(payload map[string]string) bool
	OnPushMessageReceived(ctx context.Context, user identity.User, payload map[string]string) error
	OnPushRegistration(ctx context.Context, user identity.User, token string) bool
	Shutdown(ctx context.Context) error
}

// EventService fans events out to every registered kit. Kit failures are
// logged and audited but never returned to the caller.
type EventService struct {
	kits  []EventKit
	audit *AuditService
}

func NewEventService(audit *AuditService, kits ...EventKit) *EventService {
	return &EventService{kits: kits, audit: audit}
}

// Kits returns the names of the registered kits.
func (s *EventService) Kits() []string {
	names := make([]string, 0, len(s.kits))
	for _, k := range s.kits {
		names = append(names, k.Name())
	}
	return names
}

func (s *EventService) each(ctx context.Context, user identity.User, action string, fn func(EventKit) error) {
	for _, k := range s.kits {
		if err := fn(k); err != nil {
			log.Printf("[Kit] %s failed for kit=%s: %v", action, k.Name(), err)
			s.audit.Log(ctx, AuditLogEntry{
				EventType:    models.EventKitDeliveryFailed,
				Severity:     models.SeverityWarning,
				ActorUserID:  user.ID,
				ResourceType: models.ResourceDevice,
				ResourceID:   user.DeviceID,
				Action:       action + " failed",
				Details:      models.AuditDetails{"kit": k.Name()},
				Success:      false,
				ErrorMessage: err.Error(),
			})
		}
	}
}

// LogScreen reports that user viewed screenName.
func (s *EventService) LogScreen(
	ctx context.Context,
	user identity.User,
	screenName string,
	attrs map[string]string,
) {
	s.each(ctx, user, "Log screen", func(k EventKit) error {
		return k.LogScreen(ctx, user, screenName, attrs)
	})
}

// LogEvent forwards a custom or screen event.
func (s *EventService) LogEvent(ctx context.Context, user identity.User, event kit.Event) {
	if event.Type == kit.EventTypeScreen {
		s.LogScreen(ctx, user, event.Name, event.Attributes)
		return
	}
	s.each(ctx, user, "Log event", func(k EventKit) error {
		return k.LogEvent(ctx, user, event)
	})
}

func (s *EventService) LogCommerceEvent(ctx context.Context, user identity.User, event kit.CommerceEvent) {
	s.each(ctx, user, "Log commerce event", func(k EventKit) error {
		return k.LogCommerceEvent(ctx, user, event)
	})
}

// SetUserAttribute forwards one user attribute change.
func (s *EventService) SetUserAttribute(ctx context.Context, user identity.User, key string, value any) {
	s.each(ctx, user, "Set user attribute", func(k EventKit) error {
		return k.OnSetUserAttribute(ctx, user, key, value)
	})
}

// HandlePushMessage delivers payload to the kits that claim it and reports
// whether any did.
func (s *EventService) HandlePushMessage(
	ctx context.Context,
	user identity.User,
	payload map[string]string,
) bool {
	handled := false
	s.each(ctx, user, "Push message", func(k EventKit) error {
		if !k.WillHandlePushMessage(payload) {
			return nil
		}
		handled = true
		return k.OnPushMessageReceived(ctx, user, payload)
	})
	return handled
}

// RegisterPush notifies the kits of a new push token. It reports whether any
// kit took over the registration.
func (s *EventService) RegisterPush(ctx context.Context, user identity.User, token string) bool {
	claimed := false
	for _, k := range s.kits {
		if k.OnPushRegistration(ctx, user, token) {
			claimed = true
		}
	}

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventPushRegistration,
		Severity:     models.SeverityInfo,
		ActorUserID:  user.ID,
		ResourceType: models.ResourceDevice,
		ResourceID:   user.DeviceID,
		Action:       "Push token registered",
		Details:      models.AuditDetails{"claimed": claimed},
		Success:      true,
	})
	return claimed
}

// Shutdown flushes every kit.
func (s *EventService) Shutdown(ctx context.Context) error {
	var errs []error
	for _, k := range s.kits {
		if err := k.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
