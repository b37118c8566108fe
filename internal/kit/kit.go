package kit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"sync"
	"time"

	"github.com/go-authgate/idgate/internal/core"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/models"
	"github.com/go-authgate/idgate/internal/store"
)

// Name identifies the kit in logs, metrics and API responses.
const Name = "engage"

// metric result labels
const (
	resultSent    = "sent"
	resultQueued  = "queued"
	resultSkipped = "skipped"
	resultDropped = "dropped"
	resultError   = "error"
)

// ProfileStore persists the per-device engagement profile. *store.Store
// satisfies it.
type ProfileStore interface {
	GetKitProfile(deviceID string) (*models.KitProfile, error)
	SaveKitProfile(profile *models.KitProfile) error
}

// Kit forwards identity, screen, custom and commerce events to the
// engagement platform.
type Kit struct {
	settings Settings
	client   *Client
	batcher  *Batcher
	profiles ProfileStore
	metrics  core.Recorder

	// serializes profile read-modify-write and guards identifying
	profileMu sync.Mutex
	// profile key -> email whose identify call is in flight
	identifying map[string]string

	// in-flight async sends; closing is set once Shutdown starts waiting
	asyncMu sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

var _ identity.Listener = (*Kit)(nil)

// New parses raw settings and creates the kit. Batching starts when the
// settings carry a positive batch interval.
func New(
	raw map[string]string,
	client *Client,
	profiles ProfileStore,
	m core.Recorder,
) (*Kit, error) {
	settings, err := ParseSettings(raw)
	if err != nil {
		return nil, err
	}

	k := &Kit{
		settings:    settings,
		client:      client,
		profiles:    profiles,
		metrics:     m,
		identifying: make(map[string]string),
	}
	if window := settings.BatchWindow(); window > 0 {
		k.batcher = NewBatcher(client, window, 0, m)
	}
	return k, nil
}

func (k *Kit) Name() string {
	return Name
}

// Settings returns the parsed kit settings.
func (k *Kit) Settings() Settings {
	return k.settings
}

func (k *Kit) payload(user identity.User, event string, attrs map[string]string) Payload {
	p := make(Payload, len(attrs)+5)
	for key, value := range attrs {
		p[key] = value
	}
	p["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if user.DeviceID != "" {
		p["device_id"] = user.DeviceID
	}
	if email := user.Identities[identity.TypeEmail]; email != "" {
		p["email"] = email
	}
	if customerID := user.Identities[identity.TypeCustomerID]; customerID != "" {
		p["customer_id"] = customerID
	}
	p["event"] = event
	return p
}

// track delivers an event now, or queues it when batching is enabled.
func (k *Kit) track(
	ctx context.Context,
	kind EventType,
	user identity.User,
	event string,
	attrs map[string]string,
) error {
	p := k.payload(user, event, attrs)

	if k.batcher != nil {
		if !k.batcher.Enqueue(p) {
			k.metrics.RecordKitEvent(string(kind), resultDropped)
			return nil
		}
		k.metrics.RecordKitEvent(string(kind), resultQueued)
		return nil
	}

	if err := k.client.Send(ctx, p); err != nil {
		k.metrics.RecordKitEvent(string(kind), resultError)
		return err
	}
	k.metrics.RecordKitEvent(string(kind), resultSent)
	return nil
}

// LogScreen tracks a page load for screenName when screen views are enabled.
func (k *Kit) LogScreen(
	ctx context.Context,
	user identity.User,
	screenName string,
	attrs map[string]string,
) error {
	if !k.settings.LogScreenViewEvents {
		k.metrics.RecordKitEvent(string(EventTypeScreen), resultSkipped)
		return nil
	}

	extras := make(map[string]string, len(attrs)+1)
	maps.Copy(extras, attrs)
	extras[AttrScreenViewed] = screenName

	return k.track(ctx, EventTypeScreen, user, EventPageLoad, extras)
}

// LogEvent tracks a custom event when custom events are enabled.
func (k *Kit) LogEvent(ctx context.Context, user identity.User, event Event) error {
	if !k.settings.LogCustomEvents {
		k.metrics.RecordKitEvent(string(EventTypeCustom), resultSkipped)
		return nil
	}
	return k.track(ctx, EventTypeCustom, user, event.Name, event.Attributes)
}

// LogCommerceEvent tracks a named commerce event when commerce events are
// enabled.
func (k *Kit) LogCommerceEvent(ctx context.Context, user identity.User, event CommerceEvent) error {
	if !k.settings.LogCommerceEvents || event.Name == "" {
		k.metrics.RecordKitEvent(string(EventTypeCommerce), resultSkipped)
		return nil
	}
	return k.track(ctx, EventTypeCommerce, user, event.Name, event.FlatAttributes())
}

// OnSetUserAttribute maps the reserved name and gender attributes onto the
// device profile. Other keys are accepted and ignored.
func (k *Kit) OnSetUserAttribute(
	ctx context.Context,
	user identity.User,
	key string,
	value any,
) error {
	if key == "" {
		return nil
	}

	k.profileMu.Lock()
	defer k.profileMu.Unlock()

	profile, err := k.loadProfile(user)
	if err != nil {
		return err
	}

	if value != nil {
		switch key {
		case UserAttrFirstName:
			profile.FirstName = fmt.Sprint(value)
		case UserAttrLastName:
			profile.LastName = fmt.Sprint(value)
		case UserAttrGender:
			profile.Gender = fmt.Sprint(value)
		}
	}

	return k.saveProfile(profile)
}

// WillHandlePushMessage reports whether payload was sent by the platform.
func (k *Kit) WillHandlePushMessage(payload map[string]string) bool {
	_, ok := payload[AttrMessageUUID]
	return ok
}

// OnPushMessageReceived records delivery of a platform push message.
func (k *Kit) OnPushMessageReceived(
	ctx context.Context,
	user identity.User,
	payload map[string]string,
) error {
	if !k.WillHandlePushMessage(payload) {
		return nil
	}
	return k.track(ctx, EventTypeCustom, user, EventPushDelivered, payload)
}

// OnPushRegistration identifies the device with the platform when user
// events are enabled. The kit never owns push registration itself, so it
// always reports false.
func (k *Kit) OnPushRegistration(ctx context.Context, user identity.User, token string) bool {
	if k.settings.LogUserEvents && user.DeviceID != "" {
		p := k.payload(identity.User{DeviceID: user.DeviceID}, EventIdentify, nil)
		k.sendAsync(ctx, p, nil)
	}
	return false
}

func (k *Kit) OnIdentifyCompleted(ctx context.Context, user identity.User, _ identity.Request) {
	k.updateUser(ctx, user)
}

func (k *Kit) OnLoginCompleted(ctx context.Context, user identity.User, _ identity.Request) {
	k.updateUser(ctx, user)
}

func (k *Kit) OnLogoutCompleted(ctx context.Context, user identity.User, _ identity.Request) {
	k.updateUser(ctx, user)
}

func (k *Kit) OnModifyCompleted(ctx context.Context, user identity.User, _ identity.Request) {
	k.updateUser(ctx, user)
}

func (k *Kit) OnUserIdentified(ctx context.Context, user identity.User) {
	k.updateUser(ctx, user)
}

// updateUser copies the user's identities onto the device profile and
// identifies the user by email unless that email was the last one the
// platform accepted for the device or is already being identified.
func (k *Kit) updateUser(ctx context.Context, user identity.User) {
	k.profileMu.Lock()
	defer k.profileMu.Unlock()

	profile, err := k.loadProfile(user)
	if err != nil {
		log.Printf("[Kit] Failed to load profile for device=%s: %v", user.DeviceID, err)
		return
	}

	email := user.Identities[identity.TypeEmail]
	profile.Email = email
	profile.CustomerID = user.Identities[identity.TypeCustomerID]
	profile.FacebookID = user.Identities[identity.TypeFacebook]

	if err := k.saveProfile(profile); err != nil {
		log.Printf("[Kit] Failed to save profile for device=%s: %v", profile.DeviceID, err)
	}

	key := profileKey(user)
	if !k.settings.LogUserEvents || email == "" ||
		email == profile.LastIdentifiedEmail || k.identifying[key] == email {
		return
	}

	k.identifying[key] = email
	p := k.payload(user, EventIdentify, nil)
	started := k.sendAsync(ctx, p, func(err error) {
		k.identified(user, email, err)
	})
	if !started {
		delete(k.identifying, key)
	}
}

// identified records the outcome of an identify call for email. Only a
// delivered identify becomes the profile's last identified email, so a
// failed one is retried on the next identity callback.
func (k *Kit) identified(user identity.User, email string, sendErr error) {
	k.profileMu.Lock()
	defer k.profileMu.Unlock()

	key := profileKey(user)
	if k.identifying[key] == email {
		delete(k.identifying, key)
	}

	if sendErr != nil {
		log.Printf("[Kit] Identify failed for email=%q: %v", email, sendErr)
		return
	}

	profile, err := k.loadProfile(user)
	if err != nil {
		log.Printf("[Kit] Failed to load profile for device=%s: %v", user.DeviceID, err)
		return
	}
	if profile.Email != email {
		// a newer email took over while this call was in flight
		return
	}
	profile.LastIdentifiedEmail = email
	if err := k.saveProfile(profile); err != nil {
		log.Printf("[Kit] Failed to save profile for device=%s: %v", profile.DeviceID, err)
	}
}

// sendAsync delivers p immediately on a tracked goroutine, bypassing the
// batcher, and calls done with the delivery error. It reports false without
// sending once Shutdown has started.
func (k *Kit) sendAsync(ctx context.Context, p Payload, done func(error)) bool {
	k.asyncMu.Lock()
	defer k.asyncMu.Unlock()
	if k.closing {
		log.Printf("[Kit] Shutting down, not sending %v", p["event"])
		return false
	}

	ctx = context.WithoutCancel(ctx)
	k.wg.Go(func() {
		err := k.client.Send(ctx, p)
		if err != nil {
			k.metrics.RecordKitEvent(EventIdentify, resultError)
		} else {
			k.metrics.RecordKitEvent(EventIdentify, resultSent)
		}
		if done != nil {
			done(err)
		} else if err != nil {
			log.Printf("[Kit] Failed to send %v: %v", p["event"], err)
		}
	})
	return true
}

func profileKey(user identity.User) string {
	if user.DeviceID != "" {
		return user.DeviceID
	}
	return user.ID
}

// loadProfile returns the stored profile for the user's device, or a new one.
// Caller must hold profileMu.
func (k *Kit) loadProfile(user identity.User) (*models.KitProfile, error) {
	key := profileKey(user)
	if key == "" || k.profiles == nil {
		return &models.KitProfile{}, nil
	}

	profile, err := k.profiles.GetKitProfile(key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return &models.KitProfile{DeviceID: key}, nil
		}
		return nil, fmt.Errorf("load kit profile: %w", err)
	}
	return profile, nil
}

// saveProfile persists profile; profiles without a device are kept in memory
// only.
func (k *Kit) saveProfile(profile *models.KitProfile) error {
	if profile.DeviceID == "" || k.profiles == nil {
		return nil
	}
	if err := k.profiles.SaveKitProfile(profile); err != nil {
		return fmt.Errorf("save kit profile: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight identify calls and flushes batched events.
func (k *Kit) Shutdown(ctx context.Context) error {
	k.asyncMu.Lock()
	k.closing = true
	k.asyncMu.Unlock()

	done := make(chan struct{})
	go func() {
		k.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("kit shutdown timeout: %w", ctx.Err())
	}

	if k.batcher != nil {
		return k.batcher.Shutdown(ctx)
	}
	return nil
}
