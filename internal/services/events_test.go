package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKit records what it was asked to deliver.
type fakeKit struct {
	name     string
	fail     error
	claims   bool
	handles  bool
	shutdown error

	mu       sync.Mutex
	screens  []string
	events   []string
	commerce []string
	attrs    map[string]any
	pushes   int
}

func newFakeKit(name string) *fakeKit {
	return &fakeKit{name: name, attrs: map[string]any{}}
}

func (f *fakeKit) Name() string { return f.name }

func (f *fakeKit) LogScreen(_ context.Context, _ identity.User, screen string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screens = append(f.screens, screen)
	return f.fail
}

func (f *fakeKit) LogEvent(_ context.Context, _ identity.User, event kit.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event.Name)
	return f.fail
}

func (f *fakeKit) LogCommerceEvent(_ context.Context, _ identity.User, event kit.CommerceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commerce = append(f.commerce, event.Name)
	return f.fail
}

func (f *fakeKit) OnSetUserAttribute(_ context.Context, _ identity.User, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrs[key] = value
	return f.fail
}

func (f *fakeKit) WillHandlePushMessage(map[string]string) bool { return f.handles }

func (f *fakeKit) OnPushMessageReceived(context.Context, identity.User, map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes++
	return f.fail
}

func (f *fakeKit) OnPushRegistration(context.Context, identity.User, string) bool { return f.claims }

func (f *fakeKit) Shutdown(context.Context) error { return f.shutdown }

func newTestEventService(t *testing.T, kits ...EventKit) *EventService {
	t.Helper()
	return NewEventService(NewAuditService(setupTestStore(t), false, 0), kits...)
}

func TestEventService_FansOut(t *testing.T) {
	ctx := context.Background()
	a, b := newFakeKit("a"), newFakeKit("b")
	svc := newTestEventService(t, a, b)
	user := identity.User{DeviceID: "device-1"}

	assert.Equal(t, []string{"a", "b"}, svc.Kits())

	svc.LogScreen(ctx, user, "Dashboard", nil)
	svc.LogEvent(ctx, user, kit.Event{Name: "test_event", Type: kit.EventTypeCustom})
	svc.LogCommerceEvent(ctx, user, kit.NewPurchase(kit.TransactionAttributes{ID: "tx-1"}))
	svc.SetUserAttribute(ctx, user, kit.UserAttrFirstName, "Ada")

	for _, k := range []*fakeKit{a, b} {
		assert.Equal(t, []string{"Dashboard"}, k.screens)
		assert.Equal(t, []string{"test_event"}, k.events)
		assert.Equal(t, []string{kit.ActionPurchase}, k.commerce)
		assert.Equal(t, "Ada", k.attrs[kit.UserAttrFirstName])
	}
}

func TestEventService_ScreenEventsRouteToLogScreen(t *testing.T) {
	k := newFakeKit("a")
	svc := newTestEventService(t, k)

	svc.LogEvent(context.Background(), identity.User{}, kit.Event{Name: "Settings", Type: kit.EventTypeScreen})

	assert.Equal(t, []string{"Settings"}, k.screens)
	assert.Empty(t, k.events)
}

func TestEventService_KitFailureDoesNotStopOthers(t *testing.T) {
	broken, healthy := newFakeKit("broken"), newFakeKit("healthy")
	broken.fail = errors.New("platform down")
	svc := newTestEventService(t, broken, healthy)

	svc.LogEvent(context.Background(), identity.User{}, kit.Event{Name: "test_event"})

	assert.Equal(t, []string{"test_event"}, broken.events)
	assert.Equal(t, []string{"test_event"}, healthy.events)
}

func TestEventService_Push(t *testing.T) {
	ctx := context.Background()
	owner, other := newFakeKit("owner"), newFakeKit("other")
	owner.handles = true
	svc := newTestEventService(t, owner, other)

	assert.True(t, svc.HandlePushMessage(ctx, identity.User{}, map[string]string{kit.AttrMessageUUID: "m-1"}))
	assert.Equal(t, 1, owner.pushes)
	assert.Zero(t, other.pushes)

	assert.False(t, svc.RegisterPush(ctx, identity.User{DeviceID: "d"}, "push-token"))
	other.claims = true
	assert.True(t, svc.RegisterPush(ctx, identity.User{DeviceID: "d"}, "push-token"))

	none := newTestEventService(t)
	assert.False(t, none.HandlePushMessage(ctx, identity.User{}, map[string]string{}))
}

func TestEventService_ShutdownJoinsErrors(t *testing.T) {
	a, b := newFakeKit("a"), newFakeKit("b")
	errA := errors.New("a timed out")
	a.shutdown = errA
	svc := newTestEventService(t, a, b)

	err := svc.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)

	require.NoError(t, newTestEventService(t, b).Shutdown(context.Background()))
}
