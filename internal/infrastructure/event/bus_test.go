package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "FinancialRecord", "rec-1"),
	}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	added := newTestHandler("TransactionAdded")
	all := newTestHandler()
	bus.Subscribe(added)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("TransactionAdded"),
		newTestEvent("FinancialRecordClosed"),
	))

	assert.Equal(t, 1, added.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	failing := newTestHandler("X")
	failing.err = errors.New("boom")
	panicking := newTestHandler("X")
	panicking.panicWith = "kaboom"
	ok := newTestHandler("X")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, ok.count())
}

func TestInMemoryEventBus_DispatchRecoversPanic(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := newTestHandler()
	h.panicWith = "bad"
	err := bus.dispatchToHandler(context.Background(), h, newTestEvent("X"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("X")
	bus.Subscribe(h)
	_ = bus.Publish(context.Background(), newTestEvent("X"))
	bus.Unsubscribe(h)
	_ = bus.Publish(context.Background(), newTestEvent("X"))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_StopDropsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("X")
	bus.Subscribe(h)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	assert.Equal(t, 1, h.count())
}
