package source

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"balance-mirror/core/event"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfig_Channel(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "Lower-cases contract",
			cfg:  Config{ChannelPrefix: "events", Contract: "0xDEADBEEF00000000000000000000000000000000"},
			want: "events:0xdeadbeef00000000000000000000000000000000",
		},
		{
			name: "Default prefix",
			cfg:  Config{Contract: "0xabc"},
			want: "events:0xabc",
		},
		{
			name: "Custom prefix",
			cfg:  Config{ChannelPrefix: "chain", Contract: "0xabc"},
			want: "chain:0xabc",
		},
		{
			name: "Trims whitespace",
			cfg:  Config{ChannelPrefix: "events", Contract: " 0xabc "},
			want: "events:0xabc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Channel())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Contract: "   "}.Validate())
	assert.NoError(t, Config{Contract: "0xabc"}.Validate())
}

// newTestManager builds a manager whose submit function records events.
func newTestManager(submitted *[]event.Event, submitErr error) *Manager {
	submit := func(_ context.Context, evt event.Event) error {
		if submitErr != nil {
			return submitErr
		}
		*submitted = append(*submitted, evt)
		return nil
	}
	return New(Config{Addr: "localhost:0", Contract: "0xabc"}, submit, zap.NewNop())
}

func TestManager_HandleValidPayload(t *testing.T) {
	var submitted []event.Event
	m := newTestManager(&submitted, nil)

	payload := `{"kind":"Deposit","account":"0x1234567890ABCDEF1234567890abcdef12345678","amount":"100","eventId":"evt-1"}`
	m.handle(context.Background(), []byte(payload))

	require.Len(t, submitted, 1)
	assert.Equal(t, event.KindDeposit, submitted[0].Kind)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", submitted[0].Account)
	assert.Equal(t, "100", submitted[0].Amount.String())
	assert.Equal(t, "evt-1", submitted[0].ID)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Received)
	assert.Equal(t, int64(0), stats.Dropped)
}

func TestManager_HandleDropsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"Not JSON", `not json at all`},
		{"Unknown kind", `{"kind":"Transfer","account":"0x1234567890abcdef1234567890abcdef12345678","amount":"1"}`},
		{"Bad address", `{"kind":"Deposit","account":"bogus","amount":"1"}`},
		{"Bad amount", `{"kind":"Deposit","account":"0x1234567890abcdef1234567890abcdef12345678","amount":"-4"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var submitted []event.Event
			m := newTestManager(&submitted, nil)

			m.handle(context.Background(), []byte(tt.payload))

			assert.Empty(t, submitted)
			stats := m.Stats()
			assert.Equal(t, int64(1), stats.Received)
			assert.Equal(t, int64(1), stats.Dropped)
		})
	}
}

// stubBackOff is a fixed-interval reconnect policy that counts its calls.
type stubBackOff struct {
	interval time.Duration
	nexts    atomic.Int64
	resets   atomic.Int64
}

func (b *stubBackOff) NextBackOff() time.Duration { b.nexts.Add(1); return b.interval }
func (b *stubBackOff) Reset()                     { b.resets.Add(1) }

// TestManager_RunRetriesLostSubscription drives Run against a subscription
// that keeps dying and verifies each loss is followed by a retry after the
// policy's interval, with the policy reset on every successful subscribe.
func TestManager_RunRetriesLostSubscription(t *testing.T) {
	var submitted []event.Event
	m := newTestManager(&submitted, nil)

	bo := &stubBackOff{interval: time.Millisecond}
	m.reconnect = func() backoff.BackOff { return bo }

	var calls atomic.Int64
	m.consumeFn = func(_ context.Context, onUp func()) error {
		calls.Add(1)
		onUp()
		return errors.New("broker gone")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancellation")
	}

	assert.False(t, m.Connected())
	assert.GreaterOrEqual(t, bo.resets.Load(), int64(3))
	assert.GreaterOrEqual(t, bo.nexts.Load(), int64(2))
}

// TestManager_RunStopsOnCancel verifies cancellation ends Run cleanly while a
// subscription is live, without a reconnect attempt.
func TestManager_RunStopsOnCancel(t *testing.T) {
	var submitted []event.Event
	m := newTestManager(&submitted, nil)

	bo := &stubBackOff{interval: time.Hour}
	m.reconnect = func() backoff.BackOff { return bo }
	m.consumeFn = func(ctx context.Context, onUp func()) error {
		onUp()
		<-ctx.Done()
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancellation")
	}

	assert.Equal(t, int64(0), bo.nexts.Load())
	assert.False(t, m.Connected())
}

// TestManager_ReconnectBackOffBounded checks the default reconnect policy:
// intervals stay positive, never exceed the configured cap (plus the
// exponential policy's randomization margin), and never signal Stop.
func TestManager_ReconnectBackOffBounded(t *testing.T) {
	var submitted []event.Event
	m := New(Config{Addr: "localhost:0", Contract: "0xabc", ReconnectMaxSeconds: 2},
		func(_ context.Context, evt event.Event) error { submitted = append(submitted, evt); return nil },
		zap.NewNop())

	bo := m.reconnect()
	maxWait := 3 * time.Second // MaxInterval plus the default 0.5 randomization
	for i := 0; i < 50; i++ {
		wait := bo.NextBackOff()
		require.NotEqual(t, backoff.Stop, wait)
		assert.Greater(t, wait, time.Duration(0))
		assert.LessOrEqual(t, wait, maxWait)
	}
}

func TestManager_HandleCountsRefusedSubmit(t *testing.T) {
	var submitted []event.Event
	m := newTestManager(&submitted, context.Canceled)

	payload := `{"kind":"Deposit","account":"0x1234567890abcdef1234567890abcdef12345678","amount":"1"}`
	m.handle(context.Background(), []byte(payload))

	assert.Empty(t, submitted)
	assert.Equal(t, int64(1), m.Stats().Dropped)
}
