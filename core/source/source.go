package source

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"balance-mirror/core/event"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmitFunc hands a normalized event to the reconciliation engine. It may
// block for backpressure.
type SubmitFunc func(ctx context.Context, evt event.Event) error

// Manager owns the subscription to the event source. One Manager subscribes
// to one contract's channel.
type Manager struct {
	cfg    Config
	rdb    *redis.Client
	submit SubmitFunc
	log    *zap.Logger

	// consumeFn holds one subscription until it fails; reconnect builds the
	// retry policy used between lost subscriptions. Both default to the
	// broker-backed implementations below.
	consumeFn func(ctx context.Context, onUp func()) error
	reconnect func() backoff.BackOff

	connected atomic.Bool
	received  atomic.Int64
	dropped   atomic.Int64
}

// New creates a subscription manager. The connection is lazy; call Ping to
// verify reachability before Run.
func New(cfg Config, submit SubmitFunc, log *zap.Logger) *Manager {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	m := &Manager{
		cfg:    cfg,
		rdb:    rdb,
		submit: submit,
		log:    log.Named("source"),
	}
	m.consumeFn = m.consume
	m.reconnect = m.reconnectBackOff
	return m
}

// Ping performs the startup health check against the event source.
func (m *Manager) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	return m.rdb.Ping(ctx).Err()
}

// Run subscribes and consumes events until ctx is canceled. Transport
// failures are logged and followed by a reconnect with exponential backoff;
// Run itself only returns on cancellation.
func (m *Manager) Run(ctx context.Context) error {
	bo := m.reconnect()

	for {
		err := m.consumeFn(ctx, bo.Reset)
		m.connected.Store(false)
		if ctx.Err() != nil {
			m.log.Info("subscription stopped")
			return nil
		}

		wait := bo.NextBackOff()
		m.log.Warn("subscription lost, reconnecting",
			zap.Error(err), zap.Duration("retry_in", wait))

		select {
		case <-ctx.Done():
			m.log.Info("subscription stopped")
			return nil
		case <-time.After(wait):
		}
	}
}

// reconnectBackOff builds the reconnect policy: exponential with a capped
// interval, never giving up. A lost subscription is recoverable for as long
// as the process runs.
func (m *Manager) reconnectBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0
	bo.MaxInterval = time.Duration(m.cfg.ReconnectMaxSeconds) * time.Second
	return bo
}

// consume holds one subscription until it fails or ctx ends. onUp runs once
// the subscription is confirmed, resetting the reconnect backoff.
func (m *Manager) consume(ctx context.Context, onUp func()) error {
	sub := m.rdb.Subscribe(ctx, m.cfg.Channel())
	defer func() { _ = sub.Close() }()

	// Receive confirms the subscription actually started.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	m.connected.Store(true)
	onUp()
	m.log.Info("subscribed", zap.String("channel", m.cfg.Channel()))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok || msg == nil {
				return errors.New("subscription channel closed")
			}
			m.handle(ctx, []byte(msg.Payload))
		}
	}
}

// handle decodes and normalizes one payload and submits it to the engine.
// Malformed payloads are dropped here; delivery to the engine blocks on
// backpressure by design.
func (m *Manager) handle(ctx context.Context, payload []byte) {
	m.received.Add(1)

	var raw event.Raw
	if err := json.Unmarshal(payload, &raw); err != nil {
		m.dropped.Add(1)
		m.log.Warn("undecodable event payload", zap.Error(err), zap.ByteString("payload", payload))
		return
	}

	evt, err := event.Normalize(raw)
	if err != nil {
		m.dropped.Add(1)
		m.log.Warn("event failed normalization", zap.Error(err),
			zap.String("kind", raw.Kind), zap.String("account", raw.Account))
		return
	}

	if err := m.submit(ctx, evt); err != nil {
		// Shutdown or cancellation; the source redelivers after restart.
		m.dropped.Add(1)
		m.log.Warn("event not accepted by engine", zap.Error(err),
			zap.String("account", evt.Account), zap.String("event_id", evt.ID))
	}
}

// Connected reports whether a live subscription is established.
func (m *Manager) Connected() bool {
	return m.connected.Load()
}

// Stats is a snapshot of the transport counters.
type Stats struct {
	// Received counts payloads delivered by the source.
	Received int64 `json:"received"`
	// Dropped counts payloads discarded before or at engine handoff.
	Dropped int64 `json:"dropped"`
}

// Stats returns a snapshot of the transport counters.
func (m *Manager) Stats() Stats {
	return Stats{Received: m.received.Load(), Dropped: m.dropped.Load()}
}

// Close releases the broker connection. Run must have been canceled first.
func (m *Manager) Close() error {
	return m.rdb.Close()
}
