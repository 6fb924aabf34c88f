package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"balance-mirror/core/balance"
	"balance-mirror/core/event"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Submit after the engine has begun shutting down.
var ErrClosed = errors.New("engine: closed")

// Engine applies normalized events to account balances. See the package
// documentation for the concurrency model.
type Engine struct {
	cfg   Config
	store balance.Store
	log   *zap.Logger

	queues    []chan event.Event
	quit      chan struct{}
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	applied    atomic.Int64
	rejected   atomic.Int64
	deferred   atomic.Int64
	duplicates atomic.Int64
	requeued   atomic.Int64
}

// New creates an engine over the given balance store. Start must be called
// before Submit will make progress.
func New(cfg Config, store balance.Store, log *zap.Logger) *Engine {
	cfg = cfg.withDefaults()

	queues := make([]chan event.Event, cfg.Workers)
	for i := range queues {
		queues[i] = make(chan event.Event, cfg.QueueSize)
	}

	return &Engine{
		cfg:    cfg,
		store:  store,
		log:    log.Named("engine"),
		queues: queues,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the shard workers.
func (e *Engine) Start() {
	g := new(errgroup.Group)
	for i := range e.queues {
		q := e.queues[i]
		g.Go(func() error {
			e.runWorker(q)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(e.done)
	}()
	e.log.Info("engine started", zap.Int("workers", e.cfg.Workers), zap.Int("queue_size", e.cfg.QueueSize))
}

// Submit hands one event to its account's shard queue. It blocks while the
// queue is full (backpressure) and fails with ErrClosed once shutdown has
// begun, or with the context error if ctx ends first.
func (e *Engine) Submit(ctx context.Context, evt event.Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrClosed
	}

	q := e.queues[e.shard(evt.Account)]
	select {
	case q <- evt:
		return nil
	case <-e.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake, lets already-queued events finish, and waits up to
// timeout for the workers to drain.
func (e *Engine) Close(timeout time.Duration) error {
	e.closeOnce.Do(func() {
		// Closing quit unblocks submitters waiting on full queues, so
		// they release their read locks and the write lock below can be
		// taken. Once it is held, no submitter can touch a queue and
		// every later Submit observes the closed flag.
		close(e.quit)
		e.mu.Lock()
		e.closed = true
		for _, q := range e.queues {
			close(q)
		}
		e.mu.Unlock()
	})

	select {
	case <-e.done:
		e.log.Info("engine drained")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("engine: drain timed out after %s", timeout)
	}
}

// Stats is a snapshot of the engine's outcome counters.
type Stats struct {
	// Applied counts balance transitions written to the store.
	Applied int64 `json:"applied"`
	// Rejected counts business-rule refusals.
	Rejected int64 `json:"rejected"`
	// Deferred counts retry exhaustions against the store.
	Deferred int64 `json:"deferred"`
	// Duplicates counts redelivered event IDs suppressed as no-ops.
	Duplicates int64 `json:"duplicates"`
	// Requeued counts deferred events that re-entered the intake queue.
	Requeued int64 `json:"requeued"`
}

// Stats returns a snapshot of the outcome counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Applied:    e.applied.Load(),
		Rejected:   e.rejected.Load(),
		Deferred:   e.deferred.Load(),
		Duplicates: e.duplicates.Load(),
		Requeued:   e.requeued.Load(),
	}
}

// shard maps an account to a worker index. All events for one account land
// on the same worker, which serializes them in arrival order.
func (e *Engine) shard(account string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(account))
	return int(h.Sum32() % uint32(len(e.queues)))
}

// runWorker drains one shard queue until it is closed. The recent-ID sets
// are owned by this goroutine; no other code touches them.
func (e *Engine) runWorker(q chan event.Event) {
	recent := make(map[string]*recentSet)
	for evt := range q {
		out := e.process(context.Background(), recent, evt)
		e.record(evt, out)
	}
}

// record updates counters and logs the outcome. This is the single logging
// boundary for per-event results; process itself stays free of I/O concerns.
func (e *Engine) record(evt event.Event, out Outcome) {
	fields := []zap.Field{
		zap.String("account", evt.Account),
		zap.String("kind", string(evt.Kind)),
		zap.String("amount", evt.Amount.String()),
		zap.String("event_id", evt.ID),
	}

	switch {
	case out.Status == StatusApplied && out.Reason == ReasonDuplicate:
		e.duplicates.Add(1)
		if out.NewBalance == nil {
			// Suppression worked but the balance read-back did not; a
			// store outage should not hide behind duplicate handling.
			e.log.Warn("duplicate event ignored, balance read-back failed", fields...)
		} else {
			e.log.Debug("duplicate event ignored", fields...)
		}
	case out.Status == StatusApplied:
		e.applied.Add(1)
		e.log.Debug("event applied", append(fields, zap.String("balance", out.NewBalance.String()))...)
	case out.Status == StatusRejected:
		e.rejected.Add(1)
		e.log.Warn("event rejected", append(fields, zap.String("reason", string(out.Reason)))...)
	case out.Status == StatusDeferred:
		e.deferred.Add(1)
		e.log.Error("event deferred", append(fields, zap.String("reason", string(out.Reason)))...)
		go e.requeue(evt)
	}
}

// requeue re-submits a deferred event after a delay. Dropped only if the
// engine shuts down first; the source will redeliver in that case.
func (e *Engine) requeue(evt event.Event) {
	t := time.NewTimer(time.Duration(e.cfg.RequeueDelayMS) * time.Millisecond)
	defer t.Stop()

	select {
	case <-e.quit:
		return
	case <-t.C:
	}

	if err := e.Submit(context.Background(), evt); err != nil {
		e.log.Warn("deferred event dropped on shutdown",
			zap.String("account", evt.Account), zap.String("event_id", evt.ID))
		return
	}
	e.requeued.Add(1)
}

// process applies one event to one account per the transition table:
//
//	Unknown  --Deposit(a)-->                 Active(a)
//	Active(b) --Deposit(a)-->                Active(b+a)
//	Active(b) --Withdrawal(a), a <= b-->     Active(b-a)
//	Active(b) --Withdrawal(a), a > b-->      Rejected, state unchanged
//	Unknown  --Withdrawal-->                 Rejected, no record created
//
// The caller guarantees no other goroutine is processing this account, so
// the read-modify-write below cannot race.
func (e *Engine) process(ctx context.Context, recent map[string]*recentSet, evt event.Event) Outcome {
	if evt.ID != "" {
		if ids, ok := recent[evt.Account]; ok && ids.contains(evt.ID) {
			cur, err := e.readBalance(ctx, evt.Account)
			if err != nil {
				cur = nil
			}
			return Outcome{Status: StatusApplied, Reason: ReasonDuplicate, NewBalance: cur}
		}
	}

	cur, err := e.readBalance(ctx, evt.Account)
	known := true
	switch {
	case errors.Is(err, balance.ErrNotFound):
		known = false
		cur = new(big.Int)
	case err != nil:
		return deferred(ReasonStoreUnavailable)
	}

	var next *big.Int
	switch evt.Kind {
	case event.KindDeposit:
		next = new(big.Int).Add(cur, evt.Amount)
	case event.KindWithdrawal:
		if !known {
			return rejected(ReasonAccountNotFound)
		}
		if evt.Amount.Cmp(cur) > 0 {
			return rejected(ReasonInsufficientBalance)
		}
		next = new(big.Int).Sub(cur, evt.Amount)
	default:
		return rejected(ReasonUnknownKind)
	}

	if err := e.writeBalance(ctx, evt.Account, next); err != nil {
		return deferred(ReasonStoreUnavailable)
	}

	if evt.ID != "" {
		ids, ok := recent[evt.Account]
		if !ok {
			ids = newRecentSet(e.cfg.DedupWindow)
			recent[evt.Account] = ids
		}
		ids.add(evt.ID)
	}

	return applied(next)
}

// readBalance reads the current balance with bounded retries. ErrNotFound is
// permanent: retrying cannot make an absent record appear.
func (e *Engine) readBalance(ctx context.Context, account string) (*big.Int, error) {
	var cur *big.Int
	op := func() error {
		var err error
		cur, err = e.store.Get(ctx, account)
		if errors.Is(err, balance.ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, e.newBackOff(ctx)); err != nil {
		return nil, err
	}
	return cur, nil
}

// writeBalance persists the new balance with bounded retries.
func (e *Engine) writeBalance(ctx context.Context, account string, next *big.Int) error {
	op := func() error {
		return e.store.Upsert(ctx, account, next)
	}
	return backoff.Retry(op, e.newBackOff(ctx))
}

// newBackOff builds the per-operation retry policy: exponential, capped
// interval, RetryAttempts total attempts.
func (e *Engine) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Duration(e.cfg.RetryInitialMS) * time.Millisecond
	bo.MaxInterval = time.Duration(e.cfg.RetryMaxMS) * time.Millisecond
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(e.cfg.RetryAttempts-1)), ctx)
}
