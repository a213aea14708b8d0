// dispatcher.go: Running functions on the main context
//
// Host objects may only be touched from the host's main thread. Work
// produced on other goroutines is queued here and executed either by the
// host integration calling Drain from the main thread (typically from a
// timer or fd hook), or by Run on a goroutine locked to its OS thread when
// the Go side owns the main loop. Only functions run this way receive a
// MainToken.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-timecache"
)

type job struct {
	fn      func(MainToken)
	onPanic func(recovered any)
}

// DispatcherStats is a snapshot of dispatcher activity.
type DispatcherStats struct {
	Processed int64     `json:"processed"`
	Panics    int64     `json:"panics"`
	Dropped   int64     `json:"dropped"`
	Queued    int       `json:"queued"`
	LastRun   time.Time `json:"last_run"`
}

// Dispatcher queues functions for the main context.
//
// OnMain and OnMainBlocking are safe to call from any goroutine. Drain and
// Run must only be driven by the main context itself; calling Drain from
// another goroutine hands out a MainToken where it is not valid.
type Dispatcher struct {
	weechat *Weechat
	config  Config
	logger  Logger
	token   *mainToken

	// mu orders enqueue against Close so no job lands after the final drain.
	mu        sync.RWMutex
	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	processed atomic.Int64
	panics    atomic.Int64
	dropped   atomic.Int64
	lastRun   atomic.Int64
}

// NewDispatcher creates a dispatcher for the given handle.
func NewDispatcher(w *Weechat, config Config) (*Dispatcher, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Dispatcher{
		weechat: w,
		config:  config,
		logger:  w.logger.With("component", "dispatcher"),
		token:   &mainToken{weechat: w},
		jobs:    make(chan job, config.QueueSize),
		done:    make(chan struct{}),
	}, nil
}

// OnMain queues fn to run on the main context and returns immediately.
func (d *Dispatcher) OnMain(fn func(token MainToken)) error {
	return d.enqueue(job{fn: fn})
}

// OnMainBlocking runs fn on the main context and waits for its result.
//
// The wait ends early when ctx is done, the configured blocking timeout
// expires or the dispatcher is closed; fn may still run later in the first
// two cases. Never call OnMainBlocking from the main context: the call
// would wait for itself.
func OnMainBlocking[T any](ctx context.Context, d *Dispatcher, fn func(token MainToken) T) (T, error) {
	var zero T

	type outcome struct {
		value T
		err   error
	}
	result := make(chan outcome, 1)

	err := d.enqueue(job{
		fn: func(token MainToken) {
			result <- outcome{value: fn(token)}
		},
		onPanic: func(recovered any) {
			result <- outcome{err: NewDispatcherPanicError(recovered)}
		},
	})
	if err != nil {
		return zero, err
	}

	timer := time.NewTimer(d.config.BlockingTimeout)
	defer timer.Stop()

	select {
	case out := <-result:
		return out.value, out.err
	case <-ctx.Done():
		return zero, NewDispatcherTimeoutError(d.config.BlockingTimeout, ctx.Err())
	case <-timer.C:
		return zero, NewDispatcherTimeoutError(d.config.BlockingTimeout, context.DeadlineExceeded)
	case <-d.done:
		return zero, NewDispatcherClosedError()
	}
}

func (d *Dispatcher) enqueue(j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed.Load() {
		return NewDispatcherClosedError()
	}

	select {
	case d.jobs <- j:
		return nil
	default:
		d.logger.Warn("main-context queue full", "queue_size", d.config.QueueSize)
		return NewDispatcherQueueFullError(d.config.QueueSize)
	}
}

// Drain runs every queued function on the calling goroutine and returns
// how many ran. It must be called from the main context.
func (d *Dispatcher) Drain() int {
	n := 0
	for !d.closed.Load() {
		select {
		case j := <-d.jobs:
			d.run(j)
			n++
		default:
			return n
		}
	}
	return n
}

// Run serves queued functions until ctx is done or Close is called. The
// calling goroutine is locked to its OS thread for the duration, so it
// becomes the main context.
func (d *Dispatcher) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d.logger.Info("main-context loop started", "queue_size", d.config.QueueSize)
	defer d.logger.Info("main-context loop stopped",
		"processed", d.processed.Load())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		case j := <-d.jobs:
			d.run(j)
		}
	}
}

// Close stops accepting work and drops queued functions. It is safe to
// call more than once.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.closed.Store(true)
		close(d.done)

		for {
			select {
			case <-d.jobs:
				d.dropped.Add(1)
			default:
				if n := d.dropped.Load(); n > 0 {
					d.logger.Warn("main-context jobs dropped on close", "dropped", n)
				}
				return
			}
		}
	})
}

// Stats returns a snapshot of dispatcher activity.
func (d *Dispatcher) Stats() DispatcherStats {
	stats := DispatcherStats{
		Processed: d.processed.Load(),
		Panics:    d.panics.Load(),
		Dropped:   d.dropped.Load(),
		Queued:    len(d.jobs),
	}
	if last := d.lastRun.Load(); last > 0 {
		stats.LastRun = time.Unix(0, last)
	}
	return stats
}

func (d *Dispatcher) run(j job) {
	defer d.processed.Add(1)
	defer d.lastRun.Store(timecache.CachedTimeNano())
	defer d.recoverJob(j)

	j.fn(d.token)
}

// recoverJob reports a panicking job to its waiter and either logs the
// panic or lets it continue, depending on RecoverPanics.
func (d *Dispatcher) recoverJob(j job) {
	r := recover()
	if r == nil {
		return
	}

	d.panics.Add(1)
	if j.onPanic != nil {
		j.onPanic(r)
	}
	if !d.config.RecoverPanics {
		panic(r)
	}

	buf := make([]byte, 64<<10)
	n := runtime.Stack(buf, false)
	d.logger.Error("Panic recovered in main-context job",
		"panic", r,
		"stack", string(buf[:n]))
}
