// dispatcher_test.go: main-context queue, blocking calls and panic handling
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	goerrors "github.com/agilira/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weechat "github.com/agilira/go-weechat"
)

func newTestDispatcher(t *testing.T, mutate func(*weechat.Config)) (*testEnv, *weechat.Dispatcher) {
	t.Helper()
	env := newTestEnv(t)
	config := weechat.DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	d, err := weechat.NewDispatcher(env.weechat, config)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return env, d
}

func requireCode(t *testing.T, err error, code string) *goerrors.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := err.(*goerrors.Error)
	require.True(t, ok, "expected structured error, got %T", err)
	assert.Equal(t, goerrors.ErrorCode(code), e.ErrorCode())
	return e
}

func TestDispatcher_DrainRunsInOrder(t *testing.T) {
	_, d := newTestDispatcher(t, nil)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, d.OnMain(func(weechat.MainToken) { order = append(order, i) }))
	}

	assert.Equal(t, 5, d.Stats().Queued)
	assert.Equal(t, 5, d.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 0, d.Drain())

	stats := d.Stats()
	assert.Equal(t, int64(5), stats.Processed)
	assert.Equal(t, 0, stats.Queued)
	assert.False(t, stats.LastRun.IsZero())
}

func TestDispatcher_QueueFull(t *testing.T) {
	env, d := newTestDispatcher(t, func(c *weechat.Config) { c.QueueSize = 2 })

	noop := func(weechat.MainToken) {}
	require.NoError(t, d.OnMain(noop))
	require.NoError(t, d.OnMain(noop))

	e := requireCode(t, d.OnMain(noop), weechat.ErrCodeDispatcherQueueFull)
	assert.True(t, e.IsRetryable())
	assert.True(t, env.logger.HasMessage("WARN", "main-context queue full"))

	assert.Equal(t, 2, d.Drain())
	assert.NoError(t, d.OnMain(noop))
}

func TestDispatcher_Closed(t *testing.T) {
	_, d := newTestDispatcher(t, nil)

	require.NoError(t, d.OnMain(func(weechat.MainToken) {}))
	require.NoError(t, d.OnMain(func(weechat.MainToken) {}))
	d.Close()
	d.Close()

	assert.Equal(t, int64(2), d.Stats().Dropped)
	assert.Equal(t, 0, d.Drain())
	requireCode(t, d.OnMain(func(weechat.MainToken) {}), weechat.ErrCodeDispatcherClosed)

	_, err := weechat.OnMainBlocking(context.Background(), d, func(weechat.MainToken) int { return 1 })
	requireCode(t, err, weechat.ErrCodeDispatcherClosed)
}

func TestDispatcher_RunServesBlockingCalls(t *testing.T) {
	env, d := newTestDispatcher(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- d.Run(ctx) }()

	var wg sync.WaitGroup
	results := make([]string, 3)
	for i, name := range []string{"core", "irc.server", "irc.#go"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			got, err := weechat.OnMainBlocking(ctx, d, func(token weechat.MainToken) string {
				b, ok := token.Weechat().BufferSearch("core", name)
				if !ok {
					return ""
				}
				table, _ := b.GetHData("buffer")
				v, _ := weechat.GetVar[string](table, "name")
				return v
			})
			assert.NoError(t, err)
			results[i] = got
		}(i, name)
	}
	wg.Wait()

	assert.Equal(t, []string{"core", "irc.server", "irc.#go"}, results)

	cancel()
	assert.ErrorIs(t, <-stopped, context.Canceled)
	assert.True(t, env.logger.HasMessage("INFO", "main-context loop started"))
	assert.True(t, env.logger.HasMessage("INFO", "main-context loop stopped"))
}

func TestDispatcher_RunStopsOnClose(t *testing.T) {
	_, d := newTestDispatcher(t, nil)

	stopped := make(chan error, 1)
	go func() { stopped <- d.Run(context.Background()) }()

	d.Close()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestOnMainBlocking_Timeout(t *testing.T) {
	_, d := newTestDispatcher(t, func(c *weechat.Config) { c.BlockingTimeout = 20 * time.Millisecond })

	// nothing drains the queue
	_, err := weechat.OnMainBlocking(context.Background(), d, func(weechat.MainToken) int { return 1 })
	e := requireCode(t, err, weechat.ErrCodeDispatcherTimeout)
	assert.True(t, e.IsRetryable())
}

func TestOnMainBlocking_ContextCancelled(t *testing.T) {
	_, d := newTestDispatcher(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := weechat.OnMainBlocking(ctx, d, func(weechat.MainToken) int { return 1 })
	requireCode(t, err, weechat.ErrCodeDispatcherTimeout)
}

func TestDispatcher_PanicRecovered(t *testing.T) {
	env, d := newTestDispatcher(t, nil)

	require.NoError(t, d.OnMain(func(weechat.MainToken) { panic("boom") }))
	ran := false
	require.NoError(t, d.OnMain(func(weechat.MainToken) { ran = true }))

	assert.NotPanics(t, func() { d.Drain() })
	assert.True(t, ran, "jobs after a panic still run")

	stats := d.Stats()
	assert.Equal(t, int64(1), stats.Panics)
	assert.Equal(t, int64(2), stats.Processed)
	assert.True(t, env.logger.HasMessage("ERROR", "Panic recovered in main-context job"))
}

func TestOnMainBlocking_PanicBecomesError(t *testing.T) {
	_, d := newTestDispatcher(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	_, err := weechat.OnMainBlocking(ctx, d, func(weechat.MainToken) int { panic("boom") })
	e := requireCode(t, err, weechat.ErrCodeDispatcherPanic)
	assert.Equal(t, "boom", e.Context["panic"])
}

func TestDispatcher_PanicPropagatesWhenNotRecovering(t *testing.T) {
	_, d := newTestDispatcher(t, func(c *weechat.Config) { c.RecoverPanics = false })

	require.NoError(t, d.OnMain(func(weechat.MainToken) { panic("boom") }))
	assert.PanicsWithValue(t, "boom", func() { d.Drain() })
	assert.Equal(t, int64(1), d.Stats().Panics)
}

func TestNewDispatcher_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	config := weechat.DefaultConfig()
	config.QueueSize = -1

	d, err := weechat.NewDispatcher(env.weechat, config)
	assert.Nil(t, d)
	requireCode(t, err, weechat.ErrCodeConfigValidationError)
}

func TestDispatcher_CloseRacingOnMain(t *testing.T) {
	for round := 0; round < 50; round++ {
		_, d := newTestDispatcher(t, func(c *weechat.Config) { c.QueueSize = 64 })

		var accepted sync.WaitGroup
		var mu sync.Mutex
		queued := 0

		start := make(chan struct{})
		for i := 0; i < 8; i++ {
			accepted.Add(1)
			go func() {
				defer accepted.Done()
				<-start
				for j := 0; j < 8; j++ {
					if d.OnMain(func(weechat.MainToken) {}) == nil {
						mu.Lock()
						queued++
						mu.Unlock()
					}
				}
			}()
		}

		close(start)
		d.Close()
		accepted.Wait()

		// every accepted job is accounted for by the close drain
		stats := d.Stats()
		assert.Equal(t, int64(queued), stats.Dropped, "round %d", round)
		assert.Equal(t, 0, stats.Queued, "round %d", round)
	}
}
