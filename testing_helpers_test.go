// testing_helpers_test.go: shared fixtures for the weechat package tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	weechat "github.com/agilira/go-weechat"
	"github.com/agilira/go-weechat/memhost"
)

var testReadTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// testEnv is a host with three linked buffers: core, irc.server and
// irc.#go, numbered 1 to 3.
type testEnv struct {
	host    *memhost.Host
	weechat *weechat.Weechat
	logger  *weechat.TestLogger
	buffers []weechat.Address
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	host := memhost.New()
	host.DefineSchema("buffer", memhost.SchemaDef{
		Vars: map[string]weechat.Kind{
			"name":           weechat.KindString,
			"full_name":      weechat.KindString,
			"short_name":     weechat.KindString,
			"number":         weechat.KindInteger,
			"lines_count":    weechat.KindLong,
			"highlight":      weechat.KindChar,
			"last_read_time": weechat.KindTime,
			"own_lines":      weechat.KindPointer,
			"prev_buffer":    weechat.KindPointer,
			"next_buffer":    weechat.KindPointer,
		},
		Prev:     "prev_buffer",
		Next:     "next_buffer",
		ReadOnly: []string{"full_name"},
	})
	host.DefineSchema("lines", memhost.SchemaDef{
		Vars: map[string]weechat.Kind{
			"lines_count": weechat.KindInteger,
		},
	})

	lines := host.AddObject("lines", map[string]any{"lines_count": int32(12)})

	names := []string{"core", "irc.server", "irc.#go"}
	buffers := make([]weechat.Address, 0, len(names))
	for i, name := range names {
		addr := host.AddBuffer("core", name, map[string]any{
			"name":           name,
			"full_name":      "core." + name,
			"short_name":     nil,
			"number":         int32(i + 1),
			"lines_count":    int64(1000 * (i + 1)),
			"highlight":      int8('h'),
			"last_read_time": testReadTime.Unix(),
			"own_lines":      lines,
		})
		require.NotZero(t, addr)
		buffers = append(buffers, addr)
	}
	host.Link("buffer", "gui_buffers", buffers...)

	logger := weechat.NewTestLogger()
	return &testEnv{
		host:    host,
		weechat: weechat.NewWeechat(host, logger),
		logger:  logger,
		buffers: buffers,
	}
}

func (e *testEnv) buffer(t *testing.T, name string) *weechat.Buffer {
	t.Helper()
	b, ok := e.weechat.BufferSearch("core", name)
	require.True(t, ok, "buffer %s not found", name)
	return b
}

func (e *testEnv) table(t *testing.T, name string) *weechat.HData {
	t.Helper()
	h, ok := e.buffer(t, name).GetHData("buffer")
	require.True(t, ok)
	return h
}

func (e *testEnv) head(t *testing.T) *weechat.Pointer {
	t.Helper()
	p, ok := e.weechat.ListHead("buffer", "gui_buffers")
	require.True(t, ok)
	return p
}

func nameOf(t *testing.T, p *weechat.Pointer) string {
	t.Helper()
	h, ok := p.GetHData("buffer")
	require.True(t, ok)
	name, ok := weechat.GetVar[string](h, "name")
	require.True(t, ok)
	return name
}
