// buffer_test.go: buffer properties, hotlist, notify and nicklist
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weechat "github.com/agilira/go-weechat"
)

func TestBufferSearch(t *testing.T) {
	env := newTestEnv(t)

	b, ok := env.weechat.BufferSearch("core", "irc.server")
	require.True(t, ok)
	assert.Equal(t, env.buffers[1], b.Address())

	_, ok = env.weechat.BufferSearch("irc", "irc.server")
	assert.False(t, ok)
	_, ok = env.weechat.BufferSearch("core", "nope")
	assert.False(t, ok)
}

func TestBuffer_Hotlist(t *testing.T) {
	env := newTestEnv(t)
	b := env.buffer(t, "irc.#go")

	tests := []struct {
		name string
		call func()
		want string
	}{
		{"clear", b.ClearHotlist, "-1"},
		{"enable", b.EnableHotlist, "+"},
		{"disable", b.DisableHotlist, "-"},
		{"low", func() { b.SetHotlist(weechat.HotlistLow) }, "0"},
		{"message", func() { b.SetHotlist(weechat.HotlistMessage) }, "1"},
		{"private", func() { b.SetHotlist(weechat.HotlistPrivate) }, "2"},
		{"highlight", func() { b.SetHotlist(weechat.HotlistHighlight) }, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call()
			got, ok := env.host.BufferProperty(b.Address(), "hotlist")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuffer_Notify(t *testing.T) {
	env := newTestEnv(t)
	b := env.buffer(t, "core")

	levels := map[weechat.NotifyLevel]string{
		weechat.NotifyNever:                 "0",
		weechat.NotifyHighlights:            "1",
		weechat.NotifyHighlightsAndMessages: "2",
		weechat.NotifyAllMessages:           "3",
	}
	for level, want := range levels {
		b.SetNotify(level)
		got, _ := env.host.BufferProperty(b.Address(), "notify")
		assert.Equal(t, want, got)
	}
}

func TestBuffer_SetStripsNul(t *testing.T) {
	env := newTestEnv(t)
	b := env.buffer(t, "core")

	b.Set("ti\x00tle", "hello\x00 world")
	got, ok := env.host.BufferProperty(b.Address(), "title")
	require.True(t, ok)
	assert.Equal(t, "hello world", got)
}

func TestBuffer_Nicklist(t *testing.T) {
	env := newTestEnv(t)
	b := env.buffer(t, "irc.#go")

	alice, err := b.AddNick(weechat.NickArgs{
		Name:        "alice",
		Color:       "cyan",
		Prefix:      "@",
		PrefixColor: "lightgreen",
		Visible:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Name())
	assert.Same(t, b, alice.Buffer())

	prefix, ok := alice.GetString("prefix")
	require.True(t, ok)
	assert.Equal(t, "@", prefix)
	color, _ := alice.GetString("color")
	assert.Equal(t, "cyan", color)
	_, ok = alice.GetString("away")
	assert.False(t, ok)

	_, err = b.AddNick(weechat.DefaultNickArgs("bob"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, env.host.Nicks(b.Address()))

	found, ok := b.SearchNick("bob")
	require.True(t, ok)
	assert.Equal(t, "bob", found.Name())

	found.Remove()
	_, ok = b.SearchNick("bob")
	assert.False(t, ok)
	assert.Equal(t, []string{"alice"}, env.host.Nicks(b.Address()))
}

func TestBuffer_AddNickRefused(t *testing.T) {
	env := newTestEnv(t)
	b := env.buffer(t, "core")

	_, err := b.AddNick(weechat.DefaultNickArgs("carol"))
	require.NoError(t, err)

	nick, err := b.AddNick(weechat.DefaultNickArgs("carol"))
	assert.Nil(t, nick)
	e := requireCode(t, err, weechat.ErrCodeNickCreation)
	assert.Equal(t, "carol", e.Context["nick"])

	_, err = b.AddNick(weechat.DefaultNickArgs(""))
	requireCode(t, err, weechat.ErrCodeNickCreation)
}

func TestDefaultNickArgs(t *testing.T) {
	args := weechat.DefaultNickArgs("dave")
	assert.Equal(t, weechat.NickArgs{Name: "dave", Visible: true}, args)
}
