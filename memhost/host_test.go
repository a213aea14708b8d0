// host_test.go: in-memory host behavior
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memhost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weechat "github.com/agilira/go-weechat"
)

func newWindowHost(t *testing.T) (*Host, weechat.Schema, []weechat.Address) {
	t.Helper()
	h := New()
	h.DefineSchema("window", SchemaDef{
		Vars: map[string]weechat.Kind{
			"number":      weechat.KindInteger,
			"title":       weechat.KindString,
			"prev_window": weechat.KindPointer,
			"next_window": weechat.KindPointer,
		},
		Prev:     "prev_window",
		Next:     "next_window",
		ReadOnly: []string{"number"},
	})

	var addrs []weechat.Address
	for i := int32(1); i <= 4; i++ {
		addrs = append(addrs, h.AddObject("window", map[string]any{"number": i}))
	}
	h.Link("window", "gui_windows", addrs...)

	schema := h.HDataGet("window")
	require.NotZero(t, schema)
	return h, schema, addrs
}

func TestHost_SchemaAndVarTypes(t *testing.T) {
	h, schema, addrs := newWindowHost(t)

	assert.Zero(t, h.HDataGet("buffer"))
	assert.Equal(t, addrs[0], h.HDataGetList(schema, "gui_windows"))
	assert.Zero(t, h.HDataGetList(schema, "last_gui_window"))

	assert.Equal(t, 2, h.HDataGetVarType(schema, "number"))
	assert.Equal(t, 4, h.HDataGetVarType(schema, "title"))
	assert.Equal(t, 5, h.HDataGetVarType(schema, "next_window"))
	assert.Equal(t, -1, h.HDataGetVarType(schema, "missing"))
	assert.Equal(t, -1, h.HDataGetVarType(weechat.Schema(0xdead), "number"))
}

func TestHost_AddObjectUnknownSchema(t *testing.T) {
	h := New()
	assert.Zero(t, h.AddObject("nope", nil))
	assert.Zero(t, h.AddBuffer("core", "weechat", nil), "buffer schema is not defined")
}

func TestHost_HDataMove(t *testing.T) {
	h, schema, addrs := newWindowHost(t)

	assert.Equal(t, addrs[1], h.HDataMove(schema, addrs[0], 1))
	assert.Equal(t, addrs[3], h.HDataMove(schema, addrs[0], 3))
	assert.Equal(t, addrs[0], h.HDataMove(schema, addrs[3], -3))
	assert.Zero(t, h.HDataMove(schema, addrs[0], 4))
	assert.Zero(t, h.HDataMove(schema, addrs[0], -1))
	assert.Zero(t, h.HDataMove(schema, addrs[2], 0), "count zero is null like the real host")
	assert.Zero(t, h.HDataMove(schema, 0, 1))
}

func TestHost_HDataMoveDanglingPointer(t *testing.T) {
	h, schema, addrs := newWindowHost(t)
	h.RemoveObject(addrs[2])

	assert.Equal(t, addrs[2], h.HDataMove(schema, addrs[0], 2))
	assert.Zero(t, h.HDataMove(schema, addrs[0], 3))
}

func TestHost_ReadsOnlyMatchingSchema(t *testing.T) {
	h, schema, addrs := newWindowHost(t)
	h.DefineSchema("bar", SchemaDef{Vars: map[string]weechat.Kind{"number": weechat.KindInteger}})
	bar := h.HDataGet("bar")

	assert.Equal(t, int32(2), h.HDataInteger(schema, addrs[1], "number"))
	assert.Zero(t, h.HDataInteger(bar, addrs[1], "number"))
}

func TestHost_HDataUpdate(t *testing.T) {
	h, schema, addrs := newWindowHost(t)

	table := h.HashtableNew(3, "string", "string")
	require.NotZero(t, table)
	h.HashtableSet(table, "title", "main")
	h.HashtableSet(table, "number", "9")
	h.HashtableSet(table, "missing", "x")

	assert.Equal(t, 1, h.HDataUpdate(schema, addrs[0], table))
	h.HashtableFree(table)
	assert.Zero(t, h.OpenHashtables())

	title, ok := h.HDataString(schema, addrs[0], "title")
	require.True(t, ok)
	assert.Equal(t, "main", title)
	assert.Equal(t, int32(1), h.HDataInteger(schema, addrs[0], "number"), "read-only")

	rec, ok := h.LastUpdate()
	require.True(t, ok)
	assert.Equal(t, 1, rec.Updated)
	assert.Len(t, rec.Entries, 3)
}

func TestHost_HDataUpdateUnparsable(t *testing.T) {
	h, schema, addrs := newWindowHost(t)
	h.DefineSchema("window", SchemaDef{Vars: map[string]weechat.Kind{"number": weechat.KindInteger}})

	table := h.HashtableNew(1, "string", "integer")
	h.HashtableSet(table, "number", "forty-two")
	assert.Zero(t, h.HDataUpdate(schema, addrs[0], table))

	h.HashtableSet(table, "number", "42")
	assert.Equal(t, 1, h.HDataUpdate(schema, addrs[0], table))
	assert.Equal(t, int32(42), h.HDataInteger(schema, addrs[0], "number"))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind weechat.Kind
		text string
		want any
		ok   bool
	}{
		{weechat.KindString, "abc", "abc", true},
		{weechat.KindInteger, "-7", int32(-7), true},
		{weechat.KindInteger, "4294967296", int32(0), false},
		{weechat.KindLong, "4294967296", int64(4294967296), true},
		{weechat.KindChar, "xyz", int8('x'), true},
		{weechat.KindChar, "", int8(0), true},
		{weechat.KindTime, "1741944413", int64(1741944413), true},
		{weechat.KindPointer, "4096", weechat.Address(4096), true},
		{weechat.KindPointer, "-1", weechat.Address(0), false},
	}

	for _, tt := range tests {
		got, ok := parseValue(tt.kind, tt.text)
		assert.Equal(t, tt.ok, ok, "%s %q", tt.kind, tt.text)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%s %q", tt.kind, tt.text)
		}
	}
}

func TestHost_Hashtables(t *testing.T) {
	h := New()

	a := h.HashtableNew(1, "string", "string")
	b := h.HashtableNew(1, "string", "integer")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, h.OpenHashtables())

	h.FailHashtables(true)
	assert.Zero(t, h.HashtableNew(1, "string", "string"))
	h.FailHashtables(false)

	h.HashtableFree(a)
	h.HashtableFree(a)
	h.HashtableFree(b)
	assert.Zero(t, h.OpenHashtables())
	assert.Zero(t, h.HDataUpdate(weechat.Schema(1), 0, a), "freed table")
}

func TestHost_Nicklist(t *testing.T) {
	h := New()
	h.DefineSchema("buffer", SchemaDef{})
	buf := h.AddBuffer("irc", "libera.#go", nil)
	other := h.AddBuffer("irc", "libera.#rust", nil)

	alice := h.NicklistAddNick(buf, "alice", "cyan", "@", "green", true)
	require.NotZero(t, alice)
	assert.Zero(t, h.NicklistAddNick(buf, "alice", "", "", "", true))
	assert.NotZero(t, h.NicklistAddNick(other, "alice", "", "", "", true))
	assert.Zero(t, h.NicklistAddNick(0xbad, "bob", "", "", "", true))

	assert.Equal(t, alice, h.NicklistSearchNick(buf, "alice"))
	name, ok := h.NicklistNickGetString(buf, alice, "name")
	require.True(t, ok)
	assert.Equal(t, "alice", name)
	_, ok = h.NicklistNickGetString(other, alice, "name")
	assert.False(t, ok)

	h.NicklistRemoveNick(other, alice)
	assert.Equal(t, []string{"alice"}, h.Nicks(buf))
	h.NicklistRemoveNick(buf, alice)
	assert.Empty(t, h.Nicks(buf))
}

func TestHost_BufferSet(t *testing.T) {
	h := New()
	h.DefineSchema("buffer", SchemaDef{})
	buf := h.AddBuffer("core", "weechat", nil)

	assert.Equal(t, buf, h.BufferSearch("core", "weechat"))
	assert.Zero(t, h.BufferSearch("irc", "weechat"))

	h.BufferSet(buf, "hotlist", "2")
	v, ok := h.BufferProperty(buf, "hotlist")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	h.BufferSet(0xbad, "hotlist", "2")
	_, ok = h.BufferProperty(0xbad, "hotlist")
	assert.False(t, ok)
}

func TestHost_ConcurrentAccess(t *testing.T) {
	h, schema, addrs := newWindowHost(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				table := h.HashtableNew(1, "string", "string")
				h.HashtableSet(table, "title", "t")
				h.HDataUpdate(schema, addrs[j%len(addrs)], table)
				h.HashtableFree(table)
				_ = h.HDataMove(schema, addrs[0], 2)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, h.OpenHashtables())
}
