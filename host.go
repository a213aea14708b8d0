// host.go: Host function table and the Weechat capability handle
//
// The host application exposes its object tables through a flat function
// table. This file defines that table as a Go interface and wraps it into
// the Weechat handle every other type in this package is bound to.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

import (
	"strings"
)

// Address is an opaque host object address. The zero Address is the host's
// null pointer. Addresses are never dereferenced on the Go side.
type Address uintptr

// Schema is an opaque handle to a named hdata layout.
type Schema uintptr

// Table is an opaque handle to a host side-table (hashtable).
type Table uintptr

// Host is the function table exposed by the host application.
//
// Implementations translate each call into the corresponding foreign entry
// point. Every string argument has already been stripped of NUL bytes when
// it reaches the Host. Null results are reported as zero handles, or as a
// false second return value for string results.
//
// A Host is not safe for concurrent use unless the implementation says so;
// callers serialize access through the main context (see Dispatcher).
type Host interface {
	// HDataGet looks up a schema by name.
	HDataGet(name string) Schema

	// HDataGetList returns the head of a named list of the schema.
	HDataGetList(schema Schema, name string) Address

	// HDataGetVarType returns the host kind code of a variable, or a
	// negative value if the schema has no variable with that name.
	HDataGetVarType(schema Schema, name string) int

	HDataString(schema Schema, object Address, name string) (string, bool)
	HDataInteger(schema Schema, object Address, name string) int32
	HDataLong(schema Schema, object Address, name string) int64
	HDataChar(schema Schema, object Address, name string) int8
	HDataTime(schema Schema, object Address, name string) int64
	HDataPointer(schema Schema, object Address, name string) Address

	// HDataMove moves object by count elements along the schema's list
	// links. It returns zero when the move leaves the list.
	HDataMove(schema Schema, object Address, count int) Address

	// HDataUpdate applies the name→text entries of table to object and
	// returns the number of variables actually updated.
	HDataUpdate(schema Schema, object Address, table Table) int

	HashtableNew(size int, keyType, valueType string) Table
	HashtableSet(table Table, key, value string)
	HashtableFree(table Table)

	BufferSearch(plugin, name string) Address
	BufferSet(buffer Address, property, value string)

	NicklistAddNick(buffer Address, name, color, prefix, prefixColor string, visible bool) Address
	NicklistSearchNick(buffer Address, name string) Address
	NicklistNickGetString(buffer, nick Address, property string) (string, bool)
	NicklistRemoveNick(buffer, nick Address)
}

// Weechat is the capability handle every buffer, table and pointer is bound
// to. It pairs the host function table with the logger used by this layer.
//
// A Weechat value may be shared freely, but the host objects reachable
// through it must only be touched from the main context.
type Weechat struct {
	host   Host
	logger Logger
}

// NewWeechat binds a host function table. The logger argument accepts
// anything NewLogger accepts; nil selects a silent logger.
func NewWeechat(host Host, logger any) *Weechat {
	return &Weechat{
		host:   host,
		logger: NewLogger(logger).With("component", "weechat"),
	}
}

// Host returns the underlying function table.
func (w *Weechat) Host() Host {
	return w.host
}

// Logger returns the logger attached to this handle.
func (w *Weechat) Logger() Logger {
	return w.logger
}

// ListHead returns a pointer to the head of a named list of a schema,
// e.g. ("buffer", "gui_buffers").
func (w *Weechat) ListHead(schemaName, listName string) (*Pointer, bool) {
	schema := w.host.HDataGet(lossyCString(schemaName))
	if schema == 0 {
		return nil, false
	}

	head := w.host.HDataGetList(schema, lossyCString(listName))
	if head == 0 {
		return nil, false
	}

	return &Pointer{weechat: w, address: head}, true
}

// lossyCString prepares a string for the host boundary. Host strings are
// NUL terminated, so embedded NULs are dropped.
func lossyCString(s string) string {
	if strings.IndexByte(s, 0) < 0 {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}
