// hdata.go: Dynamic attribute tables over host objects
//
// An HData value binds one host schema (a named variable layout) to one
// host object. Variables are reachable only by name and their kind is known
// only when the host is asked, so every typed read or write goes through an
// Accessor that checks the kind first (see accessor.go).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// HData is a live, non-owning view of the variables of one host object.
//
// The (schema, object) pair is fixed for the lifetime of the value. Nothing
// is cached: two reads of the same variable may observe different values
// if the host changed the object in between. An HData must not outlive the
// host object it was created for.
//
// Obtain an HData from any HasHData implementation:
//
//	table, ok := buffer.GetHData("buffer")
//	if !ok {
//	    return
//	}
//	name, ok := weechat.GetVar[string](table, "name")
type HData struct {
	weechat *Weechat
	object  Address
	ptr     Schema
}

// HasHData is implemented by every type that owns or borrows a host object
// and can expose it through a named schema.
type HasHData interface {
	// GetHData binds the schema with the given name to the receiver's host
	// object. It reports false when the host does not know the schema.
	GetHData(name string) (*HData, bool)
}

// bindHData performs the schema lookup shared by all HasHData
// implementations.
func bindHData(w *Weechat, object Address, name string) (*HData, bool) {
	schema := w.host.HDataGet(lossyCString(name))
	if schema == 0 {
		return nil, false
	}

	return &HData{weechat: w, object: object, ptr: schema}, true
}

// Object returns the address of the host object the table is bound to.
func (h *HData) Object() Address {
	return h.object
}

// Kind returns the host-reported kind of a variable. It reports false when
// the variable is unknown or of a kind this package does not support.
func (h *HData) Kind(name string) (Kind, bool) {
	return KindFromCode(h.weechat.host.HDataGetVarType(h.ptr, lossyCString(name)))
}

// hasKind reports whether the host says the variable has kind want. A
// mismatch is logged at debug level since it usually means schema drift.
func (h *HData) hasKind(name string, want Kind) bool {
	code := h.weechat.host.HDataGetVarType(h.ptr, name)
	if code == want.Code() {
		return true
	}

	if code >= 0 {
		h.weechat.logger.Debug("hdata variable kind mismatch",
			"variable", name,
			"requested", want.String(),
			"host_code", code)
	}
	return false
}

// StringUnchecked reads a variable as a string without checking its kind.
//
// The caller must know the variable is a string; for any other kind the
// host reads foreign memory with the wrong layout.
func (h *HData) StringUnchecked(name string) (string, bool) {
	return h.weechat.host.HDataString(h.ptr, h.object, lossyCString(name))
}

// IntegerUnchecked reads a variable as a 32-bit integer without checking
// its kind. See StringUnchecked.
func (h *HData) IntegerUnchecked(name string) int32 {
	return h.weechat.host.HDataInteger(h.ptr, h.object, lossyCString(name))
}

// LongUnchecked reads a variable as a 64-bit integer without checking its
// kind. See StringUnchecked.
func (h *HData) LongUnchecked(name string) int64 {
	return h.weechat.host.HDataLong(h.ptr, h.object, lossyCString(name))
}

// commit stages a single name→text entry in a fresh side-table and applies
// it with one bulk update. The host's write path is table level, so even a
// single variable goes through a one-entry side-table.
func (h *HData) commit(name, text string, valueType HashtableItemType) int {
	table, ok := h.weechat.NewHashtable(1, ItemString, valueType)
	if !ok {
		h.weechat.logger.Warn("hdata update skipped, side-table creation failed",
			"variable", name)
		return 0
	}
	defer table.Free()

	table.Set(name, text)
	count := h.weechat.host.HDataUpdate(h.ptr, h.object, table.ptr)

	h.weechat.logger.Debug("hdata update",
		"variable", name,
		"value_type", valueType.String(),
		"updated", count)
	return count
}
