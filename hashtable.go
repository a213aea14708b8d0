// hashtable.go: Host side-tables used to stage hdata updates
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// Hashtable is a host-owned key/value side-table.
//
// The only consumer in this package is the hdata write path, which stages
// exactly one entry and commits it with a single bulk update.
type Hashtable struct {
	weechat *Weechat
	ptr     Table
}

// NewHashtable creates a host side-table with the given capacity hint and
// declared key and value types. It reports false when the host refuses.
func (w *Weechat) NewHashtable(size int, keyType, valueType HashtableItemType) (*Hashtable, bool) {
	ptr := w.host.HashtableNew(size, keyType.String(), valueType.String())
	if ptr == 0 {
		return nil, false
	}

	return &Hashtable{weechat: w, ptr: ptr}, true
}

// Set adds or replaces an entry.
func (h *Hashtable) Set(key, value string) {
	h.weechat.host.HashtableSet(h.ptr, lossyCString(key), lossyCString(value))
}

// Free releases the host side-table. The Hashtable must not be used
// afterwards.
func (h *Hashtable) Free() {
	if h.ptr == 0 {
		return
	}
	h.weechat.host.HashtableFree(h.ptr)
	h.ptr = 0
}
