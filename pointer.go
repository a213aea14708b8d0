// pointer.go: Weak references to host objects and list traversal
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// Pointer is a weak reference to a host object.
//
// A Pointer does not keep the host object alive. Using it after the host
// freed the object is undefined; traversal always returns a fresh Pointer
// so a stale one cannot leak into others through aliasing.
//
// Canonical traversal:
//
//	next, ok := ptr.Advance(table, 1)
//	if !ok {
//	    return // end of list
//	}
//	nextTable, _ := next.GetHData("buffer")
//	name, _ := weechat.GetVar[string](nextTable, "name")
type Pointer struct {
	weechat *Weechat
	address Address
}

// Address returns the raw host address.
func (p *Pointer) Address() Address {
	return p.address
}

// IsNull reports whether the pointer is the host's null pointer.
func (p *Pointer) IsNull() bool {
	return p.address == 0
}

// Advance moves count elements along the list described by the schema of
// h. Negative counts move backwards and zero returns a copy of p. It
// reports false when p is null or the move leaves the list.
func (p *Pointer) Advance(h *HData, count int) (*Pointer, bool) {
	if p.address == 0 {
		return nil, false
	}
	if count == 0 {
		return &Pointer{weechat: p.weechat, address: p.address}, true
	}

	moved := h.weechat.host.HDataMove(h.ptr, p.address, count)
	if moved == 0 {
		return nil, false
	}

	return &Pointer{weechat: p.weechat, address: moved}, true
}

// GetHData implements HasHData.
func (p *Pointer) GetHData(name string) (*HData, bool) {
	return bindHData(p.weechat, p.address, name)
}
