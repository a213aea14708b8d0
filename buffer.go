// buffer.go: Host buffers, hotlist and notify settings
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// Buffer is a handle to a host buffer. Like every host object it must only
// be used on the main context; use Seal to hand it to another goroutine.
type Buffer struct {
	weechat *Weechat
	ptr     Address
}

// BufferSearch finds a buffer by plugin and name.
func (w *Weechat) BufferSearch(plugin, name string) (*Buffer, bool) {
	ptr := w.host.BufferSearch(lossyCString(plugin), lossyCString(name))
	if ptr == 0 {
		return nil, false
	}
	return &Buffer{weechat: w, ptr: ptr}, true
}

// Address returns the host address of the buffer.
func (b *Buffer) Address() Address {
	return b.ptr
}

// Set changes a buffer property.
func (b *Buffer) Set(property, value string) {
	b.weechat.host.BufferSet(b.ptr, lossyCString(property), lossyCString(value))
}

// GetHData implements HasHData.
func (b *Buffer) GetHData(name string) (*HData, bool) {
	return bindHData(b.weechat, b.ptr, name)
}

// Seal wraps the buffer for transport to another goroutine.
func (b *Buffer) Seal() Sealed[*Buffer] {
	return Seal(b)
}

// HotlistPriority is the priority a buffer is added to the hotlist with.
type HotlistPriority int

const (
	HotlistLow HotlistPriority = iota
	HotlistMessage
	HotlistPrivate
	HotlistHighlight
)

func (p HotlistPriority) hostValue() string {
	switch p {
	case HotlistMessage:
		return "1"
	case HotlistPrivate:
		return "2"
	case HotlistHighlight:
		return "3"
	default:
		return "0"
	}
}

// ClearHotlist removes the buffer from the hotlist.
func (b *Buffer) ClearHotlist() {
	b.Set("hotlist", "-1")
}

// EnableHotlist allows the buffer to be added to the hotlist.
func (b *Buffer) EnableHotlist() {
	b.Set("hotlist", "+")
}

// DisableHotlist prevents the buffer from being added to the hotlist.
func (b *Buffer) DisableHotlist() {
	b.Set("hotlist", "-")
}

// SetHotlist adds the buffer to the hotlist.
func (b *Buffer) SetHotlist(priority HotlistPriority) {
	b.Set("hotlist", priority.hostValue())
}

// NotifyLevel selects which messages mark the buffer for notification.
type NotifyLevel int

const (
	NotifyNever NotifyLevel = iota
	NotifyHighlights
	NotifyHighlightsAndMessages
	NotifyAllMessages
)

func (l NotifyLevel) hostValue() string {
	switch l {
	case NotifyHighlights:
		return "1"
	case NotifyHighlightsAndMessages:
		return "2"
	case NotifyAllMessages:
		return "3"
	default:
		return "0"
	}
}

// SetNotify sets the notify level of the buffer.
func (b *Buffer) SetNotify(level NotifyLevel) {
	b.Set("notify", level.hostValue())
}
