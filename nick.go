// nick.go: Buffer nicklist entries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// NickArgs describes a nick to add to a buffer's nicklist.
type NickArgs struct {
	Name        string
	Color       string
	Prefix      string
	PrefixColor string
	Visible     bool
}

// DefaultNickArgs returns visible nick arguments with no colors or prefix.
func DefaultNickArgs(name string) NickArgs {
	return NickArgs{Name: name, Visible: true}
}

// Nick is a nicklist entry of a buffer.
type Nick struct {
	weechat *Weechat
	buffer  *Buffer
	ptr     Address
}

// AddNick adds a nick to the buffer's nicklist.
func (b *Buffer) AddNick(args NickArgs) (*Nick, error) {
	ptr := b.weechat.host.NicklistAddNick(b.ptr,
		lossyCString(args.Name),
		lossyCString(args.Color),
		lossyCString(args.Prefix),
		lossyCString(args.PrefixColor),
		args.Visible)
	if ptr == 0 {
		return nil, NewNickCreationError(args.Name)
	}

	b.weechat.logger.Debug("nick added", "nick", args.Name)
	return &Nick{weechat: b.weechat, buffer: b, ptr: ptr}, nil
}

// SearchNick finds a nick in the buffer's nicklist.
func (b *Buffer) SearchNick(name string) (*Nick, bool) {
	ptr := b.weechat.host.NicklistSearchNick(b.ptr, lossyCString(name))
	if ptr == 0 {
		return nil, false
	}
	return &Nick{weechat: b.weechat, buffer: b, ptr: ptr}, true
}

// Buffer returns the buffer the nick belongs to.
func (n *Nick) Buffer() *Buffer {
	return n.buffer
}

// GetString reads a nick property: name, color, prefix or prefix_color.
func (n *Nick) GetString(property string) (string, bool) {
	return n.weechat.host.NicklistNickGetString(n.buffer.ptr, n.ptr, lossyCString(property))
}

// Name returns the nick's name, or "" if the host no longer knows it.
func (n *Nick) Name() string {
	name, _ := n.GetString("name")
	return name
}

// Remove deletes the nick from its nicklist. The Nick must not be used
// afterwards.
func (n *Nick) Remove() {
	n.weechat.host.NicklistRemoveNick(n.buffer.ptr, n.ptr)
}
