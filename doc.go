// Package weechat provides typed, kind-checked access to the hdata tables a
// WeeChat-style host exposes to plugins, plus the plumbing needed to hand
// host objects between goroutines without touching them off the main thread.
//
// Key Features:
//   - HData: a live, non-owning view of one host object through a named schema
//   - Accessors: one stateless accessor per variable kind, each checking the
//     host-reported kind before reading or writing
//   - Pointer: weak references with list traversal (Advance)
//   - Sealed and MainToken: explicit hand-off of main-context values
//   - Dispatcher: run functions on the main context, async or blocking
//
// Basic Usage:
//
//	w := weechat.NewWeechat(host, nil)
//
//	buffer, ok := w.BufferSearch("core", "weechat")
//	if !ok {
//		return
//	}
//
//	table, ok := buffer.GetHData("buffer")
//	if !ok {
//		return
//	}
//
//	name, _ := weechat.GetVar[string](table, "name")
//	updated := weechat.UpdateVar[int32](table, "number", 2)
//
// Traversal:
//
//	head, _ := w.ListHead("buffer", "gui_buffers")
//	for ptr, ok := head, true; ok; ptr, ok = ptr.Advance(table, 1) {
//		t, _ := ptr.GetHData("buffer")
//		name, _ := weechat.GetVar[string](t, "name")
//		fmt.Println(name)
//	}
//
// Threading:
// Nothing in this package locks. Host objects are only valid on the main
// context; the Dispatcher is the only sanctioned way back onto it from
// another goroutine, and Sealed values can only be opened with the
// MainToken it passes to queued functions.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package weechat
