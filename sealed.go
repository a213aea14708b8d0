// sealed.go: Transport wrapper for main-context values
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// MainToken proves that the holder runs on the main context.
//
// The Dispatcher hands one to every function it runs on the main context.
// Unseal accepts only tokens produced by a Dispatcher, so a nil token or a
// type embedding MainToken is rejected; code running elsewhere has no way
// to obtain one unless a main-context function leaks it, which is a
// contract violation.
type MainToken interface {
	// Weechat returns the handle the dispatcher serves.
	Weechat() *Weechat

	mainContext()
}

type mainToken struct {
	weechat *Weechat
}

func (t *mainToken) Weechat() *Weechat { return t.weechat }

func (t *mainToken) mainContext() {}

// Sealed carries a value that must only be used on the main context, such
// as a *Buffer, to another goroutine.
//
// Sealing does not make the value safe to use elsewhere. It only makes the
// hand-off explicit: the receiving goroutine cannot get the value back
// without a MainToken, which in practice means going through
// Dispatcher.OnMain or OnMainBlocking.
//
//	sealed := buffer.Seal()
//	go func() {
//	    result := compute()
//	    _ = dispatcher.OnMain(func(token weechat.MainToken) {
//	        sealed.Unseal(token).Set("title", result)
//	    })
//	}()
//
// Caveats: nothing stops code from keeping the unsealed value and using it
// off the main context afterwards, and a sealed value dropped on another
// goroutine is never cleaned up on the main context.
type Sealed[T any] struct {
	value T
}

// Seal wraps a value for transport.
func Seal[T any](value T) Sealed[T] {
	return Sealed[T]{value: value}
}

// Unseal returns the wrapped value. It panics unless token was handed out
// by a Dispatcher.
func (s Sealed[T]) Unseal(token MainToken) T {
	if t, ok := token.(*mainToken); !ok || t == nil {
		panic(errUnsealWithoutToken)
	}
	return s.value
}

const errUnsealWithoutToken = "weechat: Unseal requires a MainToken from a Dispatcher"
