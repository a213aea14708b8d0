// accessor.go: Kind-checked typed access to hdata variables
//
// Each supported Go value type has exactly one stateless Accessor. An
// accessor asks the host for the variable's kind before touching it: a read
// of the wrong kind is reported as absent and a write of the wrong kind is
// never sent to the host.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

import (
	"math"
	"strconv"
	"time"
)

// Value is the closed set of Go types an hdata variable can be read as.
//
//	string     KindString
//	int32      KindInteger
//	int64      KindLong
//	byte       KindChar
//	time.Time  KindTime
//	*Pointer   KindPointer
type Value interface {
	string | int32 | int64 | byte | time.Time | *Pointer
}

// Accessor reads and writes variables of one kind.
type Accessor[T any] interface {
	// Kind is the host kind this accessor handles.
	Kind() Kind

	// Get reads a variable. It reports false when the variable is unknown,
	// has a different kind, or holds a null value.
	Get(h *HData, name string) (T, bool)

	// Update writes a variable through a one-entry side-table and returns
	// the number of variables the host reports as updated.
	Update(h *HData, name string, value T) int
}

// AccessorFor returns the accessor for the value type T.
func AccessorFor[T Value]() Accessor[T] {
	var zero T
	var acc any
	switch any(zero).(type) {
	case string:
		acc = StringAccessor{}
	case int32:
		acc = IntegerAccessor{}
	case int64:
		acc = LongAccessor{}
	case byte:
		acc = CharAccessor{}
	case time.Time:
		acc = TimeAccessor{}
	case *Pointer:
		acc = PointerAccessor{}
	}
	return acc.(Accessor[T])
}

// GetVar reads the named variable as T.
//
//	number, ok := weechat.GetVar[int32](table, "number")
func GetVar[T Value](h *HData, name string) (T, bool) {
	return AccessorFor[T]().Get(h, name)
}

// UpdateVar writes the named variable and returns the host-reported update
// count. The count is passed through as is; zero means nothing was applied.
func UpdateVar[T Value](h *HData, name string, value T) int {
	return AccessorFor[T]().Update(h, name, value)
}

// StringAccessor handles KindString variables.
type StringAccessor struct{}

func (StringAccessor) Kind() Kind { return KindString }

func (StringAccessor) Get(h *HData, name string) (string, bool) {
	name = lossyCString(name)
	if !h.hasKind(name, KindString) {
		return "", false
	}
	return h.weechat.host.HDataString(h.ptr, h.object, name)
}

func (StringAccessor) Update(h *HData, name string, value string) int {
	name = lossyCString(name)
	if !h.hasKind(name, KindString) {
		return 0
	}
	return h.commit(name, value, ItemString)
}

// IntegerAccessor handles KindInteger variables.
type IntegerAccessor struct{}

func (IntegerAccessor) Kind() Kind { return KindInteger }

func (IntegerAccessor) Get(h *HData, name string) (int32, bool) {
	name = lossyCString(name)
	if !h.hasKind(name, KindInteger) {
		return 0, false
	}
	return h.weechat.host.HDataInteger(h.ptr, h.object, name), true
}

func (IntegerAccessor) Update(h *HData, name string, value int32) int {
	name = lossyCString(name)
	if !h.hasKind(name, KindInteger) {
		return 0
	}
	return h.commit(name, strconv.FormatInt(int64(value), 10), ItemInteger)
}

// LongAccessor handles KindLong variables.
type LongAccessor struct{}

func (LongAccessor) Kind() Kind { return KindLong }

func (LongAccessor) Get(h *HData, name string) (int64, bool) {
	name = lossyCString(name)
	if !h.hasKind(name, KindLong) {
		return 0, false
	}
	return h.weechat.host.HDataLong(h.ptr, h.object, name), true
}

func (LongAccessor) Update(h *HData, name string, value int64) int {
	name = lossyCString(name)
	if !h.hasKind(name, KindLong) {
		return 0
	}
	return h.commit(name, strconv.FormatInt(value, 10), ItemInteger)
}

// CharAccessor handles KindChar variables. Host chars are signed; negative
// values have no byte representation and read as absent, and bytes above
// 127 are refused on write since they would be stored as negative chars.
type CharAccessor struct{}

func (CharAccessor) Kind() Kind { return KindChar }

func (CharAccessor) Get(h *HData, name string) (byte, bool) {
	name = lossyCString(name)
	if !h.hasKind(name, KindChar) {
		return 0, false
	}

	c := h.weechat.host.HDataChar(h.ptr, h.object, name)
	if c < 0 {
		return 0, false
	}
	return byte(c), true
}

func (CharAccessor) Update(h *HData, name string, value byte) int {
	name = lossyCString(name)
	if !h.hasKind(name, KindChar) {
		return 0
	}
	if value > math.MaxInt8 {
		h.weechat.logger.Debug("hdata char out of range",
			"variable", name,
			"value", int(value))
		return 0
	}
	return h.commit(name, string([]byte{value}), ItemString)
}

// TimeAccessor handles KindTime variables. Host times are unix seconds;
// values are returned in UTC and written truncated to the second.
type TimeAccessor struct{}

func (TimeAccessor) Kind() Kind { return KindTime }

func (TimeAccessor) Get(h *HData, name string) (time.Time, bool) {
	name = lossyCString(name)
	if !h.hasKind(name, KindTime) {
		return time.Time{}, false
	}
	return time.Unix(h.weechat.host.HDataTime(h.ptr, h.object, name), 0).UTC(), true
}

func (TimeAccessor) Update(h *HData, name string, value time.Time) int {
	name = lossyCString(name)
	if !h.hasKind(name, KindTime) {
		return 0
	}
	return h.commit(name, strconv.FormatInt(value.Unix(), 10), ItemInteger)
}

// PointerAccessor handles KindPointer variables. A null host pointer is
// still returned as a Pointer; check it with IsNull.
type PointerAccessor struct{}

func (PointerAccessor) Kind() Kind { return KindPointer }

func (PointerAccessor) Get(h *HData, name string) (*Pointer, bool) {
	name = lossyCString(name)
	if !h.hasKind(name, KindPointer) {
		return nil, false
	}
	return &Pointer{
		weechat: h.weechat,
		address: h.weechat.host.HDataPointer(h.ptr, h.object, name),
	}, true
}

func (PointerAccessor) Update(h *HData, name string, value *Pointer) int {
	name = lossyCString(name)
	if !h.hasKind(name, KindPointer) {
		return 0
	}

	var addr Address
	if value != nil {
		addr = value.address
	}
	return h.commit(name, strconv.FormatUint(uint64(addr), 10), ItemInteger)
}

var (
	_ Accessor[string]    = StringAccessor{}
	_ Accessor[int32]     = IntegerAccessor{}
	_ Accessor[int64]     = LongAccessor{}
	_ Accessor[byte]      = CharAccessor{}
	_ Accessor[time.Time] = TimeAccessor{}
	_ Accessor[*Pointer]  = PointerAccessor{}
)
