// kind.go: Kind tags of hdata variables and side-table item types
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

// Kind is the runtime-reported primitive type of an hdata variable.
//
// The set is closed. The host is the only source of truth for the kind of
// a variable; this package never infers it, it only checks against it.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindLong
	KindChar
	KindTime
	KindPointer
)

// Host kind codes as reported by HDataGetVarType.
const (
	hostKindOther        = 0
	hostKindChar         = 1
	hostKindInteger      = 2
	hostKindLong         = 3
	hostKindString       = 4
	hostKindPointer      = 5
	hostKindTime         = 6
	hostKindHashtable    = 7
	hostKindSharedString = 8
)

// String returns the host's name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindLong:
		return "long"
	case KindChar:
		return "char"
	case KindTime:
		return "time"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Code returns the host kind code for k.
func (k Kind) Code() int {
	switch k {
	case KindString:
		return hostKindString
	case KindInteger:
		return hostKindInteger
	case KindLong:
		return hostKindLong
	case KindChar:
		return hostKindChar
	case KindTime:
		return hostKindTime
	case KindPointer:
		return hostKindPointer
	default:
		return hostKindOther
	}
}

// KindFromCode maps a host kind code to a Kind. Codes outside the six
// supported kinds (other, hashtable, shared string, unknown variables)
// report false.
func KindFromCode(code int) (Kind, bool) {
	switch code {
	case hostKindString:
		return KindString, true
	case hostKindInteger:
		return KindInteger, true
	case hostKindLong:
		return KindLong, true
	case hostKindChar:
		return KindChar, true
	case hostKindTime:
		return KindTime, true
	case hostKindPointer:
		return KindPointer, true
	default:
		return 0, false
	}
}

// HashtableItemType is the declared type of side-table keys or values.
type HashtableItemType int

const (
	ItemInteger HashtableItemType = iota
	ItemString
	ItemPointer
	ItemBuffer
	ItemTime
)

// String returns the name the host expects when creating a side-table.
func (t HashtableItemType) String() string {
	switch t {
	case ItemInteger:
		return "integer"
	case ItemString:
		return "string"
	case ItemPointer:
		return "pointer"
	case ItemBuffer:
		return "buffer"
	case ItemTime:
		return "time"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name as returned by Kind.String back to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindString; k <= KindPointer; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
