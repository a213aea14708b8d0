// host.go: In-memory implementation of the weechat.Host function table
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memhost

import (
	"sort"
	"strconv"
	"sync"

	weechat "github.com/agilira/go-weechat"
)

// SchemaDef describes a schema: its variables and, optionally, the pointer
// variables linking objects into a list.
type SchemaDef struct {
	Vars map[string]weechat.Kind

	// Prev and Next name the pointer variables HDataMove follows.
	Prev string
	Next string

	// ReadOnly variables are rejected by HDataUpdate.
	ReadOnly []string
}

// UpdateRecord describes the side-table of the last HDataUpdate call.
type UpdateRecord struct {
	Object    weechat.Address
	KeyType   string
	ValueType string
	Entries   map[string]string
	Updated   int
}

type schema struct {
	name     string
	handle   weechat.Schema
	vars     map[string]weechat.Kind
	prev     string
	next     string
	readOnly map[string]bool
	lists    map[string]weechat.Address
}

type object struct {
	schema *schema
	fields map[string]any
}

type sideTable struct {
	keyType   string
	valueType string
	entries   map[string]string
}

type nick struct {
	buffer      weechat.Address
	name        string
	color       string
	prefix      string
	prefixColor string
	visible     bool
}

// Host is an in-memory weechat.Host.
//
// Variable values are stored as Go values: string (a nil value is a null
// string), int32, int64, int8 for chars, int64 unix seconds for times and
// weechat.Address for pointers. All methods are safe for concurrent use.
type Host struct {
	mu sync.Mutex

	nextHandle uintptr

	schemas       map[string]*schema
	schemaHandles map[weechat.Schema]*schema
	objects       map[weechat.Address]*object
	tables        map[weechat.Table]*sideTable
	buffers       map[string]weechat.Address
	properties    map[weechat.Address]map[string]string
	nicks         map[weechat.Address]*nick

	failHashtables bool
	lastUpdate     *UpdateRecord
}

// New returns an empty host.
func New() *Host {
	return &Host{
		schemas:       make(map[string]*schema),
		schemaHandles: make(map[weechat.Schema]*schema),
		objects:       make(map[weechat.Address]*object),
		tables:        make(map[weechat.Table]*sideTable),
		buffers:       make(map[string]weechat.Address),
		properties:    make(map[weechat.Address]map[string]string),
		nicks:         make(map[weechat.Address]*nick),
	}
}

func (h *Host) alloc() uintptr {
	h.nextHandle += 0x10
	return h.nextHandle
}

// DefineSchema registers or replaces a schema.
func (h *Host) DefineSchema(name string, def SchemaDef) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.schemas[name]
	if !ok {
		s = &schema{
			name:   name,
			handle: weechat.Schema(h.alloc()),
			lists:  make(map[string]weechat.Address),
		}
		h.schemas[name] = s
		h.schemaHandles[s.handle] = s
	}

	s.vars = make(map[string]weechat.Kind, len(def.Vars))
	for k, v := range def.Vars {
		s.vars[k] = v
	}
	s.prev = def.Prev
	s.next = def.Next
	s.readOnly = make(map[string]bool, len(def.ReadOnly))
	for _, v := range def.ReadOnly {
		s.readOnly[v] = true
	}
}

// AddObject creates an object of a defined schema and returns its address.
// It returns zero if the schema is unknown.
func (h *Host) AddObject(schemaName string, fields map[string]any) weechat.Address {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.schemas[schemaName]
	if !ok {
		return 0
	}

	obj := &object{schema: s, fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		obj.fields[k] = v
	}

	addr := weechat.Address(h.alloc())
	h.objects[addr] = obj
	return addr
}

// RemoveObject forgets an object. Pointers to it become dangling.
func (h *Host) RemoveObject(addr weechat.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.objects, addr)
}

// SetField sets a variable value directly, bypassing HDataUpdate.
func (h *Host) SetField(addr weechat.Address, name string, value any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	obj, ok := h.objects[addr]
	if !ok {
		return false
	}
	obj.fields[name] = value
	return true
}

// Field returns the stored value of a variable.
func (h *Host) Field(addr weechat.Address, name string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	obj, ok := h.objects[addr]
	if !ok {
		return nil, false
	}
	v, ok := obj.fields[name]
	return v, ok
}

// Link chains objects of one schema into a list through the schema's Prev
// and Next variables and registers the first one as the head of list.
func (h *Host) Link(schemaName, list string, addrs ...weechat.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.schemas[schemaName]
	if !ok {
		return
	}

	for i, addr := range addrs {
		obj, ok := h.objects[addr]
		if !ok {
			continue
		}
		if s.prev != "" {
			var prev weechat.Address
			if i > 0 {
				prev = addrs[i-1]
			}
			obj.fields[s.prev] = prev
		}
		if s.next != "" {
			var next weechat.Address
			if i < len(addrs)-1 {
				next = addrs[i+1]
			}
			obj.fields[s.next] = next
		}
	}

	if list != "" && len(addrs) > 0 {
		s.lists[list] = addrs[0]
	}
}

// SetList registers the head of a named list.
func (h *Host) SetList(schemaName, list string, head weechat.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.schemas[schemaName]; ok {
		s.lists[list] = head
	}
}

// AddBuffer creates an object of the "buffer" schema and makes it
// findable through BufferSearch.
func (h *Host) AddBuffer(plugin, name string, fields map[string]any) weechat.Address {
	addr := h.AddObject("buffer", fields)
	if addr == 0 {
		return 0
	}
	h.RegisterBuffer(plugin, name, addr)
	return addr
}

// RegisterBuffer makes an existing object findable through BufferSearch.
func (h *Host) RegisterBuffer(plugin, name string, addr weechat.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffers[plugin+"."+name] = addr
}

// BufferProperty returns a property set through BufferSet.
func (h *Host) BufferProperty(buffer weechat.Address, property string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.properties[buffer][property]
	return v, ok
}

// FailHashtables makes HashtableNew return null while enabled.
func (h *Host) FailHashtables(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failHashtables = fail
}

// OpenHashtables returns the number of side-tables not yet freed.
func (h *Host) OpenHashtables() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tables)
}

// LastUpdate returns the side-table of the most recent HDataUpdate call.
func (h *Host) LastUpdate() (UpdateRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.lastUpdate == nil {
		return UpdateRecord{}, false
	}
	rec := *h.lastUpdate
	rec.Entries = make(map[string]string, len(h.lastUpdate.Entries))
	for k, v := range h.lastUpdate.Entries {
		rec.Entries[k] = v
	}
	return rec, true
}

// Nicks returns the names of the nicks of a buffer, sorted.
func (h *Host) Nicks(buffer weechat.Address) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var names []string
	for _, n := range h.nicks {
		if n.buffer == buffer {
			names = append(names, n.name)
		}
	}
	sort.Strings(names)
	return names
}

// lookup returns the object if it exists and belongs to the schema.
func (h *Host) lookup(handle weechat.Schema, addr weechat.Address) (*schema, *object, bool) {
	s, ok := h.schemaHandles[handle]
	if !ok {
		return nil, nil, false
	}
	obj, ok := h.objects[addr]
	if !ok || obj.schema != s {
		return s, nil, false
	}
	return s, obj, true
}

// HDataGet implements weechat.Host.
func (h *Host) HDataGet(name string) weechat.Schema {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.schemas[name]; ok {
		return s.handle
	}
	return 0
}

// HDataGetList implements weechat.Host.
func (h *Host) HDataGetList(handle weechat.Schema, name string) weechat.Address {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.schemaHandles[handle]; ok {
		return s.lists[name]
	}
	return 0
}

// HDataGetVarType implements weechat.Host.
func (h *Host) HDataGetVarType(handle weechat.Schema, name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.schemaHandles[handle]
	if !ok {
		return -1
	}
	kind, ok := s.vars[name]
	if !ok {
		return -1
	}
	return kind.Code()
}

func (h *Host) value(handle weechat.Schema, addr weechat.Address, name string) any {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, obj, ok := h.lookup(handle, addr)
	if !ok {
		return nil
	}
	return obj.fields[name]
}

// HDataString implements weechat.Host.
func (h *Host) HDataString(handle weechat.Schema, addr weechat.Address, name string) (string, bool) {
	s, ok := h.value(handle, addr, name).(string)
	return s, ok
}

// HDataInteger implements weechat.Host.
func (h *Host) HDataInteger(handle weechat.Schema, addr weechat.Address, name string) int32 {
	v, _ := h.value(handle, addr, name).(int32)
	return v
}

// HDataLong implements weechat.Host.
func (h *Host) HDataLong(handle weechat.Schema, addr weechat.Address, name string) int64 {
	v, _ := h.value(handle, addr, name).(int64)
	return v
}

// HDataChar implements weechat.Host.
func (h *Host) HDataChar(handle weechat.Schema, addr weechat.Address, name string) int8 {
	v, _ := h.value(handle, addr, name).(int8)
	return v
}

// HDataTime implements weechat.Host.
func (h *Host) HDataTime(handle weechat.Schema, addr weechat.Address, name string) int64 {
	v, _ := h.value(handle, addr, name).(int64)
	return v
}

// HDataPointer implements weechat.Host.
func (h *Host) HDataPointer(handle weechat.Schema, addr weechat.Address, name string) weechat.Address {
	v, _ := h.value(handle, addr, name).(weechat.Address)
	return v
}

// HDataMove implements weechat.Host. It follows the schema's Next variable
// for positive counts and Prev for negative ones.
func (h *Host) HDataMove(handle weechat.Schema, addr weechat.Address, count int) weechat.Address {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.schemaHandles[handle]
	if !ok || addr == 0 || count == 0 {
		return 0
	}

	link := s.next
	steps := count
	if count < 0 {
		link = s.prev
		steps = -count
	}
	if link == "" {
		return 0
	}

	current := addr
	for i := 0; i < steps; i++ {
		obj, ok := h.objects[current]
		if !ok || obj.schema != s {
			return 0
		}
		current, _ = obj.fields[link].(weechat.Address)
		if current == 0 {
			return 0
		}
	}
	return current
}

// HDataUpdate implements weechat.Host. Each entry is parsed according to
// the kind of the variable it names; unknown, read-only and unparsable
// entries are skipped and not counted.
func (h *Host) HDataUpdate(handle weechat.Schema, addr weechat.Address, table weechat.Table) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.tables[table]
	if !ok {
		return 0
	}

	rec := &UpdateRecord{
		Object:    addr,
		KeyType:   t.keyType,
		ValueType: t.valueType,
		Entries:   make(map[string]string, len(t.entries)),
	}
	for k, v := range t.entries {
		rec.Entries[k] = v
	}
	h.lastUpdate = rec

	s, obj, ok := h.lookup(handle, addr)
	if !ok {
		return 0
	}

	updated := 0
	for name, text := range t.entries {
		kind, ok := s.vars[name]
		if !ok || s.readOnly[name] {
			continue
		}
		value, ok := parseValue(kind, text)
		if !ok {
			continue
		}
		obj.fields[name] = value
		updated++
	}

	rec.Updated = updated
	return updated
}

// parseValue converts side-table text into the stored representation of a
// variable kind.
func parseValue(kind weechat.Kind, text string) (any, bool) {
	switch kind {
	case weechat.KindString:
		return text, true
	case weechat.KindInteger:
		v, err := strconv.ParseInt(text, 10, 32)
		return int32(v), err == nil
	case weechat.KindLong:
		v, err := strconv.ParseInt(text, 10, 64)
		return v, err == nil
	case weechat.KindChar:
		if text == "" {
			return int8(0), true
		}
		return int8(text[0]), true
	case weechat.KindTime:
		v, err := strconv.ParseInt(text, 10, 64)
		return v, err == nil
	case weechat.KindPointer:
		v, err := strconv.ParseUint(text, 10, 64)
		return weechat.Address(v), err == nil
	default:
		return nil, false
	}
}

// HashtableNew implements weechat.Host.
func (h *Host) HashtableNew(size int, keyType, valueType string) weechat.Table {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.failHashtables || size < 0 {
		return 0
	}

	handle := weechat.Table(h.alloc())
	h.tables[handle] = &sideTable{
		keyType:   keyType,
		valueType: valueType,
		entries:   make(map[string]string, size),
	}
	return handle
}

// HashtableSet implements weechat.Host.
func (h *Host) HashtableSet(table weechat.Table, key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.tables[table]; ok {
		t.entries[key] = value
	}
}

// HashtableFree implements weechat.Host.
func (h *Host) HashtableFree(table weechat.Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.tables, table)
}

// BufferSearch implements weechat.Host.
func (h *Host) BufferSearch(plugin, name string) weechat.Address {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffers[plugin+"."+name]
}

// BufferSet implements weechat.Host.
func (h *Host) BufferSet(buffer weechat.Address, property, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.objects[buffer]; !ok {
		return
	}
	props, ok := h.properties[buffer]
	if !ok {
		props = make(map[string]string)
		h.properties[buffer] = props
	}
	props[property] = value
}

// NicklistAddNick implements weechat.Host. Empty and duplicate names are
// refused.
func (h *Host) NicklistAddNick(buffer weechat.Address, name, color, prefix, prefixColor string, visible bool) weechat.Address {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.objects[buffer]; !ok || name == "" {
		return 0
	}
	for _, n := range h.nicks {
		if n.buffer == buffer && n.name == name {
			return 0
		}
	}

	addr := weechat.Address(h.alloc())
	h.nicks[addr] = &nick{
		buffer:      buffer,
		name:        name,
		color:       color,
		prefix:      prefix,
		prefixColor: prefixColor,
		visible:     visible,
	}
	return addr
}

// NicklistSearchNick implements weechat.Host.
func (h *Host) NicklistSearchNick(buffer weechat.Address, name string) weechat.Address {
	h.mu.Lock()
	defer h.mu.Unlock()

	for addr, n := range h.nicks {
		if n.buffer == buffer && n.name == name {
			return addr
		}
	}
	return 0
}

// NicklistNickGetString implements weechat.Host.
func (h *Host) NicklistNickGetString(buffer, addr weechat.Address, property string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.nicks[addr]
	if !ok || n.buffer != buffer {
		return "", false
	}

	switch property {
	case "name":
		return n.name, true
	case "color":
		return n.color, true
	case "prefix":
		return n.prefix, true
	case "prefix_color":
		return n.prefixColor, true
	default:
		return "", false
	}
}

// NicklistRemoveNick implements weechat.Host.
func (h *Host) NicklistRemoveNick(buffer, addr weechat.Address) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n, ok := h.nicks[addr]; ok && n.buffer == buffer {
		delete(h.nicks, addr)
	}
}

var _ weechat.Host = (*Host)(nil)
