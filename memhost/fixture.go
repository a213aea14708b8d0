// fixture.go: Populating an in-memory host from fixture files
//
// A fixture describes schemas, objects, lists and buffers:
//
//	schemas:
//	  buffer:
//	    prev: prev_buffer
//	    next: next_buffer
//	    vars:
//	      name: string
//	      number: integer
//	      prev_buffer: pointer
//	      next_buffer: pointer
//	objects:
//	  - id: core
//	    schema: buffer
//	    buffer: {plugin: core, name: weechat}
//	    fields: {name: core, number: 1}
//	lists:
//	  - {schema: buffer, name: gui_buffers, items: [core]}
//
// Pointer fields reference other objects as "@id". Time fields accept unix
// seconds or RFC 3339 strings. Lists are linked through the schema's prev
// and next variables.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memhost

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"

	weechat "github.com/agilira/go-weechat"
)

// Fixture is the decoded form of a fixture file.
type Fixture struct {
	Schemas map[string]FixtureSchema `json:"schemas" yaml:"schemas"`
	Objects []FixtureObject          `json:"objects" yaml:"objects"`
	Lists   []FixtureList            `json:"lists" yaml:"lists"`
}

// FixtureSchema declares the variables of a schema by kind name.
type FixtureSchema struct {
	Prev     string            `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next     string            `json:"next,omitempty" yaml:"next,omitempty"`
	ReadOnly []string          `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	Vars     map[string]string `json:"vars" yaml:"vars"`
}

// FixtureObject is one host object.
type FixtureObject struct {
	ID     string         `json:"id" yaml:"id"`
	Schema string         `json:"schema" yaml:"schema"`
	Buffer *FixtureBuffer `json:"buffer,omitempty" yaml:"buffer,omitempty"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// FixtureBuffer registers an object for BufferSearch.
type FixtureBuffer struct {
	Plugin string `json:"plugin" yaml:"plugin"`
	Name   string `json:"name" yaml:"name"`
}

// FixtureList links objects in order and names the head.
type FixtureList struct {
	Schema string   `json:"schema" yaml:"schema"`
	Name   string   `json:"name" yaml:"name"`
	Items  []string `json:"items" yaml:"items"`
}

// LoadFixture reads a fixture file (YAML, JSON or TOML, by extension) into
// a new host. It also returns the object addresses by fixture id.
func LoadFixture(path string) (*Host, map[string]weechat.Address, error) {
	fixture, err := ReadFixture(path)
	if err != nil {
		return nil, nil, err
	}

	host := New()
	ids, err := host.Apply(fixture)
	if err != nil {
		return nil, nil, err
	}
	return host, ids, nil
}

// ReadFixture decodes a fixture file without applying it.
func ReadFixture(path string) (Fixture, error) {
	var fixture Fixture

	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean) // #nosec G304 -- fixtures are test inputs
	if err != nil {
		return fixture, NewFixtureReadError(clean, err)
	}

	format := argus.DetectFormat(clean)
	if format == argus.FormatYAML {
		err = yaml.Unmarshal(data, &fixture)
	} else {
		err = bindFixture(data, format, &fixture)
	}
	if err != nil {
		return fixture, NewFixtureParseError(clean, err)
	}
	return fixture, nil
}

func bindFixture(data []byte, format argus.ConfigFormat, fixture *Fixture) error {
	configMap, err := argus.ParseConfig(data, format)
	if err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(configMap)
	if err != nil {
		return fmt.Errorf("failed to marshal fixture map to JSON: %w", err)
	}
	return json.Unmarshal(jsonBytes, fixture)
}

// Apply adds the fixture's schemas, objects and lists to the host. Objects
// are created before any field is set so pointers may reference objects
// declared later in the file.
func (h *Host) Apply(f Fixture) (map[string]weechat.Address, error) {
	schemaNames := make([]string, 0, len(f.Schemas))
	for name := range f.Schemas {
		schemaNames = append(schemaNames, name)
	}
	sort.Strings(schemaNames)

	kinds := make(map[string]map[string]weechat.Kind, len(f.Schemas))
	for _, name := range schemaNames {
		fs := f.Schemas[name]
		vars := make(map[string]weechat.Kind, len(fs.Vars))
		for v, kindName := range fs.Vars {
			kind, ok := weechat.ParseKind(kindName)
			if !ok {
				return nil, NewFixtureInvalidError(fmt.Sprintf("schema %s: variable %s has unknown kind %q", name, v, kindName))
			}
			vars[v] = kind
		}
		kinds[name] = vars
		h.DefineSchema(name, SchemaDef{Vars: vars, Prev: fs.Prev, Next: fs.Next, ReadOnly: fs.ReadOnly})
	}

	ids := make(map[string]weechat.Address, len(f.Objects))
	for i, obj := range f.Objects {
		if obj.ID == "" {
			return nil, NewFixtureInvalidError(fmt.Sprintf("object %d has no id", i))
		}
		if _, dup := ids[obj.ID]; dup {
			return nil, NewFixtureInvalidError("duplicate object id " + obj.ID)
		}
		if _, ok := kinds[obj.Schema]; !ok {
			return nil, NewFixtureInvalidError(fmt.Sprintf("object %s: unknown schema %q", obj.ID, obj.Schema))
		}
		ids[obj.ID] = h.AddObject(obj.Schema, nil)
	}

	for _, obj := range f.Objects {
		addr := ids[obj.ID]
		vars := kinds[obj.Schema]
		for name, raw := range obj.Fields {
			kind, ok := vars[name]
			if !ok {
				return nil, NewFixtureInvalidError(fmt.Sprintf("object %s: unknown variable %q", obj.ID, name))
			}
			value, err := fixtureValue(kind, raw, ids)
			if err != nil {
				return nil, NewFixtureInvalidError(fmt.Sprintf("object %s: variable %s: %v", obj.ID, name, err))
			}
			h.SetField(addr, name, value)
		}
		if obj.Buffer != nil {
			h.RegisterBuffer(obj.Buffer.Plugin, obj.Buffer.Name, addr)
		}
	}

	for _, list := range f.Lists {
		if _, ok := kinds[list.Schema]; !ok {
			return nil, NewFixtureInvalidError(fmt.Sprintf("list %s: unknown schema %q", list.Name, list.Schema))
		}
		addrs := make([]weechat.Address, 0, len(list.Items))
		for _, id := range list.Items {
			addr, ok := ids[id]
			if !ok {
				return nil, NewFixtureInvalidError(fmt.Sprintf("list %s: unknown object %q", list.Name, id))
			}
			addrs = append(addrs, addr)
		}
		h.Link(list.Schema, list.Name, addrs...)
	}

	return ids, nil
}

// fixtureValue converts a decoded fixture value into the stored
// representation of kind.
func fixtureValue(kind weechat.Kind, raw any, ids map[string]weechat.Address) (any, error) {
	switch kind {
	case weechat.KindString:
		if raw == nil {
			return nil, nil
		}
		return fmt.Sprint(raw), nil
	case weechat.KindInteger:
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%d overflows integer", n)
		}
		return int32(n), nil
	case weechat.KindLong:
		return toInt64(raw)
	case weechat.KindChar:
		if s, ok := raw.(string); ok {
			if len(s) != 1 {
				return nil, fmt.Errorf("char must be a single byte, got %q", s)
			}
			return int8(s[0]), nil
		}
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt8 || n > math.MaxInt8 {
			return nil, fmt.Errorf("%d overflows char", n)
		}
		return int8(n), nil
	case weechat.KindTime:
		switch v := raw.(type) {
		case time.Time:
			return v.Unix(), nil
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t.Unix(), nil
			}
		}
		return toInt64(raw)
	case weechat.KindPointer:
		if raw == nil {
			return weechat.Address(0), nil
		}
		ref, ok := raw.(string)
		if !ok || !strings.HasPrefix(ref, "@") {
			return nil, fmt.Errorf("pointer must be an @id reference, got %v", raw)
		}
		addr, ok := ids[strings.TrimPrefix(ref, "@")]
		if !ok {
			return nil, fmt.Errorf("unknown object %q", ref)
		}
		return addr, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows long", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("%v overflows long", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}
