/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package catalog loads interface descriptions and answers
// field-name-to-type lookups for the resolver.
//
// Three input shapes are supported: ROS-style .srv files (request
// fields, a "---" separator, response fields), .msg files (topic
// payloads; response namespace only), and a YAML manifest that
// declares several interfaces at once.
package catalog

import (
	"bufio"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Comcast/skillgen/core"

	"github.com/jsccast/yaml"
)

// Interface is the type information for one service or message
// interface.  Read-only after load.
type Interface struct {
	// Name is the compound identifier, e.g.
	// "blackboard_interfaces/GetIntBlackboard".
	Name string `json:"name"`

	Request  map[string]core.FieldType `json:"request,omitempty"`
	Response map[string]core.FieldType `json:"response,omitempty"`
}

// TypeName returns the part of Name after the last "/".
func (i *Interface) TypeName() string {
	if j := strings.LastIndex(i.Name, "/"); 0 <= j {
		return i.Name[j+1:]
	}
	return i.Name
}

// Catalog is an immutable lookup table built once per run and passed
// explicitly to whoever needs it.  No ambient state.
type Catalog struct {
	interfaces map[string]*Interface

	// byType indexes interfaces by bare type name so that a
	// lookup keyed only by the message-type identifier still
	// works when it's unambiguous.
	byType map[string]*Interface
}

// New makes an empty Catalog.
func New() *Catalog {
	return &Catalog{
		interfaces: make(map[string]*Interface),
		byType:     make(map[string]*Interface),
	}
}

// Add registers an interface, replacing any previous one with the
// same name.
func (c *Catalog) Add(i *Interface) {
	c.interfaces[i.Name] = i
	t := i.TypeName()
	if prev, have := c.byType[t]; have && prev.Name != i.Name {
		// Ambiguous bare name; neither wins.
		c.byType[t] = nil
	} else {
		c.byType[t] = i
	}
}

// LookupType reports the declared type of a field in the given
// namespace of the given interface.  Absence is an expected, handled
// case, not an error.
func (c *Catalog) LookupType(iface string, kind core.MessageKind, field string) (core.FieldType, bool) {
	i, have := c.interfaces[iface]
	if !have {
		i, have = c.byType[iface], true
		if i == nil {
			return core.TypeString, false
		}
	}
	var ns map[string]core.FieldType
	switch kind {
	case core.Request:
		ns = i.Request
	default:
		ns = i.Response
	}
	typ, found := ns[field]
	return typ, found
}

// Interfaces lists the loaded interfaces, sorted by name.
func (c *Catalog) Interfaces() []*Interface {
	out := make([]*Interface, 0, len(c.interfaces))
	for _, i := range c.interfaces {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// Load builds a Catalog from the given interface description files.
// Filenames decide the parser: .srv, .msg, or .yaml/.yml.
func Load(filenames ...string) (*Catalog, error) {
	return LoadWithCache(nil, filenames...)
}

// LoadWithCache is Load with an optional parse cache.  A nil cache
// just parses.
func LoadWithCache(cache *Cache, filenames ...string) (*Catalog, error) {
	c := New()
	for _, filename := range filenames {
		ifaces, hit := cache.get(filename)
		if !hit {
			var err error
			if ifaces, err = parseFile(filename); err != nil {
				return nil, err
			}
			cache.put(filename, ifaces)
		}
		for _, i := range ifaces {
			c.Add(i)
		}
	}
	return c, nil
}

func parseFile(filename string) ([]*Interface, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return parseManifest(bs)
	case ".msg":
		i := parseFields(interfaceName(filename), string(bs), false)
		return []*Interface{i}, nil
	default: // .srv
		i := parseFields(interfaceName(filename), string(bs), true)
		return []*Interface{i}, nil
	}
}

// interfaceName derives the compound identifier from a path laid out
// the ROS way: <package>/srv/<Type>.srv or <package>/msg/<Type>.msg.
// Anything else just gets the bare type name.
func interfaceName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	dir := filepath.Dir(filename)
	switch filepath.Base(dir) {
	case "srv", "msg":
		if pkg := filepath.Base(filepath.Dir(dir)); pkg != "." && pkg != string(filepath.Separator) {
			return pkg + "/" + base
		}
	}
	return base
}

// parseFields reads "type name" lines.  For .srv input a "---" line
// switches from the request namespace to the response namespace; for
// .msg input everything is response (a topic payload is what the
// generated callback receives).
func parseFields(name, src string, srv bool) *Interface {
	i := &Interface{
		Name:     name,
		Request:  map[string]core.FieldType{},
		Response: map[string]core.FieldType{},
	}

	ns := i.Response
	if srv {
		ns = i.Request
	}

	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := scanner.Text()
		if j := strings.Index(line, "#"); 0 <= j {
			line = line[:j]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "---" {
			ns = i.Response
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		typ, known := core.ParseFieldType(parts[0])
		if !known {
			// Probably a nested message type, which the
			// closed type set can't represent.  Leaving it
			// out means the resolver falls back to string.
			continue
		}
		ns[parts[1]] = typ
	}

	return i
}

// The YAML manifest form:
//
//	interfaces:
//	  - name: blackboard_interfaces/GetIntBlackboard
//	    request:
//	      field: string
//	    response:
//	      value: int32
type manifest struct {
	Interfaces []manifestInterface `yaml:"interfaces"`
}

type manifestInterface struct {
	Name     string            `yaml:"name"`
	Request  map[string]string `yaml:"request"`
	Response map[string]string `yaml:"response"`
}

func parseManifest(bs []byte) ([]*Interface, error) {
	var m manifest
	if err := yaml.Unmarshal(bs, &m); err != nil {
		return nil, err
	}
	out := make([]*Interface, 0, len(m.Interfaces))
	for _, mi := range m.Interfaces {
		i := &Interface{
			Name:     mi.Name,
			Request:  map[string]core.FieldType{},
			Response: map[string]core.FieldType{},
		}
		for field, typ := range mi.Request {
			if t, known := core.ParseFieldType(typ); known {
				i.Request[field] = t
			}
		}
		for field, typ := range mi.Response {
			if t, known := core.ParseFieldType(typ); known {
				i.Response[field] = t
			}
		}
		out = append(out, i)
	}
	return out, nil
}
