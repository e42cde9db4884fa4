// Package instance models document/subdocument data independent of any
// particular Go struct: the dynamic counterpart to derive's static models,
// used when decoding arbitrary server responses or building documents whose
// shape isn't known until runtime. Grounded on the teacher's PropertyValue/
// constructor-function pattern in semantic/graphdb.go.
package instance

import (
	"encoding/json"
	"fmt"
)

// Property is one field of an Instance: a name paired with its value, which
// may itself be a nested Instance, a list, or a scalar.
type Property struct {
	Name  string
	Value interface{}
}

// Instance is a single document or subdocument, identified by its @id and
// @type and carrying an ordered property list.
type Instance struct {
	ID         string
	Type       string
	Properties []Property
}

// Get returns the value of the named property and whether it was present.
func (i *Instance) Get(name string) (interface{}, bool) {
	for _, p := range i.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Set assigns a property value, replacing any existing value for that name.
func (i *Instance) Set(name string, value interface{}) {
	for idx, p := range i.Properties {
		if p.Name == name {
			i.Properties[idx].Value = value
			return
		}
	}
	i.Properties = append(i.Properties, Property{Name: name, Value: value})
}

// New constructs an Instance with the given class id, mirroring the
// teacher's NewTransferAction/NewGraphDBRepository constructor-function
// idiom of building a tagged JSON-LD value through a plain function rather
// than a builder type.
func New(class, id string) *Instance {
	return &Instance{ID: id, Type: class}
}

// ToJSON renders the instance as a JSON-LD document with "@id" and "@type".
func (i *Instance) ToJSON() (json.RawMessage, error) {
	wire := map[string]interface{}{}
	if i.Type != "" {
		wire["@type"] = i.Type
	}
	if i.ID != "" {
		wire["@id"] = i.ID
	}
	for _, p := range i.Properties {
		switch v := p.Value.(type) {
		case *Instance:
			sub, err := v.ToJSON()
			if err != nil {
				return nil, fmt.Errorf("instance: encode %s.%s: %w", i.Type, p.Name, err)
			}
			wire[p.Name] = json.RawMessage(sub)
		case []*Instance:
			items := make([]json.RawMessage, 0, len(v))
			for _, sub := range v {
				j, err := sub.ToJSON()
				if err != nil {
					return nil, fmt.Errorf("instance: encode %s.%s[]: %w", i.Type, p.Name, err)
				}
				items = append(items, j)
			}
			wire[p.Name] = items
		default:
			wire[p.Name] = v
		}
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("instance: marshal %s: %w", i.Type, err)
	}
	return b, nil
}

// FromJSON decodes a JSON-LD document into a dynamic Instance tree,
// recursively dereferencing nested objects into sub-Instances and leaving
// scalars and arrays of scalars as-is.
func FromJSON(data []byte) (*Instance, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("instance: decode: %w", err)
	}
	return fromMap(raw)
}

func fromMap(raw map[string]interface{}) (*Instance, error) {
	inst := &Instance{}
	if t, ok := raw["@type"].(string); ok {
		inst.Type = t
	}
	if id, ok := raw["@id"].(string); ok {
		inst.ID = id
	}
	for k, v := range raw {
		if k == "@type" || k == "@id" || k == "@context" {
			continue
		}
		converted, err := fromValue(v)
		if err != nil {
			return nil, err
		}
		inst.Properties = append(inst.Properties, Property{Name: k, Value: converted})
	}
	return inst, nil
}

func fromValue(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		return fromMap(val)
	case []interface{}:
		// Distinguish a list of sub-documents from a list of scalars by
		// inspecting the first element; mixed lists are not expected on
		// the wire for a single property.
		if len(val) > 0 {
			if _, ok := val[0].(map[string]interface{}); ok {
				subs := make([]*Instance, 0, len(val))
				for _, item := range val {
					m, ok := item.(map[string]interface{})
					if !ok {
						return nil, fmt.Errorf("instance: mixed list element types")
					}
					sub, err := fromMap(m)
					if err != nil {
						return nil, err
					}
					subs = append(subs, sub)
				}
				return subs, nil
			}
		}
		return val, nil
	default:
		return val, nil
	}
}

// ToInstanceTree flattens the instance graph rooted at i into a slice of
// distinct documents keyed by @id, the way InsertDocument batches are sent
// to the server: shared sub-instances (by id) are deduplicated so a
// document referenced from two parents is only transmitted once.
func ToInstanceTree(i *Instance) ([]*Instance, error) {
	seen := map[string]bool{}
	var out []*Instance
	var walk func(n *Instance)
	walk = func(n *Instance) {
		if n.ID != "" {
			if seen[n.ID] {
				return
			}
			seen[n.ID] = true
		}
		out = append(out, n)
		for _, p := range n.Properties {
			switch v := p.Value.(type) {
			case *Instance:
				walk(v)
			case []*Instance:
				for _, sub := range v {
					walk(sub)
				}
			}
		}
	}
	walk(i)
	return out, nil
}
