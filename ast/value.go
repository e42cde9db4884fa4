// Package ast defines the wire-level abstract syntax tree for GQL: typed
// values, the query node union, path pattern algebra, and arithmetic
// expressions, all of which round-trip through the server's JSON-LD
// encoding.
package ast

import (
	"encoding/json"
	"fmt"
)

// ScalarKind enumerates the XSD datatypes the server accepts on the wire,
// grounded on the original implementation's xsd crate rather than left open.
type ScalarKind string

const (
	XSDString             ScalarKind = "xsd:string"
	XSDDecimal             ScalarKind = "xsd:decimal"
	XSDDouble              ScalarKind = "xsd:double"
	XSDBoolean             ScalarKind = "xsd:boolean"
	XSDDateTime            ScalarKind = "xsd:dateTime"
	XSDDate                ScalarKind = "xsd:date"
	XSDTime                ScalarKind = "xsd:time"
	XSDHexBinary           ScalarKind = "xsd:hexBinary"
	XSDBase64Binary        ScalarKind = "xsd:base64Binary"
	XSDNonNegativeInteger  ScalarKind = "xsd:nonNegativeInteger"
	XSDInteger             ScalarKind = "xsd:integer"
	XSDAnyURI              ScalarKind = "xsd:anyURI"
)

// Value is anything that can appear where GQL expects a node or data value:
// a bound literal, an unbound variable, or a list of values.
type Value interface {
	isValue()
	MarshalJSON() ([]byte, error)
}

// Var is an unbound (or binding) logic variable, e.g. "v:X".
type Var struct {
	Name string
}

func (Var) isValue() {}

func (v Var) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"@type":    "Value",
		"variable": v.Name,
	})
}

// NodeValue is a reference to a document/entity IRI.
type NodeValue struct {
	IRI string
}

func (NodeValue) isValue() {}

func (n NodeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"@type": "Value",
		"node":  n.IRI,
	})
}

// DataValue is a literal scalar value tagged with its XSD kind.
type DataValue struct {
	Kind  ScalarKind
	Raw   string
}

func (DataValue) isValue() {}

func (d DataValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type": "Value",
		"data": map[string]string{
			"@type":  string(d.Kind),
			"@value": d.Raw,
		},
	})
}

func (d *DataValue) UnmarshalJSON(b []byte) error {
	var wire struct {
		Data struct {
			Type  string `json:"@type"`
			Value string `json:"@value"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("ast: decode data value: %w", err)
	}
	d.Kind = ScalarKind(wire.Data.Type)
	d.Raw = wire.Data.Value
	return nil
}

// ListValue is an ordered sequence of values, used for WOQL list arguments.
type ListValue struct {
	Elements []Value
}

func (ListValue) isValue() {}

func (l ListValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type": "Value",
		"list":  l.Elements,
	})
}

// Str, Int, Bool, and Float are convenience constructors for common scalar
// kinds; callers needing dateTime/date/time/hexBinary/base64Binary/anyURI
// build a DataValue directly.

func Str(s string) DataValue   { return DataValue{Kind: XSDString, Raw: s} }
func Int(i int64) DataValue    { return DataValue{Kind: XSDInteger, Raw: fmt.Sprintf("%d", i)} }
func Bool(b bool) DataValue    { return DataValue{Kind: XSDBoolean, Raw: fmt.Sprintf("%t", b)} }
func Float(f float64) DataValue {
	return DataValue{Kind: XSDDouble, Raw: fmt.Sprintf("%g", f)}
}

func Node(iri string) NodeValue { return NodeValue{IRI: iri} }
func Variable(name string) Var  { return Var{Name: name} }
func List(vs ...Value) ListValue { return ListValue{Elements: vs} }

// DecodeValue decodes a Value from its JSON-LD wire form, switching on
// which of variable/node/data/list is present since Value carries no
// explicit discriminant of its own beyond the shared "@type":"Value" tag.
func DecodeValue(data []byte) (Value, error) {
	var wire struct {
		Variable *string          `json:"variable"`
		Node     *string          `json:"node"`
		Data     *json.RawMessage `json:"data"`
		List     []json.RawMessage `json:"list"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("ast: decode value: %w", err)
	}
	switch {
	case wire.Variable != nil:
		return Var{Name: *wire.Variable}, nil
	case wire.Node != nil:
		return NodeValue{IRI: *wire.Node}, nil
	case wire.Data != nil:
		var dv DataValue
		if err := dv.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return dv, nil
	case wire.List != nil:
		elems := make([]Value, len(wire.List))
		for i, raw := range wire.List {
			v, err := DecodeValue(raw)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return ListValue{Elements: elems}, nil
	default:
		return nil, fmt.Errorf("ast: value has none of variable/node/data/list")
	}
}

// DecodeValueFields decodes data as a JSON object and pulls out the Value
// found under each of keys, in order, leaving a nil Value where the key is
// absent or null. Used by query node decoders so each op need not hand-roll
// interface-aware unmarshaling for every Value-typed field it has.
func DecodeValueFields(data []byte, keys ...string) ([]Value, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: decode value fields: %w", err)
	}
	out := make([]Value, len(keys))
	for i, k := range keys {
		r, ok := raw[k]
		if !ok || string(r) == "null" {
			continue
		}
		v, err := DecodeValue(r)
		if err != nil {
			return nil, fmt.Errorf("ast: decode field %q: %w", k, err)
		}
		out[i] = v
	}
	return out, nil
}
