package ast

import "encoding/json"

// Less succeeds when Left orders strictly before Right.
type Less struct {
	Left, Right Value
}

func (Less) isQuery()          {}
func (Less) QueryType() string { return "Less" }
func (l Less) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Left  Value  `json:"left"`
		Right Value  `json:"right"`
	}{"Less", l.Left, l.Right})
}

// Greater succeeds when Left orders strictly after Right.
type Greater struct {
	Left, Right Value
}

func (Greater) isQuery()          {}
func (Greater) QueryType() string { return "Greater" }
func (g Greater) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"@type"`
		Left  Value  `json:"left"`
		Right Value  `json:"right"`
	}{"Greater", g.Left, g.Right})
}

// Subsumption succeeds when Child is the same class as, or a descendant
// class of, Parent according to the schema's @inherits graph.
type Subsumption struct {
	Child, Parent Value
}

func (Subsumption) isQuery()          {}
func (Subsumption) QueryType() string { return "Subsumption" }
func (s Subsumption) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"@type"`
		Child  Value  `json:"child"`
		Parent Value  `json:"parent"`
	}{"Subsumption", s.Child, s.Parent})
}

// TypeOf binds TypeIRI to the schema type of Element.
type TypeOf struct {
	Element, TypeIRI Value
}

func (TypeOf) isQuery()          {}
func (TypeOf) QueryType() string { return "TypeOf" }
func (t TypeOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type": "TypeOf",
		"value": t.Element,
		"type":  t.TypeIRI,
	})
}

// TypeCast casts Input to the XSD/class type named by TypeIRI, binding the
// result into Result. Fails if the cast is not representable.
type TypeCast struct {
	Input, TypeIRI, Result Value
}

func (TypeCast) isQuery()          {}
func (TypeCast) QueryType() string { return "Typecast" }
func (t TypeCast) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":  "Typecast",
		"value":  t.Input,
		"type":   t.TypeIRI,
		"result": t.Result,
	})
}
