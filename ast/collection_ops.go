package ast

import "encoding/json"

// Dot projects the named Field out of Document, binding it into Result. Used
// to reach into a bound sub-document without a further Triple hop.
type Dot struct {
	Document Value
	Field    Value
	Result   Value
}

func (Dot) isQuery()          {}
func (Dot) QueryType() string { return "Dot" }
func (d Dot) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"@type":    "Dot",
		"document": d.Document,
		"field":    d.Field,
		"value":    d.Result,
	})
}

// Length binds Result to the number of elements in List.
type Length struct {
	List   Value
	Result Value
}

func (Length) isQuery()          {}
func (Length) QueryType() string { return "Length" }
func (l Length) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"@type"`
		List   Value  `json:"list"`
		Result Value  `json:"length"`
	}{"Length", l.List, l.Result})
}

// Sum binds Result to the arithmetic sum of the numeric elements of List.
type Sum struct {
	List   Value
	Result Value
}

func (Sum) isQuery()          {}
func (Sum) QueryType() string { return "Sum" }
func (s Sum) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"@type"`
		List   Value  `json:"list"`
		Result Value  `json:"result"`
	}{"Sum", s.List, s.Result})
}
